package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
)

type WorkingHoursService struct {
	API *apiclient.Client
}

func NewWorkingHoursService(api *apiclient.Client) *WorkingHoursService {
	return &WorkingHoursService{API: api}
}

// Week is Monday-first, the order the settings page lists days in.
var Week = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

// ParseDay maps an English day name to the backend's numeric day (0 = Sunday).
func ParseDay(name string) (int, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(name)) {
			return int(d), true
		}
	}
	return 0, false
}

// DayName is the inverse of ParseDay.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return ""
	}
	return time.Weekday(day).String()
}

// Get returns the merchant's schedule, or the default schedule when none is stored.
func (s *WorkingHoursService) Get(ctx context.Context, merchantID uuid.UUID) ([]domain.WorkingHours, error) {
	rows, err := apiclient.Get[[]domain.BackendWorkingHours](ctx, s.API, "api/v1/workinghours/merchant/"+merchantID.String())
	if err != nil {
		if apiclient.IsNotFound(err) {
			return DefaultWorkingHours(merchantID), nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return DefaultWorkingHours(merchantID), nil
	}
	out := make([]domain.WorkingHours, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromBackend(r))
	}
	return out, nil
}

// BulkUpdate validates every row before sending anything.
func (s *WorkingHoursService) BulkUpdate(ctx context.Context, merchantID uuid.UUID, rows []domain.UpdateWorkingHours) error {
	if len(rows) == 0 {
		return errx.Validation("No working hours submitted")
	}
	body := struct {
		WorkingHours []domain.BackendWorkingHoursUpdate `json:"workingHours"`
	}{WorkingHours: make([]domain.BackendWorkingHoursUpdate, 0, len(rows))}
	for _, r := range rows {
		b, err := ToBackend(r)
		if err != nil {
			return err
		}
		body.WorkingHours = append(body.WorkingHours, b)
	}
	return s.API.Exec(ctx, "PUT", "api/v1/workinghours/merchant/"+merchantID.String()+"/bulk", body)
}

// FromBackend converts the wire shape to the page shape.
func FromBackend(b domain.BackendWorkingHours) domain.WorkingHours {
	opens, closes := clock(b.OpenTime), clock(b.CloseTime)
	return domain.WorkingHours{
		ID:            b.ID,
		MerchantID:    b.MerchantID,
		DayOfWeek:     DayName(b.DayOfWeek),
		OpenTime:      opens,
		CloseTime:     closes,
		IsClosed:      b.IsClosed,
		IsOpen24Hours: b.OpenTime != nil && b.CloseTime != nil && opens == "00:00" && (closes == "23:59" || closes == "00:00"),
	}
}

// ToBackend converts a form row to the wire shape. Closed days carry no times and
// 24-hour days are sent as 00:00-23:59.
func ToBackend(u domain.UpdateWorkingHours) (domain.BackendWorkingHoursUpdate, error) {
	day, ok := ParseDay(u.DayOfWeek)
	if !ok {
		return domain.BackendWorkingHoursUpdate{}, errx.Validation(fmt.Sprintf("Invalid DayOfWeek: %s", u.DayOfWeek))
	}
	out := domain.BackendWorkingHoursUpdate{DayOfWeek: day, IsClosed: u.IsClosed}
	switch {
	case u.IsClosed:
	case u.IsOpen24Hours:
		out.OpenTime, out.CloseTime = timespan("00:00"), timespan("23:59")
	default:
		out.OpenTime, out.CloseTime = timespan(u.OpenTime), timespan(u.CloseTime)
	}
	return out, nil
}

// DefaultWorkingHours is Mon-Fri 09:00-18:00, Sat 10:00-16:00, Sunday closed.
func DefaultWorkingHours(merchantID uuid.UUID) []domain.WorkingHours {
	out := make([]domain.WorkingHours, 0, 7)
	for _, d := range Week {
		wh := domain.WorkingHours{MerchantID: merchantID, DayOfWeek: d.String()}
		switch d {
		case time.Saturday:
			wh.OpenTime, wh.CloseTime = "10:00", "16:00"
		case time.Sunday:
			wh.OpenTime, wh.CloseTime, wh.IsClosed = "00:00", "00:00", true
		default:
			wh.OpenTime, wh.CloseTime = "09:00", "18:00"
		}
		out = append(out, wh)
	}
	return out
}

// clock renders a backend "HH:MM:SS" as "HH:MM"; null is midnight.
func clock(ts *string) string {
	if ts == nil || len(*ts) < 5 {
		return "00:00"
	}
	return (*ts)[:5]
}

// timespan renders "HH:MM" (or "HH:MM:SS") as the backend's "HH:MM:SS". Unparseable input is null.
func timespan(hhmm string) *string {
	hhmm = strings.TrimSpace(hhmm)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, hhmm); err == nil {
			s := t.Format("15:04:05")
			return &s
		}
	}
	return nil
}
