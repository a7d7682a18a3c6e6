package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/validate"
)

const holidayBase = "api/v1/specialholiday"

type HolidayService struct {
	API *apiclient.Client
}

func NewHolidayService(api *apiclient.Client) *HolidayService { return &HolidayService{API: api} }

func (s *HolidayService) List(ctx context.Context, merchantID uuid.UUID, includeInactive bool) ([]domain.SpecialHoliday, error) {
	return apiclient.Get[[]domain.SpecialHoliday](ctx, s.API,
		fmt.Sprintf("%s/merchant/%s?includeInactive=%t", holidayBase, merchantID, includeInactive))
}

func (s *HolidayService) Upcoming(ctx context.Context, merchantID uuid.UUID) ([]domain.SpecialHoliday, error) {
	return apiclient.Get[[]domain.SpecialHoliday](ctx, s.API, fmt.Sprintf("%s/merchant/%s/upcoming", holidayBase, merchantID))
}

func (s *HolidayService) Availability(ctx context.Context, merchantID uuid.UUID) (domain.MerchantAvailability, error) {
	return apiclient.Get[domain.MerchantAvailability](ctx, s.API, fmt.Sprintf("%s/merchant/%s/availability", holidayBase, merchantID))
}

func (s *HolidayService) Get(ctx context.Context, id uuid.UUID) (domain.SpecialHoliday, error) {
	return apiclient.Get[domain.SpecialHoliday](ctx, s.API, holidayBase+"/"+id.String())
}

func (s *HolidayService) Create(ctx context.Context, merchantID uuid.UUID, f domain.HolidayForm) (domain.SpecialHoliday, error) {
	req, err := HolidayRequest(f)
	if err != nil {
		return domain.SpecialHoliday{}, err
	}
	req.MerchantID = &merchantID
	return apiclient.Post[domain.SpecialHoliday](ctx, s.API, holidayBase, req)
}

func (s *HolidayService) Update(ctx context.Context, id uuid.UUID, f domain.HolidayForm) (domain.SpecialHoliday, error) {
	req, err := HolidayRequest(f)
	if err != nil {
		return domain.SpecialHoliday{}, err
	}
	return apiclient.Put[domain.SpecialHoliday](ctx, s.API, holidayBase+"/"+id.String(), req)
}

func (s *HolidayService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, holidayBase+"/"+id.String())
}

// Toggle flips IsActive by writing the holiday back; the backend has no toggle endpoint.
func (s *HolidayService) Toggle(ctx context.Context, id uuid.UUID) (domain.SpecialHoliday, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return h, err
	}
	active := !h.IsActive
	req := domain.SpecialHolidayRequest{
		Title:            h.Title,
		Description:      h.Description,
		StartDate:        h.StartDate,
		EndDate:          h.EndDate,
		IsClosed:         h.IsClosed,
		SpecialOpenTime:  h.SpecialOpenTime,
		SpecialCloseTime: h.SpecialCloseTime,
		IsRecurring:      h.IsRecurring,
		IsActive:         &active,
	}
	return apiclient.Put[domain.SpecialHoliday](ctx, s.API, holidayBase+"/"+id.String(), req)
}

// HolidayRequest validates the form: the end may not precede the start, and a day that is
// not closed needs both special times with the close after the open.
func HolidayRequest(f domain.HolidayForm) (domain.SpecialHolidayRequest, error) {
	var req domain.SpecialHolidayRequest
	if err := validate.Struct(f); err != nil {
		return req, errx.Validation("")
	}
	start, ok := validate.Date(f.StartDate)
	if !ok || start == nil {
		return req, errx.Validation("Start date is required")
	}
	end, ok := validate.Date(f.EndDate)
	if !ok || end == nil {
		return req, errx.Validation("End date is required")
	}
	if end.Before(*start) {
		return req, errx.Validation("End date cannot be before start date")
	}
	req = domain.SpecialHolidayRequest{
		Title:       f.Title,
		Description: f.Description,
		StartDate:   domain.NewTime(*start),
		EndDate:     domain.NewTime(*end),
		IsClosed:    f.IsClosed,
		IsRecurring: f.IsRecurring,
	}
	if f.IsClosed {
		return req, nil
	}
	if f.SpecialOpenTime == "" || f.SpecialCloseTime == "" {
		return req, errx.Validation("Opening and closing times are required")
	}
	opens, okOpen := validate.HHMM(f.SpecialOpenTime)
	closes, okClose := validate.HHMM(f.SpecialCloseTime)
	if !okOpen || !okClose {
		return req, errx.Validation("Enter a valid time (HH:mm)")
	}
	o, _ := time.Parse("15:04", opens)
	c, _ := time.Parse("15:04", closes)
	if !c.After(o) {
		return req, errx.Validation("Closing time must be after opening time")
	}
	req.SpecialOpenTime = timespan(opens)
	req.SpecialCloseTime = timespan(closes)
	return req, nil
}

// Page loads everything the holidays page shows. Upcoming and availability are optional.
func (s *HolidayService) Page(ctx context.Context, merchantID uuid.UUID, includeInactive bool) (domain.HolidaysView, error) {
	view := domain.HolidaysView{IncludeInactive: includeInactive, Holidays: []domain.SpecialHoliday{}, Upcoming: []domain.SpecialHoliday{}}
	list, err := s.List(ctx, merchantID, includeInactive)
	if err != nil {
		return view, err
	}
	if list != nil {
		view.Holidays = list
	}
	if up, err := s.Upcoming(ctx, merchantID); err == nil && up != nil {
		view.Upcoming = up
	}
	if av, err := s.Availability(ctx, merchantID); err == nil {
		view.Availability = &av
	}
	return view, nil
}
