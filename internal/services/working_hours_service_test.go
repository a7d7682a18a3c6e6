package services_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/services"
)

func ptr(s string) *string { return &s }

func TestParseDayAndDayName(t *testing.T) {
	d, ok := services.ParseDay("monday")
	assert.True(t, ok)
	assert.Equal(t, 1, d)

	d, ok = services.ParseDay(" Sunday ")
	assert.True(t, ok)
	assert.Equal(t, 0, d)

	_, ok = services.ParseDay("Funday")
	assert.False(t, ok)

	assert.Equal(t, "Wednesday", services.DayName(3))
	assert.Equal(t, "", services.DayName(7))
	assert.Equal(t, "", services.DayName(-1))
}

func TestFromBackend(t *testing.T) {
	wh := services.FromBackend(domain.BackendWorkingHours{DayOfWeek: 1, OpenTime: ptr("09:00:00"), CloseTime: ptr("18:30:00")})
	assert.Equal(t, "Monday", wh.DayOfWeek)
	assert.Equal(t, "09:00", wh.OpenTime)
	assert.Equal(t, "18:30", wh.CloseTime)
	assert.False(t, wh.IsOpen24Hours)

	wh = services.FromBackend(domain.BackendWorkingHours{DayOfWeek: 5, OpenTime: ptr("00:00:00"), CloseTime: ptr("23:59:00")})
	assert.True(t, wh.IsOpen24Hours)

	wh = services.FromBackend(domain.BackendWorkingHours{DayOfWeek: 0, IsClosed: true})
	assert.Equal(t, "Sunday", wh.DayOfWeek)
	assert.Equal(t, "00:00", wh.OpenTime)
	assert.Equal(t, "00:00", wh.CloseTime)
	assert.True(t, wh.IsClosed)
	assert.False(t, wh.IsOpen24Hours)
}

func TestToBackend(t *testing.T) {
	out, err := services.ToBackend(domain.UpdateWorkingHours{DayOfWeek: "Sunday", IsClosed: true, OpenTime: "09:00", CloseTime: "17:00"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.DayOfWeek)
	assert.Nil(t, out.OpenTime)
	assert.Nil(t, out.CloseTime)

	out, err = services.ToBackend(domain.UpdateWorkingHours{DayOfWeek: "Friday", IsOpen24Hours: true})
	require.NoError(t, err)
	assert.Equal(t, "00:00:00", *out.OpenTime)
	assert.Equal(t, "23:59:00", *out.CloseTime)

	out, err = services.ToBackend(domain.UpdateWorkingHours{DayOfWeek: "Tuesday", OpenTime: "09:00", CloseTime: "17:30"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.DayOfWeek)
	assert.Equal(t, "09:00:00", *out.OpenTime)
	assert.Equal(t, "17:30:00", *out.CloseTime)

	_, err = services.ToBackend(domain.UpdateWorkingHours{DayOfWeek: "Someday"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	assert.Equal(t, "Invalid DayOfWeek: Someday", errx.MessageOf(err))
}

func TestDefaultWorkingHours(t *testing.T) {
	id := uuid.New()
	rows := services.DefaultWorkingHours(id)
	require.Len(t, rows, 7)

	assert.Equal(t, time.Monday.String(), rows[0].DayOfWeek)
	assert.Equal(t, "09:00", rows[0].OpenTime)
	assert.Equal(t, "18:00", rows[0].CloseTime)
	assert.Equal(t, id, rows[0].MerchantID)

	assert.Equal(t, "Saturday", rows[5].DayOfWeek)
	assert.Equal(t, "10:00", rows[5].OpenTime)
	assert.Equal(t, "16:00", rows[5].CloseTime)

	assert.Equal(t, "Sunday", rows[6].DayOfWeek)
	assert.True(t, rows[6].IsClosed)
}

func TestGetFallsBackToDefaultsOnNotFound(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	svc := services.NewWorkingHoursService(api)

	rows, err := svc.Get(t.Context(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestBulkUpdateRejectsBadRowBeforeSending(t *testing.T) {
	hits := 0
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeData(w, nil)
	})
	svc := services.NewWorkingHoursService(api)

	err := svc.BulkUpdate(t.Context(), uuid.New(), []domain.UpdateWorkingHours{
		{DayOfWeek: "Monday", OpenTime: "09:00", CloseTime: "17:00"},
		{DayOfWeek: "Mondy"},
	})
	require.Error(t, err)
	assert.Zero(t, hits)
}

func TestBulkUpdateRejectsEmptySchedule(t *testing.T) {
	hits := 0
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeData(w, nil)
	})
	svc := services.NewWorkingHoursService(api)

	err := svc.BulkUpdate(t.Context(), uuid.New(), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	assert.Zero(t, hits)
}
