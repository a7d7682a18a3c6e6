package services_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/services"
)

func TestHolidayRequestClosedDay(t *testing.T) {
	req, err := services.HolidayRequest(domain.HolidayForm{
		Title:     "Bayram",
		StartDate: "2025-03-30",
		EndDate:   "2025-04-01",
		IsClosed:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bayram", req.Title)
	assert.True(t, req.StartDate.Equal(date("2025-03-30")))
	assert.True(t, req.EndDate.Equal(date("2025-04-01")))
	assert.Nil(t, req.SpecialOpenTime)
	assert.Nil(t, req.SpecialCloseTime)
}

func TestHolidayRequestSpecialHours(t *testing.T) {
	req, err := services.HolidayRequest(domain.HolidayForm{
		Title:            "Arife",
		StartDate:        "2025-03-29",
		EndDate:          "2025-03-29",
		SpecialOpenTime:  "10:00",
		SpecialCloseTime: "14:00",
	})
	require.NoError(t, err)
	require.NotNil(t, req.SpecialOpenTime)
	assert.Equal(t, "10:00:00", *req.SpecialOpenTime)
	assert.Equal(t, "14:00:00", *req.SpecialCloseTime)
}

func TestHolidayRequestRejections(t *testing.T) {
	base := domain.HolidayForm{Title: "Tatil", StartDate: "2025-05-01", EndDate: "2025-05-02"}
	cases := []struct {
		name string
		edit func(f *domain.HolidayForm)
		msg  string
	}{
		{"missing title", func(f *domain.HolidayForm) { f.Title = "" }, errx.ValidationMessage},
		{"missing start", func(f *domain.HolidayForm) { f.StartDate = "" }, "Start date is required"},
		{"bad end", func(f *domain.HolidayForm) { f.EndDate = "02/05/2025" }, "End date is required"},
		{"end before start", func(f *domain.HolidayForm) { f.EndDate = "2025-04-30" }, "End date cannot be before start date"},
		{"open without times", func(f *domain.HolidayForm) {}, "Opening and closing times are required"},
		{"bad time", func(f *domain.HolidayForm) {
			f.SpecialOpenTime, f.SpecialCloseTime = "25:00", "26:00"
		}, "Enter a valid time (HH:mm)"},
		{"close before open", func(f *domain.HolidayForm) {
			f.SpecialOpenTime, f.SpecialCloseTime = "14:00", "10:00"
		}, "Closing time must be after opening time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := base
			tc.edit(&f)
			_, err := services.HolidayRequest(f)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
			assert.Equal(t, tc.msg, errx.MessageOf(err))
		})
	}
}
