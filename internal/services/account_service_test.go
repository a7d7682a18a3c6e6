package services_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/services"
)

func TestUpdatePreferencesClearsQuietHoursWhenOff(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/User/notification-preferences", r.URL.Path)
		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Nil(t, got["quietStartTime"])
		assert.Nil(t, got["quietEndTime"])
		assert.Equal(t, true, got["emailEnabled"])
		writeData(w, true)
	})
	start, end := "22:00", "07:00"
	err := services.NewAccountService(api).UpdatePreferences(t.Context(), domain.UserNotificationPreferences{
		EmailEnabled:   true,
		QuietStartTime: &start,
		QuietEndTime:   &end,
	})
	require.NoError(t, err)
}

func TestUpdatePreferencesChecksQuietHours(t *testing.T) {
	calls := 0
	svc := services.NewAccountService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeData(w, true)
	}))
	start, bad := "22:00", "7pm"

	err := svc.UpdatePreferences(t.Context(), domain.UserNotificationPreferences{RespectQuietHours: true, QuietStartTime: &start})
	assert.Equal(t, "Quiet hours must be given as HH:mm", errx.MessageOf(err))
	err = svc.UpdatePreferences(t.Context(), domain.UserNotificationPreferences{RespectQuietHours: true, QuietStartTime: &start, QuietEndTime: &bad})
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	assert.Zero(t, calls)

	padded := " 06:30 "
	require.NoError(t, svc.UpdatePreferences(t.Context(), domain.UserNotificationPreferences{RespectQuietHours: true, QuietStartTime: &start, QuietEndTime: &padded}))
	assert.Equal(t, 1, calls)
}

func TestAddAddressValidation(t *testing.T) {
	var got domain.AddressRequest
	svc := services.NewAccountService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeData(w, domain.Address{ID: uuid.New()})
	}))
	req := domain.AddressRequest{
		Title:       " Ev ",
		FullAddress: "Moda Cd. 12",
		City:        "İstanbul",
		District:    "Kadıköy",
		Latitude:    decimal.RequireFromString("40.98"),
		Longitude:   decimal.RequireFromString("29.02"),
	}
	_, err := svc.AddAddress(t.Context(), req)
	require.NoError(t, err)
	assert.Equal(t, "Ev", got.Title)

	far := req
	far.Latitude = decimal.NewFromInt(91)
	_, err = svc.AddAddress(t.Context(), far)
	assert.Equal(t, "Coordinates are out of range", errx.MessageOf(err))

	blank := req
	blank.City = "   "
	_, err = svc.AddAddress(t.Context(), blank)
	assert.Equal(t, errx.ValidationMessage, errx.MessageOf(err))
}

func TestOnboardingProgressPercent(t *testing.T) {
	assertDec(t, "0", domain.OnboardingProgress{}.Percent())
	assertDec(t, "33.33", domain.OnboardingProgress{CompletedSteps: 1, TotalSteps: 3}.Percent())
	assertDec(t, "100", domain.OnboardingProgress{CompletedSteps: 4, TotalSteps: 4}.Percent())
}

func TestOnboardingPageWithoutStatus(t *testing.T) {
	merchant := uuid.New()
	base := "/api/v1/merchants/" + merchant.String() + "/merchantonboarding"
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case base:
			w.WriteHeader(http.StatusNotFound)
		case base + "/progress":
			writeData(w, domain.OnboardingProgress{CompletedSteps: 1, TotalSteps: 5})
		case base + "/steps":
			writeData(w, []domain.OnboardingStep{{ID: uuid.New(), Name: "Documents"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	view, err := services.NewOnboardingService(api).Page(t.Context(), merchant)
	require.NoError(t, err)
	assert.Nil(t, view.Status)
	assert.Equal(t, 5, view.Progress.TotalSteps)
	assert.Len(t, view.Steps, 1)
}

func TestCompleteStepNotesLimit(t *testing.T) {
	svc := services.NewOnboardingService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	}))
	long := make([]rune, 1001)
	for i := range long {
		long[i] = 'ş'
	}
	err := svc.CompleteStep(t.Context(), uuid.New(), uuid.New(), string(long))
	assert.Equal(t, "Notes may be at most 1000 characters", errx.MessageOf(err))
}

func TestOnboardingReady(t *testing.T) {
	assert.False(t, domain.OnboardingView{}.Ready())
	assert.False(t, domain.OnboardingView{Steps: []domain.OnboardingStep{{IsCompleted: true}, {}}}.Ready())
	assert.True(t, domain.OnboardingView{Steps: []domain.OnboardingStep{{IsCompleted: true}, {IsCompleted: true}}}.Ready())
}
