package services_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/services"
)

func TestTrackingPageKeepsOnlyFetchedSettings(t *testing.T) {
	userSettings := uuid.New()
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/active"):
			writeData(w, []domain.OrderTracking{})
		case strings.Contains(r.URL.Path, "/settings/merchant/"):
			w.WriteHeader(http.StatusInternalServerError)
		case strings.Contains(r.URL.Path, "/settings/user/"):
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(domain.TrackingSettings{ID: userSettings, LocationUpdateInterval: 30})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	svc := services.NewTrackingService(api)

	view, err := svc.Page(t.Context(), uuid.New(), uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, view.MerchantSettings)
	require.NotNil(t, view.UserSettings)
	assert.Equal(t, userSettings, view.UserSettings.ID)
	assert.Nil(t, view.Selected)
	assert.Empty(t, view.ActiveTrackings)
}

func TestTrackingStatusNeedsTrackingID(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call %s", r.URL.Path)
	})
	svc := services.NewTrackingService(api)

	err := svc.UpdateStatus(t.Context(), domain.StatusUpdateRequest{Status: "OnWay"})
	require.Error(t, err)
}
