package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
)

const trackingBase = "api/realtimetracking/"

type TrackingService struct {
	API *apiclient.Client
}

func NewTrackingService(api *apiclient.Client) *TrackingService { return &TrackingService{API: api} }

func (s *TrackingService) Active(ctx context.Context) ([]domain.OrderTracking, error) {
	return apiclient.Get[[]domain.OrderTracking](ctx, s.API, trackingBase+"active")
}

func (s *TrackingService) Get(ctx context.Context, id uuid.UUID) (domain.OrderTracking, error) {
	return apiclient.Get[domain.OrderTracking](ctx, s.API, trackingBase+id.String())
}

func (s *TrackingService) ByOrder(ctx context.Context, orderID uuid.UUID) (domain.OrderTracking, error) {
	return apiclient.Get[domain.OrderTracking](ctx, s.API, trackingBase+"order/"+orderID.String())
}

// Page loads the active trackings, picks the selected one, and fills in its details
// concurrently. Only the active list is required; each detail degrades to empty.
func (s *TrackingService) Page(ctx context.Context, merchantID, userID uuid.UUID, trackingID, orderID *uuid.UUID) (domain.TrackingView, error) {
	view := domain.TrackingView{
		ActiveTrackings: []domain.OrderTracking{},
		Notifications:   []domain.TrackingNotification{},
		EtaHistory:      []domain.TrackingEta{},
		LocationHistory: []domain.LocationHistory{},
		Metrics:         map[string]any{},
	}
	active, err := s.Active(ctx)
	if err != nil {
		return view, err
	}
	view.ActiveTrackings = active
	view.Selected = s.pick(ctx, active, trackingID, orderID)

	g, gctx := errgroup.WithContext(ctx)
	if merchantID != uuid.Nil {
		fetch(g, "tracking.settings.merchant", func() error {
			st, err := apiclient.GetRaw[domain.TrackingSettings](gctx, s.API, trackingBase+"settings/merchant/"+merchantID.String())
			if err != nil {
				return err
			}
			view.MerchantSettings = &st
			return nil
		})
	}
	if userID != uuid.Nil {
		fetch(g, "tracking.settings.user", func() error {
			st, err := apiclient.GetRaw[domain.TrackingSettings](gctx, s.API, trackingBase+"settings/user/"+userID.String())
			if err != nil {
				return err
			}
			view.UserSettings = &st
			return nil
		})
	}
	if sel := view.Selected; sel != nil {
		id := sel.ID.String()
		fetch(g, "tracking.notifications", func() error {
			v, err := apiclient.Get[[]domain.TrackingNotification](gctx, s.API, trackingBase+id+"/notifications")
			if err == nil && v != nil {
				view.Notifications = v
			}
			return err
		})
		fetch(g, "tracking.eta", func() error {
			v, err := apiclient.GetRaw[domain.TrackingEta](gctx, s.API, trackingBase+id+"/eta")
			if err == nil {
				view.CurrentEta = &v
			}
			return err
		})
		fetch(g, "tracking.eta_history", func() error {
			v, err := apiclient.GetRaw[[]domain.TrackingEta](gctx, s.API, trackingBase+id+"/eta/history")
			if err == nil && v != nil {
				view.EtaHistory = v
			}
			return err
		})
		fetch(g, "tracking.metrics", func() error {
			v, err := apiclient.GetRaw[map[string]any](gctx, s.API, trackingBase+id+"/metrics")
			if err == nil && v != nil {
				view.Metrics = v
			}
			return err
		})
		fetch(g, "tracking.history", func() error {
			v, err := apiclient.GetRaw[[]domain.LocationHistory](gctx, s.API, trackingBase+id+"/history")
			if err == nil && v != nil {
				view.LocationHistory = v
			}
			return err
		})
		fetch(g, "tracking.active", func() error {
			v, err := apiclient.GetRaw[struct {
				IsActive bool `json:"isActive"`
			}](gctx, s.API, trackingBase+id+"/active")
			view.IsTrackingActive = err == nil && v.IsActive
			return err
		})
	}
	_ = g.Wait()
	if view.MerchantSettings != nil && view.MerchantSettings.ID == uuid.Nil {
		view.MerchantSettings = nil
	}
	if view.UserSettings != nil && view.UserSettings.ID == uuid.Nil {
		view.UserSettings = nil
	}
	return view, nil
}

// pick prefers an explicit tracking id, then the tracking of orderID, then the first
// active tracking.
func (s *TrackingService) pick(ctx context.Context, active []domain.OrderTracking, trackingID, orderID *uuid.UUID) *domain.OrderTracking {
	if trackingID != nil {
		for i := range active {
			if active[i].ID == *trackingID {
				return &active[i]
			}
		}
		if t, err := s.Get(ctx, *trackingID); err == nil {
			return &t
		}
	}
	if orderID != nil {
		for i := range active {
			if active[i].OrderID == *orderID {
				return &active[i]
			}
		}
		if t, err := s.ByOrder(ctx, *orderID); err == nil {
			return &t
		}
	}
	if len(active) > 0 {
		return &active[0]
	}
	return nil
}

func (s *TrackingService) UpdateStatus(ctx context.Context, req domain.StatusUpdateRequest) error {
	if req.OrderTrackingID == uuid.Nil {
		return errx.Validation("Tracking id is required")
	}
	if strings.TrimSpace(req.Status) == "" {
		return errx.Validation("Status is required")
	}
	return s.API.Exec(ctx, "POST", trackingBase+"status/update", req)
}

func (s *TrackingService) UpdateLocation(ctx context.Context, req domain.LocationUpdateRequest) error {
	if req.OrderTrackingID == uuid.Nil {
		return errx.Validation("Tracking id is required")
	}
	return s.API.Exec(ctx, "POST", trackingBase+"location/update", req)
}

// fetch runs one optional branch of a fan-out, logging instead of failing the group.
func fetch(g *errgroup.Group, action string, fn func() error) {
	g.Go(func() error {
		if err := fn(); err != nil {
			applog.Warn(action+".fail", err, nil)
		}
		return nil
	})
}
