package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type TrackingHandler struct {
	Tracking *services.TrackingService
}

// optionalID reads a guid from the query or the posted form; anything unparsable is
// treated as absent.
func optionalID(c *fiber.Ctx, key string) *uuid.UUID {
	raw := c.Query(key)
	if raw == "" && c.Method() == fiber.MethodPost {
		raw = c.FormValue(key)
	}
	if raw == "" {
		return nil
	}
	id, ok := validate.ID(raw)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": key})
		return nil
	}
	return &id
}

// GET /tracking?trackingId&orderId
func (h *TrackingHandler) Index(c *fiber.Ctx) error {
	uid, _ := validate.ID(sessionOf(c).UserID)
	view, err := h.Tracking.Page(apiCtx(c), merchantOf(c), uid,
		optionalID(c, "trackingId"), optionalID(c, "orderId"))
	if err != nil {
		degrade(c, "tracking.list.fail", err, nil)
	}
	return render(c, "tracking", fiber.Map{"View": view})
}

func trackingURL(id uuid.UUID) string {
	if id == uuid.Nil {
		return "/tracking"
	}
	return "/tracking?trackingId=" + url.QueryEscape(id.String())
}

// POST /tracking/status
func (h *TrackingHandler) UpdateStatus(c *fiber.Ctx) error {
	id, _ := validate.ID(c.FormValue("orderTrackingId"))
	req := domain.StatusUpdateRequest{
		OrderTrackingID: id,
		Status:          strings.TrimSpace(c.FormValue("status")),
		StatusMessage:   strings.TrimSpace(c.FormValue("statusMessage")),
	}
	if err := h.Tracking.UpdateStatus(apiCtx(c), req); err != nil {
		applog.Error(c, "tracking.status.fail", err, map[string]any{"tracking_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect(trackingURL(id))
	}
	applog.Audit(c, "tracking.status", map[string]any{"tracking_id": id.String(), "status": req.Status})
	flash(c, "success", tr(c, "tracking.updated", "Tracking updated."))
	return c.Redirect(trackingURL(id))
}

// POST /tracking/location
func (h *TrackingHandler) UpdateLocation(c *fiber.Ctx) error {
	id, _ := validate.ID(c.FormValue("orderTrackingId"))
	lat, okLat := validate.Float(c.FormValue("latitude"))
	lng, okLng := validate.Float(c.FormValue("longitude"))
	if !okLat || !okLng || lat == nil || lng == nil || *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		applog.Security(c, "validation.fail", map[string]any{"field": "location"})
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return c.Redirect(trackingURL(id))
	}
	req := domain.LocationUpdateRequest{
		OrderTrackingID: id,
		Latitude:        *lat,
		Longitude:       *lng,
		Address:         strings.TrimSpace(c.FormValue("address")),
	}
	if err := h.Tracking.UpdateLocation(apiCtx(c), req); err != nil {
		applog.Error(c, "tracking.location.fail", err, map[string]any{"tracking_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect(trackingURL(id))
	}
	applog.Audit(c, "tracking.location", map[string]any{"tracking_id": id.String()})
	flash(c, "success", tr(c, "tracking.updated", "Tracking updated."))
	return c.Redirect(trackingURL(id))
}
