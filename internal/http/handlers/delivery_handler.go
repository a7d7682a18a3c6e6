package handlers

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
)

type DeliveryHandler struct {
	Zones        *services.DeliveryZoneService
	Optimization *services.DeliveryOptimizationService
}

// GET /delivery-zones
func (h *DeliveryHandler) ZoneList(c *fiber.Ctx) error {
	zones, err := h.Zones.List(apiCtx(c), merchantOf(c))
	if err != nil {
		degrade(c, "delivery_zones.list.fail", err, nil)
	}
	return render(c, "delivery_zones", fiber.Map{"Zones": zones})
}

// GET /delivery-zones/new
func (h *DeliveryHandler) NewZone(c *fiber.Ctx) error {
	return render(c, "delivery_zone_form", fiber.Map{"Form": domain.DeliveryZoneForm{EstimatedMinutes: "30", IsActive: true}})
}

// ownZone loads the zone behind :id and hides zones of other merchants.
func (h *DeliveryHandler) ownZone(c *fiber.Ctx) (domain.DeliveryZone, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return domain.DeliveryZone{}, false
	}
	zone, err := h.Zones.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "delivery_zones.get.fail", err, map[string]any{"zone_id": id.String()})
		return domain.DeliveryZone{}, false
	}
	if zone.MerchantID != merchantOf(c) {
		applog.Security(c, "access.denied.zone", map[string]any{"zone_id": id.String()})
		return domain.DeliveryZone{}, false
	}
	return zone, true
}

// GET /delivery-zones/:id/edit
func (h *DeliveryHandler) EditZone(c *fiber.Ctx) error {
	zone, ok := h.ownZone(c)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Delivery zone not found")
	}
	f := domain.DeliveryZoneForm{
		Name:             zone.Name,
		PolygonGeoJSON:   zone.PolygonGeoJSON,
		DeliveryFee:      zone.DeliveryFee.String(),
		EstimatedMinutes: strconv.Itoa(zone.EstimatedMinutes),
		IsActive:         zone.IsActive,
	}
	return render(c, "delivery_zone_form", fiber.Map{"Form": f, "ID": zone.ID.String()})
}

func zoneForm(c *fiber.Ctx) domain.DeliveryZoneForm {
	return domain.DeliveryZoneForm{
		Name:             strings.TrimSpace(c.FormValue("name")),
		PolygonGeoJSON:   strings.TrimSpace(c.FormValue("polygonGeoJson")),
		DeliveryFee:      c.FormValue("deliveryFee"),
		EstimatedMinutes: c.FormValue("estimatedMinutes"),
		IsActive:         formBool(c, "isActive"),
	}
}

// POST /delivery-zones
func (h *DeliveryHandler) CreateZone(c *fiber.Ctx) error {
	f := zoneForm(c)
	zone, err := h.Zones.Create(apiCtx(c), merchantOf(c), f)
	if err != nil {
		return zoneFormError(c, "delivery_zones.create.fail", err, f, "")
	}
	applog.Audit(c, "delivery_zones.create", map[string]any{"zone_id": zone.ID.String()})
	flash(c, "success", tr(c, "zones.saved", "Delivery zone saved."))
	return c.Redirect("/delivery-zones")
}

// POST /delivery-zones/:id
func (h *DeliveryHandler) UpdateZone(c *fiber.Ctx) error {
	zone, ok := h.ownZone(c)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Delivery zone not found")
	}
	f := zoneForm(c)
	if _, err := h.Zones.Update(apiCtx(c), zone.ID, merchantOf(c), f); err != nil {
		return zoneFormError(c, "delivery_zones.update.fail", err, f, zone.ID.String())
	}
	applog.Audit(c, "delivery_zones.update", map[string]any{"zone_id": zone.ID.String()})
	flash(c, "success", tr(c, "zones.saved", "Delivery zone saved."))
	return c.Redirect("/delivery-zones")
}

func zoneFormError(c *fiber.Ctx, action string, err error, f domain.DeliveryZoneForm, id string) error {
	status := fiber.StatusBadGateway
	if isValidation(err) {
		status = fiber.StatusBadRequest
		applog.Security(c, "validation.fail", map[string]any{"form": "delivery_zone", "reason": err.Error()})
	} else {
		applog.Error(c, action, err, nil)
	}
	flashNow(c, "error", userMessage(c, err))
	c.Status(status)
	return render(c, "delivery_zone_form", fiber.Map{"Form": f, "ID": id})
}

// POST /delivery-zones/:id/delete
func (h *DeliveryHandler) DeleteZone(c *fiber.Ctx) error {
	zone, ok := h.ownZone(c)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Delivery zone not found")
	}
	if err := h.Zones.Delete(apiCtx(c), zone.ID); err != nil {
		actionFail(c, "delivery_zones.delete.fail", err, map[string]any{"zone_id": zone.ID.String()})
		return c.Redirect("/delivery-zones")
	}
	applog.Audit(c, "delivery_zones.delete", map[string]any{"zone_id": zone.ID.String()})
	flash(c, "success", tr(c, "zones.deleted", "Delivery zone deleted."))
	return c.Redirect("/delivery-zones")
}

// GET /delivery?zoneId
func (h *DeliveryHandler) Index(c *fiber.Ctx) error {
	view, err := h.Optimization.Page(apiCtx(c), h.Zones, merchantOf(c), optionalID(c, "zoneId"))
	if err != nil {
		degrade(c, "delivery.page.fail", err, nil)
	}
	return render(c, "delivery", fiber.Map{"View": view, "TravelModes": services.TravelModes})
}

// POST /delivery/capacity
func (h *DeliveryHandler) SaveCapacity(c *fiber.Ctx) error {
	active, errA := formInt(c.FormValue("maxActiveDeliveries"))
	daily, errD := formInt(c.FormValue("maxDailyDeliveries"))
	if errA != nil || errD != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "delivery_capacity"})
		flash(c, "error", tr(c, "delivery.capacity.invalid", "Capacity limits must be whole numbers."))
		return c.Redirect("/delivery")
	}
	zoneID := optionalID(c, "zoneId")
	req := domain.DeliveryCapacityRequest{
		MerchantID:          merchantOf(c),
		DeliveryZoneID:      zoneID,
		MaxActiveDeliveries: active,
		MaxDailyDeliveries:  daily,
	}
	back := "/delivery"
	if zoneID != nil {
		back += "?zoneId=" + zoneID.String()
	}
	saved, err := h.Optimization.SaveCapacity(apiCtx(c), optionalID(c, "capacityId"), req)
	if err != nil {
		actionFail(c, "delivery.capacity.fail", err, nil)
		return c.Redirect(back)
	}
	applog.Audit(c, "delivery.capacity.save", map[string]any{"capacity_id": saved.ID.String(), "max_active": active, "max_daily": daily})
	flash(c, "success", tr(c, "delivery.capacity.saved", "Capacity saved."))
	return c.Redirect(back)
}

// POST /delivery/capacity/check {deliveryZoneId, requestedDeliveries}
func (h *DeliveryHandler) CheckCapacity(c *fiber.Ctx) error {
	var req domain.CapacityCheckRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "capacity_check"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	req.MerchantID = merchantOf(c)
	res, err := h.Optimization.CheckCapacity(apiCtx(c), req)
	if err != nil {
		return jsonActionFail(c, "delivery.capacity_check.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}

type routeBody struct {
	Waypoints      []domain.Waypoint `json:"waypoints"`
	AvoidTollRoads *bool             `json:"avoidTollRoads"`
	TravelMode     string            `json:"travelMode"`
}

func (h *DeliveryHandler) routeRequest(c *fiber.Ctx) (domain.RouteRequest, domain.RouteOptions, bool) {
	var body routeBody
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "route"})
		return domain.RouteRequest{}, domain.RouteOptions{}, false
	}
	opt := domain.RouteOptions{AvoidTollRoads: body.AvoidTollRoads}
	if mode := strings.ToLower(strings.TrimSpace(body.TravelMode)); mode != "" {
		if !slices.Contains(services.TravelModes, mode) {
			applog.Security(c, "validation.fail", map[string]any{"field": "travelMode"})
			return domain.RouteRequest{}, domain.RouteOptions{}, false
		}
		opt.TravelMode = mode
	}
	return domain.RouteRequest{MerchantID: merchantOf(c), Waypoints: body.Waypoints}, opt, true
}

// POST /delivery/routes/best {waypoints, avoidTollRoads, travelMode}
func (h *DeliveryHandler) BestRoute(c *fiber.Ctx) error {
	req, opt, ok := h.routeRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	route, err := h.Optimization.BestRoute(apiCtx(c), req, opt)
	if err != nil {
		return jsonActionFail(c, "delivery.route.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": route})
}

// POST /delivery/routes/alternatives {waypoints}
func (h *DeliveryHandler) Alternatives(c *fiber.Ctx) error {
	req, _, ok := h.routeRequest(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	routes, err := h.Optimization.Alternatives(apiCtx(c), req)
	if err != nil {
		return jsonActionFail(c, "delivery.alternatives.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": routes})
}
