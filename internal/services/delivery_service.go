package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/validate"
)

const (
	zoneBase         = "api/v1/deliveryzone"
	optimizationBase = "api/deliveryoptimization"

	maxZoneMinutes = 600
	maxWaypoints   = 25
)

// TravelModes are the modes the route planner understands.
var TravelModes = []string{"driving", "walking", "bicycling"}

type DeliveryZoneService struct {
	API *apiclient.Client
}

func NewDeliveryZoneService(api *apiclient.Client) *DeliveryZoneService {
	return &DeliveryZoneService{API: api}
}

func (s *DeliveryZoneService) List(ctx context.Context, merchantID uuid.UUID) ([]domain.DeliveryZone, error) {
	zones, err := apiclient.Get[[]domain.DeliveryZone](ctx, s.API, zoneBase+"/merchant/"+merchantID.String())
	if err != nil || zones == nil {
		return []domain.DeliveryZone{}, err
	}
	return zones, nil
}

func (s *DeliveryZoneService) Get(ctx context.Context, id uuid.UUID) (domain.DeliveryZone, error) {
	return apiclient.Get[domain.DeliveryZone](ctx, s.API, zoneBase+"/"+id.String())
}

func (s *DeliveryZoneService) Create(ctx context.Context, merchantID uuid.UUID, f domain.DeliveryZoneForm) (domain.DeliveryZone, error) {
	req, err := ZoneRequest(merchantID, f)
	if err != nil {
		return domain.DeliveryZone{}, err
	}
	return apiclient.Post[domain.DeliveryZone](ctx, s.API, zoneBase, req)
}

func (s *DeliveryZoneService) Update(ctx context.Context, id, merchantID uuid.UUID, f domain.DeliveryZoneForm) (domain.DeliveryZone, error) {
	req, err := ZoneRequest(merchantID, f)
	if err != nil {
		return domain.DeliveryZone{}, err
	}
	return apiclient.Put[domain.DeliveryZone](ctx, s.API, zoneBase+"/"+id.String(), req)
}

func (s *DeliveryZoneService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, zoneBase+"/"+id.String())
}

// ZoneRequest validates the zone form: a closed GeoJSON polygon, a non-negative fee
// and an estimate between 1 and 600 minutes.
func ZoneRequest(merchantID uuid.UUID, f domain.DeliveryZoneForm) (domain.DeliveryZoneRequest, error) {
	var req domain.DeliveryZoneRequest
	if err := validate.Struct(f); err != nil {
		return req, errx.Validation("")
	}
	if err := CheckPolygon(f.PolygonGeoJSON); err != nil {
		return req, err
	}
	fee := decimal.Zero
	if raw := strings.TrimSpace(f.DeliveryFee); raw != "" {
		v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
		if err != nil || v.IsNegative() {
			return req, errx.Validation("Delivery fee cannot be negative")
		}
		fee = v
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(f.EstimatedMinutes))
	if err != nil || minutes < 1 || minutes > maxZoneMinutes {
		return req, errx.Validation("Estimated minutes must be between 1 and 600")
	}
	return domain.DeliveryZoneRequest{
		MerchantID:       merchantID,
		Name:             strings.TrimSpace(f.Name),
		PolygonGeoJSON:   strings.TrimSpace(f.PolygonGeoJSON),
		DeliveryFee:      fee,
		EstimatedMinutes: minutes,
		IsActive:         f.IsActive,
	}, nil
}

// CheckPolygon accepts a GeoJSON Polygon (or a Feature wrapping one) whose outer ring
// has at least four positions, starts where it ends and stays within WGS84 bounds.
func CheckPolygon(raw string) error {
	var doc struct {
		Type        string          `json:"type"`
		Coordinates [][][]float64   `json:"coordinates"`
		Geometry    json.RawMessage `json:"geometry"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return errx.Validation("Zone must be valid GeoJSON")
	}
	if doc.Type == "Feature" && len(doc.Geometry) > 0 {
		return CheckPolygon(string(doc.Geometry))
	}
	if doc.Type != "Polygon" || len(doc.Coordinates) == 0 {
		return errx.Validation("Zone must be a GeoJSON polygon")
	}
	ring := doc.Coordinates[0]
	if len(ring) < 4 {
		return errx.Validation("A zone needs at least three corners")
	}
	for _, pos := range ring {
		if len(pos) < 2 || pos[0] < -180 || pos[0] > 180 || pos[1] < -90 || pos[1] > 90 {
			return errx.Validation("Zone coordinates are out of range")
		}
	}
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		return errx.Validation("The zone outline must be closed")
	}
	return nil
}

type DeliveryOptimizationService struct {
	API *apiclient.Client
}

func NewDeliveryOptimizationService(api *apiclient.Client) *DeliveryOptimizationService {
	return &DeliveryOptimizationService{API: api}
}

// Capacity returns the merchant's capacity, for one zone when zoneID is set.
func (s *DeliveryOptimizationService) Capacity(ctx context.Context, merchantID uuid.UUID, zoneID *uuid.UUID) (domain.DeliveryCapacity, error) {
	path := optimizationBase + "/capacity/merchant/" + merchantID.String()
	if zoneID != nil {
		path += "?deliveryZoneId=" + zoneID.String()
	}
	return apiclient.Get[domain.DeliveryCapacity](ctx, s.API, path)
}

// SaveCapacity creates the capacity, or updates it when id is set.
func (s *DeliveryOptimizationService) SaveCapacity(ctx context.Context, id *uuid.UUID, req domain.DeliveryCapacityRequest) (domain.DeliveryCapacity, error) {
	if req.MaxActiveDeliveries < 1 || req.MaxDailyDeliveries < 1 {
		return domain.DeliveryCapacity{}, errx.Validation("Capacity limits must be at least 1")
	}
	if req.MaxActiveDeliveries > req.MaxDailyDeliveries {
		return domain.DeliveryCapacity{}, errx.Validation("Active deliveries cannot exceed the daily limit")
	}
	if id != nil {
		return apiclient.Put[domain.DeliveryCapacity](ctx, s.API, optimizationBase+"/capacity/"+id.String(), req)
	}
	return apiclient.Post[domain.DeliveryCapacity](ctx, s.API, optimizationBase+"/capacity", req)
}

func (s *DeliveryOptimizationService) CheckCapacity(ctx context.Context, req domain.CapacityCheckRequest) (domain.CapacityCheck, error) {
	if req.RequestedDeliveries < 1 {
		return domain.CapacityCheck{}, errx.Validation("Requested deliveries must be at least 1")
	}
	return apiclient.Post[domain.CapacityCheck](ctx, s.API, optimizationBase+"/capacity/check", req)
}

func (s *DeliveryOptimizationService) BestRoute(ctx context.Context, req domain.RouteRequest, opt domain.RouteOptions) (domain.DeliveryRoute, error) {
	if err := CheckWaypoints(req.Waypoints); err != nil {
		return domain.DeliveryRoute{}, err
	}
	q := url.Values{}
	if opt.AvoidTollRoads != nil {
		q.Set("avoidTollRoads", strconv.FormatBool(*opt.AvoidTollRoads))
	}
	if opt.TravelMode != "" {
		q.Set("travelMode", opt.TravelMode)
	}
	path := optimizationBase + "/routes/best"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return apiclient.Post[domain.DeliveryRoute](ctx, s.API, path, req)
}

func (s *DeliveryOptimizationService) Alternatives(ctx context.Context, req domain.RouteRequest) ([]domain.DeliveryRoute, error) {
	if err := CheckWaypoints(req.Waypoints); err != nil {
		return nil, err
	}
	res, err := apiclient.Post[domain.RouteAlternatives](ctx, s.API, optimizationBase+"/routes/alternatives", req)
	if err != nil || res.Routes == nil {
		return []domain.DeliveryRoute{}, err
	}
	return res.Routes, nil
}

// CheckWaypoints needs a start and at least one stop, all on the globe.
func CheckWaypoints(wps []domain.Waypoint) error {
	if len(wps) < 2 || len(wps) > maxWaypoints {
		return errx.Validation("A route needs between 2 and 25 waypoints")
	}
	for _, w := range wps {
		if w.Latitude < -90 || w.Latitude > 90 || w.Longitude < -180 || w.Longitude > 180 {
			return errx.Validation("Waypoint coordinates are out of range")
		}
	}
	return nil
}

// Page loads the zones and the merchant-wide (or zone) capacity. A merchant without a
// capacity yet is not an error.
func (s *DeliveryOptimizationService) Page(ctx context.Context, zones *DeliveryZoneService, merchantID uuid.UUID, zoneID *uuid.UUID) (domain.DeliveryView, error) {
	view := domain.DeliveryView{ZoneID: zoneID}
	list, err := zones.List(ctx, merchantID)
	view.Zones = list
	if err != nil {
		return view, err
	}
	capacity, err := s.Capacity(ctx, merchantID, zoneID)
	switch {
	case err == nil:
		view.Capacity = &capacity
	case apiclient.IsNotFound(err):
	default:
		return view, err
	}
	return view, nil
}
