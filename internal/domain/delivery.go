package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeliveryZone struct {
	ID               uuid.UUID       `json:"id"`
	MerchantID       uuid.UUID       `json:"merchantId"`
	Name             string          `json:"name"`
	PolygonGeoJSON   string          `json:"polygonGeoJson"`
	DeliveryFee      decimal.Decimal `json:"deliveryFee"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	IsActive         bool            `json:"isActive"`
}

type DeliveryZoneRequest struct {
	MerchantID       uuid.UUID       `json:"merchantId"`
	Name             string          `json:"name"`
	PolygonGeoJSON   string          `json:"polygonGeoJson"`
	DeliveryFee      decimal.Decimal `json:"deliveryFee"`
	EstimatedMinutes int             `json:"estimatedMinutes"`
	IsActive         bool            `json:"isActive"`
}

type DeliveryZoneForm struct {
	Name             string `validate:"required,max=100"`
	PolygonGeoJSON   string `validate:"required"`
	DeliveryFee      string
	EstimatedMinutes string
	IsActive         bool
}

type DeliveryCapacityRequest struct {
	MerchantID          uuid.UUID  `json:"merchantId"`
	DeliveryZoneID      *uuid.UUID `json:"deliveryZoneId"`
	MaxActiveDeliveries int        `json:"maxActiveDeliveries"`
	MaxDailyDeliveries  int        `json:"maxDailyDeliveries"`
}

type DeliveryCapacity struct {
	ID                      uuid.UUID  `json:"id"`
	MerchantID              uuid.UUID  `json:"merchantId"`
	DeliveryZoneID          *uuid.UUID `json:"deliveryZoneId"`
	MaxActiveDeliveries     int        `json:"maxActiveDeliveries"`
	MaxDailyDeliveries      int        `json:"maxDailyDeliveries"`
	CurrentActiveDeliveries int        `json:"currentActiveDeliveries"`
	CurrentDailyDeliveries  int        `json:"currentDailyDeliveries"`
}

type CapacityCheckRequest struct {
	MerchantID          uuid.UUID  `json:"merchantId"`
	DeliveryZoneID      *uuid.UUID `json:"deliveryZoneId"`
	RequestedDeliveries int        `json:"requestedDeliveries"`
}

type CapacityCheck struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

type Waypoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteRequest struct {
	MerchantID uuid.UUID  `json:"merchantId"`
	Waypoints  []Waypoint `json:"waypoints"`
}

type DeliveryRoute struct {
	RouteID         uuid.UUID  `json:"routeId"`
	DistanceKm      float64    `json:"distanceKm"`
	DurationMinutes int        `json:"durationMinutes"`
	Path            []Waypoint `json:"path"`
}

type RouteAlternatives struct {
	Routes []DeliveryRoute `json:"routes"`
}

// RouteOptions are the query flags the best-route call accepts.
type RouteOptions struct {
	AvoidTollRoads *bool
	TravelMode     string
}

type DeliveryView struct {
	Zones    []DeliveryZone
	Capacity *DeliveryCapacity
	ZoneID   *uuid.UUID
}
