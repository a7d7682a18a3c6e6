package domain

import (
	"github.com/google/uuid"
)

// Real-time tracking

type OrderTracking struct {
	ID                 uuid.UUID  `json:"id"`
	OrderID            uuid.UUID  `json:"orderId"`
	OrderNumber        string     `json:"orderNumber"`
	CourierID          *uuid.UUID `json:"courierId"`
	CourierName        string     `json:"courierName"`
	Status             string     `json:"status"`
	StatusMessage      string     `json:"statusMessage"`
	CurrentLatitude    *float64   `json:"currentLatitude"`
	CurrentLongitude   *float64   `json:"currentLongitude"`
	CurrentAddress     string     `json:"currentAddress"`
	EstimatedArrival   *Time      `json:"estimatedArrivalTime"`
	DistanceFromTarget *float64   `json:"distanceFromDestination"`
	LastUpdatedAt      Time       `json:"lastUpdatedAt"`
}

type TrackingNotification struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt Time      `json:"createdAt"`
}

type TrackingEta struct {
	ID                   uuid.UUID `json:"id"`
	EstimatedArrivalTime Time      `json:"estimatedArrivalTime"`
	EstimatedMinutes     int       `json:"estimatedMinutesRemaining"`
	DistanceRemaining    float64   `json:"distanceRemaining"`
	CalculationMethod    string    `json:"calculationMethod"`
	CreatedAt            Time      `json:"createdAt"`
}

type LocationHistory struct {
	ID         uuid.UUID `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address"`
	Speed      *float64  `json:"speed"`
	RecordedAt Time      `json:"recordedAt"`
}

type TrackingSettings struct {
	ID                       uuid.UUID `json:"id"`
	EnableLocationTracking   bool      `json:"enableLocationTracking"`
	EnablePushNotifications  bool      `json:"enablePushNotifications"`
	EnableSMSNotifications   bool      `json:"enableSMSNotifications"`
	EnableEmailNotifications bool      `json:"enableEmailNotifications"`
	LocationUpdateInterval   int       `json:"locationUpdateInterval"`
}

type StatusUpdateRequest struct {
	OrderTrackingID uuid.UUID `json:"orderTrackingId"`
	Status          string    `json:"status"`
	StatusMessage   string    `json:"statusMessage,omitempty"`
}

type LocationUpdateRequest struct {
	OrderTrackingID uuid.UUID `json:"orderTrackingId"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Address         string    `json:"address,omitempty"`
}

type TrackingView struct {
	ActiveTrackings  []OrderTracking
	Selected         *OrderTracking
	Notifications    []TrackingNotification
	CurrentEta       *TrackingEta
	EtaHistory       []TrackingEta
	Metrics          map[string]any
	LocationHistory  []LocationHistory
	IsTrackingActive bool
	MerchantSettings *TrackingSettings
	UserSettings     *TrackingSettings
}

// Documents

type MerchantDocument struct {
	ID               uuid.UUID `json:"id"`
	MerchantID       uuid.UUID `json:"merchantId"`
	MerchantName     string    `json:"merchantName"`
	DocumentType     string    `json:"documentType"`
	DocumentTypeName string    `json:"documentTypeName"`
	FileName         string    `json:"fileName"`
	FileURL          string    `json:"fileUrl"`
	FileSize         int64     `json:"fileSize"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes"`
	RejectionReason  string    `json:"rejectionReason"`
	UploadedAt       Time      `json:"uploadedAt"`
}

type DocumentType struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

type DocumentProgress struct {
	MerchantID        uuid.UUID `json:"merchantId"`
	TotalRequired     int       `json:"totalRequired"`
	Uploaded          int       `json:"uploaded"`
	Approved          int       `json:"approved"`
	Rejected          int       `json:"rejected"`
	Pending           int       `json:"pending"`
	CompletionPercent float64   `json:"completionPercentage"`
	MissingDocuments  []string  `json:"missingDocuments"`
}

type DocumentUpload struct {
	MerchantID   uuid.UUID
	DocumentType string
	Notes        string
	FileName     string
	ContentType  string
	Content      []byte
}

type DocumentsView struct {
	Documents     PagedResult[MerchantDocument]
	Progress      *DocumentProgress
	RequiredTypes []DocumentType
	DocumentType  string
	Status        string
}

// Geo analytics

type LocationAnalytics struct {
	TotalLocations  int            `json:"totalLocations"`
	UniqueUsers     int            `json:"uniqueUsers"`
	TopCities       []NamedCount   `json:"topCities"`
	TopDistricts    []NamedCount   `json:"topDistricts"`
	LocationsByHour map[string]int `json:"locationsByHour"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DeliveryZoneCoverage struct {
	TotalZones      int     `json:"totalZones"`
	ActiveZones     int     `json:"activeZones"`
	CoveredAreaKm2  float64 `json:"coveredAreaKm2"`
	MerchantsInZone int     `json:"merchantsInZones"`
}

type NearbyMerchant struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	DistanceKm float64   `json:"distanceKm"`
	IsOpen     bool      `json:"isOpen"`
}

type UserLocation struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	CreatedAt Time      `json:"createdAt"`
}

type GeoFilter struct {
	StartDate    string
	EndDate      string
	Latitude     *float64
	Longitude    *float64
	RadiusKm     float64
	CategoryType *int
}

type GeoView struct {
	Analytics       *LocationAnalytics
	Coverage        *DeliveryZoneCoverage
	NearbyMerchants []NearbyMerchant
	LocationHistory []UserLocation
	Filter          GeoFilter
}

// Audit logging

type AuditLogEntry struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	Description string    `json:"description"`
	IPAddress   string    `json:"ipAddress"`
	Severity    string    `json:"severity"`
	IsSuccess   bool      `json:"isSuccess"`
	Timestamp   Time      `json:"timestamp"`
}

type AuditQuery struct {
	Tab       string
	UserID    string
	StartDate string
	EndDate   string
	Page      int
	PageSize  int
}

type AuditView struct {
	Entries []AuditLogEntry
	Query   AuditQuery
}

type MerchantDirectoryView struct {
	Merchants    PagedResult[Merchant]
	CategoryType string
}
