package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresAt    Time       `json:"expiresAt"`
	Role         int        `json:"role"`
	UserID       uuid.UUID  `json:"userId"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	MerchantID   *uuid.UUID `json:"merchantId"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type Merchant struct {
	ID                  uuid.UUID       `json:"id"`
	OwnerID             uuid.UUID       `json:"ownerId"`
	OwnerName           string          `json:"ownerName"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	ServiceCategoryID   uuid.UUID       `json:"serviceCategoryId"`
	ServiceCategoryName string          `json:"serviceCategoryName"`
	LogoURL             string          `json:"logoUrl"`
	CoverImageURL       string          `json:"coverImageUrl"`
	Address             string          `json:"address"`
	Latitude            decimal.Decimal `json:"latitude"`
	Longitude           decimal.Decimal `json:"longitude"`
	PhoneNumber         string          `json:"phoneNumber"`
	Email               string          `json:"email"`
	MinimumOrderAmount  decimal.Decimal `json:"minimumOrderAmount"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee"`
	AverageDeliveryTime int             `json:"averageDeliveryTime"`
	Rating              *float64        `json:"rating"`
	TotalReviews        int             `json:"totalReviews"`
	IsActive            bool            `json:"isActive"`
	IsBusy              bool            `json:"isBusy"`
	IsOpen              bool            `json:"isOpen"`
	CreatedAt           Time            `json:"createdAt"`
}

type UpdateMerchantRequest struct {
	Name                string          `json:"name" form:"name" validate:"required,max=200"`
	Description         string          `json:"description,omitempty" form:"description" validate:"max=1000"`
	Address             string          `json:"address" form:"address" validate:"required,max=500"`
	Latitude            decimal.Decimal `json:"latitude" form:"-"`
	Longitude           decimal.Decimal `json:"longitude" form:"-"`
	PhoneNumber         string          `json:"phoneNumber" form:"phoneNumber" validate:"required,phone"`
	Email               string          `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	MinimumOrderAmount  decimal.Decimal `json:"minimumOrderAmount" form:"-"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee" form:"-"`
	AverageDeliveryTime int             `json:"averageDeliveryTime" form:"averageDeliveryTime" validate:"gte=0,lte=300"`
	IsActive            bool            `json:"isActive" form:"isActive"`
	IsBusy              bool            `json:"isBusy" form:"isBusy"`
	LogoURL             string          `json:"logoUrl,omitempty" form:"logoUrl"`
	CoverImageURL       string          `json:"coverImageUrl,omitempty" form:"coverImageUrl"`
}

type CreateMerchantRequest struct {
	OwnerID            uuid.UUID       `json:"ownerId"`
	Name               string          `json:"name" validate:"required,max=200"`
	Description        string          `json:"description,omitempty"`
	ServiceCategoryID  uuid.UUID       `json:"serviceCategoryId"`
	Address            string          `json:"address" validate:"required"`
	Latitude           decimal.Decimal `json:"latitude"`
	Longitude          decimal.Decimal `json:"longitude"`
	PhoneNumber        string          `json:"phoneNumber" validate:"required,phone"`
	Email              string          `json:"email,omitempty" validate:"omitempty,email"`
	MinimumOrderAmount decimal.Decimal `json:"minimumOrderAmount"`
	DeliveryFee        decimal.Decimal `json:"deliveryFee"`
}

// WorkingHours is the portal-side shape: day names and "HH:MM" strings.
type WorkingHours struct {
	ID            uuid.UUID `json:"id"`
	MerchantID    uuid.UUID `json:"merchantId"`
	DayOfWeek     string    `json:"dayOfWeek"`
	OpenTime      string    `json:"openTime"`
	CloseTime     string    `json:"closeTime"`
	IsClosed      bool      `json:"isClosed"`
	IsOpen24Hours bool      `json:"isOpen24Hours"`
}

// UpdateWorkingHours is one row of the working-hours form.
type UpdateWorkingHours struct {
	DayOfWeek     string `json:"dayOfWeek"`
	OpenTime      string `json:"openTime"`
	CloseTime     string `json:"closeTime"`
	IsClosed      bool   `json:"isClosed"`
	IsOpen24Hours bool   `json:"isOpen24Hours"`
}

// BackendWorkingHours is the backend wire shape: numeric day, "HH:MM:SS" or null times.
type BackendWorkingHours struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchantId"`
	DayOfWeek  int       `json:"dayOfWeek"`
	OpenTime   *string   `json:"openTime"`
	CloseTime  *string   `json:"closeTime"`
	IsClosed   bool      `json:"isClosed"`
}

// BackendWorkingHoursUpdate is one row of the bulk update body.
type BackendWorkingHoursUpdate struct {
	DayOfWeek int     `json:"dayOfWeek"`
	OpenTime  *string `json:"openTime"`
	CloseTime *string `json:"closeTime"`
	IsClosed  bool    `json:"isClosed"`
}

type MerchantSettingsView struct {
	Merchant     Merchant
	WorkingHours []WorkingHours
}

type ServiceCategory struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	MerchantCount int       `json:"merchantCount"`
	IsActive      bool      `json:"isActive"`
}

// Dashboard

type DashboardStats struct {
	TotalOrders    int             `json:"totalOrders"`
	TodayOrders    int             `json:"todayOrders"`
	TodayRevenue   decimal.Decimal `json:"todayRevenue"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	ActiveProducts int             `json:"activeProducts"`
	TotalProducts  int             `json:"totalProducts"`
	AverageRating  decimal.Decimal `json:"averageRating"`
	TotalReviews   int             `json:"totalReviews"`
	IsOpen         bool            `json:"isOpen"`
	PendingOrders  int             `json:"pendingOrders"`
}

type PerformanceMetrics struct {
	AverageOrderValue         decimal.Decimal `json:"averageOrderValue"`
	OrdersPerDay              int             `json:"ordersPerDay"`
	CompletionRate            decimal.Decimal `json:"completionRate"`
	AveragePreparationTime    int             `json:"averagePreparationTime"`
	CustomerSatisfactionScore decimal.Decimal `json:"customerSatisfactionScore"`
}

type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"orderNumber"`
	CustomerName string          `json:"customerName"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    Time            `json:"createdAt"`
}

type TopProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
	ImageURL     string          `json:"imageUrl"`
}

type MerchantDashboard struct {
	Stats        *DashboardStats     `json:"stats"`
	RecentOrders []RecentOrder       `json:"recentOrders"`
	TopProducts  []TopProduct        `json:"topProducts"`
	Performance  *PerformanceMetrics `json:"performance"`
}

type DashboardView struct {
	MerchantID   uuid.UUID
	Stats        DashboardStats
	RecentOrders []RecentOrder
	TopProducts  []TopProduct
	Performance  PerformanceMetrics
	StockAlerts  []StockAlert
	StockSummary StockSummary
}

type SalesTrendPoint struct {
	Date       Time            `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"orderCount"`
}

type OrderStatusDistribution struct {
	PendingCount   int `json:"pendingCount"`
	PreparingCount int `json:"preparingCount"`
	ReadyCount     int `json:"readyCount"`
	OnWayCount     int `json:"onWayCount"`
	DeliveredCount int `json:"deliveredCount"`
	CancelledCount int `json:"cancelledCount"`
}

type CategoryPerformance struct {
	CategoryName string          `json:"categoryName"`
	OrderCount   int             `json:"orderCount"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ChartData is the Chart.js-friendly payload returned by the chart endpoints.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []any    `json:"data"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	BorderColor     string   `json:"borderColor,omitempty"`
	YAxisID         string   `json:"yAxisID,omitempty"`
}
