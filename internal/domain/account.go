package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The account area is the signed-in user's own profile, addresses, favourites and orders.

type UserProfile struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	PhoneNumber     string    `json:"phoneNumber"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       Time      `json:"createdAt"`
}

type ProfileRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=50"`
	LastName    string `json:"lastName" validate:"required,max=50"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
}

// UserNotificationPreferences are the per-channel switches of the user account.
type UserNotificationPreferences struct {
	EmailEnabled              bool    `json:"emailEnabled"`
	EmailOrderUpdates         bool    `json:"emailOrderUpdates"`
	EmailPromotions           bool    `json:"emailPromotions"`
	EmailNewsletter           bool    `json:"emailNewsletter"`
	EmailSecurityAlerts       bool    `json:"emailSecurityAlerts"`
	SmsEnabled                bool    `json:"smsEnabled"`
	SmsOrderUpdates           bool    `json:"smsOrderUpdates"`
	SmsPromotions             bool    `json:"smsPromotions"`
	SmsSecurityAlerts         bool    `json:"smsSecurityAlerts"`
	PushEnabled               bool    `json:"pushEnabled"`
	PushOrderUpdates          bool    `json:"pushOrderUpdates"`
	PushPromotions            bool    `json:"pushPromotions"`
	PushMerchantUpdates       bool    `json:"pushMerchantUpdates"`
	PushSecurityAlerts        bool    `json:"pushSecurityAlerts"`
	SoundEnabled              bool    `json:"soundEnabled"`
	DesktopNotifications      bool    `json:"desktopNotifications"`
	NotificationSound         string  `json:"notificationSound"`
	NewOrderNotifications     bool    `json:"newOrderNotifications"`
	StatusChangeNotifications bool    `json:"statusChangeNotifications"`
	CancellationNotifications bool    `json:"cancellationNotifications"`
	RespectQuietHours         bool    `json:"respectQuietHours"`
	QuietStartTime            *string `json:"quietStartTime"`
	QuietEndTime              *string `json:"quietEndTime"`
	Language                  string  `json:"language"`
}

type Address struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	FullAddress string          `json:"fullAddress"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	Latitude    decimal.Decimal `json:"latitude"`
	Longitude   decimal.Decimal `json:"longitude"`
	IsDefault   bool            `json:"isDefault"`
	CreatedAt   Time            `json:"createdAt"`
}

type AddressRequest struct {
	Title       string          `json:"title" validate:"required,max=50"`
	FullAddress string          `json:"fullAddress" validate:"required,max=500"`
	City        string          `json:"city" validate:"required,max=50"`
	District    string          `json:"district" validate:"required,max=50"`
	Latitude    decimal.Decimal `json:"latitude"`
	Longitude   decimal.Decimal `json:"longitude"`
}

type FavoriteProduct struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"productId"`
	ProductName        string          `json:"productName"`
	ProductDescription string          `json:"productDescription"`
	Price              decimal.Decimal `json:"price"`
	ImageURL           string          `json:"imageUrl"`
	MerchantID         uuid.UUID       `json:"merchantId"`
	MerchantName       string          `json:"merchantName"`
	IsAvailable        bool            `json:"isAvailable"`
	AddedAt            Time            `json:"addedAt"`
}

type UserOrderLine struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	VariantName string          `json:"variantName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

type UserOrder struct {
	ID                    uuid.UUID       `json:"id"`
	OrderNumber           string          `json:"orderNumber"`
	MerchantID            uuid.UUID       `json:"merchantId"`
	MerchantName          string          `json:"merchantName"`
	Status                string          `json:"status"`
	SubTotal              decimal.Decimal `json:"subTotal"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	Discount              decimal.Decimal `json:"discount"`
	Total                 decimal.Decimal `json:"total"`
	PaymentMethod         string          `json:"paymentMethod"`
	PaymentStatus         string          `json:"paymentStatus"`
	DeliveryAddress       string          `json:"deliveryAddress"`
	EstimatedDeliveryTime *Time           `json:"estimatedDeliveryTime"`
	CompletedAt           *Time           `json:"completedAt"`
	CreatedAt             Time            `json:"createdAt"`
	Items                 []UserOrderLine `json:"items"`
}

// Cancellable reports whether the customer may still cancel the order.
func (o UserOrder) Cancellable() bool {
	switch o.Status {
	case "Pending", "Confirmed":
		return true
	}
	return false
}

type CancelOrderRequest struct {
	OrderID uuid.UUID `json:"orderId"`
	Reason  string    `json:"reason"`
}

type SaveLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type SavedLocation struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	CreatedAt Time      `json:"createdAt"`
}

type AccountView struct {
	Profile     *UserProfile
	Preferences UserNotificationPreferences
	Addresses   []Address
	Orders      PagedResult[UserOrder]
	Favorites   PagedResult[FavoriteProduct]
	Locations   []SavedLocation
}
