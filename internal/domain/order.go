package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatuses lists the statuses in the order the dashboard chart shows them.
var OrderStatuses = []string{"Pending", "Preparing", "Ready", "OnWay", "Delivered", "Cancelled"}

func ValidOrderStatus(s string) bool {
	for _, st := range OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	UserID          uuid.UUID       `json:"userId"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	Status          string          `json:"status"`
	SubTotal        decimal.Decimal `json:"subTotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Notes           string          `json:"notes"`
	CreatedAt       Time            `json:"createdAt"`
	CompletedAt     *Time           `json:"completedAt"`
	OrderLines      []OrderLine     `json:"orderLines"`
}

type OrderLine struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductImageURL string          `json:"productImageUrl"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type OrderListView struct {
	Orders   PagedResult[Order]
	Status   string
	Statuses []string
}
