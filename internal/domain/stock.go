package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AlertLowStock   = "LowStock"
	AlertOutOfStock = "OutOfStock"
	AlertOverstock  = "Overstock"
)

type StockAlert struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        uuid.UUID  `json:"productId"`
	ProductVariantID *uuid.UUID `json:"productVariantId"`
	ProductName      string     `json:"productName"`
	VariantName      string     `json:"variantName"`
	CurrentStock     int        `json:"currentStock"`
	MinimumStock     int        `json:"minimumStock"`
	MaximumStock     int        `json:"maximumStock"`
	AlertType        string     `json:"alertType"`
	Message          string     `json:"message"`
	CreatedAt        Time       `json:"createdAt"`
	IsResolved       bool       `json:"isResolved"`
	ResolvedAt       *Time      `json:"resolvedAt"`
}

type StockHistory struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"productId"`
	ProductName      string    `json:"productName"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	ChangeAmount     int       `json:"changeAmount"`
	ChangeType       string    `json:"changeType"`
	Reason           string    `json:"reason"`
	Notes            string    `json:"notes"`
	ChangedByName    string    `json:"changedByName"`
	ChangedAt        Time      `json:"changedAt"`
	OrderNumber      string    `json:"orderNumber"`
}

type StockUpdate struct {
	ProductID        uuid.UUID  `json:"productId"`
	ProductVariantID *uuid.UUID `json:"productVariantId"`
	NewStockQuantity int        `json:"newStockQuantity"`
	Reason           string     `json:"reason,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

type BulkStockUpdate struct {
	StockUpdates []StockUpdate `json:"stockUpdates"`
	Reason       string        `json:"reason,omitempty"`
}

type StockSummary struct {
	TotalProducts   int             `json:"totalProducts"`
	LowStockItems   int             `json:"lowStockItems"`
	OutOfStockItems int             `json:"outOfStockItems"`
	OverstockItems  int             `json:"overstockItems"`
	ActiveAlerts    int             `json:"activeAlerts"`
	TotalValue      decimal.Decimal `json:"totalValue"`
}

type LowStockProduct struct {
	ProductID    uuid.UUID `json:"productId"`
	ProductName  string    `json:"productName"`
	SKU          string    `json:"sku"`
	CurrentStock int       `json:"currentStock"`
	MinStock     int       `json:"minStock"`
	MaxStock     int       `json:"maxStock"`
	Status       string    `json:"status"`
}

// StockImportResult is returned as JSON by the CSV import endpoint.
type StockImportResult struct {
	Success      bool     `json:"success"`
	TotalRows    int      `json:"totalRows"`
	SuccessCount int      `json:"successCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
	Message      string   `json:"message"`
}

// AddLineError records a rejected import row.
func (r *StockImportResult) AddLineError(line int, msg string) {
	r.ErrorCount++
	r.Errors = append(r.Errors, fmt.Sprintf("Line %d: %s", line, msg))
}

type StockView struct {
	Alerts    []StockAlert
	Summary   StockSummary
	LowStock  []LowStockProduct
	Products  []Product
	History   []StockHistory
	ProductID string
}
