package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory enums arrive as their numeric backend values.

var (
	inventoryStatusNames   = []string{"InStock", "LowStock", "OutOfStock", "Overstock", "Discontinued"}
	countTypeNames         = []string{"Full", "Partial", "Cycle", "SpotCheck", "Annual"}
	countStatusNames       = []string{"InProgress", "Completed", "Cancelled", "PendingApproval", "Approved"}
	discrepancyStatusNames = []string{"Pending", "Resolved", "Investigating", "Approved", "Rejected"}

	// ValuationMethods are the accepted valuation method names; the first is the default.
	ValuationMethods = []string{"FIFO", "LIFO", "WeightedAverage", "MarketPrice", "StandardCost"}
)

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) {
		return "Unknown"
	}
	return names[v]
}

type InventoryLevel struct {
	ProductID        uuid.UUID       `json:"productId"`
	ProductVariantID *uuid.UUID      `json:"productVariantId"`
	ProductName      string          `json:"productName"`
	VariantName      string          `json:"variantName"`
	CategoryName     string          `json:"categoryName"`
	CurrentStock     int             `json:"currentStock"`
	MinimumStock     int             `json:"minimumStock"`
	MaximumStock     int             `json:"maximumStock"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalValue       decimal.Decimal `json:"totalValue"`
	Status           int             `json:"status"`
	LastUpdated      Time            `json:"lastUpdated"`
}

func (l InventoryLevel) StatusName() string { return enumName(inventoryStatusNames, l.Status) }

type TurnoverItem struct {
	ProductID        uuid.UUID       `json:"productId"`
	ProductName      string          `json:"productName"`
	CurrentStock     int             `json:"currentStock"`
	StockOutQuantity int             `json:"stockOutQuantity"`
	TurnoverRate     decimal.Decimal `json:"turnoverRate"`
	DaysToTurnover   decimal.Decimal `json:"daysToTurnover"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	StockValue       decimal.Decimal `json:"stockValue"`
}

type InventoryTurnover struct {
	FromDate            Time            `json:"fromDate"`
	ToDate              Time            `json:"toDate"`
	TotalItems          int             `json:"totalItems"`
	TotalValue          decimal.Decimal `json:"totalValue"`
	AverageTurnoverRate decimal.Decimal `json:"averageTurnoverRate"`
	FastMovingItems     []TurnoverItem  `json:"fastMovingItems"`
	SlowMovingItems     []TurnoverItem  `json:"slowMovingItems"`
}

type SlowMovingItem struct {
	ProductID             uuid.UUID       `json:"productId"`
	ProductName           string          `json:"productName"`
	CurrentStock          int             `json:"currentStock"`
	UnitPrice             decimal.Decimal `json:"unitPrice"`
	TotalValue            decimal.Decimal `json:"totalValue"`
	LastMovementDate      *Time           `json:"lastMovementDate"`
	DaysSinceLastMovement int             `json:"daysSinceLastMovement"`
}

type ValuationItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unitValue"`
	TotalValue  decimal.Decimal `json:"totalValue"`
}

type InventoryValuation struct {
	Method        int             `json:"method"`
	ValuationDate Time            `json:"valuationDate"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TotalItems    int             `json:"totalItems"`
	TopValueItems []ValuationItem `json:"topValueItems"`
}

func (v InventoryValuation) MethodName() string { return enumName(ValuationMethods, v.Method) }

type InventoryCount struct {
	ID               uuid.UUID `json:"id"`
	CountDate        Time      `json:"countDate"`
	CountType        int       `json:"countType"`
	Status           int       `json:"status"`
	DiscrepancyCount int       `json:"discrepancyCount"`
	Notes            string    `json:"notes"`
	CreatedByName    string    `json:"createdByName"`
	CreatedAt        Time      `json:"createdAt"`
	CompletedAt      *Time     `json:"completedAt"`
}

func (c InventoryCount) TypeName() string   { return enumName(countTypeNames, c.CountType) }
func (c InventoryCount) StatusName() string { return enumName(countStatusNames, c.Status) }

type InventoryDiscrepancy struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"productId"`
	ProductVariantID   *uuid.UUID      `json:"productVariantId"`
	ProductName        string          `json:"productName"`
	VariantName        string          `json:"variantName"`
	ExpectedQuantity   int             `json:"expectedQuantity"`
	ActualQuantity     int             `json:"actualQuantity"`
	Variance           int             `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
	Status             int             `json:"status"`
	ResolutionNotes    string          `json:"resolutionNotes"`
	CreatedAt          Time            `json:"createdAt"`
	ResolvedAt         *Time           `json:"resolvedAt"`
}

func (d InventoryDiscrepancy) StatusName() string { return enumName(discrepancyStatusNames, d.Status) }

// InventoryFilter is the resolved dashboard query.
type InventoryFilter struct {
	From            Time
	To              Time
	SlowThreshold   int
	ValuationMethod string
	IncludeVariants bool
}

type InventoryView struct {
	Filter        InventoryFilter
	Levels        []InventoryLevel
	Turnover      *InventoryTurnover
	SlowMoving    []SlowMovingItem
	Valuation     *InventoryValuation
	CountHistory  []InventoryCount
	Discrepancies []InventoryDiscrepancy
}
