package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const PaymentCompleted = "Completed"

type Payment struct {
	ID                     uuid.UUID           `json:"id"`
	OrderID                uuid.UUID           `json:"orderId"`
	OrderNumber            string              `json:"orderNumber"`
	PaymentMethod          string              `json:"paymentMethod"`
	Status                 string              `json:"status"`
	Amount                 decimal.Decimal     `json:"amount"`
	ChangeAmount           decimal.NullDecimal `json:"changeAmount"`
	ProcessedAt            *Time               `json:"processedAt"`
	CompletedAt            *Time               `json:"completedAt"`
	CollectedAt            *Time               `json:"collectedAt"`
	SettledAt              *Time               `json:"settledAt"`
	CollectedByCourierName string              `json:"collectedByCourierName"`
	Notes                  string              `json:"notes"`
	FailureReason          string              `json:"failureReason"`
	RefundReason           string              `json:"refundReason"`
	RefundAmount           decimal.NullDecimal `json:"refundAmount"`
	CreatedAt              Time                `json:"createdAt"`
}

type PaymentFilter struct {
	Page          int
	PageSize      int
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentMethod string
	Status        string
}

type PaymentListItem struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	OrderNumber   string
	PaymentMethod string
	Status        string
	Amount        decimal.Decimal
	CreatedAt     Time
	CompletedAt   *Time
}

type MerchantCashSummary struct {
	MerchantID      uuid.UUID       `json:"merchantId"`
	MerchantName    string          `json:"merchantName"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	NetAmount       decimal.Decimal `json:"netAmount"`
	TotalOrders     int             `json:"totalOrders"`
	Payments        []Payment       `json:"payments"`
}

type Settlement struct {
	ID                    uuid.UUID       `json:"id"`
	MerchantID            uuid.UUID       `json:"merchantId"`
	MerchantName          string          `json:"merchantName"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Commission            decimal.Decimal `json:"commission"`
	NetAmount             decimal.Decimal `json:"netAmount"`
	SettlementDate        Time            `json:"settlementDate"`
	Status                string          `json:"status"`
	Notes                 string          `json:"notes"`
	BankTransferReference string          `json:"bankTransferReference"`
	CreatedAt             Time            `json:"createdAt"`
}

type SettlementReport struct {
	StartDate       time.Time
	EndDate         time.Time
	TotalRevenue    decimal.Decimal
	TotalCommission decimal.Decimal
	NetAmount       decimal.Decimal
	TotalOrders     int
	CompletedOrders int
	RevenueByMethod map[string]decimal.Decimal
	DailyBreakdown  []DailySettlement
	Settlements     []Settlement
}

type DailySettlement struct {
	Date       time.Time
	Revenue    decimal.Decimal
	Commission decimal.Decimal
	NetAmount  decimal.Decimal
	OrderCount int
}

type DailyValue struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type WeeklyValue struct {
	Week  int             `json:"week"`
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}

type MonthlyValue struct {
	Month int             `json:"month"`
	Year  int             `json:"year"`
	Value decimal.Decimal `json:"value"`
}

type HourlyValue struct {
	Hour  int             `json:"hour"`
	Value decimal.Decimal `json:"value"`
}

type BreakdownItem struct {
	Label      string          `json:"label"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
}

type RevenueAnalytics struct {
	StartDate                 time.Time       `json:"startDate"`
	EndDate                   time.Time       `json:"endDate"`
	TotalRevenue              decimal.Decimal `json:"totalRevenue"`
	DailyRevenue              []DailyValue    `json:"dailyRevenue"`
	WeeklyRevenue             []WeeklyValue   `json:"weeklyRevenue"`
	MonthlyRevenue            []MonthlyValue  `json:"monthlyRevenue"`
	RevenueTrend              decimal.Decimal `json:"revenueTrend"`
	PaymentMethodDistribution []BreakdownItem `json:"paymentMethodDistribution"`
	RevenueByHour             []HourlyValue   `json:"revenueByHour"`
	TopRevenueDays            []DailyValue    `json:"topRevenueDays"`
}

type PaymentMethodBreakdown struct {
	Method      string          `json:"method"`
	DisplayName string          `json:"displayName"`
	OrderCount  int             `json:"orderCount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Percentage  decimal.Decimal `json:"percentage"`
	Color       string          `json:"color"`
}

type PaymentListView struct {
	Payments []PaymentListItem
	Filter   PaymentFilter
	Methods  []string
}

// Reports

type SalesReport struct {
	StartDate         time.Time
	EndDate           time.Time
	TotalRevenue      decimal.Decimal
	TotalOrders       int
	CompletedOrders   int
	CancelledOrders   int
	AverageOrderValue decimal.Decimal
	DailySales        []DailyValue
	StatusBreakdown   map[string]int
	PaymentMethods    []BreakdownItem
}

type ProcessSettlementRequest struct {
	CommissionRate        decimal.Decimal `json:"commissionRate"`
	Notes                 string          `json:"notes,omitempty"`
	BankTransferReference string          `json:"bankTransferReference,omitempty"`
}

type CashCollectionsView struct {
	Collections    PagedResult[Payment]
	Status         string
	CommissionRate decimal.Decimal
}

type CustomerItem struct {
	CustomerID    uuid.UUID       `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	OrderCount    int             `json:"orderCount"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	LastOrderDate time.Time       `json:"lastOrderDate"`
}

type CustomerSegment struct {
	Name       string          `json:"name"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type CustomerAnalytics struct {
	StartDate             time.Time         `json:"startDate"`
	EndDate               time.Time         `json:"endDate"`
	TotalCustomers        int               `json:"totalCustomers"`
	NewCustomers          int               `json:"newCustomers"`
	ReturningCustomers    int               `json:"returningCustomers"`
	CustomerRetentionRate decimal.Decimal   `json:"customerRetentionRate"`
	AverageOrderFrequency decimal.Decimal   `json:"averageOrderFrequency"`
	CustomerLifetimeValue decimal.Decimal   `json:"customerLifetimeValue"`
	TopCustomers          []CustomerItem    `json:"topCustomers"`
	CustomerSegments      []CustomerSegment `json:"customerSegments"`
}

type ProductPerformanceItem struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	SalesCount   int             `json:"salesCount"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type ProductPerformance struct {
	StartDate         time.Time                `json:"startDate"`
	EndDate           time.Time                `json:"endDate"`
	TotalProducts     int                      `json:"totalProducts"`
	TotalSales        decimal.Decimal          `json:"totalSales"`
	AverageOrderValue decimal.Decimal          `json:"averageOrderValue"`
	BestSellers       []ProductPerformanceItem `json:"bestSellers"`
	LowPerformers     []ProductPerformanceItem `json:"lowPerformers"`
	SalesByDay        []DailyValue             `json:"salesByDay"`
}

// ReportChart is one chart series: Labels and Data are parallel.
type ReportChart struct {
	ChartType string            `json:"chartType"`
	Labels    []string          `json:"labels"`
	Data      []decimal.Decimal `json:"data"`
	Colors    []string          `json:"colors"`
}
