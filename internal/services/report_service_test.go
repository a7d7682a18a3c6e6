package services_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/services"
)

func order(status string, amount int64) domain.Order {
	return domain.Order{Status: status, TotalAmount: decimal.NewFromInt(amount)}
}

func salesFixture() domain.SalesReport {
	return services.BuildSalesReport(
		[]domain.Order{
			order("Delivered", 100),
			order("Delivered", 50),
			order("Cancelled", 30),
			order("Pending", 20),
		},
		[]domain.Payment{
			pay("Cash", "Completed", "100", "2025-03-01 10:00"),
			pay("CreditCard", "Completed", "50", "2025-03-02 11:00"),
		},
		date("2025-03-01"), date("2025-03-02"),
	)
}

func TestBuildSalesReport(t *testing.T) {
	r := salesFixture()
	assertDec(t, "150", r.TotalRevenue)
	assert.Equal(t, 4, r.TotalOrders)
	assert.Equal(t, 2, r.CompletedOrders)
	assert.Equal(t, 1, r.CancelledOrders)
	assertDec(t, "75", r.AverageOrderValue)
	assert.Equal(t, 2, r.StatusBreakdown["Delivered"])
	assert.Len(t, r.DailySales, 2)
	require.Len(t, r.PaymentMethods, 2)
	assert.Equal(t, "Kapıda Nakit", r.PaymentMethods[0].Label)
}

func TestBuildSalesReportWithoutDeliveries(t *testing.T) {
	r := services.BuildSalesReport([]domain.Order{order("Pending", 10)}, nil, date("2025-03-01"), date("2025-03-01"))
	assert.True(t, r.AverageOrderValue.IsZero())
	assert.True(t, r.TotalRevenue.IsZero())
}

func TestWriteSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, services.WriteSalesCSV(&buf, salesFixture()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Report Type,Date,Value,Details", lines[0])
	assert.Equal(t, "DailyRevenue,2025-03-01,100.00,", lines[1])
	assert.Equal(t, "TotalRevenue,2025-03-02,150.00,", lines[3])
	assert.Equal(t, "TotalOrders,2025-03-02,4,", lines[4])
	assert.Equal(t, "AverageOrderValue,2025-03-02,75.00,", lines[5])
	assert.Equal(t, "PaymentMethod,2025-03-02,100.00,Kapıda Nakit", lines[6])
}

func TestReportRangeDefaultsToThirtyDays(t *testing.T) {
	now := time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC)
	svc := &services.ReportService{Now: func() time.Time { return now }}

	from, to := svc.Range(nil, nil)
	assert.Equal(t, now.AddDate(0, 0, -30), from)
	assert.Equal(t, now, to)

	start := date("2025-06-01")
	from, to = svc.Range(&start, nil)
	assert.Equal(t, start, from)
	assert.Equal(t, now, to)
}
