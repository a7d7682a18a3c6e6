package services_test

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/services"
)

func customerOrder(user uuid.UUID, name, status string, amount int64, when string, lines ...domain.OrderLine) domain.Order {
	o := order(status, amount)
	o.ID = uuid.New()
	o.UserID = user
	o.CustomerName = name
	o.CreatedAt = at(when)
	o.OrderLines = lines
	return o
}

func line(product uuid.UUID, name string, qty int, total int64) domain.OrderLine {
	return domain.OrderLine{ProductID: product, ProductName: name, Quantity: qty, TotalPrice: decimal.NewFromInt(total)}
}

func TestBuildCustomerAnalytics(t *testing.T) {
	ayse, mehmet, zeynep := uuid.New(), uuid.New(), uuid.New()
	var orders []domain.Order
	for i := 0; i < 5; i++ {
		orders = append(orders, customerOrder(ayse, "Ayşe", "Delivered", 20, fmt.Sprintf("2025-03-0%d 12:00", i+1)))
	}
	orders = append(orders,
		customerOrder(mehmet, "Mehmet", "Delivered", 150, "2025-03-02 09:00"),
		customerOrder(mehmet, "Mehmet", "Cancelled", 500, "2025-03-03 09:00"),
		customerOrder(zeynep, "Zeynep", "Pending", 40, "2025-03-04 18:30"),
	)

	a := services.BuildCustomerAnalytics(orders, date("2025-03-01"), date("2025-03-07"))
	assert.Equal(t, 3, a.TotalCustomers)
	assert.Equal(t, 1, a.NewCustomers)
	assert.Equal(t, 2, a.ReturningCustomers)
	assertDec(t, "66.67", a.CustomerRetentionRate)
	assertDec(t, "2.67", a.AverageOrderFrequency)
	// 100 + 150 + 40 spent, cancelled excluded
	assertDec(t, "96.67", a.CustomerLifetimeValue)

	require.Len(t, a.TopCustomers, 3)
	assert.Equal(t, "Mehmet", a.TopCustomers[0].CustomerName)
	assertDec(t, "150", a.TopCustomers[0].TotalSpent)
	assert.Equal(t, 2, a.TopCustomers[0].OrderCount)
	assert.Equal(t, "Ayşe", a.TopCustomers[1].CustomerName)
	assert.Equal(t, date("2025-03-05").Add(12*time.Hour), a.TopCustomers[1].LastOrderDate)

	require.Len(t, a.CustomerSegments, 3)
	assert.Equal(t, []int{1, 1, 1}, []int{a.CustomerSegments[0].Count, a.CustomerSegments[1].Count, a.CustomerSegments[2].Count})
	assert.Equal(t, "Loyal", a.CustomerSegments[2].Name)
	assertDec(t, "33.33", a.CustomerSegments[2].Percentage)
}

func TestBuildCustomerAnalyticsWithoutOrders(t *testing.T) {
	a := services.BuildCustomerAnalytics(nil, date("2025-03-01"), date("2025-03-07"))
	assert.Zero(t, a.TotalCustomers)
	assert.True(t, a.CustomerLifetimeValue.IsZero())
	assert.NotNil(t, a.TopCustomers)
	assert.Empty(t, a.CustomerSegments)
}

func TestBuildProductPerformance(t *testing.T) {
	user := uuid.New()
	var products []uuid.UUID
	var lines []domain.OrderLine
	for i := 0; i < 12; i++ {
		products = append(products, uuid.New())
		// product i sells 12-i units
		lines = append(lines, line(products[i], fmt.Sprintf("P%02d", i), 12-i, int64(10*(12-i))))
	}
	orders := []domain.Order{
		customerOrder(user, "A", "Delivered", 780, "2025-03-01 10:00", lines...),
		customerOrder(user, "A", "Delivered", 20, "2025-03-02 10:00", line(products[11], "P11", 1, 10)),
		customerOrder(user, "A", "Cancelled", 999, "2025-03-02 11:00", line(products[11], "P11", 50, 500)),
	}

	p := services.BuildProductPerformance(orders, date("2025-03-01"), date("2025-03-03"))
	assert.Equal(t, 12, p.TotalProducts)
	assertDec(t, "800", p.TotalSales)
	assertDec(t, "400", p.AverageOrderValue)
	require.Len(t, p.SalesByDay, 3)
	assertDec(t, "780", p.SalesByDay[0].Value)
	assertDec(t, "20", p.SalesByDay[1].Value)
	assert.True(t, p.SalesByDay[2].Value.IsZero())

	require.Len(t, p.BestSellers, 10)
	assert.Equal(t, "P00", p.BestSellers[0].ProductName)
	assert.Equal(t, 12, p.BestSellers[0].QuantitySold)

	// P10 and P11 tie on 2 units and 20 revenue; P10 was seen first so P11 ranks last
	require.Len(t, p.LowPerformers, 2)
	assert.Equal(t, "P11", p.LowPerformers[0].ProductName)
	assert.Equal(t, 2, p.LowPerformers[0].QuantitySold)
	assert.Equal(t, 2, p.LowPerformers[0].SalesCount)
	assert.Equal(t, "P10", p.LowPerformers[1].ProductName)
}

func TestBuildOrderChart(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	pid := uuid.New()
	orders := []domain.Order{
		customerOrder(u1, "A", "Delivered", 10, "2025-03-01 10:00", line(pid, "Simit", 3, 30)),
		customerOrder(u1, "A", "Delivered", 10, "2025-03-01 11:00", line(pid, "Simit", 1, 10)),
		customerOrder(u2, "B", "Pending", 10, "2025-03-02 11:00"),
	}

	c := services.BuildOrderChart(services.ChartOrders, orders, date("2025-03-01"), date("2025-03-02"))
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, c.Labels)
	assertDec(t, "2", c.Data[0])
	assertDec(t, "1", c.Data[1])

	c = services.BuildOrderChart(services.ChartCustomers, orders, date("2025-03-01"), date("2025-03-02"))
	assertDec(t, "1", c.Data[0])
	assertDec(t, "1", c.Data[1])

	c = services.BuildOrderChart(services.ChartProducts, orders, date("2025-03-01"), date("2025-03-02"))
	assert.Equal(t, []string{"Simit"}, c.Labels)
	assertDec(t, "40", c.Data[0])
}

func TestChartRevenueCountsCompletedPayments(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/transactions")
		writeData(w, domain.PagedResult[domain.Payment]{Items: []domain.Payment{
			pay("Cash", "Completed", "40", "2025-03-01 10:00"),
			pay("Cash", "Failed", "99", "2025-03-01 11:00"),
			pay("CreditCard", "Completed", "60", "2025-03-02 10:00"),
		}})
	})
	svc := services.NewReportService(api)

	c, err := svc.Chart(t.Context(), uuid.New(), "Revenue", date("2025-03-01"), date("2025-03-02"))
	require.NoError(t, err)
	assert.Equal(t, services.ChartRevenue, c.ChartType)
	assertDec(t, "40", c.Data[0])
	assertDec(t, "60", c.Data[1])

	c, err = svc.Chart(t.Context(), uuid.New(), "paymentMethods", date("2025-03-01"), date("2025-03-02"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Kredi Kartı", "Kapıda Nakit"}, c.Labels)
	assert.Len(t, c.Colors, 2)
}

func TestChartUnknownTypeSkipsBackend(t *testing.T) {
	var hits atomic.Int32
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeData(w, nil)
	})
	c, err := services.NewReportService(api).Chart(t.Context(), uuid.New(), "categories", date("2025-03-01"), date("2025-03-02"))
	require.NoError(t, err)
	assert.Empty(t, c.Data)
	assert.Zero(t, hits.Load())
}

func TestCustomersBackendFailure(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	a, err := services.NewReportService(api).Customers(t.Context(), uuid.New(), date("2025-03-01"), date("2025-03-02"))
	require.Error(t, err)
	assert.Zero(t, a.TotalCustomers)
	assert.NotNil(t, a.TopCustomers)
}
