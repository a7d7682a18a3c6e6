package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

const (
	DefaultReportDays = 30
	orderDelivered    = "Delivered"
	orderCancelled    = "Cancelled"
	topCustomers      = 10
	bestSellers       = 10
	lowPerformers     = 5
	chartProducts     = 10
)

// Chart types served by Chart.
const (
	ChartRevenue        = "revenue"
	ChartOrders         = "orders"
	ChartCustomers      = "customers"
	ChartProducts       = "products"
	ChartPaymentMethods = "paymentmethods"
)

type ReportService struct {
	API *apiclient.Client
	Now func() time.Time
}

func NewReportService(api *apiclient.Client) *ReportService {
	return &ReportService{API: api, Now: time.Now}
}

// Range resolves optional bounds, defaulting to the last 30 days.
func (s *ReportService) Range(start, end *time.Time) (time.Time, time.Time) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	from, to := now.AddDate(0, 0, -DefaultReportDays), now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	return from, to
}

// Sales loads orders and transactions for the range concurrently. Either side may fail
// on its own; the report is then built from what arrived and the first error is returned.
func (s *ReportService) Sales(ctx context.Context, merchantID uuid.UUID, start, end time.Time) (domain.SalesReport, error) {
	q := transactionQuery(analyticsPageSize, &start, &end)
	var (
		orders   []domain.Order
		payments []domain.Payment
		errs     [2]error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := apiclient.Get[domain.PagedResult[domain.Order]](gctx, s.API,
			fmt.Sprintf("api/v1/orders/merchant/%s?%s", merchantID, q.Encode()))
		orders, errs[0] = page.Items, err
		return nil
	})
	g.Go(func() error {
		page, err := apiclient.Get[domain.PagedResult[domain.Payment]](gctx, s.API,
			fmt.Sprintf("api/v1/payment/merchant/%s/transactions?%s", merchantID, q.Encode()))
		payments, errs[1] = page.Items, err
		return nil
	})
	_ = g.Wait()

	r := BuildSalesReport(orders, completed(payments), start, end)
	if errs[0] != nil {
		return r, errs[0]
	}
	return r, errs[1]
}

// BuildSalesReport aggregates the range. Revenue comes from completed payments, the
// average order value from delivered orders.
func BuildSalesReport(orders []domain.Order, payments []domain.Payment, start, end time.Time) domain.SalesReport {
	start, end = clampRange(start, end)
	r := domain.SalesReport{
		StartDate:         start,
		EndDate:           end,
		TotalRevenue:      total(payments),
		TotalOrders:       len(orders),
		AverageOrderValue: decimal.Zero,
		DailySales:        dailyRevenue(payments, start, end),
		StatusBreakdown:   map[string]int{},
		PaymentMethods:    methodDistribution(payments),
	}
	delivered := decimal.Zero
	for _, o := range orders {
		r.StatusBreakdown[o.Status]++
		switch o.Status {
		case orderDelivered:
			r.CompletedOrders++
			delivered = delivered.Add(o.TotalAmount)
		case orderCancelled:
			r.CancelledOrders++
		}
	}
	if r.CompletedOrders > 0 {
		r.AverageOrderValue = delivered.Div(decimal.NewFromInt(int64(r.CompletedOrders))).Round(2)
	}
	return r
}

// WriteSalesCSV exports the daily series followed by the totals.
func WriteSalesCSV(w io.Writer, r domain.SalesReport) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"Report Type", "Date", "Value", "Details"}}
	for _, d := range r.DailySales {
		rows = append(rows, []string{"DailyRevenue", d.Date.Format(dateLayout), d.Value.StringFixed(2), ""})
	}
	rows = append(rows,
		[]string{"TotalRevenue", r.EndDate.Format(dateLayout), r.TotalRevenue.StringFixed(2), ""},
		[]string{"TotalOrders", r.EndDate.Format(dateLayout), fmt.Sprint(r.TotalOrders), ""},
		[]string{"AverageOrderValue", r.EndDate.Format(dateLayout), r.AverageOrderValue.StringFixed(2), ""},
	)
	for _, m := range r.PaymentMethods {
		rows = append(rows, []string{"PaymentMethod", r.EndDate.Format(dateLayout), m.Value.StringFixed(2), m.Label})
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func (s *ReportService) orders(ctx context.Context, merchantID uuid.UUID, start, end time.Time) ([]domain.Order, error) {
	q := transactionQuery(analyticsPageSize, &start, &end)
	page, err := apiclient.Get[domain.PagedResult[domain.Order]](ctx, s.API,
		fmt.Sprintf("api/v1/orders/merchant/%s?%s", merchantID, q.Encode()))
	return page.Items, err
}

func (s *ReportService) payments(ctx context.Context, merchantID uuid.UUID, start, end time.Time) ([]domain.Payment, error) {
	q := transactionQuery(analyticsPageSize, &start, &end)
	page, err := apiclient.Get[domain.PagedResult[domain.Payment]](ctx, s.API,
		fmt.Sprintf("api/v1/payment/merchant/%s/transactions?%s", merchantID, q.Encode()))
	return page.Items, err
}

// Customers analyses who ordered in the range.
func (s *ReportService) Customers(ctx context.Context, merchantID uuid.UUID, start, end time.Time) (domain.CustomerAnalytics, error) {
	orders, err := s.orders(ctx, merchantID, start, end)
	if err != nil {
		return BuildCustomerAnalytics(nil, start, end), err
	}
	return BuildCustomerAnalytics(orders, start, end), nil
}

// BuildCustomerAnalytics groups orders by customer. Only the range is visible, so a
// customer with one order in it counts as new and one with more as returning. Spend
// and lifetime value leave cancelled orders out.
func BuildCustomerAnalytics(orders []domain.Order, start, end time.Time) domain.CustomerAnalytics {
	start, end = clampRange(start, end)
	a := domain.CustomerAnalytics{
		StartDate:             start,
		EndDate:               end,
		CustomerRetentionRate: decimal.Zero,
		AverageOrderFrequency: decimal.Zero,
		CustomerLifetimeValue: decimal.Zero,
		TopCustomers:          []domain.CustomerItem{},
		CustomerSegments:      []domain.CustomerSegment{},
	}
	var customers []domain.CustomerItem
	idx := map[uuid.UUID]int{}
	spent := decimal.Zero
	for _, o := range orders {
		i, seen := idx[o.UserID]
		if !seen {
			i = len(customers)
			idx[o.UserID] = i
			customers = append(customers, domain.CustomerItem{CustomerID: o.UserID, CustomerName: o.CustomerName, TotalSpent: decimal.Zero})
		}
		c := &customers[i]
		c.OrderCount++
		if o.CreatedAt.After(c.LastOrderDate) {
			c.LastOrderDate = o.CreatedAt.Time
		}
		if o.Status != orderCancelled {
			c.TotalSpent = c.TotalSpent.Add(o.TotalAmount)
			spent = spent.Add(o.TotalAmount)
		}
	}
	a.TotalCustomers = len(customers)
	if a.TotalCustomers == 0 {
		return a
	}
	n := decimal.NewFromInt(int64(a.TotalCustomers))
	segments := []domain.CustomerSegment{{Name: "OneTime"}, {Name: "Repeat"}, {Name: "Loyal"}}
	for _, c := range customers {
		switch {
		case c.OrderCount == 1:
			a.NewCustomers++
			segments[0].Count++
		case c.OrderCount < 5:
			a.ReturningCustomers++
			segments[1].Count++
		default:
			a.ReturningCustomers++
			segments[2].Count++
		}
	}
	for i := range segments {
		segments[i].Percentage = decimal.NewFromInt(int64(segments[i].Count)).Div(n).Mul(hundred).Round(2)
	}
	a.CustomerSegments = segments
	a.CustomerRetentionRate = decimal.NewFromInt(int64(a.ReturningCustomers)).Div(n).Mul(hundred).Round(2)
	a.AverageOrderFrequency = decimal.NewFromInt(int64(len(orders))).Div(n).Round(2)
	a.CustomerLifetimeValue = spent.Div(n).Round(2)

	slices.SortStableFunc(customers, func(x, y domain.CustomerItem) int {
		if c := y.TotalSpent.Cmp(x.TotalSpent); c != 0 {
			return c
		}
		return y.OrderCount - x.OrderCount
	})
	if len(customers) > topCustomers {
		customers = customers[:topCustomers]
	}
	a.TopCustomers = customers
	return a
}

// Products analyses the order lines sold in the range.
func (s *ReportService) Products(ctx context.Context, merchantID uuid.UUID, start, end time.Time) (domain.ProductPerformance, error) {
	orders, err := s.orders(ctx, merchantID, start, end)
	if err != nil {
		return BuildProductPerformance(nil, start, end), err
	}
	return BuildProductPerformance(orders, start, end), nil
}

// BuildProductPerformance totals order lines per product over the non-cancelled
// orders. Best sellers rank by quantity then revenue; low performers are the tail of
// the same ranking, slowest first.
func BuildProductPerformance(orders []domain.Order, start, end time.Time) domain.ProductPerformance {
	start, end = clampRange(start, end)
	p := domain.ProductPerformance{
		StartDate:         start,
		EndDate:           end,
		TotalSales:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
		BestSellers:       []domain.ProductPerformanceItem{},
		LowPerformers:     []domain.ProductPerformanceItem{},
		SalesByDay:        []domain.DailyValue{},
	}
	items := productSales(orders)
	byDay := map[time.Time]decimal.Decimal{}
	sold := 0
	for _, o := range orders {
		if o.Status == orderCancelled {
			continue
		}
		sold++
		p.TotalSales = p.TotalSales.Add(o.TotalAmount)
		d := day(o.CreatedAt.Time)
		byDay[d] = byDay[d].Add(o.TotalAmount)
	}
	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		p.SalesByDay = append(p.SalesByDay, domain.DailyValue{Date: d, Value: byDay[d]})
	}
	if sold > 0 {
		p.AverageOrderValue = p.TotalSales.Div(decimal.NewFromInt(int64(sold))).Round(2)
	}
	p.TotalProducts = len(items)
	p.BestSellers = slices.Clone(items[:min(bestSellers, len(items))])
	if len(items) > bestSellers {
		tail := slices.Clone(items[max(bestSellers, len(items)-lowPerformers):])
		slices.Reverse(tail)
		p.LowPerformers = tail
	}
	return p
}

// productSales ranks products by quantity sold, then revenue.
func productSales(orders []domain.Order) []domain.ProductPerformanceItem {
	items := []domain.ProductPerformanceItem{}
	idx := map[uuid.UUID]int{}
	for _, o := range orders {
		if o.Status == orderCancelled {
			continue
		}
		counted := map[uuid.UUID]bool{}
		for _, l := range o.OrderLines {
			i, seen := idx[l.ProductID]
			if !seen {
				i = len(items)
				idx[l.ProductID] = i
				items = append(items, domain.ProductPerformanceItem{ProductID: l.ProductID, ProductName: l.ProductName, Revenue: decimal.Zero})
			}
			it := &items[i]
			it.QuantitySold += l.Quantity
			it.Revenue = it.Revenue.Add(l.TotalPrice)
			if !counted[l.ProductID] {
				counted[l.ProductID] = true
				it.SalesCount++
			}
		}
	}
	slices.SortStableFunc(items, func(x, y domain.ProductPerformanceItem) int {
		if x.QuantitySold != y.QuantitySold {
			return y.QuantitySold - x.QuantitySold
		}
		return y.Revenue.Cmp(x.Revenue)
	})
	return items
}

// Chart builds one chart series. Unknown chart types come back empty without a
// backend call.
func (s *ReportService) Chart(ctx context.Context, merchantID uuid.UUID, chartType string, start, end time.Time) (domain.ReportChart, error) {
	start, end = clampRange(start, end)
	kind := strings.ToLower(strings.TrimSpace(chartType))
	out := emptyChart(kind)
	switch kind {
	case ChartRevenue, ChartPaymentMethods:
		payments, err := s.payments(ctx, merchantID, start, end)
		if err != nil {
			return out, err
		}
		if kind == ChartRevenue {
			return dailyChart(kind, dailyRevenue(completed(payments), start, end)), nil
		}
		for _, m := range methodDistribution(completed(payments)) {
			out.Labels = append(out.Labels, m.Label)
			out.Data = append(out.Data, m.Value)
			out.Colors = append(out.Colors, m.Color)
		}
		return out, nil
	case ChartOrders, ChartCustomers, ChartProducts:
		orders, err := s.orders(ctx, merchantID, start, end)
		if err != nil {
			return out, err
		}
		return BuildOrderChart(kind, orders, start, end), nil
	}
	return out, nil
}

// BuildOrderChart derives the order-based charts: orders per day, distinct
// customers per day, or revenue of the top products.
func BuildOrderChart(kind string, orders []domain.Order, start, end time.Time) domain.ReportChart {
	if kind == ChartProducts {
		out := emptyChart(kind)
		items := productSales(orders)
		for _, it := range items[:min(chartProducts, len(items))] {
			out.Labels = append(out.Labels, it.ProductName)
			out.Data = append(out.Data, it.Revenue)
		}
		return out
	}
	counts := map[time.Time]int{}
	seen := map[time.Time]map[uuid.UUID]bool{}
	for _, o := range orders {
		d := day(o.CreatedAt.Time)
		if kind == ChartOrders {
			counts[d]++
			continue
		}
		if seen[d] == nil {
			seen[d] = map[uuid.UUID]bool{}
		}
		if !seen[d][o.UserID] {
			seen[d][o.UserID] = true
			counts[d]++
		}
	}
	var series []domain.DailyValue
	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		series = append(series, domain.DailyValue{Date: d, Value: decimal.NewFromInt(int64(counts[d]))})
	}
	return dailyChart(kind, series)
}

func dailyChart(kind string, series []domain.DailyValue) domain.ReportChart {
	out := emptyChart(kind)
	for _, v := range series {
		out.Labels = append(out.Labels, v.Date.Format(dateLayout))
		out.Data = append(out.Data, v.Value)
	}
	return out
}

func emptyChart(kind string) domain.ReportChart {
	return domain.ReportChart{ChartType: kind, Labels: []string{}, Data: []decimal.Decimal{}, Colors: []string{}}
}
