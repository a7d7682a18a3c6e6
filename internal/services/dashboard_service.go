package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
)

// ChartPalette colours category slices in order.
var ChartPalette = []string{
	"#5D3EBC", "#FFD300", "#28a745", "#17a2b8", "#fd7e14",
	"#dc3545", "#6f42c1", "#20c997", "#e83e8c", "#6c757d",
}

const (
	MinChartDays     = 7
	MaxChartDays     = 90
	DefaultChartDays = 30
)

type DashboardService struct {
	API   *apiclient.Client
	Stock *StockService
}

func NewDashboardService(api *apiclient.Client, stock *StockService) *DashboardService {
	return &DashboardService{API: api, Stock: stock}
}

func (s *DashboardService) base(merchantID uuid.UUID) string {
	return "api/v1/merchants/" + merchantID.String()
}

// Load builds the dashboard. The aggregate call is required; sections it leaves out are
// fetched concurrently and degrade to empty on failure, as do the stock alerts.
func (s *DashboardService) Load(ctx context.Context, merchantID uuid.UUID) (domain.DashboardView, error) {
	view := domain.DashboardView{MerchantID: merchantID, RecentOrders: []domain.RecentOrder{}, TopProducts: []domain.TopProduct{}}

	dash, err := apiclient.Get[domain.MerchantDashboard](ctx, s.API, s.base(merchantID)+"/merchantdashboard")
	if err != nil {
		return view, err
	}
	if dash.Stats != nil {
		view.Stats = *dash.Stats
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(dash.RecentOrders) > 0 {
		view.RecentOrders = dash.RecentOrders
	} else {
		g.Go(func() error {
			v, err := apiclient.Get[[]domain.RecentOrder](gctx, s.API, s.base(merchantID)+"/merchantdashboard/recent-orders?limit=5")
			if err != nil {
				applog.Warn("dashboard.recent_orders.fail", err, nil)
				return nil
			}
			view.RecentOrders = v
			return nil
		})
	}
	if len(dash.TopProducts) > 0 {
		view.TopProducts = dash.TopProducts
	} else {
		g.Go(func() error {
			v, err := apiclient.Get[[]domain.TopProduct](gctx, s.API, s.base(merchantID)+"/merchantdashboard/top-products?limit=5")
			if err != nil {
				applog.Warn("dashboard.top_products.fail", err, nil)
				return nil
			}
			view.TopProducts = v
			return nil
		})
	}
	if dash.Performance != nil {
		view.Performance = *dash.Performance
	} else {
		g.Go(func() error {
			v, err := apiclient.Get[domain.PerformanceMetrics](gctx, s.API, s.base(merchantID)+"/merchantdashboard/performance")
			if err != nil {
				applog.Warn("dashboard.performance.fail", err, nil)
				return nil
			}
			view.Performance = v
			return nil
		})
	}
	if s.Stock != nil {
		g.Go(func() error {
			alerts, err := s.Stock.Alerts(gctx)
			if err != nil {
				applog.Warn("dashboard.stock_alerts.fail", err, nil)
				return nil
			}
			view.StockAlerts = alerts
			view.StockSummary = SummarizeAlerts(alerts)
			return nil
		})
	}
	_ = g.Wait()
	return view, nil
}

// SalesChart returns revenue and order-count series for the last days, clamped to 7..90.
func (s *DashboardService) SalesChart(ctx context.Context, merchantID uuid.UUID, days int) (domain.ChartData, error) {
	days = ClampDays(days)
	points, err := apiclient.Get[[]domain.SalesTrendPoint](ctx, s.API, fmt.Sprintf("%s/analytics/sales-trend?days=%d", s.base(merchantID), days))
	if err != nil {
		return EmptyChart(), err
	}
	return SalesChartData(points), nil
}

func (s *DashboardService) OrdersChart(ctx context.Context, merchantID uuid.UUID) (domain.ChartData, error) {
	d, err := apiclient.Get[domain.OrderStatusDistribution](ctx, s.API, s.base(merchantID)+"/analytics/order-distribution")
	if err != nil {
		return EmptyChart(), err
	}
	return OrderStatusChartData(d), nil
}

func (s *DashboardService) CategoryChart(ctx context.Context, merchantID uuid.UUID) (domain.ChartData, error) {
	rows, err := apiclient.Get[[]domain.CategoryPerformance](ctx, s.API, s.base(merchantID)+"/analytics/category-performance")
	if err != nil {
		return EmptyChart(), err
	}
	return CategoryChartData(rows), nil
}

func ClampDays(days int) int {
	if days < MinChartDays {
		return MinChartDays
	}
	if days > MaxChartDays {
		return MaxChartDays
	}
	return days
}

func EmptyChart() domain.ChartData {
	return domain.ChartData{Labels: []string{}, Datasets: []domain.ChartDataset{}}
}

func SalesChartData(points []domain.SalesTrendPoint) domain.ChartData {
	if len(points) == 0 {
		return EmptyChart()
	}
	labels := make([]string, 0, len(points))
	revenue := make([]any, 0, len(points))
	orders := make([]any, 0, len(points))
	for _, p := range points {
		labels = append(labels, p.Date.Format("02 Jan"))
		revenue = append(revenue, p.Revenue)
		orders = append(orders, p.OrderCount)
	}
	return domain.ChartData{
		Labels: labels,
		Datasets: []domain.ChartDataset{
			{Label: "Revenue", Data: revenue, BorderColor: "#5D3EBC", YAxisID: "y"},
			{Label: "Orders", Data: orders, BorderColor: "#FFD300", YAxisID: "y1"},
		},
	}
}

func OrderStatusChartData(d domain.OrderStatusDistribution) domain.ChartData {
	counts := []any{d.PendingCount, d.PreparingCount, d.ReadyCount, d.OnWayCount, d.DeliveredCount, d.CancelledCount}
	labels := append([]string(nil), domain.OrderStatuses...)
	return domain.ChartData{
		Labels: labels,
		Datasets: []domain.ChartDataset{{
			Label:           "Orders",
			Data:            counts,
			BackgroundColor: []string{"#ffc107", "#17a2b8", "#20c997", "#5D3EBC", "#28a745", "#dc3545"},
		}},
	}
}

func CategoryChartData(rows []domain.CategoryPerformance) domain.ChartData {
	if len(rows) == 0 {
		return EmptyChart()
	}
	labels := make([]string, 0, len(rows))
	data := make([]any, 0, len(rows))
	colors := make([]string, 0, len(rows))
	for i, r := range rows {
		labels = append(labels, r.CategoryName)
		data = append(data, r.Revenue)
		colors = append(colors, ChartPalette[i%len(ChartPalette)])
	}
	return domain.ChartData{
		Labels:   labels,
		Datasets: []domain.ChartDataset{{Label: "Revenue", Data: data, BackgroundColor: colors}},
	}
}
