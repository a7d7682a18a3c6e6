package handlers

import (
	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
	Stock     *services.StockService
}

// GET /dashboard
func (h *DashboardHandler) Index(c *fiber.Ctx) error {
	mid := merchantOf(c)
	view, err := h.Dashboard.Load(apiCtx(c), mid)
	if err != nil {
		degrade(c, "dashboard.load.fail", err, map[string]any{"merchant_id": mid.String()})
	}
	return render(c, "dashboard", fiber.Map{"Dashboard": view, "ChartDays": services.DefaultChartDays})
}

// GET /dashboard/stock-alerts
func (h *DashboardHandler) StockAlerts(c *fiber.Ctx) error {
	alerts, err := h.Stock.Alerts(apiCtx(c))
	if err != nil {
		return jsonFail(c, fiber.StatusOK, "dashboard.stock_alerts.fail", err)
	}
	if alerts == nil {
		alerts = []domain.StockAlert{}
	}
	return c.JSON(fiber.Map{"success": true, "data": alerts})
}

// GET /dashboard/sales-chart?days=
func (h *DashboardHandler) SalesChart(c *fiber.Ctx) error {
	days := validate.Clamp(c.Query("days"), services.DefaultChartDays, services.MinChartDays, services.MaxChartDays)
	data, err := h.Dashboard.SalesChart(apiCtx(c), merchantOf(c), days)
	return h.chart(c, "dashboard.sales_chart.fail", data, err)
}

// GET /dashboard/orders-chart
func (h *DashboardHandler) OrdersChart(c *fiber.Ctx) error {
	data, err := h.Dashboard.OrdersChart(apiCtx(c), merchantOf(c))
	return h.chart(c, "dashboard.orders_chart.fail", data, err)
}

// GET /dashboard/category-chart
func (h *DashboardHandler) CategoryChart(c *fiber.Ctx) error {
	data, err := h.Dashboard.CategoryChart(apiCtx(c), merchantOf(c))
	return h.chart(c, "dashboard.category_chart.fail", data, err)
}

// chart answers with empty series when the backend fails so the widget still draws.
func (h *DashboardHandler) chart(c *fiber.Ctx, action string, data domain.ChartData, err error) error {
	if err != nil {
		degrade(c, action, err, nil)
		return c.JSON(services.EmptyChart())
	}
	return c.JSON(data)
}
