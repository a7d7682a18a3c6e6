package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

// GET /reports?startDate&endDate
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	from, to := h.Reports.Range(start, end)
	report, err := h.Reports.Sales(apiCtx(c), merchantOf(c), from, to)
	if err != nil {
		degrade(c, "reports.sales.fail", err, nil)
	}
	return render(c, "reports", fiber.Map{"Report": report})
}

// GET /reports/export?startDate&endDate
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	from, to := h.Reports.Range(start, end)
	report, err := h.Reports.Sales(apiCtx(c), merchantOf(c), from, to)
	if err != nil {
		applog.Error(c, "reports.export.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/reports")
	}
	var buf bytes.Buffer
	if err := services.WriteSalesCSV(&buf, report); err != nil {
		return err
	}
	name := "Sales_Report_" + from.Format("20060102") + "_" + to.Format("20060102") + ".csv"
	applog.Audit(c, "reports.export", map[string]any{"file": name})
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}

// GET /reports/customers?startDate&endDate
func (h *ReportHandler) Customers(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRangeJSON(c)
	}
	from, to := h.Reports.Range(start, end)
	a, err := h.Reports.Customers(apiCtx(c), merchantOf(c), from, to)
	if err != nil {
		return jsonFail(c, fiber.StatusOK, "reports.customers.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": a})
}

// GET /reports/products?startDate&endDate
func (h *ReportHandler) Products(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRangeJSON(c)
	}
	from, to := h.Reports.Range(start, end)
	p, err := h.Reports.Products(apiCtx(c), merchantOf(c), from, to)
	if err != nil {
		return jsonFail(c, fiber.StatusOK, "reports.products.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

// GET /reports/chart?chartType&startDate&endDate
func (h *ReportHandler) Chart(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRangeJSON(c)
	}
	from, to := h.Reports.Range(start, end)
	kind := c.Query("chartType")
	data, err := h.Reports.Chart(apiCtx(c), merchantOf(c), kind, from, to)
	if err != nil {
		applog.Error(c, "reports.chart.fail", err, map[string]any{"chart_type": data.ChartType})
		return c.JSON(fiber.Map{"success": false, "message": userMessage(c, err)})
	}
	return c.JSON(fiber.Map{"success": true, "data": data})
}
