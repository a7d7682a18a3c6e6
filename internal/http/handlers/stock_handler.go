package handlers

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

const (
	maxImportSize     = 1 << 20
	maxBulkRows       = 500
	defaultLowStock   = 10
	maxLowStockThresh = 100000
)

type StockHandler struct {
	Stock *services.StockService
	Now   func() time.Time
}

// GET /stock
func (h *StockHandler) Index(c *fiber.Ctx) error {
	view, err := h.Stock.Overview(apiCtx(c))
	if err != nil {
		degrade(c, "stock.overview.fail", err, nil)
	}
	return render(c, "stock", fiber.Map{"View": view})
}

// GET /stock/history/:productId?fromDate&toDate
func (h *StockHandler) History(c *fiber.Ctx) error {
	pid, ok := paramID(c, "productId")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	from, to := c.Query("fromDate"), c.Query("toDate")
	for field, v := range map[string]string{"fromDate": from, "toDate": to} {
		if _, ok := validate.Date(v); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": field})
			return renderError(c, fiber.StatusBadRequest, "Invalid date")
		}
	}
	view := domain.StockView{ProductID: pid.String(), History: []domain.StockHistory{}}
	hist, err := h.Stock.History(apiCtx(c), pid, from, to)
	if err != nil {
		degrade(c, "stock.history.fail", err, map[string]any{"product_id": pid.String()})
	} else if hist != nil {
		view.History = hist
	}
	return render(c, "stock_history", fiber.Map{"View": view, "FromDate": from, "ToDate": to})
}

// POST /stock/update
func (h *StockHandler) Update(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.FormValue("productId"))
	qty, err := formInt(c.FormValue("newStockQuantity"))
	if !ok || err != nil || qty < 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "newStockQuantity"})
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return c.Redirect("/stock")
	}
	u := domain.StockUpdate{
		ProductID:        pid,
		NewStockQuantity: qty,
		Reason:           strings.TrimSpace(c.FormValue("reason")),
		Notes:            strings.TrimSpace(c.FormValue("notes")),
	}
	if err := h.Stock.Update(apiCtx(c), u); err != nil {
		applog.Error(c, "stock.update.fail", err, map[string]any{"product_id": pid.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/stock")
	}
	applog.Audit(c, "stock.update", map[string]any{"product_id": pid.String(), "quantity": qty})
	flash(c, "success", tr(c, "stock.updated", "Stock updated."))
	return c.Redirect("/stock")
}

// GET /stock/alerts
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.Stock.Alerts(apiCtx(c))
	if err != nil {
		return jsonFail(c, fiber.StatusOK, "stock.alerts.fail", err)
	}
	if alerts == nil {
		alerts = []domain.StockAlert{}
	}
	return c.JSON(fiber.Map{"success": true, "data": alerts})
}

// GET /stock/low-stock?threshold
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	threshold := defaultLowStock
	if raw := strings.TrimSpace(c.Query("threshold")); raw != "" {
		n, err := formInt(raw)
		if err != nil || n < 0 || n > maxLowStockThresh {
			applog.Security(c, "validation.fail", map[string]any{"field": "threshold"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": tr(c, "validation.fields", "Please check the highlighted fields.")})
		}
		threshold = n
	}
	products, err := h.Stock.LowStockAt(apiCtx(c), threshold)
	if err != nil {
		return jsonFail(c, fiber.StatusOK, "stock.lowstock.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

// POST /stock/bulk-update with a JSON body
func (h *StockHandler) BulkUpdate(c *fiber.Ctx) error {
	var req domain.BulkStockUpdate
	if err := c.BodyParser(&req); err != nil || !validBulk(req) {
		fields := map[string]any{"field": "stockUpdates", "rows": len(req.StockUpdates)}
		if err != nil {
			fields["err"] = err.Error()
		}
		applog.Security(c, "validation.fail", fields)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": tr(c, "validation.fields", "Please check the highlighted fields.")})
	}
	if err := h.Stock.BulkUpdate(apiCtx(c), req); err != nil {
		return jsonFail(c, fiber.StatusOK, "stock.bulk_update.fail", err)
	}
	applog.Audit(c, "stock.bulk_update", map[string]any{"rows": len(req.StockUpdates)})
	return c.JSON(fiber.Map{"success": true, "message": tr(c, "stock.bulk_updated", "Stock levels updated.")})
}

func validBulk(req domain.BulkStockUpdate) bool {
	if len(req.StockUpdates) == 0 || len(req.StockUpdates) > maxBulkRows {
		return false
	}
	for _, u := range req.StockUpdates {
		if u.ProductID == uuid.Nil || u.NewStockQuantity < 0 {
			return false
		}
	}
	return true
}

// POST /stock/alerts/:id/resolve
func (h *StockHandler) ResolveAlert(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid alert")
	}
	if err := h.Stock.ResolveAlert(apiCtx(c), id, strings.TrimSpace(c.FormValue("notes"))); err != nil {
		applog.Error(c, "stock.alert.resolve.fail", err, map[string]any{"alert_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/stock")
	}
	applog.Audit(c, "stock.alert.resolve", map[string]any{"alert_id": id.String()})
	flash(c, "success", tr(c, "stock.alert.resolved", "Alert resolved."))
	return c.Redirect("/stock")
}

// POST /stock/sync
func (h *StockHandler) Sync(c *fiber.Ctx) error {
	return h.merchantAction(c, "stock.sync", h.Stock.Sync, tr(c, "stock.synced", "Stock synchronised."))
}

// POST /stock/check-alerts
func (h *StockHandler) CheckAlerts(c *fiber.Ctx) error {
	return h.merchantAction(c, "stock.check_alerts", h.Stock.CheckAlerts, tr(c, "stock.checked", "Stock alerts checked."))
}

func (h *StockHandler) merchantAction(c *fiber.Ctx, action string, fn func(context.Context, uuid.UUID) error, ok string) error {
	mid := merchantOf(c)
	if err := fn(apiCtx(c), mid); err != nil {
		applog.Error(c, action+".fail", err, map[string]any{"merchant_id": mid.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/stock")
	}
	applog.Audit(c, action, map[string]any{"merchant_id": mid.String()})
	flash(c, "success", ok)
	return c.Redirect("/stock")
}

// GET /stock/export
func (h *StockHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.Stock.Export(apiCtx(c), &buf); err != nil {
		applog.Error(c, "stock.export.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/stock")
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	name := "Stock_Export_" + now().Format("20060102_150405") + ".csv"
	applog.Audit(c, "stock.export", map[string]any{"file": name})
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}

// POST /stock/import
func (h *StockHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "file"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": tr(c, "stock.import.nofile", "Please choose a CSV file.")})
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") || fh.Size > maxImportSize {
		applog.Security(c, "validation.fail", map[string]any{"field": "file", "name": fh.Filename, "size": fh.Size})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": tr(c, "stock.import.badfile", "Only .csv files up to 1 MB are accepted.")})
	}
	f, err := fh.Open()
	if err != nil {
		return jsonFail(c, fiber.StatusBadRequest, "stock.import.fail", err)
	}
	defer f.Close()

	res, err := h.Stock.Import(apiCtx(c), f)
	if err != nil {
		applog.Error(c, "stock.import.fail", err, map[string]any{"rows": res.TotalRows})
	}
	res.Success = err == nil && res.SuccessCount > 0
	res.Message = fmt.Sprintf(tr(c, "stock.import.done", "%d/%d rows imported."), res.SuccessCount, res.TotalRows)
	applog.Audit(c, "stock.import.done", map[string]any{
		"total":   res.TotalRows,
		"success": res.SuccessCount,
		"errors":  res.ErrorCount,
	})
	return c.JSON(res)
}
