package handlers

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type PaymentHandler struct {
	Payments *services.PaymentService
	Now      func() time.Time
}

// dateRange reads startDate/endDate. Values that do not parse are dropped. A window
// that ends before it starts or spans more than validate.MaxRangeDays is rejected.
func dateRange(c *fiber.Ctx) (start, end *time.Time, ok bool) {
	if start, ok = validate.Date(c.Query("startDate")); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "startDate"})
	}
	if end, ok = validate.Date(c.Query("endDate")); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "endDate"})
	}
	if end != nil {
		// inclusive of the whole end day
		e := end.Add(24*time.Hour - time.Nanosecond)
		end = &e
	}
	if _, _, ok = validate.Range(start, end, time.Now(), services.DefaultReportDays); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "dateRange"})
		return nil, nil, false
	}
	return start, end, true
}

func badRange(c *fiber.Ctx) error {
	return renderError(c, fiber.StatusBadRequest, tr(c, "validation.range", "Invalid date range."))
}

func badRangeJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": tr(c, "validation.range", "Invalid date range.")})
}

// GET /payments?page&startDate&endDate&paymentMethod&status
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	f := paymentFilter(c, start, end)
	items, err := h.Payments.History(apiCtx(c), merchantOf(c), f)
	if err != nil {
		degrade(c, "payments.list.fail", err, nil)
	}
	return render(c, "payments", fiber.Map{
		"View": domain.PaymentListView{Payments: items, Filter: f, Methods: services.PaymentMethods},
	})
}

func paymentFilter(c *fiber.Ctx, start, end *time.Time) domain.PaymentFilter {
	return domain.PaymentFilter{
		Page:          validate.Page(c.Query("page")),
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: strings.TrimSpace(c.Query("paymentMethod")),
		Status:        strings.TrimSpace(c.Query("status")),
	}
}

// GET /payments/export?startDate&endDate&paymentMethod&status
func (h *PaymentHandler) Export(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	items, err := h.Payments.History(apiCtx(c), merchantOf(c), paymentFilter(c, start, end))
	if err != nil {
		applog.Error(c, "payments.export.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/payments")
	}
	var buf bytes.Buffer
	if err := services.WritePaymentsCSV(&buf, items); err != nil {
		return err
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	name := "Payments_" + now().Format("20060102_150405") + ".csv"
	applog.Audit(c, "payments.export", map[string]any{"file": name, "rows": len(items)})
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(buf.Bytes())
}

// GET /admin/cash-collections?status&page
func (h *PaymentHandler) CashCollections(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))
	page := validate.Page(c.Query("page"))
	res, err := h.Payments.CashCollections(apiCtx(c), page, status)
	if err != nil {
		degrade(c, "admin.cash_collections.fail", err, map[string]any{"status": status})
	}
	return render(c, "cash_collections", fiber.Map{
		"View": domain.CashCollectionsView{Collections: res, Status: status, CommissionRate: services.DefaultCommissionRate},
	})
}

// POST /admin/settlements/:merchantId/process
func (h *PaymentHandler) ProcessSettlement(c *fiber.Ctx) error {
	back := collectionsURL(c.FormValue("returnStatus"), c.FormValue("returnPage"))
	mid, ok := paramID(c, "merchantId")
	if !ok {
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return c.Redirect(back)
	}
	rate, okRate := formDecimal(c.FormValue("commissionRate"))
	if !okRate || !rate.Valid || rate.Decimal.IsNegative() || rate.Decimal.GreaterThan(decimal.NewFromInt(1)) {
		applog.Security(c, "validation.fail", map[string]any{"field": "commissionRate"})
		flash(c, "error", tr(c, "settlement.rate_range", "Commission rate must be between 0 and 1."))
		return c.Redirect(back)
	}
	req := domain.ProcessSettlementRequest{
		CommissionRate:        rate.Decimal,
		Notes:                 strings.TrimSpace(c.FormValue("notes")),
		BankTransferReference: strings.TrimSpace(c.FormValue("bankTransferReference")),
	}
	if err := h.Payments.ProcessSettlement(apiCtx(c), mid, req); err != nil {
		applog.Error(c, "admin.settlement.process.fail", err, map[string]any{"merchant_id": mid.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect(back)
	}
	applog.Audit(c, "admin.settlement.process", map[string]any{
		"merchant_id":     mid.String(),
		"commission_rate": rate.Decimal.String(),
	})
	flash(c, "success", tr(c, "settlement.processed", "Settlement processed."))
	return c.Redirect(back)
}

// collectionsURL rebuilds the cash collections link the form came from.
func collectionsURL(status, page string) string {
	q := url.Values{}
	if s := strings.TrimSpace(status); s != "" {
		q.Set("status", s)
	}
	q.Set("page", fmt.Sprint(validate.Page(page)))
	return "/admin/cash-collections?" + q.Encode()
}

// GET /payments/:id
func (h *PaymentHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Payment not found")
	}
	p, err := h.Payments.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "payments.get.fail", err, map[string]any{"payment_id": id.String()})
		return renderError(c, fiber.StatusNotFound, "Payment not found")
	}
	return render(c, "payment_detail", fiber.Map{
		"Payment":     p,
		"OrderNumber": services.OrderNumber(p.OrderID),
		"MethodName":  services.MethodDisplayName(p.PaymentMethod),
	})
}

// GET /payments/settlements?startDate&endDate
func (h *PaymentHandler) Settlements(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	now := time.Now()
	from, to := now.AddDate(0, 0, -30), now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	report, err := h.Payments.Settlement(apiCtx(c), merchantOf(c), from, to)
	if err != nil {
		degrade(c, "payments.settlement.fail", err, nil)
	}
	return render(c, "settlements", fiber.Map{"Report": report})
}

// GET /payments/analytics?startDate&endDate
func (h *PaymentHandler) Analytics(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	a, err := h.Payments.Analytics(apiCtx(c), merchantOf(c), start, end)
	if err != nil {
		degrade(c, "payments.analytics.fail", err, nil)
	}
	return render(c, "payment_analytics", fiber.Map{"Analytics": a})
}

// GET /payments/method-breakdown?startDate&endDate
func (h *PaymentHandler) MethodBreakdown(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRangeJSON(c)
	}
	rows, err := h.Payments.MethodBreakdown(apiCtx(c), merchantOf(c), start, end)
	if err != nil {
		return jsonFail(c, fiber.StatusOK, "payments.breakdown.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": rows})
}
