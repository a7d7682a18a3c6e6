package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// GET /orders?page&status
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"))
	status := strings.TrimSpace(c.Query("status"))
	if status != "" && !domain.ValidOrderStatus(status) {
		applog.Security(c, "validation.fail", map[string]any{"field": "status"})
		status = ""
	}
	orders, err := h.Orders.List(apiCtx(c), page, status)
	if err != nil {
		degrade(c, "orders.list.fail", err, map[string]any{"page": page})
		orders = domain.EmptyPage[domain.Order](page, services.OrderPageSize)
	}
	return render(c, "orders", fiber.Map{
		"View": domain.OrderListView{Orders: orders, Status: status, Statuses: domain.OrderStatuses},
	})
}

// GET /orders/pending
func (h *OrderHandler) Pending(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"))
	orders, err := h.Orders.Pending(apiCtx(c), page)
	if err != nil {
		degrade(c, "orders.pending.fail", err, nil)
		orders = domain.EmptyPage[domain.Order](page, services.OrderPageSize)
	}
	return render(c, "orders", fiber.Map{
		"View":    domain.OrderListView{Orders: orders, Status: "Pending", Statuses: domain.OrderStatuses},
		"Pending": true,
	})
}

// GET /orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Order not found")
	}
	o, err := h.Orders.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "orders.get.fail", err, map[string]any{"order_id": id.String()})
		return renderError(c, fiber.StatusNotFound, "Order not found")
	}
	return render(c, "order_detail", fiber.Map{"Order": o, "Statuses": domain.OrderStatuses})
}

// POST /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid order")
	}
	req := domain.UpdateOrderStatusRequest{
		Status: strings.TrimSpace(c.FormValue("status")),
		Notes:  strings.TrimSpace(c.FormValue("notes")),
	}
	back := "/orders/" + id.String()
	if err := h.Orders.UpdateStatus(apiCtx(c), id, req); err != nil {
		applog.Error(c, "orders.status.fail", err, map[string]any{"order_id": id.String(), "status": req.Status})
		flash(c, "error", userMessage(c, err))
		return c.Redirect(back)
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id.String(), "status": req.Status})
	flash(c, "success", tr(c, "orders.status.updated", "Order status updated."))
	return c.Redirect(back)
}
