package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	"merchantportal/internal/services"
)

type InventoryHandler struct {
	Inventory *services.InventoryService
	Now       func() time.Time
}

// GET /inventory?startDate&endDate&slowThreshold&method&includeVariants
func (h *InventoryHandler) Index(c *fiber.Ctx) error {
	start, end, ok := dateRange(c)
	if !ok {
		return badRange(c)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	f := services.ResolveInventoryFilter(services.InventoryQuery{
		From:            start,
		To:              end,
		SlowThreshold:   c.Query("slowThreshold"),
		ValuationMethod: c.Query("method"),
		IncludeVariants: c.QueryBool("includeVariants"),
	}, now())
	view, err := h.Inventory.Page(apiCtx(c), f)
	if err != nil {
		degrade(c, "inventory.page.fail", err, nil)
	}
	return render(c, "inventory", fiber.Map{"View": view, "Methods": domain.ValuationMethods})
}
