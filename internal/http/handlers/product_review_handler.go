package handlers

import (
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type ProductReviewHandler struct {
	Reviews  *services.ProductReviewService
	Products *services.ProductService
}

// GET /product-reviews?rating&approved&page
func (h *ProductReviewHandler) List(c *fiber.Ctx) error {
	f := domain.ProductReviewFilter{
		Rating:   validate.Clamp(c.Query("rating"), 0, 0, 5),
		Approved: services.ParseApproved(c.Query("approved")),
		Page:     validate.Page(c.Query("page")),
	}
	view, err := h.Reviews.Page(apiCtx(c), merchantOf(c), f)
	if err != nil {
		degrade(c, "product_reviews.list.fail", err, nil)
	}
	return render(c, "product_reviews", fiber.Map{"View": view, "Query": template.URL(services.ProductReviewQuery(f))})
}

// GET /product-reviews/product/:id?page
func (h *ProductReviewHandler) ForProduct(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	page := validate.Page(c.Query("page"))
	reviews, err := h.Reviews.ForProduct(apiCtx(c), p.ID, page)
	if err != nil {
		degrade(c, "product_reviews.product.fail", err, map[string]any{"product_id": p.ID.String()})
	}
	var stats *domain.ProductReviewStats
	if st, err := h.Reviews.ProductStats(apiCtx(c), p.ID); err == nil {
		stats = &st
	}
	return render(c, "product_reviews_product", fiber.Map{"Product": p, "Reviews": reviews, "Stats": stats})
}

// GET /product-reviews/:id
func (h *ProductReviewHandler) Detail(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	r, err := h.Reviews.Get(apiCtx(c), id)
	if err != nil {
		return jsonFail(c, fiber.StatusNotFound, "product_reviews.get.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": r})
}

// POST /product-reviews/:id/respond {response}
func (h *ProductReviewHandler) Respond(c *fiber.Ctx) error {
	return h.act(c, "respond", func(id uuid.UUID) error {
		return h.Reviews.Respond(apiCtx(c), id, c.FormValue("response"))
	}, tr(c, "reviews.responded", "Response sent."))
}

// POST /product-reviews/:id/approve
func (h *ProductReviewHandler) Approve(c *fiber.Ctx) error {
	return h.act(c, "approve", func(id uuid.UUID) error {
		return h.Reviews.Approve(apiCtx(c), id)
	}, tr(c, "product_reviews.approved", "Review approved."))
}

// POST /product-reviews/:id/reject {reason}
func (h *ProductReviewHandler) Reject(c *fiber.Ctx) error {
	return h.act(c, "reject", func(id uuid.UUID) error {
		return h.Reviews.Reject(apiCtx(c), id, strings.TrimSpace(c.FormValue("reason")))
	}, tr(c, "product_reviews.rejected", "Review rejected."))
}

// act runs one moderation action and answers {success, message} the way the list page's
// script expects.
func (h *ProductReviewHandler) act(c *fiber.Ctx, name string, run func(uuid.UUID) error, done string) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	if err := run(id); err != nil {
		return jsonActionFail(c, "product_reviews."+name+".fail", err)
	}
	applog.Audit(c, "product_reviews."+name, map[string]any{"review_id": id.String()})
	return c.JSON(fiber.Map{"success": true, "message": done})
}
