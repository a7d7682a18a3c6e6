package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type VariantHandler struct {
	Variants *services.VariantService
	Products *services.ProductService
}

func variantsURL(productID uuid.UUID) string { return "/products/" + productID.String() + "/variants" }

// GET /products/:id/variants?page
func (h *VariantHandler) List(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	page := validate.Page(c.Query("page"))
	variants, err := h.Variants.List(apiCtx(c), p.ID, page)
	if err != nil {
		degrade(c, "variants.list.fail", err, map[string]any{"product_id": p.ID.String()})
	}
	return render(c, "product_variants", fiber.Map{
		"View":    domain.VariantsView{ProductID: p.ID, Variants: variants},
		"Product": p,
	})
}

func variantRequest(c *fiber.Ctx, productID uuid.UUID) (domain.VariantRequest, bool) {
	price, okPrice := formDecimal(c.FormValue("price"))
	stock, err := formInt(c.FormValue("stockQuantity"))
	if !okPrice || err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "variant"})
		return domain.VariantRequest{}, false
	}
	return domain.VariantRequest{
		ProductID:     productID,
		Name:          strings.TrimSpace(c.FormValue("name")),
		SKU:           strings.TrimSpace(c.FormValue("sku")),
		Price:         price.Decimal,
		StockQuantity: stock,
		IsActive:      formBool(c, "isActive"),
	}, true
}

// POST /products/:id/variants
func (h *VariantHandler) Create(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	req, ok := variantRequest(c, p.ID)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect(variantsURL(p.ID))
	}
	v, err := h.Variants.Create(apiCtx(c), req)
	if err != nil {
		actionFail(c, "variants.create.fail", err, map[string]any{"product_id": p.ID.String()})
		return c.Redirect(variantsURL(p.ID))
	}
	applog.Audit(c, "variants.create", map[string]any{"product_id": p.ID.String(), "variant_id": v.ID.String()})
	flash(c, "success", tr(c, "variants.saved", "Variant saved."))
	return c.Redirect(variantsURL(p.ID))
}

// ownVariant checks that :variantId belongs to the product.
func (h *VariantHandler) ownVariant(c *fiber.Ctx, productID uuid.UUID) (domain.ProductVariant, bool) {
	id, ok := paramID(c, "variantId")
	if !ok {
		return domain.ProductVariant{}, false
	}
	v, err := h.Variants.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "variants.get.fail", err, map[string]any{"variant_id": id.String()})
		return domain.ProductVariant{}, false
	}
	if v.ProductID != productID {
		applog.Security(c, "access.denied.variant", map[string]any{"variant_id": id.String()})
		return domain.ProductVariant{}, false
	}
	return v, true
}

// POST /products/:id/variants/:variantId
func (h *VariantHandler) Update(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	v, ok := h.ownVariant(c, p.ID)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Variant not found")
	}
	req, ok := variantRequest(c, p.ID)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect(variantsURL(p.ID))
	}
	if _, err := h.Variants.Update(apiCtx(c), v.ID, req); err != nil {
		actionFail(c, "variants.update.fail", err, map[string]any{"variant_id": v.ID.String()})
		return c.Redirect(variantsURL(p.ID))
	}
	applog.Audit(c, "variants.update", map[string]any{"variant_id": v.ID.String()})
	flash(c, "success", tr(c, "variants.saved", "Variant saved."))
	return c.Redirect(variantsURL(p.ID))
}

// POST /products/:id/variants/:variantId/delete
func (h *VariantHandler) Delete(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	v, ok := h.ownVariant(c, p.ID)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Variant not found")
	}
	if err := h.Variants.Delete(apiCtx(c), v.ID); err != nil {
		actionFail(c, "variants.delete.fail", err, map[string]any{"variant_id": v.ID.String()})
		return c.Redirect(variantsURL(p.ID))
	}
	applog.Audit(c, "variants.delete", map[string]any{"variant_id": v.ID.String()})
	flash(c, "success", tr(c, "variants.deleted", "Variant deleted."))
	return c.Redirect(variantsURL(p.ID))
}

// POST /products/:id/variants/:variantId/stock {stockQuantity}
func (h *VariantHandler) UpdateStock(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false})
	}
	v, ok := h.ownVariant(c, p.ID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false})
	}
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stockQuantity")))
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "stockQuantity"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	if err := h.Variants.UpdateStock(apiCtx(c), v.ID, qty); err != nil {
		return jsonActionFail(c, "variants.stock.fail", err)
	}
	applog.Audit(c, "variants.stock", map[string]any{"variant_id": v.ID.String(), "old": v.StockQuantity, "new": qty})
	return c.JSON(fiber.Map{"success": true, "stockQuantity": qty})
}

// POST /products/:id/variants/stock {updates: [{id, newStockQuantity}]}
func (h *VariantHandler) BulkStock(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false})
	}
	var body struct {
		Updates []domain.VariantStockUpdate `json:"updates"`
	}
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "variant_bulk_stock"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	if err := h.Variants.BulkUpdateStock(apiCtx(c), body.Updates); err != nil {
		return jsonActionFail(c, "variants.bulk_stock.fail", err)
	}
	applog.Audit(c, "variants.bulk_stock", map[string]any{"product_id": p.ID.String(), "count": len(body.Updates)})
	return c.JSON(fiber.Map{"success": true, "updated": len(body.Updates)})
}

