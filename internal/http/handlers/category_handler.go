package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type CategoryHandler struct {
	Categories *services.CategoryService
}

// GET /categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	ctx := apiCtx(c)
	mid := merchantOf(c)
	cats, err := h.Categories.ForMerchant(ctx, mid)
	if err != nil {
		degrade(c, "categories.list.fail", err, map[string]any{"merchant_id": mid.String()})
		cats = []domain.ProductCategory{}
	}
	standard, err := h.Categories.Standard(ctx)
	if err != nil {
		applog.Error(c, "categories.standard.fail", err, nil)
		standard = []domain.ProductCategory{}
	}
	return render(c, "categories", fiber.Map{
		"Tree":       services.Flatten(services.BuildTree(cats)),
		"Categories": cats,
		"Standard":   standard,
	})
}

// GET /categories/:id/edit
func (h *CategoryHandler) Edit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Category not found")
	}
	ctx := apiCtx(c)
	cat, err := h.Categories.Get(ctx, id)
	if err != nil {
		applog.Error(c, "categories.get.fail", err, map[string]any{"category_id": id.String()})
		return renderError(c, fiber.StatusNotFound, "Category not found")
	}
	parents, err := h.Categories.ForMerchant(ctx, merchantOf(c))
	if err != nil {
		applog.Error(c, "categories.list.fail", err, nil)
	}
	return render(c, "category_form", fiber.Map{"Category": cat, "Parents": parents})
}

// POST /categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	req, ok := h.request(c)
	if !ok {
		return c.Redirect("/categories")
	}
	cat, err := h.Categories.Create(apiCtx(c), merchantOf(c), req)
	if err != nil {
		applog.Error(c, "categories.create.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/categories")
	}
	applog.Audit(c, "categories.create", map[string]any{"category_id": cat.ID.String()})
	flash(c, "success", tr(c, "categories.saved", "Category saved."))
	return c.Redirect("/categories")
}

// POST /categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid category")
	}
	req, ok := h.request(c)
	if !ok {
		return c.Redirect("/categories/" + id.String() + "/edit")
	}
	if req.ParentCategoryID != nil && *req.ParentCategoryID == id {
		applog.Security(c, "validation.fail", map[string]any{"field": "parentCategoryId"})
		flash(c, "error", tr(c, "categories.parent.self", "A category cannot be its own parent."))
		return c.Redirect("/categories/" + id.String() + "/edit")
	}
	if _, err := h.Categories.Update(apiCtx(c), id, req); err != nil {
		applog.Error(c, "categories.update.fail", err, map[string]any{"category_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/categories/" + id.String() + "/edit")
	}
	applog.Audit(c, "categories.update", map[string]any{"category_id": id.String()})
	flash(c, "success", tr(c, "categories.saved", "Category saved."))
	return c.Redirect("/categories")
}

// POST /categories/:id/delete
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid category")
	}
	if err := h.Categories.Delete(apiCtx(c), id); err != nil {
		applog.Error(c, "categories.delete.fail", err, map[string]any{"category_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/categories")
	}
	applog.Audit(c, "categories.delete", map[string]any{"category_id": id.String()})
	flash(c, "success", tr(c, "categories.deleted", "Category deleted."))
	return c.Redirect("/categories")
}

// request reads and validates the category form, queuing an error flash when it fails.
func (h *CategoryHandler) request(c *fiber.Ctx) (domain.CategoryRequest, bool) {
	req := domain.CategoryRequest{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		ImageURL:    strings.TrimSpace(c.FormValue("imageUrl")),
		IsActive:    formBool(c, "isActive"),
	}
	if pid, ok := validate.ID(c.FormValue("parentCategoryId")); ok {
		req.ParentCategoryID = &pid
	}
	order, err := formInt(c.FormValue("displayOrder"))
	if err == nil {
		req.DisplayOrder = order
		err = validate.Struct(req)
	}
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"fields": validate.Fields(err)})
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return req, false
	}
	return req, true
}
