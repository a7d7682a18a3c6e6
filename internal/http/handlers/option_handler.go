package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
)

type OptionHandler struct {
	Options  *services.OptionService
	Products *services.ProductService
}

// ownProduct loads the product behind :id and hides products of other merchants.
func ownProduct(c *fiber.Ctx, products *services.ProductService) (domain.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return domain.Product{}, false
	}
	p, err := products.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "products.get.fail", err, map[string]any{"product_id": id.String()})
		return domain.Product{}, false
	}
	if p.MerchantID != merchantOf(c) {
		applog.Security(c, "access.denied.product", map[string]any{"product_id": id.String()})
		return domain.Product{}, false
	}
	return p, true
}

func optionsURL(productID uuid.UUID) string { return "/products/" + productID.String() + "/options" }

// GET /products/:id/options
func (h *OptionHandler) Index(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	view, err := h.Options.Page(apiCtx(c), p.ID)
	if err != nil {
		degrade(c, "options.list.fail", err, map[string]any{"product_id": p.ID.String()})
	}
	return render(c, "product_options", fiber.Map{"View": view, "Product": p})
}

func groupRequest(c *fiber.Ctx, productID uuid.UUID) (domain.OptionGroupRequest, bool) {
	order, err := formInt(c.FormValue("displayOrder"))
	if err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "displayOrder"})
		return domain.OptionGroupRequest{}, false
	}
	return domain.OptionGroupRequest{
		ProductID:    productID,
		Name:         strings.TrimSpace(c.FormValue("name")),
		Description:  strings.TrimSpace(c.FormValue("description")),
		DisplayOrder: order,
		IsRequired:   formBool(c, "isRequired"),
	}, true
}

// POST /products/:id/options/groups
func (h *OptionHandler) CreateGroup(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	req, ok := groupRequest(c, p.ID)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect(optionsURL(p.ID))
	}
	g, err := h.Options.CreateGroup(apiCtx(c), req)
	if err != nil {
		actionFail(c, "options.group_create.fail", err, map[string]any{"product_id": p.ID.String()})
		return c.Redirect(optionsURL(p.ID))
	}
	applog.Audit(c, "options.group_create", map[string]any{"product_id": p.ID.String(), "group_id": g.ID.String()})
	flash(c, "success", tr(c, "options.saved", "Options saved."))
	return c.Redirect(optionsURL(p.ID))
}

// POST /products/:id/options/groups/:groupId
func (h *OptionHandler) UpdateGroup(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	groupID, ok := paramID(c, "groupId")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid option group")
	}
	req, ok := groupRequest(c, p.ID)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect(optionsURL(p.ID))
	}
	if _, err := h.Options.UpdateGroup(apiCtx(c), groupID, req); err != nil {
		actionFail(c, "options.group_update.fail", err, map[string]any{"group_id": groupID.String()})
		return c.Redirect(optionsURL(p.ID))
	}
	applog.Audit(c, "options.group_update", map[string]any{"group_id": groupID.String()})
	flash(c, "success", tr(c, "options.saved", "Options saved."))
	return c.Redirect(optionsURL(p.ID))
}

// POST /products/:id/options/groups/:groupId/delete
func (h *OptionHandler) DeleteGroup(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	groupID, ok := paramID(c, "groupId")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid option group")
	}
	if err := h.Options.DeleteGroup(apiCtx(c), groupID); err != nil {
		actionFail(c, "options.group_delete.fail", err, map[string]any{"group_id": groupID.String()})
		return c.Redirect(optionsURL(p.ID))
	}
	applog.Audit(c, "options.group_delete", map[string]any{"group_id": groupID.String()})
	flash(c, "success", tr(c, "options.deleted", "Option removed."))
	return c.Redirect(optionsURL(p.ID))
}

// POST /products/:id/options/groups/reorder {groupIds: [...]}
func (h *OptionHandler) Reorder(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false})
	}
	var body struct {
		GroupIDs []uuid.UUID `json:"groupIds"`
	}
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "option_reorder"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	if err := h.Options.ReorderGroups(apiCtx(c), p.ID, body.GroupIDs); err != nil {
		return jsonActionFail(c, "options.reorder.fail", err)
	}
	applog.Audit(c, "options.reorder", map[string]any{"product_id": p.ID.String(), "groups": len(body.GroupIDs)})
	return c.JSON(fiber.Map{"success": true})
}

func optionRequest(c *fiber.Ctx, groupID uuid.UUID) (domain.ProductOptionRequest, bool) {
	price, okPrice := formDecimal(c.FormValue("extraPrice"))
	order, err := formInt(c.FormValue("displayOrder"))
	if !okPrice || err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "product_option"})
		return domain.ProductOptionRequest{}, false
	}
	return domain.ProductOptionRequest{
		ProductOptionGroupID: groupID,
		Name:                 strings.TrimSpace(c.FormValue("name")),
		Description:          strings.TrimSpace(c.FormValue("description")),
		ExtraPrice:           price,
		DisplayOrder:         order,
		IsActive:             formBool(c, "isActive"),
	}, true
}

// POST /products/:id/options/groups/:groupId/options
func (h *OptionHandler) CreateOption(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	groupID, ok := paramID(c, "groupId")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid option group")
	}
	req, ok := optionRequest(c, groupID)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect(optionsURL(p.ID))
	}
	opt, err := h.Options.CreateOption(apiCtx(c), req)
	if err != nil {
		actionFail(c, "options.create.fail", err, map[string]any{"group_id": groupID.String()})
		return c.Redirect(optionsURL(p.ID))
	}
	applog.Audit(c, "options.create", map[string]any{"group_id": groupID.String(), "option_id": opt.ID.String()})
	flash(c, "success", tr(c, "options.saved", "Options saved."))
	return c.Redirect(optionsURL(p.ID))
}

// POST /products/:id/options/groups/:groupId/options/:optionId
func (h *OptionHandler) UpdateOption(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	groupID, okG := paramID(c, "groupId")
	optionID, okO := paramID(c, "optionId")
	if !okG || !okO {
		return renderError(c, fiber.StatusBadRequest, "Invalid option")
	}
	req, ok := optionRequest(c, groupID)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect(optionsURL(p.ID))
	}
	if _, err := h.Options.UpdateOption(apiCtx(c), optionID, req); err != nil {
		actionFail(c, "options.update.fail", err, map[string]any{"option_id": optionID.String()})
		return c.Redirect(optionsURL(p.ID))
	}
	applog.Audit(c, "options.update", map[string]any{"option_id": optionID.String()})
	flash(c, "success", tr(c, "options.saved", "Options saved."))
	return c.Redirect(optionsURL(p.ID))
}

// POST /products/:id/options/groups/:groupId/options/:optionId/delete
func (h *OptionHandler) DeleteOption(c *fiber.Ctx) error {
	p, ok := ownProduct(c, h.Products)
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Product not found")
	}
	optionID, ok := paramID(c, "optionId")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid option")
	}
	if err := h.Options.DeleteOption(apiCtx(c), optionID); err != nil {
		actionFail(c, "options.delete.fail", err, map[string]any{"option_id": optionID.String()})
		return c.Redirect(optionsURL(p.ID))
	}
	applog.Audit(c, "options.delete", map[string]any{"option_id": optionID.String()})
	flash(c, "success", tr(c, "options.deleted", "Option removed."))
	return c.Redirect(optionsURL(p.ID))
}
