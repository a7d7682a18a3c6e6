package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type CouponHandler struct {
	Coupons *services.CouponService
}

// GET /coupons?page
func (h *CouponHandler) List(c *fiber.Ctx) error {
	return h.page(c, domain.CouponForm{DiscountType: domain.DiscountPercentage, IsActive: true})
}

func (h *CouponHandler) page(c *fiber.Ctx, f domain.CouponForm) error {
	page := validate.Page(c.Query("page"))
	coupons, err := h.Coupons.List(apiCtx(c), page)
	if err != nil {
		degrade(c, "coupons.list.fail", err, nil)
	}
	return render(c, "coupons", fiber.Map{"View": domain.CouponsView{Coupons: coupons, Form: f}})
}

// POST /coupons
func (h *CouponHandler) Create(c *fiber.Ctx) error {
	f := domain.CouponForm{
		Code:          strings.TrimSpace(c.FormValue("code")),
		Description:   strings.TrimSpace(c.FormValue("description")),
		DiscountType:  c.FormValue("discountType"),
		DiscountValue: c.FormValue("discountValue"),
		StartDate:     c.FormValue("startDate"),
		EndDate:       c.FormValue("endDate"),
		UsageLimit:    c.FormValue("usageLimit"),
		IsActive:      formBool(c, "isActive"),
	}
	coupon, err := h.Coupons.Create(apiCtx(c), f)
	if err != nil {
		status := fiber.StatusBadGateway
		if isValidation(err) {
			status = fiber.StatusBadRequest
			applog.Security(c, "validation.fail", map[string]any{"form": "coupon", "reason": err.Error()})
		} else {
			applog.Error(c, "coupons.create.fail", err, nil)
		}
		flashNow(c, "error", userMessage(c, err))
		c.Status(status)
		return h.page(c, f)
	}
	applog.Audit(c, "coupons.create", map[string]any{"coupon_id": coupon.ID.String(), "code": coupon.Code})
	flash(c, "success", tr(c, "coupons.created", "Coupon created."))
	return c.Redirect("/coupons")
}

// POST /coupons/validate {code, orderAmount}
func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	var body struct {
		Code        string `json:"code" form:"code"`
		OrderAmount string `json:"orderAmount" form:"orderAmount"`
	}
	if err := c.BodyParser(&body); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "coupon_validate"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	amount, ok := formDecimal(body.OrderAmount)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "orderAmount"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	res, err := h.Coupons.Validate(apiCtx(c), body.Code, amount)
	if err != nil {
		return jsonActionFail(c, "coupons.validate.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": res})
}
