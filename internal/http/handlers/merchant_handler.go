package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type MerchantHandler struct {
	Merchants    *services.MerchantService
	WorkingHours *services.WorkingHoursService
}

// GET /merchant/settings
func (h *MerchantHandler) Settings(c *fiber.Ctx) error {
	ctx := apiCtx(c)
	mid := merchantOf(c)
	view := domain.MerchantSettingsView{WorkingHours: []domain.WorkingHours{}}
	m, err := h.Merchants.Get(ctx, mid)
	if err != nil {
		degrade(c, "merchant.get.fail", err, map[string]any{"merchant_id": mid.String()})
	} else {
		view.Merchant = m
	}
	if wh, err := h.WorkingHours.Get(ctx, mid); err != nil {
		applog.Error(c, "merchant.working_hours.fail", err, nil)
	} else {
		view.WorkingHours = wh
	}
	return render(c, "merchant_settings", fiber.Map{"View": view})
}

// POST /merchant/settings
func (h *MerchantHandler) UpdateSettings(c *fiber.Ctx) error {
	mid := merchantOf(c)
	if raw := c.FormValue("merchantId"); raw != "" {
		if id, ok := validate.ID(raw); !ok || id != mid {
			applog.Security(c, "access.denied.merchant", map[string]any{"merchant_id": raw})
			return renderError(c, fiber.StatusForbidden, "Access denied")
		}
	}
	req, field := merchantRequest(c)
	if field == "" {
		if err := validate.Struct(req); err != nil {
			for f := range validate.Fields(err) {
				field = f
				break
			}
		}
	}
	if field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return c.Redirect("/merchant/settings")
	}
	if _, err := h.Merchants.Update(apiCtx(c), mid, req); err != nil {
		applog.Error(c, "merchant.update.fail", err, map[string]any{"merchant_id": mid.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/merchant/settings")
	}
	applog.Audit(c, "merchant.update", map[string]any{"merchant_id": mid.String()})
	flash(c, "success", tr(c, "merchant.saved", "Settings saved."))
	return c.Redirect("/merchant/settings")
}

func merchantRequest(c *fiber.Ctx) (domain.UpdateMerchantRequest, string) {
	req := domain.UpdateMerchantRequest{
		Name:          strings.TrimSpace(c.FormValue("name")),
		Description:   strings.TrimSpace(c.FormValue("description")),
		Address:       strings.TrimSpace(c.FormValue("address")),
		PhoneNumber:   strings.TrimSpace(c.FormValue("phoneNumber")),
		Email:         strings.TrimSpace(c.FormValue("email")),
		LogoURL:       strings.TrimSpace(c.FormValue("logoUrl")),
		CoverImageURL: strings.TrimSpace(c.FormValue("coverImageUrl")),
		IsActive:      formBool(c, "isActive"),
		IsBusy:        formBool(c, "isBusy"),
	}
	var err error
	if req.AverageDeliveryTime, err = formInt(c.FormValue("averageDeliveryTime")); err != nil {
		return req, "averageDeliveryTime"
	}
	for _, f := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"latitude", &req.Latitude},
		{"longitude", &req.Longitude},
		{"minimumOrderAmount", &req.MinimumOrderAmount},
		{"deliveryFee", &req.DeliveryFee},
	} {
		d, ok := formDecimal(c.FormValue(f.name))
		if !ok {
			return req, f.name
		}
		*f.dst = d.Decimal
	}
	return req, ""
}

// GET /merchant/working-hours
func (h *MerchantHandler) WorkingHoursForm(c *fiber.Ctx) error {
	mid := merchantOf(c)
	rows, err := h.WorkingHours.Get(apiCtx(c), mid)
	if err != nil {
		degrade(c, "merchant.working_hours.fail", err, map[string]any{"merchant_id": mid.String()})
		rows = services.DefaultWorkingHours(mid)
	}
	return render(c, "working_hours", fiber.Map{"Hours": rows})
}

// POST /merchant/working-hours
func (h *MerchantHandler) UpdateWorkingHours(c *fiber.Ctx) error {
	var rows []domain.UpdateWorkingHours
	for _, day := range formValues(c, "day") {
		rows = append(rows, domain.UpdateWorkingHours{
			DayOfWeek:     day,
			OpenTime:      c.FormValue("open_" + day),
			CloseTime:     c.FormValue("close_" + day),
			IsClosed:      formBool(c, "closed_"+day),
			IsOpen24Hours: formBool(c, "allday_"+day),
		})
	}
	if len(rows) == 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "day"})
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return c.Redirect("/merchant/working-hours")
	}
	for _, r := range rows {
		if r.IsClosed || r.IsOpen24Hours {
			continue
		}
		_, okOpen := validate.HHMM(r.OpenTime)
		_, okClose := validate.HHMM(r.CloseTime)
		if !okOpen || !okClose {
			applog.Security(c, "validation.fail", map[string]any{"field": "hours", "day": r.DayOfWeek})
			flash(c, "error", tr(c, "hours.invalid", "Enter a valid time (HH:mm)"))
			return c.Redirect("/merchant/working-hours")
		}
	}
	mid := merchantOf(c)
	if err := h.WorkingHours.BulkUpdate(apiCtx(c), mid, rows); err != nil {
		applog.Error(c, "merchant.working_hours.update.fail", err, map[string]any{"merchant_id": mid.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/merchant/working-hours")
	}
	applog.Audit(c, "merchant.working_hours.update", map[string]any{"merchant_id": mid.String(), "days": len(rows)})
	flash(c, "success", tr(c, "hours.saved", "Working hours saved."))
	return c.Redirect("/merchant/working-hours")
}
