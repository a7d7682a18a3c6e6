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

// AccountHandler serves the signed-in user's own account pages.
type AccountHandler struct {
	Account *services.AccountService
}

// GET /account?ordersPage&favoritesPage
func (h *AccountHandler) Index(c *fiber.Ctx) error {
	view, err := h.Account.Page(apiCtx(c), validate.Page(c.Query("ordersPage")), validate.Page(c.Query("favoritesPage")))
	if err != nil {
		degrade(c, "account.profile.fail", err, nil)
	}
	return render(c, "account", fiber.Map{"View": view})
}

// POST /account/profile
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	req := domain.ProfileRequest{
		FirstName:   c.FormValue("firstName"),
		LastName:    c.FormValue("lastName"),
		PhoneNumber: c.FormValue("phoneNumber"),
	}
	if _, err := h.Account.UpdateProfile(apiCtx(c), req); err != nil {
		actionFail(c, "account.profile_update.fail", err, map[string]any{"form": "profile"})
		return c.Redirect("/account")
	}
	applog.Audit(c, "account.profile_update", nil)
	flash(c, "success", tr(c, "account.saved", "Account updated."))
	return c.Redirect("/account")
}

func optionalText(c *fiber.Ctx, key string) *string {
	v := strings.TrimSpace(c.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// POST /account/preferences
func (h *AccountHandler) UpdatePreferences(c *fiber.Ctx) error {
	p := domain.UserNotificationPreferences{
		EmailEnabled:              formBool(c, "emailEnabled"),
		EmailOrderUpdates:         formBool(c, "emailOrderUpdates"),
		EmailPromotions:           formBool(c, "emailPromotions"),
		EmailNewsletter:           formBool(c, "emailNewsletter"),
		EmailSecurityAlerts:       formBool(c, "emailSecurityAlerts"),
		SmsEnabled:                formBool(c, "smsEnabled"),
		SmsOrderUpdates:           formBool(c, "smsOrderUpdates"),
		SmsPromotions:             formBool(c, "smsPromotions"),
		SmsSecurityAlerts:         formBool(c, "smsSecurityAlerts"),
		PushEnabled:               formBool(c, "pushEnabled"),
		PushOrderUpdates:          formBool(c, "pushOrderUpdates"),
		PushPromotions:            formBool(c, "pushPromotions"),
		PushMerchantUpdates:       formBool(c, "pushMerchantUpdates"),
		PushSecurityAlerts:        formBool(c, "pushSecurityAlerts"),
		SoundEnabled:              formBool(c, "soundEnabled"),
		DesktopNotifications:      formBool(c, "desktopNotifications"),
		NotificationSound:         strings.TrimSpace(c.FormValue("notificationSound")),
		NewOrderNotifications:     formBool(c, "newOrderNotifications"),
		StatusChangeNotifications: formBool(c, "statusChangeNotifications"),
		CancellationNotifications: formBool(c, "cancellationNotifications"),
		RespectQuietHours:         formBool(c, "respectQuietHours"),
		QuietStartTime:            optionalText(c, "quietStartTime"),
		QuietEndTime:              optionalText(c, "quietEndTime"),
		Language:                  strings.TrimSpace(c.FormValue("language")),
	}
	if err := h.Account.UpdatePreferences(apiCtx(c), p); err != nil {
		actionFail(c, "account.preferences_update.fail", err, map[string]any{"form": "account_preferences"})
		return c.Redirect("/account")
	}
	applog.Audit(c, "account.preferences_update", nil)
	flash(c, "success", tr(c, "account.saved", "Account updated."))
	return c.Redirect("/account")
}

func addressRequest(c *fiber.Ctx) (domain.AddressRequest, bool) {
	lat, okLat := formDecimal(c.FormValue("latitude"))
	lng, okLng := formDecimal(c.FormValue("longitude"))
	if !okLat || !okLng {
		applog.Security(c, "validation.fail", map[string]any{"form": "address"})
		return domain.AddressRequest{}, false
	}
	return domain.AddressRequest{
		Title:       c.FormValue("title"),
		FullAddress: c.FormValue("fullAddress"),
		City:        c.FormValue("city"),
		District:    c.FormValue("district"),
		Latitude:    orZero(lat),
		Longitude:   orZero(lng),
	}, true
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

// POST /account/addresses
func (h *AccountHandler) AddAddress(c *fiber.Ctx) error {
	req, ok := addressRequest(c)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect("/account")
	}
	a, err := h.Account.AddAddress(apiCtx(c), req)
	if err != nil {
		actionFail(c, "account.address_add.fail", err, map[string]any{"form": "address"})
		return c.Redirect("/account")
	}
	applog.Audit(c, "account.address_add", map[string]any{"address_id": a.ID.String()})
	flash(c, "success", tr(c, "account.address.saved", "Address saved."))
	return c.Redirect("/account")
}

// POST /account/addresses/:id
func (h *AccountHandler) UpdateAddress(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid address")
	}
	req, ok := addressRequest(c)
	if !ok {
		flash(c, "error", tr(c, "validation.summary", "Please check the highlighted fields."))
		return c.Redirect("/account")
	}
	if _, err := h.Account.UpdateAddress(apiCtx(c), id, req); err != nil {
		actionFail(c, "account.address_update.fail", err, map[string]any{"address_id": id.String()})
		return c.Redirect("/account")
	}
	applog.Audit(c, "account.address_update", map[string]any{"address_id": id.String()})
	flash(c, "success", tr(c, "account.address.saved", "Address saved."))
	return c.Redirect("/account")
}

// POST /account/addresses/:id/delete
func (h *AccountHandler) DeleteAddress(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid address")
	}
	if err := h.Account.DeleteAddress(apiCtx(c), id); err != nil {
		actionFail(c, "account.address_delete.fail", err, map[string]any{"address_id": id.String()})
		return c.Redirect("/account")
	}
	applog.Audit(c, "account.address_delete", map[string]any{"address_id": id.String()})
	flash(c, "success", tr(c, "account.address.deleted", "Address deleted."))
	return c.Redirect("/account")
}

// POST /account/addresses/:id/default
func (h *AccountHandler) SetDefaultAddress(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid address")
	}
	if err := h.Account.SetDefaultAddress(apiCtx(c), id); err != nil {
		actionFail(c, "account.address_default.fail", err, map[string]any{"address_id": id.String()})
		return c.Redirect("/account")
	}
	applog.Audit(c, "account.address_default", map[string]any{"address_id": id.String()})
	return c.Redirect("/account")
}

// POST /account/favorites {productId}
func (h *AccountHandler) AddFavorite(c *fiber.Ctx) error {
	id, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	if err := h.Account.AddFavorite(apiCtx(c), id); err != nil {
		return jsonActionFail(c, "account.favorite_add.fail", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// POST /account/favorites/:productId/delete
func (h *AccountHandler) RemoveFavorite(c *fiber.Ctx) error {
	id, ok := paramID(c, "productId")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid product")
	}
	if err := h.Account.RemoveFavorite(apiCtx(c), id); err != nil {
		actionFail(c, "account.favorite_remove.fail", err, map[string]any{"product_id": id.String()})
		return c.Redirect("/account")
	}
	flash(c, "success", tr(c, "account.favorite.removed", "Removed from favourites."))
	return c.Redirect("/account")
}

// GET /account/orders/:id
func (h *AccountHandler) Order(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Order not found")
	}
	o, err := h.Account.Order(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "account.order.fail", err, map[string]any{"order_id": id.String()})
		return renderError(c, fiber.StatusNotFound, "Order not found")
	}
	return render(c, "account_order", fiber.Map{"Order": o})
}

// POST /account/orders/:id/cancel {reason}
func (h *AccountHandler) CancelOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid order")
	}
	back := "/account/orders/" + id.String()
	if err := h.Account.CancelOrder(apiCtx(c), id, c.FormValue("reason")); err != nil {
		actionFail(c, "account.order_cancel.fail", err, map[string]any{"order_id": id.String()})
		return c.Redirect(back)
	}
	applog.Audit(c, "account.order_cancel", map[string]any{"order_id": id.String()})
	flash(c, "success", tr(c, "account.order.cancelled", "Order cancelled."))
	return c.Redirect(back)
}

// POST /account/orders/:id/reorder
func (h *AccountHandler) Reorder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid order")
	}
	if err := h.Account.Reorder(apiCtx(c), id); err != nil {
		actionFail(c, "account.reorder.fail", err, map[string]any{"order_id": id.String()})
		return c.Redirect("/account/orders/" + id.String())
	}
	applog.Audit(c, "account.reorder", map[string]any{"order_id": id.String()})
	flash(c, "success", tr(c, "account.order.reordered", "Order placed again."))
	return c.Redirect("/account")
}

// POST /account/locations {latitude, longitude, address}
func (h *AccountHandler) SaveLocation(c *fiber.Ctx) error {
	var req domain.SaveLocationRequest
	if err := c.BodyParser(&req); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "location"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	if err := h.Account.SaveLocation(apiCtx(c), req); err != nil {
		return jsonActionFail(c, "account.location.fail", err)
	}
	return c.JSON(fiber.Map{"success": true})
}
