package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
	Prefs         *services.SettingsService
}

// GET /notifications?page
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page := validate.Page(c.Query("page"))
	res, err := h.Notifications.List(apiCtx(c), page, services.NotificationPageSize)
	if err != nil {
		degrade(c, "notifications.list.fail", err, nil)
		res = domain.EmptyPage[domain.Notification](page, services.NotificationPageSize)
	}
	if res.Items == nil {
		res.Items = []domain.Notification{}
	}
	return render(c, "notifications", fiber.Map{"Page": res})
}

// GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Notifications.UnreadCount(apiCtx(c))
	if err != nil {
		applog.Error(c, "notifications.unread.fail", err, nil)
	}
	return c.JSON(fiber.Map{"count": n})
}

// POST /notifications/mark-read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	var ids []uuid.UUID
	for _, raw := range formValues(c, "ids") {
		for _, part := range strings.Split(raw, ",") {
			if id, ok := validate.ID(part); ok {
				ids = append(ids, id)
			}
		}
	}
	if err := h.Notifications.MarkRead(apiCtx(c), ids); err != nil {
		applog.Error(c, "notifications.mark_read.fail", err, map[string]any{"count": len(ids)})
		flash(c, "error", userMessage(c, err))
	}
	return c.Redirect("/notifications")
}

// GET /notifications/preferences
func (h *NotificationHandler) Preferences(c *fiber.Ctx) error {
	p, err := h.Notifications.Preferences(apiCtx(c))
	if err != nil {
		degrade(c, "notifications.preferences.fail", err, nil)
	}
	return render(c, "notification_preferences", fiber.Map{"Prefs": p})
}

// POST /notifications/preferences
func (h *NotificationHandler) UpdatePreferences(c *fiber.Ctx) error {
	p := domain.NotificationPreferences{
		EmailEnabled: formBool(c, "emailEnabled"),
		SmsEnabled:   formBool(c, "smsEnabled"),
		PushEnabled:  formBool(c, "pushEnabled"),
	}
	if err := h.Notifications.UpdatePreferences(apiCtx(c), p); err != nil {
		applog.Error(c, "notifications.preferences.update.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/notifications/preferences")
	}
	applog.Audit(c, "notifications.preferences.update", nil)
	flash(c, "success", tr(c, "settings.saved", "Preferences saved."))
	return c.Redirect("/notifications/preferences")
}

// GET /settings
func (h *NotificationHandler) Settings(c *fiber.Ctx) error {
	p, err := h.Prefs.Get(apiCtx(c))
	if err != nil {
		applog.Error(c, "settings.get.fail", err, nil)
		p = services.DefaultPreferences()
	}
	return render(c, "settings", fiber.Map{"Prefs": p})
}

// POST /settings
func (h *NotificationHandler) UpdateSettings(c *fiber.Ctx) error {
	p := domain.MerchantPreferences{
		SoundEnabled:              formBool(c, "soundEnabled"),
		DesktopNotifications:      formBool(c, "desktopNotifications"),
		EmailNotifications:        formBool(c, "emailNotifications"),
		NewOrderNotifications:     formBool(c, "newOrderNotifications"),
		StatusChangeNotifications: formBool(c, "statusChangeNotifications"),
		CancellationNotifications: formBool(c, "cancellationNotifications"),
		DoNotDisturbEnabled:       formBool(c, "doNotDisturbEnabled"),
		DoNotDisturbStart:         strings.TrimSpace(c.FormValue("doNotDisturbStart")),
		DoNotDisturbEnd:           strings.TrimSpace(c.FormValue("doNotDisturbEnd")),
		NotificationSound:         strings.TrimSpace(c.FormValue("notificationSound")),
	}
	if err := validate.Struct(p); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"fields": validate.Fields(err)})
		flashNow(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		c.Status(fiber.StatusBadRequest)
		return render(c, "settings", fiber.Map{"Prefs": p})
	}
	if _, err := h.Prefs.Update(apiCtx(c), p); err != nil {
		applog.Error(c, "settings.update.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/settings")
	}
	applog.Audit(c, "settings.update", nil)
	flash(c, "success", tr(c, "settings.saved", "Preferences saved."))
	return c.Redirect("/settings")
}
