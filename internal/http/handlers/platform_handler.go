package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

// PlatformHandler serves the administrator pages for localization, rate limits and
// the platform overview.
type PlatformHandler struct {
	Localization *services.LocalizationService
	RateLimits   *services.RateLimitService
	Platform     *services.PlatformService
}

// GET /admin/localization?key&page
func (h *PlatformHandler) LocalizationPage(c *fiber.Ctx) error {
	req := domain.TranslationSearchRequest{
		Key:      strings.TrimSpace(c.Query("key")),
		Page:     validate.Page(c.Query("page")),
		PageSize: validate.Clamp(c.Query("pageSize"), services.AdminPageSize, 1, 100),
	}
	view := h.Localization.Page(apiCtx(c), req)
	return render(c, "admin_localization", fiber.Map{"View": view})
}

// POST /admin/localization/languages/:id/set-default
func (h *PlatformHandler) SetDefaultLanguage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid language")
	}
	if err := h.Localization.SetDefault(apiCtx(c), id); err != nil {
		actionFail(c, "localization.set_default.fail", err, map[string]any{"language_id": id.String()})
		return c.Redirect("/admin/localization")
	}
	applog.Audit(c, "localization.set_default", map[string]any{"language_id": id.String()})
	flash(c, "success", tr(c, "localization.default_set", "Default language changed."))
	return c.Redirect("/admin/localization")
}

// GET /admin/rate-limits?endpoint&httpMethod&page
func (h *PlatformHandler) RateLimitPage(c *fiber.Ctx) error {
	req := domain.RateLimitSearchRequest{
		Endpoint:   strings.TrimSpace(c.Query("endpoint")),
		HTTPMethod: strings.ToUpper(strings.TrimSpace(c.Query("httpMethod"))),
		Page:       validate.Page(c.Query("page")),
		PageSize:   validate.Clamp(c.Query("pageSize"), services.AdminPageSize, 1, 100),
	}
	view, err := h.RateLimits.Page(apiCtx(c), req)
	if err != nil {
		degrade(c, "rate_limits.rules.fail", err, nil)
	}
	return render(c, "admin_rate_limits", fiber.Map{"View": view, "Methods": services.RateLimitMethods})
}

// POST /admin/rate-limits/rules/:id/enable
func (h *PlatformHandler) EnableRule(c *fiber.Ctx) error { return h.toggleRule(c, true) }

// POST /admin/rate-limits/rules/:id/disable
func (h *PlatformHandler) DisableRule(c *fiber.Ctx) error { return h.toggleRule(c, false) }

func (h *PlatformHandler) toggleRule(c *fiber.Ctx, enabled bool) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid rule")
	}
	if err := h.RateLimits.SetEnabled(apiCtx(c), id, enabled); err != nil {
		actionFail(c, "rate_limits.toggle.fail", err, map[string]any{"rule_id": id.String()})
		return c.Redirect("/admin/rate-limits")
	}
	applog.Audit(c, "rate_limits.toggle", map[string]any{"rule_id": id.String(), "enabled": enabled})
	flash(c, "success", tr(c, "rate_limits.saved", "Rule updated."))
	return c.Redirect("/admin/rate-limits")
}

// GET /admin/platform?page
func (h *PlatformHandler) Overview(c *fiber.Ctx) error {
	view, err := h.Platform.Page(apiCtx(c), validate.Page(c.Query("page")))
	if err != nil {
		degrade(c, "platform.dashboard.fail", err, nil)
	}
	return render(c, "admin_platform", fiber.Map{"View": view})
}

// POST /admin/platform/notifications/:id/read
func (h *PlatformHandler) MarkRead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid notification")
	}
	if err := h.Platform.MarkRead(apiCtx(c), id); err != nil {
		actionFail(c, "platform.notification_read.fail", err, map[string]any{"notification_id": id.String()})
	}
	return c.Redirect("/admin/platform")
}
