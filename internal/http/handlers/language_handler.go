package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/i18n"
	applog "merchantportal/internal/log"
	"merchantportal/internal/validate"
)

const cultureCookieAge = 365 * 24 * time.Hour

type LanguageHandler struct {
	Secure bool
}

// GET|POST /language/set?culture&returnUrl
func (h *LanguageHandler) Set(c *fiber.Ctx) error {
	culture := c.FormValue("culture")
	if culture == "" {
		culture = c.Query("culture")
	}
	if !i18n.IsSupported(culture) {
		applog.Security(c, "validation.fail", map[string]any{"field": "culture", "value": culture})
		culture = i18n.DefaultCulture
	}
	culture = i18n.Normalize(culture)
	c.Cookie(&fiber.Cookie{
		Name:     i18n.CookieName,
		Value:    i18n.EncodeCookie(culture),
		Path:     "/",
		Expires:  time.Now().Add(cultureCookieAge),
		HTTPOnly: true,
		Secure:   h.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	applog.Info(c, "language.set", map[string]any{"culture": culture})

	ret := c.FormValue("returnUrl")
	if ret == "" {
		ret = c.Query("returnUrl")
	}
	if !validate.LocalURL(ret) {
		ret = "/"
	}
	return c.Redirect(ret)
}

// GET /language/current
func (h *LanguageHandler) Current(c *fiber.Ctx) error {
	culture, _ := c.Locals(localCulture).(string)
	if culture == "" {
		culture = i18n.Resolve(c.Cookies(i18n.CookieName), c.Get(fiber.HeaderAcceptLanguage))
	}
	return c.JSON(fiber.Map{
		"culture":     culture,
		"isRtl":       i18n.IsRTL(culture),
		"displayName": i18n.DisplayName(culture),
	})
}
