package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/i18n"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

const (
	localSession  = "session"
	localCulture  = "culture"
	localMessages = "messages"
	localFlash    = "flash.now"
	localDiscard  = "session.discard"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	sess := sessionOf(c)
	if sess.Authenticated() {
		data["Session"] = sess
		data["User"] = sess.UserName
		data["IsAdmin"] = sess.IsAdmin()
		data["IsOwner"] = sess.IsAdmin() || sess.UserRole == domain.RoleMerchantOwner
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	culture, _ := c.Locals(localCulture).(string)
	if culture == "" {
		culture = i18n.DefaultCulture
	}
	data["Culture"] = culture
	data["IsRtl"] = i18n.IsRTL(culture)
	data["Cultures"] = i18n.Supported
	data["Path"] = c.OriginalURL()
	if msgs, ok := c.Locals(localMessages).(map[string]string); ok {
		data["L"] = msgs
	} else {
		data["L"] = map[string]string{}
	}
	flashes := services.PopFlashes(sess)
	if now, ok := c.Locals(localFlash).(map[string]string); ok {
		if flashes == nil {
			flashes = map[string]string{}
		}
		for k, v := range now {
			flashes[k] = v
		}
	}
	data["Flash"] = flashes
	return c.Render(tmpl, data)
}

// renderError shows the friendly error page with the given status.
func renderError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
}

// sessionOf never returns nil; routes outside LoadSession get an empty session.
func sessionOf(c *fiber.Ctx) *domain.Session {
	if s, ok := c.Locals(localSession).(*domain.Session); ok && s != nil {
		return s
	}
	s := &domain.Session{}
	c.Locals(localSession, s)
	return s
}

// apiCtx is the request context carrying the session's bearer token.
func apiCtx(c *fiber.Ctx) context.Context {
	return apiclient.WithToken(c.UserContext(), sessionOf(c).JwtToken)
}

// merchantOf is only meaningful behind RequireMerchant.
func merchantOf(c *fiber.Ctx) uuid.UUID {
	id, _ := sessionOf(c).Merchant()
	return id
}

// flash queues a message for the next page, usually the target of a redirect.
func flash(c *fiber.Ctx, kind, msg string) {
	services.AddFlash(sessionOf(c), kind, msg)
}

// flashNow shows a message on the page rendered by this request.
func flashNow(c *fiber.Ctx, kind, msg string) {
	m, _ := c.Locals(localFlash).(map[string]string)
	if m == nil {
		m = map[string]string{}
		c.Locals(localFlash, m)
	}
	m[kind] = msg
}

// tr translates key for the request's culture, falling back to def.
func tr(c *fiber.Ctx, key, def string) string {
	if msgs, ok := c.Locals(localMessages).(map[string]string); ok {
		if v, ok := msgs[key]; ok && v != "" {
			return v
		}
	}
	return def
}

// degrade logs a failed backend read; the page renders anyway with an error banner.
func degrade(c *fiber.Ctx, action string, err error, fields map[string]any) {
	applog.Error(c, action, err, fields)
	flashNow(c, "error", userMessage(c, err))
}

// userMessage picks what to show for err: the backend's own text, a validation
// message, or the generic unavailable notice.
func userMessage(c *fiber.Ctx, err error) string {
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	if errx.StatusOf(err) == fiber.StatusBadRequest {
		return errx.MessageOf(err)
	}
	return tr(c, "error.backend", errx.BackendErrorMessage)
}

// jsonFail is the JSON counterpart of degrade.
func jsonFail(c *fiber.Ctx, status int, action string, err error) error {
	applog.Error(c, action, err, nil)
	return c.Status(status).JSON(fiber.Map{"success": false, "message": userMessage(c, err)})
}

// paramID parses the :id route param, logging a validation failure when it is not a guid.
func paramID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, ok := validate.ID(c.Params(name))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": name})
	}
	return id, ok
}

func isValidation(err error) bool { return errx.StatusOf(err) == fiber.StatusBadRequest }

// actionFail logs a failed form action and queues its message for the redirect target.
// Bad input is a validation.fail security event; anything else is logged under action.
func actionFail(c *fiber.Ctx, action string, err error, fields map[string]any) {
	if isValidation(err) {
		f := map[string]any{"reason": err.Error()}
		for k, v := range fields {
			f[k] = v
		}
		applog.Security(c, "validation.fail", f)
	} else {
		applog.Error(c, action, err, fields)
	}
	flash(c, "error", userMessage(c, err))
}

// jsonActionFail is the JSON counterpart of actionFail: 400 for bad input, 502 otherwise.
func jsonActionFail(c *fiber.Ctx, action string, err error) error {
	if isValidation(err) {
		applog.Security(c, "validation.fail", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": userMessage(c, err)})
	}
	return jsonFail(c, fiber.StatusBadGateway, action, err)
}
