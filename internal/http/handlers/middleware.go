package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	"merchantportal/internal/i18n"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
)

const sidCookie = "sid"

// Paths SessionValidation never checks.
var sessionSkip = []string{"/auth/login", "/auth/logout", "/static/", "/css/", "/js/", "/lib/", "/sounds/"}

// SessionMiddleware binds the server-side session to the sid cookie and guards routes with it.
type SessionMiddleware struct {
	Sessions *services.SessionService
	Auth     *services.AuthService
	Secure   bool
}

func (m *SessionMiddleware) setCookie(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.Secure,
	})
}

func (m *SessionMiddleware) expireCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   m.Secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// Load puts the session into Locals and writes it back once the handler is done.
// Anonymous sessions without flashes are never stored.
func (m *SessionMiddleware) Load(c *fiber.Ctx) error {
	sid := c.Cookies(sidCookie)
	sess, err := m.Sessions.Load(c.UserContext(), sid)
	if err != nil {
		applog.Error(c, "session.load.fail", err, nil)
	}
	c.Locals(localSession, sess)
	c.Locals("user_id", sess.UserID)

	nextErr := c.Next()

	if discard, _ := c.Locals(localDiscard).(bool); discard {
		return nextErr
	}
	if sess.Authenticated() || len(sess.Flash) > 0 {
		if err := m.Sessions.Save(c.UserContext(), sess); err != nil {
			applog.Error(c, "session.save.fail", err, nil)
		} else if sess.ID != sid {
			m.setCookie(c, sess.ID)
		}
	}
	return nextErr
}

// Validate drops authenticated sessions whose token is missing or past its exp claim.
func (m *SessionMiddleware) Validate(c *fiber.Ctx) error {
	p := strings.ToLower(c.Path())
	for _, skip := range sessionSkip {
		if strings.Contains(p, skip) {
			return c.Next()
		}
	}
	sess := sessionOf(c)
	if !sess.Authenticated() {
		return c.Next()
	}
	reason := ""
	switch {
	case sess.JwtToken == "":
		reason = "missing_token"
	case m.Auth.TokenExpired(sess.JwtToken):
		reason = "token_expired"
	default:
		return c.Next()
	}
	applog.Security(c, "session.invalid", map[string]any{"reason": reason})
	m.end(c)
	return c.Redirect(loginURL(c))
}

// end destroys the session and expires its cookie.
func (m *SessionMiddleware) end(c *fiber.Ctx) {
	if err := m.Sessions.Destroy(c.UserContext(), sessionOf(c)); err != nil {
		applog.Error(c, "session.destroy.fail", err, nil)
	}
	c.Locals(localDiscard, true)
	c.Locals("user_id", "")
	m.expireCookie(c)
}

func (m *SessionMiddleware) RequireSession(c *fiber.Ctx) error {
	if !sessionOf(c).Authenticated() {
		return c.Redirect(loginURL(c))
	}
	return c.Next()
}

// RequireMerchant resolves the session's merchant, asking the backend once when the
// session does not know it yet.
func (m *SessionMiddleware) RequireMerchant(c *fiber.Ctx) error {
	sess := sessionOf(c)
	if !sess.Authenticated() {
		return c.Redirect(loginURL(c))
	}
	if _, ok := sess.Merchant(); ok {
		return c.Next()
	}
	id, err := m.Auth.MyMerchant(apiCtx(c))
	if err != nil {
		applog.Security(c, "access.denied.merchant", map[string]any{"reason": "no_merchant", "err": err.Error()})
		return c.Redirect("/auth/login")
	}
	sess.MerchantID = id.String()
	return c.Next()
}

func (m *SessionMiddleware) RequireAdmin(c *fiber.Ctx) error {
	sess := sessionOf(c)
	if !sess.Authenticated() {
		return c.Redirect(loginURL(c))
	}
	if !sess.IsAdmin() {
		applog.Security(c, "access.denied.admin", map[string]any{"role": sess.UserRole})
		return renderError(c, fiber.StatusForbidden, "Access denied")
	}
	return c.Next()
}

// RequireOwner admits merchant owners and admins; staff accounts are turned away.
func (m *SessionMiddleware) RequireOwner(c *fiber.Ctx) error {
	sess := sessionOf(c)
	if !sess.Authenticated() {
		return c.Redirect(loginURL(c))
	}
	if sess.UserRole != domain.RoleMerchantOwner && !sess.IsAdmin() {
		applog.Security(c, "access.denied.role", map[string]any{"role": sess.UserRole, "path": c.Path()})
		return renderError(c, fiber.StatusForbidden, "Access denied")
	}
	return c.Next()
}

func loginURL(c *fiber.Ctx) string {
	return "/auth/login?returnUrl=" + url.QueryEscape(c.OriginalURL())
}

// Culture resolves the request culture (cookie, then Accept-Language, then tr-TR)
// and exposes its messages to the views.
func Culture(bundle *i18n.Bundle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		culture := i18n.Resolve(c.Cookies(i18n.CookieName), c.Get(fiber.HeaderAcceptLanguage))
		c.Locals(localCulture, culture)
		c.Locals(localMessages, bundle.Messages(culture))
		return c.Next()
	}
}
