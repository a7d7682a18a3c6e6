package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type AuthHandler struct {
	Auth     *services.AuthService
	Sessions *SessionMiddleware
}

type loginForm struct {
	Email     string `form:"email" validate:"required,email,max=100"`
	Password  string `form:"password" validate:"required,max=128"`
	ReturnURL string `form:"returnUrl"`
}

type passwordForm struct {
	CurrentPassword string `form:"currentPassword" validate:"required,max=128"`
	NewPassword     string `form:"newPassword" validate:"required,max=128"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
}

// GET /auth/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": "", "ReturnURL": c.Query("returnUrl")})
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, status int, f loginForm, msg string) error {
	c.Status(status)
	return render(c, "login", fiber.Map{"Err": msg, "Email": f.Email, "ReturnURL": f.ReturnURL})
}

// LoginThrottled is the limiter response for the login form.
func LoginThrottled(c *fiber.Ctx) error {
	applog.Security(c, "rate.login.hit", nil)
	c.Status(fiber.StatusTooManyRequests)
	return render(c, "login", fiber.Map{"Err": tr(c, "auth.throttled", "Too many attempts. Please try again later.")})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var f loginForm
	if err := c.BodyParser(&f); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "login", "err": err.Error()})
	}
	badCreds := tr(c, "auth.invalid", "Invalid email or password")
	if err := validate.Struct(f); err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": f.Email, "reason": "bad_format", "fields": validate.Fields(err)})
		return h.loginFailed(c, fiber.StatusUnauthorized, f, badCreds)
	}

	ctx := c.UserContext()
	resp, err := h.Auth.Login(ctx, f.Email, f.Password)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": f.Email})
			return h.loginFailed(c, fiber.StatusUnauthorized, f, badCreds)
		}
		applog.Error(c, "auth.login.error", err, map[string]any{"email": f.Email})
		return h.loginFailed(c, fiber.StatusServiceUnavailable, f, userMessage(c, err))
	}

	var merchant *uuid.UUID
	if resp.MerchantID == nil || *resp.MerchantID == uuid.Nil {
		id, err := h.Auth.MyMerchant(apiclient.WithToken(ctx, resp.AccessToken))
		if err != nil {
			applog.Info(c, "auth.merchant.lookup.fail", map[string]any{"email": f.Email, "err": err.Error()})
			id = uuid.Nil
		}
		merchant = &id
	}

	sess := sessionOf(c)
	services.StartSession(sess, resp, merchant)
	if err := h.Sessions.Sessions.Rotate(ctx, sess); err != nil {
		applog.Error(c, "session.rotate.fail", err, nil)
	}
	c.Locals("user_id", sess.UserID)
	applog.Audit(c, "auth.login.success", map[string]any{"email": f.Email, "role": sess.UserRole})

	if validate.LocalURL(f.ReturnURL) {
		return c.Redirect(f.ReturnURL)
	}
	if _, ok := sess.Merchant(); !ok && sess.IsAdmin() {
		return c.Redirect("/admin/merchants")
	}
	return c.Redirect("/dashboard")
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	uid := sessionOf(c).UserID
	h.Sessions.end(c)
	applog.Audit(c, "auth.logout", map[string]any{"user_id": uid})
	return c.Redirect("/auth/login")
}

// GET /auth/change-password
func (h *AuthHandler) ChangePasswordForm(c *fiber.Ctx) error {
	return render(c, "change_password", fiber.Map{"Err": ""})
}

// POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var f passwordForm
	if err := c.BodyParser(&f); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "change_password", "err": err.Error()})
	}
	if err := validate.Struct(f); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"fields": validate.Fields(err)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Err": tr(c, "validation.fields", "Please check the highlighted fields.")})
	}
	if f.NewPassword != f.ConfirmPassword {
		applog.Security(c, "validation.fail", map[string]any{"field": "confirmPassword"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Err": tr(c, "auth.password.mismatch", "The new passwords do not match.")})
	}
	if !validate.NewPassword(f.NewPassword) {
		applog.Security(c, "validation.fail", map[string]any{"field": "newPassword"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Err": tr(c, "auth.password.weak", "Use at least 8 characters with upper and lower case letters and a digit.")})
	}
	if err := h.Auth.ChangePassword(apiCtx(c), f.CurrentPassword, f.NewPassword); err != nil {
		applog.Security(c, "auth.password.change.fail", map[string]any{"err": err.Error()})
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Err": userMessage(c, err)})
	}
	applog.Audit(c, "auth.password.changed", nil)
	flash(c, "success", tr(c, "auth.password.changed", "Your password has been changed."))
	return c.Redirect("/auth/change-password")
}
