package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
)

// ErrorHandler logs the failure and shows the friendly error page. AppError and
// fiber.Error keep their status; anything else is a 500 with the generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := errx.SystemErrorMessage
	var fe *fiber.Error
	var ae *errx.AppError
	switch {
	case errors.As(err, &ae):
		status, msg = errx.StatusOf(err), errx.MessageOf(err)
	case errors.As(err, &fe):
		status = fe.Code
		if status == fiber.StatusNotFound {
			msg = errx.NotFoundMessage
		}
	}
	applog.Error(c, "server.error", err, map[string]any{"status": status})
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}

// NotFound is the catch-all mounted after every route.
func NotFound(c *fiber.Ctx) error {
	return renderError(c, fiber.StatusNotFound, errx.NotFoundMessage)
}

// CSRFFailed answers requests the csrf middleware rejected.
func CSRFFailed(c *fiber.Ctx, err error) error {
	applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
	return renderError(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
}

var csrfForm = csrf.CsrfFromForm("csrf")

// CSRFToken reads the token from the X-Csrf-Token header, used by JSON posts, and
// otherwise from the csrf form field.
func CSRFToken(c *fiber.Ctx) (string, error) {
	if tok := c.Get(csrf.HeaderName); tok != "" {
		return tok, nil
	}
	return csrfForm(c)
}
