package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

// GET /reviews?rating&search
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	f := domain.ReviewFilter{
		Rating: validate.Clamp(c.Query("rating"), 0, 0, 5),
		Page:   validate.Page(c.Query("page")),
	}
	if raw := c.Query("search"); raw != "" {
		if q, ok := validate.Q(raw); ok {
			f.SearchTerm = q
		} else {
			applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		}
	}
	view, err := h.Reviews.Page(apiCtx(c), merchantOf(c), f)
	if err != nil {
		degrade(c, "reviews.list.fail", err, nil)
	}
	return render(c, "reviews", fiber.Map{"View": view})
}

// POST /reviews/:id/respond
func (h *ReviewHandler) Respond(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid review")
	}
	text := strings.TrimSpace(c.FormValue("response"))
	if text == "" || len([]rune(text)) > 1000 {
		applog.Security(c, "validation.fail", map[string]any{"field": "response"})
		flash(c, "error", tr(c, "reviews.response.invalid", "Response must be between 1 and 1000 characters."))
		return c.Redirect("/reviews")
	}
	if err := h.Reviews.Respond(apiCtx(c), id, text); err != nil {
		applog.Error(c, "reviews.respond.fail", err, map[string]any{"review_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/reviews")
	}
	applog.Audit(c, "reviews.respond", map[string]any{"review_id": id.String()})
	flash(c, "success", tr(c, "reviews.responded", "Response sent."))
	return c.Redirect("/reviews")
}

// POST /reviews/:id/like
func (h *ReviewHandler) Like(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false})
	}
	like := c.FormValue("like", "true") != "false"
	if err := h.Reviews.Like(apiCtx(c), id, like); err != nil {
		return jsonFail(c, fiber.StatusBadGateway, "reviews.like.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "liked": like})
}

// POST /reviews/:id/report
func (h *ReviewHandler) Report(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid review")
	}
	reason := strings.TrimSpace(c.FormValue("reason"))
	if reason == "" || len([]rune(reason)) > 500 {
		applog.Security(c, "validation.fail", map[string]any{"field": "reason"})
		flash(c, "error", tr(c, "reviews.reason.invalid", "Please give a reason."))
		return c.Redirect("/reviews")
	}
	if err := h.Reviews.Report(apiCtx(c), id, reason); err != nil {
		applog.Error(c, "reviews.report.fail", err, map[string]any{"review_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/reviews")
	}
	applog.Security(c, "reviews.report", map[string]any{"review_id": id.String()})
	flash(c, "success", tr(c, "reviews.reported", "Review reported."))
	return c.Redirect("/reviews")
}

// GET /reviews/couriers?rating
func (h *ReviewHandler) Couriers(c *fiber.Ctx) error {
	f := domain.ReviewFilter{Rating: validate.Clamp(c.Query("rating"), 0, 0, 5)}
	view, err := h.Reviews.CourierPage(apiCtx(c), merchantOf(c), f)
	if err != nil {
		degrade(c, "reviews.couriers.fail", err, nil)
	}
	return render(c, "reviews_couriers", fiber.Map{"View": view})
}

// GET /reviews/dashboard
func (h *ReviewHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "reviews_dashboard", fiber.Map{"Dashboard": h.Reviews.Dashboard(apiCtx(c), merchantOf(c), time.Now())})
}
