package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
)

type OnboardingHandler struct {
	Onboarding *services.OnboardingService
}

// GET /onboarding
func (h *OnboardingHandler) Index(c *fiber.Ctx) error {
	view, err := h.Onboarding.Page(apiCtx(c), merchantOf(c))
	if err != nil {
		degrade(c, "onboarding.page.fail", err, nil)
	}
	return render(c, "onboarding", fiber.Map{"View": view})
}

// POST /onboarding/steps/:stepId/complete {notes}
func (h *OnboardingHandler) CompleteStep(c *fiber.Ctx) error {
	stepID, ok := paramID(c, "stepId")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid step")
	}
	if err := h.Onboarding.CompleteStep(apiCtx(c), merchantOf(c), stepID, c.FormValue("notes")); err != nil {
		actionFail(c, "onboarding.step.fail", err, map[string]any{"step_id": stepID.String()})
		return c.Redirect("/onboarding")
	}
	applog.Audit(c, "onboarding.step_complete", map[string]any{"step_id": stepID.String()})
	flash(c, "success", tr(c, "onboarding.step.done", "Step completed."))
	return c.Redirect("/onboarding")
}

// POST /onboarding/submit
func (h *OnboardingHandler) Submit(c *fiber.Ctx) error {
	if err := h.Onboarding.Submit(apiCtx(c), merchantOf(c)); err != nil {
		actionFail(c, "onboarding.submit.fail", err, nil)
		return c.Redirect("/onboarding")
	}
	applog.Audit(c, "onboarding.submit", nil)
	flash(c, "success", tr(c, "onboarding.submitted", "Application submitted for review."))
	return c.Redirect("/onboarding")
}
