package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
)

type HolidayHandler struct {
	Holidays *services.HolidayService
}

// GET /holidays?includeInactive
func (h *HolidayHandler) List(c *fiber.Ctx) error {
	view, err := h.Holidays.Page(apiCtx(c), merchantOf(c), c.QueryBool("includeInactive"))
	if err != nil {
		degrade(c, "holidays.list.fail", err, nil)
	}
	return render(c, "holidays", fiber.Map{"View": view})
}

// GET /holidays/new
func (h *HolidayHandler) New(c *fiber.Ctx) error {
	return render(c, "holiday_form", fiber.Map{"Form": domain.HolidayForm{IsClosed: true}})
}

// GET /holidays/:id/edit
func (h *HolidayHandler) Edit(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusNotFound, "Holiday not found")
	}
	hol, err := h.Holidays.Get(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "holidays.get.fail", err, map[string]any{"holiday_id": id.String()})
		return renderError(c, fiber.StatusNotFound, "Holiday not found")
	}
	f := domain.HolidayForm{
		Title:       hol.Title,
		Description: hol.Description,
		StartDate:   hol.StartDate.Format("2006-01-02"),
		EndDate:     hol.EndDate.Format("2006-01-02"),
		IsClosed:    hol.IsClosed,
		IsRecurring: hol.IsRecurring,
	}
	if hol.SpecialOpenTime != nil {
		f.SpecialOpenTime = hhmm(*hol.SpecialOpenTime)
	}
	if hol.SpecialCloseTime != nil {
		f.SpecialCloseTime = hhmm(*hol.SpecialCloseTime)
	}
	return render(c, "holiday_form", fiber.Map{"Form": f, "ID": id.String()})
}

// hhmm trims a backend "15:04:05" timespan to what the time input accepts.
func hhmm(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

func holidayForm(c *fiber.Ctx) domain.HolidayForm {
	return domain.HolidayForm{
		Title:            strings.TrimSpace(c.FormValue("title")),
		Description:      strings.TrimSpace(c.FormValue("description")),
		StartDate:        c.FormValue("startDate"),
		EndDate:          c.FormValue("endDate"),
		IsClosed:         formBool(c, "isClosed"),
		SpecialOpenTime:  strings.TrimSpace(c.FormValue("specialOpenTime")),
		SpecialCloseTime: strings.TrimSpace(c.FormValue("specialCloseTime")),
		IsRecurring:      formBool(c, "isRecurring"),
	}
}

// POST /holidays
func (h *HolidayHandler) Create(c *fiber.Ctx) error {
	f := holidayForm(c)
	hol, err := h.Holidays.Create(apiCtx(c), merchantOf(c), f)
	if err != nil {
		return h.formError(c, "holidays.create.fail", err, f, "")
	}
	applog.Audit(c, "holidays.create", map[string]any{"holiday_id": hol.ID.String()})
	flash(c, "success", tr(c, "holidays.saved", "Holiday saved."))
	return c.Redirect("/holidays")
}

// POST /holidays/:id
func (h *HolidayHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid holiday")
	}
	f := holidayForm(c)
	if _, err := h.Holidays.Update(apiCtx(c), id, f); err != nil {
		return h.formError(c, "holidays.update.fail", err, f, id.String())
	}
	applog.Audit(c, "holidays.update", map[string]any{"holiday_id": id.String()})
	flash(c, "success", tr(c, "holidays.saved", "Holiday saved."))
	return c.Redirect("/holidays")
}

// formError re-renders the form. Validation problems are a 400, backend failures a 502.
func (h *HolidayHandler) formError(c *fiber.Ctx, action string, err error, f domain.HolidayForm, id string) error {
	status := fiber.StatusBadGateway
	if se := errx.StatusOf(err); se == fiber.StatusBadRequest {
		status = se
		applog.Security(c, "validation.fail", map[string]any{"form": "holiday", "reason": err.Error()})
	} else {
		applog.Error(c, action, err, nil)
	}
	flashNow(c, "error", userMessage(c, err))
	c.Status(status)
	return render(c, "holiday_form", fiber.Map{"Form": f, "ID": id})
}

// POST /holidays/:id/delete
func (h *HolidayHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid holiday")
	}
	if err := h.Holidays.Delete(apiCtx(c), id); err != nil {
		applog.Error(c, "holidays.delete.fail", err, map[string]any{"holiday_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/holidays")
	}
	applog.Audit(c, "holidays.delete", map[string]any{"holiday_id": id.String()})
	flash(c, "success", tr(c, "holidays.deleted", "Holiday deleted."))
	return c.Redirect("/holidays")
}

// POST /holidays/:id/toggle
func (h *HolidayHandler) Toggle(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid holiday")
	}
	hol, err := h.Holidays.Toggle(apiCtx(c), id)
	if err != nil {
		applog.Error(c, "holidays.toggle.fail", err, map[string]any{"holiday_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/holidays")
	}
	applog.Audit(c, "holidays.toggle", map[string]any{"holiday_id": id.String(), "active": hol.IsActive})
	return c.Redirect("/holidays")
}

// GET /holidays/availability
func (h *HolidayHandler) Availability(c *fiber.Ctx) error {
	av, err := h.Holidays.Availability(apiCtx(c), merchantOf(c))
	if err != nil {
		return jsonFail(c, fiber.StatusBadGateway, "holidays.availability.fail", err)
	}
	return c.JSON(fiber.Map{"success": true, "data": av})
}
