package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/services"
	"merchantportal/internal/validate"
)

const adminPageSize = 20

type AdminHandler struct {
	Merchants *services.MerchantService
	Geo       *services.GeoService
	Audit     *services.AuditService
}

// GET /admin/merchants?categoryType&page
func (h *AdminHandler) MerchantList(c *fiber.Ctx) error {
	ct := strings.TrimSpace(c.Query("categoryType"))
	page := validate.Page(c.Query("page"))
	res, err := h.Merchants.List(apiCtx(c), ct, page, adminPageSize)
	if err != nil {
		degrade(c, "admin.merchants.list.fail", err, map[string]any{"category_type": ct})
		res = domain.EmptyPage[domain.Merchant](page, adminPageSize)
	}
	if res.Items == nil {
		res.Items = []domain.Merchant{}
	}
	return render(c, "admin_merchants", fiber.Map{
		"View": domain.MerchantDirectoryView{Merchants: res, CategoryType: ct},
	})
}

// POST /admin/merchants
func (h *AdminHandler) CreateMerchant(c *fiber.Ctx) error {
	req := domain.CreateMerchantRequest{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Address:     strings.TrimSpace(c.FormValue("address")),
		PhoneNumber: strings.TrimSpace(c.FormValue("phoneNumber")),
		Email:       strings.TrimSpace(c.FormValue("email")),
	}
	owner, okOwner := validate.ID(c.FormValue("ownerId"))
	cat, okCat := validate.ID(c.FormValue("serviceCategoryId"))
	req.OwnerID, req.ServiceCategoryID = owner, cat
	field := ""
	switch {
	case !okOwner:
		field = "ownerId"
	case !okCat:
		field = "serviceCategoryId"
	}
	for _, f := range []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"latitude", &req.Latitude},
		{"longitude", &req.Longitude},
		{"minimumOrderAmount", &req.MinimumOrderAmount},
		{"deliveryFee", &req.DeliveryFee},
	} {
		d, ok := formDecimal(c.FormValue(f.name))
		if !ok && field == "" {
			field = f.name
		}
		*f.dst = d.Decimal
	}
	if field == "" {
		if err := validate.Struct(req); err != nil {
			for f := range validate.Fields(err) {
				field = f
				break
			}
		}
	}
	if field != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": field})
		flash(c, "error", tr(c, "validation.fields", "Please check the highlighted fields."))
		return c.Redirect("/admin/merchants")
	}
	m, err := h.Merchants.Create(apiCtx(c), req)
	if err != nil {
		applog.Error(c, "admin.merchants.create.fail", err, nil)
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/admin/merchants")
	}
	applog.Audit(c, "admin.merchants.create", map[string]any{"merchant_id": m.ID.String()})
	flash(c, "success", tr(c, "admin.merchant.created", "Merchant created."))
	return c.Redirect("/admin/merchants")
}

// POST /admin/merchants/:id/delete
func (h *AdminHandler) DeleteMerchant(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return renderError(c, fiber.StatusBadRequest, "Invalid merchant")
	}
	if err := h.Merchants.Delete(apiCtx(c), id); err != nil {
		applog.Error(c, "admin.merchants.delete.fail", err, map[string]any{"merchant_id": id.String()})
		flash(c, "error", userMessage(c, err))
		return c.Redirect("/admin/merchants")
	}
	applog.Audit(c, "admin.merchants.delete", map[string]any{"merchant_id": id.String()})
	flash(c, "success", tr(c, "admin.merchant.deleted", "Merchant deleted."))
	return c.Redirect("/admin/merchants")
}

// GET /admin/geo?startDate&endDate&latitude&longitude&radiusKm&categoryType
func (h *AdminHandler) GeoPage(c *fiber.Ctx) error {
	f := domain.GeoFilter{RadiusKm: services.DefaultRadiusKm}
	for key, dst := range map[string]*string{"startDate": &f.StartDate, "endDate": &f.EndDate} {
		v := strings.TrimSpace(c.Query(key))
		if _, ok := validate.Date(v); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": key})
			continue
		}
		*dst = v
	}
	lat, okLat := validate.Float(c.Query("latitude"))
	lng, okLng := validate.Float(c.Query("longitude"))
	if okLat && okLng && lat != nil && lng != nil && *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180 {
		f.Latitude, f.Longitude = lat, lng
	} else if c.Query("latitude") != "" || c.Query("longitude") != "" {
		applog.Security(c, "validation.fail", map[string]any{"field": "position"})
	}
	if r, ok := validate.Float(c.Query("radiusKm")); ok && r != nil && *r > 0 && *r <= 100 {
		f.RadiusKm = *r
	}
	if n, err := strconv.Atoi(c.Query("categoryType")); err == nil {
		f.CategoryType = &n
	}
	return render(c, "admin_geo", fiber.Map{"View": h.Geo.Page(apiCtx(c), f)})
}

// GET /admin/audit?tab&userId&startDate&endDate&page
func (h *AdminHandler) AuditLog(c *fiber.Ctx) error {
	q := domain.AuditQuery{
		Tab:      services.AuditTab(c.Query("tab")),
		Page:     validate.Page(c.Query("page")),
		PageSize: 50,
	}
	if id, ok := validate.ID(c.Query("userId")); ok {
		q.UserID = id.String()
	}
	if _, ok := validate.Date(c.Query("startDate")); ok {
		q.StartDate = strings.TrimSpace(c.Query("startDate"))
	}
	if _, ok := validate.Date(c.Query("endDate")); ok {
		q.EndDate = strings.TrimSpace(c.Query("endDate"))
	}
	entries, err := h.Audit.Logs(apiCtx(c), q)
	if err != nil {
		degrade(c, "admin.audit.fail", err, map[string]any{"tab": q.Tab})
	}
	if entries == nil {
		entries = []domain.AuditLogEntry{}
	}
	applog.Audit(c, "admin.audit.view", map[string]any{"tab": q.Tab})
	return render(c, "admin_audit", fiber.Map{"View": domain.AuditView{Entries: entries, Query: q}})
}
