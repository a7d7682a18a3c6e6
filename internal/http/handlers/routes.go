package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Routes mounts the session and culture middleware and every portal route on r.
// Security middleware (csrf, helmet, the global limiter) is the caller's job.
func (d *Deps) Routes(r fiber.Router) {
	r.Use(d.Session.Load, d.Session.Validate, Culture(d.Bundle))

	// Public
	r.Get("/auth/login", d.Auth.LoginForm)
	r.Post("/auth/login", limiter.New(limiter.Config{
		Max:          5,
		Expiration:   10 * time.Minute,
		LimitReached: LoginThrottled,
	}), d.Auth.Login)
	r.Post("/auth/logout", d.Auth.Logout)
	r.Get("/language/set", d.Language.Set)
	r.Post("/language/set", d.Language.Set)
	r.Get("/language/current", d.Language.Current)

	// Signed in, merchant optional
	r.Get("/", d.Session.RequireSession, func(c *fiber.Ctx) error { return c.Redirect("/dashboard") })
	r.Get("/auth/change-password", d.Session.RequireSession, d.Auth.ChangePasswordForm)
	r.Post("/auth/change-password", d.Session.RequireSession, d.Auth.ChangePassword)
	r.Get("/settings", d.Session.RequireSession, d.Notification.Settings)
	r.Post("/settings", d.Session.RequireSession, d.Notification.UpdateSettings)

	n := r.Group("/notifications", d.Session.RequireSession)
	n.Get("/", d.Notification.List)
	n.Get("/unread-count", d.Notification.UnreadCount)
	n.Post("/mark-read", d.Notification.MarkRead)
	n.Get("/preferences", d.Notification.Preferences)
	n.Post("/preferences", d.Notification.UpdatePreferences)

	acc := r.Group("/account", d.Session.RequireSession)
	acc.Get("/", d.Account.Index)
	acc.Post("/profile", d.Account.UpdateProfile)
	acc.Post("/preferences", d.Account.UpdatePreferences)
	acc.Post("/addresses", d.Account.AddAddress)
	acc.Post("/addresses/:id/delete", d.Account.DeleteAddress)
	acc.Post("/addresses/:id/default", d.Account.SetDefaultAddress)
	acc.Post("/addresses/:id", d.Account.UpdateAddress)
	acc.Post("/favorites", d.Account.AddFavorite)
	acc.Post("/favorites/:productId/delete", d.Account.RemoveFavorite)
	acc.Get("/orders/:id", d.Account.Order)
	acc.Post("/orders/:id/cancel", d.Account.CancelOrder)
	acc.Post("/orders/:id/reorder", d.Account.Reorder)
	acc.Post("/locations", d.Account.SaveLocation)

	// Merchant scoped
	m := d.Session.RequireMerchant

	dash := r.Group("/dashboard", m)
	dash.Get("/", d.Dashboard.Index)
	dash.Get("/stock-alerts", d.Dashboard.StockAlerts)
	dash.Get("/sales-chart", d.Dashboard.SalesChart)
	dash.Get("/orders-chart", d.Dashboard.OrdersChart)
	dash.Get("/category-chart", d.Dashboard.CategoryChart)

	ord := r.Group("/orders", m)
	ord.Get("/", d.Orders.List)
	ord.Get("/pending", d.Orders.Pending)
	ord.Get("/:id", d.Orders.Detail)
	ord.Post("/:id/status", d.Orders.UpdateStatus)

	prod := r.Group("/products", m)
	prod.Get("/", d.Products.List)
	prod.Get("/new", d.Products.New)
	prod.Post("/", d.Products.Create)
	prod.Get("/:id/edit", d.Products.Edit)
	prod.Post("/:id/delete", d.Products.Delete)
	prod.Post("/:id", d.Products.Update)
	prod.Get("/:id/options", d.Options.Index)
	prod.Post("/:id/options/groups", d.Options.CreateGroup)
	prod.Post("/:id/options/groups/reorder", d.Options.Reorder)
	prod.Post("/:id/options/groups/:groupId/delete", d.Options.DeleteGroup)
	prod.Post("/:id/options/groups/:groupId/options", d.Options.CreateOption)
	prod.Post("/:id/options/groups/:groupId/options/:optionId/delete", d.Options.DeleteOption)
	prod.Post("/:id/options/groups/:groupId/options/:optionId", d.Options.UpdateOption)
	prod.Post("/:id/options/groups/:groupId", d.Options.UpdateGroup)
	prod.Get("/:id/variants", d.Variants.List)
	prod.Post("/:id/variants", d.Variants.Create)
	prod.Post("/:id/variants/stock", d.Variants.BulkStock)
	prod.Post("/:id/variants/:variantId/delete", d.Variants.Delete)
	prod.Post("/:id/variants/:variantId/stock", d.Variants.UpdateStock)
	prod.Post("/:id/variants/:variantId", d.Variants.Update)

	prv := r.Group("/product-reviews", m)
	prv.Get("/", d.ProductReviews.List)
	prv.Get("/product/:id", d.ProductReviews.ForProduct)
	prv.Get("/:id", d.ProductReviews.Detail)
	prv.Post("/:id/respond", d.ProductReviews.Respond)
	prv.Post("/:id/approve", d.ProductReviews.Approve)
	prv.Post("/:id/reject", d.ProductReviews.Reject)

	cat := r.Group("/categories", m)
	cat.Get("/", d.Categories.List)
	cat.Post("/", d.Categories.Create)
	cat.Get("/:id/edit", d.Categories.Edit)
	cat.Post("/:id/delete", d.Categories.Delete)
	cat.Post("/:id", d.Categories.Update)

	mer := r.Group("/merchant", m)
	mer.Get("/settings", d.Merchant.Settings)
	mer.Post("/settings", d.Merchant.UpdateSettings)
	mer.Get("/working-hours", d.Merchant.WorkingHoursForm)
	mer.Post("/working-hours", d.Merchant.UpdateWorkingHours)

	st := r.Group("/stock", m)
	st.Get("/", d.Stock.Index)
	st.Get("/history/:productId", d.Stock.History)
	st.Post("/update", d.Stock.Update)
	st.Post("/alerts/:id/resolve", d.Stock.ResolveAlert)
	st.Post("/sync", d.Stock.Sync)
	st.Post("/check-alerts", d.Stock.CheckAlerts)
	st.Get("/export", d.Stock.Export)
	st.Post("/import", d.Stock.Import)
	st.Get("/alerts", d.Stock.Alerts)
	st.Get("/low-stock", d.Stock.LowStock)
	st.Post("/bulk-update", d.Stock.BulkUpdate)

	pay := r.Group("/payments", m)
	pay.Get("/", d.Payments.List)
	pay.Get("/settlements", d.Payments.Settlements)
	pay.Get("/analytics", d.Payments.Analytics)
	pay.Get("/method-breakdown", d.Payments.MethodBreakdown)
	pay.Get("/export", d.Payments.Export)
	pay.Get("/:id", d.Payments.Detail)

	rep := r.Group("/reports", m)
	rep.Get("/", d.Reports.Sales)
	rep.Get("/export", d.Reports.Export)
	rep.Get("/customers", d.Reports.Customers)
	rep.Get("/products", d.Reports.Products)
	rep.Get("/chart", d.Reports.Chart)

	rev := r.Group("/reviews", m)
	rev.Get("/", d.Reviews.List)
	rev.Get("/couriers", d.Reviews.Couriers)
	rev.Get("/dashboard", d.Reviews.Dashboard)
	rev.Post("/:id/respond", d.Reviews.Respond)
	rev.Post("/:id/like", d.Reviews.Like)
	rev.Post("/:id/report", d.Reviews.Report)

	trk := r.Group("/tracking", m)
	trk.Get("/", d.Tracking.Index)
	trk.Post("/status", d.Tracking.UpdateStatus)
	trk.Post("/location", d.Tracking.UpdateLocation)

	hol := r.Group("/holidays", m)
	hol.Get("/", d.Holidays.List)
	hol.Get("/new", d.Holidays.New)
	hol.Get("/availability", d.Holidays.Availability)
	hol.Post("/", d.Holidays.Create)
	hol.Get("/:id/edit", d.Holidays.Edit)
	hol.Post("/:id/delete", d.Holidays.Delete)
	hol.Post("/:id/toggle", d.Holidays.Toggle)
	hol.Post("/:id", d.Holidays.Update)

	doc := r.Group("/documents", m)
	doc.Get("/", d.Documents.List)
	doc.Post("/upload", d.Documents.Upload)
	doc.Get("/:id/download", d.Documents.Download)
	doc.Post("/:id/delete", d.Documents.Delete)

	cpn := r.Group("/coupons", m)
	cpn.Get("/", d.Coupons.List)
	cpn.Post("/", d.Coupons.Create)
	cpn.Post("/validate", d.Coupons.Validate)

	zone := r.Group("/delivery-zones", m)
	zone.Get("/", d.Delivery.ZoneList)
	zone.Get("/new", d.Delivery.NewZone)
	zone.Post("/", d.Delivery.CreateZone)
	zone.Get("/:id/edit", d.Delivery.EditZone)
	zone.Post("/:id/delete", d.Delivery.DeleteZone)
	zone.Post("/:id", d.Delivery.UpdateZone)

	dlv := r.Group("/delivery", m)
	dlv.Get("/", d.Delivery.Index)
	dlv.Post("/capacity", d.Delivery.SaveCapacity)
	dlv.Post("/capacity/check", d.Delivery.CheckCapacity)
	dlv.Post("/routes/best", d.Delivery.BestRoute)
	dlv.Post("/routes/alternatives", d.Delivery.Alternatives)

	onb := r.Group("/onboarding", m)
	onb.Get("/", d.Onboarding.Index)
	onb.Post("/steps/:stepId/complete", d.Onboarding.CompleteStep)
	onb.Post("/submit", d.Onboarding.Submit)

	// Owner only
	own := d.Session.RequireOwner

	fil := r.Group("/files", m, own)
	fil.Get("/", d.Files.List)
	fil.Post("/upload", d.Files.Upload)
	fil.Post("/:container/:name/delete", d.Files.Delete)

	r.Get("/inventory", m, own, d.Inventory.Index)

	// Admin
	adm := r.Group("/admin", d.Session.RequireAdmin)
	adm.Get("/merchants", d.Admin.MerchantList)
	adm.Post("/merchants", d.Admin.CreateMerchant)
	adm.Post("/merchants/:id/delete", d.Admin.DeleteMerchant)
	adm.Get("/geo", d.Admin.GeoPage)
	adm.Get("/audit", d.Admin.AuditLog)
	adm.Get("/cash-collections", d.Payments.CashCollections)
	adm.Post("/settlements/:merchantId/process", d.Payments.ProcessSettlement)
	adm.Get("/localization", d.Platform.LocalizationPage)
	adm.Post("/localization/languages/:id/set-default", d.Platform.SetDefaultLanguage)
	adm.Get("/rate-limits", d.Platform.RateLimitPage)
	adm.Post("/rate-limits/rules/:id/enable", d.Platform.EnableRule)
	adm.Post("/rate-limits/rules/:id/disable", d.Platform.DisableRule)
	adm.Get("/platform", d.Platform.Overview)
	adm.Post("/platform/notifications/:id/read", d.Platform.MarkRead)
}
