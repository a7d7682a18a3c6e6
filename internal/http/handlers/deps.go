package handlers

import (
	"merchantportal/internal/apiclient"
	"merchantportal/internal/config"
	"merchantportal/internal/i18n"
	"merchantportal/internal/services"
)

type Deps struct {
	Session        *SessionMiddleware
	Bundle         *i18n.Bundle
	Auth           *AuthHandler
	Dashboard      *DashboardHandler
	Orders         *OrderHandler
	Products       *ProductHandler
	Categories     *CategoryHandler
	Merchant       *MerchantHandler
	Stock          *StockHandler
	Payments       *PaymentHandler
	Reports        *ReportHandler
	Reviews        *ReviewHandler
	Notification   *NotificationHandler
	Tracking       *TrackingHandler
	Holidays       *HolidayHandler
	Documents      *DocumentHandler
	Admin          *AdminHandler
	Language       *LanguageHandler
	Coupons        *CouponHandler
	Delivery       *DeliveryHandler
	Options        *OptionHandler
	Variants       *VariantHandler
	ProductReviews *ProductReviewHandler
	Account        *AccountHandler
	Onboarding     *OnboardingHandler
	Files          *FileHandler
	Inventory      *InventoryHandler
	Platform       *PlatformHandler
}

func NewDeps(api *apiclient.Client, sessions *services.SessionService, cfg config.Config, bundle *i18n.Bundle) *Deps {
	authSvc := services.NewAuthService(api)
	stockSvc := services.NewStockService(api)
	merchantSvc := services.NewMerchantService(api)
	productSvc := services.NewProductService(api)

	mw := &SessionMiddleware{Sessions: sessions, Auth: authSvc, Secure: cfg.CookieSecure}

	return &Deps{
		Session:        mw,
		Bundle:         bundle,
		Auth:           &AuthHandler{Auth: authSvc, Sessions: mw},
		Dashboard:      &DashboardHandler{Dashboard: services.NewDashboardService(api, stockSvc), Stock: stockSvc},
		Orders:         &OrderHandler{Orders: services.NewOrderService(api)},
		Products:       &ProductHandler{Products: productSvc},
		Categories:     &CategoryHandler{Categories: services.NewCategoryService(api)},
		Merchant:       &MerchantHandler{Merchants: merchantSvc, WorkingHours: services.NewWorkingHoursService(api)},
		Stock:          &StockHandler{Stock: stockSvc},
		Payments:       &PaymentHandler{Payments: services.NewPaymentService(api)},
		Reports:        &ReportHandler{Reports: services.NewReportService(api)},
		Reviews:        &ReviewHandler{Reviews: services.NewReviewService(api)},
		Notification:   &NotificationHandler{Notifications: services.NewNotificationService(api), Prefs: services.NewSettingsService(api)},
		Tracking:       &TrackingHandler{Tracking: services.NewTrackingService(api)},
		Holidays:       &HolidayHandler{Holidays: services.NewHolidayService(api)},
		Documents:      &DocumentHandler{Documents: services.NewDocumentService(api, cfg.APIUploadTimeout)},
		Admin:          &AdminHandler{Merchants: merchantSvc, Geo: services.NewGeoService(api), Audit: services.NewAuditService(api)},
		Language:       &LanguageHandler{Secure: cfg.CookieSecure},
		Coupons:        &CouponHandler{Coupons: services.NewCouponService(api)},
		Delivery:       &DeliveryHandler{Zones: services.NewDeliveryZoneService(api), Optimization: services.NewDeliveryOptimizationService(api)},
		Options:        &OptionHandler{Options: services.NewOptionService(api), Products: productSvc},
		Variants:       &VariantHandler{Variants: services.NewVariantService(api), Products: productSvc},
		ProductReviews: &ProductReviewHandler{Reviews: services.NewProductReviewService(api), Products: productSvc},
		Account:        &AccountHandler{Account: services.NewAccountService(api)},
		Onboarding:     &OnboardingHandler{Onboarding: services.NewOnboardingService(api)},
		Files:          &FileHandler{Files: services.NewFileService(api, cfg.APIUploadTimeout)},
		Inventory:      &InventoryHandler{Inventory: services.NewInventoryService(api)},
		Platform: &PlatformHandler{
			Localization: services.NewLocalizationService(api),
			RateLimits:   services.NewRateLimitService(api),
			Platform:     services.NewPlatformService(api),
		},
	}
}
