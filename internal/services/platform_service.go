package services

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
)

const (
	i18nBase      = "api/internationalization"
	rateLimitBase = "api/ratelimit"
	adminBase     = "api/v1/Admin"

	AdminPageSize        = 20
	ApplicationPageSize  = 10
	maxApplicationPage   = 50
	maxTranslationKeyLen = 200
	maxEndpointLen       = 300
)

// RateLimitMethods are the HTTP methods a rate-limit lookup may name.
var RateLimitMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

// LocalizationService administers the backend's languages and translations.
type LocalizationService struct {
	API *apiclient.Client
}

func NewLocalizationService(api *apiclient.Client) *LocalizationService {
	return &LocalizationService{API: api}
}

func (s *LocalizationService) Languages(ctx context.Context) ([]domain.Language, error) {
	list, err := apiclient.Get[[]domain.Language](ctx, s.API, i18nBase+"/languages")
	if err != nil || list == nil {
		return []domain.Language{}, err
	}
	return list, nil
}

func (s *LocalizationService) Statistics(ctx context.Context) ([]domain.LanguageStatistics, error) {
	list, err := apiclient.Get[[]domain.LanguageStatistics](ctx, s.API, i18nBase+"/languages/statistics")
	if err != nil || list == nil {
		return []domain.LanguageStatistics{}, err
	}
	return list, nil
}

func (s *LocalizationService) SetDefault(ctx context.Context, languageID uuid.UUID) error {
	return s.API.Exec(ctx, http.MethodPost, i18nBase+"/languages/"+languageID.String()+"/set-default", nil)
}

func (s *LocalizationService) Search(ctx context.Context, req domain.TranslationSearchRequest) (domain.TranslationSearchResult, error) {
	req.Key = strings.TrimSpace(req.Key)
	if len(req.Key) > maxTranslationKeyLen {
		return domain.TranslationSearchResult{}, errx.Validation("Search key is too long")
	}
	req.Page, req.PageSize = clampPage(req.Page, req.PageSize, AdminPageSize, 100)
	res, err := apiclient.Post[domain.TranslationSearchResult](ctx, s.API, i18nBase+"/translations/search", req)
	if res.Translations == nil {
		res.Translations = []domain.Translation{}
	}
	return res, err
}

// Page loads languages, statistics and one translation page. Every panel is optional.
func (s *LocalizationService) Page(ctx context.Context, req domain.TranslationSearchRequest) domain.LocalizationView {
	req.Page, req.PageSize = clampPage(req.Page, req.PageSize, AdminPageSize, 100)
	view := domain.LocalizationView{SearchKey: req.Key, Page: req.Page, PageSize: req.PageSize}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if view.Languages, err = s.Languages(gctx); err != nil {
			applog.Warn("localization.languages.fail", err, nil)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if view.Statistics, err = s.Statistics(gctx); err != nil {
			applog.Warn("localization.statistics.fail", err, nil)
		}
		return nil
	})
	g.Go(func() error {
		res, err := s.Search(gctx, req)
		if err != nil {
			applog.Warn("localization.search.fail", err, nil)
			return nil
		}
		view.Translations = &res
		return nil
	})
	_ = g.Wait()
	return view
}

// RateLimitService administers the backend's rate-limit rules.
type RateLimitService struct {
	API *apiclient.Client
}

func NewRateLimitService(api *apiclient.Client) *RateLimitService {
	return &RateLimitService{API: api}
}

func (s *RateLimitService) Rules(ctx context.Context) ([]domain.RateLimitRule, error) {
	list, err := apiclient.Get[[]domain.RateLimitRule](ctx, s.API, rateLimitBase+"/rules")
	if err != nil || list == nil {
		return []domain.RateLimitRule{}, err
	}
	return list, nil
}

func (s *RateLimitService) SetEnabled(ctx context.Context, ruleID uuid.UUID, enabled bool) error {
	action := "/disable"
	if enabled {
		action = "/enable"
	}
	return s.API.Exec(ctx, http.MethodPost, rateLimitBase+"/rules/"+ruleID.String()+action, nil)
}

func (s *RateLimitService) SearchLogs(ctx context.Context, req domain.RateLimitSearchRequest) (domain.RateLimitSearchResult, error) {
	req.Endpoint = strings.TrimSpace(req.Endpoint)
	req.HTTPMethod = strings.ToUpper(strings.TrimSpace(req.HTTPMethod))
	if req.HTTPMethod != "" && !slices.Contains(RateLimitMethods, req.HTTPMethod) {
		req.HTTPMethod = ""
	}
	req.Page, req.PageSize = clampPage(req.Page, req.PageSize, AdminPageSize, 100)
	res, err := apiclient.Post[domain.RateLimitSearchResult](ctx, s.API, rateLimitBase+"/logs/search", req)
	if res.Logs == nil {
		res.Logs = []domain.RateLimitLog{}
	}
	return res, err
}

// Status asks whether a call to endpoint with method would be limited right now.
func (s *RateLimitService) Status(ctx context.Context, endpoint, method string) (domain.RateLimitStatus, error) {
	endpoint = strings.TrimSpace(endpoint)
	method = strings.ToUpper(strings.TrimSpace(method))
	if endpoint == "" || len(endpoint) > maxEndpointLen || !strings.HasPrefix(endpoint, "/") {
		return domain.RateLimitStatus{}, errx.Validation("Endpoint must be a path starting with /")
	}
	if !slices.Contains(RateLimitMethods, method) {
		return domain.RateLimitStatus{}, errx.Validation("Unsupported HTTP method")
	}
	q := url.Values{}
	q.Set("endpoint", endpoint)
	q.Set("httpMethod", method)
	return apiclient.Get[domain.RateLimitStatus](ctx, s.API, rateLimitBase+"/status?"+q.Encode())
}

// Page loads the rules and a log page; the status panel is filled only when an
// endpoint was asked about.
func (s *RateLimitService) Page(ctx context.Context, req domain.RateLimitSearchRequest) (domain.RateLimitView, error) {
	req.Page, req.PageSize = clampPage(req.Page, req.PageSize, AdminPageSize, 100)
	view := domain.RateLimitView{Endpoint: req.Endpoint, HTTPMethod: req.HTTPMethod, Page: req.Page, PageSize: req.PageSize}
	var rulesErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Rules, rulesErr = s.Rules(gctx)
		return nil
	})
	g.Go(func() error {
		res, err := s.SearchLogs(gctx, req)
		if err != nil {
			applog.Warn("rate_limits.logs.fail", err, nil)
			return nil
		}
		view.Logs = &res
		return nil
	})
	if req.Endpoint != "" && req.HTTPMethod != "" {
		g.Go(func() error {
			st, err := s.Status(gctx, req.Endpoint, req.HTTPMethod)
			if err != nil {
				applog.Warn("rate_limits.status.fail", err, nil)
				return nil
			}
			view.Status = &st
			return nil
		})
	}
	_ = g.Wait()
	return view, rulesErr
}

// PlatformService is the platform administrator's overview.
type PlatformService struct {
	API *apiclient.Client
}

func NewPlatformService(api *apiclient.Client) *PlatformService { return &PlatformService{API: api} }

func (s *PlatformService) Dashboard(ctx context.Context) (domain.PlatformDashboard, error) {
	return apiclient.Get[domain.PlatformDashboard](ctx, s.API, adminBase+"/dashboard")
}

func (s *PlatformService) Statistics(ctx context.Context) (domain.SystemStatistics, error) {
	return apiclient.Get[domain.SystemStatistics](ctx, s.API, adminBase+"/statistics")
}

func (s *PlatformService) Applications(ctx context.Context, page, size int) (domain.PagedResult[domain.MerchantApplication], error) {
	page, size = clampPage(page, size, ApplicationPageSize, maxApplicationPage)
	res, err := apiclient.Get[domain.PagedResult[domain.MerchantApplication]](ctx, s.API,
		adminBase+"/merchants/applications?"+pageQuery(page, size).Encode())
	if err != nil {
		return domain.EmptyPage[domain.MerchantApplication](page, size), err
	}
	if res.Items == nil {
		res.Items = []domain.MerchantApplication{}
	}
	return res, nil
}

func (s *PlatformService) Notifications(ctx context.Context) ([]domain.AdminNotification, error) {
	list, err := apiclient.Get[[]domain.AdminNotification](ctx, s.API, adminBase+"/notifications")
	if err != nil || list == nil {
		return []domain.AdminNotification{}, err
	}
	return list, nil
}

func (s *PlatformService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.API.Exec(ctx, http.MethodPut, adminBase+"/notifications/"+id.String()+"/read", struct{}{})
}

// Page loads the four admin panels concurrently. The dashboard is required.
func (s *PlatformService) Page(ctx context.Context, page int) (domain.PlatformView, error) {
	view := domain.PlatformView{
		Applications:  domain.EmptyPage[domain.MerchantApplication](page, ApplicationPageSize),
		Notifications: []domain.AdminNotification{},
	}
	var dashErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.Dashboard(gctx)
		if err != nil {
			dashErr = err
			return nil
		}
		if d.RecentApplications == nil {
			d.RecentApplications = []domain.MerchantApplication{}
		}
		view.Dashboard = &d
		return nil
	})
	g.Go(func() error {
		st, err := s.Statistics(gctx)
		if err != nil {
			applog.Warn("platform.statistics.fail", err, nil)
			return nil
		}
		view.Statistics = &st
		return nil
	})
	g.Go(func() error {
		res, err := s.Applications(gctx, page, ApplicationPageSize)
		if err != nil {
			applog.Warn("platform.applications.fail", err, nil)
		}
		view.Applications = res
		return nil
	})
	g.Go(func() error {
		list, err := s.Notifications(gctx)
		if err != nil {
			applog.Warn("platform.notifications.fail", err, nil)
		}
		view.Notifications = list
		return nil
	})
	_ = g.Wait()
	return view, dashErr
}

// clampPage defaults a page below one to 1 and a size below one to def, capping it at hi.
func clampPage(page, size, def, hi int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if size > hi {
		size = hi
	}
	return page, size
}
