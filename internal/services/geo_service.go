package services

import (
	"context"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

const (
	geoHistoryPageSize = 15
	DefaultRadiusKm    = 5
)

type GeoService struct {
	API *apiclient.Client
}

func NewGeoService(api *apiclient.Client) *GeoService { return &GeoService{API: api} }

func (s *GeoService) Analytics(ctx context.Context, f domain.GeoFilter) (domain.LocationAnalytics, error) {
	q := url.Values{}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	path := "api/v1/geo/analytics"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return apiclient.Get[domain.LocationAnalytics](ctx, s.API, path)
}

func (s *GeoService) Coverage(ctx context.Context) (domain.DeliveryZoneCoverage, error) {
	return apiclient.Get[domain.DeliveryZoneCoverage](ctx, s.API, "api/v1/geo/delivery-zones/coverage")
}

func (s *GeoService) Nearby(ctx context.Context, lat, lng, radiusKm float64, categoryType *int) ([]domain.NearbyMerchant, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))
	if categoryType != nil {
		q.Set("categoryType", strconv.Itoa(*categoryType))
	}
	return apiclient.Get[[]domain.NearbyMerchant](ctx, s.API, "api/v1/geo/merchants/nearby?"+q.Encode())
}

func (s *GeoService) History(ctx context.Context, page, pageSize int) ([]domain.UserLocation, error) {
	res, err := apiclient.Get[domain.PagedResult[domain.UserLocation]](ctx, s.API,
		"api/v1/geo/location/history?"+pageQuery(page, pageSize).Encode())
	if err != nil || res.Items == nil {
		return []domain.UserLocation{}, err
	}
	return res.Items, nil
}

// Page fans out to every geo section. Nearby merchants are only looked up when the
// filter carries a position. Every section degrades on its own.
func (s *GeoService) Page(ctx context.Context, f domain.GeoFilter) domain.GeoView {
	view := domain.GeoView{Filter: f, NearbyMerchants: []domain.NearbyMerchant{}, LocationHistory: []domain.UserLocation{}}
	g, gctx := errgroup.WithContext(ctx)
	fetch(g, "geo.analytics", func() error {
		a, err := s.Analytics(gctx, f)
		if err == nil {
			view.Analytics = &a
		}
		return err
	})
	fetch(g, "geo.coverage", func() error {
		c, err := s.Coverage(gctx)
		if err == nil {
			view.Coverage = &c
		}
		return err
	})
	if f.Latitude != nil && f.Longitude != nil {
		fetch(g, "geo.nearby", func() error {
			v, err := s.Nearby(gctx, *f.Latitude, *f.Longitude, f.RadiusKm, f.CategoryType)
			if err == nil && v != nil {
				view.NearbyMerchants = v
			}
			return err
		})
	}
	fetch(g, "geo.history", func() error {
		v, err := s.History(gctx, 1, geoHistoryPageSize)
		view.LocationHistory = v
		return err
	})
	_ = g.Wait()
	return view
}
