package services

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
)

const (
	reviewPageSize = 50
	courierFanout  = 4
)

type ReviewService struct {
	API *apiclient.Client
}

func NewReviewService(api *apiclient.Client) *ReviewService { return &ReviewService{API: api} }

func (s *ReviewService) List(ctx context.Context, merchantID uuid.UUID, f domain.ReviewFilter) ([]domain.Review, error) {
	q := url.Values{}
	q.Set("Page", "1")
	q.Set("PageSize", strconv.Itoa(reviewPageSize))
	if f.Rating >= 1 && f.Rating <= 5 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	if f.SearchTerm != "" {
		q.Set("search", f.SearchTerm)
	}
	page, err := apiclient.Get[domain.PagedResult[domain.Review]](ctx, s.API,
		fmt.Sprintf("api/v1/review/entity/%s/Merchant?%s", merchantID, q.Encode()))
	if err != nil || page.Items == nil {
		return []domain.Review{}, err
	}
	return page.Items, nil
}

func (s *ReviewService) Stats(ctx context.Context, merchantID uuid.UUID) (*domain.ReviewStats, error) {
	st, err := apiclient.Get[domain.ReviewStats](ctx, s.API, fmt.Sprintf("api/v1/review/statistics/%s/Merchant", merchantID))
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Page loads the reviews and their statistics concurrently. Missing statistics only blank
// the summary; a failed list is returned as the error.
func (s *ReviewService) Page(ctx context.Context, merchantID uuid.UUID, f domain.ReviewFilter) (domain.ReviewsView, error) {
	view := domain.ReviewsView{Filter: f, Reviews: []domain.Review{}}
	var listErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Reviews, listErr = s.List(gctx, merchantID, f)
		return nil
	})
	g.Go(func() error {
		st, err := s.Stats(gctx, merchantID)
		if err != nil {
			applog.Warn("reviews.stats.fail", err, nil)
			return nil
		}
		view.Stats = st
		return nil
	})
	_ = g.Wait()
	return view, listErr
}

func (s *ReviewService) Respond(ctx context.Context, reviewID uuid.UUID, response string) error {
	return s.API.Exec(ctx, "PUT", "api/v1/review/"+reviewID.String()+"/respond", map[string]string{"response": response})
}

// Like adds or removes the merchant's like.
func (s *ReviewService) Like(ctx context.Context, reviewID uuid.UUID, like bool) error {
	path := "api/v1/review/" + reviewID.String() + "/like"
	if like {
		return s.API.Exec(ctx, "POST", path, nil)
	}
	return s.API.Delete(ctx, path)
}

func (s *ReviewService) Report(ctx context.Context, reviewID uuid.UUID, reason string) error {
	return s.API.Exec(ctx, "POST", "api/v1/review/"+reviewID.String()+"/report", map[string]string{"reason": reason})
}

func (s *ReviewService) Couriers(ctx context.Context, merchantID uuid.UUID) ([]domain.Courier, error) {
	list, err := apiclient.Get[[]domain.Courier](ctx, s.API, "api/v1/courier/merchant/"+merchantID.String())
	if err != nil || list == nil {
		return []domain.Courier{}, err
	}
	return list, nil
}

// CourierReviews merges the reviews of every courier working for the merchant, newest
// first. A courier whose reviews fail to load is skipped.
func (s *ReviewService) CourierReviews(ctx context.Context, merchantID uuid.UUID, f domain.ReviewFilter) ([]domain.Review, error) {
	couriers, err := s.Couriers(ctx, merchantID)
	if err != nil {
		return []domain.Review{}, err
	}
	q := url.Values{}
	q.Set("Page", "1")
	q.Set("PageSize", strconv.Itoa(reviewPageSize))
	if f.Rating >= 1 && f.Rating <= 5 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	perCourier := make([][]domain.Review, len(couriers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(courierFanout)
	for i, c := range couriers {
		g.Go(func() error {
			page, err := apiclient.Get[domain.PagedResult[domain.Review]](gctx, s.API,
				fmt.Sprintf("api/v1/review/entity/%s/Courier?%s", c.ID, q.Encode()))
			if err != nil {
				applog.Warn("reviews.courier.fail", err, map[string]any{"courier_id": c.ID.String()})
				return nil
			}
			perCourier[i] = page.Items
			return nil
		})
	}
	_ = g.Wait()
	all := []domain.Review{}
	for _, r := range perCourier {
		all = append(all, r...)
	}
	slices.SortStableFunc(all, func(a, b domain.Review) int { return b.CreatedAt.Compare(a.CreatedAt.Time) })
	return all, nil
}

// CourierStats folds every courier's statistics into one: the average is weighted by
// review count and the distributions are summed. Nil when no courier has reviews.
func (s *ReviewService) CourierStats(ctx context.Context, merchantID uuid.UUID) (*domain.ReviewStats, error) {
	couriers, err := s.Couriers(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	stats := make([]*domain.ReviewStats, len(couriers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(courierFanout)
	for i, c := range couriers {
		g.Go(func() error {
			st, err := apiclient.Get[domain.ReviewStats](gctx, s.API, fmt.Sprintf("api/v1/review/statistics/%s/Courier", c.ID))
			if err == nil {
				stats[i] = &st
			}
			return nil
		})
	}
	_ = g.Wait()
	return MergeCourierStats(merchantID, stats), nil
}

func MergeCourierStats(merchantID uuid.UUID, stats []*domain.ReviewStats) *domain.ReviewStats {
	total, weighted := 0, 0.0
	dist := map[string]int{}
	for _, st := range stats {
		if st == nil {
			continue
		}
		total += st.TotalReviews
		weighted += st.AverageRating * float64(st.TotalReviews)
		for star := 1; star <= 5; star++ {
			k := strconv.Itoa(star)
			if n, ok := st.RatingDistribution[k]; ok {
				dist[k] += n
			}
		}
	}
	if total == 0 {
		return nil
	}
	return &domain.ReviewStats{
		EntityID:           merchantID,
		EntityType:         "Courier",
		TotalReviews:       total,
		AverageRating:      weighted / float64(total),
		RatingDistribution: dist,
	}
}

// CourierPage is the courier counterpart of Page.
func (s *ReviewService) CourierPage(ctx context.Context, merchantID uuid.UUID, f domain.ReviewFilter) (domain.ReviewsView, error) {
	view := domain.ReviewsView{Filter: f, Reviews: []domain.Review{}}
	var listErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Reviews, listErr = s.CourierReviews(gctx, merchantID, f)
		return nil
	})
	g.Go(func() error {
		st, err := s.CourierStats(gctx, merchantID)
		if err != nil {
			applog.Warn("reviews.courier_stats.fail", err, nil)
			return nil
		}
		view.Stats = st
		return nil
	})
	_ = g.Wait()
	return view, listErr
}

// Dashboard sets the merchant statistics beside the merged courier statistics. Either
// side may be missing.
func (s *ReviewService) Dashboard(ctx context.Context, merchantID uuid.UUID, now time.Time) domain.ReviewDashboard {
	d := domain.ReviewDashboard{GeneratedAt: domain.NewTime(now)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if st, err := s.Stats(gctx, merchantID); err == nil {
			d.MerchantStats = st
		} else {
			applog.Warn("reviews.stats.fail", err, nil)
		}
		return nil
	})
	g.Go(func() error {
		if st, err := s.CourierStats(gctx, merchantID); err == nil {
			d.CourierStats = st
		} else {
			applog.Warn("reviews.courier_stats.fail", err, nil)
		}
		return nil
	})
	_ = g.Wait()
	return d
}
