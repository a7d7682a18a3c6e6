package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	applog "merchantportal/internal/log"
)

const (
	productReviewBase         = "api/v1/productreview"
	ProductReviewPageSize     = 20
	ProductReviewItemPageSize = 10
	maxReviewResponse         = 1000
	maxRejectReason           = 500
)

type ProductReviewService struct {
	API *apiclient.Client
}

func NewProductReviewService(api *apiclient.Client) *ProductReviewService {
	return &ProductReviewService{API: api}
}

func (s *ProductReviewService) List(ctx context.Context, merchantID uuid.UUID, f domain.ProductReviewFilter) (domain.PagedResult[domain.ProductReview], error) {
	q := pageQuery(f.Page, ProductReviewPageSize)
	if f.Rating >= 1 && f.Rating <= 5 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	if f.Approved != nil {
		q.Set("isApproved", strconv.FormatBool(*f.Approved))
	}
	return s.page(ctx, productReviewBase+"/merchant/"+merchantID.String()+"?"+q.Encode(), f.Page, ProductReviewPageSize)
}

func (s *ProductReviewService) ForProduct(ctx context.Context, productID uuid.UUID, page int) (domain.PagedResult[domain.ProductReview], error) {
	return s.page(ctx, productReviewBase+"/product/"+productID.String()+"?"+pageQuery(page, ProductReviewItemPageSize).Encode(),
		page, ProductReviewItemPageSize)
}

func (s *ProductReviewService) page(ctx context.Context, path string, page, size int) (domain.PagedResult[domain.ProductReview], error) {
	res, err := apiclient.Get[domain.PagedResult[domain.ProductReview]](ctx, s.API, path)
	if err != nil {
		return domain.EmptyPage[domain.ProductReview](page, size), err
	}
	if res.Items == nil {
		res.Items = []domain.ProductReview{}
	}
	return res, nil
}

func (s *ProductReviewService) Get(ctx context.Context, id uuid.UUID) (domain.ProductReview, error) {
	return apiclient.Get[domain.ProductReview](ctx, s.API, productReviewBase+"/"+id.String())
}

func (s *ProductReviewService) MerchantStats(ctx context.Context, merchantID uuid.UUID) (domain.ProductReviewStats, error) {
	return apiclient.Get[domain.ProductReviewStats](ctx, s.API, productReviewBase+"/merchant/"+merchantID.String()+"/stats")
}

func (s *ProductReviewService) ProductStats(ctx context.Context, productID uuid.UUID) (domain.ProductReviewStats, error) {
	return apiclient.Get[domain.ProductReviewStats](ctx, s.API, productReviewBase+"/product/"+productID.String()+"/stats")
}

// Page loads the moderation list and the merchant's review statistics together.
// Statistics are optional.
func (s *ProductReviewService) Page(ctx context.Context, merchantID uuid.UUID, f domain.ProductReviewFilter) (domain.ProductReviewsView, error) {
	view := domain.ProductReviewsView{Filter: f}
	var listErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Reviews, listErr = s.List(gctx, merchantID, f)
		return nil
	})
	g.Go(func() error {
		st, err := s.MerchantStats(gctx, merchantID)
		if err != nil {
			applog.Warn("product_reviews.stats.fail", err, nil)
			return nil
		}
		view.Stats = &st
		return nil
	})
	_ = g.Wait()
	return view, listErr
}

func (s *ProductReviewService) Respond(ctx context.Context, id uuid.UUID, response string) error {
	response = strings.TrimSpace(response)
	if response == "" || len([]rune(response)) > maxReviewResponse {
		return errx.Validation("Response must be between 1 and 1000 characters")
	}
	return s.API.Exec(ctx, "PUT", productReviewBase+"/"+id.String()+"/respond", map[string]string{"response": response})
}

func (s *ProductReviewService) Approve(ctx context.Context, id uuid.UUID) error {
	return s.API.Exec(ctx, "PUT", productReviewBase+"/"+id.String()+"/approve", struct{}{})
}

func (s *ProductReviewService) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" || len([]rune(reason)) > maxRejectReason {
		return errx.Validation("A rejection reason is required")
	}
	return s.API.Exec(ctx, "PUT", productReviewBase+"/"+id.String()+"/reject", map[string]string{"reason": reason})
}

// ParseApproved reads the approval filter: "true", "false" or anything else for all.
func ParseApproved(s string) *bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
		return &v
	}
	return nil
}

// ProductReviewQuery renders f back into list-page query parameters, without the page.
func ProductReviewQuery(f domain.ProductReviewFilter) string {
	q := url.Values{}
	if f.Rating > 0 {
		q.Set("rating", strconv.Itoa(f.Rating))
	}
	if f.Approved != nil {
		q.Set("approved", strconv.FormatBool(*f.Approved))
	}
	return q.Encode()
}
