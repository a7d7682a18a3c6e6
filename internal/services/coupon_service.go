package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/validate"
)

const (
	couponBase     = "api/v1/coupon"
	CouponPageSize = 20
)

type CouponService struct {
	API *apiclient.Client
}

func NewCouponService(api *apiclient.Client) *CouponService { return &CouponService{API: api} }

func (s *CouponService) List(ctx context.Context, page int) (domain.PagedResult[domain.Coupon], error) {
	res, err := apiclient.Get[domain.PagedResult[domain.Coupon]](ctx, s.API, couponBase+"?"+pageQuery(page, CouponPageSize).Encode())
	if err != nil {
		return domain.EmptyPage[domain.Coupon](page, CouponPageSize), err
	}
	if res.Items == nil {
		res.Items = []domain.Coupon{}
	}
	return res, nil
}

func (s *CouponService) Create(ctx context.Context, f domain.CouponForm) (domain.Coupon, error) {
	req, err := CouponRequest(f)
	if err != nil {
		return domain.Coupon{}, err
	}
	return apiclient.Post[domain.Coupon](ctx, s.API, couponBase, req)
}

// Validate asks the backend whether code applies to an order of the given amount.
func (s *CouponService) Validate(ctx context.Context, code string, orderAmount decimal.NullDecimal) (domain.CouponValidation, error) {
	code = NormalizeCouponCode(code)
	if code == "" {
		return domain.CouponValidation{}, errx.Validation("Coupon code is required")
	}
	if orderAmount.Valid && orderAmount.Decimal.IsNegative() {
		return domain.CouponValidation{}, errx.Validation("Order amount cannot be negative")
	}
	return apiclient.Post[domain.CouponValidation](ctx, s.API, couponBase+"/validate",
		domain.CouponValidationRequest{Code: code, OrderAmount: orderAmount})
}

// NormalizeCouponCode trims and upper-cases a code; codes compare case-insensitively.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponRequest validates the create form. Percentages may not exceed 100 and the
// validity window must be ordered.
func CouponRequest(f domain.CouponForm) (domain.CouponRequest, error) {
	var req domain.CouponRequest
	f.Code = NormalizeCouponCode(f.Code)
	if err := validate.Struct(f); err != nil {
		return req, errx.Validation("")
	}
	for _, r := range f.Code {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return req, errx.Validation("Coupon code may only contain letters, digits, - and _")
		}
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.DiscountValue), ",", "."))
	if err != nil || !value.IsPositive() {
		return req, errx.Validation("Discount value must be greater than zero")
	}
	if f.DiscountType == domain.DiscountPercentage && value.GreaterThan(hundred) {
		return req, errx.Validation("A percentage discount cannot exceed 100")
	}
	start, ok := validate.Date(f.StartDate)
	if !ok || start == nil {
		return req, errx.Validation("Start date is required")
	}
	end, ok := validate.Date(f.EndDate)
	if !ok || end == nil {
		return req, errx.Validation("End date is required")
	}
	if end.Before(*start) {
		return req, errx.Validation("End date cannot be before start date")
	}
	limit := 0
	if raw := strings.TrimSpace(f.UsageLimit); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return req, errx.Validation("Usage limit must be zero or more")
		}
	}
	return domain.CouponRequest{
		Code:          f.Code,
		Description:   strings.TrimSpace(f.Description),
		DiscountType:  f.DiscountType,
		DiscountValue: value,
		StartDate:     domain.NewTime(*start),
		// The coupon stays valid through the whole end day.
		EndDate:    domain.NewTime(end.AddDate(0, 0, 1).Add(-1)),
		UsageLimit: limit,
		IsActive:   f.IsActive,
	}, nil
}
