package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

type MerchantService struct {
	API *apiclient.Client
}

func NewMerchantService(api *apiclient.Client) *MerchantService { return &MerchantService{API: api} }

func (s *MerchantService) Get(ctx context.Context, id uuid.UUID) (domain.Merchant, error) {
	return apiclient.Get[domain.Merchant](ctx, s.API, "api/v1/merchant/"+id.String())
}

func (s *MerchantService) Update(ctx context.Context, id uuid.UUID, req domain.UpdateMerchantRequest) (domain.Merchant, error) {
	return apiclient.Put[domain.Merchant](ctx, s.API, "api/v1/merchant/"+id.String(), req)
}

// List pages through merchants, optionally restricted to one service category type.
func (s *MerchantService) List(ctx context.Context, categoryType string, page, pageSize int) (domain.PagedResult[domain.Merchant], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	path := "api/v1/merchant?" + q.Encode()
	if categoryType != "" {
		path = fmt.Sprintf("api/v1/merchant/by-category-type/%s?%s", url.PathEscape(categoryType), q.Encode())
	}
	return apiclient.Get[domain.PagedResult[domain.Merchant]](ctx, s.API, path)
}

func (s *MerchantService) Create(ctx context.Context, req domain.CreateMerchantRequest) (domain.Merchant, error) {
	return apiclient.Post[domain.Merchant](ctx, s.API, "api/v1/merchant", req)
}

func (s *MerchantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, "api/v1/merchant/"+id.String())
}
