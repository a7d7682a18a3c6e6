package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
)

const OrderPageSize = 20

type OrderService struct {
	API *apiclient.Client
}

func NewOrderService(api *apiclient.Client) *OrderService { return &OrderService{API: api} }

func pageQuery(page, pageSize int) url.Values {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q
}

// List returns the merchant's orders, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, page int, status string) (domain.PagedResult[domain.Order], error) {
	q := pageQuery(page, OrderPageSize)
	if status != "" {
		q.Set("status", status)
	}
	return apiclient.Get[domain.PagedResult[domain.Order]](ctx, s.API, "api/v1/merchants/merchantorder?"+q.Encode())
}

func (s *OrderService) Pending(ctx context.Context, page int) (domain.PagedResult[domain.Order], error) {
	return apiclient.Get[domain.PagedResult[domain.Order]](ctx, s.API,
		"api/v1/merchants/merchantorder/pending?"+pageQuery(page, OrderPageSize).Encode())
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return apiclient.Get[domain.Order](ctx, s.API, "api/v1/merchants/merchantorder/"+id.String())
}

// UpdateStatus rejects statuses outside the known six before calling the backend.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req domain.UpdateOrderStatusRequest) error {
	if !domain.ValidOrderStatus(req.Status) {
		return errx.Validation("Invalid order status: " + req.Status)
	}
	return s.API.Exec(ctx, "PUT", "api/v1/merchants/merchantorder/"+id.String()+"/status", req)
}
