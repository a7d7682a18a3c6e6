package services

import (
	"context"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/validate"
)

const (
	variantBase     = "api/v1/marketproductvariant"
	VariantPageSize = 20
	maxVariantStock = 1_000_000
	maxVariantBulk  = 500
)

type VariantService struct {
	API *apiclient.Client
}

func NewVariantService(api *apiclient.Client) *VariantService { return &VariantService{API: api} }

func (s *VariantService) List(ctx context.Context, productID uuid.UUID, page int) (domain.PagedResult[domain.ProductVariant], error) {
	res, err := apiclient.Get[domain.PagedResult[domain.ProductVariant]](ctx, s.API,
		variantBase+"/products/"+productID.String()+"?"+pageQuery(page, VariantPageSize).Encode())
	if err != nil {
		return domain.EmptyPage[domain.ProductVariant](page, VariantPageSize), err
	}
	if res.Items == nil {
		res.Items = []domain.ProductVariant{}
	}
	return res, nil
}

func (s *VariantService) Get(ctx context.Context, id uuid.UUID) (domain.ProductVariant, error) {
	return apiclient.Get[domain.ProductVariant](ctx, s.API, variantBase+"/"+id.String())
}

func (s *VariantService) Create(ctx context.Context, req domain.VariantRequest) (domain.ProductVariant, error) {
	if err := checkVariant(req); err != nil {
		return domain.ProductVariant{}, err
	}
	return apiclient.Post[domain.ProductVariant](ctx, s.API, variantBase, req)
}

func (s *VariantService) Update(ctx context.Context, id uuid.UUID, req domain.VariantRequest) (domain.ProductVariant, error) {
	if err := checkVariant(req); err != nil {
		return domain.ProductVariant{}, err
	}
	return apiclient.Put[domain.ProductVariant](ctx, s.API, variantBase+"/"+id.String(), req)
}

func (s *VariantService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, variantBase+"/"+id.String())
}

// UpdateStock sets one variant's stock; the backend takes the bare quantity as the body.
func (s *VariantService) UpdateStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty < 0 || qty > maxVariantStock {
		return errx.Validation("Stock must be between 0 and 1000000")
	}
	return s.API.Exec(ctx, "PUT", variantBase+"/"+id.String()+"/stock", qty)
}

func (s *VariantService) BulkUpdateStock(ctx context.Context, updates []domain.VariantStockUpdate) error {
	if len(updates) == 0 || len(updates) > maxVariantBulk {
		return errx.Validation("Send between 1 and 500 stock updates")
	}
	for _, u := range updates {
		if u.ID == uuid.Nil || u.NewStockQuantity < 0 || u.NewStockQuantity > maxVariantStock {
			return errx.Validation("Every update needs a variant and a stock between 0 and 1000000")
		}
	}
	return s.API.Exec(ctx, "PUT", variantBase+"/stock/bulk", updates)
}

func checkVariant(req domain.VariantRequest) error {
	if err := validate.Struct(req); err != nil {
		return errx.Validation("")
	}
	if !req.Price.IsPositive() {
		return errx.Validation("Price must be greater than zero")
	}
	if req.StockQuantity > maxVariantStock {
		return errx.Validation("Stock must be between 0 and 1000000")
	}
	return nil
}
