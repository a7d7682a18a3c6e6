package services

import (
	"context"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/validate"
)

const ProductPageSize = 20

type ProductService struct {
	API *apiclient.Client
}

func NewProductService(api *apiclient.Client) *ProductService { return &ProductService{API: api} }

func (s *ProductService) List(ctx context.Context, page int) (domain.PagedResult[domain.Product], error) {
	return apiclient.Get[domain.PagedResult[domain.Product]](ctx, s.API,
		"api/v1/merchants/merchantproduct?"+pageQuery(page, ProductPageSize).Encode())
}

// Search runs a catalog search scoped by the token's merchant. An empty categoryID means all.
func (s *ProductService) Search(ctx context.Context, q string, categoryID string, page int) (domain.PagedResult[domain.Product], error) {
	v := pageQuery(page, ProductPageSize)
	if q != "" {
		v.Set("q", q)
	}
	if _, ok := validate.ID(categoryID); ok {
		v.Set("categoryId", categoryID)
	}
	return apiclient.Get[domain.PagedResult[domain.Product]](ctx, s.API, "api/v1/search/products?"+v.Encode())
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	return apiclient.Get[domain.Product](ctx, s.API, "api/v1/product/"+id.String())
}

func (s *ProductService) Create(ctx context.Context, req domain.ProductRequest) (domain.Product, error) {
	return apiclient.Post[domain.Product](ctx, s.API, "api/v1/merchants/merchantproduct", req)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req domain.ProductRequest) (domain.Product, error) {
	return apiclient.Put[domain.Product](ctx, s.API, "api/v1/merchants/merchantproduct/"+id.String(), req)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, "api/v1/merchants/merchantproduct/"+id.String())
}

// MyCategories lists the categories the product form can pick from.
func (s *ProductService) MyCategories(ctx context.Context) ([]domain.ProductCategory, error) {
	return apiclient.Get[[]domain.ProductCategory](ctx, s.API, "api/v1/productcategory/my-categories")
}

// UploadImage stores an image through the backend and returns its public URL.
func (s *ProductService) UploadImage(ctx context.Context, file apiclient.FilePart) (string, error) {
	file.Field = "file"
	res, err := apiclient.Upload[domain.FileUploadResponse](ctx, s.API, "api/v1/files/merchant/upload", nil, file)
	if err != nil {
		return "", err
	}
	return res.BlobURL, nil
}
