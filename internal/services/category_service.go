package services

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

type CategoryService struct {
	API *apiclient.Client
}

func NewCategoryService(api *apiclient.Client) *CategoryService { return &CategoryService{API: api} }

func (s *CategoryService) ForMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.ProductCategory, error) {
	return apiclient.Get[[]domain.ProductCategory](ctx, s.API, "api/v1/productcategory/merchant/"+merchantID.String())
}

func (s *CategoryService) Standard(ctx context.Context) ([]domain.ProductCategory, error) {
	return apiclient.Get[[]domain.ProductCategory](ctx, s.API, "api/v1/productcategory/standard")
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (domain.ProductCategory, error) {
	return apiclient.Get[domain.ProductCategory](ctx, s.API, "api/v1/productcategory/"+id.String())
}

func (s *CategoryService) Create(ctx context.Context, merchantID uuid.UUID, req domain.CategoryRequest) (domain.ProductCategory, error) {
	return apiclient.Post[domain.ProductCategory](ctx, s.API, "api/v1/productcategory/merchant/"+merchantID.String(), req)
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req domain.CategoryRequest) (domain.ProductCategory, error) {
	return apiclient.Put[domain.ProductCategory](ctx, s.API, "api/v1/productcategory/"+id.String(), req)
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, "api/v1/productcategory/"+id.String())
}

// Tree fetches the merchant's categories and arranges them by parent.
func (s *CategoryService) Tree(ctx context.Context, merchantID uuid.UUID) ([]*domain.CategoryTreeNode, error) {
	cats, err := s.ForMerchant(ctx, merchantID)
	if err != nil {
		return []*domain.CategoryTreeNode{}, err
	}
	return BuildTree(cats), nil
}

// BuildTree links categories through ParentCategoryID. A category whose parent is not in
// the list becomes a root. Siblings are ordered by DisplayOrder, then Name.
func BuildTree(cats []domain.ProductCategory) []*domain.CategoryTreeNode {
	nodes := make(map[uuid.UUID]*domain.CategoryTreeNode, len(cats))
	for _, c := range cats {
		nodes[c.ID] = &domain.CategoryTreeNode{Category: c, Children: []*domain.CategoryTreeNode{}}
	}
	roots := []*domain.CategoryTreeNode{}
	for _, c := range cats {
		n := nodes[c.ID]
		if c.ParentCategoryID != nil && *c.ParentCategoryID != c.ID {
			if parent, ok := nodes[*c.ParentCategoryID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	sortNodes(roots, 0, map[uuid.UUID]bool{})
	return roots
}

func sortNodes(nodes []*domain.CategoryTreeNode, level int, seen map[uuid.UUID]bool) {
	slices.SortStableFunc(nodes, func(a, b *domain.CategoryTreeNode) int {
		if c := cmp.Compare(a.Category.DisplayOrder, b.Category.DisplayOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.Name, b.Category.Name)
	})
	for _, n := range nodes {
		if seen[n.Category.ID] {
			continue
		}
		seen[n.Category.ID] = true
		n.Level = level
		sortNodes(n.Children, level+1, seen)
	}
}

// Flatten walks the tree depth first; the category page renders it as an indented list.
func Flatten(roots []*domain.CategoryTreeNode) []*domain.CategoryTreeNode {
	var out []*domain.CategoryTreeNode
	var walk func([]*domain.CategoryTreeNode, map[uuid.UUID]bool)
	walk = func(ns []*domain.CategoryTreeNode, seen map[uuid.UUID]bool) {
		for _, n := range ns {
			if seen[n.Category.ID] {
				continue
			}
			seen[n.Category.ID] = true
			out = append(out, n)
			walk(n.Children, seen)
		}
	}
	walk(roots, map[uuid.UUID]bool{})
	return out
}
