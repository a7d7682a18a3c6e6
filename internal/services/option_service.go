package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/validate"
)

const (
	optionBase     = "api/v1/productoption"
	optionPageSize = 100
	optionFanout   = 4
)

type OptionService struct {
	API *apiclient.Client
}

func NewOptionService(api *apiclient.Client) *OptionService { return &OptionService{API: api} }

func (s *OptionService) Groups(ctx context.Context, productID uuid.UUID) ([]domain.OptionGroup, error) {
	res, err := apiclient.Get[domain.PagedResult[domain.OptionGroup]](ctx, s.API,
		optionBase+"/groups/"+productID.String()+"?"+pageQuery(1, optionPageSize).Encode())
	if err != nil || res.Items == nil {
		return []domain.OptionGroup{}, err
	}
	return res.Items, nil
}

func (s *OptionService) Group(ctx context.Context, id uuid.UUID) (domain.OptionGroup, error) {
	return apiclient.Get[domain.OptionGroup](ctx, s.API, optionBase+"/groups/details/"+id.String())
}

func (s *OptionService) Options(ctx context.Context, groupID uuid.UUID) ([]domain.ProductOption, error) {
	res, err := apiclient.Get[domain.PagedResult[domain.ProductOption]](ctx, s.API,
		optionBase+"/groups/"+groupID.String()+"/options?"+pageQuery(1, optionPageSize).Encode())
	if err != nil || res.Items == nil {
		return []domain.ProductOption{}, err
	}
	return res.Items, nil
}

// Page loads the product's groups and then each group's options, a few at a time.
// A group whose options fail to load is shown empty.
func (s *OptionService) Page(ctx context.Context, productID uuid.UUID) (domain.ProductOptionsView, error) {
	view := domain.ProductOptionsView{ProductID: productID, Groups: []domain.OptionGroupView{}}
	groups, err := s.Groups(ctx, productID)
	if err != nil {
		return view, err
	}
	view.Groups = make([]domain.OptionGroupView, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(optionFanout)
	for i, grp := range groups {
		view.Groups[i] = domain.OptionGroupView{Group: grp, Options: []domain.ProductOption{}}
		g.Go(func() error {
			if opts, err := s.Options(gctx, grp.ID); err == nil {
				view.Groups[i].Options = opts
			}
			return nil
		})
	}
	_ = g.Wait()
	return view, nil
}

func (s *OptionService) CreateGroup(ctx context.Context, req domain.OptionGroupRequest) (domain.OptionGroup, error) {
	if err := validate.Struct(req); err != nil {
		return domain.OptionGroup{}, errx.Validation("")
	}
	return apiclient.Post[domain.OptionGroup](ctx, s.API, optionBase+"/groups", req)
}

func (s *OptionService) UpdateGroup(ctx context.Context, id uuid.UUID, req domain.OptionGroupRequest) (domain.OptionGroup, error) {
	if err := validate.Struct(req); err != nil {
		return domain.OptionGroup{}, errx.Validation("")
	}
	return apiclient.Put[domain.OptionGroup](ctx, s.API, optionBase+"/groups/"+id.String(), req)
}

func (s *OptionService) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, optionBase+"/groups/"+id.String())
}

// ReorderGroups sends the product's complete group order. Ids must be unique.
func (s *OptionService) ReorderGroups(ctx context.Context, productID uuid.UUID, ordered []uuid.UUID) error {
	if len(ordered) == 0 {
		return errx.Validation("Nothing to reorder")
	}
	seen := make(map[uuid.UUID]struct{}, len(ordered))
	for _, id := range ordered {
		if id == uuid.Nil {
			return errx.Validation("Invalid option group")
		}
		if _, dup := seen[id]; dup {
			return errx.Validation("Each option group may appear only once")
		}
		seen[id] = struct{}{}
	}
	return s.API.Exec(ctx, "PUT", optionBase+"/groups/"+productID.String()+"/reorder", ordered)
}

func (s *OptionService) CreateOption(ctx context.Context, req domain.ProductOptionRequest) (domain.ProductOption, error) {
	if err := checkOption(req); err != nil {
		return domain.ProductOption{}, err
	}
	return apiclient.Post[domain.ProductOption](ctx, s.API, optionBase+"/options", req)
}

func (s *OptionService) UpdateOption(ctx context.Context, id uuid.UUID, req domain.ProductOptionRequest) (domain.ProductOption, error) {
	if err := checkOption(req); err != nil {
		return domain.ProductOption{}, err
	}
	return apiclient.Put[domain.ProductOption](ctx, s.API, optionBase+"/options/"+id.String(), req)
}

func (s *OptionService) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return s.API.Delete(ctx, optionBase+"/options/"+id.String())
}

func checkOption(req domain.ProductOptionRequest) error {
	if err := validate.Struct(req); err != nil {
		return errx.Validation("")
	}
	if req.ExtraPrice.Valid && req.ExtraPrice.Decimal.IsNegative() {
		return errx.Validation("Extra price cannot be negative")
	}
	return nil
}
