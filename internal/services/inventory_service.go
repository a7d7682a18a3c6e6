package services

import (
	"context"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	applog "merchantportal/internal/log"
	"merchantportal/internal/validate"
)

const (
	inventoryBase        = "api/inventory"
	inventoryDefaultDays = 30
	DefaultSlowThreshold = 45
	minSlowThreshold     = 30
	maxSlowThreshold     = 365
)

type InventoryService struct {
	API *apiclient.Client
}

func NewInventoryService(api *apiclient.Client) *InventoryService {
	return &InventoryService{API: api}
}

// InventoryQuery is the dashboard query; the date bounds are already parsed and checked.
type InventoryQuery struct {
	From, To        *time.Time
	SlowThreshold   string
	ValuationMethod string
	IncludeVariants bool
}

// ResolveInventoryFilter applies the dashboard defaults: the last 30 days, a 45 day
// slow-moving threshold and FIFO valuation. A threshold below one falls back to 30.
func ResolveInventoryFilter(q InventoryQuery, now time.Time) domain.InventoryFilter {
	from, to, _ := validate.Range(q.From, q.To, now, inventoryDefaultDays)
	threshold := DefaultSlowThreshold
	if q.SlowThreshold != "" {
		n, err := strconv.Atoi(strings.TrimSpace(q.SlowThreshold))
		switch {
		case err != nil:
		case n < 1:
			threshold = minSlowThreshold
		default:
			threshold = min(n, maxSlowThreshold)
		}
	}
	method := domain.ValuationMethods[0]
	if slices.Contains(domain.ValuationMethods, q.ValuationMethod) {
		method = q.ValuationMethod
	}
	return domain.InventoryFilter{
		From:            domain.NewTime(from),
		To:              domain.NewTime(to),
		SlowThreshold:   threshold,
		ValuationMethod: method,
		IncludeVariants: q.IncludeVariants,
	}
}

func (s *InventoryService) Levels(ctx context.Context, includeVariants bool) ([]domain.InventoryLevel, error) {
	list, err := apiclient.Get[[]domain.InventoryLevel](ctx, s.API,
		inventoryBase+"/levels?includeVariants="+strconv.FormatBool(includeVariants))
	if err != nil || list == nil {
		return []domain.InventoryLevel{}, err
	}
	return list, nil
}

func (s *InventoryService) Turnover(ctx context.Context, from, to time.Time) (domain.InventoryTurnover, error) {
	return apiclient.Get[domain.InventoryTurnover](ctx, s.API, inventoryBase+"/turnover-report?"+rangeQuery(from, to).Encode())
}

func (s *InventoryService) SlowMoving(ctx context.Context, days int) ([]domain.SlowMovingItem, error) {
	list, err := apiclient.Get[[]domain.SlowMovingItem](ctx, s.API, inventoryBase+"/slow-moving?daysThreshold="+strconv.Itoa(days))
	if err != nil || list == nil {
		return []domain.SlowMovingItem{}, err
	}
	return list, nil
}

func (s *InventoryService) Valuation(ctx context.Context, method string) (domain.InventoryValuation, error) {
	return apiclient.Get[domain.InventoryValuation](ctx, s.API, inventoryBase+"/valuation?method="+url.QueryEscape(method))
}

func (s *InventoryService) CountHistory(ctx context.Context, from, to time.Time) ([]domain.InventoryCount, error) {
	list, err := apiclient.Get[[]domain.InventoryCount](ctx, s.API, inventoryBase+"/count/history?"+rangeQuery(from, to).Encode())
	if err != nil || list == nil {
		return []domain.InventoryCount{}, err
	}
	return list, nil
}

func (s *InventoryService) Discrepancies(ctx context.Context, from time.Time) ([]domain.InventoryDiscrepancy, error) {
	list, err := apiclient.Get[[]domain.InventoryDiscrepancy](ctx, s.API,
		inventoryBase+"/discrepancies?fromDate="+from.Format(time.DateOnly))
	if err != nil || list == nil {
		return []domain.InventoryDiscrepancy{}, err
	}
	return list, nil
}

func rangeQuery(from, to time.Time) url.Values {
	q := url.Values{}
	q.Set("fromDate", from.Format(time.DateOnly))
	q.Set("toDate", to.Format(time.DateOnly))
	return q
}

// Page runs the six dashboard reads concurrently. Each panel is independent; a failed
// panel renders empty and the first failure is returned for the banner.
func (s *InventoryService) Page(ctx context.Context, f domain.InventoryFilter) (domain.InventoryView, error) {
	view := domain.InventoryView{
		Filter:        f,
		Levels:        []domain.InventoryLevel{},
		SlowMoving:    []domain.SlowMovingItem{},
		CountHistory:  []domain.InventoryCount{},
		Discrepancies: []domain.InventoryDiscrepancy{},
	}
	errs := make([]error, 6)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Levels, errs[0] = s.Levels(gctx, f.IncludeVariants)
		return nil
	})
	g.Go(func() error {
		t, err := s.Turnover(gctx, f.From.Time, f.To.Time)
		if err == nil {
			view.Turnover = &t
		}
		errs[1] = err
		return nil
	})
	g.Go(func() error {
		view.SlowMoving, errs[2] = s.SlowMoving(gctx, f.SlowThreshold)
		return nil
	})
	g.Go(func() error {
		v, err := s.Valuation(gctx, f.ValuationMethod)
		if err == nil {
			view.Valuation = &v
		}
		errs[3] = err
		return nil
	})
	g.Go(func() error {
		view.CountHistory, errs[4] = s.CountHistory(gctx, f.From.Time, f.To.Time)
		return nil
	})
	g.Go(func() error {
		view.Discrepancies, errs[5] = s.Discrepancies(gctx, f.From.Time)
		return nil
	})
	_ = g.Wait()
	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		applog.Warn("inventory.panel.fail", err, map[string]any{"panel": inventoryPanels[i]})
		if first == nil {
			first = err
		}
	}
	return view, first
}

var inventoryPanels = []string{"levels", "turnover", "slow_moving", "valuation", "count_history", "discrepancies"}
