package services

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/stockcsv"
)

const (
	importReason     = "CSV Import"
	bulkUpdateFailed = "Bulk update failed"
)

type StockService struct {
	API *apiclient.Client
}

func NewStockService(api *apiclient.Client) *StockService { return &StockService{API: api} }

func (s *StockService) Alerts(ctx context.Context) ([]domain.StockAlert, error) {
	return apiclient.Get[[]domain.StockAlert](ctx, s.API, "api/StockManagement/alerts")
}

// SummarizeAlerts counts unresolved alerts by type. The backend has no summary endpoint.
func SummarizeAlerts(alerts []domain.StockAlert) domain.StockSummary {
	var sum domain.StockSummary
	for _, a := range alerts {
		if a.IsResolved {
			continue
		}
		sum.ActiveAlerts++
		switch a.AlertType {
		case domain.AlertLowStock:
			sum.LowStockItems++
		case domain.AlertOutOfStock:
			sum.OutOfStockItems++
		case domain.AlertOverstock:
			sum.OverstockItems++
		}
	}
	return sum
}

// LowStock groups unresolved LowStock and OutOfStock alerts by product, keeping the
// first-seen order. A product with any OutOfStock alert is Critical.
func LowStock(alerts []domain.StockAlert) []domain.LowStockProduct {
	out := []domain.LowStockProduct{}
	idx := map[uuid.UUID]int{}
	for _, a := range alerts {
		if a.IsResolved || (a.AlertType != domain.AlertLowStock && a.AlertType != domain.AlertOutOfStock) {
			continue
		}
		i, seen := idx[a.ProductID]
		if !seen {
			idx[a.ProductID] = len(out)
			out = append(out, domain.LowStockProduct{
				ProductID:    a.ProductID,
				ProductName:  a.ProductName,
				CurrentStock: a.CurrentStock,
				MinStock:     a.MinimumStock,
				MaxStock:     a.MaximumStock,
				Status:       "Low",
			})
			i = len(out) - 1
		}
		p := &out[i]
		p.CurrentStock = max(p.CurrentStock, a.CurrentStock)
		p.MinStock = max(p.MinStock, a.MinimumStock)
		p.MaxStock = max(p.MaxStock, a.MaximumStock)
		if a.AlertType == domain.AlertOutOfStock {
			p.Status = "Critical"
		}
	}
	return out
}

// LowStockAt lists alerted products whose current stock is at or below threshold.
func (s *StockService) LowStockAt(ctx context.Context, threshold int) ([]domain.LowStockProduct, error) {
	alerts, err := s.Alerts(ctx)
	if err != nil {
		return []domain.LowStockProduct{}, err
	}
	out := []domain.LowStockProduct{}
	for _, p := range LowStock(alerts) {
		if p.CurrentStock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

// Overview loads the alerts once and derives the summary and low-stock list from them.
func (s *StockService) Overview(ctx context.Context) (domain.StockView, error) {
	alerts, err := s.Alerts(ctx)
	if err != nil {
		return domain.StockView{Alerts: []domain.StockAlert{}, LowStock: []domain.LowStockProduct{}}, err
	}
	return domain.StockView{Alerts: alerts, Summary: SummarizeAlerts(alerts), LowStock: LowStock(alerts)}, nil
}

// History returns stock movements for a product. Dates go out as yyyy-MM-dd.
func (s *StockService) History(ctx context.Context, productID uuid.UUID, from, to string) ([]domain.StockHistory, error) {
	q := url.Values{}
	if from != "" {
		q.Set("fromDate", from)
	}
	if to != "" {
		q.Set("toDate", to)
	}
	path := "api/StockManagement/history/" + productID.String()
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return apiclient.Get[[]domain.StockHistory](ctx, s.API, path)
}

func (s *StockService) Update(ctx context.Context, u domain.StockUpdate) error {
	return s.API.Exec(ctx, "PUT", "api/StockManagement/update", u)
}

func (s *StockService) BulkUpdate(ctx context.Context, req domain.BulkStockUpdate) error {
	return s.API.Exec(ctx, "PUT", "api/StockManagement/bulk-update", req)
}

func (s *StockService) ResolveAlert(ctx context.Context, alertID uuid.UUID, notes string) error {
	return s.API.Exec(ctx, "PUT", fmt.Sprintf("api/StockAlert/%s/resolve", alertID),
		map[string]string{"resolutionNotes": notes})
}

func (s *StockService) Sync(ctx context.Context, merchantID uuid.UUID) error {
	return s.API.Exec(ctx, "POST", "api/StockManagement/sync/"+merchantID.String(), nil)
}

func (s *StockService) CheckAlerts(ctx context.Context, merchantID uuid.UUID) error {
	return s.API.Exec(ctx, "POST", "api/StockManagement/check-alerts/"+merchantID.String(), nil)
}

// Import parses the CSV and sends every valid row in one bulk update. Row errors never
// abort the batch; a failed bulk call counts all of its rows as errors.
func (s *StockService) Import(ctx context.Context, r io.Reader) (domain.StockImportResult, error) {
	updates, res, err := stockcsv.Parse(r)
	if err != nil {
		return res, err
	}
	if len(updates) == 0 {
		return res, nil
	}
	if res.ErrorCount > 0 {
		for i := range updates {
			updates[i].Reason = importReason
		}
	}
	if err := s.BulkUpdate(ctx, domain.BulkStockUpdate{StockUpdates: updates}); err != nil {
		res.ErrorCount += len(updates)
		res.Errors = append(res.Errors, bulkUpdateFailed)
		return res, err
	}
	res.SuccessCount = len(updates)
	return res, nil
}

// Export writes the low-stock products as CSV.
func (s *StockService) Export(ctx context.Context, w io.Writer) error {
	alerts, err := s.Alerts(ctx)
	if err != nil {
		return err
	}
	return stockcsv.Write(w, LowStock(alerts))
}
