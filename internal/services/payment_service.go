package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/validate"
)

const (
	dateLayout        = "2006-01-02"
	historyPageSize   = 100
	analyticsPageSize = 1000
	topDays           = 10
	cashPageSize      = 20
	csvTimeLayout     = "2006-01-02 15:04"
)

// DefaultCommissionRate pre-fills the settlement form.
var DefaultCommissionRate = decimal.RequireFromString("0.1")

var hundred = decimal.NewFromInt(100)

// PaymentMethods is the filter list on the payments page.
var PaymentMethods = []string{"Cash", "CreditCard", "VodafonePay", "BankTransfer", "BkmExpress", "Papara", "QrCode"}

var methodNames = map[string]string{
	"Cash":         "Kapıda Nakit",
	"CreditCard":   "Kredi Kartı",
	"VodafonePay":  "Vodafone Pay",
	"BankTransfer": "Havale/EFT",
	"BkmExpress":   "BKM Express",
	"Papara":       "Papara",
	"QrCode":       "QR Code",
}

var methodColors = map[string]string{
	"Cash":         "#28a745",
	"CreditCard":   "#007bff",
	"VodafonePay":  "#e60000",
	"BankTransfer": "#6c757d",
	"BkmExpress":   "#ffc107",
	"Papara":       "#9c27b0",
	"QrCode":       "#17a2b8",
}

func MethodDisplayName(m string) string {
	if n, ok := methodNames[m]; ok {
		return n
	}
	return m
}

func MethodColor(m string) string {
	if c, ok := methodColors[m]; ok {
		return c
	}
	return "#6c757d"
}

type PaymentService struct {
	API *apiclient.Client
	Now func() time.Time
}

func NewPaymentService(api *apiclient.Client) *PaymentService {
	return &PaymentService{API: api, Now: time.Now}
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *PaymentService) transactions(ctx context.Context, merchantID uuid.UUID, q url.Values) ([]domain.Payment, error) {
	page, err := apiclient.Get[domain.PagedResult[domain.Payment]](ctx, s.API,
		fmt.Sprintf("api/v1/payment/merchant/%s/transactions?%s", merchantID, q.Encode()))
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []domain.Payment{}, nil
	}
	return page.Items, nil
}

func transactionQuery(size int, start, end *time.Time) url.Values {
	q := url.Values{}
	q.Set("Page", "1")
	q.Set("PageSize", fmt.Sprint(size))
	if start != nil {
		q.Set("startDate", start.Format(dateLayout))
	}
	if end != nil {
		q.Set("endDate", end.Format(dateLayout))
	}
	return q
}

// History lists transactions for the payments page.
func (s *PaymentService) History(ctx context.Context, merchantID uuid.UUID, f domain.PaymentFilter) ([]domain.PaymentListItem, error) {
	q := transactionQuery(historyPageSize, f.StartDate, f.EndDate)
	if f.PaymentMethod != "" {
		q.Set("paymentMethod", f.PaymentMethod)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	payments, err := s.transactions(ctx, merchantID, q)
	if err != nil {
		return []domain.PaymentListItem{}, err
	}
	out := make([]domain.PaymentListItem, 0, len(payments))
	for _, p := range payments {
		out = append(out, domain.PaymentListItem{
			ID:            p.ID,
			OrderID:       p.OrderID,
			OrderNumber:   OrderNumber(p.OrderID),
			PaymentMethod: p.PaymentMethod,
			Status:        p.Status,
			Amount:        p.Amount,
			CreatedAt:     p.CreatedAt,
			CompletedAt:   p.CompletedAt,
		})
	}
	return out, nil
}

// OrderNumber is the short display form of an order id.
func OrderNumber(orderID uuid.UUID) string {
	return "ORD-" + orderID.String()[:8]
}

func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return apiclient.Get[domain.Payment](ctx, s.API, "api/v1/payment/"+id.String())
}

// CashCollections lists cash payments awaiting settlement across all merchants.
func (s *PaymentService) CashCollections(ctx context.Context, page int, status string) (domain.PagedResult[domain.Payment], error) {
	q := url.Values{}
	q.Set("Page", fmt.Sprint(page))
	q.Set("PageSize", fmt.Sprint(cashPageSize))
	if status != "" {
		q.Set("status", status)
	}
	res, err := apiclient.Get[domain.PagedResult[domain.Payment]](ctx, s.API, "api/v1/payment/admin/cash-collections?"+q.Encode())
	if err != nil {
		return domain.EmptyPage[domain.Payment](page, cashPageSize), err
	}
	if res.Items == nil {
		res.Items = []domain.Payment{}
	}
	return res, nil
}

func (s *PaymentService) ProcessSettlement(ctx context.Context, merchantID uuid.UUID, req domain.ProcessSettlementRequest) error {
	return s.API.Exec(ctx, "POST", fmt.Sprintf("api/v1/payment/admin/settlements/%s/process", merchantID), req)
}

// WritePaymentsCSV exports the payment history rows. Times are written as
// yyyy-MM-dd HH:mm; a payment that never completed leaves the column empty.
func WritePaymentsCSV(w io.Writer, items []domain.PaymentListItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Order Number", "Payment Method", "Status", "Amount", "Created At", "Completed At"}); err != nil {
		return err
	}
	for _, p := range items {
		completedAt := ""
		if p.CompletedAt != nil {
			completedAt = p.CompletedAt.Format(csvTimeLayout)
		}
		if err := cw.Write([]string{
			p.OrderNumber,
			p.PaymentMethod,
			p.Status,
			p.Amount.StringFixed(2),
			p.CreatedAt.Format(csvTimeLayout),
			completedAt,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Settlement fetches the cash summary for the range and derives the daily breakdown.
func (s *PaymentService) Settlement(ctx context.Context, merchantID uuid.UUID, start, end time.Time) (domain.SettlementReport, error) {
	q := url.Values{}
	q.Set("startDate", start.Format(dateLayout))
	q.Set("endDate", end.Format(dateLayout))
	sum, err := apiclient.Get[domain.MerchantCashSummary](ctx, s.API,
		fmt.Sprintf("api/v1/payment/merchant/%s/summary?%s", merchantID, q.Encode()))
	if err != nil {
		return EmptySettlement(start, end), err
	}
	return BuildSettlement(sum, start, end), nil
}

func EmptySettlement(start, end time.Time) domain.SettlementReport {
	return domain.SettlementReport{
		StartDate:       start,
		EndDate:         end,
		RevenueByMethod: map[string]decimal.Decimal{},
		DailyBreakdown:  []domain.DailySettlement{},
	}
}

// BuildSettlement spreads the summary's commission over the days with payments in
// proportion to each day's revenue.
func BuildSettlement(sum domain.MerchantCashSummary, start, end time.Time) domain.SettlementReport {
	start, end = clampRange(start, end)
	r := EmptySettlement(start, end)
	r.TotalRevenue = sum.TotalAmount
	r.TotalCommission = sum.TotalCommission
	r.NetAmount = sum.NetAmount
	r.TotalOrders = sum.TotalOrders

	byDay := map[time.Time][]domain.Payment{}
	for _, p := range sum.Payments {
		if p.Status == domain.PaymentCompleted {
			r.CompletedOrders++
		}
		r.RevenueByMethod[p.PaymentMethod] = r.RevenueByMethod[p.PaymentMethod].Add(p.Amount)
		d := day(p.CreatedAt.Time)
		byDay[d] = append(byDay[d], p)
	}
	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		ps := byDay[d]
		if len(ps) == 0 {
			continue
		}
		revenue := total(ps)
		commission := decimal.Zero
		if sum.TotalCommission.IsPositive() && !sum.TotalAmount.IsZero() {
			commission = revenue.Div(sum.TotalAmount).Mul(sum.TotalCommission)
		}
		r.DailyBreakdown = append(r.DailyBreakdown, domain.DailySettlement{
			Date:       d,
			Revenue:    revenue,
			Commission: commission,
			NetAmount:  revenue.Sub(commission),
			OrderCount: len(ps),
		})
	}
	return r
}

// Analytics fetches this year's transactions and analyses the completed ones over
// [start, end]. Nil bounds default to the last 30 days.
func (s *PaymentService) Analytics(ctx context.Context, merchantID uuid.UUID, start, end *time.Time) (domain.RevenueAnalytics, error) {
	now := s.now()
	from, to := now.AddDate(0, 0, -30), now
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	payments, err := s.transactions(ctx, merchantID, transactionQuery(analyticsPageSize, &yearStart, nil))
	if err != nil {
		return EmptyAnalytics(from, to), err
	}
	return BuildAnalytics(completed(payments), from, to), nil
}

// MethodBreakdown groups completed payments by method, largest first.
func (s *PaymentService) MethodBreakdown(ctx context.Context, merchantID uuid.UUID, start, end *time.Time) ([]domain.PaymentMethodBreakdown, error) {
	payments, err := s.transactions(ctx, merchantID, transactionQuery(analyticsPageSize, start, end))
	if err != nil {
		return []domain.PaymentMethodBreakdown{}, err
	}
	return BuildMethodBreakdown(completed(payments)), nil
}

func BuildMethodBreakdown(payments []domain.Payment) []domain.PaymentMethodBreakdown {
	out := []domain.PaymentMethodBreakdown{}
	all := total(payments)
	if all.IsZero() {
		return out
	}
	for _, g := range groupByMethod(payments) {
		amount := total(g.payments)
		out = append(out, domain.PaymentMethodBreakdown{
			Method:      g.method,
			DisplayName: MethodDisplayName(g.method),
			OrderCount:  len(g.payments),
			TotalAmount: amount,
			Percentage:  amount.Div(all).Mul(hundred),
			Color:       MethodColor(g.method),
		})
	}
	slices.SortStableFunc(out, func(a, b domain.PaymentMethodBreakdown) int { return b.TotalAmount.Cmp(a.TotalAmount) })
	return out
}

func EmptyAnalytics(start, end time.Time) domain.RevenueAnalytics {
	return domain.RevenueAnalytics{
		StartDate:                 start,
		EndDate:                   end,
		DailyRevenue:              []domain.DailyValue{},
		WeeklyRevenue:             []domain.WeeklyValue{},
		MonthlyRevenue:            []domain.MonthlyValue{},
		PaymentMethodDistribution: []domain.BreakdownItem{},
		RevenueByHour:             []domain.HourlyValue{},
		TopRevenueDays:            []domain.DailyValue{},
	}
}

// BuildAnalytics computes the revenue views from already-filtered payments.
func BuildAnalytics(payments []domain.Payment, start, end time.Time) domain.RevenueAnalytics {
	start, end = clampRange(start, end)
	a := EmptyAnalytics(start, end)
	a.TotalRevenue = total(payments)
	a.DailyRevenue = dailyRevenue(payments, start, end)
	a.WeeklyRevenue = weeklyRevenue(payments, start, end)
	a.MonthlyRevenue = monthlyRevenue(payments, start, end)
	a.RevenueTrend = revenueTrend(a.DailyRevenue)
	a.PaymentMethodDistribution = methodDistribution(payments)
	a.RevenueByHour = hourlyRevenue(payments)

	top := slices.Clone(a.DailyRevenue)
	slices.SortStableFunc(top, func(x, y domain.DailyValue) int { return y.Value.Cmp(x.Value) })
	if len(top) > topDays {
		top = top[:topDays]
	}
	a.TopRevenueDays = top
	return a
}

func dailyRevenue(payments []domain.Payment, start, end time.Time) []domain.DailyValue {
	byDay := map[time.Time]decimal.Decimal{}
	for _, p := range payments {
		d := day(p.CreatedAt.Time)
		byDay[d] = byDay[d].Add(p.Amount)
	}
	out := []domain.DailyValue{}
	for d := day(start); !d.After(day(end)); d = d.AddDate(0, 0, 1) {
		out = append(out, domain.DailyValue{Date: d, Value: byDay[d]})
	}
	return out
}

// weeklyRevenue buckets by Sunday-started weeks covering the range.
func weeklyRevenue(payments []domain.Payment, start, end time.Time) []domain.WeeklyValue {
	out := []domain.WeeklyValue{}
	s := day(start)
	for w := s.AddDate(0, 0, -int(s.Weekday())); !w.After(day(end)); w = w.AddDate(0, 0, 7) {
		weekEnd := w.AddDate(0, 0, 6)
		out = append(out, domain.WeeklyValue{Week: WeekOfYear(w), Year: w.Year(), Value: sumBetween(payments, w, weekEnd)})
	}
	return out
}

func monthlyRevenue(payments []domain.Payment, start, end time.Time) []domain.MonthlyValue {
	out := []domain.MonthlyValue{}
	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(day(end)); m = m.AddDate(0, 1, 0) {
		monthEnd := m.AddDate(0, 1, -1)
		out = append(out, domain.MonthlyValue{Month: int(m.Month()), Year: m.Year(), Value: sumBetween(payments, m, monthEnd)})
	}
	return out
}

// WeekOfYear numbers weeks from January 1st, with later weeks starting on Monday.
func WeekOfYear(t time.Time) int {
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(jan1.Weekday()) + 6) % 7
	return (t.YearDay()-1+offset)/7 + 1
}

// revenueTrend compares the second half of the daily series with the first, in percent.
func revenueTrend(daily []domain.DailyValue) decimal.Decimal {
	n := len(daily)
	if n < 2 {
		return decimal.Zero
	}
	first, second := decimal.Zero, decimal.Zero
	for i, d := range daily {
		if i < n/2 {
			first = first.Add(d.Value)
		} else {
			second = second.Add(d.Value)
		}
	}
	if first.IsZero() {
		return decimal.Zero
	}
	return second.Sub(first).Div(first).Mul(hundred)
}

func methodDistribution(payments []domain.Payment) []domain.BreakdownItem {
	out := []domain.BreakdownItem{}
	all := total(payments)
	for _, g := range groupByMethod(payments) {
		v := total(g.payments)
		pct := decimal.Zero
		if !all.IsZero() {
			pct = v.Div(all).Mul(hundred)
		}
		out = append(out, domain.BreakdownItem{
			Label:      MethodDisplayName(g.method),
			Value:      v,
			Percentage: pct,
			Color:      MethodColor(g.method),
		})
	}
	slices.SortStableFunc(out, func(a, b domain.BreakdownItem) int { return b.Value.Cmp(a.Value) })
	return out
}

func hourlyRevenue(payments []domain.Payment) []domain.HourlyValue {
	out := make([]domain.HourlyValue, 24)
	for h := range out {
		out[h] = domain.HourlyValue{Hour: h, Value: decimal.Zero}
	}
	for _, p := range payments {
		h := p.CreatedAt.Hour()
		out[h].Value = out[h].Value.Add(p.Amount)
	}
	return out
}

type methodGroup struct {
	method   string
	payments []domain.Payment
}

// groupByMethod keeps first-seen order so equal totals sort deterministically.
func groupByMethod(payments []domain.Payment) []methodGroup {
	var groups []methodGroup
	idx := map[string]int{}
	for _, p := range payments {
		i, ok := idx[p.PaymentMethod]
		if !ok {
			i = len(groups)
			idx[p.PaymentMethod] = i
			groups = append(groups, methodGroup{method: p.PaymentMethod})
		}
		groups[i].payments = append(groups[i].payments, p)
	}
	return groups
}

func completed(payments []domain.Payment) []domain.Payment {
	out := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			out = append(out, p)
		}
	}
	return out
}

func total(payments []domain.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

func sumBetween(payments []domain.Payment, from, to time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		d := day(p.CreatedAt.Time)
		if !d.Before(from) && !d.After(to) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// clampRange keeps the window ordered and no longer than validate.MaxRangeDays,
// counting back from end.
func clampRange(start, end time.Time) (time.Time, time.Time) {
	if end.Before(start) {
		start = end
	}
	if earliest := end.AddDate(0, 0, -validate.MaxRangeDays); start.Before(earliest) {
		start = earliest
	}
	return start, end
}

// day is the calendar date of t as a UTC midnight, usable as a map key.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
