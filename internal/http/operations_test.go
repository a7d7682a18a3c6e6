package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
)

func TestPaymentsExportIsCSV(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/transactions")
		assert.Equal(t, "Cash", r.URL.Query().Get("paymentMethod"))
		ok(w, map[string]any{"items": []map[string]any{{
			"id": uuid.NewString(), "orderId": "3fa85f64-5717-4562-b3fc-2c963f66afa6",
			"paymentMethod": "Cash", "status": "Completed", "amount": 42.5, "createdAt": "2025-03-01T10:00:00",
		}}})
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.get(t, "/payments/export?paymentMethod=Cash", sid) })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Payments_")
	out := body(t, resp)
	assert.True(t, strings.HasPrefix(out, "Order Number,Payment Method,Status,Amount,Created At,Completed At\n"))
	assert.Contains(t, out, "ORD-3fa85f64,Cash,Completed,42.50,2025-03-01 10:00,")
	_, found := findLog(logs, "payments.export")
	assert.True(t, found)
}

func TestCashCollectionsNeedAdmin(t *testing.T) {
	p := newPortal(t, silentBackend(t))
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.get(t, "/admin/cash-collections", sid)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = p.postForm(t, "/admin/settlements/"+uuid.NewString()+"/process", sid, url.Values{"commissionRate": {"0.1"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCashCollectionsPage(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payment/admin/cash-collections", r.URL.Path)
		assert.Equal(t, "Collected", r.URL.Query().Get("status"))
		ok(w, map[string]any{"page": 1, "totalPages": 1, "items": []map[string]any{{
			"id": uuid.NewString(), "orderNumber": "ORD-777", "paymentMethod": "Cash", "status": "Collected",
			"amount": 90, "collectedByCourierName": "Kurye Ali", "createdAt": "2025-03-01T10:00:00",
		}}})
	})
	sid := p.signIn(t, domain.Session{UserRole: domain.RoleAdmin})

	resp := p.get(t, "/admin/cash-collections?status=Collected", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := body(t, resp)
	assert.Contains(t, out, "ORD-777")
	assert.Contains(t, out, "Kurye Ali")
	assert.Contains(t, out, `value="0.1"`)
}

func TestProcessSettlement(t *testing.T) {
	mid := uuid.New()
	var got map[string]any
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payment/admin/settlements/"+mid.String()+"/process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		ok(w, nil)
	})
	sid := p.signIn(t, domain.Session{UserRole: domain.RoleAdmin})

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = p.postForm(t, "/admin/settlements/"+mid.String()+"/process", sid, url.Values{
			"commissionRate":        {"0,12"},
			"bankTransferReference": {"TR-1"},
			"returnStatus":          {"Collected"},
			"returnPage":            {"2"},
		})
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/cash-collections?page=2&status=Collected", resp.Header.Get("Location"))
	assert.Equal(t, 0.12, got["commissionRate"])
	assert.Equal(t, "TR-1", got["bankTransferReference"])
	e, found := findLog(logs, "admin.settlement.process")
	require.True(t, found)
	assert.Equal(t, mid.String(), e.Fields["merchant_id"])
}

func TestProcessSettlementRejectsRateOutsideUnitRange(t *testing.T) {
	p := newPortal(t, silentBackend(t))
	sid := p.signIn(t, domain.Session{UserRole: domain.RoleAdmin})

	for _, rate := range []string{"1.5", "-0.1", "", "abc"} {
		var resp *http.Response
		logs := captureLogs(t, func() {
			resp = p.postForm(t, "/admin/settlements/"+uuid.NewString()+"/process", sid, url.Values{"commissionRate": {rate}})
		})
		assert.Equal(t, http.StatusFound, resp.StatusCode, rate)
		assert.Equal(t, "/admin/cash-collections?page=1", resp.Header.Get("Location"), rate)
		e, found := findLog(logs, "validation.fail")
		if assert.True(t, found, rate) {
			assert.Equal(t, "commissionRate", e.Fields["field"])
		}
	}
}

func TestStockAlertsAndLowStockJSON(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/StockManagement/alerts", r.URL.Path)
		ok(w, []map[string]any{
			{"id": uuid.NewString(), "productId": a, "productName": "Elma", "alertType": "LowStock", "currentStock": 9, "minimumStock": 10},
			{"id": uuid.NewString(), "productId": b, "productName": "Armut", "alertType": "OutOfStock", "currentStock": 0, "minimumStock": 5},
		})
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.get(t, "/stock/alerts", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts struct {
		Success bool                `json:"success"`
		Data    []domain.StockAlert `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &alerts))
	assert.True(t, alerts.Success)
	assert.Len(t, alerts.Data, 2)

	resp = p.get(t, "/stock/low-stock?threshold=5", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low struct {
		Success bool                     `json:"success"`
		Data    []domain.LowStockProduct `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &low))
	require.Len(t, low.Data, 1)
	assert.Equal(t, b, low.Data[0].ProductID)
	assert.Equal(t, "Critical", low.Data[0].Status)

	resp = p.get(t, "/stock/low-stock", sid)
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &low))
	assert.Len(t, low.Data, 2)
}

func TestLowStockRejectsBadThreshold(t *testing.T) {
	p := newPortal(t, silentBackend(t))
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})
	for _, th := range []string{"abc", "-1", "1000000"} {
		resp := p.get(t, "/stock/low-stock?threshold="+th, sid)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, th)
	}
}

func postJSON(t *testing.T, p *portal, path, sid, payload string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return p.do(t, req, sid)
}

func TestStockBulkUpdate(t *testing.T) {
	pid := uuid.New()
	var got domain.BulkStockUpdate
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/StockManagement/bulk-update", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		ok(w, nil)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := postJSON(t, p, "/stock/bulk-update", sid, `{"stockUpdates":[{"productId":"`+pid.String()+`","newStockQuantity":25}],"reason":"count"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"success":true`)
	require.Len(t, got.StockUpdates, 1)
	assert.Equal(t, pid, got.StockUpdates[0].ProductID)
	assert.Equal(t, 25, got.StockUpdates[0].NewStockQuantity)
	assert.Equal(t, "count", got.Reason)
}

func TestStockBulkUpdateRejectsBadRows(t *testing.T) {
	p := newPortal(t, silentBackend(t))
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	for _, payload := range []string{
		`{"stockUpdates":[]}`,
		`{"stockUpdates":[{"productId":"` + uuid.NewString() + `","newStockQuantity":-3}]}`,
		`{"stockUpdates":[{"productId":"00000000-0000-0000-0000-000000000000","newStockQuantity":3}]}`,
		`{"stockUpdates":`,
	} {
		var resp *http.Response
		logs := captureLogs(t, func() { resp = postJSON(t, p, "/stock/bulk-update", sid, payload) })
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, payload)
		_, found := findLog(logs, "validation.fail")
		assert.True(t, found, payload)
	}
}

func TestReportJSONEndpoints(t *testing.T) {
	user := uuid.NewString()
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/api/v1/orders/merchant/")
		ok(w, map[string]any{"items": []map[string]any{
			{"id": uuid.NewString(), "userId": user, "customerName": "Ayşe", "status": "Delivered", "totalAmount": 50, "createdAt": "2025-03-01T10:00:00",
				"orderLines": []map[string]any{{"productId": "3fa85f64-5717-4562-b3fc-2c963f66afa6", "productName": "Simit", "quantity": 5, "totalPrice": 50}}},
			{"id": uuid.NewString(), "userId": user, "customerName": "Ayşe", "status": "Delivered", "totalAmount": 30, "createdAt": "2025-03-02T10:00:00"},
		}})
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})
	q := "?startDate=2025-03-01&endDate=2025-03-02"

	var customers struct {
		Success bool                     `json:"success"`
		Data    domain.CustomerAnalytics `json:"data"`
	}
	resp := p.get(t, "/reports/customers"+q, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &customers))
	assert.True(t, customers.Success)
	assert.Equal(t, 1, customers.Data.TotalCustomers)
	assert.Equal(t, 1, customers.Data.ReturningCustomers)

	var products struct {
		Data domain.ProductPerformance `json:"data"`
	}
	resp = p.get(t, "/reports/products"+q, sid)
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &products))
	require.Len(t, products.Data.BestSellers, 1)
	assert.Equal(t, "Simit", products.Data.BestSellers[0].ProductName)
	assert.Len(t, products.Data.SalesByDay, 2)

	var chart struct {
		Data domain.ReportChart `json:"data"`
	}
	resp = p.get(t, "/reports/chart"+q+"&chartType=orders", sid)
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &chart))
	assert.Equal(t, "orders", chart.Data.ChartType)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, chart.Data.Labels)

	resp = p.get(t, "/reports/customers?startDate=2025-03-02&endDate=2025-03-01", sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsPageLoadsAndSavesPreferences(t *testing.T) {
	var saved domain.MerchantPreferences
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/userpreferences/merchant", r.URL.Path)
		if r.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			_ = json.NewEncoder(w).Encode(saved)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.MerchantPreferences{SoundEnabled: true, NotificationSound: "chime"})
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.get(t, "/settings", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `value="chime"`)

	logs := captureLogs(t, func() {
		resp = p.postForm(t, "/settings", sid, url.Values{
			"emailNotifications":  {"true"},
			"doNotDisturbEnabled": {"true"},
			"doNotDisturbStart":   {"23:00"},
			"doNotDisturbEnd":     {"07:30"},
		})
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, saved.EmailNotifications)
	assert.False(t, saved.SoundEnabled)
	assert.Equal(t, "07:30", saved.DoNotDisturbEnd)
	_, found := findLog(logs, "settings.update")
	assert.True(t, found)
}

func TestSettingsRejectsBadQuietHours(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, http.MethodPut, r.Method)
		_ = json.NewEncoder(w).Encode(domain.MerchantPreferences{})
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.postForm(t, "/settings", sid, url.Values{"doNotDisturbStart": {"11pm"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
