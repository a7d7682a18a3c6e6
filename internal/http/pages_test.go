package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/i18n"
)

func TestDegradedPageRendersWithBanner(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.get(t, "/orders", sid) })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "flash-error")
	assert.Contains(t, html, "The service is temporarily unavailable.")
	e, found := findLog(logs, "orders.list.fail")
	require.True(t, found)
	assert.Equal(t, "error", e.Level)
	assert.NotEmpty(t, e.Err)
}

func TestBearerTokenReachesBackend(t *testing.T) {
	var (
		mu  sync.Mutex
		got []string
	)
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		ok(w, domain.PagedResult[domain.Order]{Items: []domain.Order{}, Page: 1, TotalPages: 1})
	})
	tok := token(t, time.Hour)
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString(), JwtToken: tok})

	resp := p.get(t, "/orders", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, got)
	for _, h := range got {
		assert.Equal(t, "Bearer "+tok, h)
	}
}

func TestChartEndpointReturnsEmptyChartOnFailure(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.get(t, "/dashboard/sales-chart?days=500", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cd domain.ChartData
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &cd))
	assert.NotNil(t, cd.Labels)
	assert.Empty(t, cd.Labels)
	assert.Empty(t, cd.Datasets)
}

func TestSalesChartClampsDays(t *testing.T) {
	var days string
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		days = r.URL.Query().Get("days")
		ok(w, []domain.SalesTrendPoint{})
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.get(t, "/dashboard/sales-chart?days=500", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "90", days)
}

func multipartFile(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestStockImportReportsRowErrors(t *testing.T) {
	var bulk domain.BulkStockUpdate
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/StockManagement/bulk-update" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&bulk))
		ok(w, true)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	csv := "ProductId,ProductName,SKU,NewStock\n" +
		"3fa85f64-5717-4562-b3fc-2c963f66afa6,Apples,SKU-1,12\n" +
		"oops,Pears,SKU-2,4\n"
	buf, ct := multipartFile(t, "file", "stock.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/stock/import", buf)
	req.Header.Set("Content-Type", ct)

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.do(t, req, sid) })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res domain.StockImportResult
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 1, res.SuccessCount)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, "1/2 rows imported.", res.Message)
	require.Len(t, bulk.StockUpdates, 1)
	assert.Equal(t, 12, bulk.StockUpdates[0].NewStockQuantity)

	e, found := findLog(logs, "stock.import.done")
	require.True(t, found)
	assert.EqualValues(t, 1, e.Fields["errors"])
}

func TestStockImportRejectsNonCSV(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called, got %s", r.URL.Path)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	buf, ct := multipartFile(t, "file", "stock.xlsx", "PK")
	req := httptest.NewRequest(http.MethodPost, "/stock/import", buf)
	req.Header.Set("Content-Type", ct)
	resp := p.do(t, req, sid)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"success":false`)
}

func TestReviewLikeAnswersJSON(t *testing.T) {
	review := uuid.New()
	var method string
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		assert.Equal(t, "/api/v1/review/"+review.String()+"/like", r.URL.Path)
		ok(w, true)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	resp := p.postForm(t, "/reviews/"+review.String()+"/like", sid, url.Values{"like": {"false"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true,"liked":false}`, body(t, resp))
	assert.Equal(t, http.MethodDelete, method)
}

func TestUnreadCount(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		ok(w, domain.PagedResult[domain.Notification]{Items: []domain.Notification{{IsRead: false}, {IsRead: true}}})
	})
	sid := p.signIn(t, domain.Session{})

	resp := p.get(t, "/notifications/unread-count", sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"count":1}`, body(t, resp))
}

func TestLanguageSetFallsBackToTurkish(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {})

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = p.postForm(t, "/language/set", "", url.Values{"culture": {"fr-FR"}, "returnUrl": {"//evil.example"}})
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	c := cookie(resp, i18n.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, i18n.EncodeCookie("tr-TR"), c.Value)
	_, found := findLog(logs, "validation.fail")
	assert.True(t, found)
}

func TestLanguageCurrent(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/language/current", nil)
	req.AddCookie(&http.Cookie{Name: i18n.CookieName, Value: i18n.EncodeCookie("ar-SA")})
	resp := p.do(t, req, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &got))
	assert.Equal(t, "ar-SA", got["culture"])
	assert.Equal(t, true, got["isRtl"])

	req = httptest.NewRequest(http.MethodGet, "/language/current", nil)
	req.AddCookie(&http.Cookie{Name: i18n.CookieName, Value: "c=xx-XX|uic=xx-XX"})
	resp = p.do(t, req, "")
	require.NoError(t, json.Unmarshal([]byte(body(t, resp)), &got))
	assert.Equal(t, "tr-TR", got["culture"])
	assert.Equal(t, false, got["isRtl"])
}

func TestLoginPageIsLocalised(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.Header.Set("Accept-Language", "ar-SA,ar;q=0.9")
	resp := p.do(t, req, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.True(t, strings.Contains(html, `dir="rtl"`), "arabic pages are right-to-left")
	assert.Contains(t, html, `lang="ar-SA"`)
}
