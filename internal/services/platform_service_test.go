package services_test

import (
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/services"
)

func TestResolveInventoryFilter(t *testing.T) {
	now := date("2026-06-30")

	f := services.ResolveInventoryFilter(services.InventoryQuery{}, now)
	assert.Equal(t, "2026-05-31", f.From.Format(time.DateOnly))
	assert.Equal(t, "2026-06-30", f.To.Format(time.DateOnly))
	assert.Equal(t, services.DefaultSlowThreshold, f.SlowThreshold)
	assert.Equal(t, "FIFO", f.ValuationMethod)

	cases := map[string]int{"0": 30, "-5": 30, "90": 90, "9000": 365, "abc": services.DefaultSlowThreshold}
	for raw, want := range cases {
		got := services.ResolveInventoryFilter(services.InventoryQuery{SlowThreshold: raw}, now)
		assert.Equal(t, want, got.SlowThreshold, raw)
	}

	from, to := date("2026-01-01"), date("2026-02-01")
	f = services.ResolveInventoryFilter(services.InventoryQuery{From: &from, To: &to, ValuationMethod: "LIFO", IncludeVariants: true}, now)
	assert.Equal(t, "2026-01-01", f.From.Format(time.DateOnly))
	assert.Equal(t, "LIFO", f.ValuationMethod)
	assert.True(t, f.IncludeVariants)

	f = services.ResolveInventoryFilter(services.InventoryQuery{ValuationMethod: "Guess"}, now)
	assert.Equal(t, "FIFO", f.ValuationMethod)
}

func TestInventoryPagePartialFailure(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/inventory/levels":
			assert.Equal(t, "true", r.URL.Query().Get("includeVariants"))
			writeData(w, []domain.InventoryLevel{{ProductName: "Ayran"}})
		case "/api/inventory/slow-moving":
			assert.Equal(t, "60", r.URL.Query().Get("daysThreshold"))
			writeData(w, []domain.SlowMovingItem{{ProductName: "Tahini"}})
		case "/api/inventory/valuation":
			assert.Equal(t, "WeightedAverage", r.URL.Query().Get("method"))
			writeData(w, domain.InventoryValuation{TotalItems: 12})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	f := domain.InventoryFilter{
		From:            domain.NewTime(date("2026-06-01")),
		To:              domain.NewTime(date("2026-06-30")),
		SlowThreshold:   60,
		ValuationMethod: "WeightedAverage",
		IncludeVariants: true,
	}
	view, err := services.NewInventoryService(api).Page(t.Context(), f)
	require.Error(t, err)
	assert.Len(t, view.Levels, 1)
	assert.Len(t, view.SlowMoving, 1)
	require.NotNil(t, view.Valuation)
	assert.Equal(t, 12, view.Valuation.TotalItems)
	assert.Nil(t, view.Turnover)
	assert.NotNil(t, view.CountHistory)
	assert.NotNil(t, view.Discrepancies)
}

func TestSafeBlobName(t *testing.T) {
	for _, ok := range []string{"menu.pdf", "logo 2026.png", "merchant-files"} {
		assert.True(t, services.SafeBlobName(ok), ok)
	}
	for _, bad := range []string{"", "  ", "../secret", "a/b", `a\b`, ".."} {
		assert.False(t, services.SafeBlobName(bad), bad)
	}
}

func TestSniffStorable(t *testing.T) {
	ct, ok := services.SniffStorable([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	assert.True(t, ok)
	assert.Equal(t, "image/png", ct)

	ct, ok = services.SniffStorable([]byte("%PDF-1.4\n"))
	assert.True(t, ok)
	assert.Equal(t, "application/pdf", ct)

	_, ok = services.SniffStorable([]byte("\x7fELF\x02\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
	assert.False(t, ok)
}

func TestFileUploadUsesSniffedType(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/files/merchant/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		writeData(w, domain.FileUploadResponse{FileName: hdr.Filename, BlobURL: "https://blob/menu.pdf"})
	})
	svc := services.NewFileService(api, 5*time.Second)

	res, err := svc.Upload(t.Context(), apiclient.FilePart{FileName: "menu.pdf", ContentType: "image/png", Content: []byte("%PDF-1.4\n")})
	require.NoError(t, err)
	assert.Equal(t, "https://blob/menu.pdf", res.BlobURL)

	_, err = svc.Upload(t.Context(), apiclient.FilePart{FileName: "x.exe", Content: []byte("MZ\x90\x00\x03\x00\x00\x00")})
	assert.Equal(t, "This file type is not allowed", errx.MessageOf(err))
	_, err = svc.Upload(t.Context(), apiclient.FilePart{FileName: "big.txt", Content: []byte(strings.Repeat("a", services.MaxFileSize+1))})
	assert.Equal(t, "Files may be at most 10 MB", errx.MessageOf(err))
}

func TestFileDeleteRejectsTraversal(t *testing.T) {
	svc := services.NewFileService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	}), 0)
	err := svc.Delete(t.Context(), "merchant-files", "../../etc/passwd")
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
}

func TestApplicationsClampPage(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/Admin/merchants/applications", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("pageSize"))
		writeData(w, domain.PagedResult[domain.MerchantApplication]{Page: 1})
	})
	res, err := services.NewPlatformService(api).Applications(t.Context(), -3, 500)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
}

func TestRateLimitStatusValidation(t *testing.T) {
	var calls atomic.Int32
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/ratelimit/status", r.URL.Path)
		assert.Equal(t, "POST", r.URL.Query().Get("httpMethod"))
		writeData(w, domain.RateLimitStatus{RemainingRequests: 9})
	})
	svc := services.NewRateLimitService(api)

	st, err := svc.Status(t.Context(), "/api/v1/order", " post ")
	require.NoError(t, err)
	assert.Equal(t, 9, st.RemainingRequests)

	_, err = svc.Status(t.Context(), "api/v1/order", "GET")
	assert.Equal(t, "Endpoint must be a path starting with /", errx.MessageOf(err))
	_, err = svc.Status(t.Context(), "/api/v1/order", "TRACE")
	assert.Equal(t, "Unsupported HTTP method", errx.MessageOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestPlatformPageNeedsDashboard(t *testing.T) {
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/Admin/notifications":
			writeData(w, []domain.AdminNotification{{ID: uuid.New(), Title: "New application"}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	view, err := services.NewPlatformService(api).Page(t.Context(), 1)
	require.Error(t, err)
	assert.Nil(t, view.Dashboard)
	assert.Len(t, view.Notifications, 1)
	assert.NotNil(t, view.Applications.Items)
}
