package services_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
	"merchantportal/internal/services"
)

func TestReorderGroupsSendsOrder(t *testing.T) {
	product, a, b := uuid.New(), uuid.New(), uuid.New()
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/productoption/groups/"+product.String()+"/reorder", r.URL.Path)
		var ids []uuid.UUID
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		assert.Equal(t, []uuid.UUID{b, a}, ids)
		writeData(w, true)
	})
	require.NoError(t, services.NewOptionService(api).ReorderGroups(t.Context(), product, []uuid.UUID{b, a}))
}

func TestReorderGroupsRejectsBadOrder(t *testing.T) {
	calls := 0
	svc := services.NewOptionService(backend(t, func(w http.ResponseWriter, r *http.Request) { calls++ }))
	a := uuid.New()

	assert.Equal(t, "Nothing to reorder", errx.MessageOf(svc.ReorderGroups(t.Context(), uuid.New(), nil)))
	assert.Equal(t, "Each option group may appear only once",
		errx.MessageOf(svc.ReorderGroups(t.Context(), uuid.New(), []uuid.UUID{a, a})))
	assert.Equal(t, "Invalid option group",
		errx.MessageOf(svc.ReorderGroups(t.Context(), uuid.New(), []uuid.UUID{a, uuid.Nil})))
	assert.Zero(t, calls)
}

func TestCreateOptionRejectsNegativePrice(t *testing.T) {
	svc := services.NewOptionService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	}))
	_, err := svc.CreateOption(t.Context(), domain.ProductOptionRequest{
		ProductOptionGroupID: uuid.New(),
		Name:                 "Extra cheese",
		ExtraPrice:           decimal.NewNullDecimal(decimal.NewFromInt(-2)),
	})
	assert.Equal(t, "Extra price cannot be negative", errx.MessageOf(err))
}

func TestOptionsPageShowsFailedGroupEmpty(t *testing.T) {
	product := uuid.New()
	good, broken := uuid.New(), uuid.New()
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/productoption/groups/"+product.String():
			writeData(w, domain.PagedResult[domain.OptionGroup]{Items: []domain.OptionGroup{
				{ID: good, Name: "Size"}, {ID: broken, Name: "Sauce"},
			}})
		case strings.Contains(r.URL.Path, good.String()):
			writeData(w, domain.PagedResult[domain.ProductOption]{Items: []domain.ProductOption{{ID: uuid.New(), Name: "Large"}}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	view, err := services.NewOptionService(api).Page(t.Context(), product)
	require.NoError(t, err)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "Size", view.Groups[0].Group.Name)
	assert.Len(t, view.Groups[0].Options, 1)
	assert.NotNil(t, view.Groups[1].Options)
	assert.Empty(t, view.Groups[1].Options)
}

func TestVariantUpdateStockSendsBareQuantity(t *testing.T) {
	id := uuid.New()
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/marketproductvariant/"+id.String()+"/stock", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "7", strings.TrimSpace(string(b)))
		writeData(w, true)
	})
	svc := services.NewVariantService(api)
	require.NoError(t, svc.UpdateStock(t.Context(), id, 7))

	err := svc.UpdateStock(t.Context(), id, -1)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
	err = svc.UpdateStock(t.Context(), id, 1_000_001)
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(err))
}

func TestVariantBulkUpdateStock(t *testing.T) {
	calls := 0
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/api/v1/marketproductvariant/stock/bulk", r.URL.Path)
		var got []domain.VariantStockUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Len(t, got, 2)
		writeData(w, true)
	})
	svc := services.NewVariantService(api)

	require.NoError(t, svc.BulkUpdateStock(t.Context(), []domain.VariantStockUpdate{
		{ID: uuid.New(), NewStockQuantity: 3},
		{ID: uuid.New(), NewStockQuantity: 0},
	}))
	assert.Error(t, svc.BulkUpdateStock(t.Context(), nil))
	assert.Error(t, svc.BulkUpdateStock(t.Context(), make([]domain.VariantStockUpdate, 501)))
	assert.Error(t, svc.BulkUpdateStock(t.Context(), []domain.VariantStockUpdate{{ID: uuid.Nil, NewStockQuantity: 1}}))
	assert.Error(t, svc.BulkUpdateStock(t.Context(), []domain.VariantStockUpdate{{ID: uuid.New(), NewStockQuantity: -4}}))
	assert.Equal(t, 1, calls)
}

func TestCreateVariantNeedsPositivePrice(t *testing.T) {
	svc := services.NewVariantService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	}))
	_, err := svc.Create(t.Context(), domain.VariantRequest{ProductID: uuid.New(), Name: "500 g", Price: decimal.Zero})
	assert.Equal(t, "Price must be greater than zero", errx.MessageOf(err))
}

func TestParseApproved(t *testing.T) {
	if v := services.ParseApproved("true"); assert.NotNil(t, v) {
		assert.True(t, *v)
	}
	if v := services.ParseApproved(" false "); assert.NotNil(t, v) {
		assert.False(t, *v)
	}
	assert.Nil(t, services.ParseApproved(""))
	assert.Nil(t, services.ParseApproved("all"))
}

func TestProductReviewQuery(t *testing.T) {
	yes := true
	assert.Equal(t, "", services.ProductReviewQuery(domain.ProductReviewFilter{Page: 3}))
	assert.Equal(t, "approved=true&rating=4", services.ProductReviewQuery(domain.ProductReviewFilter{Rating: 4, Approved: &yes, Page: 2}))
}

func TestProductReviewRejectNeedsReason(t *testing.T) {
	svc := services.NewProductReviewService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	}))
	assert.Equal(t, "A rejection reason is required", errx.MessageOf(svc.Reject(t.Context(), uuid.New(), "   ")))
	assert.Equal(t, http.StatusBadRequest, errx.StatusOf(svc.Respond(t.Context(), uuid.New(), strings.Repeat("a", 1001))))
}

func TestMergeCourierStats(t *testing.T) {
	merchant := uuid.New()
	assert.Nil(t, services.MergeCourierStats(merchant, nil))
	assert.Nil(t, services.MergeCourierStats(merchant, []*domain.ReviewStats{nil, {TotalReviews: 0}}))

	got := services.MergeCourierStats(merchant, []*domain.ReviewStats{
		{TotalReviews: 3, AverageRating: 5, RatingDistribution: map[string]int{"5": 3}},
		nil,
		{TotalReviews: 1, AverageRating: 1, RatingDistribution: map[string]int{"1": 1}},
	})
	require.NotNil(t, got)
	assert.Equal(t, merchant, got.EntityID)
	assert.Equal(t, "Courier", got.EntityType)
	assert.Equal(t, 4, got.TotalReviews)
	assert.InDelta(t, 4.0, got.AverageRating, 1e-9)
	assert.Equal(t, map[string]int{"5": 3, "1": 1}, got.RatingDistribution)
}

func TestCourierReviewsNewestFirstSkippingFailures(t *testing.T) {
	merchant := uuid.New()
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()
	day := func(d int) domain.Time { return domain.NewTime(time.Date(2026, 5, d, 12, 0, 0, 0, time.UTC)) }
	api := backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courier/merchant/" + merchant.String():
			writeData(w, []domain.Courier{{ID: c1}, {ID: c2}, {ID: c3}})
		case "/api/v1/review/entity/" + c1.String() + "/Courier":
			assert.Equal(t, "4", r.URL.Query().Get("rating"))
			writeData(w, domain.PagedResult[domain.Review]{Items: []domain.Review{
				{Comment: "old", CreatedAt: day(1)}, {Comment: "newest", CreatedAt: day(9)},
			}})
		case "/api/v1/review/entity/" + c2.String() + "/Courier":
			writeData(w, domain.PagedResult[domain.Review]{Items: []domain.Review{{Comment: "middle", CreatedAt: day(5)}}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	got, err := services.NewReviewService(api).CourierReviews(t.Context(), merchant, domain.ReviewFilter{Rating: 4})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"newest", "middle", "old"}, []string{got[0].Comment, got[1].Comment, got[2].Comment})
}
