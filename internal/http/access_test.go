package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
)

func TestMerchantRouteWithoutSessionRedirectsToLogin(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called, got %s", r.URL.Path)
	})

	resp := p.get(t, "/orders?page=2", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?returnUrl=%2Forders%3Fpage%3D2", resp.Header.Get("Location"))
	assert.Nil(t, cookie(resp, "sid"), "anonymous sessions are not stored")
}

func TestMerchantLookupFailureRedirectsToLogin(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	sid := p.signIn(t, domain.Session{})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.get(t, "/dashboard", sid) })

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	e, found := findLog(logs, "access.denied.merchant")
	require.True(t, found, "expected access.denied.merchant log")
	assert.Equal(t, "warn", e.Level)
	assert.Equal(t, "no_merchant", e.Fields["reason"])
}

func TestMerchantLookedUpOnceAndKeptInSession(t *testing.T) {
	merchant := uuid.New()
	lookups := 0
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/merchant/my-merchant":
			lookups++
			ok(w, domain.Merchant{ID: merchant})
		case r.URL.Path == "/api/v1/merchants/merchantorder":
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
			ok(w, domain.PagedResult[domain.Order]{Items: []domain.Order{}, Page: 1, TotalPages: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	sid := p.signIn(t, domain.Session{})

	for range 2 {
		resp := p.get(t, "/orders", sid)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 1, lookups)
}

func TestAdminRouteForbiddenForMerchantOwner(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called, got %s", r.URL.Path)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.get(t, "/admin/merchants", sid) })

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Access denied")
	e, found := findLog(logs, "access.denied.admin")
	require.True(t, found)
	assert.Equal(t, domain.RoleMerchantOwner, e.Fields["role"])
	assert.NotEmpty(t, e.UserID)
}

func TestExpiredTokenEndsSession(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called, got %s", r.URL.Path)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString(), JwtToken: token(t, -time.Minute)})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.get(t, "/orders", sid) })

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/auth/login?returnUrl="))
	e, found := findLog(logs, "session.invalid")
	require.True(t, found)
	assert.Equal(t, "token_expired", e.Fields["reason"])

	c := cookie(resp, "sid")
	require.NotNil(t, c)
	assert.Empty(t, c.Value)

	stored, err := p.sessions.Load(t.Context(), sid)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated())
}

func TestInvalidRouteIDIsLogged(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called, got %s", r.URL.Path)
	})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.get(t, "/orders/not-a-guid", sid) })

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	e, found := findLog(logs, "validation.fail")
	require.True(t, found)
	assert.Equal(t, "id", e.Fields["field"])
}
