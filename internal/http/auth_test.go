package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/domain"
)

func loginBackend(t *testing.T, resp domain.LoginResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			ok(w, resp)
		case "/api/v1/merchant/my-merchant":
			w.WriteHeader(http.StatusNotFound)
		default:
			ok(w, domain.PagedResult[domain.Order]{Items: []domain.Order{}, Page: 1, TotalPages: 1})
		}
	}
}

func credentials(extra ...string) url.Values {
	v := url.Values{"email": {"owner@shop.tr"}, "password": {"Secret123"}}
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	return v
}

func TestLoginSuccessStartsRotatedSession(t *testing.T) {
	merchant := uuid.New()
	p := newPortal(t, loginBackend(t, domain.LoginResponse{
		AccessToken: token(t, time.Hour),
		UserID:      uuid.New(),
		Role:        3,
		FullName:    "Shop Owner",
		Email:       "owner@shop.tr",
		MerchantID:  &merchant,
	}))

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.postForm(t, "/auth/login", "", credentials()) })

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	e, found := findLog(logs, "auth.login.success")
	require.True(t, found)
	assert.Equal(t, "audit", e.Level)
	assert.Equal(t, "owner@shop.tr", e.Fields["email"])

	c := cookie(resp, "sid")
	require.NotNil(t, c)
	require.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)

	sess, err := p.sessions.Load(t.Context(), c.Value)
	require.NoError(t, err)
	assert.Equal(t, merchant.String(), sess.MerchantID)
	assert.Equal(t, "Shop Owner", sess.UserName)
}

func TestLoginHonoursLocalReturnURL(t *testing.T) {
	merchant := uuid.New()
	p := newPortal(t, loginBackend(t, domain.LoginResponse{AccessToken: token(t, time.Hour), UserID: uuid.New(), Role: 3, MerchantID: &merchant}))

	resp := p.postForm(t, "/auth/login", "", credentials("returnUrl", "/orders?page=2"))
	assert.Equal(t, "/orders?page=2", resp.Header.Get("Location"))

	resp = p.postForm(t, "/auth/login", "", credentials("returnUrl", "https://evil.example/"))
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestAdminWithoutMerchantLandsOnMerchantList(t *testing.T) {
	p := newPortal(t, loginBackend(t, domain.LoginResponse{AccessToken: token(t, time.Hour), UserID: uuid.New(), Role: 4}))

	resp := p.postForm(t, "/auth/login", "", credentials())
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/merchants", resp.Header.Get("Location"))
}

func TestLoginFailureIsLoggedWithoutPassword(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.postForm(t, "/auth/login", "", credentials()) })

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Invalid email or password")
	e, found := findLog(logs, "auth.login.fail")
	require.True(t, found)
	assert.Equal(t, "warn", e.Level)
	assert.Equal(t, "owner@shop.tr", e.Fields["email"])
	for _, l := range logs {
		assert.NotContains(t, l.Fields, "password")
	}
	assert.Nil(t, cookie(resp, "sid"))
}

func TestLoginRejectsMalformedEmailWithoutCallingBackend(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called, got %s", r.URL.Path)
	})

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = p.postForm(t, "/auth/login", "", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	e, found := findLog(logs, "auth.login.fail")
	require.True(t, found)
	assert.Equal(t, "bad_format", e.Fields["reason"])
}

func TestLoginRateLimit(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	for i := range 5 {
		resp := p.postForm(t, "/auth/login", "", credentials())
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.postForm(t, "/auth/login", "", credentials()) })
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	_, found := findLog(logs, "rate.login.hit")
	assert.True(t, found)
}

func TestLogoutDestroysSession(t *testing.T) {
	p := newPortal(t, func(w http.ResponseWriter, r *http.Request) {})
	sid := p.signIn(t, domain.Session{MerchantID: uuid.NewString()})

	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.postForm(t, "/auth/logout", sid, url.Values{}) })

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	_, found := findLog(logs, "auth.logout")
	assert.True(t, found)

	sess, err := p.sessions.Load(t.Context(), sid)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestLoginLogsUnparseableBody(t *testing.T) {
	p := newPortal(t, silentBackend(t))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")
	var resp *http.Response
	logs := captureLogs(t, func() { resp = p.do(t, req, "") })

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	e, found := findLog(logs, "validation.fail")
	require.True(t, found)
	assert.Equal(t, "login", e.Fields["form"])
	_, found = findLog(logs, "auth.login.fail")
	assert.True(t, found)
}
