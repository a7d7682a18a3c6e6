package services_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/services"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &services.AuthService{Now: func() time.Time { return now }}

	assert.False(t, svc.TokenExpired(signed(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(time.Hour).Unix()})))
	assert.True(t, svc.TokenExpired(signed(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(-time.Minute).Unix()})))
	assert.False(t, svc.TokenExpired(signed(t, jwt.MapClaims{"sub": "u1"})))
	assert.True(t, svc.TokenExpired(""))
	assert.True(t, svc.TokenExpired("not.a.jwt"))
}

func TestLoginMapsRejectionsToBadCreds(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"envelope": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"isSuccess": false, "error": "Invalid credentials"})
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
		"bad request":  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) },
		"no token": func(w http.ResponseWriter, r *http.Request) {
			writeData(w, domain.LoginResponse{Email: "a@b.co"})
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			svc := services.NewAuthService(backend(t, h))
			_, err := svc.Login(t.Context(), "a@b.co", "secret1")
			assert.ErrorIs(t, err, services.ErrBadCreds)
		})
	}
}

func TestLoginServerErrorIsNotBadCreds(t *testing.T) {
	svc := services.NewAuthService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := svc.Login(t.Context(), "a@b.co", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrBadCreds)
}

func TestLoginAndMyMerchantSendBearer(t *testing.T) {
	merchant := uuid.New()
	svc := services.NewAuthService(backend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var req domain.LoginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "owner@shop.tr", req.Email)
			writeData(w, domain.LoginResponse{AccessToken: "tok-1", UserID: uuid.New(), Role: 3, FullName: "Shop Owner"})
		case "/api/v1/merchant/my-merchant":
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			writeData(w, domain.Merchant{ID: merchant})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	resp, err := svc.Login(t.Context(), "owner@shop.tr", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.AccessToken)

	id, err := svc.MyMerchant(apiclient.WithToken(t.Context(), resp.AccessToken))
	require.NoError(t, err)
	assert.Equal(t, merchant, id)

	var sess domain.Session
	services.StartSession(&sess, resp, &id)
	assert.Equal(t, "tok-1", sess.JwtToken)
	assert.Equal(t, "Shop Owner", sess.UserName)
	assert.Equal(t, domain.RoleMerchantOwner, sess.UserRole)
	assert.Equal(t, merchant.String(), sess.MerchantID)
}

func TestStartSessionWithoutMerchant(t *testing.T) {
	sess := domain.Session{MerchantID: "stale"}
	services.StartSession(&sess, &domain.LoginResponse{AccessToken: "t", UserID: uuid.New(), Role: 4}, nil)
	assert.Empty(t, sess.MerchantID)
	assert.True(t, sess.IsAdmin())
}
