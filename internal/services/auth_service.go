package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	API *apiclient.Client
	Now func() time.Time
}

func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{API: api, Now: time.Now}
}

// Login exchanges credentials for a backend token. Backend rejections collapse into ErrBadCreds;
// transport failures are returned as-is.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResponse, error) {
	resp, err := apiclient.Post[domain.LoginResponse](ctx, s.API, "api/v1/auth/login",
		domain.LoginRequest{Email: email, Password: password})
	if err != nil {
		var ee *apiclient.EnvelopeError
		if errors.As(err, &ee) || apiclient.IsUnauthorized(err) || isClientError(err) {
			return nil, ErrBadCreds
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrBadCreds
	}
	return &resp, nil
}

// MyMerchant looks up the merchant owned by the token's user.
func (s *AuthService) MyMerchant(ctx context.Context) (uuid.UUID, error) {
	m, err := apiclient.Get[domain.Merchant](ctx, s.API, "api/v1/merchant/my-merchant")
	if err != nil {
		return uuid.Nil, err
	}
	if m.ID == uuid.Nil {
		return uuid.Nil, errors.New("my-merchant returned no id")
	}
	return m.ID, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, current, next string) error {
	return s.API.Exec(ctx, "POST", "api/v1/auth/change-password",
		domain.ChangePasswordRequest{CurrentPassword: current, NewPassword: next})
}

// StartSession copies a login result into sess. merchant overrides the response's merchant id
// when the caller had to look it up separately.
func StartSession(sess *domain.Session, resp *domain.LoginResponse, merchant *uuid.UUID) {
	sess.JwtToken = resp.AccessToken
	sess.UserID = resp.UserID.String()
	sess.UserName = resp.FullName
	sess.UserEmail = resp.Email
	sess.UserRole = domain.RoleName(resp.Role)
	switch {
	case merchant != nil:
		sess.MerchantID = merchant.String()
	case resp.MerchantID != nil:
		sess.MerchantID = resp.MerchantID.String()
	default:
		sess.MerchantID = ""
	}
}

// TokenExpired reports whether the JWT's exp claim has passed. The signature is not
// checked; the portal never holds the key and the backend verifies every call anyway.
// Tokens without exp never expire here. Unparseable tokens count as expired.
func (s *AuthService) TokenExpired(token string) bool {
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return !now().Before(exp.Time)
}

func isClientError(err error) bool {
	var se *apiclient.StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500 && !apiclient.IsTransient(se.StatusCode)
}
