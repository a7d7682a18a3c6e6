package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer      = "Customer"
	RoleCourier       = "Courier"
	RoleMerchantOwner = "MerchantOwner"
	RoleAdmin         = "Admin"
)

// RoleName maps the backend's numeric role to its name.
func RoleName(role int) string {
	switch role {
	case 1:
		return RoleCustomer
	case 2:
		return RoleCourier
	case 3:
		return RoleMerchantOwner
	case 4:
		return RoleAdmin
	}
	return ""
}

// Session is the per-browser state the portal keeps between requests.
type Session struct {
	ID         string            `json:"-"`
	JwtToken   string            `json:"jwtToken,omitempty"`
	UserID     string            `json:"userId,omitempty"`
	MerchantID string            `json:"merchantId,omitempty"`
	UserName   string            `json:"userName,omitempty"`
	UserEmail  string            `json:"userEmail,omitempty"`
	UserRole   string            `json:"userRole,omitempty"`
	Flash      map[string]string `json:"flash,omitempty"`
	ExpiresAt  time.Time         `json:"expiresAt"`
}

func (s *Session) Authenticated() bool { return s != nil && s.UserID != "" }

func (s *Session) IsAdmin() bool { return s != nil && s.UserRole == RoleAdmin }

// Merchant returns the parsed merchant id. The nil guid counts as absent.
func (s *Session) Merchant() (uuid.UUID, bool) {
	if s == nil || s.MerchantID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s.MerchantID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Clear drops everything except the id.
func (s *Session) Clear() {
	id := s.ID
	*s = Session{ID: id}
}
