package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DiscountAmount     = "Amount"
	DiscountPercentage = "Percentage"
)

type Coupon struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	StartDate     Time            `json:"startDate"`
	EndDate       Time            `json:"endDate"`
	UsageLimit    int             `json:"usageLimit"`
	UsedCount     int             `json:"usedCount"`
	IsActive      bool            `json:"isActive"`
}

// Exhausted reports whether a limited coupon has been used up. A zero limit is unlimited.
func (c Coupon) Exhausted() bool { return c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit }

type CouponRequest struct {
	Code          string          `json:"code"`
	Description   string          `json:"description,omitempty"`
	DiscountType  string          `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	StartDate     Time            `json:"startDate"`
	EndDate       Time            `json:"endDate"`
	UsageLimit    int             `json:"usageLimit"`
	IsActive      bool            `json:"isActive"`
}

// CouponForm is the raw create form.
type CouponForm struct {
	Code          string `validate:"required,max=50"`
	Description   string `validate:"max=500"`
	DiscountType  string `validate:"required,oneof=Amount Percentage"`
	DiscountValue string
	StartDate     string
	EndDate       string
	UsageLimit    string
	IsActive      bool
}

type CouponValidationRequest struct {
	Code        string              `json:"code"`
	OrderAmount decimal.NullDecimal `json:"orderAmount"`
}

type CouponValidation struct {
	IsValid        bool                `json:"isValid"`
	Reason         string              `json:"reason"`
	DiscountAmount decimal.NullDecimal `json:"discountAmount"`
	DiscountType   string              `json:"discountType"`
}

type CouponsView struct {
	Coupons PagedResult[Coupon]
	Form    CouponForm
}
