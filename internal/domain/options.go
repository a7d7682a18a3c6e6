package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Option groups hang off a product; each groups its selectable options.

type OptionGroup struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"productId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"displayOrder"`
	IsRequired   bool      `json:"isRequired"`
}

type OptionGroupRequest struct {
	ProductID    uuid.UUID `json:"productId"`
	Name         string    `json:"name" validate:"required,max=100"`
	Description  string    `json:"description,omitempty" validate:"max=500"`
	DisplayOrder int       `json:"displayOrder" validate:"gte=0"`
	IsRequired   bool      `json:"isRequired"`
}

type ProductOption struct {
	ID                   uuid.UUID           `json:"id"`
	ProductOptionGroupID uuid.UUID           `json:"productOptionGroupId"`
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	ExtraPrice           decimal.NullDecimal `json:"extraPrice"`
	DisplayOrder         int                 `json:"displayOrder"`
	IsActive             bool                `json:"isActive"`
}

type ProductOptionRequest struct {
	ProductOptionGroupID uuid.UUID           `json:"productOptionGroupId"`
	Name                 string              `json:"name" validate:"required,max=100"`
	Description          string              `json:"description,omitempty" validate:"max=500"`
	ExtraPrice           decimal.NullDecimal `json:"extraPrice"`
	DisplayOrder         int                 `json:"displayOrder" validate:"gte=0"`
	IsActive             bool                `json:"isActive"`
}

// OptionGroupView is a group with its options loaded.
type OptionGroupView struct {
	Group   OptionGroup
	Options []ProductOption
}

type ProductOptionsView struct {
	ProductID uuid.UUID
	Groups    []OptionGroupView
}

// Variants

type ProductVariant struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"productId"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
}

type VariantRequest struct {
	ProductID     uuid.UUID       `json:"productId"`
	Name          string          `json:"name" validate:"required,max=100"`
	SKU           string          `json:"sku,omitempty" validate:"max=50"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	IsActive      bool            `json:"isActive"`
}

type VariantStockUpdate struct {
	ID               uuid.UUID `json:"id"`
	NewStockQuantity int       `json:"newStockQuantity"`
}

type VariantsView struct {
	ProductID uuid.UUID
	Variants  PagedResult[ProductVariant]
}
