package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID                uuid.UUID           `json:"id"`
	MerchantID        uuid.UUID           `json:"merchantId"`
	ProductCategoryID *uuid.UUID          `json:"productCategoryId"`
	CategoryName      string              `json:"categoryName"`
	Name              string              `json:"name"`
	SKU               string              `json:"sku"`
	Description       string              `json:"description"`
	ImageURL          string              `json:"imageUrl"`
	Price             decimal.Decimal     `json:"price"`
	DiscountedPrice   decimal.NullDecimal `json:"discountedPrice"`
	StockQuantity     int                 `json:"stockQuantity"`
	MinStock          *int                `json:"minStock"`
	MaxStock          *int                `json:"maxStock"`
	Unit              string              `json:"unit"`
	IsAvailable       bool                `json:"isAvailable"`
	IsActive          bool                `json:"isActive"`
	DisplayOrder      int                 `json:"displayOrder"`
	CreatedAt         Time                `json:"createdAt"`
}

// ProductRequest is the create/update body.
type ProductRequest struct {
	ProductCategoryID *uuid.UUID          `json:"productCategoryId"`
	Name              string              `json:"name" validate:"required,max=200"`
	Description       string              `json:"description,omitempty" validate:"max=2000"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	Price             decimal.Decimal     `json:"price"`
	DiscountedPrice   decimal.NullDecimal `json:"discountedPrice"`
	StockQuantity     int                 `json:"stockQuantity" validate:"gte=0"`
	Unit              string              `json:"unit,omitempty" validate:"max=20"`
	IsAvailable       bool                `json:"isAvailable"`
	IsActive          bool                `json:"isActive"`
	DisplayOrder      int                 `json:"displayOrder" validate:"gte=0"`
}

type ProductCategory struct {
	ID                 uuid.UUID  `json:"id"`
	MerchantID         *uuid.UUID `json:"merchantId"`
	ParentCategoryID   *uuid.UUID `json:"parentCategoryId"`
	ParentCategoryName string     `json:"parentCategoryName"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	ImageURL           string     `json:"imageUrl"`
	DisplayOrder       int        `json:"displayOrder"`
	IsActive           bool       `json:"isActive"`
	ProductCount       int        `json:"productCount"`
	CreatedAt          Time       `json:"createdAt"`
}

type CategoryRequest struct {
	ParentCategoryID *uuid.UUID `json:"parentCategoryId"`
	Name             string     `json:"name" validate:"required,max=100"`
	Description      string     `json:"description,omitempty" validate:"max=500"`
	ImageURL         string     `json:"imageUrl,omitempty"`
	DisplayOrder     int        `json:"displayOrder" validate:"gte=0"`
	IsActive         bool       `json:"isActive"`
}

type CategoryTreeNode struct {
	Category ProductCategory
	Children []*CategoryTreeNode
	Level    int
}

type FileUploadResponse struct {
	FileName    string `json:"fileName"`
	BlobURL     string `json:"blobUrl"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type ProductListView struct {
	Products   PagedResult[Product]
	Categories []ProductCategory
	Query      string
	CategoryID string
}
