package model

import "github.com/jmoiron/sqlx/types"

type Product struct {
	BaseModel
	VendorID         string           `db:"vendor_id" json:"vendor_id"`
	CategoryID       *string          `db:"category_id" json:"category_id"` // Nullable
	BrandID          *string          `db:"brand_id" json:"brand_id"`
	SKU              string           `db:"sku" json:"sku"`
	Title            string           `db:"title" json:"title"`
	City             string           `db:"city" json:"city"`
	ShortDescription *string          `db:"short_description" json:"short_description"`
	Description      *string          `db:"description" json:"description"`
	BasePrice        float64          `db:"base_price" json:"base_price"`
	CompareAtPrice   *float64         `db:"compare_at_price" json:"compare_at_price"`
	Highlights       types.JSONText   `db:"highlights" json:"highlights"`
	Attributes       types.JSONText   `db:"attributes" json:"attributes"`
	Images           types.JSONText   `db:"images" json:"images"`
	SchoolID         *string          `db:"school_id" json:"school_id"`
	WarehouseID      *string          `db:"warehouse_id" json:"warehouse_id"`
	Grades           types.JSONText   `db:"grades" json:"grades"`
	IsActive         bool             `db:"is_active" json:"is_active"`
	Options          []ProductOption  `db:"-" json:"options"`
	Variants         []ProductVariant `db:"-" json:"variants"`
}

type ProductOption struct {
	ID         string         `db:"id" json:"id"`
	ProductID  string         `db:"product_id" json:"product_id"`
	Name       string         `db:"name" json:"name"`
	Values     types.JSONText `db:"option_values" json:"values"` // [{value, image_url}]
	Position   int            `db:"position" json:"position"`
	IsRequired bool           `db:"is_required" json:"is_required"`
}

type ProductVariant struct {
	BaseModel
	ProductID      string         `db:"product_id" json:"product_id"`
	SKU            string         `db:"sku" json:"sku"`
	Price          float64        `db:"price" json:"price"`
	CompareAtPrice *float64       `db:"compare_at_price" json:"compare_at_price"`
	Weight         float64        `db:"weight" json:"weight"`
	Option1        *string        `db:"option1" json:"option1"`
	Option2        *string        `db:"option2" json:"option2"`
	Option3        *string        `db:"option3" json:"option3"`
	Position       int            `db:"position" json:"position"`
	Metadata       types.JSONText `db:"metadata" json:"metadata"`
	IsActive       bool           `db:"is_active" json:"is_active"`
}
