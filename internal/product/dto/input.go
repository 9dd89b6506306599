package dto

// CreateProductInput is the product-creation contract a submitted draft is
// serialized into. Field names follow the dashboard's JSON contract.
type CreateProductInput struct {
	VendorID         string            `json:"-"`
	Title            string            `json:"title" validate:"required,max=255"`
	SKU              string            `json:"sku" validate:"required,max=64"`
	City             string            `json:"city" validate:"required"`
	ShortDescription string            `json:"shortDescription"`
	Description      string            `json:"description"`
	Price            float64           `json:"price" validate:"gt=0"`
	CompareAtPrice   *float64          `json:"compareAtPrice"`
	BrandID          string            `json:"brandId,omitempty"`
	CategoryID       string            `json:"categoryId,omitempty"`
	Attributes       map[string]string `json:"attributes"`
	Highlights       []Highlight       `json:"highlights" validate:"max=10,dive"`
	Images           []string          `json:"images" validate:"required,min=1,dive,required"`
	Options          []OptionInput     `json:"options" validate:"max=3,dive"`
	Variants         []VariantInput    `json:"variants" validate:"required,min=1,dive"`
	SchoolID         string            `json:"schoolId,omitempty"`
	WarehouseID      string            `json:"warehouseId,omitempty"`
	Grades           []string          `json:"grades,omitempty"`
}

type Highlight struct {
	Key   string `json:"key" validate:"required,max=15"`
	Value string `json:"value" validate:"max=40"`
}

type OptionInput struct {
	Name       string             `json:"name" validate:"required"`
	Values     []OptionValueInput `json:"values" validate:"required,min=1,dive"`
	Position   int                `json:"position"` // 1-based
	IsRequired bool               `json:"isRequired"`
}

type OptionValueInput struct {
	Value    string  `json:"value" validate:"required"`
	ImageURL *string `json:"imageUrl"`
}

type VariantInput struct {
	SKU            string                 `json:"sku" validate:"required"`
	Price          float64                `json:"price" validate:"gte=0"`
	CompareAtPrice *float64               `json:"compareAtPrice"`
	Stock          int                    `json:"stock" validate:"gte=0"`
	Weight         float64                `json:"weight"`
	Option1        *string                `json:"option1"`
	Option2        *string                `json:"option2"`
	Option3        *string                `json:"option3"`
	Metadata       map[string]interface{} `json:"metadata"`
}
