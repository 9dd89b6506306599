package dto

type CreateCategoryInput struct {
	VendorID      string   `json:"-"`
	ParentID      *string  `json:"parentId"`
	Name          string   `json:"name" validate:"required,max=100"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl" validate:"omitempty,url"`
	AttributeKeys []string `json:"attributeKeys" validate:"max=30,dive,required,max=40"`
	SortOrder     int      `json:"sortOrder"`
}

type UpdateCategoryInput struct {
	ID            string   `json:"id" validate:"required"`
	VendorID      string   `json:"-"`
	ParentID      *string  `json:"parentId"` // Nil or empty makes it a root category
	Name          string   `json:"name" validate:"required,max=100"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl" validate:"omitempty,url"`
	AttributeKeys []string `json:"attributeKeys" validate:"max=30,dive,required,max=40"`
	SortOrder     int      `json:"sortOrder"`
	IsActive      bool     `json:"isActive"`
}
