package dto

type CategoryFilters struct {
	VendorID        string
	ParentID        *string // Nil means ignore, empty string means root categories
	IsActive        *bool
	IncludeChildren bool
	Page            int
	PageSize        int
}
