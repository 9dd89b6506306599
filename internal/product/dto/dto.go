package dto

type ProductFilters struct {
	VendorID    string
	CategoryID  string
	SchoolID    string
	IsActive    *bool
	SearchQuery string // For title, sku search
	SortBy      string // title, price, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
