package dto

import "time"

type InventoryFilters struct {
	VendorID    string
	WarehouseID *string // Nil ignores the warehouse, empty string means the vendor's own stock
	ProductID   string
	LowStock    bool // If true, filter by available_quantity <= reorder_point
	Page        int
	PageSize    int
}

type MovementFilters struct {
	VendorID     string     `json:"-"`
	ProductID    string     `json:"productId"`
	VariantID    string     `json:"variantId"`
	WarehouseID  *string    `json:"warehouseId"`
	MovementType string     `json:"movementType" validate:"omitempty,oneof=initial adjustment sale"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	Page         int        `json:"page" validate:"min=0"`
	PageSize     int        `json:"pageSize" validate:"min=0,max=100"`
}
