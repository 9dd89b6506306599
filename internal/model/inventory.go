package model

import "time"

type Inventory struct {
	ID                string     `db:"id" json:"id"`
	VendorID          string     `db:"vendor_id" json:"vendor_id"`
	WarehouseID       *string    `db:"warehouse_id" json:"warehouse_id"`
	ProductID         string     `db:"product_id" json:"product_id"`
	VariantID         string     `db:"variant_id" json:"variant_id"`
	SKU               string     `db:"sku" json:"sku"`
	Quantity          int        `db:"quantity" json:"quantity"`
	ReservedQuantity  int        `db:"reserved_quantity" json:"reserved_quantity"`
	AvailableQuantity int        `db:"available_quantity" json:"available_quantity"` // Generated column
	ReorderPoint      int        `db:"reorder_point" json:"reorder_point"`
	LastCountedAt     *time.Time `db:"last_counted_at" json:"last_counted_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

type InventoryMovement struct {
	ID             string    `db:"id" json:"id"`
	VendorID       string    `db:"vendor_id" json:"vendor_id"`
	WarehouseID    *string   `db:"warehouse_id" json:"warehouse_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	VariantID      string    `db:"variant_id" json:"variant_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
