package dto

type AdjustInventoryInput struct {
	VendorID       string  `json:"-"`
	WarehouseID    *string `json:"warehouseId"`
	ProductID      string  `json:"productId" validate:"required"`
	VariantID      string  `json:"variantId" validate:"required"`
	SKU            string  `json:"sku"`
	QuantityChange int     `json:"quantityChange" validate:"ne=0"`
	MovementType   string  `json:"movementType" validate:"omitempty,oneof=initial adjustment sale"`
	Reason         string  `json:"reason" validate:"max=255"`
	ReferenceID    string  `json:"referenceId"`
	ReferenceType  string  `json:"referenceType"` // 'manual_adjustment', 'sale', 'product'
	UserID         string  `json:"-"`
}
