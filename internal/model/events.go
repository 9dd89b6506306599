package model

import "time"

const (
	EventProductCreated = "ProductCreated"
	EventProductDeleted = "ProductDeleted"
	EventOrderCreated   = "OrderCreated"
)

// ProductEvent is published on the product topic after a product is
// created or deleted.
type ProductEvent struct {
	EventID   string              `json:"event_id"`
	EventType string              `json:"event_type"`
	Payload   ProductEventPayload `json:"payload"`
	Timestamp time.Time           `json:"timestamp"`
}

type ProductEventPayload struct {
	ProductID   string                `json:"product_id"`
	VendorID    string                `json:"vendor_id"`
	WarehouseID *string               `json:"warehouse_id"`
	Variants    []VariantStockPayload `json:"variants"`
}

type VariantStockPayload struct {
	VariantID string `json:"variant_id"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID          string             `json:"id"`
	VendorID    string             `json:"vendor_id"`
	WarehouseID *string            `json:"warehouse_id"`
	Items       []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}
