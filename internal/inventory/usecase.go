package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

var (
	ErrInsufficientStock = errors.New("insufficient inventory")
	ErrInventoryBusy     = errors.New("inventory is being adjusted, try again later")
)

const (
	MovementInitial    = "initial"
	MovementAdjustment = "adjustment"
	MovementSale       = "sale"
)

type UseCase interface {
	GetProductInventory(ctx context.Context, vendorID, productID string, warehouseID *string) ([]model.Inventory, error)
	ListLowStock(ctx context.Context, vendorID string, warehouseID *string, page, pageSize int) ([]model.Inventory, int, error)
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.Inventory, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// SeedFromProduct records the initial stock entered for each variant of
	// a newly created product. Variants that already have stock records
	// are skipped so redelivered events are harmless.
	SeedFromProduct(ctx context.Context, payload model.ProductEventPayload) error
	RemoveProduct(ctx context.Context, vendorID, productID string) error
}
