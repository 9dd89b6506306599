package inventory

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	GetByVariant(ctx context.Context, vendorID, variantID string, warehouseID *string) (*model.Inventory, error)
	ListByProduct(ctx context.Context, vendorID, productID string, warehouseID *string) ([]model.Inventory, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)

	// AdjustStockWithMovement upserts inv and logs movement in one transaction.
	AdjustStockWithMovement(ctx context.Context, inv *model.Inventory, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	DeleteByProduct(ctx context.Context, vendorID, productID string) error
}
