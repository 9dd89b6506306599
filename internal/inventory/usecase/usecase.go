package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts   = 3
	lockRetryDelay = 100 * time.Millisecond
)

type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type inventoryUseCase struct {
	repo    inventory.Repository
	locker  Locker
	lockTTL time.Duration
	logger  logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, locker Locker, lockTTL time.Duration, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		locker:  locker,
		lockTTL: lockTTL,
		logger:  log,
	}
}

func (uc *inventoryUseCase) GetProductInventory(ctx context.Context, vendorID, productID string, warehouseID *string) ([]model.Inventory, error) {
	return uc.repo.ListByProduct(ctx, vendorID, productID, warehouseID)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, vendorID string, warehouseID *string, page, pageSize int) ([]model.Inventory, int, error) {
	return uc.repo.FindAll(ctx, &dto.InventoryFilters{
		VendorID:    vendorID,
		WarehouseID: warehouseID,
		LowStock:    true,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func lockKey(vendorID, variantID string, warehouseID *string) string {
	key := fmt.Sprintf("lock:inventory:%s:%s", vendorID, variantID)
	if warehouseID != nil && *warehouseID != "" {
		key += ":" + *warehouseID
	}
	return key
}

func (uc *inventoryUseCase) withLock(ctx context.Context, key string, fn func() error) error {
	value := uuid.New().String()
	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, uc.lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		if i < lockAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(lockRetryDelay):
			}
		}
	}
	if !acquired {
		return inventory.ErrInventoryBusy
	}

	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
			uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}

func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.Inventory, error) {
	var result *model.Inventory
	err := uc.withLock(ctx, lockKey(input.VendorID, input.VariantID, input.WarehouseID), func() error {
		inv, err := uc.adjust(ctx, input)
		result = inv
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// adjust must run under the variant's lock.
func (uc *inventoryUseCase) adjust(ctx context.Context, input *dto.AdjustInventoryInput) (*model.Inventory, error) {
	inv, err := uc.repo.GetByVariant(ctx, input.VendorID, input.VariantID, input.WarehouseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if inv == nil {
		inv = &model.Inventory{
			ID:          uuid.New().String(),
			VendorID:    input.VendorID,
			WarehouseID: input.WarehouseID,
			ProductID:   input.ProductID,
			VariantID:   input.VariantID,
			SKU:         input.SKU,
		}
	}

	quantityBefore := inv.Quantity
	if quantityBefore+input.QuantityChange < 0 {
		return nil, inventory.ErrInsufficientStock
	}
	inv.Quantity += input.QuantityChange
	inv.AvailableQuantity = inv.Quantity - inv.ReservedQuantity
	inv.UpdatedAt = now

	movementType := input.MovementType
	if movementType == "" {
		movementType = inventory.MovementAdjustment
	}

	var createdBy *string
	if input.UserID != "" && input.UserID != "system" {
		createdBy = &input.UserID
	}

	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		VendorID:       input.VendorID,
		WarehouseID:    input.WarehouseID,
		ProductID:      inv.ProductID,
		VariantID:      input.VariantID,
		MovementType:   movementType,
		QuantityChange: input.QuantityChange,
		QuantityBefore: quantityBefore,
		QuantityAfter:  inv.Quantity,
		ReferenceType:  optional(input.ReferenceType),
		ReferenceID:    optional(input.ReferenceID),
		Notes:          input.Reason,
		CreatedBy:      createdBy,
		CreatedAt:      now,
	}

	if err := uc.repo.AdjustStockWithMovement(ctx, inv, movement); err != nil {
		return nil, err
	}
	return inv, nil
}

func (uc *inventoryUseCase) SeedFromProduct(ctx context.Context, payload model.ProductEventPayload) error {
	var errs []error
	for _, v := range payload.Variants {
		if v.Stock <= 0 {
			continue
		}
		input := &dto.AdjustInventoryInput{
			VendorID:       payload.VendorID,
			WarehouseID:    payload.WarehouseID,
			ProductID:      payload.ProductID,
			VariantID:      v.VariantID,
			SKU:            v.SKU,
			QuantityChange: v.Stock,
			MovementType:   inventory.MovementInitial,
			Reason:         "Initial stock",
			ReferenceID:    payload.ProductID,
			ReferenceType:  "product",
			UserID:         "system",
		}
		err := uc.withLock(ctx, lockKey(input.VendorID, input.VariantID, input.WarehouseID), func() error {
			existing, err := uc.repo.GetByVariant(ctx, input.VendorID, input.VariantID, input.WarehouseID)
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}
			_, err = uc.adjust(ctx, input)
			return err
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("variant %s: %w", v.VariantID, err))
		}
	}
	return errors.Join(errs...)
}

func (uc *inventoryUseCase) RemoveProduct(ctx context.Context, vendorID, productID string) error {
	return uc.repo.DeleteByProduct(ctx, vendorID, productID)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
