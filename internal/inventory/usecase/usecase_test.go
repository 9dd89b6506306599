package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	items     map[string]model.Inventory
	movements []model.InventoryMovement
	failWrite error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]model.Inventory{}}
}

func key(vendorID, variantID string, warehouseID *string) string {
	return lockKey(vendorID, variantID, warehouseID)
}

func (r *fakeRepo) GetByVariant(ctx context.Context, vendorID, variantID string, warehouseID *string) (*model.Inventory, error) {
	inv, ok := r.items[key(vendorID, variantID, warehouseID)]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *fakeRepo) ListByProduct(ctx context.Context, vendorID, productID string, warehouseID *string) ([]model.Inventory, error) {
	out := []model.Inventory{}
	for _, inv := range r.items {
		if inv.VendorID == vendorID && inv.ProductID == productID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) AdjustStockWithMovement(ctx context.Context, inv *model.Inventory, m *model.InventoryMovement) error {
	if r.failWrite != nil {
		return r.failWrite
	}
	r.items[key(inv.VendorID, inv.VariantID, inv.WarehouseID)] = *inv
	r.movements = append(r.movements, *m)
	return nil
}

func (r *fakeRepo) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return r.movements, len(r.movements), nil
}

func (r *fakeRepo) DeleteByProduct(ctx context.Context, vendorID, productID string) error {
	for k, inv := range r.items {
		if inv.VendorID == vendorID && inv.ProductID == productID {
			delete(r.items, k)
		}
	}
	return nil
}

type fakeLocker struct {
	held     map[string]string
	attempts int
	released int
}

func (l *fakeLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.attempts++
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, key, value string) error {
	if l.held[key] == value {
		delete(l.held, key)
		l.released++
	}
	return nil
}

func newUseCase() (*inventoryUseCase, *fakeRepo, *fakeLocker) {
	repo := newFakeRepo()
	locker := &fakeLocker{held: map[string]string{}}
	uc := NewInventoryUseCase(repo, locker, time.Second, logger.NewNop()).(*inventoryUseCase)
	return uc, repo, locker
}

func TestAdjustInventory(t *testing.T) {
	uc, repo, locker := newUseCase()
	ctx := context.Background()

	inv, err := uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		VendorID: "v1", ProductID: "p1", VariantID: "var1", SKU: "BAG-RED", QuantityChange: 10, UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, inv.Quantity)
	assert.Equal(t, 10, inv.AvailableQuantity)

	inv, err = uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		VendorID: "v1", ProductID: "p1", VariantID: "var1", QuantityChange: -4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, inv.Quantity)
	assert.Equal(t, "BAG-RED", inv.SKU)

	require.Len(t, repo.movements, 2)
	assert.Equal(t, inventory.MovementAdjustment, repo.movements[1].MovementType)
	assert.Equal(t, 10, repo.movements[1].QuantityBefore)
	assert.Equal(t, 6, repo.movements[1].QuantityAfter)
	assert.Equal(t, "u1", *repo.movements[0].CreatedBy)
	assert.Empty(t, locker.held)
	assert.Equal(t, 2, locker.released)
}

func TestAdjustInventoryInsufficientStock(t *testing.T) {
	uc, repo, locker := newUseCase()

	_, err := uc.AdjustInventory(context.Background(), &dto.AdjustInventoryInput{
		VendorID: "v1", ProductID: "p1", VariantID: "var1", QuantityChange: -1,
	})
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Empty(t, repo.movements)
	assert.Empty(t, locker.held)
}

func TestAdjustInventoryBusy(t *testing.T) {
	uc, _, locker := newUseCase()
	locker.held[lockKey("v1", "var1", nil)] = "someone-else"

	_, err := uc.AdjustInventory(context.Background(), &dto.AdjustInventoryInput{
		VendorID: "v1", ProductID: "p1", VariantID: "var1", QuantityChange: 1,
	})
	assert.ErrorIs(t, err, inventory.ErrInventoryBusy)
	assert.Equal(t, lockAttempts, locker.attempts)
}

func TestSeedFromProduct(t *testing.T) {
	uc, repo, _ := newUseCase()
	wh := "wh-1"
	payload := model.ProductEventPayload{
		ProductID:   "p1",
		VendorID:    "v1",
		WarehouseID: &wh,
		Variants: []model.VariantStockPayload{
			{VariantID: "var1", SKU: "BAG-RED", Stock: 5},
			{VariantID: "var2", SKU: "BAG-BLUE", Stock: 0},
		},
	}

	require.NoError(t, uc.SeedFromProduct(context.Background(), payload))
	require.Len(t, repo.movements, 1)
	assert.Equal(t, inventory.MovementInitial, repo.movements[0].MovementType)
	assert.Nil(t, repo.movements[0].CreatedBy)

	inv, err := repo.GetByVariant(context.Background(), "v1", "var1", &wh)
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Quantity)

	// Redelivery leaves stock unchanged.
	require.NoError(t, uc.SeedFromProduct(context.Background(), payload))
	assert.Len(t, repo.movements, 1)
}

func TestSeedFromProductCollectsErrors(t *testing.T) {
	uc, repo, _ := newUseCase()
	repo.failWrite = errors.New("db down")

	err := uc.SeedFromProduct(context.Background(), model.ProductEventPayload{
		ProductID: "p1",
		VendorID:  "v1",
		Variants: []model.VariantStockPayload{
			{VariantID: "var1", Stock: 1},
			{VariantID: "var2", Stock: 2},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "var1")
	assert.Contains(t, err.Error(), "var2")
}

func TestRemoveProduct(t *testing.T) {
	uc, repo, _ := newUseCase()
	_, err := uc.AdjustInventory(context.Background(), &dto.AdjustInventoryInput{
		VendorID: "v1", ProductID: "p1", VariantID: "var1", QuantityChange: 3,
	})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveProduct(context.Background(), "v1", "p1"))
	assert.Empty(t, repo.items)
	assert.Len(t, repo.movements, 1)
}
