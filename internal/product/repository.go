package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

type Repository interface {
	// Create inserts the product with its options and variants in one transaction.
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SetActive(ctx context.Context, vendorID, id string, active bool) error
	Delete(ctx context.Context, vendorID, id string) error

	// FindTakenSKUs returns which of skus are already used by any product
	// or variant, whichever vendor owns it.
	FindTakenSKUs(ctx context.Context, skus []string) ([]string, error)
}
