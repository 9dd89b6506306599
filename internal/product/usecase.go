package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrSKUTaken           = errors.New("sku already exists")
	ErrVariantSKURequired = errors.New("variant sku is empty")
)

// SKUError names the sku that is already in use.
type SKUError struct {
	SKU string
}

func (e *SKUError) Error() string { return ErrSKUTaken.Error() + ": " + e.SKU }

func (e *SKUError) Unwrap() error { return ErrSKUTaken }

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, vendorID, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SetProductActive(ctx context.Context, vendorID, id string, active bool) (*model.Product, error)
	DeleteProduct(ctx context.Context, vendorID, id string) error
}
