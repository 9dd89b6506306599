package category

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrCategoryCycle    = errors.New("category cannot be its own ancestor")
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, vendorID, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, vendorID, id string) error
}
