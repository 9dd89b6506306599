package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	parentID := normalizeParent(input.ParentID)
	if parentID != nil {
		if _, err := uc.findOwned(ctx, input.VendorID, *parentID); err != nil {
			return nil, category.ErrParentNotFound
		}
	}

	keys, err := encodeKeys(input.AttributeKeys)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		VendorID:      input.VendorID,
		ParentID:      parentID,
		Name:          strings.TrimSpace(input.Name),
		Description:   optional(input.Description),
		ImageURL:      optional(input.ImageURL),
		AttributeKeys: keys,
		SortOrder:     input.SortOrder,
		IsActive:      true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, vendorID, id string) (*model.Category, error) {
	return uc.findOwned(ctx, vendorID, id)
}

func (uc *categoryUseCase) findOwned(ctx context.Context, vendorID, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil || cat.VendorID != vendorID {
		return nil, category.ErrCategoryNotFound
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if filters.IncludeChildren {
		categories = BuildTree(categories)
	}
	return categories, count, nil
}

// BuildTree nests categories under their parents. Categories whose parent
// is not in the list stay at the top level. Order within a level follows
// the input order.
func BuildTree(flat []model.Category) []model.Category {
	index := make(map[string]int, len(flat))
	for i, c := range flat {
		index[c.ID] = i
	}

	children := make(map[string][]string)
	var roots []string
	for _, c := range flat {
		if c.ParentID != nil {
			if _, ok := index[*c.ParentID]; ok && *c.ParentID != c.ID {
				children[*c.ParentID] = append(children[*c.ParentID], c.ID)
				continue
			}
		}
		roots = append(roots, c.ID)
	}

	visited := make(map[string]bool, len(flat))
	var build func(id string) model.Category
	build = func(id string) model.Category {
		visited[id] = true
		c := flat[index[id]]
		c.Children = nil
		for _, child := range children[id] {
			if !visited[child] {
				c.Children = append(c.Children, build(child))
			}
		}
		return c
	}

	tree := make([]model.Category, 0, len(roots))
	for _, id := range roots {
		tree = append(tree, build(id))
	}
	return tree
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	cat, err := uc.findOwned(ctx, input.VendorID, input.ID)
	if err != nil {
		return nil, err
	}

	parentID := normalizeParent(input.ParentID)
	if parentID != nil {
		if err := uc.checkAncestry(ctx, input.VendorID, cat.ID, *parentID); err != nil {
			return nil, err
		}
	}

	keys, err := encodeKeys(input.AttributeKeys)
	if err != nil {
		return nil, err
	}

	cat.Name = strings.TrimSpace(input.Name)
	cat.Description = optional(input.Description)
	cat.ImageURL = optional(input.ImageURL)
	cat.AttributeKeys = keys
	cat.SortOrder = input.SortOrder
	cat.IsActive = input.IsActive
	cat.ParentID = parentID
	cat.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// checkAncestry walks up from parentID and fails when it reaches id.
func (uc *categoryUseCase) checkAncestry(ctx context.Context, vendorID, id, parentID string) error {
	seen := map[string]bool{}
	for cur := parentID; cur != ""; {
		if cur == id {
			return category.ErrCategoryCycle
		}
		if seen[cur] {
			uc.logger.Warn("category ancestry already contains a cycle", zap.String("category_id", cur))
			return category.ErrCategoryCycle
		}
		seen[cur] = true

		c, err := uc.findOwned(ctx, vendorID, cur)
		if err != nil {
			return category.ErrParentNotFound
		}
		if c.ParentID == nil {
			return nil
		}
		cur = *c.ParentID
	}
	return nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, vendorID, id string) error {
	if _, err := uc.findOwned(ctx, vendorID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, vendorID, id)
}

func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	p := *parentID
	return &p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encodeKeys(keys []string) (types.JSONText, error) {
	cleaned := make([]string, 0, len(keys))
	seen := map[string]bool{}
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		cleaned = append(cleaned, k)
	}
	b, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	return types.JSONText(b), nil
}
