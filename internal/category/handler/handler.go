package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.catalog.v1.CategoryService"

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Unary("CreateCategory", h.CreateCategory),
		rpc.Unary("GetCategory", h.GetCategory),
		rpc.Unary("ListCategories", h.ListCategories),
		rpc.Unary("UpdateCategory", h.UpdateCategory),
		rpc.Unary("DeleteCategory", h.DeleteCategory),
	)
}

type CategoryIDRequest struct {
	ID string `json:"id" validate:"required"`
}

type ListCategoriesRequest struct {
	ParentID        *string `json:"parentId"`
	ActiveOnly      bool    `json:"activeOnly"`
	IncludeChildren bool    `json:"includeChildren"`
	Page            int     `json:"page" validate:"min=0"`
	PageSize        int     `json:"pageSize" validate:"min=0,max=200"`
}

type Category struct {
	ID            string     `json:"id"`
	ParentID      *string    `json:"parentId"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ImageURL      string     `json:"imageUrl"`
	AttributeKeys []string   `json:"attributeKeys"`
	SortOrder     int        `json:"sortOrder"`
	IsActive      bool       `json:"isActive"`
	Children      []Category `json:"children,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CategoryResponse struct {
	Category Category `json:"category"`
}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}

type Empty struct{}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *dto.CreateCategoryInput) (*CategoryResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	req.VendorID = vendorID

	cat, err := h.uc.CreateCategory(ctx, req)
	if err != nil {
		h.logger.Error("failed to create category", zap.Error(err))
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &CategoryResponse{Category: mapCategory(cat)}, nil
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *CategoryIDRequest) (*CategoryResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := h.uc.GetCategory(ctx, vendorID, req.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &CategoryResponse{Category: mapCategory(cat)}, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}

	filters := &dto.CategoryFilters{
		VendorID:        vendorID,
		ParentID:        req.ParentID,
		IncludeChildren: req.IncludeChildren,
		Page:            req.Page,
		PageSize:        req.PageSize,
	}
	if req.ActiveOnly {
		active := true
		filters.IsActive = &active
	}

	cats, count, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}

	out := make([]Category, len(cats))
	for i := range cats {
		out[i] = mapCategory(&cats[i])
	}
	return &ListCategoriesResponse{Categories: out, Total: count}, nil
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *dto.UpdateCategoryInput) (*CategoryResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	req.VendorID = vendorID

	cat, err := h.uc.UpdateCategory(ctx, req)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &CategoryResponse{Category: mapCategory(cat)}, nil
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *CategoryIDRequest) (*Empty, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.DeleteCategory(ctx, vendorID, req.ID); err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &Empty{}, nil
}

func mapCategory(m *model.Category) Category {
	c := Category{
		ID:            m.ID,
		ParentID:      m.ParentID,
		Name:          m.Name,
		AttributeKeys: category.AttributeKeys(m),
		SortOrder:     m.SortOrder,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if c.AttributeKeys == nil {
		c.AttributeKeys = []string{}
	}
	if m.Description != nil {
		c.Description = *m.Description
	}
	if m.ImageURL != nil {
		c.ImageURL = *m.ImageURL
	}
	for i := range m.Children {
		c.Children = append(c.Children, mapCategory(&m.Children[i]))
	}
	return c
}
