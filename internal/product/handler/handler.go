package handler

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.catalog.v1.ProductService"

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Unary("CreateProduct", h.CreateProduct),
		rpc.Unary("GetProduct", h.GetProduct),
		rpc.Unary("ListProducts", h.ListProducts),
		rpc.Unary("SetProductActive", h.SetProductActive),
		rpc.Unary("DeleteProduct", h.DeleteProduct),
	)
}

// CreateProductRequest accepts the submission contract directly, for
// callers that build products without a draft.
type CreateProductRequest struct {
	dto.CreateProductInput
}

type GetProductRequest struct {
	ID string `json:"id" validate:"required"`
}

type ListProductsRequest struct {
	CategoryID string `json:"categoryId"`
	SchoolID   string `json:"schoolId"`
	IsActive   *bool  `json:"isActive"`
	Search     string `json:"search" validate:"max=100"`
	SortBy     string `json:"sortBy" validate:"omitempty,oneof=title price created_at"`
	SortOrder  string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int    `json:"page" validate:"min=0"`
	PageSize   int    `json:"pageSize" validate:"min=0,max=100"`
}

type SetProductActiveRequest struct {
	ID       string `json:"id" validate:"required"`
	IsActive bool   `json:"isActive"`
}

type ProductResponse struct {
	Product *model.Product `json:"product"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

type Empty struct{}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}

	input := req.CreateProductInput
	input.VendorID = vendorID
	p, err := h.uc.CreateProduct(ctx, &input)
	if err != nil {
		h.logger.Error("failed to create product", zap.Error(err))
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.GetProduct(ctx, vendorID, req.ID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}

	filters := &dto.ProductFilters{
		VendorID:    vendorID,
		CategoryID:  req.CategoryID,
		SchoolID:    req.SchoolID,
		IsActive:    req.IsActive,
		SearchQuery: req.Search,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}

	products, count, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return &ListProductsResponse{
		Products: products,
		Total:    count,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (h *ProductHandler) SetProductActive(ctx context.Context, req *SetProductActiveRequest) (*ProductResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.SetProductActive(ctx, vendorID, req.ID, req.IsActive)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *GetProductRequest) (*Empty, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.DeleteProduct(ctx, vendorID, req.ID); err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &Empty{}, nil
}
