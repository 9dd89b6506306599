package handler

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/fekuna/omnipos-catalog-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const ServiceName = "omnipos.catalog.v1.InventoryService"

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Unary("GetProductInventory", h.GetProductInventory),
		rpc.Unary("ListLowStock", h.ListLowStock),
		rpc.Unary("AdjustInventory", h.AdjustInventory),
		rpc.Unary("ListMovements", h.ListMovements),
	)
}

type GetProductInventoryRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	WarehouseID string `json:"warehouseId"`
}

type ListLowStockRequest struct {
	WarehouseID string `json:"warehouseId"`
	Page        int    `json:"page" validate:"min=0"`
	PageSize    int    `json:"pageSize" validate:"min=0,max=100"`
}

type InventoryResponse struct {
	Inventory []model.Inventory `json:"inventory"`
	Total     int               `json:"total"`
}

type AdjustInventoryResponse struct {
	Inventory *model.Inventory `json:"inventory"`
}

type ListMovementsResponse struct {
	Movements []model.InventoryMovement `json:"movements"`
	Total     int                       `json:"total"`
}

func warehouse(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (h *InventoryHandler) GetProductInventory(ctx context.Context, req *GetProductInventoryRequest) (*InventoryResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := h.uc.GetProductInventory(ctx, vendorID, req.ProductID, warehouse(req.WarehouseID))
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &InventoryResponse{Inventory: items, Total: len(items)}, nil
}

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *ListLowStockRequest) (*InventoryResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	items, count, err := h.uc.ListLowStock(ctx, vendorID, warehouse(req.WarehouseID), req.Page, req.PageSize)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	if items == nil {
		items = []model.Inventory{}
	}
	return &InventoryResponse{Inventory: items, Total: count}, nil
}

func (h *InventoryHandler) AdjustInventory(ctx context.Context, req *dto.AdjustInventoryInput) (*AdjustInventoryResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	req.VendorID = vendorID
	req.UserID = middleware.UserID(ctx)
	if req.ReferenceType == "" {
		req.ReferenceType = "manual_adjustment"
	}

	inv, err := h.uc.AdjustInventory(ctx, req)
	if err != nil {
		h.logger.Warn("failed to adjust inventory",
			zap.String("variant_id", req.VariantID),
			zap.Int("quantity_change", req.QuantityChange),
			zap.Error(err),
		)
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &AdjustInventoryResponse{Inventory: inv}, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *dto.MovementFilters) (*ListMovementsResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	req.VendorID = vendorID

	items, count, err := h.uc.ListMovements(ctx, req)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	if items == nil {
		items = []model.InventoryMovement{}
	}
	return &ListMovementsResponse{Movements: items, Total: count}, nil
}
