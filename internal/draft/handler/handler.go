package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/draft"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/fekuna/omnipos-catalog-service/pkg/rpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "omnipos.catalog.v1.DraftService"

type DraftHandler struct {
	uc     draft.UseCase
	logger logger.ZapLogger
}

func NewDraftHandler(uc draft.UseCase, log logger.ZapLogger) *DraftHandler {
	return &DraftHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DraftHandler) ServiceDesc() *grpc.ServiceDesc {
	return rpc.NewServiceDesc(ServiceName,
		rpc.Unary("CreateDraft", h.CreateDraft),
		rpc.Unary("GetDraft", h.GetDraft),
		rpc.Unary("ListDrafts", h.ListDrafts),
		rpc.Unary("ApplyCommands", h.ApplyCommands),
		rpc.Unary("ValidateDraft", h.ValidateDraft),
		rpc.Unary("PreviewPayload", h.PreviewPayload),
		rpc.Unary("SubmitDraft", h.SubmitDraft),
		rpc.Unary("DiscardDraft", h.DiscardDraft),
	)
}

type CreateDraftRequest struct{}

type DraftRequest struct {
	DraftID string `json:"draftId" validate:"required"`
}

type ListDraftsRequest struct{}

type CommandInput struct {
	Type string          `json:"type" validate:"required"`
	Args json.RawMessage `json:"args"`
}

type ApplyCommandsRequest struct {
	DraftID  string         `json:"draftId" validate:"required"`
	Commands []CommandInput `json:"commands" validate:"required,min=1,max=100,dive"`
}

// DraftView is the wire form of a draft. Highlights travel as a list
// because struct-shaped messages do not keep key order.
type DraftView struct {
	ID          string            `json:"id"`
	Basic       BasicView         `json:"basic"`
	BrandID     string            `json:"brandId"`
	CategoryID  string            `json:"categoryId"`
	Attributes  map[string]string `json:"attributes"`
	Highlights  []dto.Highlight   `json:"highlights"`
	Images      []string          `json:"images"`
	Options     []OptionView      `json:"options"`
	Variants    []VariantView     `json:"variants"`
	School      *SchoolView       `json:"school,omitempty"`
	CanGenerate bool              `json:"canGenerate"`
	Revision    int64             `json:"revision"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type BasicView struct {
	Title            string  `json:"title"`
	SKU              string  `json:"sku"`
	City             string  `json:"city"`
	ShortDescription string  `json:"shortDescription"`
	Description      string  `json:"description"`
	BasePrice        float64 `json:"basePrice"`
	CompareAtPrice   float64 `json:"compareAtPrice"`
}

type OptionValueView struct {
	Value    string  `json:"value"`
	ImageURL *string `json:"imageUrl"`
}

type OptionView struct {
	Name      string            `json:"name"`
	Values    []OptionValueView `json:"values"`
	HasImages bool              `json:"hasImages"`
	Valid     bool              `json:"valid"`
}

type VariantView struct {
	Name           string  `json:"name"`
	Option1        *string `json:"option1"`
	Option2        *string `json:"option2"`
	Option3        *string `json:"option3"`
	SKU            string  `json:"sku"`
	Price          float64 `json:"price"`
	CompareAtPrice float64 `json:"compareAtPrice"`
	Discount       float64 `json:"discount"`
	Stock          int     `json:"stock"`
	Weight         float64 `json:"weight"`
}

type SchoolView struct {
	SchoolID    string   `json:"schoolId"`
	WarehouseID string   `json:"warehouseId"`
	Grades      []string `json:"grades"`
}

type DraftResponse struct {
	Draft DraftView `json:"draft"`
}

type ListDraftsResponse struct {
	Drafts []DraftView `json:"drafts"`
}

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidateDraftResponse struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

type PayloadResponse struct {
	Payload *dto.CreateProductInput `json:"payload"`
}

type SubmitDraftResponse struct {
	Product *model.Product `json:"product"`
}

type Empty struct{}

func toView(s *draft.State) DraftView {
	v := DraftView{
		ID: s.ID,
		Basic: BasicView{
			Title:            s.Basic.Title,
			SKU:              s.Basic.SKU,
			City:             s.Basic.City,
			ShortDescription: s.Basic.ShortDescription,
			Description:      s.Basic.Description,
			BasePrice:        s.Basic.BasePrice,
			CompareAtPrice:   s.Basic.CompareAtPrice,
		},
		BrandID:     s.BrandID,
		CategoryID:  s.CategoryID,
		Attributes:  s.Attributes,
		Highlights:  make([]dto.Highlight, 0, s.Highlights.Len()),
		Images:      s.Images,
		Options:     make([]OptionView, len(s.Options)),
		Variants:    make([]VariantView, len(s.Variants)),
		CanGenerate: len(s.ValidOptions()) > 0,
		Revision:    s.Revision,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	for _, hl := range s.Highlights.Items() {
		v.Highlights = append(v.Highlights, dto.Highlight{Key: hl.Key, Value: hl.Value})
	}
	for i, o := range s.Options {
		ov := OptionView{
			Name:      o.Name,
			Values:    make([]OptionValueView, len(o.Values)),
			HasImages: o.HasImages,
			Valid:     o.IsValid(),
		}
		for j, val := range o.Values {
			ov.Values[j] = OptionValueView{Value: val.Value, ImageURL: val.ImageURL}
		}
		v.Options[i] = ov
	}
	for i, vr := range s.Variants {
		v.Variants[i] = VariantView{
			Name:           vr.Name,
			Option1:        vr.Option1,
			Option2:        vr.Option2,
			Option3:        vr.Option3,
			SKU:            vr.SKU,
			Price:          vr.Price,
			CompareAtPrice: vr.CompareAtPrice,
			Discount:       vr.Discount,
			Stock:          vr.Stock,
			Weight:         vr.Weight,
		}
	}
	if s.School != nil {
		v.School = &SchoolView{
			SchoolID:    s.School.SchoolID,
			WarehouseID: s.School.WarehouseID,
			Grades:      s.School.Grades,
		}
	}
	return v
}

func (h *DraftHandler) CreateDraft(ctx context.Context, _ *CreateDraftRequest) (*DraftResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	s, err := h.uc.CreateDraft(ctx, vendorID)
	if err != nil {
		h.logger.Error("failed to create draft", zap.Error(err))
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &DraftResponse{Draft: toView(s)}, nil
}

func (h *DraftHandler) GetDraft(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	s, err := h.uc.GetDraft(ctx, vendorID, req.DraftID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &DraftResponse{Draft: toView(s)}, nil
}

func (h *DraftHandler) ListDrafts(ctx context.Context, _ *ListDraftsRequest) (*ListDraftsResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	drafts, err := h.uc.ListDrafts(ctx, vendorID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	views := make([]DraftView, len(drafts))
	for i := range drafts {
		views[i] = toView(&drafts[i])
	}
	return &ListDraftsResponse{Drafts: views}, nil
}

func (h *DraftHandler) ApplyCommands(ctx context.Context, req *ApplyCommandsRequest) (*DraftResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}

	cmds := make([]draft.Command, 0, len(req.Commands))
	for _, in := range req.Commands {
		cmd, err := draft.DecodeCommand(in.Type, in.Args)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument,
				i18n.T(middleware.Language(ctx), "InvalidCommand", nil)+": "+err.Error())
		}
		cmds = append(cmds, cmd)
	}

	s, err := h.uc.ApplyCommands(ctx, vendorID, req.DraftID, cmds)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &DraftResponse{Draft: toView(s)}, nil
}

func (h *DraftHandler) ValidateDraft(ctx context.Context, req *DraftRequest) (*ValidateDraftResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	verrs, err := h.uc.ValidateDraft(ctx, vendorID, req.DraftID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}

	lang := middleware.Language(ctx)
	resp := &ValidateDraftResponse{Valid: len(verrs) == 0, Errors: []FieldError{}}
	for _, v := range verrs {
		resp.Errors = append(resp.Errors, FieldError{Field: v.Field, Code: v.Code, Message: i18n.T(lang, v.Code, nil)})
	}
	return resp, nil
}

func (h *DraftHandler) PreviewPayload(ctx context.Context, req *DraftRequest) (*PayloadResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	s, err := h.uc.GetDraft(ctx, vendorID, req.DraftID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &PayloadResponse{Payload: s.Payload()}, nil
}

func (h *DraftHandler) SubmitDraft(ctx context.Context, req *DraftRequest) (*SubmitDraftResponse, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.SubmitDraft(ctx, vendorID, req.DraftID)
	if err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &SubmitDraftResponse{Product: p}, nil
}

func (h *DraftHandler) DiscardDraft(ctx context.Context, req *DraftRequest) (*Empty, error) {
	vendorID, err := auth.RequireVendorID(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.uc.DiscardDraft(ctx, vendorID, req.DraftID); err != nil {
		return nil, apperror.ToStatus(ctx, h.logger, err)
	}
	return &Empty{}, nil
}
