// Package apperror turns domain errors into gRPC status errors carrying a
// message localized for the caller.
package apperror

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/draft"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus maps err to a status error. Errors that are already statuses
// pass through; unknown errors are logged and reported as Internal.
func ToStatus(ctx context.Context, log logger.ZapLogger, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	lang := middleware.Language(ctx)

	var verrs draft.ValidationErrors
	if errors.As(err, &verrs) {
		return validationStatus(lang, verrs)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	if code, id, data, ok := lookup(err); ok {
		return status.Error(code, i18n.T(lang, id, data))
	}

	log.Error("unhandled error", zap.Error(err))
	return status.Error(codes.Internal, i18n.T(lang, "InternalError", nil))
}

func lookup(err error) (codes.Code, string, map[string]interface{}, bool) {
	if id, data, ok := draft.Message(err); ok {
		return draftCode(err), id, data, true
	}

	var skuErr *product.SKUError
	switch {
	case errors.As(err, &skuErr):
		return codes.AlreadyExists, "SKUTaken", map[string]interface{}{"SKU": skuErr.SKU}, true
	case errors.Is(err, product.ErrSKUTaken):
		return codes.AlreadyExists, "SKUTaken", map[string]interface{}{"SKU": ""}, true
	case errors.Is(err, product.ErrProductNotFound):
		return codes.NotFound, "ProductNotFound", nil, true
	case errors.Is(err, product.ErrVariantSKURequired):
		return codes.InvalidArgument, "VariantSKURequired", nil, true
	case errors.Is(err, category.ErrCategoryNotFound):
		return codes.NotFound, "CategoryNotFound", nil, true
	case errors.Is(err, category.ErrParentNotFound):
		return codes.FailedPrecondition, "ParentNotFound", nil, true
	case errors.Is(err, category.ErrCategoryCycle):
		return codes.InvalidArgument, "CategoryCycle", nil, true
	case errors.Is(err, inventory.ErrInsufficientStock):
		return codes.FailedPrecondition, "InsufficientStock", nil, true
	case errors.Is(err, inventory.ErrInventoryBusy):
		return codes.Aborted, "InventoryBusy", nil, true
	case errors.Is(err, draft.ErrUnknownCommand),
		errors.Is(err, draft.ErrOptionIndexOutOfRange),
		errors.Is(err, draft.ErrVariantIndexOutOfRange),
		errors.Is(err, draft.ErrImageIndexOutOfRange),
		errors.Is(err, draft.ErrEmptyImageURL):
		return codes.InvalidArgument, "InvalidCommand", nil, true
	}
	return codes.Unknown, "", nil, false
}

func draftCode(err error) codes.Code {
	switch {
	case errors.Is(err, draft.ErrDraftNotFound):
		return codes.NotFound
	case errors.Is(err, draft.ErrDraftBusy):
		return codes.Aborted
	case errors.Is(err, draft.ErrCategoryNotFound), errors.Is(err, draft.ErrUnknownAttribute):
		return codes.FailedPrecondition
	default:
		return codes.InvalidArgument
	}
}

// validationStatus reports every violation as a field violation; the top
// level message is the first violation's text.
func validationStatus(lang string, verrs draft.ValidationErrors) error {
	br := &errdetails.BadRequest{}
	for _, v := range verrs {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: i18n.T(lang, v.Code, nil),
		})
	}

	msg := verrs.Error()
	if len(br.FieldViolations) > 0 {
		msg = br.FieldViolations[0].Description
	}

	st := status.New(codes.InvalidArgument, msg)
	if withDetails, err := st.WithDetails(br); err == nil {
		return withDetails.Err()
	}
	return st.Err()
}
