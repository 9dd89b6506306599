package draft

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateDraft(ctx context.Context, vendorID string) (*State, error)
	GetDraft(ctx context.Context, vendorID, id string) (*State, error)
	ListDrafts(ctx context.Context, vendorID string) ([]State, error)
	ApplyCommands(ctx context.Context, vendorID, id string, cmds []Command) (*State, error)
	ValidateDraft(ctx context.Context, vendorID, id string) (ValidationErrors, error)
	SubmitDraft(ctx context.Context, vendorID, id string) (*model.Product, error)
	DiscardDraft(ctx context.Context, vendorID, id string) error
}
