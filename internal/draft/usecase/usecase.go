package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/draft"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockAttempts   = 3
	lockRetryDelay = 100 * time.Millisecond
)

type CategoryFinder interface {
	GetCategory(ctx context.Context, vendorID, id string) (*model.Category, error)
}

type ProductCreator interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
}

type draftUseCase struct {
	repo       draft.Repository
	locker     draft.Locker
	categories CategoryFinder
	products   ProductCreator
	lockTTL    time.Duration
	logger     logger.ZapLogger
	now        func() time.Time
}

func NewDraftUseCase(repo draft.Repository, locker draft.Locker, categories CategoryFinder, products ProductCreator, lockTTL time.Duration, log logger.ZapLogger) draft.UseCase {
	return &draftUseCase{
		repo:       repo,
		locker:     locker,
		categories: categories,
		products:   products,
		lockTTL:    lockTTL,
		logger:     log,
		now:        time.Now,
	}
}

func (uc *draftUseCase) CreateDraft(ctx context.Context, vendorID string) (*draft.State, error) {
	s := draft.New(uuid.New().String(), vendorID, uc.now())
	if err := uc.repo.Save(ctx, s); err != nil {
		return nil, err
	}
	uc.logger.Info("draft created", zap.String("draft_id", s.ID), zap.String("vendor_id", vendorID))
	return s, nil
}

// GetDraft hides drafts of other vendors behind ErrDraftNotFound.
func (uc *draftUseCase) GetDraft(ctx context.Context, vendorID, id string) (*draft.State, error) {
	s, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.VendorID != vendorID {
		return nil, draft.ErrDraftNotFound
	}
	return s, nil
}

func (uc *draftUseCase) ListDrafts(ctx context.Context, vendorID string) ([]draft.State, error) {
	return uc.repo.ListByVendor(ctx, vendorID)
}

func (uc *draftUseCase) ApplyCommands(ctx context.Context, vendorID, id string, cmds []draft.Command) (*draft.State, error) {
	var result *draft.State
	err := uc.withLock(ctx, id, func() error {
		s, err := uc.GetDraft(ctx, vendorID, id)
		if err != nil {
			return err
		}
		if err := s.Apply(cmds...); err != nil {
			return err
		}
		s.UpdatedAt = uc.now()
		if err := uc.repo.Save(ctx, s); err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *draftUseCase) ValidateDraft(ctx context.Context, vendorID, id string) (draft.ValidationErrors, error) {
	s, err := uc.GetDraft(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	return s.Validate(), nil
}

// SubmitDraft creates the product and removes the draft. The lock is held
// throughout so a double submit cannot create the product twice.
func (uc *draftUseCase) SubmitDraft(ctx context.Context, vendorID, id string) (*model.Product, error) {
	var created *model.Product
	err := uc.withLock(ctx, id, func() error {
		s, err := uc.GetDraft(ctx, vendorID, id)
		if err != nil {
			return err
		}
		if verrs := s.Validate(); len(verrs) > 0 {
			return verrs
		}
		if err := uc.checkCategory(ctx, s); err != nil {
			return err
		}

		p, err := uc.products.CreateProduct(ctx, s.Payload())
		if err != nil {
			return err
		}
		created = p

		if err := uc.repo.Delete(ctx, s); err != nil {
			uc.logger.Warn("failed to delete submitted draft", zap.String("draft_id", id), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("draft submitted",
		zap.String("draft_id", id),
		zap.String("product_id", created.ID),
		zap.Int("variants", len(created.Variants)),
	)
	return created, nil
}

func (uc *draftUseCase) checkCategory(ctx context.Context, s *draft.State) error {
	if s.CategoryID == "" {
		if len(s.Attributes) > 0 {
			return &draft.AttributeError{Key: sortedKeys(s.Attributes)[0]}
		}
		return nil
	}

	cat, err := uc.categories.GetCategory(ctx, s.VendorID, s.CategoryID)
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return draft.ErrCategoryNotFound
		}
		return err
	}
	if cat == nil || !cat.IsActive {
		return draft.ErrCategoryNotFound
	}

	declared := map[string]bool{}
	for _, k := range category.AttributeKeys(cat) {
		declared[k] = true
	}
	for _, k := range sortedKeys(s.Attributes) {
		if !declared[k] {
			return &draft.AttributeError{Key: k}
		}
	}
	return nil
}

func (uc *draftUseCase) DiscardDraft(ctx context.Context, vendorID, id string) error {
	return uc.withLock(ctx, id, func() error {
		s, err := uc.GetDraft(ctx, vendorID, id)
		if err != nil {
			return err
		}
		return uc.repo.Delete(ctx, s)
	})
}

func (uc *draftUseCase) withLock(ctx context.Context, id string, fn func() error) error {
	key := fmt.Sprintf("lock:draft:%s", id)
	value := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, uc.lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.String("key", key), zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		if i < lockAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(lockRetryDelay):
			}
		}
	}
	if !acquired {
		return draft.ErrDraftBusy
	}

	defer func() {
		if err := uc.locker.ReleaseLock(context.Background(), key, value); err != nil {
			uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
