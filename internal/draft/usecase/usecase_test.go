package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/draft"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/variant"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo stores drafts as JSON so every Get returns an independent copy,
// like the Redis repository does.
type fakeRepo struct {
	drafts  map[string][]byte
	saves   int
	saveErr error
}

func (r *fakeRepo) Get(ctx context.Context, id string) (*draft.State, error) {
	data, ok := r.drafts[id]
	if !ok {
		return nil, draft.ErrDraftNotFound
	}
	var s draft.State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *fakeRepo) Save(ctx context.Context, s *draft.State) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.drafts[s.ID] = data
	r.saves++
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, s *draft.State) error {
	delete(r.drafts, s.ID)
	return nil
}

func (r *fakeRepo) ListByVendor(ctx context.Context, vendorID string) ([]draft.State, error) {
	out := []draft.State{}
	for id := range r.drafts {
		s, _ := r.Get(ctx, id)
		if s.VendorID == vendorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeLocker struct {
	held map[string]bool
}

func (l *fakeLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, key, value string) error {
	delete(l.held, key)
	return nil
}

type fakeCategories map[string]*model.Category

func (f fakeCategories) GetCategory(ctx context.Context, vendorID, id string) (*model.Category, error) {
	c, ok := f[id]
	if !ok || c.VendorID != vendorID {
		return nil, category.ErrCategoryNotFound
	}
	return c, nil
}

type fakeProducts struct {
	inputs []*dto.CreateProductInput
	err    error
}

func (f *fakeProducts) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	p := &model.Product{BaseModel: model.BaseModel{ID: "product-1"}, VendorID: input.VendorID, SKU: input.SKU}
	for range input.Variants {
		p.Variants = append(p.Variants, model.ProductVariant{})
	}
	return p, nil
}

type fixture struct {
	repo     *fakeRepo
	locker   *fakeLocker
	cats     fakeCategories
	products *fakeProducts
	uc       draft.UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:     &fakeRepo{drafts: map[string][]byte{}},
		locker:   &fakeLocker{held: map[string]bool{}},
		products: &fakeProducts{},
		cats: fakeCategories{
			"cat-apparel": {
				BaseModel:     model.BaseModel{ID: "cat-apparel"},
				VendorID:      "vendor-1",
				AttributeKeys: types.JSONText(`["Fabric","Fit"]`),
				IsActive:      true,
			},
			"cat-retired": {
				BaseModel: model.BaseModel{ID: "cat-retired"},
				VendorID:  "vendor-1",
				IsActive:  false,
			},
		},
	}
	uc := NewDraftUseCase(f.repo, f.locker, f.cats, f.products, time.Second, logger.NewNop()).(*draftUseCase)
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	f.uc = uc
	return f
}

func str(s string) *string { return &s }

func readyCommands() []draft.Command {
	return []draft.Command{
		draft.SetBasicInfo{Title: str("Uniform Shirt"), City: str("Bandung"), Description: str("<p>Cotton</p>")},
		draft.SetBaseSKU{SKU: "SHIRT"},
		draft.SetBasePrice{Price: "150000"},
		draft.AddImage{URL: "https://cdn/shirt.png"},
		draft.AddOption{Name: "Size"},
		draft.AddOptionValue{Option: 0, Value: "S"},
		draft.AddOptionValue{Option: 0, Value: "M"},
	}
}

func TestCreateAndGetDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)
	require.Len(t, s.Variants, 1)
	assert.Equal(t, variant.DefaultVariantName, s.Variants[0].Name)

	got, err := f.uc.GetDraft(ctx, "vendor-1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = f.uc.GetDraft(ctx, "vendor-2", s.ID)
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)

	list, err := f.uc.ListDrafts(ctx, "vendor-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestApplyCommands(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)

	s, err = f.uc.ApplyCommands(ctx, "vendor-1", s.ID, readyCommands())
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M"}, []string{s.Variants[0].Name, s.Variants[1].Name})
	assert.Equal(t, "SHIRT-S", s.Variants[0].SKU)
	assert.EqualValues(t, 1, s.Revision)
	assert.Equal(t, 2026, s.UpdatedAt.Year())

	stored, err := f.uc.GetDraft(ctx, "vendor-1", s.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Variants, 2)
	assert.Empty(t, f.locker.held)
}

func TestApplyCommandsIsAllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)
	savesBefore := f.repo.saves

	_, err = f.uc.ApplyCommands(ctx, "vendor-1", s.ID, []draft.Command{
		draft.AddOption{Name: "Size"},
		draft.AddOptionValue{Option: 0, Value: "S"},
		draft.AddOptionValue{Option: 0, Value: "S"},
	})
	assert.ErrorIs(t, err, variant.ErrDuplicateOptionValue)
	assert.Equal(t, savesBefore, f.repo.saves)

	stored, err := f.uc.GetDraft(ctx, "vendor-1", s.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Options)
	assert.Zero(t, stored.Revision)
}

func TestApplyCommandsBusy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)

	f.locker.held["lock:draft:"+s.ID] = true
	_, err = f.uc.ApplyCommands(ctx, "vendor-1", s.ID, []draft.Command{draft.SetBaseSKU{SKU: "X"}})
	assert.ErrorIs(t, err, draft.ErrDraftBusy)
}

func TestValidateDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)

	verrs, err := f.uc.ValidateDraft(ctx, "vendor-1", s.ID)
	require.NoError(t, err)
	require.NotEmpty(t, verrs)
	assert.Equal(t, "BasePriceRequired", verrs[0].Code)

	_, err = f.uc.ApplyCommands(ctx, "vendor-1", s.ID, readyCommands())
	require.NoError(t, err)
	verrs, err = f.uc.ValidateDraft(ctx, "vendor-1", s.ID)
	require.NoError(t, err)
	assert.Empty(t, verrs)
}

func TestSubmitDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)
	_, err = f.uc.ApplyCommands(ctx, "vendor-1", s.ID, append(readyCommands(),
		draft.SetCategory{CategoryID: "cat-apparel"},
		draft.SetAttribute{Key: "Fabric", Value: "Cotton"},
	))
	require.NoError(t, err)

	p, err := f.uc.SubmitDraft(ctx, "vendor-1", s.ID)
	require.NoError(t, err)
	assert.Equal(t, "product-1", p.ID)

	require.Len(t, f.products.inputs, 1)
	in := f.products.inputs[0]
	assert.Equal(t, "vendor-1", in.VendorID)
	assert.Equal(t, "SHIRT", in.SKU)
	assert.Equal(t, map[string]string{"Fabric": "Cotton"}, in.Attributes)
	require.Len(t, in.Variants, 2)
	assert.Equal(t, "SHIRT-M", in.Variants[1].SKU)

	_, err = f.uc.GetDraft(ctx, "vendor-1", s.ID)
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)
	assert.Empty(t, f.locker.held)
}

func TestSubmitDraftFailures(t *testing.T) {
	tests := []struct {
		name    string
		cmds    []draft.Command
		prodErr error
		check   func(t *testing.T, err error)
	}{
		{
			name: "validation errors",
			cmds: []draft.Command{draft.SetBaseSKU{SKU: "SHIRT"}},
			check: func(t *testing.T, err error) {
				var verrs draft.ValidationErrors
				require.True(t, errors.As(err, &verrs))
				assert.Equal(t, "BasePriceRequired", verrs[0].Code)
			},
		},
		{
			name: "unknown category",
			cmds: append(readyCommands(), draft.SetCategory{CategoryID: "cat-missing"}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, draft.ErrCategoryNotFound)
			},
		},
		{
			name: "inactive category",
			cmds: append(readyCommands(), draft.SetCategory{CategoryID: "cat-retired"}),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, draft.ErrCategoryNotFound)
			},
		},
		{
			name: "undeclared attribute",
			cmds: append(readyCommands(),
				draft.SetCategory{CategoryID: "cat-apparel"},
				draft.SetAttribute{Key: "Sleeve", Value: "Long"},
			),
			check: func(t *testing.T, err error) {
				var attrErr *draft.AttributeError
				require.True(t, errors.As(err, &attrErr))
				assert.Equal(t, "Sleeve", attrErr.Key)
			},
		},
		{
			name:    "product creation fails",
			cmds:    readyCommands(),
			prodErr: errors.New("sku already exists"),
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "sku already exists")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.products.err = tt.prodErr
			ctx := context.Background()
			s, err := f.uc.CreateDraft(ctx, "vendor-1")
			require.NoError(t, err)
			_, err = f.uc.ApplyCommands(ctx, "vendor-1", s.ID, tt.cmds)
			require.NoError(t, err)

			_, err = f.uc.SubmitDraft(ctx, "vendor-1", s.ID)
			require.Error(t, err)
			tt.check(t, err)

			_, err = f.uc.GetDraft(ctx, "vendor-1", s.ID)
			assert.NoError(t, err, "draft survives a failed submit")
		})
	}
}

func TestDiscardDraft(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	s, err := f.uc.CreateDraft(ctx, "vendor-1")
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.DiscardDraft(ctx, "vendor-2", s.ID), draft.ErrDraftNotFound)
	require.NoError(t, f.uc.DiscardDraft(ctx, "vendor-1", s.ID))
	_, err = f.uc.GetDraft(ctx, "vendor-1", s.ID)
	assert.ErrorIs(t, err, draft.ErrDraftNotFound)
}
