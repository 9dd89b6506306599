package handler

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/draft"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/fekuna/omnipos-catalog-service/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// memUseCase keeps drafts in memory without locking.
type memUseCase struct {
	drafts map[string]*draft.State
}

func (m *memUseCase) CreateDraft(ctx context.Context, vendorID string) (*draft.State, error) {
	s := draft.New("d1", vendorID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	m.drafts[s.ID] = s
	return s, nil
}

func (m *memUseCase) GetDraft(ctx context.Context, vendorID, id string) (*draft.State, error) {
	s, ok := m.drafts[id]
	if !ok || s.VendorID != vendorID {
		return nil, draft.ErrDraftNotFound
	}
	return s, nil
}

func (m *memUseCase) ListDrafts(ctx context.Context, vendorID string) ([]draft.State, error) {
	var out []draft.State
	for _, s := range m.drafts {
		if s.VendorID == vendorID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memUseCase) ApplyCommands(ctx context.Context, vendorID, id string, cmds []draft.Command) (*draft.State, error) {
	s, err := m.GetDraft(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(cmds...); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *memUseCase) ValidateDraft(ctx context.Context, vendorID, id string) (draft.ValidationErrors, error) {
	s, err := m.GetDraft(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	return s.Validate(), nil
}

func (m *memUseCase) SubmitDraft(ctx context.Context, vendorID, id string) (*model.Product, error) {
	s, err := m.GetDraft(ctx, vendorID, id)
	if err != nil {
		return nil, err
	}
	if verrs := s.Validate(); len(verrs) > 0 {
		return nil, verrs
	}
	delete(m.drafts, id)
	return &model.Product{BaseModel: model.BaseModel{ID: "p1"}, VendorID: vendorID, SKU: s.Basic.SKU}, nil
}

func (m *memUseCase) DiscardDraft(ctx context.Context, vendorID, id string) error {
	if _, err := m.GetDraft(ctx, vendorID, id); err != nil {
		return err
	}
	delete(m.drafts, id)
	return nil
}

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	i18n.Init()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(middleware.ContextInterceptor()))
	h := NewDraftHandler(&memUseCase{drafts: map[string]*draft.State{}}, logger.NewNop())
	srv.RegisterService(h.ServiceDesc(), h)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func vendorCtx(vendorID string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "x-vendor-id", vendorID)
}

func method(name string) string { return "/" + ServiceName + "/" + name }

func cmd(t *testing.T, typ string, args interface{}) CommandInput {
	t.Helper()
	b, err := json.Marshal(args)
	require.NoError(t, err)
	return CommandInput{Type: typ, Args: b}
}

func TestDraftLifecycleOverGRPC(t *testing.T) {
	conn := dial(t)
	ctx := vendorCtx("vendor-1")

	var created DraftResponse
	require.NoError(t, rpc.Invoke(ctx, conn, method("CreateDraft"), &CreateDraftRequest{}, &created))
	assert.Equal(t, "d1", created.Draft.ID)
	require.Len(t, created.Draft.Variants, 1)
	assert.False(t, created.Draft.CanGenerate)

	var applied DraftResponse
	err := rpc.Invoke(ctx, conn, method("ApplyCommands"), &ApplyCommandsRequest{
		DraftID: "d1",
		Commands: []CommandInput{
			cmd(t, "set_base_sku", map[string]string{"sku": "TEE"}),
			cmd(t, "set_base_price", map[string]string{"price": "100"}),
			cmd(t, "add_option", map[string]interface{}{"name": "Color"}),
			cmd(t, "add_option_value", map[string]interface{}{"option": 0, "value": "Navy Blue"}),
			cmd(t, "set_highlight", map[string]string{"key": "Zip", "value": "YKK"}),
			cmd(t, "set_highlight", map[string]string{"key": "Bag", "value": "Canvas"}),
			cmd(t, "set_variant_compare_at", map[string]interface{}{"variant": 0, "compare_at": "125"}),
		},
	}, &applied)
	require.NoError(t, err)
	assert.True(t, applied.Draft.CanGenerate)
	require.Len(t, applied.Draft.Variants, 1)
	v := applied.Draft.Variants[0]
	assert.Equal(t, "Navy Blue", v.Name)
	assert.Equal(t, "TEE-NAVYBLUE", v.SKU)
	assert.Equal(t, 20.0, v.Discount)
	require.Len(t, applied.Draft.Highlights, 2)
	assert.Equal(t, "Zip", applied.Draft.Highlights[0].Key)
	assert.Equal(t, "Bag", applied.Draft.Highlights[1].Key)

	var validated ValidateDraftResponse
	require.NoError(t, rpc.Invoke(ctx, conn, method("ValidateDraft"), &DraftRequest{DraftID: "d1"}, &validated))
	assert.False(t, validated.Valid)
	require.NotEmpty(t, validated.Errors)
	assert.Equal(t, "title", validated.Errors[0].Field)
	assert.Equal(t, "Product title is required", validated.Errors[0].Message)

	var preview PayloadResponse
	require.NoError(t, rpc.Invoke(ctx, conn, method("PreviewPayload"), &DraftRequest{DraftID: "d1"}, &preview))
	require.Len(t, preview.Payload.Variants, 1)
	assert.Equal(t, 125.0, *preview.Payload.Variants[0].CompareAtPrice)
	assert.Equal(t, 1, preview.Payload.Options[0].Position)

	err = rpc.Invoke(ctx, conn, method("SubmitDraft"), &DraftRequest{DraftID: "d1"}, &SubmitDraftResponse{})
	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "Product title is required", st.Message())
}

func TestApplyCommandsErrors(t *testing.T) {
	conn := dial(t)
	ctx := vendorCtx("vendor-1")
	require.NoError(t, rpc.Invoke(ctx, conn, method("CreateDraft"), &CreateDraftRequest{}, &DraftResponse{}))

	err := rpc.Invoke(ctx, conn, method("ApplyCommands"), &ApplyCommandsRequest{
		DraftID:  "d1",
		Commands: []CommandInput{cmd(t, "launch_rocket", map[string]string{})},
	}, &DraftResponse{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = rpc.Invoke(ctx, conn, method("ApplyCommands"), &ApplyCommandsRequest{DraftID: "d1"}, &DraftResponse{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = rpc.Invoke(ctx, conn, method("ApplyCommands"), &ApplyCommandsRequest{
		DraftID:  "d1",
		Commands: []CommandInput{cmd(t, "set_variant_compare_at", map[string]interface{}{"variant": 0, "compareAt": "125"})},
	}, &DraftResponse{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = rpc.Invoke(vendorCtx("vendor-2"), conn, method("ApplyCommands"), &ApplyCommandsRequest{
		DraftID:  "d1",
		Commands: []CommandInput{cmd(t, "set_base_sku", map[string]string{"sku": "X"})},
	}, &DraftResponse{})
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = rpc.Invoke(context.Background(), conn, method("GetDraft"), &DraftRequest{DraftID: "d1"}, &DraftResponse{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestDiscardDraftOverGRPC(t *testing.T) {
	conn := dial(t)
	ctx := vendorCtx("vendor-1")
	require.NoError(t, rpc.Invoke(ctx, conn, method("CreateDraft"), &CreateDraftRequest{}, &DraftResponse{}))

	var list ListDraftsResponse
	require.NoError(t, rpc.Invoke(ctx, conn, method("ListDrafts"), &ListDraftsRequest{}, &list))
	assert.Len(t, list.Drafts, 1)

	require.NoError(t, rpc.Invoke(ctx, conn, method("DiscardDraft"), &DraftRequest{DraftID: "d1"}, &Empty{}))
	err := rpc.Invoke(ctx, conn, method("GetDraft"), &DraftRequest{DraftID: "d1"}, &DraftResponse{})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDraftViewUsesCamelCaseKeys(t *testing.T) {
	conn := dial(t)
	ctx := vendorCtx("vendor-1")
	require.NoError(t, rpc.Invoke(ctx, conn, method("CreateDraft"), &CreateDraftRequest{}, &DraftResponse{}))

	var raw map[string]interface{}
	err := rpc.Invoke(ctx, conn, method("ApplyCommands"), &ApplyCommandsRequest{
		DraftID: "d1",
		Commands: []CommandInput{
			cmd(t, "set_base_compare_at", map[string]string{"compare_at": "50"}),
			cmd(t, "add_option", map[string]interface{}{"name": "Size", "has_images": true}),
			cmd(t, "add_option_value", map[string]interface{}{"option": 0, "value": "M"}),
			cmd(t, "set_school_scope", map[string]interface{}{"school_id": "s1", "grades": []string{"1"}}),
		},
	}, &raw)
	require.NoError(t, err)

	view := raw["draft"].(map[string]interface{})
	assert.Contains(t, view["basic"], "compareAtPrice")
	assert.Contains(t, view["basic"], "basePrice")
	assert.NotContains(t, view["basic"], "base_price")

	option := view["options"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, option["hasImages"])
	assert.Contains(t, option["values"].([]interface{})[0], "imageUrl")

	variant := view["variants"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, variant, "compareAtPrice")
	assert.NotContains(t, variant, "compare_at_price")

	assert.Equal(t, "s1", view["school"].(map[string]interface{})["schoolId"])
}
