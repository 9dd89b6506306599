package auth

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestGetVendorID(t *testing.T) {
	assert.Empty(t, GetVendorID(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-vendor-id", "from-md"))
	assert.Equal(t, "from-md", GetVendorID(ctx))

	ctx = middleware.WithVendorID(ctx, "from-ctx")
	assert.Equal(t, "from-ctx", GetVendorID(ctx))
}

func TestRequireVendorID(t *testing.T) {
	_, err := RequireVendorID(context.Background())
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	id, err := RequireVendorID(middleware.WithVendorID(context.Background(), "v1"))
	require.NoError(t, err)
	assert.Equal(t, "v1", id)
}
