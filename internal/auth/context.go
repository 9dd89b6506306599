package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/pkg/middleware"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GetVendorID returns the vendor the gateway authenticated, preferring the
// value the context interceptor stored and falling back to raw metadata.
func GetVendorID(ctx context.Context) string {
	if v := middleware.VendorID(ctx); v != "" {
		return v
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(middleware.HeaderVendorID); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// RequireVendorID is GetVendorID for handlers that must not run anonymously.
func RequireVendorID(ctx context.Context) (string, error) {
	vendorID := GetVendorID(ctx)
	if vendorID == "" {
		return "", status.Error(codes.Unauthenticated, "missing vendor")
	}
	return vendorID, nil
}
