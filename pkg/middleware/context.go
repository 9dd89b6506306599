package middleware

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey int

const (
	vendorIDKey ctxKey = iota
	userIDKey
	languageKey
)

const (
	HeaderVendorID = "x-vendor-id"
	HeaderUserID   = "x-user-id"
	HeaderLanguage = "accept-language"
)

// ContextInterceptor copies the gateway-supplied identity and language
// from incoming metadata into the context.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := first(md, HeaderVendorID); v != "" {
				ctx = WithVendorID(ctx, v)
			}
			if v := first(md, HeaderUserID); v != "" {
				ctx = context.WithValue(ctx, userIDKey, v)
			}
			if v := first(md, HeaderLanguage); v != "" {
				ctx = context.WithValue(ctx, languageKey, v)
			}
		}
		return handler(ctx, req)
	}
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			log.Warn("grpc request failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("grpc request", fields...)
		}
		return resp, err
	}
}

func WithVendorID(ctx context.Context, vendorID string) context.Context {
	return context.WithValue(ctx, vendorIDKey, vendorID)
}

func VendorID(ctx context.Context) string {
	v, _ := ctx.Value(vendorIDKey).(string)
	return v
}

func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

func Language(ctx context.Context) string {
	v, _ := ctx.Value(languageKey).(string)
	return v
}

func first(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
