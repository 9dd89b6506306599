// Package rpc declares gRPC services whose request and response messages
// are JSON-shaped google.protobuf.Struct values. Handlers are written
// against plain Go request/response types; conversion and request
// validation happen here.
package rpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MethodFunc builds a method descriptor once the service name is known.
type MethodFunc func(service string) grpc.MethodDesc

// Unary adapts fn to a unary gRPC method.
func Unary[Req, Resp any](name string, fn func(context.Context, *Req) (*Resp, error)) MethodFunc {
	return func(service string) grpc.MethodDesc {
		fullMethod := "/" + service + "/" + name
		return grpc.MethodDesc{
			MethodName: name,
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := new(structpb.Struct)
				if err := dec(in); err != nil {
					return nil, err
				}
				call := func(ctx context.Context, req interface{}) (interface{}, error) {
					r := new(Req)
					if err := FromStruct(req.(*structpb.Struct), r); err != nil {
						return nil, status.Error(codes.InvalidArgument, err.Error())
					}
					if err := Validate(r); err != nil {
						return nil, status.Error(codes.InvalidArgument, err.Error())
					}
					resp, err := fn(ctx, r)
					if err != nil {
						return nil, err
					}
					out, err := ToStruct(resp)
					if err != nil {
						return nil, status.Error(codes.Internal, err.Error())
					}
					return out, nil
				}
				if interceptor == nil {
					return call(ctx, in)
				}
				return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, call)
			},
		}
	}
}

func NewServiceDesc(service string, methods ...MethodFunc) *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: service,
		HandlerType: (*interface{})(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "omnipos/catalog/v1/catalog.json",
	}
	for _, m := range methods {
		desc.Methods = append(desc.Methods, m(service))
	}
	return desc
}

// Validate runs struct tag validation on v. Non-struct values pass.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	return err
}

func FromStruct(s *structpb.Struct, v interface{}) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func ToStruct(v interface{}) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if string(b) == "null" {
		return out, nil
	}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Invoke calls a Struct-message method on conn, converting req and resp
// through JSON.
func Invoke(ctx context.Context, conn grpc.ClientConnInterface, fullMethod string, req, resp interface{}, opts ...grpc.CallOption) error {
	in, err := ToStruct(req)
	if err != nil {
		return err
	}
	out := &structpb.Struct{}
	if err := conn.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return err
	}
	return FromStruct(out, resp)
}
