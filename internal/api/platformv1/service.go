// Package platformv1 defines the gRPC contract between the SDK client and the
// platform daemon. Messages are protobuf well-known types, so the service
// descriptor is written by hand instead of being generated.
package platformv1

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "kruzic.platform.v1.PlatformService"

// Method names.
const (
	MethodReady          = "Ready"
	MethodIsSignedIn     = "IsSignedIn"
	MethodGetUserID      = "GetUserId"
	MethodGetUserDetails = "GetUserDetails"
	MethodListData       = "ListData"
	MethodGetData        = "GetData"
	MethodSetData        = "SetData"
	MethodDeleteData     = "DeleteData"
	MethodSignIn         = "SignIn"
)

// Methods lists every method of the service, in declaration order.
var Methods = []string{
	MethodReady,
	MethodIsSignedIn,
	MethodGetUserID,
	MethodGetUserDetails,
	MethodListData,
	MethodGetData,
	MethodSetData,
	MethodDeleteData,
	MethodSignIn,
}

// Metadata keys carried on every call.
const (
	AuthorizationKey = "authorization"
	DeviceKey        = "x-kruzic-device"
)

// FullMethod returns "/kruzic.platform.v1.PlatformService/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PlatformServer is the server interface for PlatformService.
type PlatformServer interface {
	Ready(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	IsSignedIn(context.Context, *emptypb.Empty) (*wrapperspb.BoolValue, error)
	// GetUserId returns a string value, or a null value when anonymous.
	GetUserId(context.Context, *emptypb.Empty) (*structpb.Value, error)
	// GetUserDetails returns {"name": ...}, or a null value when anonymous.
	GetUserDetails(context.Context, *emptypb.Empty) (*structpb.Value, error)
	ListData(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// GetData returns the stored value, or a null value when the key is absent.
	GetData(context.Context, *wrapperspb.StringValue) (*structpb.Value, error)
	// SetData takes a struct with "key" (string) and "value" fields.
	SetData(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	DeleteData(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	// SignIn exchanges a username for a bearer token.
	SignIn(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

// RegisterPlatformServer registers srv with the gRPC server.
func RegisterPlatformServer(s grpc.ServiceRegistrar, srv PlatformServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc for PlatformService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlatformServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodReady, newEmpty, func(s PlatformServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.Ready(ctx, in)
		}),
		unary(MethodIsSignedIn, newEmpty, func(s PlatformServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.IsSignedIn(ctx, in)
		}),
		unary(MethodGetUserID, newEmpty, func(s PlatformServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.GetUserId(ctx, in)
		}),
		unary(MethodGetUserDetails, newEmpty, func(s PlatformServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.GetUserDetails(ctx, in)
		}),
		unary(MethodListData, newEmpty, func(s PlatformServer, ctx context.Context, in *emptypb.Empty) (any, error) {
			return s.ListData(ctx, in)
		}),
		unary(MethodGetData, newString, func(s PlatformServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.GetData(ctx, in)
		}),
		unary(MethodSetData, newStruct, func(s PlatformServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.SetData(ctx, in)
		}),
		unary(MethodDeleteData, newString, func(s PlatformServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.DeleteData(ctx, in)
		}),
		unary(MethodSignIn, newString, func(s PlatformServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.SignIn(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kruzic/platform/v1/platform.proto",
}

func newEmpty() *emptypb.Empty           { return new(emptypb.Empty) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }

// unary builds a MethodDesc the same way protoc-gen-go-grpc does for a
// single unary method.
func unary[Req proto.Message](
	method string,
	newReq func() Req,
	call func(PlatformServer, context.Context, Req) (any, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PlatformServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PlatformServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// NewSetDataRequest builds the SetData request struct.
func NewSetDataRequest(key string, value *structpb.Value) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"key":   structpb.NewStringValue(key),
		"value": value,
	}}
}

// ParseSetDataRequest extracts key and value from a SetData request.
// A missing value field is treated as JSON null.
func ParseSetDataRequest(req *structpb.Struct) (string, *structpb.Value, error) {
	keyField, ok := req.GetFields()["key"]
	if !ok {
		return "", nil, fmt.Errorf("missing key")
	}
	sv, ok := keyField.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", nil, fmt.Errorf("key must be a string")
	}
	value, ok := req.GetFields()["value"]
	if !ok || value == nil {
		value = structpb.NewNullValue()
	}
	return sv.StringValue, value, nil
}

// IsNull reports whether v is absent or a JSON null.
func IsNull(v *structpb.Value) bool {
	if v == nil || v.GetKind() == nil {
		return true
	}
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok
}
