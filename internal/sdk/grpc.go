package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/kruzic-io/kruzic/internal/api/platformv1"
)

// readyTimeout bounds the background Ready notification.
const readyTimeout = 5 * time.Second

// Options configures a GRPCClient.
type Options struct {
	// Address is the platform daemon's host:port.
	Address string
	// DeviceID identifies this installation for anonymous storage.
	DeviceID string
	// Token is the bearer token of the signed-in player, if any.
	Token string
	// Logger receives background failures. Nil means no logging.
	Logger *zap.Logger
	// DialOptions are appended to the defaults (tests use a bufconn dialer).
	DialOptions []grpc.DialOption
}

// GRPCClient implements Client over the platform's gRPC API.
type GRPCClient struct {
	conn   *grpc.ClientConn
	logger *zap.Logger
	wg     sync.WaitGroup
}

var _ Client = (*GRPCClient)(nil)

// Dial creates a client for the platform at opts.Address. The connection is
// established lazily on the first call.
func Dial(opts Options) (*GRPCClient, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("platform address is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(identityInterceptor(opts.DeviceID, opts.Token)),
	}
	dialOpts = append(dialOpts, opts.DialOptions...)

	conn, err := grpc.NewClient(opts.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to platform: %w", err)
	}
	return &GRPCClient{conn: conn, logger: logger}, nil
}

// identityInterceptor attaches the device id and bearer token to every call.
func identityInterceptor(deviceID, token string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if deviceID != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, platformv1.DeviceKey, deviceID)
		}
		if token != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, platformv1.AuthorizationKey, "Bearer "+token)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func (c *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	return fromRPC(c.conn.Invoke(ctx, platformv1.FullMethod(method), in, out))
}

// Close waits for background notifications and closes the connection.
func (c *GRPCClient) Close() error {
	c.wg.Wait()
	return c.conn.Close()
}

// Ready notifies the platform in the background.
func (c *GRPCClient) Ready() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
		defer cancel()
		if err := c.invoke(ctx, platformv1.MethodReady, &emptypb.Empty{}, &emptypb.Empty{}); err != nil {
			c.logger.Warn("ready notification failed", zap.Error(err))
		}
	}()
}

// IsSignedIn reports whether the call carries a valid player token.
func (c *GRPCClient) IsSignedIn(ctx context.Context) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, platformv1.MethodIsSignedIn, &emptypb.Empty{}, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// GetUserID returns the signed-in player's id, or nil.
func (c *GRPCClient) GetUserID(ctx context.Context) (*string, error) {
	out := new(structpb.Value)
	if err := c.invoke(ctx, platformv1.MethodGetUserID, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	if platformv1.IsNull(out) {
		return nil, nil
	}
	id := out.GetStringValue()
	return &id, nil
}

// GetUserDetails returns the signed-in player's profile, or nil.
func (c *GRPCClient) GetUserDetails(ctx context.Context) (*UserDetails, error) {
	out := new(structpb.Value)
	if err := c.invoke(ctx, platformv1.MethodGetUserDetails, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	if platformv1.IsNull(out) {
		return nil, nil
	}
	fields := out.GetStructValue().GetFields()
	return &UserDetails{Name: fields["name"].GetStringValue()}, nil
}

// ListData returns the keys stored for the caller.
func (c *GRPCClient) ListData(ctx context.Context) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, platformv1.MethodListData, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		keys = append(keys, v.GetStringValue())
	}
	return keys, nil
}

// GetData returns the decoded value stored under key, or nil.
func (c *GRPCClient) GetData(ctx context.Context, key string) (any, error) {
	out := new(structpb.Value)
	if err := c.invoke(ctx, platformv1.MethodGetData, wrapperspb.String(key), out); err != nil {
		return nil, err
	}
	if platformv1.IsNull(out) {
		return nil, nil
	}
	return out.AsInterface(), nil
}

// SetData stores value under key. value must be JSON-serializable.
func (c *GRPCClient) SetData(ctx context.Context, key string, value any) error {
	v, err := ToValue(value)
	if err != nil {
		return err
	}
	return c.invoke(ctx, platformv1.MethodSetData, platformv1.NewSetDataRequest(key, v), &emptypb.Empty{})
}

// DeleteData removes key. Deleting an absent key succeeds.
func (c *GRPCClient) DeleteData(ctx context.Context, key string) error {
	return c.invoke(ctx, platformv1.MethodDeleteData, wrapperspb.String(key), &emptypb.Empty{})
}

// SignIn exchanges a username for a bearer token.
func (c *GRPCClient) SignIn(ctx context.Context, username string) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.invoke(ctx, platformv1.MethodSignIn, wrapperspb.String(username), out); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// ToValue converts any JSON-serializable Go value into a structpb.Value.
// Types structpb does not accept directly (typed maps, structs, slices of
// concrete types) go through a JSON round trip first.
func ToValue(v any) (*structpb.Value, error) {
	if pv, err := structpb.NewValue(v); err == nil {
		return pv, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not JSON-serializable: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("value is not JSON-serializable: %w", err)
	}
	return structpb.NewValue(generic)
}
