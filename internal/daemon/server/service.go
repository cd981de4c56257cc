package server

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/kruzic-io/kruzic/internal/api/platformv1"
	"github.com/kruzic-io/kruzic/internal/daemon/identity"
	"github.com/kruzic-io/kruzic/internal/daemon/store"
)

// platformService implements platformv1.PlatformServer.
type platformService struct {
	store   store.Store
	players *identity.Directory
	tokens  *identity.Tokens
	metrics *Metrics
	ready   *atomic.Int64
	logger  *zap.Logger
}

var _ platformv1.PlatformServer = (*platformService)(nil)

func (s *platformService) Ready(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.ready.Add(1)
	s.metrics.ready.Inc()
	s.logger.Info("game ready", zap.String("caller", identity.FromContext(ctx).Namespace()))
	return &emptypb.Empty{}, nil
}

func (s *platformService) IsSignedIn(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(identity.FromContext(ctx).SignedIn()), nil
}

func (s *platformService) GetUserId(ctx context.Context, _ *emptypb.Empty) (*structpb.Value, error) {
	caller := identity.FromContext(ctx)
	if !caller.SignedIn() {
		return structpb.NewNullValue(), nil
	}
	return structpb.NewStringValue(caller.Player.ID), nil
}

func (s *platformService) GetUserDetails(ctx context.Context, _ *emptypb.Empty) (*structpb.Value, error) {
	caller := identity.FromContext(ctx)
	if !caller.SignedIn() {
		return structpb.NewNullValue(), nil
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
		"name": structpb.NewStringValue(caller.Player.Name),
	}}), nil
}

// namespace returns the caller's storage namespace.
func namespace(ctx context.Context) (string, error) {
	ns := identity.FromContext(ctx).Namespace()
	if ns == "" {
		return "", status.Error(codes.InvalidArgument, "device id is required when not signed in")
	}
	return ns, nil
}

func (s *platformService) ListData(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	ns, err := namespace(ctx)
	if err != nil {
		return nil, err
	}
	keys, err := s.store.List(ctx, ns)
	if err != nil {
		return nil, s.internal("list", err)
	}
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(keys))}
	for _, k := range keys {
		out.Values = append(out.Values, structpb.NewStringValue(k))
	}
	return out, nil
}

func (s *platformService) GetData(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Value, error) {
	ns, err := namespace(ctx)
	if err != nil {
		return nil, err
	}
	key := in.GetValue()
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	raw, ok, err := s.store.Get(ctx, ns, key)
	if err != nil {
		return nil, s.internal("get", err)
	}
	if !ok {
		return structpb.NewNullValue(), nil
	}
	out := new(structpb.Value)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, s.internal("decode", err)
	}
	return out, nil
}

func (s *platformService) SetData(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	ns, err := namespace(ctx)
	if err != nil {
		return nil, err
	}
	key, value, err := platformv1.ParseSetDataRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	raw, err := protojson.Marshal(value)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "value is not valid JSON: %v", err)
	}
	if err := s.store.Set(ctx, ns, key, raw); err != nil {
		return nil, s.internal("set", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *platformService) DeleteData(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	ns, err := namespace(ctx)
	if err != nil {
		return nil, err
	}
	key := in.GetValue()
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "key is required")
	}
	if err := s.store.Delete(ctx, ns, key); err != nil {
		return nil, s.internal("delete", err)
	}
	return &emptypb.Empty{}, nil
}

func (s *platformService) SignIn(_ context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	player := s.players.ByUsername(in.GetValue())
	if player == nil {
		return nil, status.Errorf(codes.NotFound, "unknown player %q", in.GetValue())
	}
	token, err := s.tokens.Issue(player.ID)
	if err != nil {
		return nil, s.internal("sign in", err)
	}
	s.logger.Info("player signed in", zap.String("player", player.ID), zap.String("username", player.Username))
	return wrapperspb.String(token), nil
}

func (s *platformService) internal(op string, err error) error {
	s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return status.Errorf(codes.Internal, "%s failed: %v", op, err)
}
