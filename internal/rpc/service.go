// Package rpc exposes the advisor over gRPC. Messages are
// google.protobuf.Struct documents carrying the same JSON shapes as the
// HTTP endpoints, so no generated code is needed.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/upgrade-ev/internal/advisor"
)

const (
	ServiceName    = "upgradeev.v1.Advisor"
	evaluateMethod = "/" + ServiceName + "/Evaluate"
	rankMethod     = "/" + ServiceName + "/Rank"
)

// EvaluateRequest is the body of Evaluate: {"action": "...", "snapshot": {...}}.
type EvaluateRequest struct {
	Action   string              `json:"action"`
	Snapshot advisor.SnapshotDoc `json:"snapshot"`
}

// RankRequest is the body of Rank; empty Actions ranks every candidate.
type RankRequest struct {
	Actions  []string            `json:"actions,omitempty"`
	Snapshot advisor.SnapshotDoc `json:"snapshot"`
}

// RankResponse wraps the ordered scores.
type RankResponse struct {
	Scores []advisor.ScoreDoc `json:"scores"`
}

// AdvisorServer is the server API for upgradeev.v1.Advisor.
type AdvisorServer interface {
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Rank(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var advisorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdvisorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "Rank", Handler: rankHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "upgradeev/v1/advisor.proto",
}

// RegisterAdvisorServer attaches srv to s.
func RegisterAdvisorServer(s grpc.ServiceRegistrar, srv AdvisorServer) {
	s.RegisterService(&advisorServiceDesc, srv)
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdvisorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdvisorServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func rankHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdvisorServer).Rank(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rankMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdvisorServer).Rank(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Service implements AdvisorServer on top of an advisor.Advisor.
type Service struct {
	adv *advisor.Advisor
}

func NewService(adv *advisor.Advisor) *Service {
	return &Service{adv: adv}
}

func (s *Service) Evaluate(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req EvaluateRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	score, err := s.adv.Evaluate(req.Action, req.Snapshot)
	if err != nil {
		return nil, statusFor(err)
	}
	return toStruct(score)
}

func (s *Service) Rank(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req RankRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scores, err := s.adv.Rank(req.Snapshot, req.Actions)
	if err != nil {
		return nil, statusFor(err)
	}
	return toStruct(RankResponse{Scores: scores})
}

func statusFor(err error) error {
	if errors.Is(err, advisor.ErrBadRequest) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStruct decodes a Struct into a JSON-tagged Go value.
func fromStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// toStruct encodes a JSON-tagged Go value as a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("decode response: %v", err))
	}
	return out, nil
}
