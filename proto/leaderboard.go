// Package proto describes the leaderboard gRPC service. Messages travel as
// google.protobuf.Struct values and are converted to the typed requests and
// responses below on each side of the wire.
package proto

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName       = "tetris.Leaderboard"
	submitScoreMethod = "/tetris.Leaderboard/SubmitScore"
	topScoresMethod   = "/tetris.Leaderboard/TopScores"
)

type SubmitScoreRequest struct {
	Name  string
	Score int
}

type SubmitScoreResponse struct {
	ID string
}

type TopScoresRequest struct {
	Limit int
}

type Score struct {
	ID    string
	Name  string
	Score int
}

type TopScoresResponse struct {
	Scores []Score
}

// LeaderboardServer is the server API for the leaderboard service.
type LeaderboardServer interface {
	SubmitScore(context.Context, *SubmitScoreRequest) (*SubmitScoreResponse, error)
	TopScores(context.Context, *TopScoresRequest) (*TopScoresResponse, error)
}

// UnimplementedLeaderboardServer can be embedded to have forward compatible implementations.
type UnimplementedLeaderboardServer struct{}

func (UnimplementedLeaderboardServer) SubmitScore(context.Context, *SubmitScoreRequest) (*SubmitScoreResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitScore not implemented")
}

func (UnimplementedLeaderboardServer) TopScores(context.Context, *TopScoresRequest) (*TopScoresResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method TopScores not implemented")
}

func RegisterLeaderboardServer(s grpc.ServiceRegistrar, srv LeaderboardServer) {
	s.RegisterService(&leaderboardServiceDesc, srv)
}

var leaderboardServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LeaderboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitScore", Handler: submitScoreHandler},
		{MethodName: "TopScores", Handler: topScoresHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "leaderboard",
}

func submitScoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		r, err := submitScoreRequestFrom(req.(*structpb.Struct))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := srv.(LeaderboardServer).SubmitScore(ctx, r)
		if err != nil {
			return nil, err
		}
		return structpb.NewStruct(map[string]any{"id": resp.ID})
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitScoreMethod}
	return interceptor(ctx, in, info, handler)
}

func topScoresHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req any) (any, error) {
		limit, err := intField(req.(*structpb.Struct), "limit")
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := srv.(LeaderboardServer).TopScores(ctx, &TopScoresRequest{Limit: limit})
		if err != nil {
			return nil, err
		}
		scores := make([]any, len(resp.Scores))
		for i, s := range resp.Scores {
			scores[i] = map[string]any{"id": s.ID, "name": s.Name, "score": s.Score}
		}
		return structpb.NewStruct(map[string]any{"scores": scores})
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: topScoresMethod}
	return interceptor(ctx, in, info, handler)
}

// LeaderboardClient is the client API for the leaderboard service.
type LeaderboardClient struct {
	cc grpc.ClientConnInterface
}

func NewLeaderboardClient(cc grpc.ClientConnInterface) *LeaderboardClient {
	return &LeaderboardClient{cc: cc}
}

func (c *LeaderboardClient) SubmitScore(ctx context.Context, in *SubmitScoreRequest, opts ...grpc.CallOption) (*SubmitScoreResponse, error) {
	req, err := structpb.NewStruct(map[string]any{"name": in.Name, "score": in.Score})
	if err != nil {
		return nil, fmt.Errorf("failed to encode SubmitScore request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, submitScoreMethod, req, out, opts...); err != nil {
		return nil, err
	}
	id, err := stringField(out, "id")
	if err != nil {
		return nil, fmt.Errorf("failed to decode SubmitScore response: %w", err)
	}
	return &SubmitScoreResponse{ID: id}, nil
}

func (c *LeaderboardClient) TopScores(ctx context.Context, in *TopScoresRequest, opts ...grpc.CallOption) (*TopScoresResponse, error) {
	req, err := structpb.NewStruct(map[string]any{"limit": in.Limit})
	if err != nil {
		return nil, fmt.Errorf("failed to encode TopScores request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, topScoresMethod, req, out, opts...); err != nil {
		return nil, err
	}
	resp := &TopScoresResponse{}
	for _, v := range out.GetFields()["scores"].GetListValue().GetValues() {
		s, err := scoreFrom(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("failed to decode TopScores response: %w", err)
		}
		resp.Scores = append(resp.Scores, s)
	}
	return resp, nil
}

func submitScoreRequestFrom(s *structpb.Struct) (*SubmitScoreRequest, error) {
	name, err := stringField(s, "name")
	if err != nil {
		return nil, err
	}
	score, err := intField(s, "score")
	if err != nil {
		return nil, err
	}
	return &SubmitScoreRequest{Name: name, Score: score}, nil
}

func scoreFrom(s *structpb.Struct) (Score, error) {
	id, err := stringField(s, "id")
	if err != nil {
		return Score{}, err
	}
	name, err := stringField(s, "name")
	if err != nil {
		return Score{}, err
	}
	score, err := intField(s, "score")
	if err != nil {
		return Score{}, err
	}
	return Score{ID: id, Name: name, Score: score}, nil
}

func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return sv.StringValue, nil
}

func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	n := nv.NumberValue
	if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("field %q is not an integer: %v", key, n)
	}
	return int(n), nil
}
