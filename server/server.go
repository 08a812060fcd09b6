package server

import (
	"context"
	"errors"
	"log/slog"
	"tetris/leaderboard"
	"tetris/proto"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// maxLimit caps how many records a single TopScores call can return.
const maxLimit = 100

type leaderboardServer struct {
	proto.UnimplementedLeaderboardServer
	store  *leaderboard.Store
	logger *slog.Logger
}

func New(s *leaderboard.Store, l *slog.Logger) proto.LeaderboardServer {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return &leaderboardServer{store: s, logger: l}
}

func (l *leaderboardServer) SubmitScore(ctx context.Context, req *proto.SubmitScoreRequest) (*proto.SubmitScoreResponse, error) {
	r, err := l.store.Add(ctx, req.Name, req.Score)
	if err != nil {
		if errors.Is(err, leaderboard.ErrInvalidRecord) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.FromContextError(err).Err()
	}
	l.logger.Info("score submitted",
		slog.String("id", r.ID.String()),
		slog.String("name", r.Name),
		slog.Int("score", r.Score),
	)
	return &proto.SubmitScoreResponse{ID: r.ID.String()}, nil
}

func (l *leaderboardServer) TopScores(ctx context.Context, req *proto.TopScoresRequest) (*proto.TopScoresResponse, error) {
	if req.Limit < 0 || req.Limit > maxLimit {
		return nil, status.Errorf(codes.InvalidArgument, "limit must be between 0 and %d", maxLimit)
	}
	records, err := l.store.Top(ctx, req.Limit)
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}
	resp := &proto.TopScoresResponse{Scores: make([]proto.Score, len(records))}
	for i, r := range records {
		resp.Scores[i] = proto.Score{ID: r.ID.String(), Name: r.Name, Score: r.Score}
	}
	return resp, nil
}
