package client

import (
	"context"
	"fmt"
	"log/slog"
	"tetris/leaderboard"
	"tetris/proto"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// RemoteLeaderboard submits and reads scores from a leaderboard server.
type RemoteLeaderboard struct {
	Addr   string
	Logger *slog.Logger

	conn *grpc.ClientConn
	lc   *proto.LeaderboardClient
}

func NewRemoteLeaderboard(addr string, l *slog.Logger) (*RemoteLeaderboard, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	r := newRemoteLeaderboard(conn, l)
	r.Addr = addr
	r.conn = conn
	return r, nil
}

func newRemoteLeaderboard(cc grpc.ClientConnInterface, l *slog.Logger) *RemoteLeaderboard {
	return &RemoteLeaderboard{
		Logger: l,
		lc:     proto.NewLeaderboardClient(cc),
	}
}

func (r *RemoteLeaderboard) SubmitScore(ctx context.Context, name string, score int) error {
	resp, err := r.lc.SubmitScore(ctx, &proto.SubmitScoreRequest{Name: name, Score: score})
	if err != nil {
		r.logError("SubmitScore", err)
		return fmt.Errorf("unable to submit score: %w", err)
	}
	r.Logger.Debug("score submitted", slog.String("id", resp.ID), slog.Int("score", score))
	return nil
}

func (r *RemoteLeaderboard) Top(ctx context.Context, limit int) ([]leaderboard.Record, error) {
	resp, err := r.lc.TopScores(ctx, &proto.TopScoresRequest{Limit: limit})
	if err != nil {
		r.logError("TopScores", err)
		return nil, fmt.Errorf("unable to read top scores: %w", err)
	}
	records := make([]leaderboard.Record, 0, len(resp.Scores))
	for _, s := range resp.Scores {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid record id %q: %w", s.ID, err)
		}
		records = append(records, leaderboard.Record{ID: id, Name: s.Name, Score: s.Score})
	}
	return records, nil
}

func (r *RemoteLeaderboard) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RemoteLeaderboard) logError(method string, err error) {
	st, ok := status.FromError(err)
	switch {
	case ok && st.Code() == codes.Canceled:
		r.Logger.Debug(method+" canceled", slog.String("msg", st.Message()))
	case ok && st.Code() == codes.DeadlineExceeded:
		r.Logger.Debug(method+" deadline exceeded", slog.String("msg", st.Message()))
	default:
		r.Logger.Error(method+" failed", slog.String("error", err.Error()))
	}
}
