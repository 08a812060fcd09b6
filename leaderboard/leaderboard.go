// Package leaderboard keeps the submitted scores in memory and answers
// top-N queries. It's safe for concurrent use by the gRPC server.
package leaderboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is how many records Top returns when asked for none.
const DefaultLimit = 5

var ErrInvalidRecord = errors.New("invalid record")

type Record struct {
	ID        uuid.UUID
	Name      string
	Score     int
	CreatedAt time.Time
}

type Store struct {
	records []Record
	now     func() time.Time
	mu      sync.RWMutex
}

func New() *Store {
	return &Store{now: time.Now}
}

// Add stores a new record and returns it with its ID.
func (s *Store) Add(ctx context.Context, name string, score int) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Record{}, fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}
	if score < 0 {
		return Record{}, fmt.Errorf("%w: negative score %d", ErrInvalidRecord, score)
	}

	r := Record{
		ID:        uuid.New(),
		Name:      name,
		Score:     score,
		CreatedAt: s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return r, nil
}

// SubmitScore implements the match's leaderboard.
func (s *Store) SubmitScore(ctx context.Context, name string, score int) error {
	_, err := s.Add(ctx, name, score)
	return err
}

// Top returns up to limit records, highest score first. Equal scores keep
// the order they were submitted in.
func (s *Store) Top(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	s.mu.RLock()
	sorted := slices.Clone(s.records)
	s.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b Record) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
