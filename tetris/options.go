package tetris

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// Config holds the dimensions and limits of a match.
type Config struct {
	Width         int `json:"width"`
	Height        int `json:"height"`
	MaxNameLength int `json:"max_name_length"`
	Colors        int `json:"colors"`
}

func DefaultConfig() Config {
	return Config{
		Width:         10,
		Height:        20,
		MaxNameLength: 20,
		Colors:        7,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Width < minFieldSize || c.Height < minFieldSize:
		return fmt.Errorf("%w: field %dx%d is smaller than %dx%d", ErrInvalidConfig, c.Width, c.Height, minFieldSize, minFieldSize)
	case c.MaxNameLength < 1:
		return fmt.Errorf("%w: max name length %d", ErrInvalidConfig, c.MaxNameLength)
	case c.Colors < 1:
		return fmt.Errorf("%w: palette size %d", ErrInvalidConfig, c.Colors)
	}
	return nil
}

// Generator draws the next piece. Only Kind and Color are used, the match
// places the piece at the spawn position.
type Generator interface {
	Next() Piece
}

type randomGenerator struct {
	colors int
	rnd    *rand.Rand
}

// NewRandomGenerator returns a generator that picks kinds and colors uniformly.
func NewRandomGenerator(colors int, seed uint64) Generator {
	return &randomGenerator{
		colors: colors,
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (g *randomGenerator) Next() Piece {
	return Piece{
		Kind:  Kind(g.rnd.IntN(numKinds)),
		Color: 1 + g.rnd.IntN(g.colors),
	}
}

// Leaderboard receives the final score once a name has been submitted.
type Leaderboard interface {
	SubmitScore(ctx context.Context, name string, score int) error
}

// Options configures a new Match. Nil fields get defaults: a random generator,
// no leaderboard, no listener and a discarding logger.
type Options struct {
	Config      Config
	Generator   Generator
	Leaderboard Leaderboard
	Listener    Listener
	Logger      *slog.Logger
}
