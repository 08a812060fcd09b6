package tetris_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"tetris/tetris"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLeaderboard struct {
	calls int
	name  string
	score int
	err   error
}

func (m *mockLeaderboard) SubmitScore(_ context.Context, name string, score int) error {
	m.calls++
	m.name = name
	m.score = score
	return m.err
}

type recorder struct {
	events []tetris.Event
}

func (r *recorder) listen(e tetris.Event) { r.events = append(r.events, e) }

// enteringName stacks O pieces in the spawn columns until the next spawn has
// no room. Nothing is cleared so the score stays 0.
func enteringName(t *testing.T, o *tetris.Options) *tetris.Match {
	t.Helper()
	m := tetris.NewTestMatch(tetris.O, o)
	for range m.Config().Height {
		if m.State() != tetris.Playing {
			break
		}
		m.HardDropCurrent()
	}
	require.Equal(t, tetris.EnteringName, m.State())
	return m
}

// flakyGenerator hands out valid O pieces, then an unknown kind.
type flakyGenerator struct {
	valid int
}

func (g *flakyGenerator) Next() tetris.Piece {
	if g.valid > 0 {
		g.valid--
		return tetris.Piece{Kind: tetris.O, Color: 7}
	}
	return tetris.Piece{Kind: tetris.Kind(9), Color: 1}
}

func TestNew(t *testing.T) {
	t.Run("New match spawns next then current", func(t *testing.T) {
		m, err := tetris.New(&tetris.Options{
			Generator: &tetris.SequenceGenerator{Kinds: []tetris.Kind{tetris.I, tetris.O, tetris.T}},
		})
		require.NoError(t, err)
		assert.Equal(t, tetris.Playing, m.State())
		assert.Zero(t, m.Score())
		assert.Equal(t, tetris.Piece{Kind: tetris.I, Color: 1, X: 3, Y: 0}, m.Current())
		assert.Equal(t, tetris.O, m.Next().Kind)
	})

	t.Run("Nil options use the defaults", func(t *testing.T) {
		m, err := tetris.New(nil)
		require.NoError(t, err)
		assert.Equal(t, tetris.DefaultConfig(), m.Config())
		assert.Equal(t, 10, m.Field().Width())
		assert.Equal(t, 20, m.Field().Height())
		c := m.Current()
		assert.True(t, c.Kind.Valid())
		assert.GreaterOrEqual(t, c.Color, 1)
		assert.LessOrEqual(t, c.Color, 7)
	})

	t.Run("Invalid configuration fails fast", func(t *testing.T) {
		tests := []tetris.Config{
			{Width: 3, Height: 20, MaxNameLength: 20, Colors: 7},
			{Width: 10, Height: 2, MaxNameLength: 20, Colors: 7},
			{Width: 10, Height: 20, MaxNameLength: 0, Colors: 7},
			{Width: 10, Height: 20, MaxNameLength: 20, Colors: 0},
		}
		for _, c := range tests {
			_, err := tetris.New(&tetris.Options{Config: c})
			assert.ErrorIs(t, err, tetris.ErrInvalidConfig, "config %+v", c)
		}
	})

	t.Run("Unsupported piece kind fails fast", func(t *testing.T) {
		_, err := tetris.New(&tetris.Options{
			Generator: &tetris.SequenceGenerator{Kinds: []tetris.Kind{tetris.Kind(9)}},
		})
		assert.ErrorIs(t, err, tetris.ErrInvalidConfig)
	})
}

func TestMatchFieldIsACopy(t *testing.T) {
	m := tetris.NewTestMatch(tetris.O, nil)
	f := m.Field()
	f.FillRow(5, 3)
	f.FillRow(0, 4)

	assert.Equal(t, 3, f.Cell(0, 5))
	assert.Zero(t, m.Field().Cell(0, 5))
	assert.Zero(t, m.Field().Cell(4, 0))
	assert.True(t, m.MoveCurrent(0, 1))
}

func TestAdvance(t *testing.T) {
	rec := &recorder{}
	m := tetris.NewTestMatch(tetris.O, &tetris.Options{Listener: rec.listen})
	for range 18 {
		require.True(t, m.Advance())
	}
	require.Equal(t, 18, m.Current().Y)
	assert.Empty(t, rec.events)

	m.Advance()
	assert.Equal(t, []tetris.Event{{Kind: tetris.EventPieceLocked}}, rec.events)
	assert.Zero(t, m.Current().Y, "new piece at the top")
	assert.Equal(t, 7, m.Field().Cell(4, 19))
	assert.Equal(t, 7, m.Field().Cell(5, 18))
	assert.Zero(t, m.Score())
}

func TestLineClear(t *testing.T) {
	// bottom row is full except columns 4 and 5, the O piece fills them.
	rec := &recorder{}
	m := tetris.NewTestMatch(tetris.O, &tetris.Options{Listener: rec.listen})
	m.FillRow(19, 1, 4, 5)

	require.True(t, m.HardDropCurrent())
	assert.Equal(t, 1, m.Score())
	assert.Equal(t, []tetris.Event{
		{Kind: tetris.EventPieceLocked},
		{Kind: tetris.EventLinesCleared, Lines: 1},
	}, rec.events)

	// the top half of the O moved down into the cleared row.
	f := m.Field()
	for x := range 10 {
		want := 0
		if x == 4 || x == 5 {
			want = 7
		}
		assert.Equal(t, want, f.Cell(x, 19), "cell (%d,19)", x)
		assert.Zero(t, f.Cell(x, 18), "cell (%d,18)", x)
	}
}

func TestScore(t *testing.T) {
	// a vertical I dropped in column 0 completes n rows.
	tests := []struct {
		lines     int
		wantScore int
	}{
		{lines: 0, wantScore: 0},
		{lines: 1, wantScore: 1},
		{lines: 2, wantScore: 4},
		{lines: 3, wantScore: 9},
		{lines: 4, wantScore: 16},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d lines", tt.lines), func(t *testing.T) {
			t.Parallel()
			m := tetris.NewTestMatch(tetris.I, nil)
			for y := 20 - tt.lines; y < 20; y++ {
				m.FillRow(y, 2, 0)
			}
			require.True(t, m.MoveCurrent(-4, 0), "move to column 0")
			m.HardDropCurrent()
			assert.Equal(t, tt.wantScore, m.Score())
		})
	}

	t.Run("Score accumulates", func(t *testing.T) {
		m := tetris.NewTestMatch(tetris.O, nil)
		m.FillRow(19, 1, 4, 5)
		m.HardDropCurrent()
		m.FillRow(19, 1, 4, 5)
		m.FillRow(18, 1, 4, 5)
		m.HardDropCurrent()
		assert.Equal(t, 5, m.Score())
	})
}

func TestGameOver(t *testing.T) {
	t.Run("Spawn without room enters name capture", func(t *testing.T) {
		rec := &recorder{}
		enteringName(t, &tetris.Options{Listener: rec.listen})
		require.Len(t, rec.events, 11)
		for _, e := range rec.events[:10] {
			assert.Equal(t, tetris.Event{Kind: tetris.EventPieceLocked}, e)
		}
		assert.Equal(t, tetris.Event{Kind: tetris.EventEnteringName}, rec.events[10])
	})

	t.Run("Play commands are rejected outside playing", func(t *testing.T) {
		m := enteringName(t, nil)
		before := m.Current()
		assert.False(t, m.MoveCurrent(1, 0))
		assert.False(t, m.RotateCurrent())
		assert.False(t, m.HardDropCurrent())
		assert.False(t, m.Advance())
		assert.Equal(t, before, m.Current())
		_, ok := m.Restart()
		assert.False(t, ok, "restart before game over")
	})

	t.Run("Name commands are rejected while playing", func(t *testing.T) {
		m := tetris.NewTestMatch(tetris.T, nil)
		assert.False(t, m.AppendName('a'))
		assert.False(t, m.Backspace())
		assert.False(t, m.SkipName())
		ok, err := m.SubmitName(context.Background())
		assert.False(t, ok)
		assert.NoError(t, err)
	})

	t.Run("Invalid piece from the generator is replaced", func(t *testing.T) {
		m, err := tetris.New(&tetris.Options{Generator: &flakyGenerator{valid: 2}})
		require.NoError(t, err)
		assert.NotPanics(t, func() { m.HardDropCurrent() })
		assert.Equal(t, tetris.Playing, m.State())
		next := m.Next()
		assert.True(t, next.Kind.Valid())
		assert.Equal(t, 3, next.X)
		assert.GreaterOrEqual(t, next.Color, 1)
		assert.LessOrEqual(t, next.Color, m.Config().Colors)
		assert.True(t, m.HardDropCurrent())
	})
}

func TestNameEntry(t *testing.T) {
	t.Run("Blank name is rejected", func(t *testing.T) {
		lb := &mockLeaderboard{}
		m := enteringName(t, &tetris.Options{Leaderboard: lb})
		for range 3 {
			m.AppendName(' ')
		}
		ok, err := m.SubmitName(context.Background())
		assert.False(t, ok)
		assert.NoError(t, err)
		assert.Equal(t, tetris.EnteringName, m.State())
		assert.Zero(t, lb.calls)
	})

	t.Run("Submit hands the name and score to the leaderboard", func(t *testing.T) {
		lb := &mockLeaderboard{}
		rec := &recorder{}
		m := enteringName(t, &tetris.Options{Leaderboard: lb, Listener: rec.listen})
		for _, r := range " Ann " {
			m.AppendName(r)
		}
		ok, err := m.SubmitName(context.Background())
		require.True(t, ok)
		require.NoError(t, err)
		assert.Equal(t, tetris.GameOver, m.State())
		assert.Equal(t, 1, lb.calls)
		assert.Equal(t, "Ann", lb.name)
		assert.Equal(t, m.Score(), lb.score)
		assert.True(t, m.NameCommitted())
		assert.Equal(t, tetris.EventGameOver, rec.events[len(rec.events)-1].Kind)
	})

	t.Run("Leaderboard failure still ends the match", func(t *testing.T) {
		boom := errors.New("boom")
		lb := &mockLeaderboard{err: boom}
		m := enteringName(t, &tetris.Options{Leaderboard: lb})
		m.AppendName('x')
		ok, err := m.SubmitName(context.Background())
		assert.True(t, ok)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, tetris.GameOver, m.State())
	})

	t.Run("Skip discards the name", func(t *testing.T) {
		lb := &mockLeaderboard{}
		m := enteringName(t, &tetris.Options{Leaderboard: lb})
		m.AppendName('x')
		require.True(t, m.SkipName())
		assert.Equal(t, tetris.GameOver, m.State())
		assert.Empty(t, m.Name())
		assert.False(t, m.NameCommitted())
		assert.Zero(t, lb.calls)
	})

	t.Run("Name length and printable runes", func(t *testing.T) {
		c := tetris.DefaultConfig()
		c.MaxNameLength = 3
		m := enteringName(t, &tetris.Options{Config: c})
		assert.False(t, m.AppendName('\n'))
		assert.False(t, m.AppendName('\x1b'))
		for _, r := range "abé" {
			assert.True(t, m.AppendName(r), "rune %q", r)
		}
		assert.False(t, m.AppendName('d'), "past max length")
		assert.Equal(t, "abé", m.Name())
		for range 3 {
			m.Backspace()
		}
		assert.False(t, m.Backspace(), "backspace on an empty name")
	})
}

func TestRestart(t *testing.T) {
	m := enteringName(t, nil)
	m.SkipName()

	n, ok := m.Restart()
	require.True(t, ok)
	assert.NotSame(t, m, n)
	assert.Equal(t, tetris.Playing, n.State())
	assert.Zero(t, n.Score())
	f := n.Field()
	for y := range f.Height() {
		for x := range f.Width() {
			require.Zero(t, f.Cell(x, y), "cell (%d,%d)", x, y)
		}
	}
	assert.Equal(t, tetris.GameOver, m.State(), "old match untouched")
}

func TestSnapshot(t *testing.T) {
	m := tetris.NewTestMatch(tetris.O, nil)
	s := m.Snapshot()
	m.HardDropCurrent()
	assert.Zero(t, s.Field.Cell(4, 19))
	assert.Zero(t, s.Current.Y)
	assert.Equal(t, tetris.Playing, s.State)
}
