package tetris

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

type State int

const (
	Playing State = iota
	EnteringName
	GameOver
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case EnteringName:
		return "entering_name"
	case GameOver:
		return "game_over"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Match is one game from the first spawn to game over. It is not safe for
// concurrent use: the host calls one command at a time.
type Match struct {
	field         *Field
	current, next Piece
	score         int
	state         State
	name          []rune
	nameCommitted bool

	config      Config
	generator   Generator
	leaderboard Leaderboard
	listener    Listener
	logger      *slog.Logger
	options     Options
}

// New creates a match in the Playing state with an empty field. The next
// piece is drawn first and handed over, so two pieces are drawn before play.
func New(o *Options) (*Match, error) {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.Config == (Config{}) {
		opts.Config = DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Generator == nil {
		opts.Generator = NewRandomGenerator(opts.Config.Colors, rand.Uint64())
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	field, err := NewField(opts.Config.Width, opts.Config.Height)
	if err != nil {
		return nil, err
	}
	m := &Match{
		field:       field,
		state:       Playing,
		config:      opts.Config,
		generator:   opts.Generator,
		leaderboard: opts.Leaderboard,
		listener:    opts.Listener,
		logger:      opts.Logger,
		options:     opts,
	}
	if m.next, err = m.draw(); err != nil {
		return nil, err
	}
	m.current = m.next
	if m.next, err = m.draw(); err != nil {
		return nil, err
	}
	return m, nil
}

// draw returns a piece from the generator placed at the spawn position.
func (m *Match) draw() (Piece, error) {
	p := m.generator.Next()
	if _, err := NewPiece(p.Kind, p.Color); err != nil {
		return Piece{}, fmt.Errorf("generator: %w", err)
	}
	return m.place(p), nil
}

func (m *Match) place(p Piece) Piece {
	return Piece{
		Kind:  p.Kind,
		Color: p.Color,
		X:     (m.config.Width - 4) / 2,
	}
}

// Field returns a copy of the field. Changes to it never reach the match.
func (m *Match) Field() *Field { return m.field.copy() }

// Current returns a copy of the falling piece.
func (m *Match) Current() Piece { return m.current }

// Next returns a copy of the piece that spawns after the current one.
func (m *Match) Next() Piece { return m.next }

func (m *Match) Score() int   { return m.score }
func (m *Match) State() State { return m.state }
func (m *Match) Name() string { return string(m.name) }

func (m *Match) Config() Config { return m.config }

// NameCommitted reports whether the score was handed to the leaderboard.
func (m *Match) NameCommitted() bool { return m.nameCommitted }

// MoveCurrent moves the falling piece by (dx, dy).
func (m *Match) MoveCurrent(dx, dy int) bool {
	if m.state != Playing {
		return false
	}
	return m.current.Move(dx, dy, m.field)
}

// RotateCurrent rotates the falling piece clockwise without wall kicks.
func (m *Match) RotateCurrent() bool {
	if m.state != Playing {
		return false
	}
	return m.current.Rotate(m.field)
}

// HardDropCurrent drops the falling piece to the bottom and locks it.
func (m *Match) HardDropCurrent() bool {
	if m.state != Playing {
		return false
	}
	m.current.HardDrop(m.field)
	m.lock()
	return true
}

// Advance is a gravity step: the piece moves one row down or, if it can't,
// it's locked.
func (m *Match) Advance() bool {
	if m.state != Playing {
		return false
	}
	if !m.current.Move(0, 1, m.field) {
		m.lock()
	}
	return true
}

// lock writes the current piece, clears rows, scores them and spawns the
// next piece. If the new piece has no room the match moves to EnteringName.
func (m *Match) lock() {
	m.emit(Event{Kind: EventPieceLocked})
	m.field.Lock(&m.current)
	m.logger.Debug("piece locked",
		slog.String("kind", m.current.Kind.String()),
		slog.Int("x", m.current.X),
		slog.Int("y", m.current.Y),
	)

	if n := m.field.ClearFullRows(); n > 0 {
		m.score += n * n
		m.emit(Event{Kind: EventLinesCleared, Lines: n})
		m.logger.Debug("lines cleared", slog.Int("lines", n), slog.Int("score", m.score))
	}

	m.spawn()
}

func (m *Match) spawn() {
	next, err := m.draw()
	if err != nil {
		m.logger.Error("invalid piece from generator, drawing a random one", slog.String("error", err.Error()))
		next = m.place(NewRandomGenerator(m.config.Colors, rand.Uint64()).Next())
	}
	m.current, m.next = m.next, next
	if m.field.Collides(&m.current) {
		m.setState(EnteringName)
	}
}

func (m *Match) setState(s State) {
	m.logger.Debug("state changed", slog.String("from", m.state.String()), slog.String("to", s.String()))
	m.state = s
	switch s {
	case EnteringName:
		m.emit(Event{Kind: EventEnteringName})
	case GameOver:
		m.emit(Event{Kind: EventGameOver})
	}
}

func (m *Match) emit(e Event) {
	if m.listener != nil {
		m.listener(e)
	}
}

// AppendName adds r to the player name. Non printable runes and runes past
// the maximum length are rejected.
func (m *Match) AppendName(r rune) bool {
	if m.state != EnteringName {
		return false
	}
	if len(m.name) >= m.config.MaxNameLength || r == utf8.RuneError || !unicode.IsPrint(r) {
		return false
	}
	m.name = append(m.name, r)
	return true
}

// Backspace removes the last rune of the player name.
func (m *Match) Backspace() bool {
	if m.state != EnteringName || len(m.name) == 0 {
		return false
	}
	m.name = m.name[:len(m.name)-1]
	return true
}

// SubmitName hands the trimmed name and the score to the leaderboard and ends
// the match. A blank name is not accepted and leaves the state unchanged.
// A leaderboard failure is returned after the match has moved to GameOver.
func (m *Match) SubmitName(ctx context.Context) (bool, error) {
	if m.state != EnteringName {
		return false, nil
	}
	name := strings.TrimSpace(string(m.name))
	if name == "" {
		return false, nil
	}

	var err error
	if m.leaderboard != nil {
		m.nameCommitted = true
		if err = m.leaderboard.SubmitScore(ctx, name, m.score); err != nil {
			err = fmt.Errorf("failed to submit score: %w", err)
			m.logger.Error("leaderboard submit", slog.String("error", err.Error()))
		}
	}
	m.setState(GameOver)
	return true, err
}

// SkipName ends the match without submitting the score.
func (m *Match) SkipName() bool {
	if m.state != EnteringName {
		return false
	}
	m.name = nil
	m.setState(GameOver)
	return true
}

// Restart returns a brand new match built with the same options. The
// receiver is left untouched and should be discarded by the caller.
func (m *Match) Restart() (*Match, bool) {
	if m.state != GameOver {
		return nil, false
	}
	opts := m.options
	n, err := New(&opts)
	if err != nil {
		m.logger.Error("unable to restart", slog.String("error", err.Error()))
		return nil, false
	}
	return n, true
}

// Snapshot is a copy of the match that's safe to read after the match moves on.
type Snapshot struct {
	Field     *Field
	Current   Piece
	Next      Piece
	Score     int
	State     State
	Name      string
	Committed bool
}

func (m *Match) Snapshot() *Snapshot {
	return &Snapshot{
		Field:     m.field.copy(),
		Current:   m.current,
		Next:      m.next,
		Score:     m.score,
		State:     m.state,
		Name:      string(m.name),
		Committed: m.nameCommitted,
	}
}
