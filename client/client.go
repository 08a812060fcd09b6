package client

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"tetris/leaderboard"
	"tetris/tetris"
	"time"

	"github.com/eiannone/keyboard"
)

const (
	submitTimeout = 5 * time.Second
	topScores     = 5
)

// Leaderboard is where finished matches are submitted and read back from.
type Leaderboard interface {
	tetris.Leaderboard
	Top(ctx context.Context, limit int) ([]leaderboard.Record, error)
}

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

type renderer interface {
	render(*frame)
}

type Options struct {
	Config      tetris.Config
	Gravity     time.Duration
	Leaderboard Leaderboard
	// Generator is nil for random pieces.
	Generator tetris.Generator
}

type Client struct {
	match   *tetris.Match
	render  renderer
	board   Leaderboard
	logger  *slog.Logger
	kbCh    <-chan keyboard.KeyEvent
	ticker  Ticker
	gravity time.Duration
	top     []leaderboard.Record
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	r, err := newRender(os.Stdout, l)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	return newClient(l, o, r, kb, newWrappedTicker(o.Gravity))
}

func newClient(l *slog.Logger, o *Options, r renderer, kb <-chan keyboard.KeyEvent, t Ticker) (*Client, error) {
	c := &Client{
		render:  r,
		board:   o.Leaderboard,
		logger:  l,
		kbCh:    kb,
		ticker:  t,
		gravity: o.Gravity,
	}
	m, err := tetris.New(&tetris.Options{
		Config:      o.Config,
		Generator:   o.Generator,
		Leaderboard: o.Leaderboard,
		Listener:    c.onEvent,
		Logger:      l,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	c.match = m
	return c, nil
}

// Start runs the game until the player quits. Keyboard events and gravity
// ticks are handled one at a time so the match only sees one command at once.
func (c *Client) Start() {
	c.ticker.Reset(c.gravity)
	defer c.ticker.Stop()
	c.loadTop()
	c.draw()
	for {
		select {
		case event, ok := <-c.kbCh:
			if !ok {
				c.logger.Error("Keyboard events channel closed unexpectedly")
				return
			}
			if event.Err != nil {
				c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
				return
			}
			if !c.handleKey(event) {
				return
			}
		case <-c.ticker.C():
			c.match.Advance()
		}
		c.draw()
	}
}

// handleKey applies a key press to the match. It returns false when the
// player quits.
func (c *Client) handleKey(event keyboard.KeyEvent) bool {
	if event.Key == keyboard.KeyCtrlC {
		return false
	}
	switch c.match.State() {
	case tetris.Playing:
		switch {
		case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
			c.match.MoveCurrent(-1, 0)
		case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
			c.match.MoveCurrent(1, 0)
		case event.Key == keyboard.KeyArrowUp || event.Rune == 'w':
			c.match.RotateCurrent()
		case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
			c.match.Advance()
		case event.Key == keyboard.KeySpace:
			c.match.HardDropCurrent()
		case event.Key == keyboard.KeyEsc:
			return false
		}
	case tetris.EnteringName:
		switch event.Key {
		case keyboard.KeyEnter:
			ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
			defer cancel()
			ok, err := c.match.SubmitName(ctx)
			if err != nil {
				c.logger.Error("unable to save score", slog.String("error", err.Error()))
			}
			if ok {
				c.loadTop()
			}
		case keyboard.KeyEsc:
			c.match.SkipName()
			c.loadTop()
		case keyboard.KeyBackspace, keyboard.KeyBackspace2:
			c.match.Backspace()
		case keyboard.KeySpace:
			c.match.AppendName(' ')
		default:
			if event.Rune != 0 {
				c.match.AppendName(event.Rune)
			}
		}
	case tetris.GameOver:
		switch event.Rune {
		case 'r':
			if m, ok := c.match.Restart(); ok {
				c.match = m
				c.loadTop()
				c.ticker.Reset(c.gravity)
			}
		case 'q':
			return false
		}
	}
	return true
}

func (c *Client) onEvent(e tetris.Event) {
	switch e.Kind {
	case tetris.EventLinesCleared:
		c.logger.Info("lines cleared", slog.Int("lines", e.Lines))
	case tetris.EventEnteringName:
		c.ticker.Stop()
		c.logger.Info("no room for the next piece", slog.Int("score", c.match.Score()))
	case tetris.EventGameOver:
		c.logger.Info("game over", slog.Int("score", c.match.Score()))
	default:
		c.logger.Debug("event", slog.String("kind", string(e.Kind)))
	}
}

func (c *Client) loadTop() {
	if c.board == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	top, err := c.board.Top(ctx, topScores)
	if err != nil {
		c.logger.Error("unable to load leaderboard", slog.String("error", err.Error()))
		return
	}
	c.top = top
}

func (c *Client) draw() {
	c.render.render(&frame{Snapshot: c.match.Snapshot(), Top: c.top})
}
