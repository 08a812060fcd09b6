package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"tetris/client"
	"tetris/config"
	"tetris/leaderboard"

	"github.com/eiannone/keyboard"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[2J\033[H\033[?25h"
)

func main() {
	address := flag.String("address", "", "leaderboard server address, e.g. localhost:9000")
	gravity := flag.Duration("gravity", 0, "time between gravity steps, e.g. 500ms")
	width := flag.Int("width", 0, "field width")
	height := flag.Int("height", 0, "field height")
	debug := flag.Bool("debug", false, "write debug logs")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("unable to load config: %v", err)
	}
	if *address != "" {
		cfg.Leaderboard = *address
	}
	if *gravity > 0 {
		cfg.GravityMS = int(gravity.Milliseconds())
	}
	if *width > 0 {
		cfg.Game.Width = *width
	}
	if *height > 0 {
		cfg.Game.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := run(cfg, *debug); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config, debug bool) error {
	logger, closeLog, err := newLogger(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	var lb client.Leaderboard = leaderboard.New()
	if cfg.Leaderboard != "" {
		r, err := client.NewRemoteLeaderboard(cfg.Leaderboard, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := r.Close(); err != nil {
				logger.Error("unable to close leaderboard connection", slog.String("error", err.Error()))
			}
		}()
		lb = r
	}

	c, err := client.New(logger, &client.Options{
		Config:      cfg.Game,
		Gravity:     cfg.Gravity(),
		Leaderboard: lb,
	})
	if err != nil {
		return fmt.Errorf("unable to start client: %w", err)
	}
	defer keyboard.Close() //nolint: errcheck

	fmt.Print(hideCursor)
	defer fmt.Print(showCursor)
	c.Start()
	return nil
}

// newLogger writes JSON logs to the XDG state directory since the terminal
// is busy rendering the game.
func newLogger(debug bool) (*slog.Logger, func(), error) {
	path, err := config.LogFile()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to find log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil //nolint: errcheck
}
