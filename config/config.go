// Package config loads the game settings from the XDG config directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"tetris/tetris"
	"time"

	"github.com/adrg/xdg"
)

var (
	cfgFile = "tetris/config.json"
	logFile = "tetris/tetris.log"
)

type Config struct {
	Game tetris.Config `json:"game"`
	// GravityMS is how often the falling piece moves one row down.
	GravityMS int `json:"gravity_ms"`
	// Leaderboard is the address of the leaderboard server. Empty keeps the
	// scores in memory for the session.
	Leaderboard string `json:"leaderboard"`
}

func Default() Config {
	return Config{
		Game:      tetris.DefaultConfig(),
		GravityMS: 800,
	}
}

// Load reads the config file if there's one, otherwise it returns the defaults.
func Load() (*Config, error) {
	path, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		c := Default()
		return &c, nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their default value.
func LoadFile(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	if c.GravityMS <= 0 {
		return fmt.Errorf("%w: gravity %dms", tetris.ErrInvalidConfig, c.GravityMS)
	}
	return nil
}

func (c *Config) Gravity() time.Duration {
	return time.Duration(c.GravityMS) * time.Millisecond
}

// LogFile returns the path of the log file, creating its directory.
func LogFile() (string, error) {
	return xdg.StateFile(logFile)
}
