// internal/config/config.go
//
// Runtime configuration for the scoreboard server.
// Values come from the process environment, optionally seeded from a .env
// file in the working directory (development convenience).
//
// Environment variables:
//   PORT, LOG_LEVEL, LOG_FORMAT, TOKEN_SECRET, TOKEN_TTL, SECURE_COOKIES,
//   ANIMATION_DURATION, BOARD_IDLE_TTL, SWEEP_INTERVAL, HEARTBEAT_INTERVAL,
//   REQUEST_TIMEOUT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server.
type Config struct {
	Port      string `env:"PORT" envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	TokenSecret   string        `env:"TOKEN_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	AnimationDuration time.Duration `env:"ANIMATION_DURATION" envDefault:"260ms"`
	BoardIdleTTL      time.Duration `env:"BOARD_IDLE_TTL" envDefault:"24h"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" envDefault:"15s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then parses the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("config: PORT is empty")
	case c.TokenSecret == "":
		return errors.New("config: TOKEN_SECRET is empty")
	case c.TokenTTL <= 0:
		return errors.New("config: TOKEN_TTL must be positive")
	case c.SweepInterval <= 0:
		return errors.New("config: SWEEP_INTERVAL must be positive")
	case c.HeartbeatInterval <= 0:
		return errors.New("config: HEARTBEAT_INTERVAL must be positive")
	case c.AnimationDuration < 0:
		return errors.New("config: ANIMATION_DURATION must not be negative")
	}
	return nil
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
