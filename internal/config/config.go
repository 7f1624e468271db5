// Package config loads process settings from the environment.
//
// A .env file in the working directory is read first when present; real
// environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server process.
type Config struct {
	Host           string        `env:"HOST" envDefault:"127.0.0.1"`
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty      bool          `env:"LOG_PRETTY" envDefault:"false"`
	DBPath         string        `env:"DB_PATH" envDefault:"./data/pairs.db"`
	TokenSecret    string        `env:"TOKEN_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	BoardsFile     string        `env:"BOARDS_FILE"`
	DefaultBoard   string        `env:"DEFAULT_BOARD" envDefault:"beginner"`
	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
	DailyBoard     string        `env:"DAILY_BOARD" envDefault:"intermediate"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// Addr is the listen address.
func (c Config) Addr() string { return net.JoinHostPort(c.Host, c.Port) }

// Load reads files (default ".env") into the environment without
// overriding variables that are already set, then parses Config.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL <= 0 || cfg.SessionTTL <= 0 || cfg.RequestTimeout <= 0 {
		return Config{}, errors.New("parse env: durations must be positive")
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
