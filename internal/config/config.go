// internal/config/config.go
//
// Process configuration, read from the environment (and .env in development).
//
// Environment variables:
//   PORT               listen port (default 5175)
//   LOG_LEVEL          zerolog level (default info)
//   LOG_FORMAT         json | console (default json)
//   JWT_SECRET         session token signing key (default dev secret)
//   CLIENT_ORIGIN      CORS origin for the browser client
//   SESSION_TTL        idle session eviction, Go duration (default 30m)
//   MATCH_DELAY_MS     settle delay before a match is confirmed (600)
//   MISMATCH_DELAY_MS  settle delay before a mismatch flips back (1000)
//   TICK_INTERVAL_MS   round clock period (1000)
//   SYMBOLS_FILE       alternative tile palette, one symbol per line
//   DIFFICULTIES_FILE  JSON presets merged over easy/medium/hard

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yagogamebrasil01-cpu/memory-rush/internal/game"
	"github.com/yagogamebrasil01-cpu/memory-rush/internal/symbols"
)

const devSecret = "dev_secret_change_me"

type Config struct {
	Port         string
	LogLevel     string
	LogFormat    string
	JWTSecret    string
	ClientOrigin string
	SessionTTL   time.Duration

	Game         game.Options
	Difficulties game.Difficulties
}

// Load reads .env (if present) and the environment, then loads and
// validates the palette and difficulty presets. Any inconsistency is
// reported as game.ErrConfiguration.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function. Split out for tests.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:         get("PORT", "5175"),
		LogLevel:     get("LOG_LEVEL", "info"),
		LogFormat:    get("LOG_FORMAT", "json"),
		JWTSecret:    get("JWT_SECRET", devSecret),
		ClientOrigin: get("CLIENT_ORIGIN", "http://localhost:5173"),
	}

	ttl, err := time.ParseDuration(get("SESSION_TTL", "30m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("%w: SESSION_TTL %q", game.ErrConfiguration, getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	for _, f := range []struct {
		key string
		def int
		dst *time.Duration
	}{
		{"MATCH_DELAY_MS", 600, &cfg.Game.MatchDelay},
		{"MISMATCH_DELAY_MS", 1000, &cfg.Game.MismatchDelay},
		{"TICK_INTERVAL_MS", 1000, &cfg.Game.TickInterval},
	} {
		n, err := strconv.Atoi(get(f.key, strconv.Itoa(f.def)))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer", game.ErrConfiguration, f.key)
		}
		*f.dst = time.Duration(n) * time.Millisecond
	}

	palette, err := symbols.Load(getenv("SYMBOLS_FILE"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrConfiguration, err)
	}
	cfg.Game.Palette = palette

	ds, err := loadDifficulties(getenv("DIFFICULTIES_FILE"))
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(len(palette)); err != nil {
		return nil, err
	}
	cfg.Difficulties = ds

	return cfg, nil
}

// InsecureSecret reports whether the built-in development secret is in use.
func (c *Config) InsecureSecret() bool { return c.JWTSecret == devSecret }

func loadDifficulties(path string) (game.Difficulties, error) {
	if path == "" {
		return game.DefaultDifficulties(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", game.ErrConfiguration, err)
	}
	defer f.Close()
	return game.DecodeDifficulties(f)
}
