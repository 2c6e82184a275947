// Package config holds the server settings and their defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings of the game server.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// AllowOrigins is the comma separated CORS origin list, also used to
	// restrict websocket origins.
	AllowOrigins string

	// WSBufferSize sets both the read and write buffer of websocket connections.
	WSBufferSize int

	// MatchmakingInterval is how often queued players are paired.
	MatchmakingInterval time.Duration
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Addr:                ":3000",
		AllowOrigins:        "http://localhost:5173",
		WSBufferSize:        1024,
		MatchmakingInterval: time.Second,
	}
}

// Load returns the defaults overridden by CHESS_* environment variables.
func Load() (*Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (*Config, error) {
	cfg := NewConfig()
	if v, ok := lookup("CHESS_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESS_ALLOW_ORIGINS"); ok && v != "" {
		cfg.AllowOrigins = v
	}
	if v, ok := lookup("CHESS_WS_BUFFER"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CHESS_WS_BUFFER %q", v)
		}
		cfg.WSBufferSize = n
	}
	if v, ok := lookup("CHESS_MATCHMAKING_INTERVAL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid CHESS_MATCHMAKING_INTERVAL %q", v)
		}
		cfg.MatchmakingInterval = d
	}
	return cfg, nil
}

// Origins splits AllowOrigins into its entries.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
