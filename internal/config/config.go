// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	PollInterval  time.Duration
	CountAPIURL   string
	CountAPIToken string
	WindowMinutes int
}

// HasCountSource returns true when an upstream count API is configured.
// Without one the app starts and serves the dashboard, but visitor counts
// stay at their last stored values until a source is configured.
func (c *Config) HasCountSource() bool {
	return c.CountAPIURL != ""
}

// Window returns the count filter window as a duration. Zero means "latest
// sample regardless of age".
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowMinutes) * time.Minute
}

// Load reads configuration from environment variables and returns a validated Config.
// The count API settings (FLOORWATCH_COUNT_API_URL, FLOORWATCH_COUNT_API_TOKEN)
// are optional; if absent, polling is inactive. Optional variables with
// defaults: FLOORWATCH_POLL_INTERVAL (1m), FLOORWATCH_LISTEN_ADDR
// (127.0.0.1:8080), FLOORWATCH_DB_PATH (floorwatch.db),
// FLOORWATCH_WINDOW_MINUTES (1440, i.e. the last 24 hours; 0 disables the
// window).
func Load() (*Config, error) {
	pollInterval := time.Minute
	if v, ok := os.LookupEnv("FLOORWATCH_POLL_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("FLOORWATCH_POLL_INTERVAL has invalid duration %q: %w", v, err)
		}
		pollInterval = parsed
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("FLOORWATCH_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "floorwatch.db"
	if v, ok := os.LookupEnv("FLOORWATCH_DB_PATH"); ok {
		dbPath = v
	}

	windowMinutes := 1440
	if v, ok := os.LookupEnv("FLOORWATCH_WINDOW_MINUTES"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("FLOORWATCH_WINDOW_MINUTES has invalid value %q", v)
		}
		windowMinutes = parsed
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		PollInterval:  pollInterval,
		CountAPIURL:   os.Getenv("FLOORWATCH_COUNT_API_URL"),
		CountAPIToken: os.Getenv("FLOORWATCH_COUNT_API_TOKEN"),
		WindowMinutes: windowMinutes,
	}, nil
}
