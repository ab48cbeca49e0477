// Package config loads papercheck client configuration from the environment.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the check progress feed. The reconnect policy is deliberately
// a fixed interval, not exponential: the feed is low-frequency and a short
// constant delay keeps the worst-case catch-up latency predictable.
const (
	DefaultAPIBaseURL        = "http://localhost:8888/api/v1"
	DefaultWSURL             = "ws://localhost:8888/ws"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultReconnectAttempts = 5
	DefaultReconnectInterval = 3 * time.Second
)

// Config holds everything the client needs to reach the checking service.
type Config struct {
	APIBaseURL        string
	WSURL             string
	HTTPTimeout       time.Duration
	ReconnectAttempts int
	ReconnectInterval time.Duration
}

// Load reads configuration from PAPERCHECK_* environment variables, falling
// back to defaults. Callers may still override individual fields afterwards
// (e.g. from CLI flags).
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("papercheck")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("ws_url", DefaultWSURL)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("reconnect_attempts", DefaultReconnectAttempts)
	v.SetDefault("reconnect_interval", DefaultReconnectInterval)

	return &Config{
		APIBaseURL:        strings.TrimRight(v.GetString("api_base_url"), "/"),
		WSURL:             strings.TrimRight(v.GetString("ws_url"), "/"),
		HTTPTimeout:       v.GetDuration("http_timeout"),
		ReconnectAttempts: v.GetInt("reconnect_attempts"),
		ReconnectInterval: v.GetDuration("reconnect_interval"),
	}
}
