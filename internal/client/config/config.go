// Package config loads runtime configuration for the diary CLI.
//
// Sources and precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
package config

import "time"

// Config holds runtime settings for the diary CLI.
//
// Fields:
//   - BaseURL: root of the backend REST API, no trailing slash required.
//   - AuthToken: bearer token sent with every request; empty for anonymous use.
//   - RequestTimeout: per-request deadline for gateway calls.
//   - LogLevel: zap level name ("debug", "info", "warn", "error").
//   - TimeZone: IANA zone name for calendar-day bucketing; empty means the
//     process-local zone.
type Config struct {
	BaseURL        string
	AuthToken      string
	RequestTimeout time.Duration
	LogLevel       string
	TimeZone       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.AuthToken = ""
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.TimeZone = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Location resolves TimeZone, falling back to the local zone when the name
// is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}
