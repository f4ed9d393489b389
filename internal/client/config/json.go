package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/oz-main-09-team3/emodiary/internal/flagx"
	"github.com/oz-main-09-team3/emodiary/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	AuthToken      string         `json:"auth_token"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
	TimeZone       string         `json:"time_zone"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flag; with neither present nothing is
// loaded. Read and unmarshal errors panic, matching the fail-fast startup
// path. Empty JSON fields keep the value already in cfg.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.AuthToken != "" {
		cfg.AuthToken = jc.AuthToken
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.TimeZone != "" {
		cfg.TimeZone = jc.TimeZone
	}
}
