package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/akarpovs/bannerdesk/internal/flagx"
	"github.com/akarpovs/bannerdesk/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "2s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	SessionDBPath string         `json:"session_db_path"`
	WatchInterval timex.Duration `json:"watch_interval"`
}

// parseJson overlays cfg with values loaded from a JSON file selected via
// the -c or -config flags. When no file is given the function returns
// without touching cfg; read or unmarshal errors panic (startup-time only).
// Only fields present in the file override; absent fields keep their
// current values.
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

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.SessionDBPath != "" {
		cfg.SessionDBPath = jc.SessionDBPath
	}
	if jc.WatchInterval.Duration != 0 {
		cfg.WatchInterval = time.Duration(jc.WatchInterval.Duration)
	}
}
