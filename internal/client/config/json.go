package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/homecloud-app/homecloud/internal/flagx"
	"github.com/homecloud-app/homecloud/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "5s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerAddr       string         `json:"server_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	DownloadDir      string         `json:"download_dir"`
	ChatSyncInterval timex.Duration `json:"chat_sync_interval"`
	UploadPrivate    bool           `json:"upload_private"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	cfg.ServerAddr = jc.ServerAddr
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.DownloadDir = jc.DownloadDir
	cfg.ChatSyncInterval = time.Duration(jc.ChatSyncInterval.Duration)
	cfg.UploadPrivate = jc.UploadPrivate
}
