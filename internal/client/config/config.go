package config

import "time"

// Config holds runtime settings for the HomeCloud CLI.
//
// Fields:
//   - ServerAddr: base URL of the backend REST API.
//   - DatabaseDSN: path of the local sqlite database (session + chat mirror).
//   - DownloadDir: directory downloads are saved to.
//   - ChatSyncInterval: how often the chat loop pulls server history.
//   - UploadPrivate: whether new uploads are private by default.
type Config struct {
	ServerAddr       string
	DatabaseDSN      string
	DownloadDir      string
	ChatSyncInterval time.Duration
	UploadPrivate    bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://localhost:8000/api"
	c.DatabaseDSN = "homecloud.db"
	c.DownloadDir = "downloads"
	c.ChatSyncInterval = 5 * time.Second
	c.UploadPrivate = false
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
