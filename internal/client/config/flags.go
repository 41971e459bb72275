package config

import (
	"flag"
	"os"
	"time"

	"github.com/homecloud-app/homecloud/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend REST API (default from Config)
//	-d string   path of the local sqlite database (default from Config)
//	-o string   download directory (default from Config)
//	-i int      chat sync interval in seconds (default from Config)
//	-p          upload files as private by default
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-o", "-i", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "base URL of the backend REST API")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "path of the local sqlite database")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory downloads are saved to")
	syncInterval := fs.Int("i", int(cfg.ChatSyncInterval.Seconds()), "chat sync interval (in seconds)")
	fs.BoolVar(&cfg.UploadPrivate, "p", cfg.UploadPrivate, "upload files as private by default")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ChatSyncInterval = time.Duration(*syncInterval) * time.Second
}
