// Package config loads runtime configuration for the HomeCloud CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path of the local sqlite database
//	-o string   directory downloads are saved to
//	-i int      chat sync interval (seconds)
//	-p          upload files as private by default
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "5s" or integer nanoseconds:
//
//	{
//	  "server_addr": "http://192.168.1.10:8000/api",
//	  "database_dsn": "homecloud.db",
//	  "download_dir": "downloads",
//	  "chat_sync_interval": "5s",
//	  "upload_private": false
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
