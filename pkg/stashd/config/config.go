// Package config provides configuration options for the server using
// command-line flags and environment variables. A .env file in the
// working directory is loaded first when present.
package config

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the server.
type Options struct {
	// Addr is the listen address (ip:port or :port).
	Addr string

	// DBPath is the SQLite database path.
	DBPath string
}

var options = &Options{}

func init() {
	flag.StringVar(&options.Addr, "a", ":8080", "listen address")
	flag.StringVar(&options.DBPath, "d", "stashd.db", "sqlite database path")
}

// Parse parses flags and environment variables into Options. Environment
// variables win over flags.
func Parse() *Options {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	flag.Parse()

	if addr := os.Getenv("STASHD_ADDR"); addr != "" {
		options.Addr = addr
	}
	if dbPath := os.Getenv("STASHD_DB_PATH"); dbPath != "" {
		options.DBPath = dbPath
	}

	return options
}
