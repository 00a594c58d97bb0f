package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
)

var knownFlags = []string{"-t", "-d", "-b", "-g", "-e", "-u", "-l", "-f", "-r", "-n", "-v", "-k"}

// parseFlags populates Config fields from command-line flags. args are
// filtered with flagx.FilterArgs first so -c/-config and flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageType, "t", cfg.StorageType, "storage backend (sqlite, memory, s3)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.CatalogBaseURL, "u", cfg.CatalogBaseURL, "catalog API base URL")
	fs.StringVar(&cfg.CatalogLocale, "l", cfg.CatalogLocale, "catalog locale")
	fs.StringVar(&cfg.FallbackLocale, "f", cfg.FallbackLocale, "fallback catalog locale")
	timeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "catalog request timeout (in seconds)")
	fs.IntVar(&cfg.FetchConcurrency, "n", cfg.FetchConcurrency, "parallel card fetches")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.SessionToken, "k", cfg.SessionToken, "session token")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
