package config

import (
	"os"
	"time"
)

// Storage backends accepted in Config.StorageType.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageS3     = "s3"
)

// Config holds runtime settings for CardKeeper.
type Config struct {
	StorageType  string `env:"STORAGE_TYPE"`
	DatabasePath string `env:"DATABASE_PATH"`

	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3Prefix       string `env:"S3_PREFIX"`

	CatalogBaseURL   string        `env:"CATALOG_BASE_URL"`
	CatalogLocale    string        `env:"CATALOG_LOCALE"`
	FallbackLocale   string        `env:"FALLBACK_LOCALE"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	FetchConcurrency int           `env:"FETCH_CONCURRENCY"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`

	SessionToken  string `env:"SESSION_TOKEN"`
	SessionSecret string `env:"SESSION_SECRET"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageType = StorageSQLite
	c.DatabasePath = "cardkeeper.db"
	c.S3Region = "us-east-1"
	c.S3Prefix = "cardkeeper/"
	c.CatalogBaseURL = "https://api.tcgdex.net/v2"
	c.CatalogLocale = "pt"
	c.FallbackLocale = "en"
	c.RequestTimeout = 10 * time.Second
	c.FetchConcurrency = 8
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, nil)
	parseFlags(cfg, args)
	return cfg
}
