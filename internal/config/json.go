package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cardkeeper/internal/flagx"
	"github.com/dmitrijs2005/cardkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	StorageType      string         `json:"storage_type"`
	DatabasePath     string         `json:"database_path"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Prefix         string         `json:"s3_prefix"`
	CatalogBaseURL   string         `json:"catalog_base_url"`
	CatalogLocale    string         `json:"catalog_locale"`
	FallbackLocale   string         `json:"fallback_locale"`
	RequestTimeout   timex.Duration `json:"request_timeout"`
	FetchConcurrency int            `json:"fetch_concurrency"`
	LogLevel         string         `json:"log_level"`
	LogFormat        string         `json:"log_format"`
	SessionToken     string         `json:"session_token"`
	SessionSecret    string         `json:"session_secret"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// It panics on read or unmarshal errors; the caller decides whether to recover.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.StorageType, jc.StorageType)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Prefix, jc.S3Prefix)
	setString(&cfg.CatalogBaseURL, jc.CatalogBaseURL)
	setString(&cfg.CatalogLocale, jc.CatalogLocale)
	setString(&cfg.FallbackLocale, jc.FallbackLocale)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.SessionToken, jc.SessionToken)
	setString(&cfg.SessionSecret, jc.SessionSecret)

	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.FetchConcurrency > 0 {
		cfg.FetchConcurrency = jc.FetchConcurrency
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
