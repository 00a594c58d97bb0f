// Package config loads runtime configuration for CardKeeper.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config (see parseJson).
//  3. Environment variables prefixed with CARDKEEPER_ (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-t string   storage backend: sqlite, memory or s3
//	-d string   path of the SQLite database file
//	-b string   S3 bucket (s3 backend)
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-u string   catalog API base URL
//	-l string   catalog locale
//	-f string   fallback catalog locale
//	-r int      catalog request timeout (seconds)
//	-n int      parallel card fetches
//	-v string   log level
//	-k string   session token of the signed-in user
//
// # JSON schema
//
//	{
//	  "storage_type": "sqlite",
//	  "database_path": "cardkeeper.db",
//	  "catalog_base_url": "https://api.tcgdex.net/v2",
//	  "catalog_locale": "pt",
//	  "fallback_locale": "en",
//	  "request_timeout": "10s"
//	}
package config
