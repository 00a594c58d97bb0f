package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"storage_type":      "s3",
		"s3_bucket":         "vault",
		"request_timeout":   "12s",
		"fetch_concurrency": 4,
	})

	t.Run("loads from flags", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, StorageS3, cfg.StorageType)
		assert.Equal(t, "vault", cfg.S3Bucket)
		assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 4, cfg.FetchConcurrency)
		assert.Equal(t, "pt", cfg.CatalogLocale, "absent keys keep defaults")
	})

	t.Run("no flags → no changes", func(t *testing.T) {
		cfg := &Config{DatabasePath: "keep.db"}
		parseJson(cfg, nil)
		assert.Equal(t, "keep.db", cfg.DatabasePath)
	})

	t.Run("missing file → panics", func(t *testing.T) {
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", filepath.Join(dir, "nope.json")}) })
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, []string{"-c", bad}) })
	})
}
