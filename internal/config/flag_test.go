package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "Test1 OK",
			args: []string{"-t", "memory", "-l", "en", "-r", "5", "-n", "2", "-unknown", "x"},
			expected: &Config{
				StorageType:      "memory",
				CatalogLocale:    "en",
				RequestTimeout:   5 * time.Second,
				FetchConcurrency: 2,
			},
		},
		{name: "Test2 incorrect timeout", args: []string{"-r", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(cfg, tt.args) })
				assert.Empty(t, cmp.Diff(cfg, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(cfg, tt.args) })
			}
		})
	}
}
