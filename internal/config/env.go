package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "CARDKEEPER_"

// parseEnv overlays cfg with CARDKEEPER_* variables. A nil environment reads
// the process environment. Unset variables leave fields untouched; malformed
// values panic like the other loaders.
func parseEnv(cfg *Config, environment map[string]string) {
	opts := env.Options{Prefix: EnvPrefix, Environment: environment}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
