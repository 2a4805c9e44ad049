/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings are the tool's own knobs, as opposed to the tournament document.
type Settings struct {
	Input       string        `mapstructure:"input"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	Workers     int           `mapstructure:"workers"`
	Predictor   string        `mapstructure:"predictor"`
	Scale       float64       `mapstructure:"scale"`
	CacheBucket string        `mapstructure:"cache_bucket"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// LoadSettings reads BRACKETODDS_* environment variables on top of the
// defaults. v may be nil, in which case a fresh viper instance is used.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("input", DefaultInput)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("workers", runtime.GOMAXPROCS(0))
	v.SetDefault("predictor", "elo")
	v.SetDefault("scale", 400.0)
	v.SetDefault("cache_bucket", "")
	v.SetDefault("cache_ttl", DefaultCacheTTL)

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if s.Scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v: must be positive", s.Scale)
	}

	return s, nil
}
