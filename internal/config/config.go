// Package config loads column-mapper settings.
//
// Values are layered, lowest precedence first: built-in defaults, the YAML
// config file, COLMAP_* environment variables and explicitly set flags.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/Elevated-Standards/mappings-sub003/internal/match"
	"github.com/Elevated-Standards/mappings-sub003/internal/override"
)

// DefaultFile is looked up in the working directory when no config file is
// given explicitly.
const DefaultFile = "column-mapper.yaml"

// EnvPrefix prefixes environment overrides. The first underscore after the
// prefix separates the section: COLMAP_CACHE_CONTEXT_KEY sets cache.context_key.
const EnvPrefix = "COLMAP_"

// Config holds all engine and CLI settings.
type Config struct {
	Cache      CacheConfig      `koanf:"cache"`
	Resolution ResolutionConfig `koanf:"resolution"`
	Validation ValidationConfig `koanf:"validation"`
	Log        LogConfig        `koanf:"log"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// CacheConfig configures the resolution cache.
type CacheConfig struct {
	Capacity   int  `koanf:"capacity"`
	ContextKey bool `koanf:"context_key"`
}

// ResolutionConfig configures conflict resolution and base matching.
type ResolutionConfig struct {
	Strategy      string  `koanf:"strategy"`
	MinConfidence float64 `koanf:"min_confidence"`
}

// ValidationConfig mirrors override.ValidationRules.
type ValidationConfig struct {
	MaxPatternLength  int      `koanf:"max_pattern_length"`
	ForbiddenPatterns []string `koanf:"forbidden_patterns"`
	MaxConditions     int      `koanf:"max_conditions"`
	MinPriority       int      `koanf:"min_priority"`
	MaxPriority       int      `koanf:"max_priority"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	JSON  bool   `koanf:"json"`
	Level string `koanf:"level"`
}

// flagKeys maps CLI flag names onto config keys. Flags not listed here are
// command inputs, not settings.
var flagKeys = map[string]string{
	"strategy":       "resolution.strategy",
	"min-confidence": "resolution.min_confidence",
	"cache-capacity": "cache.capacity",
	"context-key":    "cache.context_key",
	"log-json":       "log.json",
	"log-level":      "log.level",
}

func defaults() map[string]any {
	rules := override.DefaultValidationRules()

	return map[string]any{
		"cache.capacity":                override.DefaultCacheCapacity,
		"cache.context_key":             false,
		"resolution.strategy":           override.HighestPriority.String(),
		"resolution.min_confidence":     match.DefaultMinScore,
		"validation.max_pattern_length": rules.MaxPatternLength,
		"validation.forbidden_patterns": rules.ForbiddenPatterns,
		"validation.max_conditions":     rules.MaxConditions,
		"validation.min_priority":       rules.MinPriority,
		"validation.max_priority":       rules.MaxPriority,
		"log.json":                      false,
		"log.level":                     "info",
	}
}

// Load builds a Config. cfgFile may be empty, in which case DefaultFile is
// read when present. flags may be nil; only flags the user changed apply.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	// 2. Config file
	path, err := findConfigFile(cfgFile)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", path)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}

			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}

	cfg.File = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile returns the explicit path, or DefaultFile when it exists in
// the working directory.
func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", errors.Wrapf(err, "config file %s", explicit)
		}

		return explicit, nil
	}

	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile, nil
	}

	return "", nil
}

// envKey turns COLMAP_RESOLUTION_MIN_CONFIDENCE into resolution.min_confidence.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))

	section, rest, ok := strings.Cut(s, "_")
	if !ok || section == "" || rest == "" {
		return ""
	}

	return section + "." + rest
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if _, err := override.ParseStrategy(c.Resolution.Strategy); err != nil {
		return errors.WithHint(errors.Wrap(err, "resolution.strategy"),
			"use one of highest_priority, most_recent, most_specific, combine, manual")
	}

	if c.Resolution.MinConfidence <= 0 || c.Resolution.MinConfidence > 1 {
		return errors.Newf("resolution.min_confidence must be in (0, 1], got %g", c.Resolution.MinConfidence)
	}

	if c.Cache.Capacity <= 0 {
		return errors.Newf("cache.capacity must be positive, got %d", c.Cache.Capacity)
	}

	v := c.Validation

	if v.MaxPatternLength <= 0 {
		return errors.Newf("validation.max_pattern_length must be positive, got %d", v.MaxPatternLength)
	}

	if v.MaxConditions < 0 {
		return errors.Newf("validation.max_conditions must not be negative, got %d", v.MaxConditions)
	}

	if v.MinPriority > v.MaxPriority {
		return errors.Newf("validation.min_priority %d exceeds validation.max_priority %d",
			v.MinPriority, v.MaxPriority)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}

	return nil
}

// Strategy returns the parsed resolution strategy.
func (c *Config) Strategy() (override.Strategy, error) {
	return override.ParseStrategy(c.Resolution.Strategy)
}

// ValidationRules converts the validation section.
func (c *Config) ValidationRules() override.ValidationRules {
	return override.ValidationRules{
		MaxPatternLength:  c.Validation.MaxPatternLength,
		ForbiddenPatterns: append([]string(nil), c.Validation.ForbiddenPatterns...),
		MaxConditions:     c.Validation.MaxConditions,
		MinPriority:       c.Validation.MinPriority,
		MaxPriority:       c.Validation.MaxPriority,
	}
}

// EngineOptions converts the config into engine options.
func (c *Config) EngineOptions() ([]override.Option, error) {
	strategy, err := c.Strategy()
	if err != nil {
		return nil, err
	}

	return []override.Option{
		override.WithStrategy(strategy),
		override.WithCacheCapacity(c.Cache.Capacity),
		override.WithContextCacheKey(c.Cache.ContextKey),
		override.WithValidationRules(c.ValidationRules()),
	}, nil
}
