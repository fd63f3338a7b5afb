// Package config loads the rnctag YAML configuration. Command-line flags
// override whatever is loaded here.
package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/rnctag/core/batch"
	"github.com/FocuswithJustin/rnctag/core/errors"
	"github.com/FocuswithJustin/rnctag/core/subst"
	"github.com/FocuswithJustin/rnctag/core/tagging/donelaitis"
	"github.com/FocuswithJustin/rnctag/core/tagging/semantika"
)

// Backends lists the tagger names the configuration accepts.
var Backends = []string{"donelaitis", "semantika", "fixture"}

// Endpoint configures one HTTP tagging service.
type Endpoint struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Cache configures the response cache.
type Cache struct {
	// Path of the SQLite database; empty disables persistence.
	Path          string `yaml:"path"`
	MemoryEntries int    `yaml:"memory_entries"`
}

// Log configures the global logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the top-level configuration file.
type Config struct {
	Backend       string              `yaml:"backend"`
	BatchSize     int                 `yaml:"batch_size"`
	ForeignLangs  []string            `yaml:"foreign_langs"`
	Donelaitis    Endpoint            `yaml:"donelaitis"`
	Semantika     Endpoint            `yaml:"semantika"`
	Cache         Cache               `yaml:"cache"`
	Log           Log                 `yaml:"log"`
	Substitutions map[string][]string `yaml:"substitutions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:      "donelaitis",
		BatchSize:    batch.DefaultBatchSize,
		ForeignLangs: []string{"ru"},
		Donelaitis:   Endpoint{URL: donelaitis.DefaultEndpoint, Timeout: 60 * time.Second},
		Semantika:    Endpoint{URL: semantika.DefaultEndpoint, Timeout: 60 * time.Second},
		Cache:        Cache{MemoryEntries: 256},
		Log:          Log{Level: "info", Format: "json"},
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewParse("YAML", path, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Backend) {
		return errors.NewValidation("backend", fmt.Sprintf("must be one of %s", strings.Join(Backends, ", ")))
	}
	if c.BatchSize < 1 {
		return errors.NewValidation("batch_size", "must be at least 1")
	}
	for name, ep := range map[string]Endpoint{"donelaitis": c.Donelaitis, "semantika": c.Semantika} {
		if ep.Timeout < 0 {
			return errors.NewValidation(name+".timeout", "must not be negative")
		}
	}
	if c.Cache.MemoryEntries < 0 {
		return errors.NewValidation("cache.memory_entries", "must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewValidation("log.level", "must be debug, info, warn or error")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return errors.NewValidation("log.format", "must be json or text")
	}
	if _, bad := subst.ParseOverrides(c.Substitutions); len(bad) > 0 {
		sort.Strings(bad)
		return errors.NewValidation("substitutions", fmt.Sprintf("keys must be single characters: %q", bad))
	}
	return nil
}

// SubstTable returns the default substitution table merged with the
// configured overrides.
func (c *Config) SubstTable() *subst.Table {
	if len(c.Substitutions) == 0 {
		return subst.Default
	}
	overrides, _ := subst.ParseOverrides(c.Substitutions)
	return subst.Default.Merge(overrides)
}
