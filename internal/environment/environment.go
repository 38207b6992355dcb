// Package environment manages session environment configuration.
// An environment is a flat key/value map, typically parsed from a YAML
// file, that governs a single backend session.
package environment

import (
	"fmt"
	"sort"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is a session environment: a flat map of dotted keys to string
// values with deterministic (sorted) key order.
type Config struct {
	entries map[string]string
}

// New returns an empty environment.
func New() *Config {
	return &Config{entries: map[string]string{}}
}

// FromMap builds an environment from a plain string map. Keys are
// normalized through koanf so nested and dotted forms flatten the same
// way file-sourced environments do.
func FromMap(m map[string]string) *Config {
	cfg := New()
	if len(m) == 0 {
		return cfg
	}

	values := make(map[string]interface{}, len(m))
	for k, v := range m {
		values[k] = v
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		// confmap cannot fail on a flat string map; keep the raw keys
		// if it ever does.
		for key, v := range m {
			cfg.entries[key] = v
		}
		return cfg
	}

	for key, v := range k.All() {
		cfg.entries[key] = fmt.Sprintf("%v", v)
	}
	return cfg
}

// Parse reads a YAML environment file and flattens it into a Config.
func Parse(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading environment file %s: %w", path, err)
	}

	cfg := New()
	for key, v := range k.All() {
		cfg.entries[key] = fmt.Sprintf("%v", v)
	}
	return cfg, nil
}

// Merge combines base and override into a new environment. Override
// keys win on conflict. Either argument may be nil.
func Merge(base, override *Config) *Config {
	merged := New()
	if base != nil {
		for k, v := range base.entries {
			merged.entries[k] = v
		}
	}
	if override != nil {
		for k, v := range override.entries {
			merged.entries[k] = v
		}
	}
	return merged
}

// Get returns the value for key and whether it is present.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Set stores a value under key.
func (c *Config) Set(key, value string) {
	c.entries[key] = value
}

// Keys returns all keys in sorted order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (c *Config) Len() int {
	return len(c.entries)
}

// AsMap returns a copy of the underlying map.
func (c *Config) AsMap() map[string]string {
	m := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		m[k] = v
	}
	return m
}
