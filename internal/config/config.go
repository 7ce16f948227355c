// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds all abook configuration.
type Config struct {
	Display Display `yaml:"display"`
	Sort    Sort    `yaml:"sort"`
	Edit    Edit    `yaml:"edit"`
	Script  Script  `yaml:"script"`
}

// Display holds output settings.
type Display struct {
	Format string `yaml:"format"` // "plain" | "table"
	Color  string `yaml:"color"`  // "auto" | "always" | "never"
}

// Sort holds ordering settings.
type Sort struct {
	Locale string `yaml:"locale"` // BCP 47 tag used for collation
}

// Edit holds contact edit settings.
type Edit struct {
	Strict bool `yaml:"strict"` // Re-validate contacts on edit
}

// Script holds scenario execution settings.
type Script struct {
	FailureMode string `yaml:"failure_mode"` // "abort" | "continue"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Display: Display{
			Format: "plain",
			Color:  "auto",
		},
		Sort: Sort{
			Locale: "en",
		},
		Script: Script{
			FailureMode: "abort",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Display.Format {
	case "plain", "table":
	default:
		return fmt.Errorf("config: display.format must be \"plain\" or \"table\", got %q", c.Display.Format)
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: display.color must be \"auto\", \"always\", or \"never\", got %q", c.Display.Color)
	}
	if c.Sort.Locale == "" {
		return errors.New("config: sort.locale cannot be empty")
	}
	if _, err := language.Parse(c.Sort.Locale); err != nil {
		return fmt.Errorf("config: sort.locale %q: %w", c.Sort.Locale, err)
	}
	switch c.Script.FailureMode {
	case "", "abort", "continue":
		// valid
	default:
		return fmt.Errorf("config: script.failure_mode must be \"abort\" or \"continue\", got %q", c.Script.FailureMode)
	}
	return nil
}

// LocaleTag returns the parsed collation locale. Call Validate first.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Sort.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ABOOK_FORMAT, ABOOK_COLOR, ABOOK_LOCALE, ABOOK_STRICT_EDITS.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ABOOK_FORMAT"); v != "" {
		c.Display.Format = v
	}
	if v := os.Getenv("ABOOK_COLOR"); v != "" {
		c.Display.Color = v
	}
	if v := os.Getenv("ABOOK_LOCALE"); v != "" {
		c.Sort.Locale = v
	}
	if v := os.Getenv("ABOOK_STRICT_EDITS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid ABOOK_STRICT_EDITS %q: %w", v, err)
		}
		c.Edit.Strict = b
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Display *rawDisplay `yaml:"display"`
	Sort    *rawSort    `yaml:"sort"`
	Edit    *rawEdit    `yaml:"edit"`
	Script  *rawScript  `yaml:"script"`
}

type rawDisplay struct {
	Format *string `yaml:"format"`
	Color  *string `yaml:"color"`
}

type rawSort struct {
	Locale *string `yaml:"locale"`
}

type rawEdit struct {
	Strict *bool `yaml:"strict"`
}

type rawScript struct {
	FailureMode *string `yaml:"failure_mode"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Display != nil {
		if layer.Display.Format != nil {
			c.Display.Format = *layer.Display.Format
		}
		if layer.Display.Color != nil {
			c.Display.Color = *layer.Display.Color
		}
	}
	if layer.Sort != nil {
		if layer.Sort.Locale != nil {
			c.Sort.Locale = *layer.Sort.Locale
		}
	}
	if layer.Edit != nil {
		if layer.Edit.Strict != nil {
			c.Edit.Strict = *layer.Edit.Strict
		}
	}
	if layer.Script != nil {
		if layer.Script.FailureMode != nil {
			c.Script.FailureMode = *layer.Script.FailureMode
		}
	}
}
