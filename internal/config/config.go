// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the pdfview command configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/pdfview/engine"
	"github.com/gogpu/pdfview/pagecache"
	"github.com/gogpu/pdfview/viewport"
)

// Config holds the command settings. Zero values are replaced by defaults
// in Load.
type Config struct {
	// CacheCapacity is the number of rendered pages kept per document.
	CacheCapacity int `toml:"cache_capacity"`
	// Zoom is the zoom factor pages are rendered at.
	Zoom float64 `toml:"zoom"`
	// OutputDir receives the rendered PNG files.
	OutputDir string `toml:"output_dir"`
	// MaxPixels bounds the size of a rendered page.
	MaxPixels int64 `toml:"max_pixels"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// Watch re-renders documents when their files change.
	Watch bool `toml:"watch"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		CacheCapacity: pagecache.DefaultCapacity,
		Zoom:          viewport.DefaultZoom,
		OutputDir:     ".",
		MaxPixels:     engine.DefaultMaxPixels,
		LogLevel:      "warn",
	}
}

// Load reads the TOML file at path over the defaults. Unknown keys are an
// error. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg, keeping fields the data does not set,
// and validates the result.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("unknown key: %s", strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return err
	}
	return cfg.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.CacheCapacity < 1:
		return fmt.Errorf("cache_capacity must be at least 1, got %d", c.CacheCapacity)
	case !(c.Zoom >= viewport.MinZoom && c.Zoom <= viewport.MaxZoom):
		return fmt.Errorf("zoom must be in [%g, %g], got %g", viewport.MinZoom, viewport.MaxZoom, c.Zoom)
	case c.MaxPixels < 1:
		return fmt.Errorf("max_pixels must be positive, got %d", c.MaxPixels)
	case c.OutputDir == "":
		return errors.New("output_dir must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// Encode returns cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log_level %q", s)
}
