// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads imgedit configuration from a TOML file and
// IMGEDIT_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// Configuration errors.
var (
	// ErrInvalid is returned when a loaded configuration fails validation.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrBadColor is returned by ParseColor for malformed colors.
	ErrBadColor = errors.New("config: bad color")
)

// Config is the complete imgedit configuration.
type Config struct {
	// Addr is the listen address of the WebSocket server.
	Addr string `toml:"addr" env:"IMGEDIT_ADDR"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level" env:"IMGEDIT_LOG_LEVEL"`

	// MaxUploadBytes limits the size of a single client message,
	// which bounds the size of uploaded images.
	MaxUploadBytes int64 `toml:"max_upload_bytes" env:"IMGEDIT_MAX_UPLOAD_BYTES"`

	// MaxPixels limits the width×height of a loaded image. Every layer is
	// a full-size RGBA buffer, so this bounds memory per stroke.
	MaxPixels int64 `toml:"max_pixels" env:"IMGEDIT_MAX_PIXELS"`

	// AllowedOrigins lists browser origins allowed to open a WebSocket.
	// Empty means same-origin only.
	AllowedOrigins []string `toml:"allowed_origins" env:"IMGEDIT_ALLOWED_ORIGINS" envSeparator:","`

	Tools ToolConfig `toml:"tools" envPrefix:"IMGEDIT_TOOL_"`
}

// ToolConfig holds drawing tool defaults.
type ToolConfig struct {
	// Default is the tool selected when an editor starts.
	Default string `toml:"default" env:"DEFAULT"`

	PenColor   string `toml:"pen_color" env:"PEN_COLOR"`
	PenWidth   int    `toml:"pen_width" env:"PEN_WIDTH"`
	ShapeColor string `toml:"shape_color" env:"SHAPE_COLOR"`
	ShapeWidth int    `toml:"shape_width" env:"SHAPE_WIDTH"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		LogLevel:       "info",
		MaxUploadBytes: 32 << 20,
		MaxPixels:      8192 * 8192,
		Tools: ToolConfig{
			Default:    "pen",
			PenColor:   "#000000",
			PenWidth:   3,
			ShapeColor: "#d02020",
			ShapeWidth: 2,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path (skipped
// when path is empty) and then with environment variables. Unknown keys in
// the file are an error.
func Load(path string) (Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return parse(path, data)
}

// parse is Load for file contents already read from path.
func parse(path string, data []byte) (Config, error) {
	cfg := Default()

	if len(data) > 0 {
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and formats.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.MaxPixels <= 0 {
		errs = append(errs, fmt.Errorf("max_pixels must be positive, got %d", c.MaxPixels))
	}
	if c.Tools.PenWidth <= 0 {
		errs = append(errs, fmt.Errorf("tools.pen_width must be positive, got %d", c.Tools.PenWidth))
	}
	if c.Tools.ShapeWidth <= 0 {
		errs = append(errs, fmt.Errorf("tools.shape_width must be positive, got %d", c.Tools.ShapeWidth))
	}
	for _, col := range []string{c.Tools.PenColor, c.Tools.ShapeColor} {
		if _, err := ParseColor(col); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Level returns the slog level named by LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa" into a
// non-premultiplied color.
func ParseColor(s string) (color.NRGBA, error) {
	rgb, alpha := s, "ff"
	if len(s) == 9 {
		rgb, alpha = s[:7], s[7:]
	}
	if len(rgb) != 4 && len(rgb) != 7 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	c, err := colorful.Hex(rgb)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	a, err := strconv.ParseUint(alpha, 16, 8)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
}
