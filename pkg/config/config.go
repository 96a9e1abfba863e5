// Package config holds the tunables of a sketching session and loads them
// from YAML or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/stroke"
	"github.com/chazu/airsketch/pkg/tool"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Load for files that are neither YAML nor TOML.
var ErrUnknownFormat = errors.New("config: unknown file format")

// DefaultEvalTimeout bounds a single script evaluation.
const DefaultEvalTimeout = 5 * time.Second

// Duration is a time.Duration that reads and writes as "5s" in config files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("config: duration: %w", err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the full set of session tunables.
type Config struct {
	TravelThreshold           float64     `yaml:"travel_threshold" toml:"travel_threshold"`
	StrokeWidth               float64     `yaml:"stroke_width" toml:"stroke_width"`
	ToolRadius                float64     `yaml:"tool_radius" toml:"tool_radius"`
	DefaultColor              graph.Color `yaml:"default_color" toml:"default_color"`
	DeselectSourceOnDuplicate bool        `yaml:"deselect_source_on_duplicate" toml:"deselect_source_on_duplicate"`
	ClearSelectionOnMoveEnd   bool        `yaml:"clear_selection_on_move_end" toml:"clear_selection_on_move_end"`
	EvalTimeout               Duration    `yaml:"eval_timeout" toml:"eval_timeout"`
	Tag                       string      `yaml:"tag" toml:"tag"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TravelThreshold:           stroke.DefaultThreshold,
		StrokeWidth:               stroke.DefaultWidth,
		ToolRadius:                tool.DefaultRadius,
		DefaultColor:              graph.White,
		DeselectSourceOnDuplicate: true,
		ClearSelectionOnMoveEnd:   false,
		EvalTimeout:               Duration(DefaultEvalTimeout),
		Tag:                       graph.DrawableTag,
	}
}

// Timeout returns EvalTimeout as a time.Duration.
func (c Config) Timeout() time.Duration { return time.Duration(c.EvalTimeout) }

// Validate rejects values no session can run with.
func (c Config) Validate() error {
	var errs []error
	if c.TravelThreshold <= 0 {
		errs = append(errs, fmt.Errorf("travel_threshold must be positive, got %g", c.TravelThreshold))
	}
	if c.StrokeWidth <= 0 {
		errs = append(errs, fmt.Errorf("stroke_width must be positive, got %g", c.StrokeWidth))
	}
	if c.ToolRadius <= 0 {
		errs = append(errs, fmt.Errorf("tool_radius must be positive, got %g", c.ToolRadius))
	}
	if c.EvalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("eval_timeout must be positive, got %s", time.Duration(c.EvalTimeout)))
	}
	if c.Tag == "" {
		errs = append(errs, errors.New("tag must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Load reads path on top of Default. The format is chosen by extension:
// .yaml and .yml are YAML, .toml is TOML.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext (with or without the dot)
// on top of Default and validates the result.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
