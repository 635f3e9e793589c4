// Package config holds the settings of a conditioning run and loads them
// from YAML or HCL files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hydrocarve/conditioning"
	"github.com/katalvlaran/hydrocarve/placement"
	"github.com/katalvlaran/hydrocarve/raster"
)

// Sentinel errors for configuration.
var (
	// ErrUnsupportedFormat indicates a config file with an unknown extension.
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
	// ErrInvalid indicates a setting outside its allowed range.
	ErrInvalid = errors.New("config: invalid setting")
	// ErrMissingInput indicates the DEM or road raster path is empty.
	ErrMissingInput = errors.New("config: dem and roads are required")
)

// Defaults.
const (
	DefaultMinCulvertLength = 3.0
	DefaultStreamThreshold  = 1000
	DefaultOutputDir        = "."
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

// Barrier is a line along which the DEM is raised to Elevation.
type Barrier struct {
	FromX     float64 `yaml:"from_x" hcl:"from_x"`
	FromY     float64 `yaml:"from_y" hcl:"from_y"`
	ToX       float64 `yaml:"to_x" hcl:"to_x"`
	ToY       float64 `yaml:"to_y" hcl:"to_y"`
	Elevation float64 `yaml:"elevation" hcl:"elevation"`
}

// Config is the full set of run settings. Distances are in map units.
type Config struct {
	DEM       string `yaml:"dem" hcl:"dem,optional"`
	Roads     string `yaml:"roads" hcl:"roads,optional"`
	OutputDir string `yaml:"output_dir" hcl:"output_dir,optional"`

	HaloWidth           float64 `yaml:"halo" hcl:"halo,optional"`
	RoadBuffer          float64 `yaml:"road_buffer" hcl:"road_buffer,optional"`
	IgnoreDistSameIter  float64 `yaml:"ignore_dist_same_iter" hcl:"ignore_dist_same_iter,optional"`
	IgnoreDistOther     float64 `yaml:"ignore_dist_other" hcl:"ignore_dist_other,optional"`
	MinCarvingCost      float64 `yaml:"min_carving_cost" hcl:"min_carving_cost,optional"`
	MinSingleCarving    float64 `yaml:"min_single_carving" hcl:"min_single_carving,optional"`
	MinFlowAccumulation int     `yaml:"min_flow_accumulation" hcl:"min_flow_accumulation,optional"`
	MinCulvertLength    float64 `yaml:"min_culvert_length" hcl:"min_culvert_length,optional"`
	MaxIterations       int     `yaml:"max_iterations" hcl:"max_iterations,optional"`
	StreamThreshold     int     `yaml:"stream_threshold" hcl:"stream_threshold,optional"`

	LogLevel  string `yaml:"log_level" hcl:"log_level,optional"`
	LogFormat string `yaml:"log_format" hcl:"log_format,optional"`

	Barriers []Barrier `yaml:"barriers" hcl:"barrier,block"`
}

// Default returns a Config with every optional setting at its default.
func Default() Config {
	return Config{
		OutputDir:        DefaultOutputDir,
		MinCulvertLength: DefaultMinCulvertLength,
		StreamThreshold:  DefaultStreamThreshold,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// Load reads path over Default. The format follows the extension: .yaml or
// .yml for YAML, .hcl for HCL. Unknown YAML keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	case ".hcl":
		if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
			return cfg, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	return cfg, nil
}

// Validate checks ranges. Every distance and threshold must be
// non-negative.
func (c Config) Validate() error {
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"halo", c.HaloWidth},
		{"road_buffer", c.RoadBuffer},
		{"ignore_dist_same_iter", c.IgnoreDistSameIter},
		{"ignore_dist_other", c.IgnoreDistOther},
		{"min_carving_cost", c.MinCarvingCost},
		{"min_single_carving", c.MinSingleCarving},
		{"min_flow_accumulation", float64(c.MinFlowAccumulation)},
		{"min_culvert_length", c.MinCulvertLength},
		{"max_iterations", float64(c.MaxIterations)},
		{"stream_threshold", float64(c.StreamThreshold)},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, f.name, f.v)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalid, c.LogFormat)
	}

	return nil
}

// RequireInputs reports ErrMissingInput unless both raster paths are set.
func (c Config) RequireInputs() error {
	if c.DEM == "" || c.Roads == "" {
		return ErrMissingInput
	}

	return nil
}

// Limits returns the culvert length range [MinCulvertLength, 2*RoadBuffer].
func (c Config) Limits() placement.Limits {
	return placement.Limits{Min: c.MinCulvertLength, Max: 2 * c.RoadBuffer}
}

// Params converts c to conditioning parameters.
func (c Config) Params(logger *slog.Logger) conditioning.Params {
	barriers := make([]conditioning.Barrier, len(c.Barriers))
	for i, b := range c.Barriers {
		barriers[i] = conditioning.Barrier{
			From:      raster.Point{X: b.FromX, Y: b.FromY},
			To:        raster.Point{X: b.ToX, Y: b.ToY},
			Elevation: b.Elevation,
		}
	}

	return conditioning.Params{
		HaloWidth:       c.HaloWidth,
		RoadBufferWidth: c.RoadBuffer,
		MinCarvingCost:  c.MinCarvingCost,
		MinHDiff:        c.MinSingleCarving,
		MinAccumulation: uint32(c.MinFlowAccumulation),
		Limits:          c.Limits(),
		IgnoreSameIter:  c.IgnoreDistSameIter,
		IgnoreOther:     c.IgnoreDistOther,
		MaxIterations:   c.MaxIterations,
		Barriers:        barriers,
		Logger:          logger,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log_level must be debug, info, warn or error, got %q", ErrInvalid, s)
	}
}
