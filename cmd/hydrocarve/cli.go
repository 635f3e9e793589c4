package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/katalvlaran/hydrocarve/config"
)

// ExitError carries the process exit code for a failure.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
hydrocarve - culvert placement and DEM conditioning.

Usage:
  hydrocarve [options] --dem DEM.asc --roads ROADS.asc

Settings are read from --config (YAML or HCL) when given; flags set on the
command line override the file.

Options:
`

// Parse builds the run configuration from args. It returns true when the
// program should exit cleanly, for example after --help.
func Parse(args []string, output io.Writer) (config.Config, bool, error) {
	fs := pflag.NewFlagSet("hydrocarve", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprint(output, usage)
		fs.PrintDefaults()
	}

	var (
		path string
		fc   = config.Default()
	)
	fs.StringVarP(&path, "config", "c", "", "Path to a .yaml, .yml or .hcl settings file.")
	fs.StringVar(&fc.DEM, "dem", "", "Input elevation raster (ESRI ASCII grid).")
	fs.StringVar(&fc.Roads, "roads", "", "Input road raster; cells equal to 1 are roads.")
	fs.StringVarP(&fc.OutputDir, "out", "o", fc.OutputDir, "Output directory.")
	fs.Float64Var(&fc.HaloWidth, "halo", fc.HaloWidth, "Border width where no culvert end is placed (map units).")
	fs.Float64Var(&fc.RoadBuffer, "road-buffer", fc.RoadBuffer, "Width of the buffer around roads (map units).")
	fs.Float64Var(&fc.IgnoreDistSameIter, "ignore-dist-same-iter", fc.IgnoreDistSameIter, "Skip candidates this close to a culvert added in the same iteration.")
	fs.Float64Var(&fc.IgnoreDistOther, "ignore-dist-other", fc.IgnoreDistOther, "Reject candidates this close to an existing culvert.")
	fs.Float64Var(&fc.MinCarvingCost, "min-carving-cost", fc.MinCarvingCost, "Minimum total cost of a carving worth replacing.")
	fs.Float64Var(&fc.MinSingleCarving, "min-single-carving", fc.MinSingleCarving, "Minimum single-cell lowering of a carving worth replacing.")
	fs.IntVar(&fc.MinFlowAccumulation, "min-flow-accumulation", fc.MinFlowAccumulation, "Minimum accumulation at a road crossing.")
	fs.Float64Var(&fc.MinCulvertLength, "min-culvert-length", fc.MinCulvertLength, "Minimum culvert length (map units).")
	fs.IntVar(&fc.MaxIterations, "max-iterations", fc.MaxIterations, "Cap on placement iterations; 0 is unlimited.")
	fs.IntVar(&fc.StreamThreshold, "stream-threshold", fc.StreamThreshold, "Accumulation from which a cell is part of a stream.")
	fs.StringVar(&fc.LogLevel, "log-level", fc.LogLevel, "Logging level: debug, info, warn or error.")
	fs.StringVar(&fc.LogFormat, "log-format", fc.LogFormat, "Log output format: text or json.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return config.Config{}, true, nil
		}

		return config.Config{}, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return config.Config{}, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = loaded
	}

	overrides := map[string]func(*config.Config){
		"dem":                   func(c *config.Config) { c.DEM = fc.DEM },
		"roads":                 func(c *config.Config) { c.Roads = fc.Roads },
		"out":                   func(c *config.Config) { c.OutputDir = fc.OutputDir },
		"halo":                  func(c *config.Config) { c.HaloWidth = fc.HaloWidth },
		"road-buffer":           func(c *config.Config) { c.RoadBuffer = fc.RoadBuffer },
		"ignore-dist-same-iter": func(c *config.Config) { c.IgnoreDistSameIter = fc.IgnoreDistSameIter },
		"ignore-dist-other":     func(c *config.Config) { c.IgnoreDistOther = fc.IgnoreDistOther },
		"min-carving-cost":      func(c *config.Config) { c.MinCarvingCost = fc.MinCarvingCost },
		"min-single-carving":    func(c *config.Config) { c.MinSingleCarving = fc.MinSingleCarving },
		"min-flow-accumulation": func(c *config.Config) { c.MinFlowAccumulation = fc.MinFlowAccumulation },
		"min-culvert-length":    func(c *config.Config) { c.MinCulvertLength = fc.MinCulvertLength },
		"max-iterations":        func(c *config.Config) { c.MaxIterations = fc.MaxIterations },
		"stream-threshold":      func(c *config.Config) { c.StreamThreshold = fc.StreamThreshold },
		"log-level":             func(c *config.Config) { c.LogLevel = fc.LogLevel },
		"log-format":            func(c *config.Config) { c.LogFormat = fc.LogFormat },
	}
	fs.Visit(func(f *pflag.Flag) {
		if set, ok := overrides[f.Name]; ok {
			set(&cfg)
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if err := cfg.RequireInputs(); err != nil {
		return config.Config{}, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be text or json", format)
	}
}
