package breach

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hydrocarve/raster"
)

// Sentinel errors for breaching.
var (
	// ErrNilGrid indicates a nil elevation grid.
	ErrNilGrid = errors.New("breach: elevation grid is nil")
)

// DefaultProgressSteps is the number of progress messages emitted per run.
const DefaultProgressSteps = 50

// Options configures a Breach call.
type Options struct {
	// Logger receives progress messages; nil discards them.
	Logger *slog.Logger
	// ProgressSteps is how many evenly spaced progress messages to emit.
	ProgressSteps int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns Options with a discarding logger and 50 progress steps.
func DefaultOptions() Options {
	return Options{
		Logger:        slog.New(slog.DiscardHandler),
		ProgressSteps: DefaultProgressSteps,
	}
}

// WithLogger routes progress messages to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithProgressSteps sets the number of progress messages. Panics if n <= 0.
func WithProgressSteps(n int) Option {
	if n <= 0 {
		panic("breach: WithProgressSteps requires n > 0")
	}

	return func(o *Options) {
		o.ProgressSteps = n
	}
}

// Result holds the outputs of a Breach call.
type Result struct {
	// FlowDirs holds, for every visited cell, the offset to the cell it was
	// reached from. Seeds keep the zero offset.
	FlowDirs *raster.Grid[raster.Offset]
	// Carved marks cells whose elevation was lowered.
	Carved *raster.Grid[bool]
	// Pits is the number of interior local minima found.
	Pits int
	// Breached is the number of pits whose breach lowered at least one cell.
	Breached int
	// Lowered is the number of cells marked carved.
	Lowered int
}
