// Command hydrocarve conditions a DEM for hydrological modelling. It places
// culverts through road embankments, carves the remaining depressions and
// writes the carved DEM, flow rasters and culvert and stream shapefiles.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args and performs one conditioning run. Progress is logged to
// logW; the summary goes to outW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger, err := newLogger(logW, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	return execute(ctx, outW, cfg, logger)
}
