package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/katalvlaran/hydrocarve/conditioning"
	"github.com/katalvlaran/hydrocarve/config"
	"github.com/katalvlaran/hydrocarve/rasterio"
	"github.com/katalvlaran/hydrocarve/vector"
)

// Output file names inside the output directory.
const (
	carvedDEMFile = "dem_carved.asc"
	flowDirsFile  = "flowdirs.asc"
	accumFile     = "flow_accum.asc"
	culvertsFile  = "culverts.shp"
	streamsFile   = "streams.shp"
)

func execute(ctx context.Context, outW io.Writer, cfg config.Config, logger *slog.Logger) error {
	// 1) Read inputs.
	dem, err := rasterio.ReadFile(cfg.DEM)
	if err != nil {
		return fmt.Errorf("read dem: %w", err)
	}
	roadsRaw, err := rasterio.ReadFile(cfg.Roads)
	if err != nil {
		return fmt.Errorf("read roads: %w", err)
	}
	logger.Info("inputs loaded", "cols", dem.Width, "rows", dem.Height, "cellsize", dem.Area.CellSize)

	// 2) Condition.
	res, err := conditioning.Run(ctx, conditioning.Input{DEM: dem, Roads: rasterio.ToUint32(roadsRaw)}, cfg.Params(logger))
	if err != nil {
		return err
	}

	// 3) Write rasters.
	if err = os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	out := func(name string) string { return filepath.Join(cfg.OutputDir, name) }
	if err = rasterio.WriteFile(out(carvedDEMFile), res.DEM); err != nil {
		return err
	}
	if err = rasterio.WriteFile(out(flowDirsFile), rasterio.EncodeFlowDirs(res.FlowDirs)); err != nil {
		return err
	}
	if err = rasterio.WriteFile(out(accumFile), res.Accum); err != nil {
		return err
	}

	// 4) Write vectors.
	if err = vector.WriteCulverts(out(culvertsFile), res.Culverts); err != nil {
		return err
	}
	streams := vector.Streams(res.Accum, res.FlowDirs, res.Delta, uint32(cfg.StreamThreshold))
	if err = vector.WriteStreams(out(streamsFile), streams); err != nil {
		return err
	}

	logger.Info("outputs written", "dir", cfg.OutputDir, "culverts", res.Culverts.Len(), "streams", len(streams))
	fmt.Fprintf(outW, "iterations: %d\nconverged: %t\nculverts: %d (inserted %d, pruned %d)\ncarved cells: %d (total %.3f, max %.3f)\n",
		res.Iterations, res.Converged, res.Culverts.Len(), res.Inserted, res.Pruned,
		res.Stats.Cells, res.Stats.Total, res.Stats.Max)

	return nil
}
