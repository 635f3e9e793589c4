package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goshp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demASC = `ncols 9
nrows 3
xllcorner 0
yllcorner 0
cellsize 1
10 10 10 10 10 10 10 10 10
10 6 4 6 8 3 2 1 0
10 10 10 10 10 10 10 10 10
`

const roadsASC = `ncols 9
nrows 3
xllcorner 0
yllcorner 0
cellsize 1
0 0 0 0 1 0 0 0 0
0 0 0 0 1 0 0 0 0
0 0 0 0 1 0 0 0 0
`

func writeInputs(t *testing.T) (dir, dem, roads string) {
	t.Helper()
	dir = t.TempDir()
	dem = filepath.Join(dir, "dem.asc")
	roads = filepath.Join(dir, "roads.asc")
	require.NoError(t, os.WriteFile(dem, []byte(demASC), 0o600))
	require.NoError(t, os.WriteFile(roads, []byte(roadsASC), 0o600))

	return dir, dem, roads
}

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_UsageErrors(t *testing.T) {
	_, dem, roads := writeInputs(t)
	cases := map[string][]string{
		"unknown flag":   {"--nope"},
		"missing roads":  {"--dem", dem},
		"bad log format": {"--dem", dem, "--roads", roads, "--log-format", "xml"},
		"negative value": {"--dem", dem, "--roads", roads, "--halo", "-1"},
		"positional":     {"--dem", dem, "--roads", roads, "extra"},
		"bad config":     {"--config", "settings.toml"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, args)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestRun_MissingInputFile(t *testing.T) {
	dir, dem, _ := writeInputs(t)
	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{},
		[]string{"--dem", dem, "--roads", filepath.Join(dir, "absent.asc")})
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr))
}

func TestRun_EndToEnd(t *testing.T) {
	dir, dem, roads := writeInputs(t)
	outDir := filepath.Join(dir, "out")
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), out, logs, []string{
		"--dem", dem,
		"--roads", roads,
		"--out", outDir,
		"--road-buffer", "2",
		"--min-carving-cost", "1",
		"--min-flow-accumulation", "2",
		"--min-culvert-length", "1",
		"--stream-threshold", "1",
		"--log-format", "json",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "culverts: 1")
	assert.Contains(t, out.String(), "converged: true")
	assert.Contains(t, logs.String(), `"msg":"outputs written"`)

	for _, name := range []string{carvedDEMFile, flowDirsFile, accumFile, culvertsFile, streamsFile} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	r, err := goshp.Open(filepath.Join(outDir, culvertsFile))
	require.NoError(t, err)
	defer r.Close()
	n := 0
	for r.Next() {
		n++
	}
	assert.Equal(t, 1, n)
}

func TestRun_ConfigFileWithOverride(t *testing.T) {
	dir, dem, roads := writeInputs(t)
	outDir := filepath.Join(dir, "out")
	settings := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(settings, []byte(
		"dem: "+dem+"\nroads: "+roads+"\noutput_dir: "+outDir+
			"\nroad_buffer: 2\nmin_carving_cost: 1\nmin_flow_accumulation: 2\nmin_culvert_length: 1\n"), 0o600))

	cfg, exit, err := Parse([]string{"-c", settings, "--max-iterations", "1"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, 1, cfg.MaxIterations)
	assert.Equal(t, 2.0, cfg.RoadBuffer)
	assert.Equal(t, outDir, cfg.OutputDir)

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), out, &bytes.Buffer{}, []string{"-c", settings, "--max-iterations", "1"}))
	assert.Contains(t, out.String(), "converged: false")
}

func TestRun_LogLevel(t *testing.T) {
	dir, dem, roads := writeInputs(t)
	logs := &bytes.Buffer{}

	err := run(context.Background(), &bytes.Buffer{}, logs, []string{
		"--dem", dem,
		"--roads", roads,
		"--out", filepath.Join(dir, "out"),
		"--log-level", "warn",
	})
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "outputs written", "info records are filtered by the configured logger")
}
