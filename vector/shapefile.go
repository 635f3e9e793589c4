package vector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"

	"github.com/katalvlaran/hydrocarve/culvert"
)

// WriteCulverts writes every culvert of set as a sink-to-source line with
// fields id and flow (the accumulation recorded at the sink). Existing files
// of the same name are replaced.
func WriteCulverts(path string, set *culvert.Set) (err error) {
	enc, err := newLineEncoder(path, "id", "flow")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeEncoder(enc, path); err == nil {
			err = cerr
		}
	}()

	for _, c := range set.Culverts() {
		flow := 0
		if p, ok := set.Props(c.ID); ok && p.Accumulation != culvert.PendingAccumulation {
			flow = int(p.Accumulation)
		}
		line := geom.LineString{c.Sink, c.Source}
		if err = enc.EncodeFields(line, int(c.ID), flow); err != nil {
			return fmt.Errorf("vector: culvert %d: %w", c.ID, err)
		}
	}

	return nil
}

// WriteStreams writes streams with the field flow.
func WriteStreams(path string, streams []Stream) (err error) {
	enc, err := newLineEncoder(path, "flow")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeEncoder(enc, path); err == nil {
			err = cerr
		}
	}()

	for i, s := range streams {
		if err = enc.EncodeFields(s.Line, int(s.Accumulation)); err != nil {
			return fmt.Errorf("vector: stream %d: %w", i, err)
		}
	}

	return nil
}

// newLineEncoder removes any previous shapefile at path and opens a polyline
// encoder with integer fields.
func newLineEncoder(path string, names ...string) (*shp.Encoder, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		if err := os.Remove(base + ext); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("vector: replacing %s: %w", path, err)
		}
	}
	fields := make([]goshp.Field, len(names))
	for i, n := range names {
		fields[i] = goshp.NumberField(n, 10)
	}
	enc, err := shp.NewEncoderFromFields(base+".shp", goshp.POLYLINE, fields...)
	if err != nil {
		return nil, fmt.Errorf("vector: creating %s: %w", path, err)
	}

	return enc, nil
}

// closeEncoder writes the headers and checks that the main, index and
// attribute files are in place. The encoder reports no write errors itself.
func closeEncoder(enc *shp.Encoder, path string) error {
	enc.Close()
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		info, err := os.Stat(base + ext)
		if err != nil {
			return fmt.Errorf("vector: closing %s: %w", path, err)
		}
		if info.Size() == 0 {
			return fmt.Errorf("vector: closing %s: %s is empty", path, base+ext)
		}
	}

	return nil
}
