// Package pcio reads and writes the point and mesh file formats fed into
// the spatial index: xyz (plain or gzip), ply, stl and las.
package pcio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

const (
	// ErrTypeUnsupportedFormat is the error type returned when a file
	// extension maps to no known loader.
	ErrTypeUnsupportedFormat = "unsupported_format"

	// ErrTypeInvalidData is the error type returned when a file's content
	// does not match its format.
	ErrTypeInvalidData = "invalid_data"
)

/// Contents is what a single file loads into: points, triangle faces, or
// both.
type Contents struct {
	Points    *cloud.PointCloud3D
	Triangles []geom.Triangle3D
}

// Len returns the total number of loaded elements.
func (c Contents) Len() int {
	n := len(c.Triangles)
	if c.Points != nil {
		n += c.Points.Len()
	}
	return n
}

// LoadPath loads a file based on its extension. A trailing .gz is
// transparently unwrapped.
func LoadPath(path string) (Contents, error) {
	f, err := os.Open(path)
	if err != nil {
		return Contents{}, errors.New("opening file failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return Contents{}, errors.New("reading gzip header failed").
				WithTag("path", path).
				Wrap(err)
		}
		defer zr.Close()

		r = zr
		name = strings.TrimSuffix(name, ".gz")
	}

	var c Contents
	switch filepath.Ext(name) {
	case ".xyz", ".csv":
		c.Points, err = LoadXYZ(r, "")
	case ".ply":
		c.Points, err = LoadPLYPoints(r)
	case ".stl":
		c.Triangles, err = LoadSTL(r)
	case ".las":
		c.Points, err = LoadLAS(r)
	default:
		return Contents{}, errors.New("no loader for file extension").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("extension", filepath.Ext(name)).
			WithTag("path", path)
	}
	if err != nil {
		return Contents{}, errors.New("loading file failed").
			WithTag("path", path).
			Wrap(err)
	}
	return c, nil
}
