// Package pointcloud loads and stores the point sets that bounding volumes are fitted to. Supported
// formats are LAS, PLY and PCD.
package pointcloud

import (
	"path/filepath"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/bounds/logging"
	"go.viam.com/bounds/spatialmath"
)

// Floats beyond this range lose integer precision when narrowed for storage.
const (
	maxPreciseFloat64 = float64(1 << 53)
	minPreciseFloat64 = -maxPreciseFloat64
)

// MetaData summarizes a point set.
type MetaData struct {
	Count  int
	Bounds spatialmath.AABB
}

// NewMetaData returns the count and axis aligned bounds of points.
func NewMetaData(points []r3.Vector) MetaData {
	return MetaData{Count: len(points), Bounds: spatialmath.NewAABBFromPoints(points)}
}

// NewFromFile returns the points read in from the given file, picking the reader by extension.
func NewFromFile(fn string, logger logging.Logger) ([]r3.Vector, error) {
	var points []r3.Vector
	var err error
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".las":
		points, err = NewFromLASFile(fn, logger)
	case ".ply":
		points, err = NewFromPLYFile(fn)
	case ".pcd":
		points, err = NewFromPCDFile(fn)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", fn)
	}
	logger.Debugw("loaded points", "file", fn, "count", len(points))
	return points, nil
}

func checkPrecision(logger logging.Logger, p r3.Vector) {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if v < minPreciseFloat64 || v > maxPreciseFloat64 {
			logger.Warnw("potential floating point lossiness for point", "point", p)
			return
		}
	}
}
