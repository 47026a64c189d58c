package pointcloud

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// NewFromPLYFile returns the vertices of an ascii PLY file.
func NewFromPLYFile(fn string) ([]r3.Vector, error) {
	//nolint:gosec
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(f.Close)
	return ReadPLY(f)
}

// checkPLYHeader rejects input the parser cannot read: binary formats, and element counts that the data
// section is too short to hold. The parser allocates every declared element up front.
func checkPLYHeader(data []byte) error {
	header, body, ok := bytes.Cut(data, []byte("end_header"))
	if !ok {
		return errors.New("ply has no end_header")
	}
	lines := uint64(bytes.Count(body, []byte("\n"))) + 1
	var declared uint64
	for _, line := range strings.Split(string(header), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "format":
			if fields[1] != "ascii" {
				return errors.Errorf("%s ply is not supported, only ascii", fields[1])
			}
		case "element":
			if len(fields) < 3 {
				continue
			}
			n, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid element count for %s", fields[1])
			}
			if n > lines-declared {
				return errors.Errorf("ply declares more elements than its %d data lines", lines)
			}
			declared += n
		}
	}
	return nil
}

// ReadPLY returns the x, y and z properties of every vertex element of an ascii PLY stream. Faces are
// ignored. Binary PLY is rejected with an error.
func ReadPLY(r io.Reader) (points []r3.Vector, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkPLYHeader(data); err != nil {
		return nil, err
	}
	// the parser panics on malformed input
	defer func() {
		if rec := recover(); rec != nil {
			points = nil
			err = errors.Errorf("malformed ply: %v", rec)
		}
	}()
	ply := goply.New(bytes.NewReader(data))
	vertices := ply.Elements("vertex")
	if len(vertices) == 0 {
		return nil, errors.New("ply has no vertex elements")
	}
	points = make([]r3.Vector, 0, len(vertices))
	for i, v := range vertices {
		var coords [3]float64
		for j, name := range []string{"x", "y", "z"} {
			coords[j], err = plyFloat(v[name])
			if err != nil {
				return nil, errors.Wrapf(err, "vertex %d property %s", i, name)
			}
		}
		points = append(points, r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	return points, nil
}

func plyFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case int8:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case nil:
		return 0, errors.New("missing")
	default:
		return 0, errors.Errorf("unsupported type %T", v)
	}
}
