package cli

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/bounds/pointcloud"
	"go.viam.com/bounds/spatialmath"
)

type aabbJSON struct {
	Min r3.Vector `json:"min"`
	Max r3.Vector `json:"max"`
}

type obbJSON struct {
	Center   r3.Vector    `json:"center"`
	Axes     [3]r3.Vector `json:"axes"`
	HalfSize r3.Vector    `json:"half_size"`
	Volume   float64      `json:"volume"`
}

type sphereJSON struct {
	Center r3.Vector `json:"center"`
	Radius float64   `json:"radius"`
}

type volumesJSON struct {
	Points int        `json:"points"`
	AABB   aabbJSON   `json:"aabb"`
	OBB    obbJSON    `json:"obb"`
	Sphere sphereJSON `json:"sphere"`
}

func newVolumesJSON(count int, bv spatialmath.BoundingVolumes) volumesJSON {
	aabb, obb, sphere := bv.AABB(), bv.OBB(), bv.Sphere()
	return volumesJSON{
		Points: count,
		AABB:   aabbJSON{Min: aabb.Min(), Max: aabb.Max()},
		OBB: obbJSON{
			Center:   obb.Center(),
			Axes:     obb.Axes(),
			HalfSize: obb.HalfSize(),
			Volume:   obb.Volume(),
		},
		Sphere: sphereJSON{Center: sphere.Center(), Radius: sphere.Radius()},
	}
}

// volumesTable renders one row per volume of bv.
func volumesTable(bv spatialmath.BoundingVolumes) string {
	aabb, obb, sphere := bv.AABB(), bv.OBB(), bv.Sphere()
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Volume", "Center", "Extent", "Size"})
	t.AppendRow(table.Row{"aabb", fmtVec(aabb.Center()), "half " + fmtVec(aabb.HalfExtents()), fmt.Sprintf("%.4f", aabb.Volume())})
	t.AppendRow(table.Row{"obb", fmtVec(obb.Center()), "half " + fmtVec(obb.HalfSize()), fmt.Sprintf("%.4f", obb.Volume())})
	t.AppendRow(table.Row{"sphere", fmtVec(sphere.Center()), fmt.Sprintf("radius %.3f", sphere.Radius()), fmt.Sprintf("%.4f", sphere.Volume())})
	return t.Render()
}

// FitAction fits bounding volumes to the points of --input.
func FitAction(c *cli.Context) error {
	state := stateOf(c)
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}
	input := c.Path(fitFlagInput)
	points, err := pointcloud.NewFromFile(input, state.logger)
	if err != nil {
		return err
	}
	md := pointcloud.NewMetaData(points)

	schedule := cfg.Fit.Schedule()
	state.logger.Debugw("fitting", "points", md.Count, "schedule", schedule)
	var bv spatialmath.BoundingVolumes
	if !bv.SetFromVectors(points, schedule) {
		return errors.Errorf("%q contains no points", input)
	}
	if aabbVol := md.Bounds.Volume(); bv.OBB().Volume() > aabbVol+1e-9 {
		warningf(c.App.ErrWriter, "oriented box volume %.4f exceeds axis aligned %.4f", bv.OBB().Volume(), aabbVol)
	}

	if c.Bool(fitFlagJSON) {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newVolumesJSON(md.Count, bv)); err != nil {
			return err
		}
	} else {
		printf(c.App.Writer, "%d points from %s", md.Count, input)
		printf(c.App.Writer, "%s", volumesTable(bv))
	}

	if out := c.Path(fitFlagOutput); out != "" {
		if err := appendVolumesFile(out, bv); err != nil {
			return errors.Wrapf(err, "writing %q", out)
		}
		state.logger.Infow("appended bounding volumes record", "file", out)
	}
	return nil
}
