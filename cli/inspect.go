package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// InspectAction prints every record of a volumes file.
func InspectAction(c *cli.Context) error {
	path, err := singleFileArg(c)
	if err != nil {
		return err
	}
	volumes, err := readVolumesFile(path)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "AABB Min", "AABB Max", "OBB Center", "OBB Half Size", "Sphere Center", "Radius"})
	for i, bv := range volumes {
		if bv.IsEmpty() {
			t.AppendRow(table.Row{i, "empty", "", "", "", "", ""})
			continue
		}
		aabb, obb, sphere := bv.AABB(), bv.OBB(), bv.Sphere()
		t.AppendRow(table.Row{
			i,
			fmtVec(aabb.Min()),
			fmtVec(aabb.Max()),
			fmtVec(obb.Center()),
			fmtVec(obb.HalfSize()),
			fmtVec(sphere.Center()),
			fmt.Sprintf("%.3f", sphere.Radius()),
		})
	}
	printf(c.App.Writer, "%d records in %s", len(volumes), path)
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// IntersectAction runs the intersection cascade on every pair of records.
func IntersectAction(c *cli.Context) error {
	state := stateOf(c)
	path, err := singleFileArg(c)
	if err != nil {
		return err
	}
	volumes, err := readVolumesFile(path)
	if err != nil {
		return err
	}
	if len(volumes) < 2 {
		warningf(c.App.ErrWriter, "%s has %d records, nothing to compare", path, len(volumes))
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"A", "B", "Intersects", "Rejected By", "OBB Distance"})
	hits := 0
	for i := 0; i < len(volumes); i++ {
		for j := i + 1; j < len(volumes); j++ {
			ok, stage := volumes[i].IntersectsStage(volumes[j])
			if ok {
				hits++
			}
			t.AppendRow(table.Row{i, j, ok, stage, fmt.Sprintf("%.4f", volumes[i].OBB().Distance(volumes[j].OBB()))})
		}
	}
	state.logger.Debugw("intersection cascade done", "records", len(volumes), "intersecting pairs", hits)
	printf(c.App.Writer, "%s", t.Render())
	return nil
}
