package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"go.viam.com/bounds/spatialmath"
)

// CullAction classifies every record of --volumes against the camera frustum of the config.
func CullAction(c *cli.Context) error {
	state := stateOf(c)
	cfg, err := readConfig(c)
	if err != nil {
		return err
	}
	if !cfg.Camera.IsSet() {
		return errors.New("cull needs a config with a camera section")
	}
	frustum, err := cfg.Camera.Frustum()
	if err != nil {
		return err
	}
	volumes, err := readVolumesFile(c.Path(cullFlagVolumes))
	if err != nil {
		return err
	}

	scopes := lo.Map(volumes, func(bv spatialmath.BoundingVolumes, _ int) spatialmath.Scope {
		return frustum.VolumesIn(bv)
	})
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Center", "Radius", "Scope"})
	for i, bv := range volumes {
		t.AppendRow(table.Row{i, fmtVec(bv.Center()), fmt.Sprintf("%.3f", bv.MaxRadius()), scopes[i]})
	}
	visible := lo.CountBy(scopes, func(s spatialmath.Scope) bool { return s != spatialmath.ScopeOutside })
	t.AppendFooter(table.Row{"", "", "visible", visible})
	state.logger.Debugw("culled", "records", len(volumes), "visible", visible)
	printf(c.App.Writer, "%s", t.Render())
	return nil
}
