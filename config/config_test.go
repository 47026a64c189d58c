package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/bounds/logging"
	"go.viam.com/bounds/spatialmath"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bounds.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestRead(t *testing.T) {
	logger := logging.NewTestLogger(t)

	t.Run("full config with env expansion", func(t *testing.T) {
		t.Setenv("BOUNDS_FAR", "250")
		path := writeConfig(t, `{
			"fit": {"coarse_step_deg": 10, "fine_step_deg": 2},
			"camera": {
				"fov_deg": 60, "aspect": 1.5, "near": 0.5, "far": ${BOUNDS_FAR},
				"eye": {"x": 0, "y": 0, "z": 5}, "target": {"x": 0, "y": 0, "z": 0},
				"depth": "zero_to_one"
			},
			"log": {"level": "debug"}
		}`)
		cfg, err := Read(path, logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
		test.That(t, cfg.Camera.Far, test.ShouldEqual, 250.)
		test.That(t, cfg.Camera.Eye, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 5})
		test.That(t, cfg.Fit.Schedule(), test.ShouldResemble, spatialmath.FitSchedule{
			CoarseStepDeg: 10, FineStepDeg: 2, UltraStepDeg: spatialmath.DefaultFitSchedule.UltraStepDeg,
		})
		test.That(t, cfg.LogLevel(), test.ShouldEqual, logging.DEBUG)
	})

	t.Run("empty object uses defaults", func(t *testing.T) {
		cfg, err := Read(writeConfig(t, `{}`), logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cfg.Fit.Schedule(), test.ShouldResemble, spatialmath.DefaultFitSchedule)
		test.That(t, cfg.Camera.IsSet(), test.ShouldBeFalse)
		test.That(t, cfg.LogLevel(), test.ShouldEqual, logging.INFO)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Read(filepath.Join(t.TempDir(), "nope.json"), logger)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Read(writeConfig(t, `{"fitt": {}}`), logger)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "decode")
	})

	t.Run("all errors reported", func(t *testing.T) {
		_, err := Read(writeConfig(t, `{
			"fit": {"fine_step_deg": -1},
			"camera": {"fov_deg": 200, "aspect": 1, "near": 2, "far": 1, "eye": {"z": 1}},
			"log": {"level": "chatty"}
		}`), logger)
		test.That(t, err, test.ShouldNotBeNil)
		for _, want := range []string{"fine_step_deg", "fov_deg", "near < far", "log.level"} {
			test.That(t, err.Error(), test.ShouldContainSubstring, want)
		}
	})
}

func TestFitValidate(t *testing.T) {
	test.That(t, Fit{}.Validate("fit"), test.ShouldBeNil)
	test.That(t, Fit{CoarseStepDeg: 20, FineStepDeg: 4, UltraStepDeg: 1}.Validate("fit"), test.ShouldBeNil)

	err := Fit{FineStepDeg: 30}.Validate("fit")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "coarse >= fine >= ultra")

	err = Fit{UltraStepDeg: 0.0001}.Validate("fit")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "fit.ultra_step_deg must be at least 0.01")
	test.That(t, Fit{UltraStepDeg: 0.01}.Validate("fit"), test.ShouldBeNil)
}

func TestCameraValidate(t *testing.T) {
	good := Camera{FOVDeg: 90, Aspect: 1, Near: 1, Far: 100, Target: r3.Vector{Z: -1}}
	test.That(t, good.Validate("camera"), test.ShouldBeNil)

	for _, tc := range []struct {
		name   string
		modify func(c *Camera)
		want   string
	}{
		{"fov", func(c *Camera) { c.FOVDeg = 0 }, "fov_deg"},
		{"aspect", func(c *Camera) { c.Aspect = -1 }, "aspect"},
		{"near", func(c *Camera) { c.Near = 0 }, "near < far"},
		{"eye", func(c *Camera) { c.Target = c.Eye }, "eye and target"},
		{"up", func(c *Camera) { c.Up = &r3.Vector{Z: 1} }, "up"},
		{"depth", func(c *Camera) { c.Depth = "reversed" }, "unknown depth range"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := good
			tc.modify(&c)
			err := c.Validate("camera")
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.want)
		})
	}
}

func TestCameraFrustum(t *testing.T) {
	cam := Camera{FOVDeg: 90, Aspect: 1, Near: 1, Far: 100, Target: r3.Vector{Z: -1}}
	f, err := cam.Frustum()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.PointIn(r3.Vector{Z: -2}), test.ShouldEqual, spatialmath.ScopeInside)
	test.That(t, f.PointIn(r3.Vector{Z: -0.5}), test.ShouldEqual, spatialmath.ScopeOutside)
	test.That(t, f.PointIn(r3.Vector{Z: -101}), test.ShouldEqual, spatialmath.ScopeOutside)
	test.That(t, f.PointIn(r3.Vector{X: 3, Z: -2}), test.ShouldEqual, spatialmath.ScopeOutside)

	// the remapped projection yields the same planes
	cam.Depth = "zero_to_one"
	g, err := cam.Frustum()
	test.That(t, err, test.ShouldBeNil)
	for side := spatialmath.SideLeft; side <= spatialmath.SideBottom; side++ {
		a, b := f.Plane(side), g.Plane(side)
		test.That(t, spatialmath.R3VectorAlmostEqual(a.Normal, b.Normal, 1e-9), test.ShouldBeTrue)
		test.That(t, a.Offset, test.ShouldAlmostEqual, b.Offset, 1e-9)
	}

	cam.Depth = "bad"
	_, err = cam.Frustum()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigString(t *testing.T) {
	cfg := &Config{}
	test.That(t, strings.Contains(cfg.String(), "15/3/0.5"), test.ShouldBeTrue)
}

func TestSchema(t *testing.T) {
	data, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	for _, key := range []string{"coarse_step_deg", "fov_deg", "level"} {
		test.That(t, string(data), test.ShouldContainSubstring, key)
	}
	test.That(t, string(data), test.ShouldNotContainSubstring, "ConfigFilePath")
}
