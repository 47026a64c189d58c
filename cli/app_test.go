package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/bounds/pointcloud"
	"go.viam.com/bounds/spatialmath"
)

// writeBoxPCD writes the corners of a 2x4x6 box turned 37 degrees about Z and centered at center.
func writeBoxPCD(t *testing.T, dir, name string, center r3.Vector) string {
	t.Helper()
	s, c := math.Sincos(37 * math.Pi / 180)
	var points []r3.Vector
	for _, x := range []float64{-1, 1} {
		for _, y := range []float64{-2, 2} {
			for _, z := range []float64{-3, 3} {
				points = append(points, center.Add(r3.Vector{X: c*x - s*y, Y: s*x + c*y, Z: z}))
			}
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pointcloud.ToPCD(points, f, pointcloud.PCDBinary), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"bounds"}, args...))
	return out.String(), errOut.String(), err
}

func TestFit(t *testing.T) {
	dir := t.TempDir()
	input := writeBoxPCD(t, dir, "box.pcd", r3.Vector{})

	t.Run("table", func(t *testing.T) {
		out, _, err := runApp(t, "fit", "--input", input)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "8 points from")
		for _, name := range []string{"aabb", "obb", "sphere", "48.00"} {
			test.That(t, out, test.ShouldContainSubstring, name)
		}
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := runApp(t, "fit", "--input", input, "--json")
		test.That(t, err, test.ShouldBeNil)
		var result volumesJSON
		test.That(t, json.Unmarshal([]byte(out), &result), test.ShouldBeNil)
		test.That(t, result.Points, test.ShouldEqual, 8)
		test.That(t, result.OBB.Volume, test.ShouldAlmostEqual, 48, 1e-3)
		test.That(t, result.Sphere.Radius, test.ShouldAlmostEqual, math.Sqrt(14), 1e-5)
	})

	t.Run("config schedule and debug logging", func(t *testing.T) {
		cfgPath := filepath.Join(dir, "coarse.json")
		test.That(t, os.WriteFile(cfgPath, []byte(`{"fit": {"coarse_step_deg": 30, "fine_step_deg": 5, "ultra_step_deg": 1}}`), 0o600),
			test.ShouldBeNil)
		_, logs, err := runApp(t, "--debug", "--config", cfgPath, "fit", "--input", input)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, logs, test.ShouldContainSubstring, "fitting")
		test.That(t, logs, test.ShouldContainSubstring, "loaded points")
	})

	t.Run("log file", func(t *testing.T) {
		logPath := filepath.Join(dir, "bounds.log")
		_, _, err := runApp(t, "--debug", "--log-file", logPath, "fit", "--input", input)
		test.That(t, err, test.ShouldBeNil)
		data, err := os.ReadFile(logPath)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, string(data), test.ShouldContainSubstring, "loaded points")
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := runApp(t, "fit")
		test.That(t, err, test.ShouldNotBeNil)

		_, _, err = runApp(t, "fit", "--input", filepath.Join(dir, "box.obj"))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "do not know how to read")

		bad := filepath.Join(dir, "bad.json")
		test.That(t, os.WriteFile(bad, []byte(`{"fit": {"coarse_step_deg": 1, "fine_step_deg": 2}}`), 0o600), test.ShouldBeNil)
		_, _, err = runApp(t, "--config", bad, "fit", "--input", input)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

// writeVolumes fits boxes at (0,0,-10), (0,0,10) and (0,0,-10) into one records file.
func writeVolumes(t *testing.T, dir string) string {
	t.Helper()
	records := filepath.Join(dir, "boxes.bvd")
	for i, z := range []float64{-10, 10, -10} {
		input := writeBoxPCD(t, dir, "box"+string(rune('a'+i))+".pcd", r3.Vector{Z: z})
		_, _, err := runApp(t, "fit", "--input", input, "--output", records)
		test.That(t, err, test.ShouldBeNil)
	}
	return records
}

func TestInspectAndIntersect(t *testing.T) {
	dir := t.TempDir()
	records := writeVolumes(t, dir)

	f, err := os.ReadFile(records)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(f), test.ShouldEqual, 3*spatialmath.BoundingVolumesDataSize)

	out, _, err := runApp(t, "inspect", records)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "3 records in")
	test.That(t, out, test.ShouldContainSubstring, "Z:-10.000")

	out, _, err = runApp(t, "intersect", records)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(out, "\n")
	var pairs []string
	for _, line := range lines {
		fields := strings.Fields(strings.ReplaceAll(line, "|", " "))
		if len(fields) >= 4 && (fields[2] == "true" || fields[2] == "false") {
			pairs = append(pairs, strings.Join(fields[:4], " "))
		}
	}
	test.That(t, pairs, test.ShouldResemble, []string{
		"0 1 false sphere",
		"0 2 true 0.0000",
		"1 2 false sphere",
	})

	_, _, err = runApp(t, "inspect")
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = runApp(t, "intersect", filepath.Join(dir, "missing.bvd"))
	test.That(t, err, test.ShouldNotBeNil)

	truncated := filepath.Join(dir, "truncated.bvd")
	test.That(t, os.WriteFile(truncated, f[:100], 0o600), test.ShouldBeNil)
	_, _, err = runApp(t, "inspect", truncated)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCull(t *testing.T) {
	dir := t.TempDir()
	records := writeVolumes(t, dir)
	cfgPath := filepath.Join(dir, "camera.json")
	test.That(t, os.WriteFile(cfgPath, []byte(`{
		"camera": {"fov_deg": 90, "aspect": 1, "near": 1, "far": 100, "eye": {}, "target": {"z": -1}},
		"log": {"level": "warn"}
	}`), 0o600), test.ShouldBeNil)

	for _, args := range [][]string{
		{"cull", "--volumes", records, "--config", cfgPath},
		{"--config", cfgPath, "cull", "--volumes", records},
	} {
		out, _, err := runApp(t, args...)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, strings.Count(out, "inside"), test.ShouldEqual, 2)
		test.That(t, strings.Count(out, "outside"), test.ShouldEqual, 1)
		test.That(t, out, test.ShouldContainSubstring, "VISIBLE")
	}

	_, _, err := runApp(t, "cull", "--volumes", records)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "camera")
}

func TestSchema(t *testing.T) {
	out, _, err := runApp(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	var schema map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out), &schema), test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "ultra_step_deg")
}

func TestWarningf(t *testing.T) {
	var buf bytes.Buffer
	warningf(&buf, "%d records", 1)
	test.That(t, buf.String(), test.ShouldContainSubstring, "Warning: ")
	test.That(t, buf.String(), test.ShouldEndWith, "1 records\n")
}
