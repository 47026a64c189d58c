// Package config reads the JSON configuration of the bounds command: fit search steps, the culling
// camera and the log level.
package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/bounds/logging"
	"go.viam.com/bounds/spatialmath"
	"go.viam.com/bounds/utils"
)

// Config is the whole configuration file.
type Config struct {
	ConfigFilePath string `json:"-"`

	Fit    Fit    `json:"fit"`
	Camera Camera `json:"camera"`
	Log    Log    `json:"log"`
}

// Fit holds the OBB orientation search step sizes in degrees. Zero fields take the default schedule.
type Fit struct {
	CoarseStepDeg float64 `json:"coarse_step_deg,omitempty"`
	FineStepDeg   float64 `json:"fine_step_deg,omitempty"`
	UltraStepDeg  float64 `json:"ultra_step_deg,omitempty"`
}

// Camera describes a perspective camera used for frustum culling.
type Camera struct {
	FOVDeg float64    `json:"fov_deg"`
	Aspect float64    `json:"aspect"`
	Near   float64    `json:"near"`
	Far    float64    `json:"far"`
	Eye    r3.Vector  `json:"eye"`
	Target r3.Vector  `json:"target"`
	Up     *r3.Vector `json:"up,omitempty"`
	// Depth is "", "gl" or "zero_to_one".
	Depth string `json:"depth,omitempty"`
}

// Log holds logging options.
type Log struct {
	Level string `json:"level,omitempty"`
}

// Schedule returns the fit schedule with defaults filled in.
func (f Fit) Schedule() spatialmath.FitSchedule {
	s := spatialmath.DefaultFitSchedule
	if f.CoarseStepDeg > 0 {
		s.CoarseStepDeg = f.CoarseStepDeg
	}
	if f.FineStepDeg > 0 {
		s.FineStepDeg = f.FineStepDeg
	}
	if f.UltraStepDeg > 0 {
		s.UltraStepDeg = f.UltraStepDeg
	}
	return s
}

// Validate ensures the fit steps are usable once defaults are applied.
func (f Fit) Validate(path string) error {
	var errs error
	for _, step := range []struct {
		name string
		v    float64
	}{
		{"coarse_step_deg", f.CoarseStepDeg},
		{"fine_step_deg", f.FineStepDeg},
		{"ultra_step_deg", f.UltraStepDeg},
	} {
		switch {
		case step.v < 0:
			errs = multierr.Append(errs, errors.Errorf("%s.%s must not be negative, got %v", path, step.name, step.v))
		case step.v > 0 && step.v < spatialmath.MinFitStepDeg:
			errs = multierr.Append(errs, errors.Errorf("%s.%s must be at least %v, got %v",
				path, step.name, spatialmath.MinFitStepDeg, step.v))
		}
	}
	if errs != nil {
		return errs
	}
	s := f.Schedule()
	if s.CoarseStepDeg < s.FineStepDeg || s.FineStepDeg < s.UltraStepDeg {
		return errors.Errorf("%s: steps must satisfy coarse >= fine >= ultra, got %v, %v, %v",
			path, s.CoarseStepDeg, s.FineStepDeg, s.UltraStepDeg)
	}
	return nil
}

// IsSet reports whether any camera field was given.
func (c Camera) IsSet() bool {
	return c != Camera{}
}

// Validate ensures the camera describes a finite perspective frustum.
func (c Camera) Validate(path string) error {
	var errs error
	if c.FOVDeg <= 0 || c.FOVDeg >= 180 {
		errs = multierr.Append(errs, errors.Errorf("%s.fov_deg must be in (0, 180), got %v", path, c.FOVDeg))
	}
	if c.Aspect <= 0 {
		errs = multierr.Append(errs, errors.Errorf("%s.aspect must be positive, got %v", path, c.Aspect))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		errs = multierr.Append(errs, errors.Errorf("%s: need 0 < near < far, got near %v far %v", path, c.Near, c.Far))
	}
	if c.Eye.Sub(c.Target).Norm() < 1e-9 {
		errs = multierr.Append(errs, errors.Errorf("%s: eye and target must differ", path))
	}
	if c.Up != nil && c.Up.Cross(c.Target.Sub(c.Eye)).Norm() < 1e-9 {
		errs = multierr.Append(errs, errors.Errorf("%s.up must not be parallel to the view direction", path))
	}
	if _, err := c.DepthRange(); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, path))
	}
	return errs
}

// DepthRange maps the depth name to the clip space convention.
func (c Camera) DepthRange() (spatialmath.DepthRange, error) {
	switch c.Depth {
	case "", "gl":
		return spatialmath.DepthNegativeOneToOne, nil
	case "zero_to_one":
		return spatialmath.DepthZeroToOne, nil
	default:
		return 0, errors.Errorf("unknown depth range %q", c.Depth)
	}
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// ViewProjection returns projection*view for the camera. The projection is OpenGL style; for the
// zero_to_one depth range its depth row is remapped so near maps to 0.
func (c Camera) ViewProjection() mgl64.Mat4 {
	up := r3.Vector{Y: 1}
	if c.Up != nil {
		up = *c.Up
	}
	proj := mgl64.Perspective(utils.DegToRad(c.FOVDeg), c.Aspect, c.Near, c.Far)
	if depth, err := c.DepthRange(); err == nil && depth == spatialmath.DepthZeroToOne {
		// z' = (z + w) / 2
		remap := mgl64.Ident4()
		remap.Set(2, 2, 0.5)
		remap.Set(2, 3, 0.5)
		proj = remap.Mul4(proj)
	}
	view := mgl64.LookAtV(toVec3(c.Eye), toVec3(c.Target), toVec3(up))
	return proj.Mul4(view)
}

// Frustum returns the culling frustum of the camera.
func (c Camera) Frustum() (spatialmath.Frustum, error) {
	depth, err := c.DepthRange()
	if err != nil {
		return spatialmath.Frustum{}, err
	}
	var f spatialmath.Frustum
	f.SetMatrixDepth(c.ViewProjection(), depth)
	return f, nil
}

// Validate checks every section. The camera is only checked when set.
func (c *Config) Validate() error {
	var errs error
	errs = multierr.Append(errs, c.Fit.Validate("fit"))
	if c.Camera.IsSet() {
		errs = multierr.Append(errs, c.Camera.Validate("camera"))
	}
	if c.Log.Level != "" {
		if _, err := logging.LevelFromString(c.Log.Level); err != nil {
			errs = multierr.Append(errs, errors.Wrap(err, "log.level"))
		}
	}
	return errs
}

// LogLevel returns the configured level, INFO when unset.
func (c *Config) LogLevel() logging.Level {
	if c.Log.Level == "" {
		return logging.INFO
	}
	level, err := logging.LevelFromString(c.Log.Level)
	if err != nil {
		return logging.INFO
	}
	return level
}

func (c *Config) String() string {
	s := c.Fit.Schedule()
	return fmt.Sprintf("fit steps %v/%v/%v deg, camera set: %v", s.CoarseStepDeg, s.FineStepDeg, s.UltraStepDeg, c.Camera.IsSet())
}
