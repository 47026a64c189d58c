package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/bounds/utils"
)

const (
	// coarseWindowDeg is the half width of the first angular sweep around each seed orientation.
	coarseWindowDeg = 45.
	// maxStepsPerSide caps the sweep of one pass at 2*maxStepsPerSide+1 angles per Euler axis.
	maxStepsPerSide = 16
)

// MinFitStepDeg is the smallest step size a FitSchedule should carry.
const MinFitStepDeg = 0.01

// FitSchedule holds the angular step, in degrees, of each of the three refinement passes of the
// minimum volume search. Each pass searches plus or minus the previous step around the previous best.
// A step finer than 1/16 of its window is coarsened to that, which bounds every pass.
type FitSchedule struct {
	CoarseStepDeg float64 `json:"coarse_step_deg"`
	FineStepDeg   float64 `json:"fine_step_deg"`
	UltraStepDeg  float64 `json:"ultra_step_deg"`
}

// DefaultFitSchedule is the 15°, 3°, 0.5° schedule used by OBB.SetFromPoints.
var DefaultFitSchedule = FitSchedule{CoarseStepDeg: 15, FineStepDeg: 3, UltraStepDeg: 0.5}

func (s FitSchedule) steps() [3]float64 {
	return [3]float64{s.CoarseStepDeg, s.FineStepDeg, s.UltraStepDeg}
}

// FitResult is the best box orientation found by SearchMinVolume.
type FitResult struct {
	Center   r3.Vector
	Axes     [3]r3.Vector
	HalfSize r3.Vector

	Volume      float64
	SurfaceArea float64

	// Evaluations counts the orientations whose extents were computed.
	Evaluations int
}

// better reports whether r is a strictly better fit than other: smaller volume, with surface area
// breaking ties between boxes of equal volume (flat and degenerate point sets).
func (r FitResult) better(other FitResult) bool {
	tol := 1e-9 * math.Max(1, other.Volume)
	if r.Volume < other.Volume-tol {
		return true
	}
	return math.Abs(r.Volume-other.Volume) <= tol && r.SurfaceArea < other.SurfaceArea-1e-9*math.Max(1, other.SurfaceArea)
}

// SearchMinVolume looks for the orientation of the smallest box enclosing points.
//
// Two seed orientations are tried: the world axes and the principal axes of the point covariance. Around
// each seed a coarse sweep of Euler offsets covers ±45° at the coarse step, then a fine sweep covers
// ± the coarse step around the best coarse offset, then an ultra sweep does the same at the fine step.
// This is hill climbing, so it can settle in a local minimum near the best coarse candidate. The world
// axes at zero offset are always evaluated, so the result is never larger than the axis aligned box.
//
// No points returns the zero FitResult.
func SearchMinVolume(points []r3.Vector, schedule FitSchedule) FitResult {
	if len(points) == 0 {
		return FitResult{}
	}
	seeds := []quat.Number{{Real: 1}}
	if pca, ok := principalAxes(points); ok {
		seeds = append(seeds, quatFromBasis(pca))
	}

	evaluations := 0
	best := evaluateOrientation(points, seeds[0])
	evaluations++

	steps := schedule.steps()
	for _, seed := range seeds {
		var offset [3]float64 // rx, ry, rz in degrees relative to seed
		seedBest := evaluateOrientation(points, seed)
		evaluations++
		window := coarseWindowDeg
		for _, step := range steps {
			if step <= 0 {
				break
			}
			step = math.Max(step, window/maxStepsPerSide)
			angles := utils.AngleSteps(window, step)
			center := offset
			for _, dx := range angles {
				for _, dy := range angles {
					for _, dz := range angles {
						cand := [3]float64{center[0] + dx, center[1] + dy, center[2] + dz}
						res := evaluateOrientation(points, quat.Mul(seed, eulerQuat(cand)))
						evaluations++
						if res.better(seedBest) {
							seedBest = res
							offset = cand
						}
					}
				}
			}
			window = step
		}
		if seedBest.better(best) {
			best = seedBest
		}
	}
	best.Evaluations = evaluations
	return best
}

// evaluateOrientation fits the box with the axes of rotation q tightly around points.
func evaluateOrientation(points []r3.Vector, q quat.Number) FitResult {
	axes := [3]r3.Vector{
		rotateByQuat(q, worldAxes[0]),
		rotateByQuat(q, worldAxes[1]),
		rotateByQuat(q, worldAxes[2]),
	}
	var lo, hi [3]float64
	for i := range axes {
		lo[i], hi[i] = math.Inf(1), math.Inf(-1)
	}
	for _, p := range points {
		for i, axis := range axes {
			d := p.Dot(axis)
			lo[i] = math.Min(lo[i], d)
			hi[i] = math.Max(hi[i], d)
		}
	}

	res := FitResult{Axes: axes}
	var size [3]float64
	for i, axis := range axes {
		size[i] = hi[i] - lo[i]
		res.Center = res.Center.Add(axis.Mul((lo[i] + hi[i]) / 2))
	}
	res.HalfSize = r3.Vector{X: size[0] / 2, Y: size[1] / 2, Z: size[2] / 2}
	res.Volume = size[0] * size[1] * size[2]
	res.SurfaceArea = 2 * (size[0]*size[1] + size[1]*size[2] + size[2]*size[0])
	return res
}

// principalAxes returns the eigenvectors of the point covariance as a right handed basis.
func principalAxes(points []r3.Vector) ([3]r3.Vector, bool) {
	if len(points) < 3 {
		return [3]r3.Vector{}, false
	}
	data := mat.NewDense(len(points), 3, PointsToBuffer(points))
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return [3]r3.Vector{}, false
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	var basis [3]r3.Vector
	for i := range basis {
		v := r3.Vector{X: vecs.At(0, i), Y: vecs.At(1, i), Z: vecs.At(2, i)}
		if v.Norm() < floatEpsilon {
			return [3]r3.Vector{}, false
		}
		basis[i] = v.Normalize()
	}
	if basis[0].Cross(basis[1]).Dot(basis[2]) < 0 {
		basis[2] = basis[2].Mul(-1)
	}
	return basis, true
}

// eulerQuat returns Rz·Ry·Rx for angles in degrees.
func eulerQuat(deg [3]float64) quat.Number {
	qx := axisAngleQuat(worldAxes[0], utils.DegToRad(deg[0]))
	qy := axisAngleQuat(worldAxes[1], utils.DegToRad(deg[1]))
	qz := axisAngleQuat(worldAxes[2], utils.DegToRad(deg[2]))
	return quat.Mul(quat.Mul(qz, qy), qx)
}

func axisAngleQuat(axis r3.Vector, theta float64) quat.Number {
	s := math.Sin(theta / 2)
	return quat.Number{Real: math.Cos(theta / 2), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

func rotateByQuat(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// quatFromBasis converts a right handed orthonormal basis, given as the images of the world axes, into
// the equivalent unit quaternion.
func quatFromBasis(b [3]r3.Vector) quat.Number {
	// rotation matrix with the basis vectors as columns
	m00, m01, m02 := b[0].X, b[1].X, b[2].X
	m10, m11, m12 := b[0].Y, b[1].Y, b[2].Y
	m20, m21, m22 := b[0].Z, b[1].Z, b[2].Z

	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = quat.Number{Real: s / 4, Imag: (m21 - m12) / s, Jmag: (m02 - m20) / s, Kmag: (m10 - m01) / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: s / 4, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: s / 4, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: s / 4}
	}
	return quat.Scale(1/quat.Abs(q), q)
}
