package ellipsoid

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

// shape describes a reference ellipsoid for generating samples
type shape struct {
	center geometry.Vector3
	radii  geometry.Vector3
	axes   Axes
}

// point maps a unit direction onto the surface of s
func (s shape) point(dir geometry.Vector3) geometry.Vector3 {
	local := dir.Scale(s.radii)
	return s.center.
		Add(s.axes[0].Mul(local.X)).
		Add(s.axes[1].Mul(local.Y)).
		Add(s.axes[2].Mul(local.Z))
}

// randomPoints samples n points uniformly over directions with a fixed seed
func (s shape) randomPoints(n int, seed int64) []geometry.Vector3 {
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))
	points := make([]geometry.Vector3, n)
	for i := range points {
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)
		dir := geometry.NewVector3(
			math.Sin(phi)*math.Cos(theta),
			math.Sin(phi)*math.Sin(theta),
			math.Cos(phi),
		)
		points[i] = s.point(dir)
	}
	return points
}

// fibonacciPoints places n well-spread points on s using a Fibonacci lattice
func (s shape) fibonacciPoints(n int) []geometry.Vector3 {
	golden := math.Pi * (3 - math.Sqrt(5))
	points := make([]geometry.Vector3, n)
	for i := range points {
		z := 1 - (2*float64(i)+1)/float64(n)
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		points[i] = s.point(geometry.NewVector3(r*math.Cos(phi), r*math.Sin(phi), z))
	}
	return points
}

// rotation returns the frame of Rz(yaw)·Ry(pitch)·Rx(roll)
func rotation(roll, pitch, yaw float64) Axes {
	cr, sr := math.Cos(roll), math.Sin(roll)
	cp, sp := math.Cos(pitch), math.Sin(pitch)
	cy, sy := math.Cos(yaw), math.Sin(yaw)

	return Axes{
		geometry.NewVector3(cy*cp, sy*cp, -sp),
		geometry.NewVector3(cy*sp*sr-sy*cr, sy*sp*sr+cy*cr, cp*sr),
		geometry.NewVector3(cy*sp*cr+sy*sr, sy*sp*cr-cy*sr, cp*cr),
	}
}

func sorted(v geometry.Vector3) []float64 {
	s := []float64{v.X, v.Y, v.Z}
	sort.Float64s(s)
	return s
}

func assertVectorInDelta(t *testing.T, want, got geometry.Vector3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, delta, msgAndArgs...)
}
