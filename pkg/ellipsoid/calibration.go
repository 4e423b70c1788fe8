package ellipsoid

import (
	"errors"
	"fmt"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when a fit does not describe a real ellipsoid
var ErrDegenerate = errors.New("fit is not a real ellipsoid")

// Calibration maps raw sensor samples lying on a fitted ellipsoid onto a
// sphere centered at the origin.
//
// Offset is the hard-iron term (the ellipsoid center) and Matrix the
// soft-iron correction Q·diag(radius/r)·Qᵀ, where Q holds the principal axes.
type Calibration struct {
	Offset geometry.Vector3
	Matrix *mat.Dense
	Radius float64
}

// NewCalibration derives the correction for a fit result. targetRadius is the
// radius of the sphere corrected samples land on.
func NewCalibration(result *Result, targetRadius float64) (*Calibration, error) {
	if !result.Valid() {
		return nil, fmt.Errorf("%w: radii %v", ErrDegenerate, result.Radii)
	}
	if targetRadius <= 0 {
		return nil, fmt.Errorf("target radius must be positive, got %g", targetRadius)
	}

	q := result.Axes.Dense()
	scale := mat.NewDiagDense(3, []float64{
		targetRadius / result.Radii.X,
		targetRadius / result.Radii.Y,
		targetRadius / result.Radii.Z,
	})

	var qs, w mat.Dense
	qs.Mul(q, scale)
	w.Mul(&qs, q.T())

	return &Calibration{
		Offset: result.Center,
		Matrix: &w,
		Radius: targetRadius,
	}, nil
}

// Apply corrects a single raw sample
func (c *Calibration) Apply(p geometry.Vector3) geometry.Vector3 {
	d := p.Sub(c.Offset)
	m := c.Matrix
	return geometry.NewVector3(
		m.At(0, 0)*d.X+m.At(0, 1)*d.Y+m.At(0, 2)*d.Z,
		m.At(1, 0)*d.X+m.At(1, 1)*d.Y+m.At(1, 2)*d.Z,
		m.At(2, 0)*d.X+m.At(2, 1)*d.Y+m.At(2, 2)*d.Z,
	)
}

// ApplyAll corrects every sample in points and returns a new slice
func (c *Calibration) ApplyAll(points []geometry.Vector3) []geometry.Vector3 {
	out := make([]geometry.Vector3, len(points))
	for i, p := range points {
		out[i] = c.Apply(p)
	}
	return out
}
