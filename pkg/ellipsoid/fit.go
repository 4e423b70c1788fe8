package ellipsoid

import (
	"errors"
	"fmt"
	"math"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// ErrTooFewPoints is returned when a cloud has fewer points than the fit has
// unknowns
var ErrTooFewPoints = errors.New("too few points")

// Parameters is the geometric description of a fitted ellipsoid.
// Radii are NaN or +Inf along axes where the fitted surface is not a real
// ellipsoid, e.g. for a hyperboloid or a degenerate cloud.
type Parameters struct {
	Center geometry.Vector3
	Radii  geometry.Vector3
}

// Result is the complete outcome of a fit. Eigenvalues, Axes and Radii share
// the same canonical order.
type Result struct {
	Parameters

	Type         Type
	Coefficients Coefficients // Algebraic form, A + B + C = -3
	Eigenvalues  [3]float64   // Eigenvalues of the centered, normalized quadric
	Axes         Axes         // Unit principal axis directions
	Residual     float64      // RMS residual of the least-squares system
}

// Orientation returns the rotation from the coordinate frame onto the
// principal axes
func (r *Result) Orientation() quat.Number {
	return r.Axes.Quat()
}

// Valid reports whether every radius is finite and positive
func (r *Result) Valid() bool {
	for _, v := range []float64{r.Radii.X, r.Radii.Y, r.Radii.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

type options struct {
	canonicalize Canonicalizer
}

// Option configures FitDetailed
type Option func(*options)

// WithCanonicalizer replaces LeastRotation as the rule that orders the
// principal axes. A nil canonicalizer keeps the solver's raw order.
func WithCanonicalizer(c Canonicalizer) Option {
	return func(o *options) {
		o.canonicalize = c
	}
}

// Fit fits an ellipsoid of the given type to points and returns its center
// and radii
func Fit(points []geometry.Vector3, t Type) (Parameters, error) {
	result, err := FitDetailed(points, t)
	if err != nil {
		return Parameters{}, err
	}
	return result.Parameters, nil
}

// FitDetailed fits an ellipsoid of the given type to points and returns the
// geometric parameters together with the algebraic coefficients and the
// eigen decomposition they were derived from.
//
// Errors are returned only for an unknown type or too few points. A
// degenerate cloud still produces a result, with NaN or Inf radii.
func FitDetailed(points []geometry.Vector3, t Type, opts ...Option) (*Result, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if need := t.FreeParams(); len(points) < need {
		return nil, fmt.Errorf("%w: %s fit needs at least %d points, got %d", ErrTooFewPoints, t, need, len(points))
	}

	o := options{canonicalize: LeastRotation}
	for _, opt := range opts {
		opt(&o)
	}

	d, d2 := designMatrix(points, t)
	u := solveNormalEquations(d, d2)
	v := expandCoefficients(u, t)
	geo := decompose(v, o.canonicalize)

	return &Result{
		Parameters: Parameters{
			Center: geo.center,
			Radii:  geo.radii,
		},
		Type:         t,
		Coefficients: v,
		Eigenvalues:  geo.eigenvalues,
		Axes:         geo.axes,
		Residual:     residual(d, u, d2),
	}, nil
}

// residual returns ‖D·u − d2‖ / √N
func residual(d *mat.Dense, u, d2 *mat.VecDense) float64 {
	n, _ := d.Dims()

	var r mat.VecDense
	r.MulVec(d, u)
	r.SubVec(&r, d2)

	return mat.Norm(&r, 2) / math.Sqrt(float64(n))
}
