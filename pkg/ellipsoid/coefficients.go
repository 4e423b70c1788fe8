package ellipsoid

import (
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// Coefficients holds the general quadric
//
//	A x² + B y² + C z² + 2D xy + 2E xz + 2F yz + 2G x + 2H y + 2I z + J = 0
//
// in the order A, B, C, D, E, F, G, H, I, J.
type Coefficients [10]float64

// expandCoefficients back-substitutes the reduced solution u of a fit of type
// t into the full quadric, restoring the terms eliminated by A + B + C = -3
// and the terms the type forces to zero or equal.
func expandCoefficients(u mat.Vector, t Type) Coefficients {
	var v Coefficients

	// Squared terms
	switch t {
	case Arbitrary, Aligned:
		v[0] = u.AtVec(0) + u.AtVec(1) - 1
		v[1] = u.AtVec(0) - 2*u.AtVec(1) - 1
		v[2] = u.AtVec(1) - 2*u.AtVec(0) - 1
	case XYEqual, AlignedXYEqual:
		v[0] = u.AtVec(0) - 1
		v[1] = u.AtVec(0) - 1
		v[2] = -2*u.AtVec(0) - 1
	case XZEqual, AlignedXZEqual:
		v[0] = u.AtVec(0) - 1
		v[1] = -2*u.AtVec(0) - 1
		v[2] = u.AtVec(0) - 1
	case Sphere:
		v[0], v[1], v[2] = -1, -1, -1
	}

	// The remaining entries of u map onto D..J, or onto G..J when the
	// cross terms are fixed at zero.
	first := 3
	if !t.HasCrossTerms() {
		first = 6
	}
	offset := t.FreeParams() - (10 - first)
	for i := first; i < 10; i++ {
		v[i] = u.AtVec(offset + i - first)
	}

	return v
}

// Matrix returns the symmetric 4x4 homogeneous form of the quadric
func (c Coefficients) Matrix() *mat.SymDense {
	return mat.NewSymDense(4, []float64{
		c[0], c[3], c[4], c[6],
		c[3], c[1], c[5], c[7],
		c[4], c[5], c[2], c[8],
		c[6], c[7], c[8], c[9],
	})
}

// Eval evaluates the quadric at p. Points on the surface evaluate to zero.
func (c Coefficients) Eval(p geometry.Vector3) float64 {
	return c[0]*p.X*p.X + c[1]*p.Y*p.Y + c[2]*p.Z*p.Z +
		2*(c[3]*p.X*p.Y+c[4]*p.X*p.Z+c[5]*p.Y*p.Z) +
		2*(c[6]*p.X+c[7]*p.Y+c[8]*p.Z) +
		c[9]
}
