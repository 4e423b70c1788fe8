package ellipsoid

import (
	"math"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// decomposition is the geometric description recovered from a quadric
type decomposition struct {
	center      geometry.Vector3
	radii       geometry.Vector3
	eigenvalues [3]float64
	axes        Axes
}

// decompose turns the algebraic form v into center, principal axes and radii.
// Degenerate or non-ellipsoidal quadrics are not errors: they surface as NaN
// or Inf in the eigenvalues and radii.
func decompose(v Coefficients, canonicalize Canonicalizer) decomposition {
	var out decomposition

	// Step 1: Homogeneous form of the quadric
	a4 := v.Matrix()

	// Step 2: Center from the linear part, A3·c = -(G, H, I)
	a3 := a4.SliceSym(0, 3)
	linear := mat.NewVecDense(3, []float64{-v[6], -v[7], -v[8]})
	c := solveLeastSquares(a3, linear)
	out.center = geometry.NewVector3(c.AtVec(0), c.AtVec(1), c.AtVec(2))

	// Step 3: Translate the quadric to the origin, R = T·A4·Tᵀ
	t := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		c.AtVec(0), c.AtVec(1), c.AtVec(2), 1,
	})
	var ta, r mat.Dense
	ta.Mul(t, a4)
	r.Mul(&ta, t.T())

	// Step 4: Eigenproblem of the normalized quadratic block
	var m mat.Dense
	m.Scale(-1/r.At(3, 3), r.Slice(0, 3, 0, 3))
	out.eigenvalues, out.axes = eigen3(&m)

	// Step 5: Canonical axis order
	if canonicalize != nil {
		out.eigenvalues, out.axes = canonicalize(out.eigenvalues, out.axes)
	}

	// Step 6: Radii, NaN for a hyperboloid axis
	out.radii = geometry.NewVector3(
		radius(out.eigenvalues[0]),
		radius(out.eigenvalues[1]),
		radius(out.eigenvalues[2]),
	)

	return out
}

// eigen3 returns the real parts of the eigenvalues and unit eigenvectors of m.
// A general solver is used so small asymmetries from rounding are tolerated.
// Non-finite input yields NaN eigenpairs.
func eigen3(m *mat.Dense) ([3]float64, Axes) {
	var values [3]float64
	var axes Axes

	if !allFinite(m) {
		return nanEigen()
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenRight); !ok {
		return nanEigen()
	}

	ev := eig.Values(nil)
	var vecs mat.CDense
	eig.VectorsTo(&vecs)

	for j := 0; j < 3; j++ {
		values[j] = real(ev[j])
		axis := geometry.NewVector3(
			real(vecs.At(0, j)),
			real(vecs.At(1, j)),
			real(vecs.At(2, j)),
		)
		// The real part of a complex eigenvector is not unit length
		axes[j] = axis.Normalize()
	}

	return values, axes
}

func nanEigen() ([3]float64, Axes) {
	nan := math.NaN()
	v := geometry.NewVector3(nan, nan, nan)
	return [3]float64{nan, nan, nan}, Axes{v, v, v}
}

func allFinite(m mat.Matrix) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if x := m.At(i, j); math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}

// radius converts an eigenvalue of the normalized quadric into a semi-axis
// length. Negative eigenvalues give NaN and zero gives +Inf.
func radius(eigenvalue float64) float64 {
	return math.Sqrt(1 / eigenvalue)
}
