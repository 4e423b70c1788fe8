package ellipsoid

import (
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// designMatrix builds the least-squares system for a fit of type t.
//
// The quadric Ax² + By² + Cz² + 2Dxy + 2Exz + 2Fyz + 2Gx + 2Hy + 2Iz + J = 0
// is constrained by A + B + C = -3, which removes the scale ambiguity and
// leaves x² + y² + z² as the right-hand side d2. Each row of D holds the
// remaining terms for one point; the column layout depends on t.
func designMatrix(points []geometry.Vector3, t Type) (*mat.Dense, *mat.VecDense) {
	n := len(points)
	k := t.FreeParams()
	d := mat.NewDense(n, k, nil)
	d2 := mat.NewVecDense(n, nil)

	row := make([]float64, 0, k)
	for i, p := range points {
		xx, yy, zz := p.X*p.X, p.Y*p.Y, p.Z*p.Z
		row = row[:0]

		// Quadratic terms
		switch t {
		case Arbitrary, Aligned:
			row = append(row, xx+yy-2*zz, xx+zz-2*yy)
		case XYEqual, AlignedXYEqual:
			row = append(row, xx+yy-2*zz)
		case XZEqual, AlignedXZEqual:
			row = append(row, xx+zz-2*yy)
		}

		// Cross terms
		if t.HasCrossTerms() {
			row = append(row, 2*p.X*p.Y, 2*p.X*p.Z, 2*p.Y*p.Z)
		}

		// Linear terms and the constant
		row = append(row, 2*p.X, 2*p.Y, 2*p.Z, 1)

		d.SetRow(i, row)
		d2.SetVec(i, xx+yy+zz)
	}

	return d, d2
}
