package ellipsoid

import (
	"math"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Axes holds the three principal axis directions as unit column vectors.
// Axes[i] belongs to the i-th eigenvalue and the i-th radius.
type Axes [3]geometry.Vector3

// IdentityAxes is the reference frame used by LeastRotation
var IdentityAxes = Axes{
	geometry.NewVector3(1, 0, 0),
	geometry.NewVector3(0, 1, 0),
	geometry.NewVector3(0, 0, 1),
}

// Dense returns the axes as a 3x3 matrix with one axis per column
func (a Axes) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		a[0].X, a[1].X, a[2].X,
		a[0].Y, a[1].Y, a[2].Y,
		a[0].Z, a[1].Z, a[2].Z,
	})
}

// Det returns the determinant of the column matrix. It is +1 for a
// right-handed orthonormal frame and -1 for a left-handed one.
func (a Axes) Det() float64 {
	return a[0].Dot(a[1].Cross(a[2]))
}

// Quat returns the rotation taking the identity frame onto a, as a unit
// quaternion. The axes are assumed to form a right-handed orthonormal frame.
func (a Axes) Quat() quat.Number {
	// r[i][j] is component i of column j
	r00, r01, r02 := a[0].X, a[1].X, a[2].X
	r10, r11, r12 := a[0].Y, a[1].Y, a[2].Y
	r20, r21, r22 := a[0].Z, a[1].Z, a[2].Z

	var q quat.Number
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := 2 * math.Sqrt(trace+1)
		q = quat.Number{Real: s / 4, Imag: (r21 - r12) / s, Jmag: (r02 - r20) / s, Kmag: (r10 - r01) / s}
	case r00 > r11 && r00 > r22:
		s := 2 * math.Sqrt(1+r00-r11-r22)
		q = quat.Number{Real: (r21 - r12) / s, Imag: s / 4, Jmag: (r01 + r10) / s, Kmag: (r02 + r20) / s}
	case r11 > r22:
		s := 2 * math.Sqrt(1+r11-r00-r22)
		q = quat.Number{Real: (r02 - r20) / s, Imag: (r01 + r10) / s, Jmag: s / 4, Kmag: (r12 + r21) / s}
	default:
		s := 2 * math.Sqrt(1+r22-r00-r11)
		q = quat.Number{Real: (r10 - r01) / s, Imag: (r02 + r20) / s, Jmag: (r12 + r21) / s, Kmag: s / 4}
	}

	if norm := quat.Abs(q); norm > 0 {
		q = quat.Scale(1/norm, q)
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// RotationAngle returns the angle in radians, in [0, π], of the rotation
// taking the identity frame onto a.
func (a Axes) RotationAngle() float64 {
	q := a.Quat()
	vec := math.Sqrt(q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	return 2 * math.Atan2(vec, math.Abs(q.Real))
}

// Canonicalizer reorders and re-signs eigenpairs into a canonical
// configuration. Each returned eigenvalue must stay paired with its original
// eigenvector, up to the eigenvector's sign.
type Canonicalizer func(values [3]float64, axes Axes) ([3]float64, Axes)

// tieTolerance is the angle below which two candidate frames are considered
// equally close to the identity
const tieTolerance = 1e-12

var permutations = [6][3]int{
	{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
}

// LeastRotation picks, among the column permutations and sign flips of axes,
// the right-handed frame with the smallest rotation angle from the identity.
//
// Candidates are visited with permutations in lexicographic order and, within
// each permutation, sign patterns from (+,+,+) with the last axis flipping
// fastest. A candidate replaces the current best only if its angle is smaller
// by more than 1e-12 rad, so ties go to the earliest candidate. If no
// candidate is right-handed, as for degenerate axes, all candidates compete.
func LeastRotation(values [3]float64, axes Axes) ([3]float64, Axes) {
	type candidate struct {
		values [3]float64
		axes   Axes
	}

	candidates := make([]candidate, 0, 48)
	for _, perm := range permutations {
		for signs := 0; signs < 8; signs++ {
			var c candidate
			for i, src := range perm {
				sign := 1.0
				if signs&(4>>i) != 0 {
					sign = -1
				}
				c.values[i] = values[src]
				c.axes[i] = axes[src].Mul(sign)
			}
			candidates = append(candidates, c)
		}
	}

	anyRightHanded := false
	for _, c := range candidates {
		if c.axes.Det() > 0 {
			anyRightHanded = true
			break
		}
	}

	best := -1
	bestAngle := math.Inf(1)
	for i, c := range candidates {
		if anyRightHanded && c.axes.Det() <= 0 {
			continue
		}
		angle := c.axes.RotationAngle()
		if best < 0 || angle < bestAngle-tieTolerance {
			best = i
			bestAngle = angle
		}
	}

	return candidates[best].values, candidates[best].axes
}
