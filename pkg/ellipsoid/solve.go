package ellipsoid

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveLeastSquares returns the minimum-norm solution of a·x ≈ b.
//
// The effective rank keeps singular values above max(m, n)·ε·σmax, so a
// singular or nearly singular a yields the pseudo-inverse solution instead of
// an error. A zero matrix gives the zero vector. If the factorization fails,
// which happens for non-finite input, every component is NaN.
func solveLeastSquares(a mat.Matrix, b mat.Vector) *mat.VecDense {
	m, n := a.Dims()
	x := mat.NewVecDense(n, nil)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		for i := 0; i < n; i++ {
			x.SetVec(i, math.NaN())
		}
		return x
	}

	rcond := float64(max(m, n)) * epsilon
	rank := svd.Rank(rcond)
	if rank == 0 {
		return x
	}

	svd.SolveVecTo(x, b, rank)
	return x
}

// solveNormalEquations solves (DᵗD)·u = Dᵗ·d2
func solveNormalEquations(d *mat.Dense, d2 *mat.VecDense) *mat.VecDense {
	_, k := d.Dims()

	var dtd mat.Dense
	dtd.Mul(d.T(), d)

	dtb := mat.NewVecDense(k, nil)
	dtb.MulVec(d.T(), d2)

	return solveLeastSquares(&dtd, dtb)
}

// epsilon is the float64 machine epsilon
const epsilon = 0x1p-52
