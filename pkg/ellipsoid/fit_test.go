package ellipsoid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-6

func TestFitMatchingTypes(t *testing.T) {
	t.Parallel()

	center := geometry.NewVector3(0.5, -1, 2)
	tests := []struct {
		typ   Type
		radii geometry.Vector3
	}{
		{Arbitrary, geometry.NewVector3(3, 2, 1)},
		{XYEqual, geometry.NewVector3(2, 2, 1)},
		{XZEqual, geometry.NewVector3(2, 1, 2)},
		{Sphere, geometry.NewVector3(1.5, 1.5, 1.5)},
		{Aligned, geometry.NewVector3(3, 2, 1)},
		{AlignedXYEqual, geometry.NewVector3(2, 2, 1)},
		{AlignedXZEqual, geometry.NewVector3(2, 1, 2)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.typ.String(), func(t *testing.T) {
			t.Parallel()
			s := shape{center: center, radii: tt.radii, axes: IdentityAxes}

			params, err := Fit(s.randomPoints(200, 1), tt.typ)
			require.NoError(t, err)

			assertVectorInDelta(t, center, params.Center, tolerance, "center")
			assertVectorInDelta(t, tt.radii, params.Radii, tolerance, "radii")
		})
	}
}

func TestFitRotatedEllipsoid(t *testing.T) {
	t.Parallel()

	axes := rotation(0.2, -0.15, 0.25)
	s := shape{
		center: geometry.NewVector3(-1.5, 0.75, 3),
		radii:  geometry.NewVector3(4, 2.5, 1.5),
		axes:   axes,
	}

	result, err := FitDetailed(s.randomPoints(500, 7), Arbitrary)
	require.NoError(t, err)

	assertVectorInDelta(t, s.center, result.Center, tolerance, "center")
	// The rotation is small, so the least-rotation frame is the true one
	assertVectorInDelta(t, s.radii, result.Radii, tolerance, "radii")
	for i := range axes {
		assertVectorInDelta(t, axes[i], result.Axes[i], tolerance, "axis %d", i)
	}
	for i, r := range s.radii.Array() {
		assert.InDelta(t, 1/(r*r), result.Eigenvalues[i], tolerance, "eigenvalue %d", i)
	}

	assert.Less(t, result.Residual, 1e-9)
	assert.True(t, result.Valid())
	assert.InDelta(t, axes.RotationAngle(), result.Axes.RotationAngle(), tolerance)
}

func TestFitLargeRotationRecoversSortedRadii(t *testing.T) {
	t.Parallel()

	s := shape{
		center: geometry.NewVector3(10, -20, 5),
		radii:  geometry.NewVector3(5, 3, 2),
		axes:   rotation(1.1, 2.3, -0.9),
	}

	params, err := Fit(s.randomPoints(300, 3), Arbitrary)
	require.NoError(t, err)

	assertVectorInDelta(t, s.center, params.Center, 1e-5)
	assert.InDeltaSlice(t, sorted(s.radii), sorted(params.Radii), 1e-5)
}

func TestFitSphereAtOrigin(t *testing.T) {
	t.Parallel()

	const r = 2.5
	s := shape{radii: geometry.NewVector3(r, r, r), axes: IdentityAxes}

	params, err := Fit(s.randomPoints(100, 42), Sphere)
	require.NoError(t, err)

	assertVectorInDelta(t, geometry.Vector3{}, params.Center, tolerance)
	assertVectorInDelta(t, geometry.NewVector3(r, r, r), params.Radii, tolerance)
}

func TestFitSymmetricTypes(t *testing.T) {
	t.Parallel()

	// Rotating about the equal-radius plane's normal keeps the symmetry
	tests := []struct {
		name  string
		typ   Type
		radii geometry.Vector3
		axes  Axes
		equal [2]int
	}{
		{"xy-equal", XYEqual, geometry.NewVector3(2, 2, 1), rotation(0, 0, 0.7), [2]int{0, 1}},
		{"xz-equal", XZEqual, geometry.NewVector3(3, 1.5, 3), rotation(0, 1.2, 0), [2]int{0, 2}},
		{"aligned-xy-equal", AlignedXYEqual, geometry.NewVector3(1, 1, 4), IdentityAxes, [2]int{0, 1}},
		{"aligned-xz-equal", AlignedXZEqual, geometry.NewVector3(2, 5, 2), IdentityAxes, [2]int{0, 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := shape{center: geometry.NewVector3(1, 2, 3), radii: tt.radii, axes: tt.axes}

			params, err := Fit(s.randomPoints(150, 11), tt.typ)
			require.NoError(t, err)

			radii := params.Radii.Array()
			assert.InDelta(t, radii[tt.equal[0]], radii[tt.equal[1]], tolerance)
			assert.InDeltaSlice(t, sorted(tt.radii), sorted(params.Radii), tolerance)
			assertVectorInDelta(t, s.center, params.Center, tolerance)
		})
	}
}

func TestFitPermutationInvariance(t *testing.T) {
	t.Parallel()

	s := shape{
		center: geometry.NewVector3(0.3, 0.2, -0.1),
		radii:  geometry.NewVector3(1.2, 0.9, 0.6),
		axes:   rotation(0.4, 0.1, -0.3),
	}
	points := s.randomPoints(120, 5)

	//nolint:gosec
	rng := rand.New(rand.NewSource(99))
	shuffled := append([]geometry.Vector3(nil), points...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	for _, typ := range Types {
		want, err := Fit(points, typ)
		require.NoError(t, err)
		got, err := Fit(shuffled, typ)
		require.NoError(t, err)

		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(1e-9, 1e-9), cmpopts.EquateNaNs()); diff != "" {
			t.Errorf("%s: fit depends on point order (-want +got):\n%s", typ, diff)
		}
	}
}

func TestFitMinimumPoints(t *testing.T) {
	t.Parallel()

	center := geometry.NewVector3(0.2, -0.4, 0.1)
	radii := map[Type]geometry.Vector3{
		Arbitrary:      geometry.NewVector3(3, 2, 1.5),
		XYEqual:        geometry.NewVector3(2, 2, 1),
		XZEqual:        geometry.NewVector3(2, 1, 2),
		Sphere:         geometry.NewVector3(1, 1, 1),
		Aligned:        geometry.NewVector3(3, 2, 1.5),
		AlignedXYEqual: geometry.NewVector3(2, 2, 1),
		AlignedXZEqual: geometry.NewVector3(2, 1, 2),
	}

	for _, typ := range Types {
		typ := typ
		t.Run(typ.String(), func(t *testing.T) {
			t.Parallel()
			s := shape{center: center, radii: radii[typ], axes: IdentityAxes}
			points := s.fibonacciPoints(typ.FreeParams())

			result, err := FitDetailed(points, typ)
			require.NoError(t, err)

			assert.Less(t, result.Residual, 1e-9, "exact interpolation expected")
			assertVectorInDelta(t, center, result.Center, 1e-5)
			assertVectorInDelta(t, radii[typ], result.Radii, 1e-5)

			_, err = Fit(points[:len(points)-1], typ)
			assert.ErrorIs(t, err, ErrTooFewPoints)
		})
	}
}

func TestFitRejectsUnknownType(t *testing.T) {
	t.Parallel()

	points := shape{radii: geometry.NewVector3(1, 1, 1), axes: IdentityAxes}.randomPoints(20, 1)

	for _, typ := range []Type{-1, AlignedXZEqual + 1, 42} {
		_, err := Fit(points, typ)
		assert.ErrorIs(t, err, ErrUnknownType, "type %d", int(typ))
	}
}

func TestFitTooFewPoints(t *testing.T) {
	t.Parallel()

	_, err := Fit(nil, Sphere)
	require.ErrorIs(t, err, ErrTooFewPoints)
	assert.Contains(t, err.Error(), "sphere fit needs at least 4 points, got 0")
}

func TestFitDegenerateInput(t *testing.T) {
	t.Parallel()

	t.Run("coincident points", func(t *testing.T) {
		t.Parallel()
		points := make([]geometry.Vector3, 20)

		for _, typ := range Types {
			params, err := Fit(points, typ)
			require.NoError(t, err, typ.String())
			assert.False(t, params.Radii.IsFinite(), "%s: radii %v", typ, params.Radii)
		}
	})

	t.Run("collinear points", func(t *testing.T) {
		t.Parallel()
		points := make([]geometry.Vector3, 30)
		for i := range points {
			s := float64(i) - 14.5
			points[i] = geometry.NewVector3(s, 2*s, -s)
		}

		for _, typ := range Types {
			assert.NotPanics(t, func() {
				_, err := Fit(points, typ)
				assert.NoError(t, err)
			}, typ.String())
		}
	})

	t.Run("coplanar points", func(t *testing.T) {
		t.Parallel()
		var points []geometry.Vector3
		for x := -3; x <= 3; x++ {
			for y := -3; y <= 3; y++ {
				points = append(points, geometry.NewVector3(float64(x), float64(y), 1))
			}
		}

		for _, typ := range Types {
			assert.NotPanics(t, func() {
				_, err := Fit(points, typ)
				assert.NoError(t, err)
			}, typ.String())
		}
	})
}

func TestFitHyperboloidGivesNaNRadius(t *testing.T) {
	t.Parallel()

	// One-sheet hyperboloid x² + y² - z² = 1
	var points []geometry.Vector3
	for i := 0; i < 16; i++ {
		phi := float64(i) * 2 * math.Pi / 16
		for _, z := range []float64{-2, -1, 0, 0.5, 1.5} {
			r := math.Sqrt(1 + z*z)
			points = append(points, geometry.NewVector3(r*math.Cos(phi), r*math.Sin(phi), z))
		}
	}

	result, err := FitDetailed(points, Aligned)
	require.NoError(t, err)

	assert.InDelta(t, 1, result.Radii.X, tolerance)
	assert.InDelta(t, 1, result.Radii.Y, tolerance)
	assert.True(t, math.IsNaN(result.Radii.Z))
	assert.InDelta(t, -1, result.Eigenvalues[2], tolerance)
	assert.False(t, result.Valid())
}

func TestFitWithCanonicalizer(t *testing.T) {
	t.Parallel()

	s := shape{center: geometry.NewVector3(1, 1, 1), radii: geometry.NewVector3(3, 2, 1), axes: IdentityAxes}
	points := s.randomPoints(80, 2)

	calls := 0
	reverse := func(values [3]float64, axes Axes) ([3]float64, Axes) {
		calls++
		values, axes = LeastRotation(values, axes)
		return [3]float64{values[2], values[1], values[0]}, Axes{axes[2], axes[1], axes[0].Mul(-1)}
	}

	result, err := FitDetailed(points, Aligned, WithCanonicalizer(reverse))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assertVectorInDelta(t, geometry.NewVector3(1, 2, 3), result.Radii, tolerance)
	assertVectorInDelta(t, geometry.NewVector3(0, 0, 1), result.Axes[0], tolerance)
	assertVectorInDelta(t, geometry.NewVector3(-1, 0, 0), result.Axes[2], tolerance)

	raw, err := FitDetailed(points, Aligned, WithCanonicalizer(nil))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 3}, sorted(raw.Radii), tolerance)
}

func TestResultOrientation(t *testing.T) {
	t.Parallel()

	axes := rotation(0, 0, 0.4)
	s := shape{radii: geometry.NewVector3(3, 2, 1), axes: axes}

	result, err := FitDetailed(s.randomPoints(100, 8), Arbitrary)
	require.NoError(t, err)

	q := result.Orientation()
	assert.InDelta(t, math.Cos(0.2), q.Real, tolerance)
	assert.InDelta(t, 0, q.Imag, tolerance)
	assert.InDelta(t, 0, q.Jmag, tolerance)
	assert.InDelta(t, math.Sin(0.2), q.Kmag, tolerance)
}

func TestFitCoefficientsDescribeSurface(t *testing.T) {
	t.Parallel()

	s := shape{
		center: geometry.NewVector3(2, 0, -1),
		radii:  geometry.NewVector3(2, 1.5, 1),
		axes:   rotation(0.5, 0.5, 0.5),
	}
	points := s.randomPoints(60, 4)

	result, err := FitDetailed(points, Arbitrary)
	require.NoError(t, err)

	c := result.Coefficients
	assert.InDelta(t, -3, c[0]+c[1]+c[2], 1e-12)
	for _, p := range points {
		assert.InDelta(t, 0, c.Eval(p), 1e-8)
	}
	assert.Greater(t, c.Eval(s.center), 0.0, "the quadric is positive inside")
}
