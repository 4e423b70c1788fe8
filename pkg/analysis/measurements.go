// Package analysis summarizes point clouds and the quality of ellipsoid fits.
package analysis

import (
	"fmt"
	"math"

	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CloudInfo describes the extent of a point cloud
type CloudInfo struct {
	Count       int
	BoundingBox geometry.BoundingBox
	Dimensions  geometry.Vector3
	Centroid    geometry.Vector3
	FlatAxis    int
	Flatness    float64 // Smallest over largest extent
}

// AnalyzeCloud computes count, bounds and centroid of points
func AnalyzeCloud(points []geometry.Vector3) *CloudInfo {
	bbox := geometry.BoundsOf(points)
	axis, ratio := bbox.FlatAxis()

	return &CloudInfo{
		Count:       len(points),
		BoundingBox: bbox,
		Dimensions:  bbox.Size(),
		Centroid:    geometry.Centroid(points),
		FlatAxis:    axis,
		Flatness:    ratio,
	}
}

// Stats summarizes a set of per-point errors
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	RMS    float64
}

func summarize(x []float64) Stats {
	if len(x) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		std = 0
	}
	return Stats{
		Min:    floats.Min(x),
		Max:    floats.Max(x),
		Mean:   mean,
		StdDev: std,
		RMS:    floats.Norm(x, 2) / math.Sqrt(float64(len(x))),
	}
}

// FitQuality describes how well a fitted ellipsoid matches its input
type FitQuality struct {
	// Algebraic is the quadric value at each point. It is zero on the surface.
	Algebraic Stats
	// Radial approximates the distance of each point from the surface, in
	// input units, measured along the ray from the center.
	Radial Stats
}

// AnalyzeFit evaluates result against the points it was fitted to.
//
// The radial error of a point p is |s - 1|·r̄, where s is the length of p - c
// in principal-axis coordinates scaled by the radii and r̄ is the mean
// radius. It is NaN when the fit is not a real ellipsoid.
func AnalyzeFit(points []geometry.Vector3, result *ellipsoid.Result) *FitQuality {
	algebraic := make([]float64, len(points))
	radial := make([]float64, len(points))

	radii := result.Radii.Array()
	meanRadius := floats.Sum(radii[:]) / 3

	for i, p := range points {
		algebraic[i] = result.Coefficients.Eval(p)

		d := p.Sub(result.Center)
		var s2 float64
		for j, axis := range result.Axes {
			q := d.Dot(axis) / radii[j]
			s2 += q * q
		}
		radial[i] = math.Abs(math.Sqrt(s2)-1) * meanRadius
	}

	return &FitQuality{
		Algebraic: summarize(algebraic),
		Radial:    summarize(radial),
	}
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string, precision int) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.*f %s", precision, value, unit)
}

// FormatVector formats a 3D vector with the given number of decimals
func FormatVector(v geometry.Vector3, precision int) string {
	return fmt.Sprintf("(%.*f, %.*f, %.*f)", precision, v.X, precision, v.Y, precision, v.Z)
}

// AxisName returns X, Y or Z for axis 0, 1 or 2
func AxisName(axis int) string {
	return string(rune('X' + axis))
}
