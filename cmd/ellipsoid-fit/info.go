package main

import (
	"fmt"

	"github.com/philipparndt/goellipsoid/pkg/analysis"
	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
	"github.com/philipparndt/goellipsoid/pkg/pointcloud"
	"github.com/spf13/cobra"
)

// flatnessWarning is the extent ratio below which a cloud is reported as
// nearly planar
const flatnessWarning = 0.01

func newInfoCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Display statistics about a point cloud",
		Long:  "Show point count, bounding box, centroid and which ellipsoid types the cloud has enough points for.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0], global)
		},
	}
}

func runInfo(cmd *cobra.Command, path string, opts *globalOptions) error {
	if _, err := opts.loadConfig(cmd); err != nil {
		return err
	}

	points, err := loadPoints(cmd.Context(), path, false, 0)
	if err != nil {
		return err
	}

	p := opts.precision
	w := cmd.OutOrStdout()
	info := analysis.AnalyzeCloud(points)
	unique := len(pointcloud.Dedupe(points))

	fmt.Fprintln(w, "Point Cloud Information")
	fmt.Fprintln(w, "=======================")
	fmt.Fprintf(w, "File: %s\n\n", path)

	fmt.Fprintln(w, "Points:")
	fmt.Fprintf(w, "  Total: %d\n", info.Count)
	fmt.Fprintf(w, "  Unique: %d\n\n", unique)

	if info.Count == 0 {
		return nil
	}

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", analysis.FormatVector(info.BoundingBox.Min, p))
	fmt.Fprintf(w, "  Max: %s\n", analysis.FormatVector(info.BoundingBox.Max, p))
	fmt.Fprintf(w, "  Center: %s\n", analysis.FormatVector(info.BoundingBox.Center(), p))
	fmt.Fprintf(w, "  Centroid: %s\n\n", analysis.FormatVector(info.Centroid, p))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %s\n", analysis.FormatMeasurement(info.Dimensions.X, "", p))
	fmt.Fprintf(w, "  Depth (Y): %s\n", analysis.FormatMeasurement(info.Dimensions.Y, "", p))
	fmt.Fprintf(w, "  Height (Z): %s\n", analysis.FormatMeasurement(info.Dimensions.Z, "", p))
	fmt.Fprintf(w, "  Diagonal: %s\n", analysis.FormatMeasurement(info.BoundingBox.Diagonal(), "", p))
	if info.Flatness < flatnessWarning {
		fmt.Fprintf(w, "\nWarning: the cloud is nearly flat along %s, fits will be unreliable\n", analysis.AxisName(info.FlatAxis))
	}

	fmt.Fprintln(w, "\nFit Types:")
	for _, t := range ellipsoid.Types {
		status := "ok"
		if unique < t.FreeParams() {
			status = "too few points"
		}
		fmt.Fprintf(w, "  %-18s needs %d, %s\n", t, t.FreeParams(), status)
	}

	return nil
}
