package main

import (
	"fmt"

	"github.com/philipparndt/goellipsoid/pkg/analysis"
	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"github.com/spf13/cobra"
)

type calibrateOptions struct {
	*globalOptions
	typ    ellipsoid.Type
	radius float64
	dedupe bool
	merge  float64
}

func newCalibrateCmd(global *globalOptions) *cobra.Command {
	opts := &calibrateOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "calibrate [file]",
		Short: "Derive hard- and soft-iron correction from raw sensor samples",
		Long: `Fit an ellipsoid to raw 3-axis sensor samples and print the correction that
maps them onto a sphere:

  corrected = M · (raw - offset)

The offset is the ellipsoid center and M the symmetric soft-iron matrix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(cmd, args[0], opts)
		},
	}

	cmd.Flags().VarP(&opts.typ, "type", "t", "ellipsoid type (see 'ellipsoid-fit types')")
	cmd.Flags().Float64VarP(&opts.radius, "radius", "r", 1, "radius of the corrected sphere, e.g. the local field strength")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "drop duplicate samples")
	cmd.Flags().Float64Var(&opts.merge, "merge", 0, "merge samples closer than this distance")

	return cmd
}

func runCalibrate(cmd *cobra.Command, path string, opts *calibrateOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	typ := resolveType(cmd, opts.typ, cfg)
	dedupe := resolveBool(cmd, "dedupe", opts.dedupe, cfg.GetDedupe())
	radius := opts.radius
	if !cmd.Flags().Changed("radius") {
		radius = cfg.GetTargetRadius()
	}

	points, err := loadPoints(cmd.Context(), path, dedupe, resolveMerge(cmd, opts.merge, cfg))
	if err != nil {
		return err
	}

	result, err := ellipsoid.FitDetailed(points, typ)
	if err != nil {
		return err
	}

	cal, err := ellipsoid.NewCalibration(result, radius)
	if err != nil {
		return err
	}

	p := opts.precision
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "Sensor Calibration")
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Type: %s\n", typ)
	fmt.Fprintf(w, "Samples: %d\n\n", len(points))

	fmt.Fprintf(w, "Radii: %s\n\n", analysis.FormatVector(result.Radii, p))

	fmt.Fprintf(w, "Offset: %s\n\n", analysis.FormatVector(cal.Offset, p))

	fmt.Fprintln(w, "Soft-iron matrix:")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(w, "  [% .*f % .*f % .*f]\n", p, cal.Matrix.At(i, 0), p, cal.Matrix.At(i, 1), p, cal.Matrix.At(i, 2))
	}

	// Corrected samples should sit on the target sphere
	corrected := cal.ApplyAll(points)
	sphere := &ellipsoid.Result{
		Parameters: ellipsoid.Parameters{Radii: geometry.NewVector3(radius, radius, radius)},
		Axes:       ellipsoid.IdentityAxes,
	}
	quality := analysis.AnalyzeFit(corrected, sphere)
	fmt.Fprintf(w, "\nCorrected radius error: mean %.*f, max %.*f\n", p, quality.Radial.Mean, p, quality.Radial.Max)

	return nil
}
