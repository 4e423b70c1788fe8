package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/goellipsoid/internal/config"
	"github.com/philipparndt/goellipsoid/pkg/analysis"
	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
	"github.com/philipparndt/goellipsoid/pkg/geometry"
	"github.com/philipparndt/goellipsoid/pkg/pointcloud"
	"github.com/philipparndt/goellipsoid/pkg/watcher"
	"github.com/spf13/cobra"
)

type fitOptions struct {
	*globalOptions
	typ     ellipsoid.Type
	details bool
	dedupe  bool
	watch   bool
	merge   float64
}

func newFitCmd(global *globalOptions) *cobra.Command {
	opts := &fitOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "fit [file]",
		Short: "Fit an ellipsoid and print its center and radii",
		Long: `Fit an ellipsoid of the selected type to the points in a file.

With --details the algebraic coefficients, principal axes, eigenvalues and
residual statistics are printed as well. With --watch the file, and for
OpenSCAD models every file it includes, is watched and the fit is repeated
on each change until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, args[0], opts)
		},
	}

	cmd.Flags().VarP(&opts.typ, "type", "t", "ellipsoid type (see 'ellipsoid-fit types')")
	cmd.Flags().BoolVarP(&opts.details, "details", "d", false, "print coefficients, axes and residuals")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "drop duplicate points such as shared mesh vertices")
	cmd.Flags().Float64Var(&opts.merge, "merge", 0, "merge points closer than this distance")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "refit whenever the input changes")

	return cmd
}

func runFit(cmd *cobra.Command, path string, opts *fitOptions) error {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}

	typ := resolveType(cmd, opts.typ, cfg)
	details := resolveBool(cmd, "details", opts.details, cfg.GetDetails())
	dedupe := resolveBool(cmd, "dedupe", opts.dedupe, cfg.GetDedupe())
	merge := resolveMerge(cmd, opts.merge, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fit := func() error {
		points, err := loadPoints(ctx, path, dedupe, merge)
		if err != nil {
			return err
		}
		result, err := ellipsoid.FitDetailed(points, typ)
		if err != nil {
			return err
		}
		printFit(cmd.OutOrStdout(), path, points, result, details, opts.precision)
		return nil
	}

	if !opts.watch {
		return fit()
	}

	// A failing fit does not end watch mode; the next save may fix it
	if err := fit(); err != nil {
		log.Printf("fit failed: %v", err)
	}
	return watchAndRefit(ctx, path, cfg, fit)
}

// watchAndRefit reruns fit on every change to path or its dependencies
func watchAndRefit(ctx context.Context, path string, cfg *config.Config, fit func() error) error {
	files, err := pointcloud.WatchList(path)
	if err != nil {
		return fmt.Errorf("failed to resolve watched files: %w", err)
	}

	fw, err := watcher.NewFileWatcher(cfg.GetWatchDebounce())
	if err != nil {
		return err
	}
	defer fw.Close()

	err = fw.Watch(files, func(changed string) {
		log.Printf("%s changed, refitting", changed)
		if err := fit(); err != nil {
			log.Printf("fit failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("watching %d file(s), press Ctrl+C to stop", len(files))
	if err := fw.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// loadPoints reads path and thins the cloud. A positive merge tolerance
// implies dedupe.
func loadPoints(ctx context.Context, path string, dedupe bool, merge float64) ([]geometry.Vector3, error) {
	points, err := pointcloud.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	switch {
	case merge > 0:
		points = pointcloud.Merge(points, merge)
	case dedupe:
		points = pointcloud.Dedupe(points)
	}
	return points, nil
}

func printFit(w io.Writer, path string, points []geometry.Vector3, result *ellipsoid.Result, details bool, precision int) {
	fmt.Fprintln(w, "Ellipsoid Fit")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Type: %s\n", result.Type)
	fmt.Fprintf(w, "Points: %d\n\n", len(points))

	fmt.Fprintf(w, "Center: %s\n", analysis.FormatVector(result.Center, precision))
	fmt.Fprintf(w, "Radii:  %s\n", analysis.FormatVector(result.Radii, precision))
	if !result.Valid() {
		fmt.Fprintln(w, "\nWarning: the fitted surface is not a real ellipsoid")
	}

	if !details {
		return
	}

	fmt.Fprintln(w, "\nPrincipal Axes:")
	for i, axis := range result.Axes {
		fmt.Fprintf(w, "  %d: %s  eigenvalue %.*g\n", i+1, analysis.FormatVector(axis, precision), precision, result.Eigenvalues[i])
	}
	fmt.Fprintf(w, "  Rotation: %.*f°\n", precision, result.Axes.RotationAngle()*180/math.Pi)

	fmt.Fprintln(w, "\nCoefficients:")
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		fmt.Fprintf(w, "  %s: % .*e\n", name, precision, result.Coefficients[i])
	}

	quality := analysis.AnalyzeFit(points, result)
	fmt.Fprintln(w, "\nResiduals:")
	fmt.Fprintf(w, "  Least squares RMS: %.*e\n", precision, result.Residual)
	fmt.Fprintf(w, "  Algebraic: mean %.*e, std-dev %.*e, max abs %.*e\n",
		precision, quality.Algebraic.Mean, precision, quality.Algebraic.StdDev,
		precision, maxAbs(quality.Algebraic))
	fmt.Fprintf(w, "  Radial:    mean %.*f, RMS %.*f, max %.*f\n",
		precision, quality.Radial.Mean, precision, quality.Radial.RMS, precision, quality.Radial.Max)
}

func maxAbs(s analysis.Stats) float64 {
	if -s.Min > s.Max {
		return -s.Min
	}
	return s.Max
}
