package main

import (
	"fmt"

	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
	"github.com/spf13/cobra"
)

var typeDescriptions = map[ellipsoid.Type]string{
	ellipsoid.Arbitrary:      "any orientation and radii",
	ellipsoid.XYEqual:        "X and Y radii equal",
	ellipsoid.XZEqual:        "X and Z radii equal",
	ellipsoid.Sphere:         "all radii equal",
	ellipsoid.Aligned:        "axes along X, Y and Z",
	ellipsoid.AlignedXYEqual: "aligned, X and Y radii equal",
	ellipsoid.AlignedXZEqual: "aligned, X and Z radii equal",
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported ellipsoid types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-18s %-7s %s\n", "TYPE", "POINTS", "CONSTRAINT")
			for _, t := range ellipsoid.Types {
				fmt.Fprintf(w, "%-18s %-7d %s\n", t, t.FreeParams(), typeDescriptions[t])
			}
		},
	}
}
