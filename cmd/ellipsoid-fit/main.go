package main

import (
	"fmt"
	"log"
	"os"

	"github.com/philipparndt/goellipsoid/internal/config"
	"github.com/philipparndt/goellipsoid/pkg/ellipsoid"
	"github.com/philipparndt/goellipsoid/version"
	"github.com/spf13/cobra"
)

// globalOptions are shared by every subcommand
type globalOptions struct {
	configPath string
	precision  int
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ellipsoid-fit",
		Short: "Fit ellipsoids to 3D point clouds",
		Long: `ellipsoid-fit fits a constrained ellipsoid to a cloud of 3D points and
reports its center, radii and principal axes.

Points are read from STL meshes (ASCII or binary), OpenSCAD models or text
files with one "x y z" point per line. A typical use is calibrating a 3-axis
magnetometer or accelerometer from raw samples.`,
		Version:       version.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML file with default settings")
	rootCmd.PersistentFlags().IntVar(&opts.precision, "precision", config.DefaultPrecision, "decimals in printed values")

	rootCmd.AddCommand(
		newFitCmd(opts),
		newCalibrateCmd(opts),
		newInfoCmd(opts),
		newTypesCmd(),
		newCompletionCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file if one was given. Flags the user set
// explicitly win over config values.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if !cmd.Flags().Changed("precision") {
		o.precision = cfg.GetPrecision()
	}
	return cfg, nil
}

// resolveType picks the flag value when set and the config value otherwise
func resolveType(cmd *cobra.Command, flagValue ellipsoid.Type, cfg *config.Config) ellipsoid.Type {
	if cmd.Flags().Changed("type") {
		return flagValue
	}
	return cfg.GetType()
}

// resolveBool picks the flag value when set and the config value otherwise
func resolveBool(cmd *cobra.Command, name string, flagValue, configValue bool) bool {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

// resolveMerge picks the --merge value when set and the config value otherwise
func resolveMerge(cmd *cobra.Command, flagValue float64, cfg *config.Config) float64 {
	if cmd.Flags().Changed("merge") {
		return flagValue
	}
	return cfg.GetMergeTolerance()
}

func main() {
	log.SetPrefix("ellipsoid-fit: ")
	log.SetFlags(log.LstdFlags)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
