package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pthm/inertia"
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Validate a configuration file and print the effective settings",
	Long: `Loads a YAML configuration over the defaults, validates it and prints
the result. Without a path the defaults are printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := inertia.DefaultConfig()
		if len(args) == 1 {
			var err error
			if cfg, err = inertia.LoadConfig(args[0]); err != nil {
				return err
			}
		}
		if cfg.Session.Secret != "" {
			cfg.Session.Secret = "<redacted>"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var assetVersionCmd = &cobra.Command{
	Use:   "asset-version <manifest>",
	Short: "Print the asset version computed from a build manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, ok := inertia.ManifestVersion(args[0], newLogger()).Version()
		if !ok {
			return fmt.Errorf("cannot read manifest %s", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(assetVersionCmd)
}
