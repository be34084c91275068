package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/simulation"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check config files against the schema",
		Long: `Check config files against the schema and the value ranges.

Missing fields take their default value; --print shows the resulting
config as JSON.

Examples:
  boids validate configs/boids.json configs/boids.yaml
  boids validate --print my-flock.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printCfg, _ := cmd.Flags().GetBool("print")
			out := cmd.OutOrStdout()

			var errs []error
			for _, path := range args {
				cfg, err := simulation.LoadConfig(path)
				if err != nil {
					fmt.Fprintf(out, "✗ %s\n", path)
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(out, "✓ %s\n", path)
				if printCfg {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(cfg); err != nil {
						return err
					}
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().Bool("print", false, "Print the effective config as JSON")

	return cmd
}
