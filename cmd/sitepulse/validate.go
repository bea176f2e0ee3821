package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/sitepulse"
	"github.com/jpalmerr/sitepulse/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a SitePulse configuration file without starting the server.

This command parses the YAML, expands environment variables and grids, and
validates all fields, including that no two URLs name the same endpoint.
It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  sitepulse validate -c config.yaml
  sitepulse validate --config /etc/sitepulse/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	seeds, err := config.BuildSeedURLs(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// registering the seeds catches duplicates after normalization
	m, err := sitepulse.New(sitepulse.WithSeedURLs(seeds...))
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	direct := len(cfg.Endpoints)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Probe timeout: %s\n", cfg.ProbeTimeout.Duration())
	fmt.Fprintf(out, "  Window size:   %d\n", cfg.WindowSize)
	fmt.Fprintf(out, "  Endpoints:     %d direct + %d from grids = %d total\n",
		direct, len(seeds)-direct, len(m.Endpoints()))

	return nil
}
