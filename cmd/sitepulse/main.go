// Package main is the entry point for the sitepulse CLI.
//
// SitePulse can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	sitepulse serve -c config.yaml    # Start the monitor and dashboard
//	sitepulse validate -c config.yaml # Validate configuration
//	sitepulse version                 # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "sitepulse",
	Short: "A lightweight uptime monitor with a live dashboard",
	Long: `SitePulse is a lightweight uptime and latency monitor.

It probes HTTP endpoints at a fixed interval, keeps the last few outcomes
and response times of each, and streams every change to a web dashboard.
Endpoints can be added, edited, removed and reordered from the dashboard.

Quick start:
  1. Create a config file (sitepulse.yaml)
  2. Run: sitepulse serve -c sitepulse.yaml
  3. Open http://localhost:3000 in your browser

Example config:
  port: 3000
  poll_interval: 10s
  endpoints:
    - https://example.com
    - http://localhost:8000`,
	SilenceUsage: true,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this sitepulse binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sitepulse %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.AddCommand(versionCmd)
}

// parseLevel maps a --log-level value onto a slog level.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// newLogger creates a JSON logger for CLI use.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := parseLevel(raw)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})), nil
}
