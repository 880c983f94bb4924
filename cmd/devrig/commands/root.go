package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel      string
	logFormat     string
	verbose       bool
	metricsAddr   string
	traceExporter string
	traceEndpoint string
)

// appVersion is the version string shown and reported in telemetry.
var appVersion = "dev"

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	appVersion = version
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devrig",
		Short: "devrig - declarative developer workstation setup",
		Long: `devrig applies a declarative set of idempotent configuration changes
to a developer workstation: installing packages, writing files, and
composites built from them.

Each change knows how to detect whether it is already applied, how to
apply itself, and how to roll itself back. Changes run in the order
given; a failed change is reported but does not stop the rest.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log full command output")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (empty disables)")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace-exporter", "none", "trace exporter (none, stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "localhost:4317", "OTLP gRPC endpoint for --trace-exporter=otlp")

	// Add subcommands
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newRollbackCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}
