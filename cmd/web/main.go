// Command sales-dashboard serves the interactive sales dashboard and offers
// offline export, report and seed commands over the same data.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
)

const version = "1.0.0"

// cli holds state resolved before any subcommand runs.
type cli struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "sales-dashboard",
		Short: "Interactive sales dashboard",
		Long: `Sales dashboard with product and date filters, period comparison,
charts and CSV/Excel export.

Commands:
  serve     Run the web dashboard (default)
  export    Write the filtered records to CSV or Excel
  report    Print metrics and product totals
  seed      Generate sample sales into SQLite`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file")

	serveCmd := newServeCmd(c)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newExportCmd(c))
	rootCmd.AddCommand(newReportCmd(c))
	rootCmd.AddCommand(newSeedCmd(c))

	return rootCmd
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg

	// Offline commands log to stderr so their output stays clean.
	if cmd.Name() == "serve" || cmd.Parent() == nil {
		c.logger = observability.NewLogger(cfg.Logger)
	} else {
		c.logger = observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.Logger)
	}
	slog.SetDefault(c.logger)
	return nil
}
