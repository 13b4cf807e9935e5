// =============================================================================
// BOM Structure Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   bomconv
//   ├── convert  (run a conversion over one or more exports)
//   └── version
//
// The root command owns the global flags (--config, --verbose), loads the
// configuration, and sets up structured logging for the subcommands.
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olsenbrasil/bom-csv-conversion/internal/config"
)

// cfgFile is the path to the configuration file, overridable with --config.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

// cfg is the loaded configuration, available to every subcommand.
var cfg *config.Config

// logger is the application logger, available to every subcommand.
var logger *slog.Logger

// rootCmd is the base command all subcommands attach to.
var rootCmd = &cobra.Command{
	Use:   "bomconv",
	Short: "BOM Structure Converter - Generate ERP import files from CAD BOM exports",
	Long: `BOM Structure Converter reads the XLSX bill-of-materials export produced by
the CAD tool and generates the semicolon CSV files the ERP importer consumes.

Conversion types:
  structure     Parent/child relationships (EMP;MTG;COD;QTD;PER)
  parts         Parts and assemblies registration
  descriptions  Description update
  materials     Raw-material (MP20) update
  verify-olz    Z codes missing from the registered-codes sheet

Example usage:
  bomconv convert export.xlsx --assembly G12061001
  bomconv convert exports/ --assembly G12061001 --type parts
  bomconv convert export.xlsx --assembly G12061001 --type verify-olz --reference registered.csv`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		level := parseLogLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"bomconv.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// parseLogLevel maps the configured level onto slog. Unknown values were
// already rejected at config load.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
