// =============================================================================
// Patron Import - Root Command
// =============================================================================
//
// COBRA CLI STRUCTURE:
//   rootCmd (patron-import)
//   ├── processCmd (patron-import process)
//   ├── inspectCmd (patron-import inspect)
//   └── versionCmd (patron-import version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/patron-tools/patron-import/internal/config"
	"github.com/patron-tools/patron-import/internal/logutil"
)

// cfgFile holds the path to the configuration file, overridable with
// --config.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "patron-import",
	Short: "Patron Import - Normalize a client spreadsheet export into import CSVs",
	Long: `Patron Import is a one-shot batch tool that reads a single exported XLSX
workbook of client records and writes two normalized CSV files matching the
fixed import schema of the target system: a constituents file (one row per
distinct Patron ID) and a tags file (distinct-constituent counts per
cleaned tag).

Each run is a pure function from one input file to two output files:
deterministic per-field normalization, deduplication by Patron ID, and
paid-donation rollups. Running twice on the same input produces
byte-identical output.

Example Usage:
  patron-import process                    # Run with ./config.yaml
  patron-import process --config my.yaml   # Run with a custom configuration
  patron-import inspect                    # Print sheet counts and headers`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main().
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
		"config.yaml",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadConfig loads the configuration file. A missing file at the default
// path falls back to defaults; an explicitly given file must exist.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if cfgFile == "config.yaml" {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}
	return config.Load(cfgFile)
}

// newLogger builds the run logger honoring --verbose.
func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logutil.New(level)
}
