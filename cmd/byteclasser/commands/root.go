/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: root.go
Description: Command tree for byteclasser. Declares the scoring root command, the validate
and check subcommands, and binds every flag into viper so settings can also come from a
config file or BYTECLASSER_* environment variables.
*/

package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is reported by --version.
const Version = "1.0.0"

// NewRootCommand builds the byteclasser command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "byteclasser [flags] <input> <vocabulary> <output>",
		Short: "byteclasser - weighted byte-pattern scoring for tabular data",
		Long: `byteclasser reads a delimited table, joins each row's fields with single spaces
and counts non-overlapping occurrences of every target byte pattern in the vocabulary.
Each label's score is the weighted sum of its targets' counts. The result table has the
row id, the joined text and one column per label in alphabetical order.`,
		Version: Version,
		Args:    cobra.ExactArgs(3),
		// Usage is shown for argument errors only, not for run failures.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
		RunE:          RunScore,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().String("log-dir", "", "Also write logs to a timestamped file in this directory")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Bool("log-compress", false, "Gzip log files left by earlier runs")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail when any target has an undecodable bytes_pattern")

	// Add scoring flags
	rootCmd.Flags().Int("workers", 0, "Number of parallel workers (0 = one per CPU)")
	rootCmd.Flags().String("format", "", "Output format (csv, tsv, jsonl, cbor, sqlite; default from extension)")
	rootCmd.Flags().String("delimiter", "", "Input field delimiter (default from extension: tab for .tsv, comma otherwise)")
	rootCmd.Flags().Bool("no-header", false, "Treat the first input record as data")
	rootCmd.Flags().String("input-encoding", "", "Input character encoding (e.g. utf-8, latin1, shift_jis)")
	rootCmd.Flags().String("summary-dir", "", "Write a JSON run summary into this directory")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))
	viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	viper.BindPFlag("delimiter", rootCmd.Flags().Lookup("delimiter"))
	viper.BindPFlag("no_header", rootCmd.Flags().Lookup("no-header"))
	viper.BindPFlag("input_encoding", rootCmd.Flags().Lookup("input-encoding"))
	viper.BindPFlag("summary_dir", rootCmd.Flags().Lookup("summary-dir"))

	// Add validate command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "validate <vocabulary>",
		Short: "Load a vocabulary and report its labels and skipped targets",
		Long: `Load and validate a vocabulary file without scoring anything. Prints the label
and target counts, the BLAKE3 fingerprint and every target whose bytes_pattern is not valid
hexadecimal. Exits non-zero when the file cannot be loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: RunValidate,
	})

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check <input> <vocabulary> <output>",
		Short: "Perform built-in self-checks before a scoring run",
		Long: `Check that the input is readable, the vocabulary loads, the output location is
writable and the configuration is valid. Very useful for CI/CD integration.`,
		Args: cobra.ExactArgs(3),
		RunE: PerformSelfCheck,
	})

	return rootCmd
}
