package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0x0L/tinygp/cmd/tinygp/commands"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tinygp",
	Short: "Gaussian process regression from the command line",
	Long: `tinygp - Gaussian process regression from the command line

Build a Gaussian process from a YAML kernel description and CSV data,
then predict at new points or fit the kernel hyperparameters.

Examples:
  tinygp predict --config model.yaml --data train.csv --at test.csv
  tinygp fit --config model.yaml --data train.csv`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := zap.NewNop()
		if verbose {
			var err error
			logger, err = zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		commands.SetLogger(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(commands.PredictCmd)
	rootCmd.AddCommand(commands.FitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
