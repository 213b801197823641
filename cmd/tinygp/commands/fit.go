package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0x0L/tinygp/fit"
)

var (
	fitConfigPath string
	fitDataPath   string
	fitMaxIters   int
)

// FitCmd optimizes the stationary length scales of the configured
// kernel against training data and prints the fitted model config.
var FitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit kernel hyperparameters by maximum likelihood",
	Long: `Maximize the log marginal likelihood of the training data over the
stationary length scales of the configured kernel. The optimization
runs in log space, keeping the scales positive. The fitted model
description is printed as YAML.`,
	RunE: runFit,
}

func init() {
	FitCmd.Flags().StringVar(&fitConfigPath, "config", "", "YAML model description (required)")
	FitCmd.Flags().StringVar(&fitDataPath, "data", "", "Training data CSV (required)")
	FitCmd.Flags().IntVar(&fitMaxIters, "max-iters", 0, "Cap on optimization iterations (0 = no cap)")
	FitCmd.MarkFlagRequired("config")
	FitCmd.MarkFlagRequired("data")
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(fitConfigPath)
	if err != nil {
		return err
	}
	x, y, err := loadTraining(fitDataPath)
	if err != nil {
		return err
	}

	scales := cfg.Kernel.scaleParams()
	if len(scales) == 0 {
		return errors.New("the configured kernel has no stationary length scales to fit")
	}
	init := make([]float64, len(scales))
	for i, s := range scales {
		init[i] = *s
	}
	log.Debug("fitting model",
		zap.Int("free_params", len(scales)),
		zap.Int("train_points", len(x)))

	model := func(params []float64) (float64, error) {
		for i, s := range fit.Positive(params) {
			*scales[i] = s
		}
		gp, err := cfg.build(x)
		if err != nil {
			return 0, err
		}
		return gp.LogProbability(y)
	}
	res, err := fit.Maximize(model, fit.Unconstrained(init),
		fit.WithLogger(log), fit.WithMaxIterations(fitMaxIters))
	if err != nil {
		return err
	}

	// Write the best parameters back into the kernel tree.
	for i, s := range fit.Positive(res.Params) {
		*scales[i] = s
	}
	log.Debug("fit finished", zap.Float64("logprob", res.LogProb))

	out, err := cfg.marshal()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# logprob: %.6f\n%s", res.LogProb, out)
	return nil
}
