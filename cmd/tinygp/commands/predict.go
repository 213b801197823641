package commands

import (
	"encoding/csv"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger installs the logger used by all commands.
func SetLogger(l *zap.Logger) {
	log = l
}

var (
	configPath string
	dataPath   string
	atPath     string
)

// PredictCmd conditions the model on training data and writes the
// posterior mean and standard deviation at the test points as CSV.
var PredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict at new points with a conditioned Gaussian process",
	Long: `Condition the configured Gaussian process on training data and
print the posterior mean and standard deviation at the test points.

The training CSV holds one or more coordinate columns followed by a
target column; the test CSV holds coordinate columns only. Output is
CSV with a mean and a stddev column, one row per test point.`,
	RunE: runPredict,
}

func init() {
	PredictCmd.Flags().StringVar(&configPath, "config", "", "YAML model description (required)")
	PredictCmd.Flags().StringVar(&dataPath, "data", "", "Training data CSV (required)")
	PredictCmd.Flags().StringVar(&atPath, "at", "", "Test coordinates CSV (required)")
	PredictCmd.MarkFlagRequired("config")
	PredictCmd.MarkFlagRequired("data")
	PredictCmd.MarkFlagRequired("at")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	x, y, err := loadTraining(dataPath)
	if err != nil {
		return err
	}
	xtest, err := readRows(atPath)
	if err != nil {
		return err
	}
	log.Debug("loaded data",
		zap.Int("train_points", len(x)),
		zap.Int("test_points", len(xtest)))

	gp, err := cfg.build(x)
	if err != nil {
		return err
	}
	logprob, cond, err := gp.Condition(y, xtest)
	if err != nil {
		return err
	}
	log.Debug("conditioned model", zap.Float64("logprob", logprob))

	mean := cond.Mean()
	stddev := cond.StdDev()
	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write([]string{"mean", "stddev"}); err != nil {
		return err
	}
	for i := range mean {
		record := []string{
			strconv.FormatFloat(mean[i], 'g', -1, 64),
			strconv.FormatFloat(stddev[i], 'g', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
