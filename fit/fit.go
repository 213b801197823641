// Package fit optimizes kernel hyperparameters by maximizing the log
// marginal likelihood of the observations.
package fit

import (
	"math"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// Model evaluates the log marginal likelihood of a parameter vector.
// The fit package only needs likelihood evaluations, so any builder
// that assembles a tinygp.GaussianProcess and calls LogProbability
// satisfies it.
type Model func(params []float64) (float64, error)

// Result is the outcome of an optimization run.
type Result struct {
	Params  []float64
	LogProb float64
}

type options struct {
	method   optimize.Method
	maxIters int
	logger   *zap.Logger
}

// Option configures an optimization run.
type Option func(*options)

// WithMethod sets the gonum optimize method. The default is
// Nelder-Mead, which needs no gradient information. Parameter vectors
// built by the Model adapter stay unconstrained; use Positive to map
// them to positive hyperparameters.
func WithMethod(m optimize.Method) Option {
	return func(o *options) {
		o.method = m
	}
}

// WithMaxIterations caps the number of major iterations.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIters = n
	}
}

// WithLogger enables progress logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Maximize searches for the parameter vector with the highest log
// marginal likelihood, starting from init. Parameter vectors that fail
// to build a model are treated as infinitely unlikely, which keeps the
// search inside the feasible region.
func Maximize(model Model, init []float64, opts ...Option) (Result, error) {
	o := options{
		method: &optimize.NelderMead{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			ll, err := model(p)
			if err != nil || math.IsNaN(ll) {
				return math.Inf(1)
			}
			return -ll
		},
	}
	settings := &optimize.Settings{}
	if o.maxIters > 0 {
		settings.MajorIterations = o.maxIters
	}

	start := make([]float64, len(init))
	copy(start, init)
	o.logger.Debug("starting optimization",
		zap.Int("params", len(start)),
		zap.Float64("initial_logprob", -problem.Func(start)))

	res, err := optimize.Minimize(problem, start, settings, o.method)
	if err != nil {
		return Result{}, pkgerrors.Wrap(err, "fit: optimization failed")
	}
	o.logger.Debug("optimization finished",
		zap.String("status", res.Status.String()),
		zap.Int("evaluations", res.FuncEvaluations),
		zap.Float64("logprob", -res.F))

	return Result{
		Params:  res.X,
		LogProb: -res.F,
	}, nil
}

// Positive maps unconstrained parameters to positive hyperparameters
// elementwise through exp.
func Positive(params []float64) []float64 {
	out := make([]float64, len(params))
	for i, p := range params {
		out[i] = math.Exp(p)
	}
	return out
}

// Unconstrained is the inverse of Positive.
func Unconstrained(params []float64) []float64 {
	out := make([]float64, len(params))
	for i, p := range params {
		out[i] = math.Log(p)
	}
	return out
}
