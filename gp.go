package tinygp

import (
	"errors"
	"math"

	pkgerrors "github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/0x0L/tinygp/kernels"
	"github.com/0x0L/tinygp/means"
	"github.com/0x0L/tinygp/noise"
)

var (
	ErrNotPositiveDefinite = errors.New("tinygp: covariance matrix is not positive definite")
	ErrSizeMismatch        = errors.New("tinygp: observation vector length does not match inputs")
)

type config struct {
	mean   means.Mean
	noise  noise.Model
	jitter float64
}

// Option configures a GaussianProcess at construction.
type Option func(*config)

// WithMean sets the prior mean function. The default is a zero mean.
func WithMean(m means.Mean) Option {
	return func(c *config) {
		c.mean = m
	}
}

// WithDiag sets per-observation noise variances. A single value
// broadcasts over all observations.
func WithDiag(values ...float64) Option {
	return func(c *config) {
		c.noise = noise.Diagonal(values)
	}
}

// WithNoise sets the observation noise model.
func WithNoise(m noise.Model) Option {
	return func(c *config) {
		c.noise = m
	}
}

// WithJitter adds a small positive value to the diagonal of the kernel
// matrix, for kernels that produce a near-singular covariance.
func WithJitter(eps float64) Option {
	return func(c *config) {
		c.jitter = eps
	}
}

// GaussianProcess is a Gaussian process prior evaluated at a fixed set
// of input coordinates. Construction factors the covariance matrix, so
// conditioning and likelihood evaluations reuse the factorization.
type GaussianProcess struct {
	kernel kernels.Kernel
	x      [][]float64
	mean   means.Mean
	kxx    *mat.SymDense // Kernel matrix plus noise.
	chol   *mat.Cholesky
	mu     *mat.VecDense // Prior mean at the inputs.
}

func New(kernel kernels.Kernel, x [][]float64, opts ...Option) (*GaussianProcess, error) {
	cfg := config{
		mean: means.Zero(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	kxx, err := kernels.SymMatrix(kernel, x)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "tinygp: building covariance")
	}
	if cfg.noise != nil {
		if err := cfg.noise.AddTo(kxx); err != nil {
			return nil, pkgerrors.Wrap(err, "tinygp: adding noise")
		}
	}
	n := len(x)
	if cfg.jitter > 0 {
		for i := 0; i < n; i++ {
			kxx.SetSym(i, i, kxx.At(i, i)+cfg.jitter)
		}
	}

	chol := &mat.Cholesky{}
	if ok := chol.Factorize(kxx); !ok {
		return nil, ErrNotPositiveDefinite
	}

	mu := mat.NewVecDense(n, nil)
	for i, xi := range x {
		mu.SetVec(i, cfg.mean.Evaluate(xi))
	}
	return &GaussianProcess{
		kernel: kernel,
		x:      x,
		mean:   cfg.mean,
		kxx:    kxx,
		chol:   chol,
		mu:     mu,
	}, nil
}

// Kernel returns the kernel the process was built with.
func (gp *GaussianProcess) Kernel() kernels.Kernel {
	return gp.kernel
}

// residual computes y - m(x).
func (gp *GaussianProcess) residual(y []float64) (*mat.VecDense, error) {
	if len(y) != len(gp.x) {
		return nil, ErrSizeMismatch
	}
	resid := mat.NewVecDense(len(y), nil)
	for i, yi := range y {
		resid.SetVec(i, yi-gp.mu.AtVec(i))
	}
	return resid, nil
}

// LogProbability evaluates the Gaussian log marginal likelihood of the
// observations under the prior,
//
//	-1/2 (y - m)' K^{-1} (y - m) - 1/2 log det K - n/2 log(2 pi).
func (gp *GaussianProcess) LogProbability(y []float64) (float64, error) {
	resid, err := gp.residual(y)
	if err != nil {
		return 0, err
	}
	var alpha mat.VecDense
	if err := gp.chol.SolveVecTo(&alpha, resid); err != nil {
		return 0, pkgerrors.Wrap(err, "tinygp: solving against covariance")
	}
	n := float64(len(y))
	return -0.5*mat.Dot(resid, &alpha) - 0.5*gp.chol.LogDet() - 0.5*n*math.Log(2*math.Pi), nil
}

// Condition returns the posterior process at xtest given observations
// y, along with the log marginal likelihood of y.
func (gp *GaussianProcess) Condition(y []float64, xtest [][]float64) (float64, *ConditionedGP, error) {
	return gp.ConditionWith(gp.kernel, y, xtest)
}

// ConditionWith conditions with a different kernel for the test-point
// covariances. When the prior kernel is a sum, conditioning with one
// component extracts that component's contribution to the posterior:
// the component posterior means add up to the full posterior mean.
func (gp *GaussianProcess) ConditionWith(kernel kernels.Kernel, y []float64, xtest [][]float64) (float64, *ConditionedGP, error) {
	logprob, err := gp.LogProbability(y)
	if err != nil {
		return 0, nil, err
	}
	resid, err := gp.residual(y)
	if err != nil {
		return 0, nil, err
	}

	ks, err := kernels.Matrix(kernel, gp.x, xtest)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(err, "tinygp: building cross covariance")
	}
	ktt, err := kernels.SymMatrix(kernel, xtest)
	if err != nil {
		return 0, nil, pkgerrors.Wrap(err, "tinygp: building test covariance")
	}

	var alpha mat.VecDense
	if err := gp.chol.SolveVecTo(&alpha, resid); err != nil {
		return 0, nil, pkgerrors.Wrap(err, "tinygp: solving against covariance")
	}

	// mean = m(x*) + Ks' K^{-1} (y - m)
	m := len(xtest)
	mean := mat.NewVecDense(m, nil)
	mean.MulVec(ks.T(), &alpha)
	for j, xj := range xtest {
		mean.SetVec(j, mean.AtVec(j)+gp.mean.Evaluate(xj))
	}

	// cov = Ktt - Ks' K^{-1} Ks
	var v mat.Dense
	if err := gp.chol.SolveTo(&v, ks); err != nil {
		return 0, nil, pkgerrors.Wrap(err, "tinygp: solving against covariance")
	}
	var cross mat.Dense
	cross.Mul(ks.T(), &v)
	cov := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			cov.SetSym(i, j, ktt.At(i, j)-cross.At(i, j))
		}
	}

	return logprob, &ConditionedGP{
		x:    xtest,
		mean: mean,
		cov:  cov,
	}, nil
}

// Predict is a convenience wrapper around Condition returning the
// posterior mean and variance at xtest.
func (gp *GaussianProcess) Predict(y []float64, xtest [][]float64) (mean, variance []float64, err error) {
	_, cond, err := gp.Condition(y, xtest)
	if err != nil {
		return nil, nil, err
	}
	return cond.Mean(), cond.Variance(), nil
}

// ConditionedGP is the posterior process at a fixed set of test points.
type ConditionedGP struct {
	x    [][]float64
	mean *mat.VecDense
	cov  *mat.SymDense
}

// Mean returns a copy of the posterior mean.
func (c *ConditionedGP) Mean() []float64 {
	out := make([]float64, c.mean.Len())
	copy(out, c.mean.RawVector().Data)
	return out
}

// Variance returns the diagonal of the posterior covariance. Small
// negative values from cancellation are clamped to zero.
func (c *ConditionedGP) Variance() []float64 {
	out := make([]float64, c.cov.SymmetricDim())
	for i := range out {
		out[i] = math.Max(c.cov.At(i, i), 0)
	}
	return out
}

// StdDev returns the pointwise posterior standard deviation.
func (c *ConditionedGP) StdDev() []float64 {
	out := c.Variance()
	for i, v := range out {
		out[i] = math.Sqrt(v)
	}
	return out
}

// Covariance returns a copy of the posterior covariance matrix.
func (c *ConditionedGP) Covariance() *mat.SymDense {
	out := mat.NewSymDense(c.cov.SymmetricDim(), nil)
	out.CopySym(c.cov)
	return out
}
