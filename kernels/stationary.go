package kernels

import (
	"errors"
	"math"
)

var (
	ErrScaleNotPositive = errors.New("kernels: length scale must be positive")
	ErrGammaNotPositive = errors.New("kernels: gamma must be positive")
	ErrAlphaNotPositive = errors.New("kernels: alpha must be positive")
)

// Distance is a metric between two input coordinates, consumed by the
// stationary kernels.
type Distance interface {
	// Distance between two coordinates under this metric.
	Distance(x1, x2 []float64) float64

	// Squared distance between two coordinates. Metrics that can avoid
	// the square root should provide a direct implementation.
	SquaredDistance(x1, x2 []float64) float64
}

var (
	l1 L1Distance
	_  Distance = l1
	l2 L2Distance
	_  Distance = l2
)

// L1Distance is the L1 or Manhattan distance.
type L1Distance struct{}

func (L1Distance) Distance(x1, x2 []float64) float64 {
	total := 0.0
	for i := range x1 {
		total += math.Abs(x1[i] - x2[i])
	}
	return total
}

func (d L1Distance) SquaredDistance(x1, x2 []float64) float64 {
	r := d.Distance(x1, x2)
	return r * r
}

// L2Distance is the L2 or Euclidean distance.
type L2Distance struct{}

func (d L2Distance) Distance(x1, x2 []float64) float64 {
	return math.Sqrt(d.SquaredDistance(x1, x2))
}

func (L2Distance) SquaredDistance(x1, x2 []float64) float64 {
	total := 0.0
	for i := range x1 {
		diff := x1[i] - x2[i]
		total += diff * diff
	}
	return total
}

// stationary holds the shared parameters of the stationary kernels: a
// scalar length scale and a distance metric. A stationary kernel is
// always isotropic; for per-axis length scales wrap the kernel in
// transforms.Linear or transforms.Cholesky.
type stationary struct {
	scale float64
	dist  Distance
}

func newStationary(scale float64, def Distance, opts []StationaryOption) (stationary, error) {
	if scale <= 0 {
		return stationary{}, ErrScaleNotPositive
	}
	s := stationary{
		scale: scale,
		dist:  def,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

func (s *stationary) r(x1, x2 []float64) float64 {
	return s.dist.Distance(x1, x2) / s.scale
}

func (s *stationary) r2(x1, x2 []float64) float64 {
	return s.dist.SquaredDistance(x1, x2) / (s.scale * s.scale)
}

// StationaryOption overrides the default parameters of a stationary
// kernel.
type StationaryOption func(*stationary)

// WithDistance replaces the kernel's default distance metric.
func WithDistance(d Distance) StationaryOption {
	return func(s *stationary) {
		s.dist = d
	}
}

var (
	exp *Exp
	_   Kernel = exp
)

// Exp is the exponential kernel :math:`k = \exp(-r)` with, by default,
// :math:`r = ||(\mathbf{x}_1 - \mathbf{x}_2) / \ell||_1`.
type Exp struct {
	stationary
}

func NewExp(scale float64, opts ...StationaryOption) (*Exp, error) {
	s, err := newStationary(scale, L1Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &Exp{stationary: s}, nil
}

func (k *Exp) Evaluate(x1, x2 []float64) float64 {
	return math.Exp(-k.r(x1, x2))
}

var (
	expSquared *ExpSquared
	_          Kernel = expSquared
)

// ExpSquared is the exponential squared or radial basis function kernel
// :math:`k = \exp(-r^2 / 2)` with, by default,
// :math:`r^2 = ||(\mathbf{x}_1 - \mathbf{x}_2) / \ell||_2^2`.
type ExpSquared struct {
	stationary
}

func NewExpSquared(scale float64, opts ...StationaryOption) (*ExpSquared, error) {
	s, err := newStationary(scale, L2Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &ExpSquared{stationary: s}, nil
}

func (k *ExpSquared) Evaluate(x1, x2 []float64) float64 {
	return math.Exp(-0.5 * k.r2(x1, x2))
}

var (
	matern32 *Matern32
	_        Kernel = matern32
)

// Matern32 is the Matern-3/2 kernel
// :math:`k = (1 + \sqrt{3}\,r)\,\exp(-\sqrt{3}\,r)`.
type Matern32 struct {
	stationary
}

func NewMatern32(scale float64, opts ...StationaryOption) (*Matern32, error) {
	s, err := newStationary(scale, L1Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &Matern32{stationary: s}, nil
}

func (k *Matern32) Evaluate(x1, x2 []float64) float64 {
	arg := math.Sqrt(3) * k.r(x1, x2)
	return (1 + arg) * math.Exp(-arg)
}

var (
	matern52 *Matern52
	_        Kernel = matern52
)

// Matern52 is the Matern-5/2 kernel
// :math:`k = (1 + \sqrt{5}\,r + 5\,r^2/3)\,\exp(-\sqrt{5}\,r)`.
type Matern52 struct {
	stationary
}

func NewMatern52(scale float64, opts ...StationaryOption) (*Matern52, error) {
	s, err := newStationary(scale, L1Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &Matern52{stationary: s}, nil
}

func (k *Matern52) Evaluate(x1, x2 []float64) float64 {
	arg := math.Sqrt(5) * k.r(x1, x2)
	return (1 + arg + arg*arg/3) * math.Exp(-arg)
}

var (
	cosine *Cosine
	_      Kernel = cosine
)

// Cosine is the kernel :math:`k = \cos(2\,\pi\,r)` with the scale
// playing the role of the period :math:`P`.
type Cosine struct {
	stationary
}

func NewCosine(period float64, opts ...StationaryOption) (*Cosine, error) {
	s, err := newStationary(period, L1Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &Cosine{stationary: s}, nil
}

func (k *Cosine) Evaluate(x1, x2 []float64) float64 {
	return math.Cos(2 * math.Pi * k.r(x1, x2))
}

var (
	expSineSquared *ExpSineSquared
	_              Kernel = expSineSquared
)

// ExpSineSquared is the exponential sine squared or quasiperiodic kernel
// :math:`k = \exp(-\Gamma\,\sin^2 \pi r)`.
type ExpSineSquared struct {
	stationary
	gamma float64
}

func NewExpSineSquared(period, gamma float64, opts ...StationaryOption) (*ExpSineSquared, error) {
	if gamma <= 0 {
		return nil, ErrGammaNotPositive
	}
	s, err := newStationary(period, L1Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &ExpSineSquared{stationary: s, gamma: gamma}, nil
}

func (k *ExpSineSquared) Evaluate(x1, x2 []float64) float64 {
	s := math.Sin(math.Pi * k.r(x1, x2))
	return math.Exp(-k.gamma * s * s)
}

var (
	rationalQuadratic *RationalQuadratic
	_                 Kernel = rationalQuadratic
)

// RationalQuadratic is the kernel :math:`k = (1 + r^2 / 2\,\alpha)^{-\alpha}`
// with, by default, :math:`r^2 = ||(\mathbf{x}_1 - \mathbf{x}_2) / \ell||_2^2`.
type RationalQuadratic struct {
	stationary
	alpha float64
}

func NewRationalQuadratic(scale, alpha float64, opts ...StationaryOption) (*RationalQuadratic, error) {
	if alpha <= 0 {
		return nil, ErrAlphaNotPositive
	}
	s, err := newStationary(scale, L2Distance{}, opts)
	if err != nil {
		return nil, err
	}
	return &RationalQuadratic{stationary: s, alpha: alpha}, nil
}

func (k *RationalQuadratic) Evaluate(x1, x2 []float64) float64 {
	return math.Pow(1+0.5*k.r2(x1, x2)/k.alpha, -k.alpha)
}
