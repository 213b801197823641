package kernels

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Kernel is a covariance function between two input coordinates.
type Kernel interface {
	// Covariance :math:`k(\mathbf{x}_1, \mathbf{x}_2)`.
	Evaluate(x1, x2 []float64) float64
}

var (
	constant *Constant
	_        Kernel = constant // Check that Constant respects the Kernel interface.
)

// Constant returns the same covariance for every pair of inputs.
type Constant struct {
	value float64
}

func NewConstant(value float64) *Constant {
	return &Constant{
		value: value,
	}
}

func (k *Constant) Evaluate(x1, x2 []float64) float64 {
	return k.value
}

var (
	dotProduct *DotProduct
	_          Kernel = dotProduct
)

// DotProduct is the linear kernel :math:`k(\mathbf{x}_1, \mathbf{x}_2) =
// \mathbf{x}_1 \cdot \mathbf{x}_2`.
type DotProduct struct{}

func NewDotProduct() *DotProduct {
	return &DotProduct{}
}

func (k *DotProduct) Evaluate(x1, x2 []float64) float64 {
	return floats.Dot(x1, x2)
}

var (
	polynomial *Polynomial
	_          Kernel = polynomial
)

// Polynomial is the kernel :math:`k(\mathbf{x}_1, \mathbf{x}_2) =
// (\mathbf{x}_1 \cdot \mathbf{x}_2 + \sigma^2)^P`.
type Polynomial struct {
	order  float64
	sigma2 float64
}

func NewPolynomial(order, sigma float64) *Polynomial {
	return &Polynomial{
		order:  order,
		sigma2: sigma * sigma,
	}
}

func (k *Polynomial) Evaluate(x1, x2 []float64) float64 {
	return math.Pow(floats.Dot(x1, x2)+k.sigma2, k.order)
}

// Func adapts an arbitrary evaluation function into a Kernel.
type Func func(x1, x2 []float64) float64

var _ Kernel = Func(nil)

func (f Func) Evaluate(x1, x2 []float64) float64 {
	return f(x1, x2)
}
