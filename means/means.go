// Package means provides prior mean functions for Gaussian processes.
package means

// Mean maps an input coordinate to the prior mean of the process there.
type Mean interface {
	Evaluate(x []float64) float64
}

type constant float64

var _ Mean = constant(0)

func (c constant) Evaluate(x []float64) float64 {
	return float64(c)
}

// Zero is the zero mean function, the default for a Gaussian process.
func Zero() Mean {
	return constant(0)
}

// Constant is a mean function with the same value everywhere.
func Constant(value float64) Mean {
	return constant(value)
}

// Func adapts an arbitrary function into a Mean.
type Func func(x []float64) float64

var _ Mean = Func(nil)

func (f Func) Evaluate(x []float64) float64 {
	return f(x)
}
