// Package transforms provides coordinate remappings that are applied
// before kernel evaluation. Every transform satisfies kernels.Kernel,
// so transformed kernels compose freely with the kernel algebra.
package transforms

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/0x0L/tinygp/kernels"
)

var (
	ErrEmptyScale     = errors.New("transforms: empty scale vector")
	ErrNotLower       = errors.New("transforms: factor must be lower triangular")
	ErrSingularFactor = errors.New("transforms: factor has a zero on the diagonal")
	ErrEmptySubspace  = errors.New("transforms: no axes selected")
)

var (
	linear *Linear
	_      kernels.Kernel = linear
)

// Linear multiplies coordinates elementwise by a fixed vector before
// evaluating the wrapped kernel. Passing the reciprocals of per-axis
// length scales turns an isotropic stationary kernel into an
// anisotropic one. A single-element scale broadcasts over all axes.
type Linear struct {
	scale  []float64
	kernel kernels.Kernel
}

func NewLinear(scale []float64, kernel kernels.Kernel) (*Linear, error) {
	if len(scale) == 0 {
		return nil, ErrEmptyScale
	}
	return &Linear{
		scale:  scale,
		kernel: kernel,
	}, nil
}

func (t *Linear) apply(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		if len(t.scale) == 1 {
			out[i] = t.scale[0] * x[i]
		} else {
			out[i] = t.scale[i] * x[i]
		}
	}
	return out
}

func (t *Linear) Evaluate(x1, x2 []float64) float64 {
	return t.kernel.Evaluate(t.apply(x1), t.apply(x2))
}

var (
	cholesky *Cholesky
	_        kernels.Kernel = cholesky
)

// Cholesky remaps coordinates through the inverse of a lower triangular
// factor, x -> L^{-1} x, which gives correlated per-axis length scales.
type Cholesky struct {
	factor *mat.TriDense
	kernel kernels.Kernel
}

func NewCholesky(factor *mat.TriDense, kernel kernels.Kernel) (*Cholesky, error) {
	n, kind := factor.Triangle()
	if n == 0 || kind != mat.Lower {
		return nil, ErrNotLower
	}
	for i := 0; i < n; i++ {
		if factor.At(i, i) == 0 {
			return nil, ErrSingularFactor
		}
	}
	return &Cholesky{
		factor: factor,
		kernel: kernel,
	}, nil
}

func (t *Cholesky) apply(x []float64) []float64 {
	var out mat.VecDense
	if err := out.SolveVec(t.factor, mat.NewVecDense(len(x), x)); err != nil {
		panic(err)
	}
	return out.RawVector().Data
}

func (t *Cholesky) Evaluate(x1, x2 []float64) float64 {
	return t.kernel.Evaluate(t.apply(x1), t.apply(x2))
}

var (
	subspace *Subspace
	_        kernels.Kernel = subspace
)

// Subspace selects a subset of coordinate axes before evaluating the
// wrapped kernel; the remaining axes are ignored.
type Subspace struct {
	axes   []int
	kernel kernels.Kernel
}

func NewSubspace(axes []int, kernel kernels.Kernel) (*Subspace, error) {
	if len(axes) == 0 {
		return nil, ErrEmptySubspace
	}
	return &Subspace{
		axes:   axes,
		kernel: kernel,
	}, nil
}

func (t *Subspace) apply(x []float64) []float64 {
	out := make([]float64, len(t.axes))
	for i, a := range t.axes {
		out[i] = x[a]
	}
	return out
}

func (t *Subspace) Evaluate(x1, x2 []float64) float64 {
	return t.kernel.Evaluate(t.apply(x1), t.apply(x2))
}

// Transform remaps coordinates with an arbitrary function.
type Transform struct {
	fn     func(x []float64) []float64
	kernel kernels.Kernel
}

var _ kernels.Kernel = (*Transform)(nil)

func NewTransform(fn func(x []float64) []float64, kernel kernels.Kernel) *Transform {
	return &Transform{
		fn:     fn,
		kernel: kernel,
	}
}

func (t *Transform) Evaluate(x1, x2 []float64) float64 {
	return t.kernel.Evaluate(t.fn(x1), t.fn(x2))
}
