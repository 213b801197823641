// Package noise provides observation noise models added to the kernel
// matrix when a Gaussian process is constructed.
package noise

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrSizeMismatch = errors.New("noise: size does not match the number of observations")
	ErrEmpty        = errors.New("noise: empty noise model")
)

// Model is an observation noise covariance.
type Model interface {
	// AddTo adds the noise covariance to k in place. The model must
	// either match k's size exactly or broadcast to it.
	AddTo(k *mat.SymDense) error
}

// Diagonal is per-observation noise variance. A single-element value
// broadcasts over all observations.
type Diagonal []float64

var _ Model = Diagonal(nil)

func (d Diagonal) AddTo(k *mat.SymDense) error {
	n := k.SymmetricDim()
	switch {
	case len(d) == 0:
		return ErrEmpty
	case len(d) == 1:
		for i := 0; i < n; i++ {
			k.SetSym(i, i, k.At(i, i)+d[0])
		}
	case len(d) == n:
		for i := 0; i < n; i++ {
			k.SetSym(i, i, k.At(i, i)+d[i])
		}
	default:
		return ErrSizeMismatch
	}
	return nil
}

// Dense is a full noise covariance matrix.
type Dense struct {
	cov *mat.SymDense
}

var _ Model = (*Dense)(nil)

func NewDense(cov *mat.SymDense) *Dense {
	return &Dense{
		cov: cov,
	}
}

func (m *Dense) AddTo(k *mat.SymDense) error {
	if m.cov == nil || m.cov.SymmetricDim() == 0 {
		return ErrEmpty
	}
	if m.cov.SymmetricDim() != k.SymmetricDim() {
		return ErrSizeMismatch
	}
	k.AddSym(k, m.cov)
	return nil
}
