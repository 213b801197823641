package tinygp

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Jitter levels tried when factoring a posterior covariance, which can
// be numerically semi-definite at test points close to the data.
var sampleJitter = []float64{0, 1e-12, 1e-10, 1e-8, 1e-6}

// Sample draws n realizations of the prior at the training inputs,
// including observation noise.
func (gp *GaussianProcess) Sample(src rand.Source, n int) [][]float64 {
	return sampleMVN(gp.mu, gp.chol, src, n)
}

// Sample draws n realizations of the posterior at the test points.
func (c *ConditionedGP) Sample(src rand.Source, n int) ([][]float64, error) {
	chol, err := factorWithJitter(c.cov)
	if err != nil {
		return nil, err
	}
	return sampleMVN(c.mean, chol, src, n), nil
}

func factorWithJitter(cov *mat.SymDense) (*mat.Cholesky, error) {
	dim := cov.SymmetricDim()
	for _, eps := range sampleJitter {
		work := mat.NewSymDense(dim, nil)
		work.CopySym(cov)
		for i := 0; i < dim; i++ {
			work.SetSym(i, i, work.At(i, i)+eps)
		}
		chol := &mat.Cholesky{}
		if chol.Factorize(work) {
			return chol, nil
		}
	}
	return nil, ErrNotPositiveDefinite
}

func sampleMVN(mean *mat.VecDense, chol *mat.Cholesky, src rand.Source, n int) [][]float64 {
	dim := mean.Len()
	var l mat.TriDense
	chol.LTo(&l)
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	out := make([][]float64, n)
	z := mat.NewVecDense(dim, nil)
	var y mat.VecDense
	for s := range out {
		for i := 0; i < dim; i++ {
			z.SetVec(i, norm.Rand())
		}
		y.MulVec(&l, z)
		row := make([]float64, dim)
		for i := range row {
			row[i] = mean.AtVec(i) + y.AtVec(i)
		}
		out[s] = row
	}
	return out
}
