package tinygp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/0x0L/tinygp/kernels"
	"github.com/0x0L/tinygp/means"
	"github.com/0x0L/tinygp/noise"
)

func expSquared(t *testing.T, scale float64) kernels.Kernel {
	t.Helper()
	k, err := kernels.NewExpSquared(scale)
	require.NoError(t, err)
	return k
}

func TestLogProbabilityMatchesDenseComputation(t *testing.T) {
	k := expSquared(t, 1.2)
	x := [][]float64{{0}, {0.7}, {1.9}}
	y := []float64{0.5, -0.3, 1.1}
	diag := 0.2

	gp, err := New(k, x, WithDiag(diag))
	require.NoError(t, err)
	got, err := gp.LogProbability(y)
	require.NoError(t, err)

	// Rebuild the dense covariance and evaluate the likelihood the
	// long way round.
	kxx, err := kernels.SymMatrix(k, x)
	require.NoError(t, err)
	for i := range x {
		kxx.SetSym(i, i, kxx.At(i, i)+diag)
	}
	var inv mat.Dense
	require.NoError(t, inv.Inverse(kxx))
	yv := mat.NewVecDense(len(y), y)
	var tmp mat.VecDense
	tmp.MulVec(&inv, yv)
	quad := mat.Dot(yv, &tmp)
	want := -0.5*quad - 0.5*math.Log(mat.Det(kxx)) - 0.5*float64(len(y))*math.Log(2*math.Pi)

	assert.InDelta(t, want, got, 1e-10)
}

func TestLogProbabilityWithMean(t *testing.T) {
	k := expSquared(t, 1)
	x := [][]float64{{0}, {1}}
	gp, err := New(k, x, WithDiag(0.1), WithMean(means.Constant(3)))
	require.NoError(t, err)
	gpZero, err := New(k, x, WithDiag(0.1))
	require.NoError(t, err)

	// Shifting the observations by the mean must give the same value
	// as the zero-mean process on the residuals.
	got, err := gp.LogProbability([]float64{3.4, 2.8})
	require.NoError(t, err)
	want, err := gpZero.LogProbability([]float64{0.4, -0.2})
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}

func TestLogProbabilitySizeMismatch(t *testing.T) {
	gp, err := New(expSquared(t, 1), [][]float64{{0}, {1}}, WithDiag(0.1))
	require.NoError(t, err)
	_, err = gp.LogProbability([]float64{1})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestConditionReproducesTrainingData(t *testing.T) {
	x := [][]float64{{0}, {0.5}, {1}, {1.5}, {2}}
	y := []float64{0, 0.8, 1.0, 0.3, -0.5}
	gp, err := New(expSquared(t, 0.7), x, WithDiag(1e-8))
	require.NoError(t, err)

	_, cond, err := gp.Condition(y, x)
	require.NoError(t, err)
	mean := cond.Mean()
	variance := cond.Variance()
	for i := range y {
		assert.InDelta(t, y[i], mean[i], 1e-5)
		assert.Less(t, variance[i], 1e-5)
	}
}

func TestConditionedMeanDecomposition(t *testing.T) {
	// For a kernel sum, conditioning with each component in turn
	// splits the posterior mean into additive contributions.
	k1 := expSquared(t, 0.4)
	k2, err := kernels.NewMatern32(2.5)
	require.NoError(t, err)
	k := kernels.Add(k1, k2)

	x := [][]float64{{0}, {0.3}, {0.9}, {1.4}, {2.2}}
	y := []float64{1.0, 0.2, -0.4, 0.9, 0.1}
	xt := [][]float64{{0.1}, {0.75}, {1.8}, {3.0}}

	gp, err := New(k, x, WithDiag(0.05))
	require.NoError(t, err)

	_, full, err := gp.Condition(y, xt)
	require.NoError(t, err)
	_, c1, err := gp.ConditionWith(k1, y, xt)
	require.NoError(t, err)
	_, c2, err := gp.ConditionWith(k2, y, xt)
	require.NoError(t, err)

	fullMean := full.Mean()
	m1 := c1.Mean()
	m2 := c2.Mean()
	for j := range fullMean {
		assert.InDelta(t, fullMean[j], m1[j]+m2[j], 1e-10)
	}
}

func TestConditionFarFromDataReturnsPrior(t *testing.T) {
	x := [][]float64{{0}, {1}}
	y := []float64{4.2, 3.9}
	gp, err := New(expSquared(t, 0.5), x,
		WithDiag(0.1), WithMean(means.Constant(2)))
	require.NoError(t, err)

	_, cond, err := gp.Condition(y, [][]float64{{100}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cond.Mean()[0], 1e-6)
	assert.InDelta(t, 1.0, cond.Variance()[0], 1e-6)
}

func TestConditionDoesNotMutatePrior(t *testing.T) {
	x := [][]float64{{0}, {0.8}, {1.7}}
	y := []float64{0.4, -0.6, 0.9}
	xt := [][]float64{{0.4}, {1.2}}
	gp, err := New(expSquared(t, 0.9), x, WithDiag(0.05))
	require.NoError(t, err)

	llBefore, err := gp.LogProbability(y)
	require.NoError(t, err)
	_, first, err := gp.Condition(y, xt)
	require.NoError(t, err)

	// A conditioning pass must leave the prior untouched: the
	// likelihood and a repeated conditioning give identical results.
	llAfter, err := gp.LogProbability(y)
	require.NoError(t, err)
	assert.Equal(t, llBefore, llAfter)

	_, second, err := gp.Condition(y, xt)
	require.NoError(t, err)
	assert.Equal(t, first.Mean(), second.Mean())
	assert.Equal(t, first.Variance(), second.Variance())

	draws := gp.Sample(rand.NewSource(3), 2)
	again := gp.Sample(rand.NewSource(3), 2)
	assert.Equal(t, draws, again)
}

func TestPredictMatchesCondition(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}}
	y := []float64{0.1, -0.2, 0.7}
	xt := [][]float64{{0.5}, {1.5}}
	gp, err := New(expSquared(t, 1), x, WithDiag(0.01))
	require.NoError(t, err)

	mean, variance, err := gp.Predict(y, xt)
	require.NoError(t, err)
	_, cond, err := gp.Condition(y, xt)
	require.NoError(t, err)
	assert.Equal(t, cond.Mean(), mean)
	assert.Equal(t, cond.Variance(), variance)
}

func TestDuplicateInputsNeedJitter(t *testing.T) {
	x := [][]float64{{1}, {1}}
	_, err := New(expSquared(t, 1), x)
	assert.ErrorIs(t, err, ErrNotPositiveDefinite)

	_, err = New(expSquared(t, 1), x, WithJitter(1e-6))
	assert.NoError(t, err)
}

func TestConditionInputValidation(t *testing.T) {
	gp, err := New(expSquared(t, 1), [][]float64{{0}, {1}}, WithDiag(0.1))
	require.NoError(t, err)

	_, _, err = gp.Condition([]float64{1, 2}, [][]float64{{0, 0}})
	assert.ErrorIs(t, err, kernels.ErrDimensionMismatch)

	_, _, err = gp.Condition([]float64{1}, [][]float64{{0}})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestNoiseModelOption(t *testing.T) {
	x := [][]float64{{0}, {1}}
	full := mat.NewSymDense(2, []float64{0.2, 0.05, 0.05, 0.3})
	gp, err := New(expSquared(t, 1), x, WithNoise(noise.NewDense(full)))
	require.NoError(t, err)
	_, err = gp.LogProbability([]float64{0.1, 0.2})
	assert.NoError(t, err)
}

func TestPriorSampleShapeAndDeterminism(t *testing.T) {
	x := [][]float64{{0}, {0.5}, {1}}
	gp, err := New(expSquared(t, 1), x, WithDiag(0.1))
	require.NoError(t, err)

	draws := gp.Sample(rand.NewSource(42), 4)
	require.Len(t, draws, 4)
	for _, d := range draws {
		require.Len(t, d, 3)
		for _, v := range d {
			assert.False(t, math.IsNaN(v))
		}
	}

	again := gp.Sample(rand.NewSource(42), 4)
	assert.Equal(t, draws, again)
}

func TestConditionedSample(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}}
	y := []float64{0.3, -0.1, 0.5}
	gp, err := New(expSquared(t, 1), x, WithDiag(0.01))
	require.NoError(t, err)
	_, cond, err := gp.Condition(y, [][]float64{{0.5}, {1.5}})
	require.NoError(t, err)

	draws, err := cond.Sample(rand.NewSource(7), 3)
	require.NoError(t, err)
	require.Len(t, draws, 3)
	for _, d := range draws {
		require.Len(t, d, 2)
	}
}
