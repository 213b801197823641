package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant(t *testing.T) {
	k := NewConstant(2.5)
	assert.Equal(t, 2.5, k.Evaluate([]float64{0}, []float64{3}))
	assert.Equal(t, 2.5, k.Evaluate([]float64{1, 2}, []float64{1, 2}))
}

func TestDotProduct(t *testing.T) {
	k := NewDotProduct()
	assert.Equal(t, 11.0, k.Evaluate([]float64{1, 2}, []float64{3, 4}))
	assert.Equal(t, 0.0, k.Evaluate([]float64{1, 0}, []float64{0, 1}))
}

func TestPolynomial(t *testing.T) {
	tests := []struct {
		name         string
		order, sigma float64
		x1, x2       []float64
		want         float64
	}{
		{
			name:  "order one is dot product plus sigma squared",
			order: 1,
			sigma: 2,
			x1:    []float64{1, 2},
			x2:    []float64{3, 4},
			want:  15,
		},
		{
			name:  "order two squares",
			order: 2,
			sigma: 0,
			x1:    []float64{3},
			x2:    []float64{2},
			want:  36,
		},
		{
			name:  "order zero is one",
			order: 0,
			sigma: 1,
			x1:    []float64{5},
			x2:    []float64{7},
			want:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewPolynomial(tt.order, tt.sigma)
			assert.InDelta(t, tt.want, k.Evaluate(tt.x1, tt.x2), 1e-12)
		})
	}
}

func TestFunc(t *testing.T) {
	k := Func(func(x1, x2 []float64) float64 {
		return x1[0] * x2[0]
	})
	assert.Equal(t, 6.0, k.Evaluate([]float64{2}, []float64{3}))
}

func TestAddEvaluatesPointwiseSum(t *testing.T) {
	k := Add(NewConstant(1), NewConstant(2), NewConstant(3))
	assert.Equal(t, 6.0, k.Evaluate([]float64{0}, []float64{0}))
}

func TestAddFlattensNestedSums(t *testing.T) {
	inner := Add(NewConstant(1), NewConstant(2))
	k := Add(inner, Add(NewConstant(3), NewConstant(4)))
	require.Len(t, k.Parts(), 4)
	assert.Equal(t, 10.0, k.Evaluate([]float64{0}, []float64{0}))
}

func TestMulEvaluatesPointwiseProduct(t *testing.T) {
	k := Mul(NewConstant(2), NewConstant(3))
	assert.Equal(t, 6.0, k.Evaluate([]float64{0}, []float64{0}))
}

func TestMulFlattensNestedProducts(t *testing.T) {
	k := Mul(Mul(NewConstant(2), NewConstant(3)), NewConstant(4))
	require.Len(t, k.Parts(), 3)
	assert.Equal(t, 24.0, k.Evaluate([]float64{0}, []float64{0}))
}

func TestScale(t *testing.T) {
	k := Scale(0.5, NewConstant(4))
	assert.Equal(t, 2.0, k.Evaluate([]float64{0}, []float64{0}))
}

func TestMixedAlgebra(t *testing.T) {
	// (2 + 3) * 4, scaled by 10.
	k := Scale(10, Mul(Add(NewConstant(2), NewConstant(3)), NewConstant(4)))
	assert.Equal(t, 200.0, k.Evaluate([]float64{1}, []float64{2}))
}
