package kernels

import (
	"errors"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoInputs          = errors.New("kernels: no input coordinates")
	ErrDimensionMismatch = errors.New("kernels: input dimension mismatch")
	ErrRaggedInput       = errors.New("kernels: input rows have inconsistent dimensions")
)

// Matrices with fewer rows than this are filled sequentially.
const parallelRows = 64

func rowDim(x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, ErrNoInputs
	}
	d := len(x[0])
	for _, row := range x[1:] {
		if len(row) != d {
			return 0, ErrRaggedInput
		}
	}
	return d, nil
}

// Matrix evaluates the cross-covariance matrix k(x1, x2) with one row
// per element of x1.
func Matrix(k Kernel, x1, x2 [][]float64) (*mat.Dense, error) {
	d1, err := rowDim(x1)
	if err != nil {
		return nil, err
	}
	d2, err := rowDim(x2)
	if err != nil {
		return nil, err
	}
	if d1 != d2 {
		return nil, ErrDimensionMismatch
	}
	out := mat.NewDense(len(x1), len(x2), nil)
	eachRow(len(x1), func(i int) {
		for j := range x2 {
			out.Set(i, j, k.Evaluate(x1[i], x2[j]))
		}
	})
	return out, nil
}

// SymMatrix evaluates the covariance matrix k(x, x), filling only the
// upper triangle.
func SymMatrix(k Kernel, x [][]float64) (*mat.SymDense, error) {
	if _, err := rowDim(x); err != nil {
		return nil, err
	}
	out := mat.NewSymDense(len(x), nil)
	eachRow(len(x), func(i int) {
		for j := i; j < len(x); j++ {
			out.SetSym(i, j, k.Evaluate(x[i], x[j]))
		}
	})
	return out, nil
}

// eachRow runs fill for every row index, spreading the work over a
// small worker pool when the matrix is large enough to benefit.
func eachRow(n int, fill func(i int)) {
	if n < parallelRows {
		for i := 0; i < n; i++ {
			fill(i)
		}
		return
	}
	rowChan := make(chan int, 100)
	defer close(rowChan)
	var wg sync.WaitGroup
	for w := 0; w < runtime.GOMAXPROCS(0); w++ {
		go func() {
			for i := range rowChan {
				fill(i)
				wg.Done()
			}
		}()
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		rowChan <- i
	}
	wg.Wait()
}
