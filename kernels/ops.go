package kernels

// Sum is the pointwise sum of component kernels.
type Sum struct {
	parts []Kernel
}

var (
	sum *Sum
	_   Kernel = sum
)

// Add combines kernels into a Sum, flattening nested sums so that the
// component list stays one level deep.
func Add(first, second Kernel, rest ...Kernel) *Sum {
	parts := make([]Kernel, 0, 2+len(rest))
	for _, k := range append([]Kernel{first, second}, rest...) {
		switch k := k.(type) {
		case *Sum:
			parts = append(parts, k.parts...)
		default:
			parts = append(parts, k)
		}
	}
	return &Sum{
		parts: parts,
	}
}

func (k *Sum) Evaluate(x1, x2 []float64) float64 {
	total := 0.0
	for _, part := range k.parts {
		total += part.Evaluate(x1, x2)
	}
	return total
}

// Parts returns the component kernels. The returned slice is shared and
// must not be modified.
func (k *Sum) Parts() []Kernel {
	return k.parts
}

// Product is the pointwise product of component kernels.
type Product struct {
	parts []Kernel
}

var (
	product *Product
	_       Kernel = product
)

// Mul combines kernels into a Product, flattening nested products.
func Mul(first, second Kernel, rest ...Kernel) *Product {
	parts := make([]Kernel, 0, 2+len(rest))
	for _, k := range append([]Kernel{first, second}, rest...) {
		switch k := k.(type) {
		case *Product:
			parts = append(parts, k.parts...)
		default:
			parts = append(parts, k)
		}
	}
	return &Product{
		parts: parts,
	}
}

func (k *Product) Evaluate(x1, x2 []float64) float64 {
	total := 1.0
	for _, part := range k.parts {
		total *= part.Evaluate(x1, x2)
	}
	return total
}

func (k *Product) Parts() []Kernel {
	return k.parts
}

// Scaled multiplies a kernel by a scalar factor.
type Scaled struct {
	factor float64
	kernel Kernel
}

var (
	scaled *Scaled
	_      Kernel = scaled
)

func Scale(factor float64, kernel Kernel) *Scaled {
	return &Scaled{
		factor: factor,
		kernel: kernel,
	}
}

func (k *Scaled) Evaluate(x1, x2 []float64) float64 {
	return k.factor * k.kernel.Evaluate(x1, x2)
}
