package commands

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/0x0L/tinygp"
	"github.com/0x0L/tinygp/kernels"
	"github.com/0x0L/tinygp/means"
	"github.com/0x0L/tinygp/transforms"
)

// kernelNode is one node of the YAML kernel description. Leaf nodes
// name a kernel kind with its parameters; sum, product, scale and the
// transform kinds combine or wrap child nodes.
type kernelNode struct {
	Kind     string  `yaml:"kind"`
	Value    float64 `yaml:"value,omitempty"`    // constant
	Scale    float64 `yaml:"scale,omitempty"`    // stationary length scale or period
	Gamma    float64 `yaml:"gamma,omitempty"`    // expsinesquared
	Alpha    float64 `yaml:"alpha,omitempty"`    // rationalquadratic
	Order    float64 `yaml:"order,omitempty"`    // polynomial
	Sigma    float64 `yaml:"sigma,omitempty"`    // polynomial
	Distance string  `yaml:"distance,omitempty"` // l1 or l2, overrides the default
	Factor   float64 `yaml:"factor,omitempty"`   // scale
	Axes     []int   `yaml:"axes,omitempty"`     // subspace

	Linear []float64     `yaml:"linear,omitempty"` // linear transform coefficients
	Chol   [][]float64   `yaml:"chol,omitempty"`   // lower triangular factor, row per line
	Parts  []*kernelNode `yaml:"parts,omitempty"`  // sum, product
	Kernel *kernelNode   `yaml:"kernel,omitempty"` // wrapped kernel
}

// modelConfig is the YAML model description consumed by the CLI.
type modelConfig struct {
	Kernel *kernelNode `yaml:"kernel"`
	Diag   []float64   `yaml:"diag,omitempty"`
	Mean   *float64    `yaml:"mean,omitempty"`
	Jitter float64     `yaml:"jitter,omitempty"`
}

func loadConfig(path string) (*modelConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model config")
	}
	var cfg modelConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing model config")
	}
	if cfg.Kernel == nil {
		return nil, errors.New("model config has no kernel")
	}
	return &cfg, nil
}

func (c *modelConfig) marshal() (string, error) {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "writing model config")
	}
	return string(raw), nil
}

func (c *modelConfig) build(x [][]float64) (*tinygp.GaussianProcess, error) {
	if len(x) == 0 {
		return nil, errors.New("no training coordinates")
	}
	if err := c.Kernel.checkDim(len(x[0])); err != nil {
		return nil, err
	}
	kernel, err := c.Kernel.build()
	if err != nil {
		return nil, err
	}
	opts := make([]tinygp.Option, 0, 3)
	if len(c.Diag) > 0 {
		opts = append(opts, tinygp.WithDiag(c.Diag...))
	}
	if c.Mean != nil {
		opts = append(opts, tinygp.WithMean(means.Constant(*c.Mean)))
	}
	if c.Jitter > 0 {
		opts = append(opts, tinygp.WithJitter(c.Jitter))
	}
	return tinygp.New(kernel, x, opts...)
}

func (n *kernelNode) stationaryOpts() ([]kernels.StationaryOption, error) {
	switch strings.ToLower(n.Distance) {
	case "":
		return nil, nil
	case "l1":
		return []kernels.StationaryOption{kernels.WithDistance(kernels.L1Distance{})}, nil
	case "l2":
		return []kernels.StationaryOption{kernels.WithDistance(kernels.L2Distance{})}, nil
	default:
		return nil, errors.Errorf("unknown distance %q", n.Distance)
	}
}

func (n *kernelNode) buildParts() ([]kernels.Kernel, error) {
	if len(n.Parts) < 2 {
		return nil, errors.Errorf("%s needs at least two parts", n.Kind)
	}
	parts := make([]kernels.Kernel, len(n.Parts))
	for i, p := range n.Parts {
		k, err := p.build()
		if err != nil {
			return nil, err
		}
		parts[i] = k
	}
	return parts, nil
}

func (n *kernelNode) buildWrapped() (kernels.Kernel, error) {
	if n.Kernel == nil {
		return nil, errors.Errorf("%s needs a wrapped kernel", n.Kind)
	}
	return n.Kernel.build()
}

func (n *kernelNode) build() (kernels.Kernel, error) {
	opts, err := n.stationaryOpts()
	if err != nil {
		return nil, err
	}
	var k kernels.Kernel
	switch strings.ToLower(n.Kind) {
	case "constant":
		k = kernels.NewConstant(n.Value)
	case "dotproduct":
		k = kernels.NewDotProduct()
	case "polynomial":
		k = kernels.NewPolynomial(n.Order, n.Sigma)
	case "exp":
		k, err = kernels.NewExp(n.Scale, opts...)
	case "expsquared":
		k, err = kernels.NewExpSquared(n.Scale, opts...)
	case "matern32":
		k, err = kernels.NewMatern32(n.Scale, opts...)
	case "matern52":
		k, err = kernels.NewMatern52(n.Scale, opts...)
	case "cosine":
		k, err = kernels.NewCosine(n.Scale, opts...)
	case "expsinesquared":
		k, err = kernels.NewExpSineSquared(n.Scale, n.Gamma, opts...)
	case "rationalquadratic":
		k, err = kernels.NewRationalQuadratic(n.Scale, n.Alpha, opts...)
	case "sum":
		parts, err := n.buildParts()
		if err != nil {
			return nil, err
		}
		k = kernels.Add(parts[0], parts[1], parts[2:]...)
	case "product":
		parts, err := n.buildParts()
		if err != nil {
			return nil, err
		}
		k = kernels.Mul(parts[0], parts[1], parts[2:]...)
	case "scale":
		inner, err := n.buildWrapped()
		if err != nil {
			return nil, err
		}
		k = kernels.Scale(n.Factor, inner)
	case "linear":
		inner, err := n.buildWrapped()
		if err != nil {
			return nil, err
		}
		k, err = transforms.NewLinear(n.Linear, inner)
		if err != nil {
			return nil, errors.Wrapf(err, "kernel %q", n.Kind)
		}
	case "cholesky":
		inner, err := n.buildWrapped()
		if err != nil {
			return nil, err
		}
		factor, err := lowerFactor(n.Chol)
		if err != nil {
			return nil, err
		}
		k, err = transforms.NewCholesky(factor, inner)
		if err != nil {
			return nil, errors.Wrapf(err, "kernel %q", n.Kind)
		}
	case "subspace":
		inner, err := n.buildWrapped()
		if err != nil {
			return nil, err
		}
		k, err = transforms.NewSubspace(n.Axes, inner)
		if err != nil {
			return nil, errors.Wrapf(err, "kernel %q", n.Kind)
		}
	default:
		return nil, errors.Errorf("unknown kernel kind %q", n.Kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "kernel %q", n.Kind)
	}
	return k, nil
}

// lowerFactor converts row-per-line YAML into a lower triangular matrix.
func lowerFactor(rows [][]float64) (*mat.TriDense, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.New("cholesky kernel has no factor")
	}
	out := mat.NewTriDense(n, mat.Lower, nil)
	for i, row := range rows {
		if len(row) != i+1 {
			return nil, errors.Errorf("factor row %d has %d entries, want %d", i, len(row), i+1)
		}
		for j, v := range row {
			out.SetTri(i, j, v)
		}
	}
	return out, nil
}

// checkDim verifies that the transform parameters in the kernel tree
// agree with the coordinate dimension of the data, so that evaluation
// cannot index past a coordinate. Subspace narrows the dimension seen
// by its wrapped kernel.
func (n *kernelNode) checkDim(dim int) error {
	switch strings.ToLower(n.Kind) {
	case "linear":
		if len(n.Linear) > 1 && len(n.Linear) != dim {
			return errors.Errorf("linear kernel has %d coefficients for %d-dimensional data", len(n.Linear), dim)
		}
	case "cholesky":
		if len(n.Chol) != dim {
			return errors.Errorf("cholesky kernel has a %d-row factor for %d-dimensional data", len(n.Chol), dim)
		}
	case "subspace":
		for _, a := range n.Axes {
			if a < 0 || a >= dim {
				return errors.Errorf("subspace axis %d is out of range for %d-dimensional data", a, dim)
			}
		}
		dim = len(n.Axes)
	}
	for _, p := range n.Parts {
		if err := p.checkDim(dim); err != nil {
			return err
		}
	}
	if n.Kernel != nil {
		return n.Kernel.checkDim(dim)
	}
	return nil
}

// scaleParams walks the kernel tree and returns pointers to every
// stationary length scale, the free parameters fitted by the fit
// command.
func (n *kernelNode) scaleParams() []*float64 {
	var out []*float64
	switch strings.ToLower(n.Kind) {
	case "exp", "expsquared", "matern32", "matern52", "cosine", "expsinesquared", "rationalquadratic":
		out = append(out, &n.Scale)
	}
	for _, p := range n.Parts {
		out = append(out, p.scaleParams()...)
	}
	if n.Kernel != nil {
		out = append(out, n.Kernel.scaleParams()...)
	}
	return out
}
