// Package tinygp implements Gaussian process regression on top of a
// composable kernel system. A process is defined by a kernel from the
// kernels package, a set of input coordinates, an optional prior mean
// and an observation noise model; it supports log marginal likelihood
// evaluation, conditioning on observations and sampling.
package tinygp
