// Package ssm fits exchangeable species-sampling models (Dirichlet and
// Pitman-Yor processes) to an abundance vector by maximum likelihood and
// answers posterior queries: coverage, Gini-Simpson diversity, in-sample
// rarefaction and out-of-sample extrapolation, with stochastic samplers for
// the posterior laws.
package ssm

import (
	"godiv/domain/abundance"
	"godiv/domain/core"
)

// Variant selects the exchangeable partition model.
type Variant string

const (
	// Dirichlet is the one-parameter Dirichlet process (discount fixed to 0).
	Dirichlet Variant = "DP"
	// PitmanYor is the two-parameter Pitman-Yor process.
	PitmanYor Variant = "PY"
)

// ParseVariant maps a user-supplied name onto the closed variant
// enumeration, failing with core.ErrUnsupportedModel for anything else.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case Dirichlet, PitmanYor:
		return Variant(name), nil
	default:
		return "", core.NewUnsupportedModelError(name)
	}
}

const (
	// sigmaTol is the discount below which every closed form routes through
	// the Dirichlet (digamma) limit to avoid dividing by sigma.
	sigmaTol = 1e-6

	// alphaCeil bounds the concentration during optimization so degenerate
	// all-singleton data terminates clamped at the bound instead of
	// wandering to infinity.
	alphaCeil = 1e6
)

// Model is the immutable result of a successful fit. All queries are pure
// functions of the fitted parameters and the abundance data.
type Model struct {
	variant Variant
	alpha   float64
	sigma   float64
	logLik  float64
	data    abundance.Vector
}

// Variant returns the fitted model family.
func (m *Model) Variant() Variant { return m.variant }

// Alpha returns the fitted concentration parameter.
func (m *Model) Alpha() float64 { return m.alpha }

// Sigma returns the fitted discount parameter (0 under Dirichlet).
func (m *Model) Sigma() float64 { return m.sigma }

// LogLik returns the achieved maximum of the EPPF log-likelihood.
func (m *Model) LogLik() float64 { return m.logLik }

// Data returns the abundance vector the model was fit on.
func (m *Model) Data() abundance.Vector { return m.data }

// dirichletLimit reports whether the fitted discount is numerically zero.
func (m *Model) dirichletLimit() bool {
	return m.sigma < sigmaTol
}
