// Package sdm fits sequential discovery models: the indicator sequence
// "the i-th observed individual is a new species" is modeled as independent
// Bernoulli trials whose success probability is a strictly decreasing
// survival function S(i; theta) with S(0) = 1 and S(i) -> 0, which makes
// the asymptotic species richness finite. Since raw abundance data carries
// no observation order, the indicator sequence is derived from the exact
// model-free rarefaction curve.
package sdm

import (
	"math"

	"godiv/domain/abundance"
	"godiv/domain/core"
	"godiv/stats/special"
)

// Variant selects the survival kernel.
type Variant string

const (
	// LL3 is the three-parameter log-logistic kernel
	// S(i) = alpha*phi^i / (alpha*phi^i + i^(1-sigma)), the default.
	LL3 Variant = "LL3"
	// Weibull is the kernel S(i) = phi^(i^lambda).
	Weibull Variant = "Weibull"
)

// ParseVariant maps a user-supplied name onto the closed variant
// enumeration, failing with core.ErrUnsupportedModel for anything else.
func ParseVariant(name string) (Variant, error) {
	switch Variant(name) {
	case LL3, Weibull:
		return Variant(name), nil
	default:
		return "", core.NewUnsupportedModelError(name)
	}
}

const (
	// coefFloor replaces a constrained LL3 coefficient that the optimizer
	// would otherwise drive to exactly zero. Both constrained coefficients
	// must stay strictly negative for phi < 1 and sigma < 1 to hold, so a
	// vanishing one is clamped to -coefFloor. Deliberate approximation, not
	// error suppression.
	coefFloor = 1e-8

	// tailTol truncates the infinite survival sums: once S(i) falls below
	// it, remaining terms are dropped. The kernels' guaranteed decay makes
	// the dropped mass negligible.
	tailTol = 1e-12

	// maxTailTerms hard-caps tail summation and forward simulation for
	// near-boundary parameter fits whose decay toward tailTol is extremely
	// slow.
	maxTailTerms = 1 << 24
)

// Model is the immutable result of a successful fit. Asymptotic richness
// moments and the approximate saturation are precomputed at fit time.
type Model struct {
	variant     Variant
	theta       []float64 // LL3: [alpha, sigma, phi]; Weibull: [phi, lambda]
	logLik      float64
	discoveries []float64 // surrogate indicator sequence, discoveries[0] = 1
	data        abundance.Vector

	asymptoteMean float64
	asymptoteSD   float64
	saturation    float64
}

// Variant returns the fitted kernel family.
func (m *Model) Variant() Variant { return m.variant }

// Theta returns a copy of the fitted parameter vector:
// [alpha, sigma, phi] for LL3, [phi, lambda] for Weibull.
func (m *Model) Theta() []float64 {
	out := make([]float64, len(m.theta))
	copy(out, m.theta)
	return out
}

// LogLik returns the achieved Bernoulli log-likelihood.
func (m *Model) LogLik() float64 { return m.logLik }

// Data returns the abundance vector the model was fit on. It is the zero
// Vector when the model was fit directly on a discovery sequence.
func (m *Model) Data() abundance.Vector { return m.data }

// Discoveries returns a copy of the surrogate discovery-indicator sequence
// the likelihood was maximized over.
func (m *Model) Discoveries() []float64 {
	out := make([]float64, len(m.discoveries))
	copy(out, m.discoveries)
	return out
}

// SampleSize returns n, the length of the discovery sequence.
func (m *Model) SampleSize() int { return len(m.discoveries) }

// Richness returns K, the observed species count implied by the discovery
// sequence (its sum).
func (m *Model) Richness() float64 {
	k := 0.0
	for _, d := range m.discoveries {
		k += d
	}
	return k
}

// AsymptoteMean returns E(K_inf | K_n), the expected total richness at
// infinite sampling.
func (m *Model) AsymptoteMean() float64 { return m.asymptoteMean }

// AsymptoteSD returns the Poisson-binomial standard deviation of the
// asymptotic richness under the same tail truncation as the mean.
func (m *Model) AsymptoteSD() float64 { return m.asymptoteSD }

// survival evaluates S(i; theta) for integer position i >= 0.
func (m *Model) survival(i int) float64 {
	return survive(m.variant, m.theta, i)
}

func survive(variant Variant, theta []float64, i int) float64 {
	if i <= 0 {
		return 1
	}
	switch variant {
	case LL3:
		alpha, sigma, phi := theta[0], theta[1], theta[2]
		// Stable logistic form: S = sigmoid(log alpha + i*log phi - (1-sigma)*log i).
		z := math.Log(alpha) + float64(i)*math.Log(phi) - (1-sigma)*math.Log(float64(i))
		return special.Sigmoid(z)
	case Weibull:
		phi, lambda := theta[0], theta[1]
		return math.Exp(math.Pow(float64(i), lambda) * math.Log(phi))
	default:
		return 0
	}
}
