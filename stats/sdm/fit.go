package sdm

import (
	"context"
	"math"

	"godiv/domain/abundance"
	"godiv/domain/core"
	"godiv/domain/curve"
	"godiv/stats/rarefaction"
	"godiv/stats/special"

	"gonum.org/v1/gonum/optimize"
)

// FitOptions bounds the likelihood maximization. The zero value picks the
// defaults below.
type FitOptions struct {
	// MaxIterations caps the optimizer's major iterations (default 2000).
	MaxIterations int
	// Tolerance is the absolute log-likelihood convergence threshold
	// (default 1e-10).
	Tolerance float64
}

func (o FitOptions) withDefaults() FitOptions {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 2000
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-10
	}
	return o
}

// Fit derives the surrogate discovery sequence from the exact model-free
// rarefaction curve of vec and maximizes the Bernoulli likelihood of the
// chosen kernel over it. The rarefaction pass honors ctx cancellation.
func Fit(ctx context.Context, vec abundance.Vector, variant Variant, opt FitOptions) (*Model, error) {
	rc, err := rarefaction.Compute(ctx, vec, rarefaction.Options{})
	if err != nil {
		return nil, err
	}
	return FitCurve(vec, rc, variant, opt)
}

// FitCurve fits the kernel to the discovery sequence implied by an already
// computed rarefaction curve of vec, sparing the curve pass when the caller
// holds one.
func FitCurve(vec abundance.Vector, rc curve.Rarefaction, variant Variant, opt FitOptions) (*Model, error) {
	model, err := FitSequence(rc.Increments(), variant, opt)
	if err != nil {
		return nil, err
	}
	model.data = vec
	return model, nil
}

// FitSequence fits the kernel directly to a discovery-indicator sequence.
// Entries may be fractional (expected indicators in [0,1]); the first entry
// is forced to 1. Non-convergence fails with core.ErrOptimizationFailure
// and produces no model.
//
// The LL3 likelihood is logistic in the predictor
// b0 + b1*i + b2*log(i) with b1 <= 0 (phi < 1) and b2 <= 0 (sigma < 1); the
// sign constraints are enforced by the b = -exp(u) transform, which keeps
// the fit a smooth unconstrained problem over a convex-style objective.
// Weibull is fit by direct nonlinear maximum likelihood.
func FitSequence(discoveries []float64, variant Variant, opt FitOptions) (*Model, error) {
	if len(discoveries) < 3 {
		return nil, core.NewInvalidInputError("discovery sequence needs at least 3 entries")
	}
	opt = opt.withDefaults()

	d := make([]float64, len(discoveries))
	copy(d, discoveries)
	d[0] = 1
	for _, v := range d {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return nil, core.NewInvalidInputError("discovery indicators must lie in [0,1]")
		}
	}

	var (
		x0      []float64
		toTheta func(x []float64) []float64
	)
	switch variant {
	case LL3:
		x0 = []float64{special.Logit(meanRate(d)), math.Log(0.01), math.Log(0.5)}
		toTheta = func(x []float64) []float64 {
			b0 := x[0]
			b1 := -math.Exp(x[1])
			b2 := -math.Exp(x[2])
			if b1 > -coefFloor {
				b1 = -coefFloor
			}
			if b2 > -coefFloor {
				b2 = -coefFloor
			}
			return []float64{math.Exp(b0), 1 + b2, math.Exp(b1)} // alpha, sigma, phi
		}
	case Weibull:
		x0 = []float64{math.Log(-math.Log(0.9)), 0} // phi = 0.9, lambda = 1
		toTheta = func(x []float64) []float64 {
			logPhi := -math.Exp(x[0])
			if logPhi > -coefFloor {
				logPhi = -coefFloor
			}
			return []float64{math.Exp(logPhi), math.Exp(x[1])} // phi, lambda
		}
	default:
		return nil, core.NewUnsupportedModelError(string(variant))
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			nll := -sequenceLogLik(d, variant, toTheta(x))
			if math.IsNaN(nll) || math.IsInf(nll, 1) {
				return math.MaxFloat64
			}
			return nll
		},
	}
	settings := &optimize.Settings{
		MajorIterations: opt.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   opt.Tolerance,
			Iterations: 100,
		},
	}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, core.NewOptimizationError(err.Error())
	}
	if !converged(result.Status) {
		return nil, core.NewOptimizationError("status " + result.Status.String())
	}

	m := &Model{
		variant:     variant,
		theta:       toTheta(result.X),
		logLik:      -result.F,
		discoveries: d,
	}
	m.precomputeAsymptote()
	return m, nil
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.FunctionConvergence, optimize.GradientThreshold,
		optimize.StepConvergence, optimize.MethodConverge:
		return true
	default:
		return false
	}
}

// sequenceLogLik is Σ_{i=2}^{n} [d_i log S(i-1) + (1-d_i) log(1-S(i-1))].
// The i = 1 term is constant (S(0) = 1, d_1 = 1) and omitted.
func sequenceLogLik(d []float64, variant Variant, theta []float64) float64 {
	ll := 0.0
	for i := 2; i <= len(d); i++ {
		s := survive(variant, theta, i-1)
		if s <= 0 || s >= 1 {
			return math.Inf(-1)
		}
		di := d[i-1]
		ll += di*math.Log(s) + (1-di)*math.Log1p(-s)
	}
	return ll
}

func meanRate(d []float64) float64 {
	sum := 0.0
	for _, v := range d {
		sum += v
	}
	r := sum / float64(len(d))
	if r <= 0.01 {
		r = 0.01
	}
	if r >= 0.99 {
		r = 0.99
	}
	return r
}

// precomputeAsymptote fills the truncated tail moments of K_inf and the
// approximate saturation ratio.
func (m *Model) precomputeAsymptote() {
	n := len(m.discoveries)
	k := m.Richness()

	mean := k
	variance := 0.0
	for t, terms := n, 0; terms < maxTailTerms; t, terms = t+1, terms+1 {
		s := m.survival(t)
		if s < tailTol {
			break
		}
		mean += s
		variance += s * (1 - s)
	}

	m.asymptoteMean = mean
	m.asymptoteSD = math.Sqrt(variance)
	m.saturation = k / mean
}
