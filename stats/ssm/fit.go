package ssm

import (
	"math"

	"godiv/domain/abundance"
	"godiv/domain/core"

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

// Fit computes the empirical-Bayes point estimate of the chosen variant by
// maximizing the EPPF log-likelihood over an unconstrained
// reparameterization of the valid domain:
//
//	DP: alpha = min(exp(t), alphaCeil)
//	PY: sigma = logistic(s) in (0,1), alpha = min(exp(a), alphaCeil) - sigma
//
// A Pitman-Yor fit whose discount lands at (numerical) zero is valid output
// indicating Dirichlet-compatible data, not an error. Non-convergence
// within the iteration budget fails with core.ErrOptimizationFailure and
// produces no model.
func Fit(vec abundance.Vector, variant Variant, opt FitOptions) (*Model, error) {
	if vec.IsEmpty() {
		return nil, core.ErrEmptyAbundance
	}
	opt = opt.withDefaults()

	var (
		x0    []float64
		toNat func(x []float64) (alpha, sigma float64)
	)
	switch variant {
	case Dirichlet:
		x0 = []float64{math.Log(initialAlpha(vec))}
		toNat = func(x []float64) (float64, float64) {
			return math.Min(math.Exp(x[0]), alphaCeil), 0
		}
	case PitmanYor:
		x0 = []float64{math.Log(initialAlpha(vec)), 0} // sigma starts at 0.5
		toNat = func(x []float64) (float64, float64) {
			sigma := 1 / (1 + math.Exp(-x[1]))
			alpha := math.Min(math.Exp(x[0]), alphaCeil) - sigma
			return alpha, sigma
		}
	default:
		return nil, core.NewUnsupportedModelError(string(variant))
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			alpha, sigma := toNat(x)
			ll := LogLikelihood(vec, alpha, sigma)
			if math.IsInf(ll, -1) || math.IsNaN(ll) {
				return math.MaxFloat64
			}
			return -ll
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
	if result.F >= math.MaxFloat64 {
		return nil, core.NewOptimizationError("objective stayed at domain boundary")
	}

	alpha, sigma := toNat(result.X)
	return &Model{
		variant: variant,
		alpha:   alpha,
		sigma:   sigma,
		logLik:  -result.F,
		data:    vec,
	}, nil
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

// initialAlpha seeds the concentration near the moment-style guess
// K / log(n), which keeps the simplex in a sane region for both variants.
func initialAlpha(vec abundance.Vector) float64 {
	n := float64(vec.Abundance())
	k := float64(vec.Richness())
	a := k / math.Log(n+1)
	if a < 0.5 {
		a = 0.5
	}
	return a
}
