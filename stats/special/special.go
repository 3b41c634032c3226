// Package special provides the shared log-gamma arithmetic used by the
// model engines: rising factorials (Pochhammer symbols) carried in log
// space and the digamma function for Dirichlet-process limits.
package special

import (
	"math"

	"gonum.org/v1/gonum/mathext"
)

// LogPochhammer returns log((a)_m) = log Gamma(a+m) - log Gamma(a) for
// a > 0 and m >= 0. The rising factorial overflows float64 quickly, so all
// likelihood code works with this logarithm.
func LogPochhammer(a, m float64) float64 {
	if m == 0 {
		return 0
	}
	la, _ := math.Lgamma(a + m)
	lb, _ := math.Lgamma(a)
	return la - lb
}

// Pochhammer2 returns (a)_2 = a*(a+1), the second rising factorial, which
// appears in the posterior Gini-Simpson moment.
func Pochhammer2(a float64) float64 {
	return a * (a + 1)
}

// Digamma returns the logarithmic derivative of the gamma function.
func Digamma(x float64) float64 {
	return mathext.Digamma(x)
}

// LogChooseRatioStep returns the log of the one-step update
// C(n-c, i+1)/C(n-c, i) divided by C(n, i+1)/C(n, i), i.e. the factor by
// which the hypergeometric absence probability of a species with count c
// shrinks when the subsample grows from i to i+1 individuals.
// Valid while i < n-c.
func LogChooseRatioStep(n, c, i int) float64 {
	return math.Log(float64(n-c-i)) - math.Log(float64(n-i))
}

// LogSigmoid returns log(1/(1+exp(-z))) without overflow for large |z|.
func LogSigmoid(z float64) float64 {
	if z >= 0 {
		return -math.Log1p(math.Exp(-z))
	}
	return z - math.Log1p(math.Exp(z))
}

// Sigmoid returns 1/(1+exp(-z)).
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Logit returns log(p/(1-p)) for p in (0,1).
func Logit(p float64) float64 {
	return math.Log(p) - math.Log1p(-p)
}
