package ssm

import (
	"math"

	"godiv/domain/abundance"
	"godiv/stats/special"
)

// LogLikelihood evaluates the exchangeable partition log-likelihood
//
//	log L(alpha, sigma) = Σ_{j=1}^{K-1} log(alpha + j*sigma)
//	                    - log (alpha+1)_{n-1}
//	                    + Σ_j log (1-sigma)_{n_j - 1}
//
// for the partition induced by the abundance vector. Parameters outside the
// valid domain (alpha <= -sigma, sigma outside [0,1)) score -Inf, which
// lets the optimizer treat the domain boundary as a likelihood cliff.
func LogLikelihood(vec abundance.Vector, alpha, sigma float64) float64 {
	if sigma < 0 || sigma >= 1 || alpha <= -sigma {
		return math.Inf(-1)
	}

	n := float64(vec.Abundance())
	k := vec.Richness()

	ll := 0.0
	for j := 1; j < k; j++ {
		t := alpha + float64(j)*sigma
		if t <= 0 {
			return math.Inf(-1)
		}
		ll += math.Log(t)
	}
	ll -= special.LogPochhammer(alpha+1, n-1)
	for _, c := range vec.Counts() {
		ll += special.LogPochhammer(1-sigma, float64(c-1))
	}
	return ll
}
