package ssm

import (
	"math"

	"godiv/domain/core"
	"godiv/domain/curve"
	"godiv/stats/special"
)

// Rarefaction returns the model-based expected accumulation curve
// E(K_i) for i = 1..n, the mean of the absorbing birth process
// K_{i+1} = K_i + Bernoulli((alpha + sigma*K_i)/(alpha + i)):
//
//	sigma > 0: E(K_i) = (alpha/sigma) * ((alpha+sigma)_i / (alpha)_i - 1)
//	sigma = 0: E(K_i) = alpha * (psi(alpha+i) - psi(alpha))
//
// The Pochhammer ratio is accumulated incrementally in log space, one
// multiplicative step per depth.
func (m *Model) Rarefaction() curve.Rarefaction {
	n := m.data.Abundance()
	out := make(curve.Rarefaction, n)

	if m.dirichletLimit() {
		base := special.Digamma(m.alpha)
		for i := 1; i <= n; i++ {
			out[i-1] = m.alpha * (special.Digamma(m.alpha+float64(i)) - base)
		}
		return out
	}

	logRatio := 0.0 // log((alpha+sigma)_i / (alpha)_i)
	for i := 1; i <= n; i++ {
		t := float64(i - 1)
		logRatio += math.Log(m.alpha+m.sigma+t) - math.Log(m.alpha+t)
		out[i-1] = m.alpha / m.sigma * math.Expm1(logRatio)
	}
	return out
}

// ExtrapolateAt returns E(K_{n+m} | K_n = k) for a single number of
// additional observations m >= 0. At m = 0 the expectation is exactly the
// observed richness k; the species-sampling prior has infinitely many
// species, so the value grows without bound in m. Negative m is invalid.
func (m *Model) ExtrapolateAt(extra int) (float64, error) {
	if extra < 0 {
		return 0, core.NewInvalidInputError("additional sample count must be >= 0")
	}
	n := float64(m.data.Abundance())
	k := float64(m.data.Richness())
	if extra == 0 {
		return k, nil
	}

	if m.dirichletLimit() {
		return k + m.alpha*(special.Digamma(m.alpha+n+float64(extra))-special.Digamma(m.alpha+n)), nil
	}

	logRatio := special.LogPochhammer(m.alpha+n+m.sigma, float64(extra)) -
		special.LogPochhammer(m.alpha+n, float64(extra))
	return k + (k+m.alpha/m.sigma)*math.Expm1(logRatio), nil
}

// Extrapolate returns the expected richness after m = 1..horizon additional
// observations as an ordered curve. The value at each m restates
// ExtrapolateAt(m), so partial consumption and restarts are free.
func (m *Model) Extrapolate(horizon int) (curve.Extrapolation, error) {
	if horizon < 1 {
		return nil, core.NewInvalidInputError("extrapolation horizon must be >= 1")
	}
	n := float64(m.data.Abundance())
	k := float64(m.data.Richness())

	out := make(curve.Extrapolation, horizon)
	if m.dirichletLimit() {
		base := special.Digamma(m.alpha + n)
		for j := 1; j <= horizon; j++ {
			out[j-1] = k + m.alpha*(special.Digamma(m.alpha+n+float64(j))-base)
		}
		return out, nil
	}

	logRatio := 0.0 // log((alpha+n+sigma)_j / (alpha+n)_j)
	for j := 1; j <= horizon; j++ {
		t := n + float64(j-1)
		logRatio += math.Log(m.alpha+m.sigma+t) - math.Log(m.alpha+t)
		out[j-1] = k + (k+m.alpha/m.sigma)*math.Expm1(logRatio)
	}
	return out, nil
}
