package sdm

import (
	"godiv/domain/core"
	"godiv/domain/curve"
)

// Rarefaction returns the model-based expected accumulation curve: under
// the fitted kernel K_i is Poisson-binomial with success probabilities
// S(0), ..., S(i-1), so E(K_i) = Σ_{t=0}^{i-1} S(t).
func (m *Model) Rarefaction() curve.Rarefaction {
	n := len(m.discoveries)
	out := make(curve.Rarefaction, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += m.survival(i)
		out[i] = sum
	}
	return out
}

// ExtrapolateAt returns E(K_{n+m} | K_n = k) = k + Σ_{t=n}^{n+m-1} S(t)
// for a single number of additional observations m >= 0.
func (m *Model) ExtrapolateAt(extra int) (float64, error) {
	if extra < 0 {
		return 0, core.NewInvalidInputError("additional sample count must be >= 0")
	}
	n := len(m.discoveries)
	total := m.Richness()
	for t := n; t < n+extra; t++ {
		total += m.survival(t)
	}
	return total, nil
}

// Extrapolate returns the expected richness after m = 1..horizon additional
// observations. The curve is non-decreasing and converges to
// AsymptoteMean as the horizon grows.
func (m *Model) Extrapolate(horizon int) (curve.Extrapolation, error) {
	if horizon < 1 {
		return nil, core.NewInvalidInputError("extrapolation horizon must be >= 1")
	}
	n := len(m.discoveries)
	out := make(curve.Extrapolation, horizon)
	total := m.Richness()
	for j := 0; j < horizon; j++ {
		total += m.survival(n + j)
		out[j] = total
	}
	return out, nil
}
