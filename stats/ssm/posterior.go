package ssm

import (
	"context"
	"math/rand/v2"

	"godiv/domain/core"
	"godiv/stats/special"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Progress observes Monte Carlo sampling. It is called once per replicate
// with (completed, total) and must not block; it never alters the result.
type Progress func(completed, total int)

// CoverageMean returns the posterior mean of the sample coverage,
// E(C_n | data) = (n - sigma*K) / (alpha + n).
func (m *Model) CoverageMean() float64 {
	n := float64(m.data.Abundance())
	k := float64(m.data.Richness())
	return (n - m.sigma*k) / (m.alpha + n)
}

// CoverageSamples draws count i.i.d. draws from the exact posterior
// coverage law C_n | data ~ Beta(n - sigma*K, alpha + sigma*K).
// Cancellation is checked once per replicate.
func (m *Model) CoverageSamples(ctx context.Context, count int, src rand.Source, progress Progress) ([]float64, error) {
	if count < 1 {
		return nil, core.NewInvalidInputError("sample count must be >= 1")
	}
	n := float64(m.data.Abundance())
	k := float64(m.data.Richness())
	beta := distuv.Beta{
		Alpha: n - m.sigma*k,
		Beta:  m.alpha + m.sigma*k,
		Src:   src,
	}
	out := make([]float64, count)
	for i := range out {
		select {
		case <-ctx.Done():
			return nil, core.NewCancelledError("coverage sampling", ctx.Err())
		default:
		}
		out[i] = beta.Rand()
		if progress != nil {
			progress(i+1, count)
		}
	}
	return out, nil
}

// GiniMean returns the closed-form posterior mean of the Gini-Simpson
// diversity,
//
//	E(G | data) = 1 - [(1-sigma)(alpha+K*sigma) + Σ_j (n_j - sigma)_2] / (alpha+n)_2.
func (m *Model) GiniMean() float64 {
	n := float64(m.data.Abundance())
	k := float64(m.data.Richness())

	num := (1 - m.sigma) * (m.alpha + k*m.sigma)
	for _, c := range m.data.Counts() {
		num += special.Pochhammer2(float64(c) - m.sigma)
	}
	return 1 - num/special.Pochhammer2(m.alpha+n)
}

// giniTailMass is the stick-breaking truncation threshold: the unassigned
// tail probability below which further sticks cannot move the sum of
// squares by more than the threshold itself.
const giniTailMass = 1e-8

// GiniSamples draws from the posterior law of the Gini-Simpson diversity
// via the stick-breaking representation of the posterior random measure:
// weights over the K observed species and the unexplored mass follow
// Dirichlet(n_1-sigma, ..., n_K-sigma, alpha+K*sigma), and the unexplored
// mass is split by a Pitman-Yor(alpha+K*sigma, sigma) stick-breaking
// sequence truncated once its remaining mass is negligible. Cancellation
// is checked once per replicate.
func (m *Model) GiniSamples(ctx context.Context, count int, src rand.Source, progress Progress) ([]float64, error) {
	if count < 1 {
		return nil, core.NewInvalidInputError("sample count must be >= 1")
	}
	counts := m.data.Counts()
	k := len(counts)

	dirParam := make([]float64, k+1)
	for j, c := range counts {
		dirParam[j] = float64(c) - m.sigma
	}
	dirParam[k] = m.alpha + float64(k)*m.sigma

	dir := distmv.NewDirichlet(dirParam, src)
	rng := rand.New(src)

	weights := make([]float64, k+1)
	out := make([]float64, count)
	for i := range out {
		select {
		case <-ctx.Done():
			return nil, core.NewCancelledError("Gini sampling", ctx.Err())
		default:
		}

		dir.Rand(weights)

		sumSq := 0.0
		for j := 0; j < k; j++ {
			sumSq += weights[j] * weights[j]
		}
		tail := weights[k]
		sumSq += tail * tail * m.stickSumSquares(rng)

		out[i] = 1 - sumSq
		if progress != nil {
			progress(i+1, count)
		}
	}
	return out, nil
}

// stickSumSquares simulates Σ_h p_h^2 for one stick-breaking realization of
// the tail Pitman-Yor process PY(alpha + K*sigma, sigma).
func (m *Model) stickSumSquares(rng *rand.Rand) float64 {
	theta := m.alpha + float64(m.data.Richness())*m.sigma

	sumSq := 0.0
	remaining := 1.0
	for h := 1; remaining > giniTailMass; h++ {
		v := distuv.Beta{
			Alpha: 1 - m.sigma,
			Beta:  theta + float64(h)*m.sigma,
			Src:   rng,
		}.Rand()
		p := v * remaining
		sumSq += p * p
		remaining *= 1 - v
	}
	return sumSq
}
