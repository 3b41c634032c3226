package sdm

import (
	"context"
	"math/rand/v2"

	"godiv/domain/core"
)

// Progress observes Monte Carlo sampling. It is called once per replicate
// with (completed, total) and must not block; it never alters the result.
type Progress func(completed, total int)

// AsymptoteSamples draws the posterior asymptotic richness by simulating
// the discovery Bernoulli sequence forward from position n under the
// fitted kernel. Each path terminates once the survival probability drops
// below the negligibility threshold. Cancellation is checked once per
// replicate.
func (m *Model) AsymptoteSamples(ctx context.Context, count int, src rand.Source, progress Progress) ([]float64, error) {
	if count < 1 {
		return nil, core.NewInvalidInputError("sample count must be >= 1")
	}
	rng := rand.New(src)
	n := len(m.discoveries)
	k := m.Richness()

	out := make([]float64, count)
	for rep := 0; rep < count; rep++ {
		select {
		case <-ctx.Done():
			return nil, core.NewCancelledError("asymptote sampling", ctx.Err())
		default:
		}

		total := k
		for t, terms := n, 0; terms < maxTailTerms; t, terms = t+1, terms+1 {
			s := m.survival(t)
			if s < tailTol {
				break
			}
			if rng.Float64() < s {
				total++
			}
		}
		out[rep] = total

		if progress != nil {
			progress(rep+1, count)
		}
	}
	return out, nil
}

// SaturationSamples draws the posterior saturation ratio K_n / K_inf as the
// empirical distribution of the observed richness over simulated
// asymptotic totals.
func (m *Model) SaturationSamples(ctx context.Context, count int, src rand.Source, progress Progress) ([]float64, error) {
	samples, err := m.AsymptoteSamples(ctx, count, src, progress)
	if err != nil {
		return nil, err
	}
	k := m.Richness()
	for i, total := range samples {
		samples[i] = k / total
	}
	return samples, nil
}
