package sdm

import (
	"godiv/domain/core"
)

// Saturation returns the plug-in point estimate K_n / E(K_inf | K_n). This
// is deliberately the ratio of point estimates, not E(K_n / K_inf); the
// Monte Carlo distribution of the ratio is available from
// SaturationSamples. Always in (0, 1].
func (m *Model) Saturation() float64 {
	return m.saturation
}

// SampleToSaturation inverts the extrapolation formula: it returns the
// minimal number of additional observations m whose expected saturation
// E(K_{n+m}) / E(K_inf) reaches level. A level already achieved returns 0.
// Levels beyond what the fitted asymptote permits fail with
// core.ErrUnreachableTarget.
func (m *Model) SampleToSaturation(level float64) (int, error) {
	if level <= 0 || level > 1 {
		return 0, core.NewInvalidInputError("saturation level must lie in (0,1]")
	}

	target := level * m.asymptoteMean
	reached := m.Richness()
	if reached >= target {
		return 0, nil
	}

	n := len(m.discoveries)
	for extra, t := 1, n; extra <= maxTailTerms; extra, t = extra+1, t+1 {
		s := m.survival(t)
		if s < tailTol {
			// Survival mass exhausted before the requested level.
			return 0, core.NewUnreachableTargetError(level, reached/m.asymptoteMean)
		}
		reached += s
		if reached >= target {
			return extra, nil
		}
	}
	return 0, core.NewUnreachableTargetError(level, reached/m.asymptoteMean)
}
