// Package rarefaction computes the exact model-free rarefaction curve of an
// abundance vector: for every subsample depth i, the expected number of
// distinct species in a uniform random subsample of i individuals drawn
// without replacement.
package rarefaction

import (
	"context"
	"math"

	"godiv/domain/abundance"
	"godiv/domain/core"
	"godiv/domain/curve"
	"godiv/stats/special"
)

// Progress observes long-running curve computation. It is called once per
// sample depth with (completed, total) and must not block; it never alters
// the result.
type Progress func(completed, total int)

// Options configures a curve computation. The zero value is valid.
type Options struct {
	Progress Progress
}

// Compute returns the exact expected accumulation curve
//
//	K̄_i = K - C(n,i)^-1 * Σ_j C(n-n_j, i),  i = 1..n
//
// evaluated through an incremental log-space recurrence: the absence
// probability of species j at depth i+1 is its value at depth i times
// (n-n_j-i)/(n-i), so the whole curve costs one O(n·K) pass with no
// binomial-coefficient evaluation and no overflow. Cancellation is checked
// once per depth; a cancelled call returns core.ErrCancelled and no curve.
//
// Cost is explicitly O(n·K); callers own any size limits.
func Compute(ctx context.Context, vec abundance.Vector, opt Options) (curve.Rarefaction, error) {
	if vec.IsEmpty() {
		return curve.Rarefaction{}, nil
	}

	n := vec.Abundance()
	k := vec.Richness()
	counts := vec.Counts()

	// logAbsent[j] carries log P(species j absent from a subsample of the
	// current depth). At depth 0 every species is absent with probability 1.
	logAbsent := make([]float64, k)
	alive := make([]bool, k)
	for j := range alive {
		alive[j] = true
	}

	out := make(curve.Rarefaction, n)
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil, core.NewCancelledError("rarefaction", ctx.Err())
		default:
		}

		expectedAbsent := 0.0
		for j, c := range counts {
			if !alive[j] {
				continue
			}
			if i >= n-c {
				// Depth exceeds n-n_j: the species can no longer be missed.
				alive[j] = false
				continue
			}
			logAbsent[j] += special.LogChooseRatioStep(n, c, i)
			expectedAbsent += math.Exp(logAbsent[j])
		}
		out[i] = float64(k) - expectedAbsent

		if opt.Progress != nil {
			opt.Progress(i+1, n)
		}
	}

	// Guard against accumulated rounding: the full sample always contains
	// every observed species.
	out[n-1] = float64(k)
	return out, nil
}
