// Package abundance holds the sample data model shared by every inference
// engine: a vector of per-species observation counts and the model-free
// estimators computed directly from it.
package abundance

import (
	"godiv/domain/core"
)

// Vector is an immutable multiset of per-species abundance counts.
// Every stored count is >= 1; zero and negative counts are filtered at
// construction. The zero value is an empty vector and is not usable.
type Vector struct {
	counts   []int
	total    int // n, number of observed individuals
	richness int // K, number of observed species
}

// New builds a Vector from raw counts, silently dropping non-positive
// entries. If nothing positive remains the input is invalid.
func New(raw []int) (Vector, error) {
	counts := make([]int, 0, len(raw))
	total := 0
	for _, c := range raw {
		if c <= 0 {
			continue
		}
		counts = append(counts, c)
		total += c
	}
	if len(counts) == 0 {
		return Vector{}, core.ErrEmptyAbundance
	}
	return Vector{counts: counts, total: total, richness: len(counts)}, nil
}

// MustNew is New for literals in tests and examples; it panics on error.
func MustNew(raw []int) Vector {
	v, err := New(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Counts returns a copy of the per-species counts in input order.
func (v Vector) Counts() []int {
	out := make([]int, len(v.counts))
	copy(out, v.counts)
	return out
}

// Abundance returns n, the total number of observed individuals.
func (v Vector) Abundance() int { return v.total }

// Richness returns K, the number of distinct observed species.
func (v Vector) Richness() int { return v.richness }

// IsEmpty reports whether the vector holds no counts (zero value).
func (v Vector) IsEmpty() bool { return v.richness == 0 }

// Frequencies tabulates the frequency-of-frequencies: for each count value r
// present in the sample, the number of species observed exactly r times.
func (v Vector) Frequencies() map[int]int {
	freq := make(map[int]int)
	for _, c := range v.counts {
		freq[c]++
	}
	return freq
}

// Singletons returns m1, the number of species observed exactly once.
func (v Vector) Singletons() int {
	return v.Frequencies()[1]
}

// Coverage returns the Turing-Good sample coverage estimate 1 - m1/n:
// the estimated fraction of the population's species proportions already
// represented in the sample. With no singletons the estimate is exactly 1.
func (v Vector) Coverage() float64 {
	return 1 - float64(v.Singletons())/float64(v.total)
}

// GiniSimpson returns the unbiased sample estimate of the Gini-Simpson
// index, the probability that two individuals drawn without replacement
// belong to different species.
func (v Vector) GiniSimpson() float64 {
	n := float64(v.total)
	if v.total < 2 {
		return 0
	}
	same := 0.0
	for _, c := range v.counts {
		same += float64(c) * float64(c-1)
	}
	return 1 - same/(n*(n-1))
}
