// Package curve defines the ordered numeric sequences produced by the
// inference engines. They are plain slices with invariant helpers so that
// plotting and reporting collaborators can consume them directly.
package curve

// Rarefaction is the expected distinct-species count at each sample depth
// i = 1..n. Index 0 holds depth 1.
type Rarefaction []float64

// Len returns the number of sample depths covered.
func (r Rarefaction) Len() int { return len(r) }

// At returns the expected richness at 1-based depth i.
func (r Rarefaction) At(i int) float64 { return r[i-1] }

// Final returns the expected richness at full sample depth, or 0 for an
// empty curve.
func (r Rarefaction) Final() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1]
}

// NonDecreasing reports whether the curve never steps downward.
func (r Rarefaction) NonDecreasing() bool {
	for i := 1; i < len(r); i++ {
		if r[i] < r[i-1] {
			return false
		}
	}
	return true
}

// Increments returns the per-step expected discovery gains
// r[i] - r[i-1], with the first entry fixed to 1 (the first individual is
// always a new species). This is the surrogate discovery-indicator sequence
// consumed by the sequential discovery model.
func (r Rarefaction) Increments() []float64 {
	if len(r) == 0 {
		return nil
	}
	inc := make([]float64, len(r))
	inc[0] = 1
	for i := 1; i < len(r); i++ {
		inc[i] = r[i] - r[i-1]
	}
	return inc
}

// Extrapolation is the expected distinct-species count after m = 1..M
// additional observations beyond the current sample. Index 0 holds m = 1.
type Extrapolation []float64

// Len returns M, the number of additional-sample depths covered.
func (e Extrapolation) Len() int { return len(e) }

// At returns the expected richness after 1-based additional depth m.
func (e Extrapolation) At(m int) float64 { return e[m-1] }

// Final returns the last extrapolated value, or 0 for an empty curve.
func (e Extrapolation) Final() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1]
}

// NonDecreasing reports whether the curve never steps downward.
func (e Extrapolation) NonDecreasing() bool {
	for i := 1; i < len(e); i++ {
		if e[i] < e[i-1] {
			return false
		}
	}
	return true
}
