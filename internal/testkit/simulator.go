// Package testkit provides deterministic data generators for tests and
// demos: forward samplers for the species-sampling and discovery processes
// and a small bundled example dataset.
package testkit

import (
	"math"
	"math/rand/v2"
)

// SimulatePitmanYor draws an abundance vector by running the Pitman-Yor
// prediction rule forward for n individuals: a new species appears with
// probability (alpha + sigma*K)/(alpha + i), an existing species j with
// probability proportional to n_j - sigma.
func SimulatePitmanYor(alpha, sigma float64, n int, src rand.Source) []int {
	rng := rand.New(src)
	var counts []int
	for i := 0; i < n; i++ {
		k := float64(len(counts))
		pNew := (alpha + sigma*k) / (alpha + float64(i))
		if rng.Float64() < pNew {
			counts = append(counts, 1)
			continue
		}
		// Existing species j with weight n_j - sigma.
		total := float64(i) - sigma*k
		u := rng.Float64() * total
		acc := 0.0
		for j := range counts {
			acc += float64(counts[j]) - sigma
			if u < acc {
				counts[j]++
				break
			}
		}
	}
	return counts
}

// SimulateLL3Discoveries draws a Bernoulli discovery-indicator sequence of
// length n from the three-parameter log-logistic survival kernel
// S(i) = alpha*phi^i / (alpha*phi^i + i^(1-sigma)), with the first
// indicator fixed to 1.
func SimulateLL3Discoveries(alpha, sigma, phi float64, n int, src rand.Source) []float64 {
	rng := rand.New(src)
	out := make([]float64, n)
	out[0] = 1
	for i := 2; i <= n; i++ {
		t := float64(i - 1)
		num := alpha * math.Pow(phi, t)
		s := num / (num + math.Pow(t, 1-sigma))
		if rng.Float64() < s {
			out[i-1] = 1
		}
	}
	return out
}

// ExampleAbundance is a small realistic abundance vector (per-species
// counts from a forest fungal survey style sample) for demos and smoke
// tests: n = 243 individuals over K = 34 species.
func ExampleAbundance() []int {
	return []int{
		52, 31, 24, 19, 17, 13, 11, 9, 8, 7,
		6, 6, 5, 4, 4, 3, 3, 2, 2, 2,
		2, 1, 1, 1, 1, 1, 1, 1, 1, 1,
		1, 1, 1, 1,
	}
}
