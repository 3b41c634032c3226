package rarefaction

import (
	"context"
	"math"
	"testing"

	"godiv/domain/abundance"
	"godiv/domain/core"
)

func TestCompute_ConcreteScenario(t *testing.T) {
	// [10,1,1,1,1]: n = 14, K = 5, final value must be exactly K.
	vec := abundance.MustNew([]int{10, 1, 1, 1, 1})
	rc, err := Compute(context.Background(), vec, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rc.Len() != 14 {
		t.Fatalf("curve length = %d, want 14", rc.Len())
	}
	if got := rc.Final(); got != 5 {
		t.Errorf("final value = %v, want 5", got)
	}
	if !rc.NonDecreasing() {
		t.Error("curve must be non-decreasing")
	}
	// Depth 1 always finds exactly one species.
	if got := rc.At(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("value at depth 1 = %v, want 1", got)
	}
}

func TestCompute_MatchesDirectFormula(t *testing.T) {
	// Cross-check the recurrence against direct binomial evaluation on a
	// sample small enough for exact arithmetic.
	counts := []int{4, 2, 1}
	vec := abundance.MustNew(counts)
	n := vec.Abundance()

	rc, err := Compute(context.Background(), vec, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	choose := func(n, k int) float64 {
		if k < 0 || k > n {
			return 0
		}
		v := 1.0
		for j := 1; j <= k; j++ {
			v *= float64(n - k + j)
			v /= float64(j)
		}
		return v
	}

	for i := 1; i <= n; i++ {
		want := float64(len(counts))
		for _, c := range counts {
			want -= choose(n-c, i) / choose(n, i)
		}
		if got := rc.At(i); math.Abs(got-want) > 1e-9 {
			t.Errorf("depth %d: got %v, want %v", i, got, want)
		}
	}
}

func TestCompute_SingleSpecies(t *testing.T) {
	vec := abundance.MustNew([]int{7})
	rc, err := Compute(context.Background(), vec, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i := 1; i <= 7; i++ {
		if got := rc.At(i); got != 1 {
			t.Errorf("depth %d = %v, want constant 1", i, got)
		}
	}
}

func TestCompute_EmptyVector(t *testing.T) {
	rc, err := Compute(context.Background(), abundance.Vector{}, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if rc.Len() != 0 {
		t.Errorf("expected empty curve, got length %d", rc.Len())
	}
}

func TestCompute_ProgressIsObservational(t *testing.T) {
	vec := abundance.MustNew([]int{5, 3, 2, 1, 1})

	plain, err := Compute(context.Background(), vec, Options{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	calls := 0
	observed, err := Compute(context.Background(), vec, Options{
		Progress: func(done, total int) {
			calls++
			if total != vec.Abundance() {
				t.Errorf("progress total = %d, want %d", total, vec.Abundance())
			}
		},
	})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if calls != vec.Abundance() {
		t.Errorf("progress calls = %d, want %d", calls, vec.Abundance())
	}
	for i := range plain {
		if plain[i] != observed[i] {
			t.Fatal("progress reporting must not change the output")
		}
	}
}

func TestCompute_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compute(ctx, abundance.MustNew([]int{5, 3, 2}), Options{})
	if !core.IsCancelled(err) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}
