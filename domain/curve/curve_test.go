package curve

import "testing"

func TestRarefactionHelpers(t *testing.T) {
	r := Rarefaction{1, 1.8, 2.4, 2.9}
	if !r.NonDecreasing() {
		t.Error("expected non-decreasing")
	}
	if r.Final() != 2.9 {
		t.Errorf("final = %v, want 2.9", r.Final())
	}
	if r.At(2) != 1.8 {
		t.Errorf("At(2) = %v, want 1.8", r.At(2))
	}
}

func TestIncrements(t *testing.T) {
	r := Rarefaction{1, 1.5, 1.75}
	inc := r.Increments()
	want := []float64{1, 0.5, 0.25}
	for i := range want {
		if inc[i] != want[i] {
			t.Errorf("increment[%d] = %v, want %v", i, inc[i], want[i])
		}
	}

	if Rarefaction(nil).Increments() != nil {
		t.Error("empty curve must yield nil increments")
	}
}

func TestExtrapolationHelpers(t *testing.T) {
	e := Extrapolation{5.2, 5.9, 6.1}
	if !e.NonDecreasing() {
		t.Error("expected non-decreasing")
	}
	if e.At(3) != 6.1 || e.Final() != 6.1 {
		t.Error("At/Final disagree with the underlying slice")
	}

	down := Extrapolation{2, 1}
	if down.NonDecreasing() {
		t.Error("decreasing curve must be flagged")
	}
}
