package render

import (
	"math"
	"testing"
)

func TestDisplayRangeUniform(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = 3.5
	}
	lo, hi := DisplayRange(samples)
	if lo != 3.5 {
		t.Fatalf("lo = %g, want 3.5", lo)
	}
	if hi <= lo {
		t.Fatalf("hi = %g, want > %g", hi, lo)
	}
	if hi-lo > 1e-5 {
		t.Fatalf("hi-lo = %g, expected the minimal epsilon", hi-lo)
	}
}

func TestDisplayRangeAllNaN(t *testing.T) {
	samples := make([]float64, 50)
	for i := range samples {
		samples[i] = math.NaN()
	}
	lo, hi := DisplayRange(samples)
	if lo != 0 {
		t.Fatalf("lo = %g, want 0", lo)
	}
	if hi <= lo {
		t.Fatalf("hi = %g, want > 0", hi)
	}
}

func TestDisplayRangeEmpty(t *testing.T) {
	lo, hi := DisplayRange(nil)
	if lo != 0 || hi <= lo {
		t.Fatalf("range = (%g, %g), want (0, >0)", lo, hi)
	}
}

func TestDisplayRangeGradient(t *testing.T) {
	samples := make([]float64, 10000)
	for i := range samples {
		samples[i] = float64(i)
	}
	lo, hi := DisplayRange(samples)
	if !isFinite(lo) || !isFinite(hi) {
		t.Fatalf("range = (%g, %g), want finite", lo, hi)
	}
	if hi <= lo {
		t.Fatalf("range = (%g, %g), want hi > lo", lo, hi)
	}
	if lo < 0 || hi > 9999 {
		t.Fatalf("range = (%g, %g), want within data bounds", lo, hi)
	}
}

func TestDisplayRangeIgnoresNonFinite(t *testing.T) {
	samples := []float64{1, 2, 3, math.Inf(1), math.NaN(), 4, 5, 6, 7, 8}
	lo, hi := DisplayRange(samples)
	if !isFinite(lo) || !isFinite(hi) {
		t.Fatalf("range = (%g, %g), want finite", lo, hi)
	}
	if lo < 1 || hi > 8 {
		t.Fatalf("range = (%g, %g), want within [1, 8]", lo, hi)
	}
}

func TestApplyStretchEndpoints(t *testing.T) {
	for _, s := range []Stretch{StretchLinear, StretchAsinh} {
		if got := applyStretch(0, 0, 1, s); got != 0 {
			t.Errorf("stretch %v at lo = %g, want 0", s, got)
		}
		if got := applyStretch(1, 0, 1, s); got != 1 {
			t.Errorf("stretch %v at hi = %g, want 1", s, got)
		}
		if got := applyStretch(-5, 0, 1, s); got != 0 {
			t.Errorf("stretch %v below lo = %g, want 0", s, got)
		}
		if got := applyStretch(5, 0, 1, s); got != 1 {
			t.Errorf("stretch %v above hi = %g, want 1", s, got)
		}
	}
}

func TestApplyStretchMonotone(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 100; i++ {
		v := float64(i) / 100
		got := applyStretch(v, 0, 1, StretchAsinh)
		if got < prev {
			t.Fatalf("asinh stretch not monotone at %g: %g < %g", v, got, prev)
		}
		prev = got
	}
}

func TestApplyStretchCompressesHighlights(t *testing.T) {
	// asinh lifts the midtones relative to linear.
	lin := applyStretch(0.1, 0, 1, StretchLinear)
	as := applyStretch(0.1, 0, 1, StretchAsinh)
	if as <= lin {
		t.Fatalf("asinh(0.1) = %g, want > linear %g", as, lin)
	}
}

func TestApplyStretchNonFiniteMapsToLo(t *testing.T) {
	if got := applyStretch(math.NaN(), 2, 4, StretchLinear); got != 0 {
		t.Fatalf("NaN stretch = %g, want 0", got)
	}
}
