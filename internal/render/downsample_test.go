package render

import "testing"

func TestDownsampleIdentityBelowCap(t *testing.T) {
	idx := DownsampleIndices(10, MaxSeriesPoints)
	if len(idx) != 10 {
		t.Fatalf("len = %d, want 10", len(idx))
	}
	for i, v := range idx {
		if v != i {
			t.Fatalf("idx[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestDownsampleCapsLength(t *testing.T) {
	idx := DownsampleIndices(200000, MaxSeriesPoints)
	if len(idx) > MaxSeriesPoints {
		t.Fatalf("len = %d, want <= %d", len(idx), MaxSeriesPoints)
	}
}

func TestDownsampleStrictlyIncreasingAndSpansRange(t *testing.T) {
	n := 123457
	idx := DownsampleIndices(n, 1000)
	if idx[0] != 0 {
		t.Fatalf("first = %d, want 0", idx[0])
	}
	if idx[len(idx)-1] != n-1 {
		t.Fatalf("last = %d, want %d", idx[len(idx)-1], n-1)
	}
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			t.Fatalf("idx[%d] = %d not greater than idx[%d] = %d", i, idx[i], i-1, idx[i-1])
		}
	}
}

func TestDownsampleEmpty(t *testing.T) {
	if idx := DownsampleIndices(0, 100); idx != nil {
		t.Fatalf("idx = %v, want nil", idx)
	}
}

func TestSampleAtSkipsOutOfRange(t *testing.T) {
	got := sampleAt([]float64{10, 20, 30}, []int{-1, 0, 2, 5})
	if len(got) != 2 || got[0] != 10 || got[1] != 30 {
		t.Fatalf("got %v, want [10 30]", got)
	}
}
