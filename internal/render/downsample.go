package render

// MaxSeriesPoints caps how many table rows are plotted for one preview.
const MaxSeriesPoints = 50000

// DownsampleIndices selects an evenly spaced, deduplicated, strictly
// increasing subset of row indices. The first and last original indices are
// always retained, so the subset spans the full range.
func DownsampleIndices(n, max int) []int {
	if n <= 0 {
		return nil
	}
	if max <= 0 {
		max = 1
	}
	if n <= max {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	idx := make([]int, 0, max)
	step := float64(n-1) / float64(max-1)
	last := -1
	for i := 0; i < max; i++ {
		j := int(float64(i)*step + 0.5)
		if j > n-1 {
			j = n - 1
		}
		if j == last {
			continue
		}
		idx = append(idx, j)
		last = j
	}
	return idx
}

// sampleAt gathers the values at the given indices.
func sampleAt(values []float64, indices []int) []float64 {
	out := make([]float64, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(values) {
			out = append(out, values[i])
		}
	}
	return out
}
