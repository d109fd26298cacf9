package render

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Display-range estimation for astronomical images. Three tiers, each
// accepted only when it yields finite, distinct bounds:
//  1. ZScale-style iterative outlier trimming,
//  2. 1st/99th percentile of finite samples,
//  3. finite min/max, patched so the result is never degenerate.
//
// The final tier guarantees max > min even for all-zero or all-NaN input,
// which the stretch and raster code rely on.

const (
	zscaleNSamples      = 1000
	zscaleContrast      = 0.25
	zscaleMaxReject     = 0.5
	zscaleMinNPixels    = 5
	zscaleKRej          = 2.5
	zscaleMaxIterations = 5
)

// DisplayRange resolves the intensity bounds used for rasterization.
func DisplayRange(samples []float64) (lo, hi float64) {
	if lo, hi, ok := zscaleRange(samples); ok {
		return lo, hi
	}
	if lo, hi, ok := percentileRange(samples); ok {
		return lo, hi
	}
	return minMaxRange(samples)
}

// zscaleRange ports the classic IRAF/astropy ZScale interval: subsample,
// sort, fit a line through the sorted values with sigma clipping, and expand
// the slope around the median by the contrast factor.
func zscaleRange(samples []float64) (lo, hi float64, ok bool) {
	finite := finiteValues(samples)
	if len(finite) < zscaleMinNPixels {
		return 0, 0, false
	}
	stride := 1
	if len(finite) > zscaleNSamples {
		stride = len(finite) / zscaleNSamples
	}
	s := make([]float64, 0, zscaleNSamples)
	for i := 0; i < len(finite); i += stride {
		s = append(s, finite[i])
	}
	sort.Float64s(s)

	npix := len(s)
	zmin := s[0]
	zmax := s[npix-1]
	median := s[npix/2]

	minGood := zscaleMinNPixels
	if m := int(zscaleMaxReject * float64(npix)); m > minGood {
		minGood = m
	}

	bad := make([]bool, npix)
	nGood := npix
	lastNGood := npix + 1
	var slope float64
	for iter := 0; iter < zscaleMaxIterations && nGood < lastNGood && nGood >= minGood; iter++ {
		lastNGood = nGood
		var a, b float64
		a, b, ok = fitLine(s, bad)
		if !ok {
			break
		}
		slope = b
		// Clip residuals beyond krej sigma.
		var sum, sum2 float64
		for i, v := range s {
			if bad[i] {
				continue
			}
			r := v - (a + b*float64(i))
			sum += r
			sum2 += r * r
		}
		mean := sum / float64(nGood)
		sigma := math.Sqrt(sum2/float64(nGood) - mean*mean)
		threshold := zscaleKRej * sigma
		if threshold <= 0 {
			break
		}
		clipped := 0
		for i, v := range s {
			if bad[i] {
				continue
			}
			if math.Abs(v-(a+b*float64(i))) > threshold {
				bad[i] = true
				clipped++
			}
		}
		if clipped == 0 {
			break
		}
		nGood -= clipped
	}

	if nGood >= minGood && slope != 0 {
		center := npix / 2
		m := slope / zscaleContrast
		lo = math.Max(zmin, median-float64(center)*m)
		hi = math.Min(zmax, median+float64(npix-1-center)*m)
	} else {
		lo, hi = zmin, zmax
	}
	ok = isFinite(lo) && isFinite(hi) && lo != hi
	return lo, hi, ok
}

// fitLine least-squares fits value = a + b*index over the unmasked points.
func fitLine(s []float64, bad []bool) (a, b float64, ok bool) {
	var n, sx, sy, sxx, sxy float64
	for i, v := range s {
		if bad[i] {
			continue
		}
		x := float64(i)
		n++
		sx += x
		sy += v
		sxx += x * x
		sxy += x * v
	}
	det := n*sxx - sx*sx
	if n < 2 || det == 0 {
		return 0, 0, false
	}
	b = (n*sxy - sx*sy) / det
	a = (sy - b*sx) / n
	return a, b, true
}

// percentileRange is the 1st/99th percentile of finite samples.
func percentileRange(samples []float64) (lo, hi float64, ok bool) {
	finite := finiteValues(samples)
	if len(finite) == 0 {
		return 0, 0, false
	}
	sort.Float64s(finite)
	lo = stat.Quantile(0.01, stat.LinInterp, finite, nil)
	hi = stat.Quantile(0.99, stat.LinInterp, finite, nil)
	ok = isFinite(lo) && isFinite(hi) && lo != hi
	return lo, hi, ok
}

// minMaxRange is the last-resort tier: finite min/max with the minimum
// replaced by 0 when non-finite and the maximum forced above the minimum.
func minMaxRange(samples []float64) (lo, hi float64) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, v := range samples {
		if !isFinite(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if !isFinite(lo) {
		lo = 0
	}
	if !isFinite(hi) || hi == lo {
		hi = lo + 1e-6
	}
	return lo, hi
}

func finiteValues(samples []float64) []float64 {
	out := make([]float64, 0, len(samples))
	for _, v := range samples {
		if isFinite(v) {
			out = append(out, v)
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Stretch selects the intensity mapping applied before rasterization.
type Stretch int

const (
	StretchLinear Stretch = iota
	StretchAsinh
)

// asinh softening factor matching the usual astronomical display default.
const asinhA = 0.1

// applyStretch maps an intensity into [0, 1] under the given range.
func applyStretch(v, lo, hi float64, s Stretch) float64 {
	if !isFinite(v) {
		v = lo
	}
	x := 0.0
	if hi > lo {
		x = (v - lo) / (hi - lo)
	}
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	if s == StretchAsinh {
		return math.Asinh(x/asinhA) / math.Asinh(1/asinhA)
	}
	return x
}
