package prioritize

import (
	"math"
	"sync"
)

// windowFactor converts series density (points per pixel) into a smoothing
// window size.
const windowFactor = 40

// kernels caches Gaussian kernels by window size.
var kernels sync.Map

// WindowSize returns the odd smoothing window for n points drawn across
// width pixels: round(n / width * 40), bumped up to the next odd number.
// The smallest window is 1, which leaves the series unchanged.
func WindowSize(n int, width float64) int {
	if n <= 0 || !(width > 0) {
		return 1
	}
	w := int(math.Round(float64(n) / width * windowFactor))
	if w < 1 {
		return 1
	}
	if w%2 == 0 {
		w++
	}
	return w
}

// kernel returns unnormalised Gaussian weights for an odd window. The
// standard deviation is half the window radius.
func kernel(window int) []float64 {
	if k, ok := kernels.Load(window); ok {
		return k.([]float64)
	}

	r := (window - 1) / 2
	k := make([]float64, window)
	if r == 0 {
		k[0] = 1
	} else {
		sigma := float64(r) / 2
		for i := range k {
			x := float64(i - r)
			k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		}
	}

	actual, _ := kernels.LoadOrStore(window, k)
	return actual.([]float64)
}

// Smooth returns a Gaussian-smoothed copy of values using a symmetric window
// of the given size. Even sizes are widened by one. Missing values stay
// missing and are left out of their neighbours' averages; each output is
// normalised by the kernel weight it actually covered, so the series edges
// are not pulled toward zero.
func Smooth(values []*float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	if window%2 == 0 {
		window++
	}

	k := kernel(window)
	r := (window - 1) / 2
	for i, v := range values {
		if v == nil {
			continue
		}
		var sum, wsum float64
		for j := -r; j <= r; j++ {
			idx := i + j
			if idx < 0 || idx >= len(values) || values[idx] == nil {
				continue
			}
			w := k[j+r]
			sum += w * *values[idx]
			wsum += w
		}
		s := sum / wsum
		out[i] = &s
	}
	return out
}
