package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA returns the trailing simple moving average of values over window,
// aligned with values. The first window-1 entries are NaN, as is every
// entry when values is shorter than window. values must not contain NaN.
//
// A window of identical values yields that value exactly, without the
// running-sum residue of talib.Sma.
func SMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sma := talib.Sma(values, window)
	copy(out[window-1:], sma[window-1:])

	run := 0
	for i, v := range values {
		if i > 0 && v == values[i-1] {
			run++
		} else {
			run = 1
		}
		if run >= window {
			out[i] = v
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
