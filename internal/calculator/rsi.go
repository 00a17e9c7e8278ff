package calculator

import "math"

// CalculateRSI computes the RSI column over the given period using simple
// trailing means of gains and losses (not Wilder smoothing):
//
//	rsi = 100 - 100/(1 + mean(gain)/mean(loss))
//
// The first delta is undefined, so the first period entries are NaN. A
// window with no losses yields 100 (the ratio is +Inf); a window with
// neither gains nor losses yields NaN (0/0).
func CalculateRSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < 2 {
		return out
	}

	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gains[i-1] = math.Max(delta, 0)
		losses[i-1] = math.Max(-delta, 0)
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)
	for i := range avgGain {
		rs := avgGain[i] / avgLoss[i]
		out[i+1] = 100 - 100/(1+rs)
	}
	return out
}
