package calculator

import (
	"math"

	"AssetAnalyzer/internal/model"
)

// fibRatios are the retracement ratios measured down from the highest close.
var fibRatios = []struct {
	Label string
	Ratio float64
}{
	{"0.0%", 0},
	{"23.6%", 0.236},
	{"38.2%", 0.382},
	{"50.0%", 0.5},
	{"61.8%", 0.618},
	{"100.0%", 1},
}

// FibonacciLevels derives retracement levels from the max and min close.
// 0.0% is the max close and 100.0% the min close exactly. An empty series
// yields no levels.
func FibonacciLevels(series *model.Series) model.FibonacciLevels {
	if series.Empty() {
		return nil
	}
	high := math.Inf(-1)
	low := math.Inf(1)
	for _, b := range series.Bars {
		if b.Close > high {
			high = b.Close
		}
		if b.Close < low {
			low = b.Close
		}
	}
	diff := high - low

	levels := make(model.FibonacciLevels, len(fibRatios))
	for i, r := range fibRatios {
		price := high - r.Ratio*diff
		switch r.Ratio {
		case 0:
			price = high
		case 1:
			price = low
		}
		levels[i] = model.FibonacciLevel{Label: r.Label, Ratio: r.Ratio, Price: price}
	}
	return levels
}
