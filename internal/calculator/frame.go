package calculator

import "AssetAnalyzer/internal/model"

const (
	rsiPeriod = 14

	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// FinancialVolume returns volume*close per bar. A series without a volume
// column yields zeros.
func FinancialVolume(series *model.Series) []float64 {
	out := make([]float64, series.Len())
	for i, v := range series.Volumes() {
		out[i] = v * series.Bars[i].Close
	}
	return out
}

// ComputeFrame computes every indicator column for series. It does not
// modify series.
func ComputeFrame(series *model.Series) *model.IndicatorFrame {
	closes := series.Closes()
	macd, signal := MACD(closes, macdFast, macdSlow, macdSignal)

	return &model.IndicatorFrame{
		Series:          series,
		MA21:            SMA(closes, 21),
		MA200:           SMA(closes, 200),
		EMA17:           EMA(closes, 17),
		EMA72:           EMA(closes, 72),
		EMA305:          EMA(closes, 305),
		RSI:             CalculateRSI(closes, rsiPeriod),
		MACD:            macd,
		Signal:          signal,
		FinancialVolume: FinancialVolume(series),
	}
}
