package model

import "math"

// IndicatorFrame holds a series together with its computed columns.
// Every column is aligned index-for-index with Series.Bars; undefined
// values (lookback not yet satisfied) are NaN.
type IndicatorFrame struct {
	Series *Series

	MA21   []float64
	MA200  []float64
	EMA17  []float64
	EMA72  []float64
	EMA305 []float64

	RSI    []float64
	MACD   []float64
	Signal []float64

	FinancialVolume []float64
}

// FrameRow is one row of an IndicatorFrame.
type FrameRow struct {
	Bar             OHLCV
	MA21            float64
	MA200           float64
	EMA17           float64
	EMA72           float64
	EMA305          float64
	RSI             float64
	MACD            float64
	Signal          float64
	FinancialVolume float64
}

// Len returns the number of rows.
func (f *IndicatorFrame) Len() int {
	if f == nil {
		return 0
	}
	return f.Series.Len()
}

// Row returns row i.
func (f *IndicatorFrame) Row(i int) FrameRow {
	return FrameRow{
		Bar:             f.Series.Bars[i],
		MA21:            f.MA21[i],
		MA200:           f.MA200[i],
		EMA17:           f.EMA17[i],
		EMA72:           f.EMA72[i],
		EMA305:          f.EMA305[i],
		RSI:             f.RSI[i],
		MACD:            f.MACD[i],
		Signal:          f.Signal[i],
		FinancialVolume: f.FinancialVolume[i],
	}
}

// Head returns up to n leading rows.
func (f *IndicatorFrame) Head(n int) []FrameRow {
	if n > f.Len() {
		n = f.Len()
	}
	if n <= 0 {
		return nil
	}
	rows := make([]FrameRow, n)
	for i := range rows {
		rows[i] = f.Row(i)
	}
	return rows
}

// LatestRSI returns the RSI of the most recent point, NaN when the frame is empty.
func (f *IndicatorFrame) LatestRSI() float64 {
	if f.Len() == 0 {
		return math.NaN()
	}
	return f.RSI[len(f.RSI)-1]
}

// FibonacciLevel is a single retracement level.
type FibonacciLevel struct {
	Label string
	Ratio float64
	Price float64
}

// FibonacciLevels is ordered from 0.0% (max close) to 100.0% (min close).
type FibonacciLevels []FibonacciLevel

// Map returns the levels keyed by label.
func (l FibonacciLevels) Map() map[string]float64 {
	m := make(map[string]float64, len(l))
	for _, lvl := range l {
		m[lvl.Label] = lvl.Price
	}
	return m
}
