package model

import (
	"math"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	AdjClose float64 // only meaningful when Series.HasAdjClose is set
}

// Complete reports whether every price field holds a finite value.
func (b OHLCV) Complete() bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Consistent reports whether low <= {open, close} <= high.
func (b OHLCV) Consistent() bool {
	return b.Low <= b.High &&
		b.Low <= b.Open && b.Open <= b.High &&
		b.Low <= b.Close && b.Close <= b.High
}

// Series is an ordered run of bars for one ticker at one interval.
// Timestamps are strictly increasing. An empty series means "no data found".
type Series struct {
	Ticker      string
	Interval    string
	Bars        []OHLCV
	HasVolume   bool
	HasAdjClose bool
}

// Len returns the number of bars.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Empty reports whether the series has no bars.
func (s *Series) Empty() bool { return s.Len() == 0 }

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the volume column. An absent volume column yields zeros.
func (s *Series) Volumes() []float64 {
	vols := make([]float64, s.Len())
	if !s.HasVolume {
		return vols
	}
	for i, b := range s.Bars {
		vols[i] = b.Volume
	}
	return vols
}

// Last returns the most recent bar.
func (s *Series) Last() (OHLCV, bool) {
	if s.Empty() {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
