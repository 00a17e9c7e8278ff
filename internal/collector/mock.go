package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/timeframe"
)

// MockFetcher returns controllable fixed data for development and testing.
//
// PeriodData/RangeData (and PeriodErr/RangeErr) answer period and range
// queries respectively. When both data fields are nil and Price is set, a
// synthetic series covering the requested window is generated.
type MockFetcher struct {
	Price      float64
	PeriodData *model.Series
	RangeData  *model.Series
	PeriodErr  error
	RangeErr   error
	Now        func() time.Time

	mu      sync.Mutex
	queries []Query
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, q Query) (*model.Series, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()

	if q.IsRange() {
		if m.RangeErr != nil {
			return nil, m.RangeErr
		}
		if m.RangeData != nil {
			return m.RangeData, nil
		}
	} else {
		if m.PeriodErr != nil {
			return nil, m.PeriodErr
		}
		if m.PeriodData != nil {
			return m.PeriodData, nil
		}
	}
	if m.Price <= 0 || m.PeriodData != nil || m.RangeData != nil {
		return &model.Series{Ticker: q.Ticker, Interval: string(q.Interval)}, nil
	}
	return m.generate(q), nil
}

// Queries returns the queries received so far.
func (m *MockFetcher) Queries() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Query(nil), m.queries...)
}

func (m *MockFetcher) generate(q Query) *model.Series {
	now := time.Now().UTC()
	if m.Now != nil {
		now = m.Now()
	}
	end, start := now, now.AddDate(0, 0, -timeframe.PeriodDays(q.Period))
	if q.IsRange() {
		start, end = q.Start, q.End
	}
	step := q.Interval.Duration()
	if step <= 0 {
		step = 24 * time.Hour
	}
	return &model.Series{
		Ticker:    q.Ticker,
		Interval:  string(q.Interval),
		Bars:      generateMockBars(m.Price, start.Truncate(step), end, step),
		HasVolume: true,
	}
}

func generateMockBars(basePrice float64, start, end time.Time, step time.Duration) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for ts := start; ts.Before(end); ts = ts.Add(step) {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/15) + float64(i)*0.0002)
		bars = append(bars, model.OHLCV{
			Time:   ts,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
