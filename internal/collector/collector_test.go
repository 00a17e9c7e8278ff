package collector

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/timeframe"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func bar(ts time.Time, c float64) model.OHLCV {
	return model.OHLCV{Time: ts, Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
}

func seriesOf(bars ...model.OHLCV) *model.Series {
	return &model.Series{Ticker: "AAPL", Interval: "1h", Bars: bars, HasVolume: true}
}

func newTestCollector(f Fetcher) *Collector {
	c := NewCollector(f, nil, nil)
	c.Now = func() time.Time { return fixedNow }
	return c
}

func TestFetchSeries_PeriodQuerySucceeds(t *testing.T) {
	f := &MockFetcher{PeriodData: seriesOf(bar(fixedNow, 100))}
	s, err := newTestCollector(f).FetchSeries(context.Background(), "AAPL", timeframe.Period1mo, timeframe.Interval1h)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	queries := f.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, timeframe.Period1mo, queries[0].Period)
}

func TestFetchSeries_FallsBackToRange(t *testing.T) {
	f := &MockFetcher{
		PeriodData: seriesOf(),
		RangeData:  seriesOf(bar(fixedNow, 100), bar(fixedNow.Add(time.Hour), 101)),
	}
	s, err := newTestCollector(f).FetchSeries(context.Background(), "AAPL", timeframe.Period7d, timeframe.Interval1h)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	queries := f.Queries()
	require.Len(t, queries, 2)
	rq := queries[1]
	assert.True(t, rq.IsRange())
	assert.Equal(t, timeframe.Interval1h, rq.Interval)
	assert.Equal(t, fixedNow, rq.End)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), rq.Start)
}

func TestFetchSeries_ErrorIsTreatedAsEmpty(t *testing.T) {
	f := &MockFetcher{
		PeriodErr: errors.New("boom"),
		RangeData: seriesOf(bar(fixedNow, 100)),
	}
	s, err := newTestCollector(f).FetchSeries(context.Background(), "AAPL", timeframe.Period3mo, timeframe.Interval1d)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, fixedNow.AddDate(0, 0, -90), f.Queries()[1].Start)
}

func TestFetchSeries_BothEmptyYieldsEmptySeries(t *testing.T) {
	f := &MockFetcher{PeriodErr: errors.New("unknown ticker"), RangeData: seriesOf()}
	s, err := newTestCollector(f).FetchSeries(context.Background(), "NOPE", timeframe.Period1y, timeframe.Interval1d)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.True(t, s.Empty())
	assert.Equal(t, "NOPE", s.Ticker)
	assert.Len(t, f.Queries(), 2)
}

func TestFetchSeries_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &MockFetcher{PeriodErr: context.Canceled}
	_, err := newTestCollector(f).FetchSeries(ctx, "AAPL", timeframe.Period1mo, timeframe.Interval1d)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchSeries_RowsThatAreAllIncompleteFallBack(t *testing.T) {
	incomplete := bar(fixedNow, 100)
	incomplete.Close = math.NaN()
	f := &MockFetcher{
		PeriodData: seriesOf(incomplete),
		RangeData:  seriesOf(bar(fixedNow, 100)),
	}
	s, err := newTestCollector(f).FetchSeries(context.Background(), "AAPL", timeframe.Period1mo, timeframe.Interval1d)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.Len(t, f.Queries(), 2)
}

func TestNormalize(t *testing.T) {
	t0 := fixedNow
	missingHigh := bar(t0.Add(2*time.Hour), 102)
	missingHigh.High = math.NaN()
	missingVol := bar(t0.Add(3*time.Hour), 103)
	missingVol.Volume = math.NaN()
	dup := bar(t0, 99)

	raw := seriesOf(
		bar(t0.Add(time.Hour), 101),
		bar(t0, 100),
		missingHigh,
		missingVol,
		dup,
	)
	s := Normalize(raw)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, t0, s.Bars[0].Time)
	assert.Equal(t, 99.0, s.Bars[0].Close, "later duplicate wins")
	assert.Equal(t, t0.Add(time.Hour), s.Bars[1].Time)
}

func TestNormalize_DropsInconsistentPrices(t *testing.T) {
	lowAboveClose := bar(fixedNow, 100)
	lowAboveClose.Low = 100.5
	openAboveHigh := bar(fixedNow.Add(time.Hour), 100)
	openAboveHigh.Open = 102
	invertedRange := bar(fixedNow.Add(2*time.Hour), 100)
	invertedRange.High, invertedRange.Low = 99, 101
	flat := model.OHLCV{Time: fixedNow.Add(3 * time.Hour), Open: 50, High: 50, Low: 50, Close: 50, Volume: 1}

	s := Normalize(seriesOf(lowAboveClose, openAboveHigh, invertedRange, flat))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 50.0, s.Bars[0].Close)
}

func TestNormalize_AbsentVolumeBecomesZero(t *testing.T) {
	b := bar(fixedNow, 100)
	b.Volume = math.NaN()
	s := Normalize(&model.Series{Bars: []model.OHLCV{b}})
	require.Equal(t, 1, s.Len())
	assert.Zero(t, s.Bars[0].Volume)
	assert.True(t, Normalize(nil).Empty())
}

func TestMockFetcher_Generates(t *testing.T) {
	f := &MockFetcher{Price: 100, Now: func() time.Time { return fixedNow }}
	s, err := newTestCollector(f).FetchSeries(context.Background(), "BTC-USD", timeframe.Period1mo, timeframe.Interval1d)
	require.NoError(t, err)
	assert.Equal(t, 31, s.Len(), "daily bars from Feb 14 through Mar 15")
	for i := 1; i < s.Len(); i++ {
		assert.True(t, s.Bars[i].Time.After(s.Bars[i-1].Time))
	}
}
