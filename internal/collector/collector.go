package collector

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"AssetAnalyzer/internal/metrics"
	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/timeframe"
)

// Collector fetches series from a Fetcher and normalizes them.
type Collector struct {
	Fetcher Fetcher
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// NewCollector creates a new Collector. logger and m may be nil.
func NewCollector(fetcher Fetcher, logger *zap.Logger, m *metrics.Metrics) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Fetcher: fetcher,
		Logger:  logger.With(zap.String("component", "collector"), zap.String("source", fetcher.Name())),
		Metrics: m,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// FetchSeries fetches ticker at interval over period. If the period query
// yields nothing, it retries once with the explicit range [now-days, now].
// When both attempts yield nothing the returned series is empty; the only
// error is a cancelled context.
func (c *Collector) FetchSeries(ctx context.Context, ticker string, period timeframe.Period, interval timeframe.Interval) (*model.Series, error) {
	q := Query{Ticker: ticker, Interval: interval, Period: period}
	if s := c.attempt(ctx, q); !s.Empty() {
		return s, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.Metrics.IncFallback()
	end := c.Now()
	days := timeframe.PeriodDays(period)
	rq := Query{
		Ticker:   ticker,
		Interval: interval,
		Start:    end.AddDate(0, 0, -days),
		End:      end,
	}
	c.Logger.Info("period query empty, retrying with date range",
		zap.String("ticker", ticker),
		zap.String("period", string(period)),
		zap.Int("days", days))

	if s := c.attempt(ctx, rq); !s.Empty() {
		return s, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &model.Series{Ticker: ticker, Interval: string(interval)}, nil
}

// attempt runs one query and normalizes the result. Provider errors are
// logged and reported as an empty series.
func (c *Collector) attempt(ctx context.Context, q Query) *model.Series {
	raw, err := c.Fetcher.Fetch(ctx, q)
	if err != nil {
		c.Metrics.ObserveFetch(q.mode(), "error")
		c.Logger.Warn("fetch failed",
			zap.String("ticker", q.Ticker),
			zap.String("mode", q.mode()),
			zap.Error(err))
		return nil
	}
	s := Normalize(raw)
	if dropped := raw.Len() - s.Len(); dropped > 0 {
		c.Metrics.AddDropped(dropped)
		c.Logger.Debug("dropped invalid rows", zap.String("ticker", q.Ticker), zap.Int("dropped", dropped))
	}
	if s.Empty() {
		c.Metrics.ObserveFetch(q.mode(), "empty")
		return nil
	}
	c.Metrics.ObserveFetch(q.mode(), "ok")
	return s
}

// Normalize drops rows with any missing field or with prices outside the
// bar's low..high range, sorts by time and removes duplicate timestamps
// (the later row wins). A nil input yields an empty series.
func Normalize(raw *model.Series) *model.Series {
	if raw == nil {
		return &model.Series{}
	}
	out := &model.Series{
		Ticker:      raw.Ticker,
		Interval:    raw.Interval,
		HasVolume:   raw.HasVolume,
		HasAdjClose: raw.HasAdjClose,
		Bars:        make([]model.OHLCV, 0, len(raw.Bars)),
	}
	for _, b := range raw.Bars {
		if !b.Complete() || !b.Consistent() || b.Time.IsZero() {
			continue
		}
		if raw.HasVolume && !finite(b.Volume) {
			continue
		}
		if raw.HasAdjClose && !finite(b.AdjClose) {
			continue
		}
		if !raw.HasVolume {
			b.Volume = 0
		}
		out.Bars = append(out.Bars, b)
	}

	sort.SliceStable(out.Bars, func(i, j int) bool { return out.Bars[i].Time.Before(out.Bars[j].Time) })

	dedup := out.Bars[:0]
	for _, b := range out.Bars {
		if n := len(dedup); n > 0 && dedup[n-1].Time.Equal(b.Time) {
			dedup[n-1] = b
			continue
		}
		dedup = append(dedup, b)
	}
	out.Bars = dedup
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
