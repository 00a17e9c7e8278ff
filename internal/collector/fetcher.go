package collector

import (
	"context"
	"time"

	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/timeframe"
)

// Query describes one data source request. A query with a Period asks the
// provider for a trailing window; a query without one uses [Start, End].
type Query struct {
	Ticker   string
	Interval timeframe.Interval
	Period   timeframe.Period
	Start    time.Time
	End      time.Time
}

// IsRange reports whether the query uses an explicit date range.
func (q Query) IsRange() bool { return q.Period == "" }

func (q Query) mode() string {
	if q.IsRange() {
		return "range"
	}
	return "period"
}

// Fetcher defines the interface for fetching market data.
//
// Implementations return raw rows: missing values are NaN and rows need not
// be sorted. An unknown ticker should yield an empty series, but an error is
// also acceptable; the Collector treats both as "no rows".
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*model.Series, error)
	Name() string
}
