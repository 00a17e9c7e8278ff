package collector

import (
	"fmt"
	"time"

	"AssetAnalyzer/internal/model"
)

// Resample aggregates series into non-overlapping buckets of length rule:
// open=first, high=max, low=min, close=last, volume=sum, adjusted close=last.
// Buckets step by rule in absolute time from midnight of the first bar's
// day in that bar's location, so across a DST change the local bucket
// boundaries shift by the offset change. Buckets without bars are not
// emitted. Each output bar is stamped with its bucket start.
func Resample(series *model.Series, rule time.Duration) *model.Series {
	out := &model.Series{}
	if series == nil {
		return out
	}
	out.Ticker = series.Ticker
	out.Interval = ruleLabel(rule)
	out.HasVolume = series.HasVolume
	out.HasAdjClose = series.HasAdjClose
	if series.Empty() || rule <= 0 {
		return out
	}

	origin := startOfDay(series.Bars[0].Time)
	var (
		cur     model.OHLCV
		started bool
	)
	for _, b := range series.Bars {
		bucket := origin.Add(b.Time.Sub(origin) / rule * rule)
		if started && bucket.Equal(cur.Time) {
			if b.High > cur.High {
				cur.High = b.High
			}
			if b.Low < cur.Low {
				cur.Low = b.Low
			}
			cur.Close = b.Close
			cur.AdjClose = b.AdjClose
			cur.Volume += b.Volume
			continue
		}
		if started {
			out.Bars = append(out.Bars, cur)
		}
		cur = b
		cur.Time = bucket
		started = true
	}
	if started {
		out.Bars = append(out.Bars, cur)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ruleLabel(rule time.Duration) string {
	switch {
	case rule <= 0:
		return ""
	case rule%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", rule/(24*time.Hour))
	case rule%time.Hour == 0:
		return fmt.Sprintf("%dh", rule/time.Hour)
	case rule%time.Minute == 0:
		return fmt.Sprintf("%dm", rule/time.Minute)
	}
	return rule.String()
}
