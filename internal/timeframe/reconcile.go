package timeframe

import (
	"fmt"
	"time"
)

// Result is the outcome of reconciling a user request with provider rules.
type Result struct {
	Period   Period   // period to fetch with
	Interval Interval // interval to fetch with
	// Requested is the interval the caller asked for. It differs from
	// Interval only when Resample is set.
	Requested Interval
	Resample  bool
	Advisory  string // non-empty when the request was altered
}

// ResampleRule returns the bucket size the fetched series must be
// aggregated to, or 0 when no resampling is needed.
func (r Result) ResampleRule() time.Duration {
	if !r.Resample {
		return 0
	}
	return r.Requested.Duration()
}

// Reconcile adjusts (period, interval) to something the provider serves.
// It is total over the enumerated domain and never fails.
func Reconcile(period Period, interval Interval) Result {
	if interval == Interval4h {
		return reconcile4h(period)
	}

	res := Result{Period: period, Interval: interval, Requested: interval}
	if Supported(period, interval) {
		return res
	}

	switch interval {
	case Interval15m, Interval30m:
		res.Period = Period1mo
		res.Advisory = fmt.Sprintf("⚠️ Interval %s requires a short period. Adjusted to 1 month.", interval)
	case Interval1h:
		res.Period = Period3mo
		res.Advisory = "⚠️ Interval 1h supports up to 3 months. Adjusted to 3 months."
	default:
		res.Period = Period1y
		res.Advisory = "⚠️ Adjusted period to 1 year for compatibility."
	}
	return res
}

// reconcile4h handles the one derived timeframe: 4h bars are built locally
// from 1h data, so the period must be one that 1h supports.
func reconcile4h(period Period) Result {
	res := Result{
		Period:    period,
		Interval:  Interval1h,
		Requested: Interval4h,
		Resample:  true,
	}
	if !Supported(period, Interval1h) {
		res.Period = Period3mo
		res.Advisory = "⚠️ Interval 4h requires hourly data. Adjusted period to 3 months."
	}
	return res
}
