// Package timeframe reconciles a requested (period, interval) pair against the
// data provider's support rules.
package timeframe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a lookback window understood by the data provider.
type Period string

const (
	Period5d  Period = "5d"
	Period7d  Period = "7d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
)

// Interval is a bar granularity.
type Interval string

const (
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

var (
	ErrUnknownPeriod   = errors.New("unknown period")
	ErrUnknownInterval = errors.New("unknown interval")
)

// Defaults applied when a request omits period or interval.
const (
	DefaultPeriod   = Period1mo
	DefaultInterval = Interval1h
)

// Periods lists the selectable periods in display order.
var Periods = []Period{Period7d, Period1mo, Period3mo, Period6mo, Period1y, Period5y, Period10y}

// Intervals lists the selectable intervals in display order. 4h is derived.
var Intervals = []Interval{Interval15m, Interval30m, Interval1h, Interval4h, Interval1d}

// supported maps each natively served interval to the periods it may be
// requested with. 4h has no entry: it is never served natively.
var supported = map[Interval]map[Period]bool{
	Interval15m: {Period5d: true, Period1mo: true},
	Interval30m: {Period5d: true, Period1mo: true},
	Interval1h:  {Period7d: true, Period1mo: true, Period3mo: true},
	Interval1d:  {Period1mo: true, Period3mo: true, Period6mo: true, Period1y: true, Period5y: true, Period10y: true},
}

// Supported reports whether the provider serves interval natively for period.
func Supported(period Period, interval Interval) bool {
	return supported[interval][period]
}

// SupportTable returns a copy of the provider support table in display order.
func SupportTable() map[Interval][]Period {
	all := append([]Period{Period5d}, Periods...)
	out := make(map[Interval][]Period, len(supported))
	for iv, set := range supported {
		for _, p := range all {
			if set[p] {
				out[iv] = append(out[iv], p)
			}
		}
	}
	return out
}

// ParsePeriod validates a user supplied period.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// ParseInterval validates a user supplied interval.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range Intervals {
		if iv == known {
			return iv, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownInterval, s)
}

// PeriodDays converts a period to an approximate day count:
// "Nd" is N days, "Nmo" is N*30, "Ny" is N*365, anything else is 30.
func PeriodDays(p Period) int {
	s := string(p)
	var (
		num  string
		mult int
	)
	switch {
	case strings.HasSuffix(s, "mo"):
		num, mult = strings.TrimSuffix(s, "mo"), 30
	case strings.HasSuffix(s, "d"):
		num, mult = strings.TrimSuffix(s, "d"), 1
	case strings.HasSuffix(s, "y"):
		num, mult = strings.TrimSuffix(s, "y"), 365
	default:
		return 30
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return 30
	}
	return n * mult
}

// Duration returns the bar length of an interval, 0 if unknown.
func (iv Interval) Duration() time.Duration {
	switch iv {
	case Interval15m:
		return 15 * time.Minute
	case Interval30m:
		return 30 * time.Minute
	case Interval1h:
		return time.Hour
	case Interval4h:
		return 4 * time.Hour
	case Interval1d:
		return 24 * time.Hour
	}
	return 0
}
