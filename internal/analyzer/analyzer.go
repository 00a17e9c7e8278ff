// Package analyzer runs one snapshot analysis: reconcile the timeframe,
// fetch, optionally resample, compute indicators and diagnose.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"AssetAnalyzer/internal/calculator"
	"AssetAnalyzer/internal/collector"
	"AssetAnalyzer/internal/metrics"
	"AssetAnalyzer/internal/model"
	"AssetAnalyzer/internal/strategy"
	"AssetAnalyzer/internal/timeframe"
)

// Status is the terminal state of a pipeline run.
type Status string

const (
	StatusOK            Status = "ok"
	StatusNoData        Status = "no_data"
	StatusResampleEmpty Status = "resample_empty"
	StatusError         Status = "error"
)

// Request is one analysis request as the user made it.
type Request struct {
	Ticker   string
	Name     string // display name; defaults to Ticker
	Period   timeframe.Period
	Interval timeframe.Interval
}

// Result is everything a presentation layer needs to render a run.
type Result struct {
	ID        string
	Request   Request
	Timeframe timeframe.Result
	Status    Status
	RawBars   int

	Frame     *model.IndicatorFrame
	Fibonacci model.FibonacciLevels
	Diagnosis model.Diagnosis

	StartedAt time.Time
	Elapsed   time.Duration
}

// Err maps an empty-result status to its sentinel error.
func (r *Result) Err() error {
	switch r.Status {
	case StatusNoData:
		return ErrNoData
	case StatusResampleEmpty:
		return ErrResampleEmpty
	}
	return nil
}

// Analyzer wires the pipeline stages together. It holds no per-request state.
type Analyzer struct {
	collector *collector.Collector
	logger    *zap.Logger
	metrics   *metrics.Metrics
	resample  func(*model.Series, time.Duration) *model.Series
}

// New creates an Analyzer. logger and m may be nil.
func New(col *collector.Collector, logger *zap.Logger, m *metrics.Metrics) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		collector: col,
		logger:    logger.With(zap.String("component", "analyzer")),
		metrics:   m,
		resample:  collector.Resample,
	}
}

// Analyze runs the pipeline. Empty outcomes (no data, empty resample) are
// reported through Result.Status with a nil error. Any other failure,
// including a panic in a stage, is returned as *ProcessingError alongside
// the partial result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (res *Result, err error) {
	req.Ticker = strings.TrimSpace(req.Ticker)
	if req.Ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", ErrInvalidRequest)
	}
	if req.Name == "" {
		req.Name = req.Ticker
	}

	res = &Result{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: time.Now(),
	}
	log := a.logger.With(zap.String("request_id", res.ID), zap.String("ticker", req.Ticker))

	defer func() {
		if r := recover(); r != nil {
			err = &ProcessingError{Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			res.Status = StatusError
			log.Error("analysis failed", zap.Error(err))
		}
		res.Elapsed = time.Since(res.StartedAt)
		a.metrics.ObserveAnalysis(string(res.Status), res.Elapsed)
	}()

	res.Timeframe = timeframe.Reconcile(req.Period, req.Interval)
	if res.Timeframe.Advisory != "" {
		log.Info("timeframe adjusted", zap.String("advisory", res.Timeframe.Advisory))
	}

	raw, err := a.collector.FetchSeries(ctx, req.Ticker, res.Timeframe.Period, res.Timeframe.Interval)
	if err != nil {
		return res, &ProcessingError{Err: err}
	}
	res.RawBars = raw.Len()
	if raw.Empty() {
		res.Status = StatusNoData
		log.Warn("no data found",
			zap.String("period", string(res.Timeframe.Period)),
			zap.String("interval", string(res.Timeframe.Interval)))
		return res, nil
	}

	series := raw
	if rule := res.Timeframe.ResampleRule(); rule > 0 {
		series = a.resample(raw, rule)
		a.metrics.ObserveResample(series.Len())
		if series.Empty() {
			res.Status = StatusResampleEmpty
			log.Warn("resample produced no bars", zap.Duration("rule", rule), zap.Int("raw_bars", raw.Len()))
			return res, nil
		}
	}

	res.Frame = calculator.ComputeFrame(series)
	res.Fibonacci = calculator.FibonacciLevels(series)
	res.Diagnosis = strategy.Evaluate(res.Frame)
	res.Status = StatusOK

	log.Info("analysis complete",
		zap.Int("bars", series.Len()),
		zap.String("diagnosis", string(res.Diagnosis.Label)),
		zap.Float64("rsi", res.Diagnosis.RSI))
	return res, nil
}
