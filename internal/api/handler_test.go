package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AssetAnalyzer/internal/analyzer"
	"AssetAnalyzer/internal/collector"
	"AssetAnalyzer/internal/metrics"
	"AssetAnalyzer/internal/timeframe"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRunner struct {
	res  *analyzer.Result
	err  error
	last analyzer.Request
}

func (s *stubRunner) Analyze(_ context.Context, req analyzer.Request) (*analyzer.Result, error) {
	s.last = req
	if s.res != nil {
		s.res.Request = req
	}
	return s.res, s.err
}

func serve(t *testing.T, r http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func mockAnalyzer() *analyzer.Analyzer {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	f := &collector.MockFetcher{Price: 100, Now: func() time.Time { return now }}
	col := collector.NewCollector(f, nil, nil)
	col.Now = func() time.Time { return now }
	return analyzer.New(col, nil, nil)
}

func TestGetAnalysis_OK(t *testing.T) {
	router := NewRouter(NewHandler(mockAnalyzer(), nil), nil, nil)

	w, body := serve(t, router, "/api/v1/analysis?ticker=btc-usd&period=1y&interval=1d&head=3")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "BTC-USD", body["ticker"])
	assert.Equal(t, "Bitcoin (BTC)", body["name"])
	assert.Equal(t, "ok", body["status"])
	assert.Len(t, body["head"], 3)
	assert.Len(t, body["fibonacci"], 6)

	rows := body["rows"].([]any)
	assert.Equal(t, 365, len(rows))
	first := rows[0].(map[string]any)
	assert.Nil(t, first["ma21"])
	assert.Nil(t, first["rsi"])
	assert.NotNil(t, first["ema17"])
	last := rows[len(rows)-1].(map[string]any)
	assert.NotNil(t, last["ma200"])

	diag := body["diagnosis"].(map[string]any)
	assert.NotEmpty(t, diag["label"])
	assert.NotEmpty(t, diag["text"])
}

func TestGetAnalysis_DefaultsAndReconcile(t *testing.T) {
	runner := &stubRunner{res: &analyzer.Result{
		Status:    analyzer.StatusOK,
		Timeframe: timeframe.Reconcile(timeframe.Period1y, timeframe.Interval4h),
	}}
	router := NewRouter(NewHandler(runner, nil), nil, nil)

	w, body := serve(t, router, "/api/v1/analysis?ticker=aapl")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AAPL", runner.last.Ticker)
	assert.Equal(t, timeframe.DefaultPeriod, runner.last.Period)
	assert.Equal(t, timeframe.DefaultInterval, runner.last.Interval)

	tf := body["timeframe"].(map[string]any)
	assert.Equal(t, "3mo", tf["period"])
	assert.Equal(t, "1h", tf["interval"])
	assert.Equal(t, "4h", tf["requested_interval"])
	assert.Equal(t, true, tf["resample"])
	assert.Contains(t, tf["advisory"], "4h")
	assert.Empty(t, body["rows"])
}

func TestGetAnalysis_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		runner *stubRunner
		code   int
		errMsg string
	}{
		{"no data", &stubRunner{res: &analyzer.Result{Status: analyzer.StatusNoData}}, http.StatusNotFound, analyzer.ErrNoData.Error()},
		{"resample empty", &stubRunner{res: &analyzer.Result{Status: analyzer.StatusResampleEmpty}}, http.StatusUnprocessableEntity, analyzer.ErrResampleEmpty.Error()},
		{"processing error", &stubRunner{err: &analyzer.ProcessingError{Err: errors.New("boom")}}, http.StatusInternalServerError, "processing failed: boom"},
		{"invalid", &stubRunner{err: analyzer.ErrInvalidRequest}, http.StatusBadRequest, analyzer.ErrInvalidRequest.Error()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := NewRouter(NewHandler(tc.runner, nil), nil, nil)
			w, body := serve(t, router, "/api/v1/analysis?ticker=XYZ&period=1y&interval=1d")
			assert.Equal(t, tc.code, w.Code)
			assert.Equal(t, tc.errMsg, body["error"])
		})
	}
}

func TestGetAnalysis_BindingErrors(t *testing.T) {
	runner := &stubRunner{}
	router := NewRouter(NewHandler(runner, nil), nil, nil)

	for _, target := range []string{
		"/api/v1/analysis",
		"/api/v1/analysis?ticker=AAPL&period=2w",
		"/api/v1/analysis?ticker=AAPL&interval=2h",
		"/api/v1/analysis?ticker=AAPL&head=-1",
	} {
		w, body := serve(t, router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
	assert.Empty(t, runner.last.Ticker)
}

func TestGetAssetsAndTimeframes(t *testing.T) {
	router := NewRouter(NewHandler(&stubRunner{}, nil), nil, nil)

	w, body := serve(t, router, "/api/v1/assets")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["categories"], 3)

	w, body = serve(t, router, "/api/v1/timeframes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["intervals"], 5)
	supported := body["supported"].(map[string]any)
	assert.Equal(t, []any{"7d", "1mo", "3mo"}, supported["1h"])
	assert.NotContains(t, supported, "4h")

	w, body = serve(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ObserveAnalysis("ok", time.Second)

	router := NewRouter(NewHandler(&stubRunner{}, nil), reg, nil)
	w, _ := serve(t, router, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analyses_total")
}

func TestNum(t *testing.T) {
	assert.Nil(t, num(math.NaN()))
	assert.Nil(t, num(math.Inf(-1)))
	require.NotNil(t, num(1.5))
	assert.Equal(t, 1.5, *num(1.5))
}
