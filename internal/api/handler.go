// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"AssetAnalyzer/internal/analyzer"
	"AssetAnalyzer/internal/catalog"
	"AssetAnalyzer/internal/timeframe"
)

const defaultHead = 5

// Runner runs one analysis. *analyzer.Analyzer satisfies it.
type Runner interface {
	Analyze(ctx context.Context, req analyzer.Request) (*analyzer.Result, error)
}

// Handler serves the analysis endpoints.
type Handler struct {
	runner Runner
	logger *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(runner Runner, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{runner: runner, logger: logger.With(zap.String("component", "api"))}
}

type analysisQuery struct {
	Ticker   string `form:"ticker" binding:"required"`
	Period   string `form:"period" binding:"omitempty,oneof=7d 1mo 3mo 6mo 1y 5y 10y"`
	Interval string `form:"interval" binding:"omitempty,oneof=15m 30m 1h 4h 1d"`
	Head     *int   `form:"head" binding:"omitempty,min=0,max=1000"`
}

// GetAnalysis runs one snapshot analysis.
// GET /api/v1/analysis?ticker=&period=&interval=&head=
func (h *Handler) GetAnalysis(c *gin.Context) {
	var q analysisQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticker, name := catalog.Resolve(q.Ticker)
	req := analyzer.Request{
		Ticker:   ticker,
		Name:     name,
		Period:   timeframe.DefaultPeriod,
		Interval: timeframe.DefaultInterval,
	}
	if q.Period != "" {
		req.Period = timeframe.Period(q.Period)
	}
	if q.Interval != "" {
		req.Interval = timeframe.Interval(q.Interval)
	}
	head := defaultHead
	if q.Head != nil {
		head = *q.Head
	}

	res, err := h.runner.Analyze(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, analyzer.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	switch res.Status {
	case analyzer.StatusNoData:
		c.JSON(http.StatusNotFound, gin.H{
			"error":     res.Err().Error(),
			"status":    res.Status,
			"timeframe": toTimeframe(res.Timeframe),
		})
	case analyzer.StatusResampleEmpty:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     res.Err().Error(),
			"status":    res.Status,
			"timeframe": toTimeframe(res.Timeframe),
		})
	default:
		c.JSON(http.StatusOK, newAnalysisResponse(res, head))
	}
}

// GetAssets returns the built-in asset catalog.
// GET /api/v1/assets
func (h *Handler) GetAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Categories()})
}

// GetTimeframes returns the selectable periods and intervals and the
// provider support table.
// GET /api/v1/timeframes
func (h *Handler) GetTimeframes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"periods":   timeframe.Periods,
		"intervals": timeframe.Intervals,
		"supported": timeframe.SupportTable(),
		"defaults": gin.H{
			"period":   timeframe.DefaultPeriod,
			"interval": timeframe.DefaultInterval,
		},
	})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
