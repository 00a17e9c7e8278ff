// Package scheduler re-runs snapshot analyses on a cron schedule and
// answers chat commands.
package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"AssetAnalyzer/internal/analyzer"
	"AssetAnalyzer/internal/catalog"
	"AssetAnalyzer/internal/config"
	"AssetAnalyzer/internal/notifier"
	"AssetAnalyzer/internal/timeframe"
)

// Runner runs one analysis. *analyzer.Analyzer satisfies it.
type Runner interface {
	Analyze(ctx context.Context, req analyzer.Request) (*analyzer.Result, error)
}

// Scheduler manages the watchlist cron task.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   Runner
	Notifier notifier.Notifier
	Ctx      context.Context

	logger    *zap.Logger
	mu        sync.Mutex
	watchlist []analyzer.Request
}

// NewScheduler creates a new Scheduler. logger may be nil.
func NewScheduler(ctx context.Context, runner Runner, n notifier.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		Runner:   runner,
		Notifier: n,
		Ctx:      ctx,
		logger:   logger.With(zap.String("component", "scheduler")),
	}
}

// Watchlist converts configured entries into analysis requests.
func Watchlist(entries []config.WatchEntry) ([]analyzer.Request, error) {
	reqs := make([]analyzer.Request, 0, len(entries))
	for i, e := range entries {
		p, err := timeframe.ParsePeriod(e.Period)
		if err != nil {
			return nil, fmt.Errorf("watch entry %d: %w", i, err)
		}
		iv, err := timeframe.ParseInterval(e.Interval)
		if err != nil {
			return nil, fmt.Errorf("watch entry %d: %w", i, err)
		}
		ticker, name := catalog.Resolve(e.Ticker)
		reqs = append(reqs, analyzer.Request{Ticker: ticker, Name: name, Period: p, Interval: iv})
	}
	return reqs, nil
}

// RegisterWatch schedules the watchlist under spec (six fields, seconds first).
func (s *Scheduler) RegisterWatch(spec string, watchlist []analyzer.Request) error {
	s.mu.Lock()
	s.watchlist = append([]analyzer.Request(nil), watchlist...)
	s.mu.Unlock()

	if _, err := s.Cron.AddFunc(spec, s.RunWatchlist); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	s.logger.Info("watch task registered", zap.String("cron", spec), zap.Int("entries", len(watchlist)))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunWatchlist analyzes every watchlist entry independently and sends
// one report per entry.
func (s *Scheduler) RunWatchlist() {
	s.mu.Lock()
	list := append([]analyzer.Request(nil), s.watchlist...)
	s.mu.Unlock()

	s.logger.Info("running watchlist", zap.Int("entries", len(list)))
	for _, req := range list {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.analyze(s.Ctx, req))
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	// Group chats address commands as /cmd@botname.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")

	switch name {
	case "/analyze", "/a":
		req, err := parseAnalyze(fields[1:])
		if err != nil {
			return "❌ " + html.EscapeString(err.Error()) + "\n\n" + notifier.FormatHelp()
		}
		return s.analyze(ctx, req)
	case "/assets":
		return notifier.FormatAssets()
	default:
		return notifier.FormatHelp()
	}
}

func parseAnalyze(args []string) (analyzer.Request, error) {
	if len(args) == 0 {
		return analyzer.Request{}, fmt.Errorf("ticker is required")
	}
	if len(args) > 3 {
		return analyzer.Request{}, fmt.Errorf("too many arguments")
	}
	ticker, name := catalog.Resolve(args[0])
	req := analyzer.Request{
		Ticker:   ticker,
		Name:     name,
		Period:   timeframe.DefaultPeriod,
		Interval: timeframe.DefaultInterval,
	}
	if len(args) > 1 {
		p, err := timeframe.ParsePeriod(args[1])
		if err != nil {
			return req, err
		}
		req.Period = p
	}
	if len(args) > 2 {
		iv, err := timeframe.ParseInterval(args[2])
		if err != nil {
			return req, err
		}
		req.Interval = iv
	}
	return req, nil
}

func (s *Scheduler) analyze(ctx context.Context, req analyzer.Request) string {
	res, err := s.Runner.Analyze(ctx, req)
	if err != nil {
		return notifier.FormatError(req, err)
	}
	return notifier.FormatAnalysis(res)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		s.logger.Error("send notification", zap.String("notifier", s.Notifier.Name()), zap.Error(err))
	}
}
