package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"AssetAnalyzer/internal/analyzer"
	"AssetAnalyzer/internal/api"
	"AssetAnalyzer/internal/catalog"
	"AssetAnalyzer/internal/collector"
	"AssetAnalyzer/internal/config"
	"AssetAnalyzer/internal/logger"
	"AssetAnalyzer/internal/metrics"
	"AssetAnalyzer/internal/notifier"
	"AssetAnalyzer/internal/platform/httpclient"
	"AssetAnalyzer/internal/scheduler"
	"AssetAnalyzer/internal/timeframe"
)

const usage = `usage: analyzer <command> [flags]

commands:
  analyze  -ticker T [-period P] [-interval I]   print one report
  serve                                         run the HTTP API
  watch                                         run the watchlist and Telegram bot
`

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	analyzer *analyzer.Analyzer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	a, err := setup(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}
	defer a.logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "analyze":
		err = a.runAnalyze(ctx, args)
	case "serve":
		err = a.runServe(ctx)
	case "watch":
		err = a.runWatch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		a.logger.Error("command failed", zap.String("command", cmd), zap.Error(err))
		os.Exit(1)
	}
}

func setup(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	fetcher := newFetcher(cfg)
	log.Info("data source", zap.String("provider", fetcher.Name()))

	col := collector.NewCollector(fetcher, log, m)
	return &app{
		cfg:      cfg,
		logger:   log,
		registry: reg,
		analyzer: analyzer.New(col, log, m),
	}, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	client := httpclient.New(httpclient.Options{
		Timeout:        ds.Timeout,
		RequestsPerSec: ds.RequestsPerSec,
		MaxRetries:     ds.MaxRetries,
		ProxyURL:       cfg.Proxy,
	})
	switch ds.Provider {
	case "rest":
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, client)
	case "mock":
		return &collector.MockFetcher{Price: ds.MockPrice}
	default:
		f := collector.NewYahooFetcher(client)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f
	}
}

func (a *app) runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	tickerFlag := fs.String("ticker", "", "ticker or catalog name, e.g. AAPL, PETR4.SA, BTC-USD")
	periodFlag := fs.String("period", string(timeframe.DefaultPeriod), "period")
	intervalFlag := fs.String("interval", string(timeframe.DefaultInterval), "interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tickerFlag == "" && fs.NArg() > 0 {
		*tickerFlag = fs.Arg(0)
	}
	if *tickerFlag == "" {
		return errors.New("a ticker is required")
	}

	period, err := timeframe.ParsePeriod(*periodFlag)
	if err != nil {
		return err
	}
	interval, err := timeframe.ParseInterval(*intervalFlag)
	if err != nil {
		return err
	}
	ticker, name := catalog.Resolve(*tickerFlag)
	req := analyzer.Request{Ticker: ticker, Name: name, Period: period, Interval: interval}

	res, err := a.analyzer.Analyze(ctx, req)
	if err != nil {
		fmt.Println(notifier.PlainText(notifier.FormatError(req, err)))
		return err
	}
	fmt.Println(notifier.PlainText(notifier.FormatAnalysis(res)))
	return res.Err()
}

func (a *app) runServe(ctx context.Context) error {
	gin.SetMode(a.cfg.Server.Mode)
	router := api.NewRouter(api.NewHandler(a.analyzer, a.logger), a.registry, a.logger)

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *app) runWatch(ctx context.Context) error {
	var (
		n  notifier.Notifier = notifier.NewLogNotifier(a.logger)
		tn *notifier.TelegramNotifier
	)
	if a.cfg.TelegramEnabled() {
		var err error
		tn, err = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
		if err != nil {
			return fmt.Errorf("init telegram: %w", err)
		}
		n = tn
	} else {
		a.logger.Warn("telegram not configured, reports go to the log")
	}

	list, err := scheduler.Watchlist(a.cfg.Watch.Entries)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(ctx, a.analyzer, n, a.logger)
	if err := sched.RegisterWatch(a.cfg.Watch.Cron, list); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
	}
	if os.Getenv("RUN_ON_START") == "true" {
		a.logger.Info("RUN_ON_START enabled, running watchlist now")
		go sched.RunWatchlist()
	}

	a.logger.Info("watching", zap.Int("entries", len(list)))
	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping")
	return nil
}
