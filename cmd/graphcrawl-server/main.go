// Command graphcrawl-server exposes breadth-first crawls of a neighbor-lookup
// service over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/client"
	"github.com/persistorai/graphcrawl/internal/api"
	"github.com/persistorai/graphcrawl/internal/config"
	"github.com/persistorai/graphcrawl/internal/crawl"
	"github.com/persistorai/graphcrawl/internal/fixture"
	"github.com/persistorai/graphcrawl/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	if err := run(log); err != nil {
		log.WithError(err).Fatal("graphcrawl-server exited")
	}
}

func run(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher, graph, err := newFetcher(cfg, log)
	if err != nil {
		return err
	}

	deps := &api.RouterDeps{
		Log:          log,
		Crawl:        service.NewCrawlService(fetcher, cfg.MaxWorkers, cfg.MaxDepth, log),
		CORSOrigins:  cfg.CORSOrigins,
		Version:      config.Version,
		NeighborsURL: cfg.NeighborsURL,
		MaxWorkers:   cfg.MaxWorkers,
	}
	if graph != nil {
		deps.Neighbors = graph
		deps.NeighborsURL = ""
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	serve := func(name string, s *http.Server) {
		log.WithField("addr", s.Addr).Infof("%s listening", name)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}
	go serve("api", srv)
	go serve("metrics", metricsSrv)

	log.WithFields(logrus.Fields{
		"version":     config.Version,
		"neighbors":   cfg.NeighborsURL,
		"fixture":     cfg.FixtureFile,
		"max_workers": cfg.MaxWorkers,
		"max_depth":   cfg.MaxDepth,
	}).Info("graphcrawl-server started")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server failed")
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("api server shutdown")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("metrics server shutdown")
	}
	log.Info("graphcrawl-server stopped")

	return nil
}

// newFetcher returns the fixture graph when FIXTURE_FILE is set, otherwise an
// HTTP client for the configured neighbor service.
func newFetcher(cfg *config.Config, log *logrus.Logger) (crawl.Fetcher, *fixture.Graph, error) {
	if cfg.FixtureFile != "" {
		g, err := fixture.Load(cfg.FixtureFile)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(logrus.Fields{
			"fixture": cfg.FixtureFile,
			"nodes":   g.Len(),
		}).Info("serving fixture graph")
		return g, g, nil
	}

	opts := []client.Option{
		client.WithTimeout(cfg.FetchTimeout),
		client.WithLogger(log),
		client.WithDebug(cfg.Debug),
	}
	if cfg.FetchRate > 0 {
		opts = append(opts, client.WithRateLimit(cfg.FetchRate, cfg.FetchBurst))
	}
	return client.New(cfg.NeighborsURL, opts...), nil, nil
}
