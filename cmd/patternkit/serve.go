package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patternkit/patternkit/internal/api"
	"github.com/patternkit/patternkit/internal/config"
	"github.com/patternkit/patternkit/internal/observability"
	"github.com/patternkit/patternkit/internal/patterns"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string
	var listenOverride string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction and validation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listenOverride != "" {
				cfg.Server.Listen = listenOverride
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&listenOverride, "listen", "", "Override server.listen")

	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	srv, err := api.New(cfg, patterns.Default)
	if err != nil {
		return err
	}

	logger, closeLog, err := openResultLog(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	srv.SetResultLogger(logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := newMetricsServer(cfg, srv)

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		if cfg.Server.TLS.Enabled {
			return ignoreClosed(httpSrv.ListenAndServeTLS(
				cfg.ResolvePath(cfg.Server.TLS.CertFile),
				cfg.ResolvePath(cfg.Server.TLS.KeyFile),
			))
		}
		return ignoreClosed(httpSrv.ListenAndServe())
	})
	if metricsSrv != nil {
		g.Go(func() error {
			return ignoreClosed(metricsSrv.ListenAndServe())
		})
	}
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpSrv.Shutdown(shutdownCtx)
		if metricsSrv != nil {
			if mErr := metricsSrv.Shutdown(shutdownCtx); err == nil {
				err = mErr
			}
		}
		return err
	})

	return g.Wait()
}

func newMetricsServer(cfg *config.Config, srv *api.Server) *http.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	srv.SetMetrics(metrics)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	return &http.Server{
		Addr:              cfg.Metrics.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
