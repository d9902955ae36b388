package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gitlab.com/yelinaung/fxrates/internal/bot"
	"gitlab.com/yelinaung/fxrates/internal/gemini"
	"gitlab.com/yelinaung/fxrates/internal/logger"
	"gitlab.com/yelinaung/fxrates/internal/metrics"
	"gitlab.com/yelinaung/fxrates/internal/scheduler"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(info BuildInfo, factory appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot, refresh scheduler and metrics endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, info, factory, func(ctx context.Context, a *app, _ io.Writer) error {
				return serve(ctx, a, info)
			})
		},
	}
}

func serve(ctx context.Context, a *app, info BuildInfo) error {
	if err := a.cfg.ValidateServe(); err != nil {
		return err
	}
	logger.InitHashSalt()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var parser bot.QueryParser
	if a.cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, a.cfg.GeminiAPIKey, gemini.WithModel(a.cfg.GeminiModel))
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Gemini unavailable, free-text parsing limited to simple phrases")
		} else {
			parser = client
		}
	}

	telegramBot, err := bot.New(a.cfg, a.svc, parser)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup

	if a.cfg.RefreshSchedule != "" {
		sched, err := scheduler.New(a.cfg.RefreshSchedule, a.svc)
		if err != nil {
			return err
		}
		wg.Go(func() { sched.Run(ctx) })
	}

	if a.cfg.MetricsAddr != "" {
		srv := newMetricsServer(a.cfg.MetricsAddr)
		wg.Go(func() { runMetricsServer(ctx, srv) })
	}

	logger.Log.Info().Str("version", info.Version).Msg("Starting fxrates")
	telegramBot.Start(ctx)

	logger.Log.Info().Msg("Shutting down...")
	stop()
	wg.Wait()
	return nil
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// runMetricsServer serves until ctx is done, then shuts the server down.
func runMetricsServer(ctx context.Context, srv *http.Server) {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info().Str("addr", srv.Addr).Msg("Metrics endpoint listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error().Err(err).Msg("Metrics server failed")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
}
