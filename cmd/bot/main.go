package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"xlink-template-picker/internal/app"
	"xlink-template-picker/internal/config"
	"xlink-template-picker/internal/debounce"
	"xlink-template-picker/internal/handlers"
	"xlink-template-picker/internal/session"
	"xlink-template-picker/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadBot()
	if err != nil {
		panic(err)
	}

	logger := app.NewLogger(cfg)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("init failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: a.HTTPClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	sessions := session.NewStore(session.Options{
		NewEngine: a.NewEngine,
		TTL:       cfg.SessionTTL,
	})

	edits := debounce.New(debounce.Options{Delay: 300 * time.Millisecond})
	defer edits.Flush()

	handler := handlers.New(handlers.Options{
		Telegram:  tg,
		Sessions:  sessions,
		Committer: a.Committer,
		Logger:    logger,
		Coalescer: edits,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sessions.Run(ctx, time.Minute)
		return nil
	})

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("metrics started", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		return pollUpdates(ctx, cfg, tg, handler, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("bot stopped", "err", err)
		os.Exit(1)
	}
}

func pollUpdates(ctx context.Context, cfg config.Config, tg *telegram.Client, handler *handlers.Handler, logger *slog.Logger) error {
	logger.Info("bot started", "username", tg.Username())

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return nil
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}
