package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"xlink-template-picker/internal/app"
	"xlink-template-picker/internal/config"
	"xlink-template-picker/internal/session"
	"xlink-template-picker/internal/webui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
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

	sessions := session.NewStore(session.Options{
		NewEngine: a.NewEngine,
		TTL:       cfg.SessionTTL,
	})

	ui, err := webui.New(webui.Options{
		Sessions:  sessions,
		Committer: a.Committer,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("web ui init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           http.TimeoutHandler(ui.Handler(), cfg.RequestTimeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sessions.Run(ctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		logger.Info("web started", "addr", cfg.WebAddr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
