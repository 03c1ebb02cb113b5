package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"xlink-template-picker/internal/catalog"
	"xlink-template-picker/internal/config"
	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/httpclient"
	"xlink-template-picker/internal/localstore"
	"xlink-template-picker/internal/selection"
	"xlink-template-picker/internal/xlinkapi"
)

// App holds the collaborators every front end shares.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	HTTPClient *http.Client
	API        *xlinkapi.Client
	Loader     *catalog.Loader
	Local      *localstore.Store
	Committer  *selection.Committer
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	api := xlinkapi.New(xlinkapi.Options{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	loaderOpts := catalog.Options{Source: api, Logger: logger}
	if cfg.CatalogFile != "" {
		loaderOpts.Source = catalog.FileSource{Path: cfg.CatalogFile}
		loaderOpts.Origin = catalog.OriginFile
	}

	local, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		HTTPClient: httpClient,
		API:        api,
		Loader:     catalog.New(loaderOpts),
		Local:      local,
		Committer: selection.New(selection.Options{
			Remote: api,
			Local:  local,
			Logger: logger,
		}),
	}, nil
}

// NewEngine builds an engine and loads it with the current catalog.
func (a *App) NewEngine(ctx context.Context) *gallery.Engine {
	res := a.Loader.Load(ctx)
	e := gallery.New(gallery.Options{
		NextStepURL:   a.Config.NextStepURL,
		NavigateDelay: a.Config.NavigateDelay,
	})
	e.Load(res.Templates)
	return e
}

func (a *App) Close() error {
	return a.Local.Close()
}

func NewLogger(cfg config.Config) *slog.Logger {
	return NewLoggerTo(cfg, os.Stdout)
}

// NewLoggerTo builds the JSON logger on w, for hosts that own stdout.
func NewLoggerTo(cfg config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
