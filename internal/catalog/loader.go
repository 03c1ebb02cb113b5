package catalog

import (
	"context"
	"errors"
	"html"
	"io"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/metrics"
)

const (
	OriginRemote   = "remote"
	OriginFile     = "file"
	OriginFallback = "fallback"
)

var errEmptyCatalog = errors.New("catalog is empty")

// Source yields a template catalog. xlinkapi.Client and FileSource both
// satisfy it.
type Source interface {
	FetchTemplates(ctx context.Context) ([]gallery.Template, error)
}

type Options struct {
	Source Source
	// Origin labels templates that came from Source; defaults to "remote".
	Origin string
	Logger *slog.Logger
}

type Result struct {
	Templates []gallery.Template
	Origin    string
}

func (r Result) Fallback() bool {
	return r.Origin == OriginFallback
}

// Loader fetches the catalog once per call and degrades to the built-in
// templates on any failure. There is no retry.
type Loader struct {
	source    Source
	origin    string
	logger    *slog.Logger
	sanitizer *bluemonday.Policy
	group     singleflight.Group
}

func New(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	origin := opts.Origin
	if origin == "" {
		origin = OriginRemote
	}

	return &Loader{
		source:    opts.Source,
		origin:    origin,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Load never fails: callers always get a non-empty catalog. Concurrent calls
// share a single fetch.
func (l *Loader) Load(ctx context.Context) Result {
	v, _, _ := l.group.Do("catalog", func() (any, error) {
		return l.load(ctx), nil
	})
	return v.(Result)
}

func (l *Loader) load(ctx context.Context) Result {
	templates, err := l.fetch(ctx)
	if err != nil {
		l.logger.Warn("template api fallback", "err", err)
		metrics.CatalogLoaded(OriginFallback)
		return Result{Templates: gallery.FallbackTemplates(), Origin: OriginFallback}
	}

	metrics.CatalogLoaded(l.origin)
	return Result{Templates: l.sanitize(templates), Origin: l.origin}
}

func (l *Loader) fetch(ctx context.Context) ([]gallery.Template, error) {
	if l.source == nil {
		return nil, errors.New("no catalog source configured")
	}
	templates, err := l.source.FetchTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, errEmptyCatalog
	}
	return templates, nil
}

// sanitize strips markup from display strings; ids, categories and colors
// pass through untouched.
func (l *Loader) sanitize(in []gallery.Template) []gallery.Template {
	out := make([]gallery.Template, len(in))
	for i, t := range in {
		t.Name = l.plain(t.Name)
		t.Description = l.plain(t.Description)
		t.CategoryLabel = l.plain(t.CategoryLabel)
		t.VisualStyle = l.plain(t.VisualStyle)
		out[i] = t
	}
	return out
}

// plain drops tags and returns unescaped text; hosts escape for their own
// output format.
func (l *Loader) plain(s string) string {
	return html.UnescapeString(l.sanitizer.Sanitize(s))
}
