package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/xlinkapi"
)

type sourceFunc func(ctx context.Context) ([]gallery.Template, error)

func (f sourceFunc) FetchTemplates(ctx context.Context) ([]gallery.Template, error) {
	return f(ctx)
}

func fallbackIDs() []string {
	var ids []string
	for _, t := range gallery.FallbackTemplates() {
		ids = append(ids, t.TemplateID)
	}
	return ids
}

func ids(ts []gallery.Template) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.TemplateID)
	}
	return out
}

func TestLoadFallsBackWhenRemoteFails(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "empty list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"templates":[]}`))
			},
		},
		{
			name: "absent list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items":[{"templateId":"x"}]}`))
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			l := New(Options{Source: xlinkapi.New(xlinkapi.Options{BaseURL: srv.URL})})
			res := l.Load(context.Background())

			assert.True(t, res.Fallback())
			assert.Equal(t, fallbackIDs(), ids(res.Templates))
		})
	}
}

func TestLoadFallsBackOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	l := New(Options{Source: xlinkapi.New(xlinkapi.Options{BaseURL: url})})
	res := l.Load(context.Background())

	assert.Equal(t, OriginFallback, res.Origin)
	assert.Len(t, res.Templates, 5)
}

func TestLoadWithoutSource(t *testing.T) {
	res := New(Options{}).Load(context.Background())
	assert.True(t, res.Fallback())
	assert.Len(t, res.Templates, 5)
}

func TestLoadUsesRemoteCatalog(t *testing.T) {
	src := sourceFunc(func(ctx context.Context) ([]gallery.Template, error) {
		return []gallery.Template{
			{TemplateID: "r-1", Name: "<b>Bold</b> & bright", Category: "creative", Description: `<script>alert(1)</script>Hi`},
		}, nil
	})

	res := New(Options{Source: src}).Load(context.Background())

	require.False(t, res.Fallback())
	assert.Equal(t, OriginRemote, res.Origin)
	require.Len(t, res.Templates, 1)
	assert.Equal(t, "Bold & bright", res.Templates[0].Name)
	assert.Equal(t, "Hi", res.Templates[0].Description)
	assert.Equal(t, "creative", res.Templates[0].Category)
}

func TestLoadSharesConcurrentFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	src := sourceFunc(func(ctx context.Context) ([]gallery.Template, error) {
		calls.Add(1)
		<-release
		return nil, errors.New("down")
	})
	l := New(Options{Source: src})

	var wg sync.WaitGroup
	results := make([]Result, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = l.Load(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.True(t, r.Fallback())
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  - templateId: file-01
    name: From file
    category: creative
    categoryLabel: Creative
    customizationOptions:
      backgroundColors: ["#101010"]
      accentColors: ["#F0F0F0"]
      effects:
        particles: true
`), 0o644))

	res := New(Options{Source: FileSource{Path: path}, Origin: OriginFile}).Load(context.Background())

	require.Equal(t, OriginFile, res.Origin)
	require.Len(t, res.Templates, 1)
	tpl := res.Templates[0]
	assert.Equal(t, "file-01", tpl.TemplateID)
	assert.Equal(t, []string{"#101010"}, tpl.CustomizationOptions.BackgroundColors)
	assert.True(t, tpl.Supports(gallery.EffectParticles))
}

func TestFileSourceJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"templates":[{"templateId":"j-1","category":"dark"}]}`), 0o644))

	got, err := FileSource{Path: path}.FetchTemplates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"j-1"}, ids(got))
}

func TestFileSourceMissingFileFallsBack(t *testing.T) {
	res := New(Options{Source: FileSource{Path: filepath.Join(t.TempDir(), "nope.yaml")}}).Load(context.Background())
	assert.True(t, res.Fallback())
}
