package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlink-template-picker/internal/gallery"
	"xlink-template-picker/internal/selection"
	"xlink-template-picker/internal/xlinkapi"
)

func TestUpdateCreatesSessionOnce(t *testing.T) {
	var built atomic.Int32
	s := NewStore(Options{NewEngine: func(context.Context) *gallery.Engine {
		built.Add(1)
		e := gallery.New(gallery.Options{})
		e.Load(gallery.FallbackTemplates())
		return e
	}})
	ctx := context.Background()

	v := s.Update(ctx, "u1", func(e *gallery.Engine) { e.SelectCategory("dark") })
	assert.Equal(t, "dark", v.ActiveCategory)

	v = s.Get(ctx, "u1")
	assert.Equal(t, "dark", v.ActiveCategory)
	assert.Equal(t, int32(1), built.Load())
	assert.Equal(t, 1, s.Len())
}

func TestStartReplacesSession(t *testing.T) {
	s := NewStore(Options{})
	ctx := context.Background()
	s.Update(ctx, "u1", func(e *gallery.Engine) { e.SelectCategory("dark") })
	s.UpdateHost("u1", func(h *HostState) { h.MessageID = 42 })
	require.Equal(t, 42, s.Host("u1").MessageID)

	v := s.Start(ctx, "u1")

	assert.Equal(t, gallery.CategoryAll, v.ActiveCategory)
	assert.Zero(t, s.Host("u1").MessageID)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore(Options{})
	ctx := context.Background()

	s.Update(ctx, "a", func(e *gallery.Engine) { e.SetAccentColor("#111111") })
	v := s.Get(ctx, "b")

	assert.Equal(t, "#3A86FF", v.AccentColor.Value)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(Options{TTL: 10 * time.Minute, Now: func() time.Time { return now }})
	ctx := context.Background()

	s.Get(ctx, "old")
	now = now.Add(8 * time.Minute)
	s.Get(ctx, "fresh")
	now = now.Add(5 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	assert.False(t, s.Exists("old"))
	assert.True(t, s.Exists("fresh"))
}

func TestCommitReleasesLockDuringNetworkCall(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))
	defer srv.Close()

	s := NewStore(Options{})
	ctx := context.Background()
	s.Get(ctx, "u1")
	c := selection.New(selection.Options{Remote: xlinkapi.New(xlinkapi.Options{BaseURL: srv.URL})})

	var wg sync.WaitGroup
	var view gallery.View
	var started bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		view, started = s.Commit(ctx, "u1", c)
	}()

	<-entered
	during := s.Get(ctx, "u1")
	assert.True(t, during.Committing)
	assert.Equal(t, gallery.StatusSaving, during.Status.Kind)

	_, again := s.Commit(ctx, "u1", c)
	assert.False(t, again, "second confirm while in flight is refused")

	close(release)
	wg.Wait()

	require.True(t, started)
	assert.Equal(t, gallery.StatusSuccess, view.Status.Kind)
	require.NotNil(t, view.Navigation)
}
