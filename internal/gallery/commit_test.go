package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginCommitSnapshotsSelection(t *testing.T) {
	e := New(Options{})
	e.Load(FallbackTemplates())
	e.SetAccentColor("#00F6FF")

	sel, token, ok := e.BeginCommit()
	require.True(t, ok)
	assert.NotEmpty(t, token)
	assert.Equal(t, "xr-neon-01", sel.TemplateID)
	assert.Equal(t, "#00F6FF", sel.Customization.AccentColor)
	assert.Equal(t, StatusSaving, e.View().Status.Kind)
	assert.True(t, e.View().Committing)

	e.SetAccentColor("#FF5F9E")
	assert.Equal(t, "#00F6FF", sel.Customization.AccentColor, "payload is a snapshot")
}

func TestBeginCommitWithoutActiveTemplate(t *testing.T) {
	e := New(Options{})
	e.Load(nil)

	_, _, ok := e.BeginCommit()
	assert.False(t, ok)
	assert.Equal(t, Status{}, e.View().Status)
}

func TestBeginCommitRejectsReentrantSubmission(t *testing.T) {
	e := New(Options{})
	e.Load(FallbackTemplates())

	_, first, ok := e.BeginCommit()
	require.True(t, ok)
	_, _, ok = e.BeginCommit()
	assert.False(t, ok)

	e.FinishCommit(first, OutcomeLocal)
	_, second, ok := e.BeginCommit()
	assert.True(t, ok)
	assert.NotEqual(t, first, second)
}

func TestFinishCommitRemoteSchedulesNavigation(t *testing.T) {
	e := New(Options{NextStepURL: "/create/", NavigateDelay: 1500 * time.Millisecond})
	e.Load(FallbackTemplates())

	_, token, ok := e.BeginCommit()
	require.True(t, ok)
	e.FinishCommit(token, OutcomeRemote)

	v := e.View()
	assert.Equal(t, StatusSuccess, v.Status.Kind)
	require.NotNil(t, v.Navigation)
	assert.Equal(t, Navigation{URL: "/create/", Delay: 1500 * time.Millisecond}, *v.Navigation)
	assert.False(t, v.Committing)
}

func TestFinishCommitLocalDoesNotNavigate(t *testing.T) {
	e := New(Options{})
	e.Load(FallbackTemplates())

	_, token, _ := e.BeginCommit()
	e.FinishCommit(token, OutcomeLocal)

	v := e.View()
	assert.Equal(t, StatusOffline, v.Status.Kind)
	assert.Nil(t, v.Navigation)
}

func TestFinishCommitFailed(t *testing.T) {
	e := New(Options{})
	e.Load(FallbackTemplates())

	_, token, _ := e.BeginCommit()
	e.FinishCommit(token, OutcomeFailed)

	assert.Equal(t, StatusError, e.View().Status.Kind)
	assert.False(t, e.Committing())
}

func TestFinishCommitIgnoresStaleToken(t *testing.T) {
	e := New(Options{})
	e.Load(FallbackTemplates())

	_, _, ok := e.BeginCommit()
	require.True(t, ok)
	e.FinishCommit("stale", OutcomeRemote)

	v := e.View()
	assert.Equal(t, StatusSaving, v.Status.Kind)
	assert.True(t, v.Committing)
	assert.Nil(t, v.Navigation)
}

func TestDefaultNavigation(t *testing.T) {
	e := New(Options{})
	e.Load(FallbackTemplates())

	_, token, _ := e.BeginCommit()
	e.FinishCommit(token, OutcomeRemote)

	require.NotNil(t, e.View().Navigation)
	assert.Equal(t, "create.html", e.View().Navigation.URL)
	assert.Equal(t, time.Second, e.View().Navigation.Delay)
}
