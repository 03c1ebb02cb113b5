package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlink-template-picker/internal/config"
)

const catalogYAML = `templates:
  - templateId: file-01
    name: From File
    category: creative
    customizationOptions:
      backgroundColors: ["#101010"]
      accentColors: ["#FAFAFA"]
      effects:
        particles: true
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		APIBaseURL:     "http://127.0.0.1:1",
		LocalStorePath: filepath.Join(dir, "store", "local.db"),
		NextStepURL:    "next.html",
		NavigateDelay:  250 * time.Millisecond,
		HTTPTimeout:    time.Second,
	}
}

func TestNewEngineUsesCatalogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.CatalogFile = filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(cfg.CatalogFile, []byte(catalogYAML), 0o644))

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	e := a.NewEngine(context.Background())

	active, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, "file-01", active.TemplateID)
	assert.Equal(t, "#101010", e.Customization().BackgroundColor)
}

func TestNewEngineFallsBackWhenAPIUnreachable(t *testing.T) {
	a, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()

	e := a.NewEngine(context.Background())

	assert.Len(t, e.Catalog(), 5)
}

func TestEngineCarriesNavigationSettings(t *testing.T) {
	a, err := New(testConfig(t), nil)
	require.NoError(t, err)
	defer a.Close()
	e := a.NewEngine(context.Background())

	_, token, ok := e.BeginCommit()
	require.True(t, ok)
	e.FinishCommit(token, "remote")

	nav := e.View().Navigation
	require.NotNil(t, nav)
	assert.Equal(t, "next.html", nav.URL)
	assert.Equal(t, 250*time.Millisecond, nav.Delay)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	NewLoggerTo(config.Config{LogLevel: "warn"}, &buf).Info("hidden")
	assert.Empty(t, buf.String())

	NewLoggerTo(config.Config{LogLevel: "warn", Debug: true}, &buf).Debug("shown")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
