package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/overlaysync/pkg/errors"
)

func newTestApp(t *testing.T, config *Config, out *bytes.Buffer) *App {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	logger := zerolog.Nop()
	opts := []Option{WithLogger(&logger)}
	if config != nil {
		opts = append(opts, WithConfig(config))
	}
	if out != nil {
		opts = append(opts, WithOutput(out))
	}
	a, err := New("1.2.3", "abc123", "2026-01-01", "test", opts...)
	require.NoError(t, err)
	return a
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t, nil, nil)
	assert.Equal(t, "1.2.3", a.Version())
	assert.Equal(t, "abc123", a.Commit())
	assert.Equal(t, "2026-01-01", a.Date())
	assert.Equal(t, "test", a.BuiltBy())
	assert.NotNil(t, a.Config())
	assert.NotNil(t, a.Logger())
}

func TestWithConfigNil(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := New("dev", "", "", "", WithConfig(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestDocumentPath(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.json")
	current := filepath.Join(dir, "current.json")
	cat := filepath.Join(dir, "allowed_cosmetics.json")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []string{old, current, cat} {
		require.NoError(t, os.WriteFile(p, []byte(`{"a":"b"}`), 0o644))
		mt := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(p, mt, mt))
	}

	t.Run("explicit document", func(t *testing.T) {
		a := newTestApp(t, &Config{Document: old}, nil)
		got, err := a.DocumentPath()
		require.NoError(t, err)
		assert.Equal(t, old, got)
	})

	t.Run("newest in watch dir skips the catalog", func(t *testing.T) {
		a := newTestApp(t, &Config{WatchDir: dir, Pattern: "*.json", Catalog: cat}, nil)
		got, err := a.DocumentPath()
		require.NoError(t, err)
		assert.Equal(t, current, got)
	})

	t.Run("nothing matches", func(t *testing.T) {
		a := newTestApp(t, &Config{WatchDir: dir, Pattern: "*.yaml"}, nil)
		_, err := a.DocumentPath()
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allowed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hat: [red, blue]\n"), 0o644))

	a := newTestApp(t, &Config{Catalog: path}, nil)
	cat, err := a.Catalog()
	require.NoError(t, err)
	assert.True(t, cat.Permits("hat", "blue"))

	a = newTestApp(t, &Config{Catalog: filepath.Join(dir, "missing.json")}, nil)
	cat, err = a.Catalog()
	assert.True(t, errors.IsCatalogLoad(err))
	assert.Equal(t, 0, cat.Len())
}

func TestOverridesIsCopy(t *testing.T) {
	a := newTestApp(t, &Config{Overrides: map[string]string{"hat": "blue"}}, nil)
	got := a.Overrides()
	got["hat"] = "red"
	assert.Equal(t, "blue", a.Config().Overrides["hat"])
}

func TestEngineOptions(t *testing.T) {
	a := newTestApp(t, &Config{
		Catalog:        "allowed.json",
		QuietThreshold: time.Second,
		SettleDelay:    10 * time.Millisecond,
		PollInterval:   50 * time.Millisecond,
		HistoryWindow:  5,
	}, nil)
	assert.Len(t, a.EngineOptions(), 7)

	a = newTestApp(t, &Config{}, nil)
	assert.Len(t, a.EngineOptions(), 3, "settle delay is passed even when zero")
}

func TestExecuteVersion(t *testing.T) {
	var out bytes.Buffer
	a := newTestApp(t, nil, &out)
	require.NoError(t, a.Execute(context.Background(), []string{"version"}))
	assert.Contains(t, out.String(), "overlaysync version 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
}

func TestExecuteFormatFlag(t *testing.T) {
	dir := t.TempDir()
	cat := filepath.Join(dir, "allowed.json")
	require.NoError(t, os.WriteFile(cat, []byte(`{"hat":["red","blue"]}`), 0o644))

	var out bytes.Buffer
	a := newTestApp(t, &Config{Catalog: cat}, &out)
	require.NoError(t, a.Execute(context.Background(), []string{"catalog", "--format", "json"}))
	assert.JSONEq(t, `{"hat":["blue","red"]}`, out.String())
	assert.Equal(t, "json", a.OutputFormat())
}

func TestExecuteUnknownCommand(t *testing.T) {
	a := newTestApp(t, nil, &bytes.Buffer{})
	assert.Error(t, a.Execute(context.Background(), []string{"frobnicate"}))
}
