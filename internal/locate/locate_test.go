package locate_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/overlaysync/internal/locate"
	"github.com/agentstation/overlaysync/pkg/errors"
)

func touch(t *testing.T, path string, mt time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	require.NoError(t, os.Chtimes(path, mt, mt))
}

func TestNewest(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	touch(t, filepath.Join(dir, "old.json"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "current.json"), now)
	touch(t, filepath.Join(dir, ".current.json.123.tmp"), now.Add(time.Hour))
	touch(t, filepath.Join(dir, "notes.txt"), now.Add(2*time.Hour))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "newer.json"), 0o755))

	got, err := locate.Newest(dir, "*.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "current.json"), got)

	got, err = locate.Newest(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "current.json"), got, "defaults to *.json")
}

func TestNewestTieBreaksByName(t *testing.T) {
	dir := t.TempDir()
	mt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "a.json"), mt)
	touch(t, filepath.Join(dir, "b.json"), mt)

	got, err := locate.Newest(dir, "*.json")
	require.NoError(t, err)
	assert.Equal(t, "b.json", filepath.Base(got))
}

func TestNewestExclude(t *testing.T) {
	dir := t.TempDir()
	mt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "skin.json"), mt)
	touch(t, filepath.Join(dir, "allowed_cosmetics.json"), mt.Add(time.Minute))

	got, err := locate.Newest(dir, "*.json", "allowed_cosmetics.json")
	require.NoError(t, err)
	assert.Equal(t, "skin.json", filepath.Base(got))
}

func TestNewestErrors(t *testing.T) {
	t.Run("no match", func(t *testing.T) {
		_, err := locate.Newest(t.TempDir(), "*.json")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := locate.Newest(filepath.Join(t.TempDir(), "nope"), "*.json")
		var ioErr *errors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("bad pattern", func(t *testing.T) {
		_, err := locate.Newest(t.TempDir(), "[")
		assert.True(t, errors.IsValidationError(err))
	})
}
