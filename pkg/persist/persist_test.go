package persist_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/persist"
)

func TestWriteReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hat": "red"}`), 0o600))

	p := persist.New()
	require.NoError(t, p.Write(path, []byte(`{"hat": "blue"}`)))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"hat": "blue"}`, string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "existing permissions are kept")

	leftovers, err := filepath.Glob(persist.TempGlob(path))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteCreatesMissingTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")

	require.NoError(t, persist.New(persist.WithoutSync()).Write(path, []byte("{}")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFailedReplaceLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skin.json")
	original := []byte("{\n    \"hat\": \"red\"\n}")
	require.NoError(t, os.WriteFile(path, original, 0o644))

	cause := errors.New("access denied")
	p := persist.New(persist.WithRename(func(string, string) error { return cause }))

	err := p.Write(path, []byte(`{"hat": "blue"}`))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsPersist(err))
	assert.ErrorIs(t, err, cause)

	var perr *pkgerrors.PersistError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "replace", perr.Stage)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	leftovers, err := filepath.Glob(persist.TempGlob(path))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp file removed after failure")
}

func TestWriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "skin.json")

	err := persist.New().Write(path, []byte("{}"))

	var perr *pkgerrors.PersistError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "create", perr.Stage)
}

func TestCleanupStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skin.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	for _, name := range []string{".skin.json.123.tmp", ".skin.json.456.tmp", ".other.json.1.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	n, err := persist.CleanupStale(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = os.Stat(filepath.Join(dir, ".other.json.1.tmp"))
	assert.NoError(t, err, "artifacts of other targets are kept")
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestIsTemp(t *testing.T) {
	assert.True(t, persist.IsTemp("/x/.skin.json.991.tmp"))
	assert.False(t, persist.IsTemp("/x/skin.json"))
	assert.False(t, persist.IsTemp("/x/skin.tmp"))
}
