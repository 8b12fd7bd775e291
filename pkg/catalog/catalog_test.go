package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		keys    []string
		permits map[string]string
	}{
		{
			name:    "json",
			file:    "allowed.json",
			content: `{"hat": ["red", "blue"], "cape": ["Cape_Royal.Gold_Red"]}`,
			keys:    []string{"cape", "hat"},
			permits: map[string]string{"hat": "blue", "cape": "Cape_Royal.Gold_Red"},
		},
		{
			name:    "yaml",
			file:    "allowed.yaml",
			content: "hat:\n  - red\n  - blue\n",
			keys:    []string{"hat"},
			permits: map[string]string{"hat": "red"},
		},
		{
			name:    "non array entries skipped",
			file:    "allowed.json",
			content: `{"hat": ["red", 3, "blue"], "version": "2"}`,
			keys:    []string{"hat"},
			permits: map[string]string{"hat": "blue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.keys, c.Keys())
			for k, v := range tt.permits {
				assert.True(t, c.Permits(k, v), "%s=%s", k, v)
			}
		})
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{name: "empty object", path: func(t *testing.T) string { return writeFile(t, "a.json", `{}`) }},
		{name: "no arrays", path: func(t *testing.T) string { return writeFile(t, "a.json", `{"hat": "red"}`) }},
		{name: "garbage", path: func(t *testing.T) string { return writeFile(t, "a.yaml", "hat: [red\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := catalog.Load(tt.path(t))
			assert.Nil(t, c)
			require.Error(t, err)
			assert.True(t, errors.IsCatalogLoad(err))
		})
	}
}

func TestLoadOrEmptyFailsClosed(t *testing.T) {
	c, err := catalog.LoadOrEmpty(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("hat"))
	assert.False(t, c.Permits("hat", "red"))
}

func TestLookups(t *testing.T) {
	c := catalog.New(map[string][]string{"hat": {"red", "blue", "red"}})

	assert.True(t, c.Has("hat"))
	assert.False(t, c.Has("hp"))
	assert.True(t, c.Permits("hat", "red"))
	assert.False(t, c.Permits("hat", "green"))
	assert.False(t, c.Permits("hp", "10"))
	assert.Equal(t, []string{"blue", "red"}, c.Values("hat"))
	assert.Empty(t, c.Values("hp"))
	assert.Equal(t, 1, c.Len())
}

func TestValuesNaturalOrder(t *testing.T) {
	c := catalog.New(map[string][]string{
		"bodyCharacteristic": {"Default.10", "Default.2", "Default.1", "Default.21"},
	})
	assert.Equal(t, []string{"Default.1", "Default.2", "Default.10", "Default.21"}, c.Values("bodyCharacteristic"))
}

func TestNilCatalog(t *testing.T) {
	var c *catalog.Catalog
	assert.False(t, c.Has("hat"))
	assert.False(t, c.Permits("hat", "red"))
	assert.Nil(t, c.Keys())
	assert.Empty(t, c.Entries())
	assert.Equal(t, 0, c.Len())
}
