package validate

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/errors"
)

func mockContext(t *testing.T, overrides map[string]string) *context.MockContext {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hat":"red"}`), 0o644))

	return &context.MockContext{
		Format: "json",
		CatalogFunc: func() (*catalog.Catalog, error) {
			return catalog.New(map[string][]string{
				"hat":  {"red", "blue"},
				"cape": {"long"},
			}), nil
		},
		DocumentPathFunc: func() (string, error) { return path, nil },
		OverridesFunc:    func() map[string]string { return overrides },
	}
}

func TestValidateOK(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Run(&buf, mockContext(t, map[string]string{"hat": "blue", "cape": "long"})))

	var report struct {
		Catalog   string `json:"catalog"`
		Document  string `json:"document"`
		Overrides []struct {
			Key    string `json:"key"`
			Result string `json:"result"`
		} `json:"overrides"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "ok", report.Catalog)
	assert.Equal(t, "ok", report.Document)
	require.Len(t, report.Overrides, 2)
	assert.Equal(t, "cape", report.Overrides[0].Key)
	assert.Equal(t, "applied", report.Overrides[0].Result)
	assert.Equal(t, []string{"cape"}, report.Missing)
}

func TestValidateRejected(t *testing.T) {
	var buf bytes.Buffer
	err := Run(&buf, mockContext(t, map[string]string{"hat": "green", "boots": "tall"}))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "2 of 2 overrides")
	assert.Contains(t, buf.String(), "value_not_permitted")
	assert.Contains(t, buf.String(), "unknown_key")
}

func TestValidateMissingDocument(t *testing.T) {
	mock := mockContext(t, nil)
	mock.DocumentPathFunc = func() (string, error) {
		return "", errors.NewNotFoundError("document", "*.json")
	}
	err := Run(&bytes.Buffer{}, mock)
	assert.True(t, errors.IsNotFound(err))
}

func TestValidateTable(t *testing.T) {
	mock := mockContext(t, map[string]string{"hat": "blue"})
	mock.Format = "table"

	var buf bytes.Buffer
	require.NoError(t, Run(&buf, mock))
	assert.Contains(t, buf.String(), "✓ catalog loaded")
	assert.Contains(t, buf.String(), "✓ 1 overrides permitted")
	assert.Contains(t, buf.String(), "applied")
}
