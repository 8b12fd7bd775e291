package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/overlaysync/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "document",
			ID:       "skins/*.json",
		}
		assert.Equal(t, "document with ID skins/*.json not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("document", "x")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("hat", "green", "value not permitted")
		assert.Equal(t, "validation failed for field hat: value not permitted", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "empty overlay"}
		assert.Equal(t, "validation failed: empty overlay", err.Error())
	})
}

func TestCatalogLoadError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := &pkgerrors.CatalogLoadError{Path: "allowed.json", Err: cause}
		assert.Contains(t, err.Error(), "allowed.json")
		assert.Contains(t, err.Error(), "permission denied")
		assert.True(t, pkgerrors.IsCatalogLoad(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("empty catalog", func(t *testing.T) {
		err := &pkgerrors.CatalogLoadError{Path: "allowed.json"}
		assert.Contains(t, err.Error(), "no key/value entries")
		assert.True(t, pkgerrors.IsCatalogLoad(fmt.Errorf("startup: %w", err)))
	})
}

func TestDocumentLoadError(t *testing.T) {
	cause := errors.New("no such file")
	err := &pkgerrors.DocumentLoadError{Path: "skin.json", Err: cause}
	assert.True(t, pkgerrors.IsDocumentLoad(err))
	assert.False(t, pkgerrors.IsParse(err))
	assert.Equal(t, cause, err.Unwrap())
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "with position",
			err:  &pkgerrors.ParseError{Format: "json", File: "a.json", Line: 3, Column: 7, Message: "bad token"},
			want: "parse error in json at a.json:3:7: bad token",
		},
		{
			name: "with file",
			err:  pkgerrors.NewParseError("json", "a.json", "nested value", nil),
			want: "parse error in json file a.json: nested value",
		},
		{
			name: "bare",
			err:  pkgerrors.NewParseError("yaml", "", "unexpected eof", nil),
			want: "yaml parse error: unexpected eof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, pkgerrors.IsParse(tt.err))
		})
	}
}

func TestPersistError(t *testing.T) {
	cause := errors.New("rename failed")
	err := pkgerrors.NewPersistError("/tmp/skin.json", "replace", cause)

	assert.Equal(t, "persisting /tmp/skin.json (replace): rename failed", err.Error())
	assert.True(t, pkgerrors.IsPersist(err))
	assert.ErrorIs(t, err, cause)

	var target *pkgerrors.PersistError
	require.True(t, errors.As(fmt.Errorf("tick: %w", err), &target))
	assert.Equal(t, "replace", target.Stage)
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
		assert.NoError(t, pkgerrors.WrapResource("load", "config", "", nil))
	})

	t.Run("io", func(t *testing.T) {
		base := errors.New("disk full")
		err := pkgerrors.WrapIO("write", "/data/out", base)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "write", ioErr.Operation)
		assert.Equal(t, base, ioErr.Unwrap())
	})

	t.Run("parse", func(t *testing.T) {
		err := pkgerrors.WrapParse("json", "doc.json", errors.New("boom"))
		assert.True(t, pkgerrors.IsParse(err))
	})

	t.Run("resource", func(t *testing.T) {
		err := pkgerrors.WrapResource("create", "engine", "skin.json", errors.New("boom"))
		assert.Equal(t, "failed to create engine skin.json: boom", err.Error())
	})
}
