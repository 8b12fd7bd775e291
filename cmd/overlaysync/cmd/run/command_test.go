package run

import (
	stdctx "context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/internal/cmd/cmdutil"
	"github.com/agentstation/overlaysync/pkg/catalog"
)

func TestRunAppliesOverridesUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hat":"red","hp":"12"}`), 0o644))

	mock := &context.MockContext{
		DocumentPathFunc: func() (string, error) { return path, nil },
		EngineOptionsFunc: func() []overlaysync.Option {
			return []overlaysync.Option{
				overlaysync.WithCatalog(catalog.New(map[string][]string{"hat": {"red", "blue"}})),
				overlaysync.WithQuietThreshold(20 * time.Millisecond),
				overlaysync.WithSettleDelay(0),
				overlaysync.WithPollInterval(10 * time.Millisecond),
				overlaysync.WithLogger(zerolog.Nop()),
			}
		},
	}
	flags := &Flags{OverrideFlags: &cmdutil.OverrideFlags{Set: []string{"hat=blue"}}}

	ctx, cancel := stdctx.WithCancel(stdctx.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, mock, flags) }()

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "{\n    \"hat\": \"blue\",\n    \"hp\": \"12\"\n}"
	}, 3*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestRunMissingDocument(t *testing.T) {
	mock := &context.MockContext{
		DocumentPathFunc: func() (string, error) {
			return filepath.Join(t.TempDir(), "missing.json"), nil
		},
	}
	err := Run(stdctx.Background(), mock, &Flags{OverrideFlags: &cmdutil.OverrideFlags{}})
	require.Error(t, err)
}
