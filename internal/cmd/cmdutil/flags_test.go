package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/overlaysync/pkg/errors"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", in: nil, want: map[string]string{}},
		{name: "single", in: []string{"hat=blue"}, want: map[string]string{"hat": "blue"}},
		{name: "value with equals", in: []string{"tag=a=b"}, want: map[string]string{"tag": "a=b"}},
		{name: "empty value", in: []string{"hat="}, want: map[string]string{"hat": ""}},
		{name: "last wins", in: []string{"hat=red", "hat=blue"}, want: map[string]string{"hat": "blue"}},
		{name: "missing equals", in: []string{"hat"}, wantErr: true},
		{name: "empty key", in: []string{"=blue"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePairs(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverrideFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags := AddOverrideFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--set", "hat=blue", "-s", "cape=long", "-d", "skin.json"}))

	base := map[string]string{"hat": "red", "boots": "tall"}
	got, err := flags.Overrides(base)
	require.NoError(t, err)

	assert.Equal(t, "skin.json", flags.Document)
	assert.Equal(t, map[string]string{"hat": "blue", "cape": "long", "boots": "tall"}, got)
	assert.Equal(t, "red", base["hat"], "base is not modified")
}
