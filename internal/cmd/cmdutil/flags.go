// Package cmdutil provides flags shared by overlaysync commands.
package cmdutil

import (
	"maps"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/overlaysync/pkg/errors"
)

// OverrideFlags holds the flags of commands that apply overrides to a
// document.
type OverrideFlags struct {
	Document string
	Set      []string
}

// AddOverrideFlags adds --document and repeatable --set key=value flags.
func AddOverrideFlags(cmd *cobra.Command) *OverrideFlags {
	flags := &OverrideFlags{}

	cmd.Flags().StringVarP(&flags.Document, "document", "d", "",
		"Document path (default: newest match in the watch directory)")
	cmd.Flags().StringArrayVarP(&flags.Set, "set", "s", nil,
		"Desired override as key=value (repeatable)")

	return flags
}

// Overrides merges the --set pairs over base. base is not modified.
func (f *OverrideFlags) Overrides(base map[string]string) (map[string]string, error) {
	pairs, err := ParsePairs(f.Set)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(base)+len(pairs))
	maps.Copy(out, base)
	maps.Copy(out, pairs)
	return out, nil
}

// ParsePairs parses key=value strings. The value may be empty or contain
// '='; the key may not be empty.
func ParsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewValidationError("set", p, "expected key=value")
		}
		out[key] = value
	}
	return out, nil
}
