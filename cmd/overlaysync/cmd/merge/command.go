// Package merge provides the one-shot merge command.
package merge

import (
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/internal/cmd/cmdutil"
	"github.com/agentstation/overlaysync/internal/cmd/output"
	"github.com/agentstation/overlaysync/pkg/document"
	"github.com/agentstation/overlaysync/pkg/overlay"
	"github.com/agentstation/overlaysync/pkg/persist"
)

// Flags holds the merge command flags.
type Flags struct {
	*cmdutil.OverrideFlags
	Write bool
}

// NewCommand creates the merge command.
func NewCommand(appCtx context.Context) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Apply the overrides to the document once",
		Long: `Merge loads the catalog and the document, applies the desired overrides
and prints the result. Only keys the document already has are replaced.

Without --format the merged document is printed exactly as it would be
written. With --write the document is replaced atomically when the merge
changed anything.`,
		Example: `  overlaysync merge --document skin.json --set hat=blue
  overlaysync merge -d skin.json -s hat=blue --format table
  overlaysync merge -d skin.json -s hat=blue --write`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.OutOrStdout(), appCtx, flags)
		},
	}

	flags.OverrideFlags = cmdutil.AddOverrideFlags(cmd)
	cmd.Flags().BoolVar(&flags.Write, "write", false,
		"Replace the document with the merged result")

	return cmd
}

// Run performs the merge and writes the report to w.
func Run(w io.Writer, appCtx context.Context, flags *Flags) error {
	logger := appCtx.Logger()

	path := flags.Document
	if path == "" {
		var err error
		if path, err = appCtx.DocumentPath(); err != nil {
			return err
		}
	}

	cat, err := appCtx.Catalog()
	if err != nil {
		logger.Warn().Err(err).Msg("Catalog unavailable, every override will be rejected")
	}

	overrides, err := flags.Overrides(appCtx.Overrides())
	if err != nil {
		return err
	}

	doc, err := document.Load(path)
	if err != nil {
		return err
	}

	valid := overlay.New(cat)
	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		if out := valid.Set(key, overrides[key]); !out.Accepted() {
			logger.Warn().
				Str("key", key).
				Str("value", out.Value).
				Str("reason", string(out.Reason)).
				Msg("Override rejected")
		}
	}

	result := output.NewMerge(doc, valid.Snapshot(), cat)

	if flags.Write && len(result.Changed) > 0 {
		data, err := result.After.Encode()
		if err != nil {
			return err
		}
		if err := persist.New().Write(path, data); err != nil {
			return err
		}
		logger.Info().Str("path", path).Strs("changed", result.Changed).Msg("Document written")
	}

	if format := appCtx.OutputFormat(); format != "" {
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		return output.NewFormatter(f).Format(w, result)
	}

	data, err := result.After.Encode()
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
