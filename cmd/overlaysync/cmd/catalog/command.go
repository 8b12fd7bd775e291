// Package catalog provides the catalog inspection command.
package catalog

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/internal/cmd/output"
	"github.com/agentstation/overlaysync/pkg/errors"
)

// NewCommand creates the catalog command.
func NewCommand(appCtx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog [key]",
		GroupID: "management",
		Short:   "List the keys and values overrides may use",
		Args:    cobra.MaximumNArgs(1),
		Example: `  overlaysync catalog
  overlaysync catalog hat
  overlaysync catalog --format yaml
  overlaysync catalog generate --from ./Cosmetics --output allowed_cosmetics.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			return Run(cmd.OutOrStdout(), appCtx, key)
		},
	}
	cmd.AddCommand(NewGenerateCommand(appCtx))
	return cmd
}

// Run lists the whole catalog, or the permitted values of key.
func Run(w io.Writer, appCtx context.Context, key string) error {
	cat, err := appCtx.Catalog()
	if err != nil {
		return err
	}

	f, err := output.ParseFormat(appCtx.OutputFormat())
	if err != nil {
		return err
	}
	if f == "" {
		f = output.DetectFormat("")
	}
	formatter := output.NewFormatter(f)

	if key == "" {
		switch f {
		case output.FormatTable, output.FormatWide:
			return formatter.Format(w, output.Catalog{Catalog: cat})
		default:
			return formatter.Format(w, cat.Entries())
		}
	}

	if !cat.Has(key) {
		return errors.NewNotFoundError("catalog key", key)
	}
	values := cat.Values(key)
	switch f {
	case output.FormatTable, output.FormatWide:
		rows := make([][]string, 0, len(values))
		for _, v := range values {
			rows = append(rows, []string{v})
		}
		return formatter.Format(w, output.Data{Headers: []string{"Value"}, Rows: rows})
	default:
		return formatter.Format(w, values)
	}
}
