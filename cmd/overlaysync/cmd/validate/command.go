// Package validate provides the configuration check command.
package validate

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentstation/overlaysync/cmd/overlaysync/context"
	"github.com/agentstation/overlaysync/internal/cmd/alerts"
	"github.com/agentstation/overlaysync/internal/cmd/output"
	"github.com/agentstation/overlaysync/pkg/document"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/overlay"
)

// Report is the validate result.
type Report struct {
	Catalog   string            `json:"catalog"`
	Document  string            `json:"document"`
	Overrides []overlay.Outcome `json:"overrides"`
	Missing   []string          `json:"missing,omitempty"`
}

// TableData implements output.Tabler.
func (r Report) TableData(bool) output.Data {
	rows := make([][]string, 0, len(r.Overrides))
	for _, o := range r.Overrides {
		note := string(o.Reason)
		if o.Accepted() && slices.Contains(r.Missing, o.Key) {
			note = "not in document"
		}
		rows = append(rows, []string{o.Key, o.Value, o.Result.String(), note})
	}
	return output.Data{Headers: []string{"Key", "Value", "Result", "Note"}, Rows: rows}
}

// NewCommand creates the validate command.
func NewCommand(appCtx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Check the catalog, the document and the configured overrides",
		Long: `Validate loads the catalog and the document the run command would use
and reports which configured overrides would be applied or rejected.

It exits non-zero when the catalog or the document cannot be loaded, or
when any override would be rejected.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.OutOrStdout(), appCtx)
		},
	}
}

// Run validates the configuration and writes a report to w.
func Run(w io.Writer, appCtx context.Context) error {
	cat, catErr := appCtx.Catalog()

	report := Report{Catalog: "ok", Document: "ok"}
	if catErr != nil {
		report.Catalog = catErr.Error()
	}

	var doc document.Document
	path, docErr := appCtx.DocumentPath()
	if docErr == nil {
		doc, docErr = document.Load(path)
	}
	if docErr != nil {
		report.Document = docErr.Error()
	}

	valid := overlay.New(cat)
	overrides := appCtx.Overrides()
	rejected := 0
	for _, key := range slices.Sorted(maps.Keys(overrides)) {
		out := valid.Set(key, overrides[key])
		if !out.Accepted() {
			rejected++
		} else if !doc.IsZero() && !doc.Has(key) {
			report.Missing = append(report.Missing, key)
		}
		report.Overrides = append(report.Overrides, out)
	}

	f, err := output.ParseFormat(appCtx.OutputFormat())
	if err != nil {
		return err
	}
	if f == "" {
		f = output.FormatTable
	}
	if f == output.FormatTable || f == output.FormatWide {
		if err := writeChecks(w, catErr, docErr, path, rejected, len(overrides)); err != nil {
			return err
		}
		if len(report.Overrides) == 0 {
			return firstError(catErr, docErr, rejected, len(overrides))
		}
	}
	if err := output.NewFormatter(f).Format(w, report); err != nil {
		return err
	}
	return firstError(catErr, docErr, rejected, len(overrides))
}

func writeChecks(w io.Writer, catErr, docErr error, path string, rejected, total int) error {
	aw := alerts.NewWriter(w, false)
	checks := []*alerts.Alert{
		alerts.NewSuccess("catalog loaded"),
		alerts.NewSuccess("document loaded").WithDetails(path),
		alerts.NewSuccess(fmt.Sprintf("%d overrides permitted", total)),
	}
	if catErr != nil {
		checks[0] = alerts.NewError("catalog").WithError(catErr)
	}
	if docErr != nil {
		checks[1] = alerts.NewError("document").WithError(docErr)
	}
	if rejected > 0 {
		checks[2] = alerts.NewWarning(fmt.Sprintf("%d of %d overrides would be rejected", rejected, total))
	}
	for _, a := range checks {
		if err := aw.Write(a); err != nil {
			return err
		}
	}
	return nil
}

func firstError(catErr, docErr error, rejected, total int) error {
	switch {
	case catErr != nil:
		return catErr
	case docErr != nil:
		return docErr
	case rejected > 0:
		return &errors.ValidationError{
			Field:   "overrides",
			Message: fmt.Sprintf("%d of %d overrides would be rejected", rejected, total),
		}
	}
	return nil
}
