package output

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/conflicts"
	"github.com/agentstation/overlaysync/pkg/document"
	"github.com/agentstation/overlaysync/pkg/overlay"
)

// Status lays out an engine status as a property table.
type Status overlaysync.Status

// TableData implements Tabler.
func (s Status) TableData(wide bool) Data {
	last := "-"
	if s.LastReconcile != nil {
		last = stamp(*s.LastReconcile)
	}
	rows := [][]string{
		{"Path", s.Path},
		{"State", s.State.String()},
		{"Pending", strconv.FormatBool(s.Pending)},
		{"Running", strconv.FormatBool(s.Running)},
		{"Reconciles", strconv.Itoa(s.Reconciles)},
		{"Failures", strconv.Itoa(s.Failures)},
		{"Last Reconcile", last},
	}
	if s.LastError != "" {
		rows = append(rows, []string{"Last Error", s.LastError})
	}
	if wide {
		rows = append(rows,
			[]string{"Mod Time", stamp(s.ModTime)},
			[]string{"Last Write", stamp(s.LastWriteAt)},
			[]string{"Catalog Keys", strconv.Itoa(s.CatalogKeys)},
			[]string{"Desired", strconv.Itoa(len(s.Desired))},
		)
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// Severities lays out conflict bands per key.
type Severities map[string]conflicts.Severity

// TableData implements Tabler.
func (s Severities) TableData(bool) Data {
	rows := make([][]string, 0, len(s))
	for _, key := range sortedKeys(s) {
		rows = append(rows, []string{key, s[key].String()})
	}
	return Data{Headers: []string{"Key", "Severity"}, Rows: rows}
}

// Catalog lays out the permitted values per key.
type Catalog struct {
	*catalog.Catalog
}

// TableData implements Tabler. Wide adds a value count column.
func (c Catalog) TableData(wide bool) Data {
	headers := []string{"Key", "Permitted Values"}
	align := []Align{AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Count")
		align = append(align, AlignRight)
	}
	var rows [][]string
	for _, key := range c.Keys() {
		values := c.Values(key)
		row := []string{key, strings.Join(values, ", ")}
		if wide {
			row = append(row, strconv.Itoa(len(values)))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// Merge lays out a document next to the overlay applied to it.
type Merge struct {
	Before  document.Document `json:"before"`
	After   document.Document `json:"after"`
	Changed []string          `json:"changed"`
}

// NewMerge computes the merge of desired into doc under cat.
func NewMerge(doc document.Document, desired map[string]string, cat *catalog.Catalog) Merge {
	after := overlay.Merge(doc, desired, cat)
	return Merge{Before: doc, After: after, Changed: overlay.Diff(doc, after)}
}

// TableData implements Tabler.
func (m Merge) TableData(bool) Data {
	changed := make(map[string]bool, len(m.Changed))
	for _, k := range m.Changed {
		changed[k] = true
	}
	rows := make([][]string, 0, m.After.Len())
	for _, key := range m.After.Keys() {
		before, _ := m.Before.Get(key)
		after, _ := m.After.Get(key)
		mark := ""
		if changed[key] {
			mark = "*"
		}
		rows = append(rows, []string{key, before, after, mark})
	}
	return Data{
		Headers:         []string{"Key", "Document", "Merged", "Changed"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignCenter},
	}
}

func stamp(t utc.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
