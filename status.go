package overlaysync

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/overlaysync/pkg/conflicts"
	"github.com/agentstation/overlaysync/pkg/scheduler"
)

// Status is a point-in-time view of the engine for diagnostics.
type Status struct {
	Path          string                        `json:"path" yaml:"path"`
	State         scheduler.State               `json:"state" yaml:"state"`
	Pending       bool                          `json:"pending" yaml:"pending"`
	Running       bool                          `json:"running" yaml:"running"`
	ModTime       utc.Time                      `json:"mod_time" yaml:"mod_time"`
	LastWriteAt   utc.Time                      `json:"last_write_at" yaml:"last_write_at"`
	LastReconcile *utc.Time                     `json:"last_reconcile,omitempty" yaml:"last_reconcile,omitempty"`
	Reconciles    int                           `json:"reconciles" yaml:"reconciles"`
	Failures      int                           `json:"failures" yaml:"failures"`
	LastError     string                        `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	CatalogKeys   int                           `json:"catalog_keys" yaml:"catalog_keys"`
	Desired       map[string]string             `json:"desired" yaml:"desired"`
	Severities    map[string]conflicts.Severity `json:"severities" yaml:"severities"`
}

// TickResult reports what a single tick did.
type TickResult struct {
	// Changed is set when an external write was detected.
	Changed bool `json:"changed"`
	// Conflicts lists overlay keys the external write disagreed with.
	Conflicts []string `json:"conflicts,omitempty"`
	// Reconciled is set when a reconcile cycle completed.
	Reconciled bool `json:"reconciled"`
	// Written lists the keys the reconcile changed on disk. Empty when the
	// document already matched the overlay.
	Written []string `json:"written,omitempty"`
	// Aborted is set when the document changed during the settle delay.
	Aborted bool `json:"aborted"`
	// CycleID identifies the reconcile cycle, if one started.
	CycleID string          `json:"cycle_id,omitempty"`
	State   scheduler.State `json:"state"`
}

// Status returns a snapshot of the engine.
func (e *engine) Status() Status {
	e.workerMu.Lock()
	running := e.running
	e.workerMu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	ws := e.sched.Snapshot()
	st := Status{
		Path:        e.path,
		State:       ws.State,
		Pending:     ws.Pending,
		Running:     running,
		ModTime:     utc.New(ws.ModTime),
		LastWriteAt: utc.New(ws.LastWriteAt),
		Reconciles:  e.reconciles,
		Failures:    e.failures,
		LastError:   e.lastError,
		CatalogKeys: e.catalog.Len(),
		Desired:     e.overlay.Snapshot(),
		Severities:  e.tracker.Severities(),
	}
	if !e.lastCycle.IsZero() {
		t := utc.New(e.lastCycle)
		st.LastReconcile = &t
	}
	return st
}

func (e *engine) recordFailure(err error) {
	e.failures++
	e.lastError = err.Error()
}

func (e *engine) recordSuccess(at time.Time) {
	e.reconciles++
	e.lastCycle = at
	e.lastError = ""
}
