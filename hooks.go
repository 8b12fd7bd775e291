package overlaysync

import (
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/overlaysync/pkg/conflicts"
	"github.com/agentstation/overlaysync/pkg/overlay"
)

// Hooks registers callbacks for engine events. Callbacks run on the
// goroutine that produced the event, outside the engine's state lock.
type Hooks interface {
	OnReconciled(fn ReconciledHook)
	OnConflict(fn ConflictHook)
	OnRejected(fn RejectedHook)
}

// ReconcileEvent describes a document write made by the engine.
type ReconcileEvent struct {
	CycleID string   `json:"cycle_id"`
	Path    string   `json:"path"`
	Changed []string `json:"changed"`
	Time    utc.Time `json:"time"`
}

// ConflictEvent describes an external write that disagreed with the overlay.
type ConflictEvent struct {
	Path       string                        `json:"path"`
	Keys       []string                      `json:"keys"`
	Severities map[string]conflicts.Severity `json:"severities"`
	Time       utc.Time                      `json:"time"`
}

// Hook function types for engine events
type (
	// ReconciledHook is called after the engine replaced the document
	ReconciledHook func(event ReconcileEvent)

	// ConflictHook is called when an external write conflicts with the overlay
	ConflictHook func(event ConflictEvent)

	// RejectedHook is called when SetDesired rejects an override
	RejectedHook func(key, value string, reason overlay.Reason)
)

// hooks manages event callbacks
type hooks struct {
	mu           sync.RWMutex
	onReconciled []ReconciledHook
	onConflict   []ConflictHook
	onRejected   []RejectedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

func (h *hooks) addReconciled(fn ReconciledHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReconciled = append(h.onReconciled, fn)
}

func (h *hooks) addConflict(fn ConflictHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConflict = append(h.onConflict, fn)
}

func (h *hooks) addRejected(fn RejectedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRejected = append(h.onRejected, fn)
}

func (h *hooks) reconciled(ev ReconcileEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onReconciled {
		fn(ev)
	}
}

func (h *hooks) conflict(ev ConflictEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onConflict {
		fn(ev)
	}
}

func (h *hooks) rejected(out overlay.Outcome) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onRejected {
		fn(out.Key, out.Value, out.Reason)
	}
}

// OnReconciled registers a callback for document writes.
func (e *engine) OnReconciled(fn ReconciledHook) { e.hooks.addReconciled(fn) }

// OnConflict registers a callback for conflicting external writes.
func (e *engine) OnConflict(fn ConflictHook) { e.hooks.addConflict(fn) }

// OnRejected registers a callback for rejected overrides.
func (e *engine) OnRejected(fn RejectedHook) { e.hooks.addRejected(fn) }
