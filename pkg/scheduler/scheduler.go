// Package scheduler decides when the engine may merge and persist.
//
// The scheduler is a pure state machine: every transition takes the
// current time from the caller, so it never sleeps, never reads files and
// can be driven deterministically in tests.
//
//	Idle ──change or request──▶ PendingQuiet ──quiet elapsed──▶ Reconciling
//	 ▲                            │   ▲                              │
//	 │                            └───┘ change resets the debounce   │
//	 └───────────────────────────── success ◀────────────────────────┘
//	                                 failure / abort ──▶ PendingQuiet
package scheduler

import (
	"fmt"
	"time"

	"github.com/agentstation/overlaysync/pkg/constants"
)

// State is the scheduler's position in the reconcile cycle.
type State int

const (
	// Idle means nothing is waiting to be reconciled.
	Idle State = iota
	// PendingQuiet means a change was seen and the debounce is running.
	PendingQuiet
	// Reconciling means a merge and persist is in progress.
	Reconciling
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingQuiet:
		return "pending_quiet"
	case Reconciling:
		return "reconciling"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// WatchState is a copy of the scheduler's bookkeeping.
type WatchState struct {
	State       State     `json:"state"`
	Pending     bool      `json:"pending"`
	ModTime     time.Time `json:"mod_time"`
	LastWriteAt time.Time `json:"last_write_at"`
}

// Scheduler tracks the document's modification time and the debounce.
// It is not safe for concurrent use; the engine guards it with its state lock.
type Scheduler struct {
	quiet       time.Duration
	state       State
	pending     bool
	modTime     time.Time
	lastWriteAt time.Time

	// seq counts triggers so Complete can tell whether a new change or
	// request arrived while a reconcile was in flight.
	seq      uint64
	beganSeq uint64
}

// New creates a scheduler with the given quiet threshold.
// A non-positive threshold uses the 600ms default.
func New(quiet time.Duration) *Scheduler {
	if quiet <= 0 {
		quiet = constants.DefaultQuietThreshold
	}
	return &Scheduler{quiet: quiet}
}

// Quiet returns the quiet threshold.
func (s *Scheduler) Quiet() time.Duration {
	return s.quiet
}

// Baseline records the modification time seen at startup without
// scheduling a reconcile.
func (s *Scheduler) Baseline(modTime, now time.Time) {
	s.modTime = modTime
	s.lastWriteAt = now
}

// Changed reports whether modTime differs from the last observed one.
func (s *Scheduler) Changed(modTime time.Time) bool {
	return !modTime.Equal(s.modTime)
}

// ObserveModTime records modTime. When it differs from the last observed
// value the debounce restarts at now, a reconcile becomes pending and true
// is returned.
func (s *Scheduler) ObserveModTime(modTime, now time.Time) bool {
	if !s.Changed(modTime) {
		return false
	}
	s.modTime = modTime
	s.trigger(now, true)
	return true
}

// Request marks a reconcile as pending after an overlay change. The
// debounce starts at now when the scheduler was idle; a debounce already
// running is left alone.
func (s *Scheduler) Request(now time.Time) {
	s.trigger(now, s.state == Idle)
}

// Touch restarts the debounce without consuming a modification time. It
// is used when the writer is active but its output could not be read yet.
func (s *Scheduler) Touch(now time.Time) {
	s.lastWriteAt = now
}

func (s *Scheduler) trigger(now time.Time, resetDebounce bool) {
	s.seq++
	s.pending = true
	if resetDebounce {
		s.lastWriteAt = now
	}
	if s.state == Idle {
		s.state = PendingQuiet
	}
}

// Due reports whether a pending reconcile has been quiet for long enough.
func (s *Scheduler) Due(now time.Time) bool {
	return s.state == PendingQuiet && s.pending && now.Sub(s.lastWriteAt) >= s.quiet
}

// Remaining returns how long until Due would report true, or zero.
func (s *Scheduler) Remaining(now time.Time) time.Duration {
	if !s.pending {
		return 0
	}
	if left := s.quiet - now.Sub(s.lastWriteAt); left > 0 {
		return left
	}
	return 0
}

// Begin moves a due scheduler into Reconciling. It returns false, and
// changes nothing, when no reconcile is due.
func (s *Scheduler) Begin(now time.Time) bool {
	if !s.Due(now) {
		return false
	}
	s.state = Reconciling
	s.beganSeq = s.seq
	return true
}

// Abort returns an in-flight reconcile to PendingQuiet, keeping it pending.
func (s *Scheduler) Abort() {
	if s.state == Reconciling {
		s.state = PendingQuiet
	}
}

// Complete ends an in-flight reconcile. On success the persisted file's
// modification time becomes the new baseline so the engine's own write is
// not mistaken for an external one, and the pending flag clears unless a
// new trigger arrived meanwhile. On failure the reconcile stays pending
// and is retried the next time it is due.
func (s *Scheduler) Complete(ok bool, modTime, now time.Time) {
	if s.state != Reconciling {
		return
	}
	if !ok {
		s.state = PendingQuiet
		return
	}
	s.modTime = modTime
	s.lastWriteAt = now
	if s.seq == s.beganSeq {
		s.pending = false
		s.state = Idle
		return
	}
	s.state = PendingQuiet
}

// State returns the current state.
func (s *Scheduler) State() State {
	return s.state
}

// Snapshot returns a copy of the bookkeeping.
func (s *Scheduler) Snapshot() WatchState {
	return WatchState{
		State:       s.state,
		Pending:     s.pending,
		ModTime:     s.modTime,
		LastWriteAt: s.lastWriteAt,
	}
}
