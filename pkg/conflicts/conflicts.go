// Package conflicts records, per overlay key, whether recent external writes
// disagreed with the desired value, and classifies how often that happens.
// The classification is diagnostic only.
package conflicts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/document"
)

// Severity is a band over the number of conflicts in a key's window.
type Severity int

const (
	// Nominal means fewer conflicts than the elevated threshold.
	Nominal Severity = iota
	// Elevated means at least the elevated threshold but below high.
	Elevated
	// High means at least the high threshold.
	High
)

// String returns the band name.
func (s Severity) String() string {
	switch s {
	case Nominal:
		return "nominal"
	case Elevated:
		return "elevated"
	case High:
		return "high"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText renders the band by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a band name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "nominal":
		*s = Nominal
	case "elevated":
		*s = Elevated
	case "high":
		*s = High
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Tracker keeps a bounded FIFO of conflict observations per key. It is not
// safe for concurrent use; the engine guards it with its state lock.
type Tracker struct {
	window   int
	elevated int
	high     int
	history  map[string][]bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithThresholds sets the in-window counts at which a key becomes elevated and high.
func WithThresholds(elevated, high int) Option {
	return func(t *Tracker) {
		if elevated > 0 && high >= elevated {
			t.elevated, t.high = elevated, high
		}
	}
}

// New creates a tracker keeping at most window observations per key.
// A non-positive window uses the default of 10.
func New(window int, opts ...Option) *Tracker {
	if window <= 0 {
		window = constants.DefaultHistoryWindow
	}
	t := &Tracker{
		window:   window,
		elevated: constants.DefaultElevatedThreshold,
		high:     constants.DefaultHighThreshold,
		history:  make(map[string][]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe records one observation for every desired key: a conflict when
// doc holds the key with a different value. It returns the conflicting
// keys in sorted order.
func (t *Tracker) Observe(doc document.Document, desired map[string]string) []string {
	keys := make([]string, 0, len(desired))
	for k := range desired {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicting []string
	for _, key := range keys {
		current, ok := doc.Get(key)
		conflict := ok && current != desired[key]
		t.record(key, conflict)
		if conflict {
			conflicting = append(conflicting, key)
		}
	}
	return conflicting
}

func (t *Tracker) record(key string, conflict bool) {
	h := append(t.history[key], conflict)
	if len(h) > t.window {
		// copy so the evicted prefix does not pin the backing array forever
		h = append([]bool(nil), h[len(h)-t.window:]...)
	}
	t.history[key] = h
}

// Count returns the number of conflicts in key's window.
func (t *Tracker) Count(key string) int {
	n := 0
	for _, c := range t.history[key] {
		if c {
			n++
		}
	}
	return n
}

// History returns a copy of key's window, oldest first.
func (t *Tracker) History(key string) []bool {
	return append([]bool(nil), t.history[key]...)
}

// Severity classifies key by its in-window conflict count.
func (t *Tracker) Severity(key string) Severity {
	return t.classify(t.Count(key))
}

func (t *Tracker) classify(n int) Severity {
	switch {
	case n >= t.high:
		return High
	case n >= t.elevated:
		return Elevated
	default:
		return Nominal
	}
}

// Severities returns the band of every key with history.
func (t *Tracker) Severities() map[string]Severity {
	out := make(map[string]Severity, len(t.history))
	for key := range t.history {
		out[key] = t.Severity(key)
	}
	return out
}

// Window returns the history length limit.
func (t *Tracker) Window() int {
	return t.window
}
