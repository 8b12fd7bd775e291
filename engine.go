// Package overlaysync keeps a set of desired overrides applied to a flat
// JSON document that an external program also rewrites.
//
// The engine polls the document, records whether each external write
// disagreed with the overrides, waits for the writer to go quiet, then
// merges the overrides into the latest version and replaces the file
// atomically. Only keys the document already has are ever written, and
// only values the catalog permits.
//
// Example usage:
//
//	eng, err := overlaysync.New("skin.json",
//	    overlaysync.WithCatalogPath("allowed_cosmetics.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	eng.OnReconciled(func(ev overlaysync.ReconcileEvent) {
//	    log.Printf("wrote %v", ev.Changed)
//	})
//
//	if out := eng.SetDesired("hat", "red"); !out.Accepted() {
//	    log.Printf("rejected: %s", out.Reason)
//	}
//
//	if err := eng.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package overlaysync

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/conflicts"
	"github.com/agentstation/overlaysync/pkg/document"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/overlay"
	"github.com/agentstation/overlaysync/pkg/persist"
	"github.com/agentstation/overlaysync/pkg/scheduler"
)

// Compile-time interface check to ensure proper implementation.
var _ Engine = (*engine)(nil)

// Engine reconciles desired overrides into an externally written document.
type Engine interface {
	// SetDesired validates and stores an override and schedules a reconcile
	SetDesired(key, value string) overlay.Outcome

	// Tick runs one poll: change detection, conflict tracking and, when
	// due, a reconcile
	Tick(ctx context.Context) (TickResult, error)

	// Worker starts and stops the background poll loop
	Worker

	// Inspector exposes read-only diagnostics
	Inspector

	// Hooks provides access to event callback registration
	Hooks
}

// Inspector provides read-only views of engine state.
type Inspector interface {
	Severity(key string) conflicts.Severity
	Severities() map[string]conflicts.Severity
	Desired() map[string]string
	Document() document.Document
	Catalog() *catalog.Catalog
	Status() Status
}

// engine is the internal implementation of the Engine interface.
type engine struct {
	options *options
	path    string
	logger  zerolog.Logger

	// mu guards everything below up to the worker state
	mu         sync.Mutex
	catalog    *catalog.Catalog
	overlay    *overlay.Overlay
	tracker    *conflicts.Tracker
	sched      *scheduler.Scheduler
	doc        document.Document
	reconciles int
	failures   int
	lastError  string
	lastCycle  time.Time

	// tickMu serializes ticks so two reconciles never overlap
	tickMu sync.Mutex

	// worker state
	workerMu sync.Mutex
	running  bool
	closed   bool
	stopCh   chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	nudge    chan struct{}

	hooks *hooks
}

// New loads the document at path and returns an engine for it. It fails
// only when the document cannot be loaded; a missing or unusable catalog
// degrades to an empty one, which rejects every override.
func New(path string, opts ...Option) (Engine, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	e := &engine{
		options: o,
		path:    path,
		logger:  o.logger.With().Str("path", path).Logger(),
		tracker: conflicts.New(o.historyWindow, conflicts.WithThresholds(o.elevated, o.high)),
		sched:   scheduler.New(o.quiet),
		nudge:   make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		hooks:   newHooks(),
	}

	e.catalog = e.loadCatalog()

	info, err := os.Stat(path)
	if err != nil {
		return nil, &errors.DocumentLoadError{Path: path, Err: err}
	}
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}

	if n, err := persist.CleanupStale(path); err != nil {
		e.logger.Warn().Err(err).Msg("Could not remove stale temp files")
	} else if n > 0 {
		e.logger.Debug().Int("removed", n).Msg("Removed stale temp files")
	}

	now := o.clock.Now()
	e.doc = doc
	e.overlay = overlay.Seed(e.catalog, doc)
	e.sched.Baseline(info.ModTime(), now)

	e.logger.Debug().
		Int("keys", doc.Len()).
		Int("catalog_keys", e.catalog.Len()).
		Int("seeded", e.overlay.Len()).
		Msg("Engine created")

	for _, key := range sortedKeys(o.initialDesired) {
		if out := e.SetDesired(key, o.initialDesired[key]); !out.Accepted() {
			e.logger.Warn().
				Str("key", key).
				Str("value", out.Value).
				Str("reason", string(out.Reason)).
				Msg("Initial override rejected")
		}
	}

	return e, nil
}

func (e *engine) loadCatalog() *catalog.Catalog {
	if e.options.catalog != nil {
		return e.options.catalog
	}
	if e.options.catalogPath == "" {
		e.logger.Warn().Msg("No catalog configured, every override will be rejected")
		return catalog.Empty()
	}
	cat, err := catalog.LoadOrEmpty(e.options.catalogPath)
	if err != nil {
		e.logger.Warn().Err(err).Str("catalog", e.options.catalogPath).
			Msg("Catalog unavailable, every override will be rejected")
	}
	return cat
}

// Severity returns the conflict severity band for key.
func (e *engine) Severity(key string) conflicts.Severity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Severity(key)
}

// Severities returns the severity band of every tracked key.
func (e *engine) Severities() map[string]conflicts.Severity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Severities()
}

// Document returns a copy of the last document loaded or written.
func (e *engine) Document() document.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Catalog returns the catalog overrides are validated against.
func (e *engine) Catalog() *catalog.Catalog {
	return e.catalog
}
