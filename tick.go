package overlaysync

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync/pkg/document"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/logging"
	"github.com/agentstation/overlaysync/pkg/overlay"
	"github.com/agentstation/overlaysync/pkg/scheduler"
)

// Tick polls the document once. A changed modification time reloads the
// document, records conflicts and restarts the debounce. When the writer
// has been quiet long enough the engine waits out the settle delay,
// reloads again and, unless the document moved in the meantime, merges
// the overlay into it and replaces the file.
//
// Errors are returned for logging; none of them leave the engine unusable.
// A load or parse failure keeps the last good document in memory and a
// persist failure keeps the reconcile pending.
func (e *engine) Tick(ctx context.Context) (res TickResult, err error) {
	if e.isClosed() {
		return TickResult{}, errors.ErrClosed
	}

	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	if err := ctx.Err(); err != nil {
		return TickResult{}, err
	}

	defer func() { res.State = e.state() }()

	if err := e.detect(&res); err != nil {
		return res, err
	}

	e.mu.Lock()
	began := e.sched.Begin(e.options.clock.Now())
	e.mu.Unlock()
	if !began {
		return res, nil
	}

	res.CycleID = uuid.NewString()
	ctx = logging.WithCycleID(logging.WithLogger(ctx, &e.logger), res.CycleID)
	return res, e.reconcile(ctx, &res)
}

// detect reloads the document if its modification time moved.
func (e *engine) detect(res *TickResult) error {
	modTime, err := e.modTime()
	if err != nil {
		return e.loadFailed(err)
	}

	e.mu.Lock()
	changed := e.sched.Changed(modTime)
	e.mu.Unlock()
	if !changed {
		return nil
	}

	doc, err := document.Load(e.path)
	if err != nil {
		return e.loadFailed(err)
	}

	res.Changed = true
	res.Conflicts = e.observe(doc, modTime)
	return nil
}

// observe records an external write under the state lock and fires the
// conflict hooks outside it.
func (e *engine) observe(doc document.Document, modTime time.Time) []string {
	e.mu.Lock()
	now := e.options.clock.Now()
	e.sched.ObserveModTime(modTime, now)
	e.doc = doc
	keys := e.tracker.Observe(doc, e.overlay.Snapshot())
	sev := e.tracker.Severities()
	e.mu.Unlock()

	e.logger.Debug().
		Time("mod_time", modTime).
		Strs("conflicts", keys).
		Msg("External write detected")

	if len(keys) > 0 {
		e.hooks.conflict(ConflictEvent{
			Path:       e.path,
			Keys:       keys,
			Severities: sev,
			Time:       utc.New(now),
		})
	}
	return keys
}

// loadFailed keeps the debounce running without consuming the
// modification time, so the next tick retries the read.
func (e *engine) loadFailed(err error) error {
	e.mu.Lock()
	e.sched.Touch(e.options.clock.Now())
	e.recordFailure(err)
	e.mu.Unlock()
	e.logger.Warn().Err(err).Msg("Document load failed, keeping last good copy")
	return err
}

func (e *engine) reconcile(ctx context.Context, res *TickResult) error {
	log := logging.FromContext(ctx)

	if err := e.options.clock.Sleep(ctx, e.options.settle); err != nil {
		e.mu.Lock()
		e.sched.Abort()
		e.mu.Unlock()
		return err
	}

	modTime, err := e.modTime()
	if err != nil {
		return e.cycleFailed(log, "load", err)
	}
	doc, err := document.Load(e.path)
	if err != nil {
		return e.cycleFailed(log, "load", err)
	}

	e.mu.Lock()
	moved := e.sched.Changed(modTime)
	if moved {
		e.sched.Abort()
	}
	e.mu.Unlock()
	if moved {
		log.Debug().Msg("Document changed while settling, restarting debounce")
		res.Aborted = true
		res.Changed = true
		res.Conflicts = e.observe(doc, modTime)
		return nil
	}

	e.mu.Lock()
	merged := overlay.Merge(doc, e.overlay.Snapshot(), e.catalog)
	e.mu.Unlock()

	written := overlay.Diff(doc, merged)
	if len(written) == 0 {
		e.mu.Lock()
		e.doc = doc
		e.sched.Complete(true, modTime, e.options.clock.Now())
		e.mu.Unlock()
		res.Reconciled = true
		log.Debug().Msg("Document already matches overlay")
		return nil
	}

	data, err := merged.Encode()
	if err != nil {
		return e.cycleFailed(log, "encode", err)
	}
	if err := e.options.persister.Write(e.path, data); err != nil {
		return e.cycleFailed(log, "persist", err)
	}

	// A failed stat leaves a zero baseline; the next tick then rereads our
	// own write and finds nothing to change.
	ownModTime, statErr := e.modTime()
	if statErr != nil {
		log.Warn().Err(statErr).Msg("Could not stat document after write")
	}

	e.mu.Lock()
	now := e.options.clock.Now()
	e.doc = merged
	e.sched.Complete(true, ownModTime, now)
	e.recordSuccess(now)
	e.mu.Unlock()

	res.Reconciled = true
	res.Written = written
	log.Info().Strs("changed", written).Msg("Document reconciled")

	e.hooks.reconciled(ReconcileEvent{
		CycleID: res.CycleID,
		Path:    e.path,
		Changed: written,
		Time:    utc.New(now),
	})
	return nil
}

func (e *engine) cycleFailed(log *zerolog.Logger, stage string, err error) error {
	e.mu.Lock()
	e.sched.Complete(false, time.Time{}, e.options.clock.Now())
	e.recordFailure(err)
	e.mu.Unlock()
	log.Warn().Err(err).Str("stage", stage).Msg("Reconcile failed, will retry")
	return err
}

func (e *engine) modTime() (time.Time, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return time.Time{}, &errors.DocumentLoadError{Path: e.path, Err: err}
	}
	return info.ModTime(), nil
}

func (e *engine) state() scheduler.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched.State()
}
