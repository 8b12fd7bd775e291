package overlaysync

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/overlaysync/pkg/errors"
)

// Compile-time interface check to ensure proper implementation.
var _ Worker = (*engine)(nil)

// Worker controls the background poll loop.
type Worker interface {
	// Start launches the poll loop. It returns immediately; the loop runs
	// until ctx is done or Close is called.
	Start(ctx context.Context) error

	// Close stops the poll loop and waits for it to exit. It is safe to
	// call more than once.
	Close() error
}

// Start launches the poll loop if it is not already running.
func (e *engine) Start(ctx context.Context) error {
	e.workerMu.Lock()
	defer e.workerMu.Unlock()

	if e.closed {
		return errors.ErrClosed
	}
	if e.running {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true

	if e.options.fsnotify {
		w, err := newWatcher(e.path, e.nudge, e.logger)
		if err != nil {
			e.logger.Warn().Err(err).Msg("File watcher unavailable, polling only")
		} else {
			e.wg.Add(1)
			go func() {
				defer e.wg.Done()
				w.run(ctx)
			}()
		}
	}

	e.wg.Add(1)
	go e.loop(ctx, time.NewTicker(e.options.poll))

	e.logger.Info().
		Dur("poll", e.options.poll).
		Dur("quiet", e.options.quiet).
		Bool("fsnotify", e.options.fsnotify).
		Msg("Worker started")
	return nil
}

func (e *engine) loop(ctx context.Context, ticker *time.Ticker) {
	defer e.wg.Done()
	defer ticker.Stop()
	defer func() {
		e.workerMu.Lock()
		e.running = false
		e.workerMu.Unlock()
	}()

	for {
		select {
		case <-ticker.C:
		case <-e.nudge:
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		}

		if _, err := e.Tick(ctx); err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, errors.ErrClosed) {
				return
			}
			// failures are recorded in Status and logged by Tick
			e.logger.Debug().Err(err).Msg("Tick failed")
		}
	}
}

// Close stops the worker and waits for it. Ticks already in progress are
// allowed to finish; a settle delay in progress is cut short.
func (e *engine) Close() error {
	e.workerMu.Lock()
	if e.closed {
		e.workerMu.Unlock()
		return nil
	}
	e.closed = true
	close(e.stopCh)
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.workerMu.Unlock()

	e.wg.Wait()
	e.logger.Debug().Msg("Engine closed")
	return nil
}

func (e *engine) isClosed() bool {
	e.workerMu.Lock()
	defer e.workerMu.Unlock()
	return e.closed
}
