package overlaysync

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/persist"
)

// watcher turns file system events for the document into tick nudges.
// It watches the parent directory so atomic replaces, which swap the
// inode, keep being reported.
type watcher struct {
	fs     *fsnotify.Watcher
	name   string
	nudge  chan<- struct{}
	logger zerolog.Logger
}

func newWatcher(path string, nudge chan<- struct{}, logger zerolog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapIO("watch", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapIO("watch", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, errors.WrapIO("watch", filepath.Dir(abs), err)
	}
	return &watcher{fs: fw, name: filepath.Base(abs), nudge: nudge, logger: logger}, nil
}

// run forwards events until ctx is done, then closes the watcher.
func (w *watcher) run(ctx context.Context) {
	defer func() { _ = w.fs.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			select {
			case w.nudge <- struct{}{}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

func (w *watcher) relevant(ev fsnotify.Event) bool {
	if persist.IsTemp(ev.Name) || filepath.Base(ev.Name) != w.name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
