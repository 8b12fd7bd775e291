// Package persist replaces files on disk so readers never observe a
// partially written document.
package persist

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/errors"
)

// Writer is implemented by anything that can replace a file's contents.
type Writer interface {
	Write(path string, data []byte) error
}

// RenameFunc replaces newpath with oldpath. It matches os.Rename.
type RenameFunc func(oldpath, newpath string) error

// Persister writes a sibling temp file, syncs it and renames it over the
// target. Either the old or the new content is visible at the target path.
type Persister struct {
	rename RenameFunc
	perm   fs.FileMode
	sync   bool
}

// Option configures a Persister.
type Option func(*Persister)

// WithRename replaces os.Rename, mainly so tests can simulate a failing replace.
func WithRename(fn RenameFunc) Option {
	return func(p *Persister) {
		if fn != nil {
			p.rename = fn
		}
	}
}

// WithoutSync skips the fsync before rename.
func WithoutSync() Option {
	return func(p *Persister) {
		p.sync = false
	}
}

// New creates a Persister.
func New(opts ...Option) *Persister {
	p := &Persister{
		rename: os.Rename,
		perm:   constants.FilePermissions,
		sync:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TempGlob returns the glob matching temp artifacts for path.
func TempGlob(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+constants.TempPattern)
}

// IsTemp reports whether name looks like a persister temp artifact.
func IsTemp(name string) bool {
	base := filepath.Base(name)
	return len(base) > 1 && base[0] == '.' && filepath.Ext(base) == ".tmp"
}

// Write replaces path with data. On any failure the target is left as it
// was and the temp file is removed.
func (p *Persister) Write(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	perm := p.perm
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+base+constants.TempPattern)
	if err != nil {
		return errors.NewPersistError(path, "create", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.NewPersistError(path, "write", err)
	}
	if p.sync {
		if err = tmp.Sync(); err != nil {
			_ = tmp.Close()
			return errors.NewPersistError(path, "sync", err)
		}
	}
	if err = tmp.Close(); err != nil {
		return errors.NewPersistError(path, "close", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return errors.NewPersistError(path, "chmod", err)
	}
	if err = p.rename(tmpPath, path); err != nil {
		return errors.NewPersistError(path, "replace", err)
	}
	return nil
}

// CleanupStale removes temp artifacts left next to path by an interrupted
// write and returns how many were removed.
func CleanupStale(path string) (int, error) {
	matches, err := filepath.Glob(TempGlob(path))
	if err != nil {
		return 0, errors.WrapIO("glob", path, err)
	}
	removed := 0
	var errs []error
	for _, m := range matches {
		if rmErr := os.Remove(m); rmErr != nil && !os.IsNotExist(rmErr) {
			errs = append(errs, errors.WrapIO("remove", m, rmErr))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
