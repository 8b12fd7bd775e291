// Package locate finds the document an external writer most recently saved.
package locate

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/persist"
)

// Newest returns the most recently modified regular file in dir whose name
// matches pattern. Temp files left by the persister and names listed in
// exclude are ignored. Ties are broken by name so the result is stable.
func Newest(dir, pattern string, exclude ...string) (string, error) {
	if pattern == "" {
		pattern = constants.DefaultDocumentPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return "", &errors.ValidationError{Field: "pattern", Value: pattern, Message: err.Error()}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.WrapIO("read", dir, err)
	}

	var (
		best     string
		bestTime time.Time
	)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || persist.IsTemp(name) || slices.Contains(exclude, name) {
			continue
		}
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		mt := info.ModTime()
		if best == "" || mt.After(bestTime) || (mt.Equal(bestTime) && name > filepath.Base(best)) {
			best = filepath.Join(dir, name)
			bestTime = mt
		}
	}

	if best == "" {
		return "", errors.NewNotFoundError("document", filepath.Join(dir, pattern))
	}
	return best, nil
}
