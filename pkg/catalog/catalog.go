// Package catalog loads the allow-list that gates every desired override:
// a mapping from document key to the set of values the engine may write
// for that key. A catalog is immutable once loaded.
package catalog

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/agentstation/overlaysync/pkg/errors"
)

// Catalog maps a document key to its permitted values.
// The zero value is an empty catalog that permits nothing.
type Catalog struct {
	values map[string]map[string]struct{}
}

// New builds a catalog from key → values. Duplicate values collapse.
func New(entries map[string][]string) *Catalog {
	c := &Catalog{values: make(map[string]map[string]struct{}, len(entries))}
	for key, vals := range entries {
		set := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			set[v] = struct{}{}
		}
		c.values[key] = set
	}
	return c
}

// Empty returns a catalog with no keys. Every validation against it fails.
func Empty() *Catalog {
	return &Catalog{values: map[string]map[string]struct{}{}}
}

// Load reads a catalog file. JSON is decoded directly; anything else is
// treated as YAML. The file must hold a top-level mapping of key to an
// array of strings; entries of any other shape are skipped, and a file
// with no usable entries is a CatalogLoadError.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.CatalogLoadError{Path: path, Err: err}
	}

	raw, err := decode(data)
	if err != nil {
		return nil, &errors.CatalogLoadError{Path: path, Err: errors.WrapParse(formatOf(data), path, err)}
	}

	entries := make(map[string][]string, len(raw))
	for key, v := range raw {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		vals := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				vals = append(vals, s)
			}
		}
		entries[key] = vals
	}

	if len(entries) == 0 {
		return nil, &errors.CatalogLoadError{Path: path}
	}
	return New(entries), nil
}

// LoadOrEmpty loads a catalog and degrades to Empty on failure. The load
// error is still returned so the caller can report it.
func LoadOrEmpty(path string) (*Catalog, error) {
	c, err := Load(path)
	if err != nil {
		return Empty(), err
	}
	return c, nil
}

func decode(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func formatOf(data []byte) string {
	if json.Valid(data) {
		return "json"
	}
	return "yaml"
}

// Has reports whether key is in the catalog.
func (c *Catalog) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.values[key]
	return ok
}

// Permits reports whether value is allowed for key.
func (c *Catalog) Permits(key, value string) bool {
	if c == nil {
		return false
	}
	set, ok := c.values[key]
	if !ok {
		return false
	}
	_, ok = set[value]
	return ok
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the permitted values for key in natural order.
func (c *Catalog) Values(key string) []string {
	if c == nil {
		return nil
	}
	set := c.values[key]
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	SortNatural(vals)
	return vals
}

// Entries returns a copy of the catalog as key to naturally ordered values.
func (c *Catalog) Entries() map[string][]string {
	out := make(map[string][]string, c.Len())
	for _, key := range c.Keys() {
		out[key] = c.Values(key)
	}
	return out
}

// Encode renders the catalog as a JSON object with sorted keys, values in
// natural order and four-space indentation. Load reads it back unchanged.
func (c *Catalog) Encode() ([]byte, error) {
	return json.MarshalIndent(c.Entries(), "", "    ")
}

// Len returns the number of keys.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}
