// Package overlay holds the overrides the owning process wants enforced on
// the document and the closed-world merge that applies them.
package overlay

import (
	"sort"

	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/document"
)

// Result classifies the outcome of a Set call.
type Result int

const (
	// Applied means the overlay now holds a new value for the key.
	Applied Result = iota
	// Unchanged means the key already held the requested value.
	Unchanged
	// Rejected means validation failed and the overlay was not touched.
	Rejected
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// MarshalText renders the result by name.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Reason explains a rejection.
type Reason string

const (
	// ReasonNone is set on accepted calls.
	ReasonNone Reason = ""
	// ReasonUnknownKey means the key is not in the catalog.
	ReasonUnknownKey Reason = "unknown_key"
	// ReasonValueNotPermitted means the value is not in the key's permitted set.
	ReasonValueNotPermitted Reason = "value_not_permitted"
)

// Outcome is returned by Set so callers can tell applied from rejected.
type Outcome struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Result Result `json:"result"`
	Reason Reason `json:"reason,omitempty"`
}

// Accepted reports whether the overlay holds value for key after the call.
func (o Outcome) Accepted() bool {
	return o.Result != Rejected
}

// Overlay is the set of desired key/value overrides. It is not safe for
// concurrent use; the engine guards it with its state lock.
type Overlay struct {
	catalog *catalog.Catalog
	desired map[string]string
}

// New returns an empty overlay validated against cat.
func New(cat *catalog.Catalog) *Overlay {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Overlay{catalog: cat, desired: make(map[string]string)}
}

// Seed returns an overlay holding every pair of doc that the catalog permits.
func Seed(cat *catalog.Catalog, doc document.Document) *Overlay {
	o := New(cat)
	for _, key := range doc.Keys() {
		value, _ := doc.Get(key)
		if o.catalog.Permits(key, value) {
			o.desired[key] = value
		}
	}
	return o
}

// Set validates and stores a desired value. Rejected calls are no-ops.
func (o *Overlay) Set(key, value string) Outcome {
	out := Outcome{Key: key, Value: value}
	switch {
	case !o.catalog.Has(key):
		out.Result, out.Reason = Rejected, ReasonUnknownKey
	case !o.catalog.Permits(key, value):
		out.Result, out.Reason = Rejected, ReasonValueNotPermitted
	case o.desired[key] == value && o.has(key):
		out.Result = Unchanged
	default:
		o.desired[key] = value
		out.Result = Applied
	}
	return out
}

func (o *Overlay) has(key string) bool {
	_, ok := o.desired[key]
	return ok
}

// Get returns the desired value for key.
func (o *Overlay) Get(key string) (string, bool) {
	v, ok := o.desired[key]
	return v, ok
}

// Keys returns the overlay keys in sorted order.
func (o *Overlay) Keys() []string {
	keys := make([]string, 0, len(o.desired))
	for k := range o.desired {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the desired pairs.
func (o *Overlay) Snapshot() map[string]string {
	out := make(map[string]string, len(o.desired))
	for k, v := range o.desired {
		out[k] = v
	}
	return out
}

// Len returns the number of desired pairs.
func (o *Overlay) Len() int {
	return len(o.desired)
}

// Catalog returns the catalog the overlay validates against.
func (o *Overlay) Catalog() *catalog.Catalog {
	return o.catalog
}
