// Package document holds the flat key→value state shared with the external
// writer, together with its codec. A Document is produced only by decoding
// the persisted format or by merging an overlay into a decoded Document.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/agentstation/overlaysync/pkg/errors"
)

// Document is an immutable flat mapping of string keys to string values.
type Document struct {
	fields map[string]string
}

// Load reads and decodes the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, &errors.DocumentLoadError{Path: path, Err: err}
	}
	doc, err := Decode(data)
	if err != nil {
		if pe, ok := err.(*errors.ParseError); ok {
			pe.File = path
		}
		return Document{}, err
	}
	return doc, nil
}

// utf8BOM is the byte order mark some Windows editors write first.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses a flat JSON object of string values. Nested objects,
// arrays, non-string scalars and empty objects are rejected. A leading
// UTF-8 byte order mark is skipped; any other invalid UTF-8 is rejected
// rather than decoded lossily.
func Decode(data []byte) (Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return Document{}, errors.NewParseError("json", "", "document is not valid UTF-8", nil)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, errors.NewParseError("json", "", err.Error(), err)
	}
	if len(raw) == 0 {
		return Document{}, errors.NewParseError("json", "", "document has no entries", nil)
	}

	fields := make(map[string]string, len(raw))
	for key, msg := range raw {
		var s string
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			return Document{}, errors.NewParseError("json", "", fmt.Sprintf("value of %q is null", key), nil)
		}
		if err := json.Unmarshal(msg, &s); err != nil {
			return Document{}, errors.NewParseError("json", "", fmt.Sprintf("value of %q is not a string", key), err)
		}
		fields[key] = s
	}
	return Document{fields: fields}, nil
}

// Encode renders the document with sorted keys and four-space indentation.
// Equal documents always encode to identical bytes.
func (d Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	fields := d.fields
	if fields == nil {
		fields = map[string]string{}
	}
	if err := enc.Encode(fields); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// With returns a copy of d with key set to value. It only replaces keys
// that already exist; unknown keys leave the copy unchanged.
func (d Document) With(key, value string) Document {
	return d.Replace(map[string]string{key: value})
}

// Replace returns a copy of d where every key of pairs that d already has
// takes the value from pairs. Keys absent from d are ignored.
func (d Document) Replace(pairs map[string]string) Document {
	out := d.Clone()
	for key, value := range pairs {
		if _, ok := out.fields[key]; ok {
			out.fields[key] = value
		}
	}
	return out
}

// Get returns the value for key.
func (d Document) Get(key string) (string, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// Keys returns the document keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys.
func (d Document) Len() int {
	return len(d.fields)
}

// IsZero reports whether d was never loaded.
func (d Document) IsZero() bool {
	return d.fields == nil
}

// Equal reports whether both documents hold the same pairs.
func (d Document) Equal(other Document) bool {
	if len(d.fields) != len(other.fields) {
		return false
	}
	for k, v := range d.fields {
		if ov, ok := other.fields[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	if d.fields == nil {
		return Document{}
	}
	return Document{fields: d.Map()}
}

// Map returns a copy of the underlying pairs.
func (d Document) Map() map[string]string {
	out := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the document as a plain JSON object.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

// MarshalYAML renders the document as a plain mapping.
func (d Document) MarshalYAML() (any, error) {
	return d.Map(), nil
}
