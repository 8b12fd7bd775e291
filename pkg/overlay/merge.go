package overlay

import (
	"github.com/agentstation/overlaysync/pkg/catalog"
	"github.com/agentstation/overlaysync/pkg/document"
)

// Merge applies desired values onto doc. A key takes the desired value only
// when doc already has the key and cat still permits the pair; every other
// key keeps the document's value. The key set of the result always equals
// the key set of doc.
func Merge(doc document.Document, desired map[string]string, cat *catalog.Catalog) document.Document {
	pairs := make(map[string]string, len(desired))
	for key, value := range desired {
		if cat.Permits(key, value) {
			pairs[key] = value
		}
	}
	return doc.Replace(pairs)
}

// Diff returns the sorted keys whose value differs between before and after.
func Diff(before, after document.Document) []string {
	var changed []string
	for _, key := range after.Keys() {
		a, _ := after.Get(key)
		if b, ok := before.Get(key); !ok || a != b {
			changed = append(changed, key)
		}
	}
	return changed
}
