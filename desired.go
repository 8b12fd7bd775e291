package overlaysync

import (
	"sort"

	"github.com/agentstation/overlaysync/pkg/overlay"
)

// SetDesired validates value against the catalog and stores it. Applied
// and Unchanged outcomes both schedule a reconcile; a rejected call
// changes nothing and fires the OnRejected hooks.
func (e *engine) SetDesired(key, value string) overlay.Outcome {
	e.mu.Lock()
	out := e.overlay.Set(key, value)
	if out.Accepted() {
		e.sched.Request(e.options.clock.Now())
	}
	e.mu.Unlock()

	log := e.logger.With().Str("key", key).Str("value", value).Logger()
	switch out.Result {
	case overlay.Rejected:
		log.Debug().Str("reason", string(out.Reason)).Msg("Override rejected")
		e.hooks.rejected(out)
	case overlay.Applied:
		log.Debug().Msg("Override applied")
	}
	return out
}

// Desired returns a copy of the overlay.
func (e *engine) Desired() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.overlay.Snapshot()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
