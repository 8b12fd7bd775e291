// Package events fans engine hook callbacks out to the streaming
// transports (WebSocket and SSE) through one broker.
package events

import "time"

// EventType names an engine event.
type EventType string

// Event types published by the diagnostics server.
const (
	// DocumentReconciled follows a document write by the engine.
	DocumentReconciled EventType = "document.reconciled"
	// ConflictObserved follows an external write that disagreed with the overlay.
	ConflictObserved EventType = "conflict.observed"
	// OverrideRejected follows a refused SetDesired call.
	OverrideRejected EventType = "override.rejected"
	// DesiredChanged follows an override accepted through the API.
	DesiredChanged EventType = "desired.changed"
	// ClientConnected is sent when a streaming client attaches.
	ClientConnected EventType = "client.connected"
)

// Event is a typed, timestamped payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
