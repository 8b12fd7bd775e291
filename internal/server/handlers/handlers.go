// Package handlers implements the diagnostics API endpoints.
package handlers

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/internal/server/cache"
	"github.com/agentstation/overlaysync/internal/server/events"
	"github.com/agentstation/overlaysync/internal/server/sse"
	ws "github.com/agentstation/overlaysync/internal/server/websocket"
	"github.com/agentstation/overlaysync/pkg/overlay"
)

// Engine is the part of the reconciliation engine the API serves.
type Engine interface {
	overlaysync.Inspector
	overlaysync.Hooks
	SetDesired(key, value string) overlay.Outcome
}

// Handlers holds the dependencies shared by every endpoint.
type Handlers struct {
	engine         Engine
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// New creates a Handlers instance.
func New(
	engine Engine,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		engine:         engine,
		cache:          cache,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}
