// Package server exposes a running engine over HTTP: status, conflict
// severity, overrides and a live event stream.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/overlaysync"
	"github.com/agentstation/overlaysync/internal/server/cache"
	"github.com/agentstation/overlaysync/internal/server/events"
	"github.com/agentstation/overlaysync/internal/server/events/adapters"
	"github.com/agentstation/overlaysync/internal/server/handlers"
	"github.com/agentstation/overlaysync/internal/server/sse"
	ws "github.com/agentstation/overlaysync/internal/server/websocket"
	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/errors"
	"github.com/agentstation/overlaysync/pkg/overlay"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine         handlers.Engine
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	startOnce      sync.Once
	wg             sync.WaitGroup
}

// New creates a server for engine and registers the hooks that feed the
// event stream.
func New(engine handlers.Engine, cfg Config, logger *zerolog.Logger) *Server {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = constants.DefaultAPIPrefix
	}
	if cfg.ShutdownWait <= 0 {
		cfg.ShutdownWait = constants.ShutdownTimeout
	}

	s := &Server{
		engine:         engine,
		cache:          cache.New(0, time.Hour),
		broker:         events.NewBroker(logger),
		wsHub:          ws.NewHub(logger),
		sseBroadcaster: sse.NewBroadcaster(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger: logger,
		config: cfg,
	}

	s.broker.Subscribe(adapters.NewWebSocketSubscriber(s.wsHub))
	s.broker.Subscribe(adapters.NewSSESubscriber(s.sseBroadcaster))
	s.connectHooks()
	return s
}

// connectHooks publishes engine events to the broker.
func (s *Server) connectHooks() {
	s.engine.OnReconciled(func(ev overlaysync.ReconcileEvent) {
		s.broker.Publish(events.DocumentReconciled, ev)
	})
	s.engine.OnConflict(func(ev overlaysync.ConflictEvent) {
		s.broker.Publish(events.ConflictObserved, ev)
	})
	s.engine.OnRejected(func(key, value string, reason overlay.Reason) {
		s.broker.Publish(events.OverrideRejected, map[string]string{
			"key":    key,
			"value":  value,
			"reason": string(reason),
		})
	})
}

// Start runs the broker and streaming transports until ctx is done.
// Calling it more than once has no effect.
func (s *Server) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.wg.Add(3)
		go func() { defer s.wg.Done(); s.broker.Run(ctx) }()
		go func() { defer s.wg.Done(); s.wsHub.Run(ctx) }()
		go func() { defer s.wg.Done(); s.sseBroadcaster.Run(ctx) }()
	})
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe serves on the configured address until ctx is done,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return errors.WrapResource("listen", "server", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.Start(ctx)

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Diagnostics API listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ShutdownWait)
	defer shutdownCancel()

	// streaming handlers end when the base context is cancelled
	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn().Err(err).Msg("Diagnostics API shutdown timed out")
		_ = srv.Close()
	}
	s.wg.Wait()
	s.logger.Info().Msg("Diagnostics API stopped")
	return nil
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}
