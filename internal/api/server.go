// Package api provides the HTTP REST API and WebSocket server for Argus Core.
//
// It exposes tracker fleet operations (registration, lock control, motion
// and location history, notifications) to operator dashboards and mobile
// apps, and pushes notifications to WebSocket subscribers in real time.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/argus-iot/argus-core/internal/infrastructure/config"
	"github.com/argus-iot/argus-core/internal/infrastructure/logging"
	"github.com/argus-iot/argus-core/internal/location"
	"github.com/argus-iot/argus-core/internal/lock"
	"github.com/argus-iot/argus-core/internal/motion"
	"github.com/argus-iot/argus-core/internal/notification"
	"github.com/argus-iot/argus-core/internal/tracker"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Publisher sends raw messages to the broker. Satisfied by mqtt.Client.
// Used by the ad-hoc publish endpoint.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config        config.APIConfig
	WS            config.WebSocketConfig
	Security      config.SecurityConfig
	Logger        *logging.Logger
	Trackers      *tracker.Service
	Reconciler    *tracker.Reconciler
	Locks         lock.Repository
	Motions       *motion.Processor
	Locations     *location.Recorder
	Notifications *notification.Service
	Publisher     Publisher // optional; ad-hoc publish endpoint returns 503 without it
	ExternalHub   *Hub      // if set, the server uses this hub instead of creating its own
	Version       string
}

// Server is the HTTP API server for Argus Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg           config.APIConfig
	wsCfg         config.WebSocketConfig
	secCfg        config.SecurityConfig
	logger        *logging.Logger
	trackers      *tracker.Service
	reconciler    *tracker.Reconciler
	locks         lock.Repository
	motions       *motion.Processor
	locations     *location.Recorder
	notifications *notification.Service
	publisher     Publisher
	version       string
	server        *http.Server
	hub           *Hub
	externalHub   bool
	tickets       *ticketStore
	cancel        context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Trackers == nil {
		return nil, fmt.Errorf("tracker service is required")
	}
	if deps.Reconciler == nil {
		return nil, fmt.Errorf("reconciler is required")
	}

	s := &Server{
		cfg:           deps.Config,
		wsCfg:         deps.WS,
		secCfg:        deps.Security,
		logger:        deps.Logger,
		trackers:      deps.Trackers,
		reconciler:    deps.Reconciler,
		locks:         deps.Locks,
		motions:       deps.Motions,
		locations:     deps.Locations,
		notifications: deps.Notifications,
		publisher:     deps.Publisher,
		version:       deps.Version,
		tickets:       newTicketStore(),
	}

	// Use externally-provided hub if available (needed when the notification
	// service also requires the hub for broadcasting).
	if deps.ExternalHub != nil {
		s.hub = deps.ExternalHub
		s.externalHub = true
	}

	return s, nil
}

// Hub returns the server's WebSocket hub, creating it if necessary.
// Exposed so the notification service can be wired to broadcast through it.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	if !s.externalHub {
		go s.hub.Run(srvCtx)
	}

	// Periodic ticket cleanup to prevent memory leaks
	go s.tickets.cleanLoop(srvCtx)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
