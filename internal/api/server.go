package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/irrigation-dashboard/internal/credentials"
	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/config"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/logging"
	"github.com/nerrad567/irrigation-dashboard/internal/panel"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Core is the dashboard the API drives.
type Core interface {
	View(ctx context.Context) (panel.View, error)
	Status(ctx context.Context) (session.Status, error)
	SaveAndConnect(ctx context.Context, cfg credentials.ConnectionConfig) error
	Disconnect(ctx context.Context) error
	Forget(ctx context.Context) error
	SetActuator(ctx context.Context, id device.ActuatorID, on bool) error
	SetActuatorTimed(ctx context.Context, id device.ActuatorID, durationMs int) error
	UpdateSchedule(ctx context.Context, id device.ActuatorID, cfg device.ScheduleConfig) error
}

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Core     Core
	Database HealthChecker // optional
	Version  string
}

// Server is the HTTP API server.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	core     Core
	database HealthChecker
	version  string
	server   *http.Server
	hub      *Hub
	cancel   context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called, but the hub exists
// immediately so views can be broadcast from the moment the core starts.
//
// Parameters:
//   - deps: Required dependencies (config, logger, core)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Core == nil {
		return nil, fmt.Errorf("dashboard core is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		core:     deps.Core,
		database: deps.Database,
		version:  deps.Version,
		hub:      NewHub(deps.WS, deps.Logger),
	}, nil
}

// BroadcastView pushes a rendered view to every WebSocket client.
// It never blocks; slow clients miss intermediate views.
func (s *Server) BroadcastView(v panel.View) {
	s.hub.Broadcast(ChannelView, v)
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
//
// Parameters:
//   - ctx: Parent context for background goroutines
//
// Returns:
//   - error: If the server fails to start
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
