package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/auth"
	"github.com/homeguardhq/homeguard-core/internal/command"
	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/config"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// CommandDispatcher is the control surface the API needs from the command
// package. Split out as an interface so handler tests can fake the broker.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd command.Command) error
	Toggle(ctx context.Context, deviceID string) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.ServerConfig
	WS         config.WebSocketConfig
	Security   config.SecurityConfig
	MQTT       config.MQTTConfig
	Logger     *logging.Logger
	Devices    device.Repository
	Activity   activity.Repository
	Settings   settings.Repository
	Users      auth.UserRepository
	Dispatcher CommandDispatcher
	Hub        *Hub // If set, the server uses this hub instead of creating its own
	Version    string
}

// Server is the HTTP facade over the stores and the command dispatcher.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg        config.ServerConfig
	wsCfg      config.WebSocketConfig
	secCfg     config.SecurityConfig
	mqttCfg    config.MQTTConfig
	logger     *logging.Logger
	devices    device.Repository
	activity   activity.Repository
	settings   settings.Repository
	users      auth.UserRepository
	dispatcher CommandDispatcher
	version    string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Devices == nil || deps.Activity == nil || deps.Settings == nil {
		return nil, fmt.Errorf("device, activity, and settings stores are required")
	}

	s := &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		secCfg:     deps.Security,
		mqttCfg:    deps.MQTT,
		logger:     deps.Logger.With("component", "api"),
		devices:    deps.Devices,
		activity:   deps.Activity,
		settings:   deps.Settings,
		users:      deps.Users,
		dispatcher: deps.Dispatcher,
		version:    deps.Version,
	}

	// Use an externally-provided hub if available (needed when the
	// reconciler is wired to the hub before the server exists).
	if deps.Hub != nil {
		s.hub = deps.Hub
	}

	return s, nil
}

// logActivity appends an activity entry and pushes it to the hub. Entries
// written here are a side effect of the primary operation and never fail it.
func (s *Server) logActivity(ctx context.Context, message string, entryType activity.EntryType) {
	if err := s.activity.Append(ctx, message, entryType); err != nil {
		s.logger.Error("recording activity entry failed", "error", err)
		return
	}
	s.Hub().EntryLogged(activity.Entry{
		Message:   message,
		Type:      entryType,
		Timestamp: time.Now().UTC(),
	})
}

// Hub returns the WebSocket hub, creating it if necessary. The hub is
// not running until Start() is called.
func (s *Server) Hub() *Hub {
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
	}
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It builds the router, starts the WebSocket hub, and launches the HTTP
// listener in a background goroutine. The server is stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	go s.Hub().Run(srvCtx)

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
// It waits up to 10 seconds for in-flight requests to complete.
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

// HealthCheck verifies the API server is running.
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
