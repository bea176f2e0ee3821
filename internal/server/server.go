package server

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/alexliesenfeld/health"

	"github.com/jpalmerr/sitepulse/internal/publish"
	"github.com/jpalmerr/sitepulse/internal/store"
)

const (
	// streamWriteTimeout is the maximum time allowed for a single SSE or
	// WebSocket write. This prevents goroutine leaks when clients are slow or
	// disconnected. Must be <= shutdown timeout to ensure clean shutdown.
	streamWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// defaultTitle is used when no custom title is configured.
	defaultTitle = "SitePulse"

	// titlePlaceholder is the marker in HTML that gets replaced with the actual title.
	titlePlaceholder = "{{.Title}}"
)

// Registry is the endpoint registry the API reads and mutates.
// [store.Registry] implements it.
type Registry interface {
	List() []string
	Add(rawURL string) (string, error)
	RemoveByIdentifier(id string) (string, error)
	UpdateAt(pos int, rawURL string) (string, error)
	Move(from, to int) error
	Statuses() []store.EndpointStatus
}

// Broadcaster hands out event subscriptions for the streaming endpoints.
// [publish.Hub] implements it.
type Broadcaster interface {
	Subscribe() <-chan publish.Event
	Unsubscribe(ch <-chan publish.Event)
}

// Config holds the server's settings.
type Config struct {
	// Port is the TCP port to listen on. 0 lets the OS choose.
	Port int

	// Title is the dashboard title. Defaults to "SitePulse".
	Title string

	// Assets holds "assets/index.html". If nil, "/" is not served.
	Assets fs.FS

	// Metrics serves "/metrics". If nil, the route is not mounted.
	Metrics http.Handler

	// Checks are evaluated by "/healthz".
	Checks []health.Check
}

// Server handles HTTP requests for the dashboard and API.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	registry   Registry
	events     Broadcaster
	port       int
	assets     fs.FS
	title      string
	metrics    http.Handler
	checks     []health.Check
	logger     *slog.Logger
	handler    http.Handler
	httpServer *http.Server

	mu   sync.Mutex
	addr net.Addr
}

// NewServer creates a new HTTP [Server].
//
// The server is not started until [Server.Start] is called, but its handler
// is ready immediately via [Server.Handler].
func NewServer(registry Registry, events Broadcaster, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		registry: registry,
		events:   events,
		port:     cfg.Port,
		assets:   cfg.Assets,
		title:    cfg.Title,
		metrics:  cfg.Metrics,
		checks:   cfg.Checks,
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the address the server is listening on, or nil before
// [Server.Start] succeeds.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// status and streams
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/sse", s.handleSSE)
	mux.HandleFunc("GET /api/ws", s.handleWebSocket)

	// registry
	mux.HandleFunc("GET /websites", s.handleListWebsites)
	mux.HandleFunc("POST /websites", s.handleAddWebsite)
	mux.HandleFunc("DELETE /websites", s.handleRemoveWebsite)
	mux.HandleFunc("PUT /websites/{index}", s.handleUpdateWebsite)
	mux.HandleFunc("POST /websites/reorder", s.handleReorderWebsites)

	// operations
	mux.Handle("GET /healthz", s.healthHandler())
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}

	// serve dashboard assets
	if s.assets != nil {
		mux.HandleFunc("GET /", s.handleDashboard)
	}

	return mux
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server will continue running until the context is
// cancelled, at which point it initiates a graceful shutdown with a 5-second
// timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// BaseContext derives all request contexts from the server context.
		// When ctx is cancelled, all request contexts are also cancelled,
		// enabling graceful shutdown of long-running handlers like SSE.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// shutdown on context cancellation
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	s.logger.Info("http server listening", "addr", ln.Addr().String())
	return nil
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// read index.html from embedded assets
	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	// apply title substitution with HTML escaping to prevent XSS
	title := s.title
	if title == "" {
		title = defaultTitle
	}
	safeTitle := html.EscapeString(title)
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, safeTitle)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}
