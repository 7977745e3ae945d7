package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickward/lettercheck/internal/config"
	"github.com/patrickward/lettercheck/internal/drafts"
	"github.com/patrickward/lettercheck/internal/editor"
	"github.com/patrickward/lettercheck/internal/flash"
	"github.com/patrickward/lettercheck/internal/rendering"
	"github.com/patrickward/lettercheck/internal/spellcheck"
	"github.com/patrickward/lettercheck/internal/workers"
)

const sessionSweepInterval = time.Minute

// Server holds the application state and configuration
type Server struct {
	cfg          config.Config
	configPath   string
	lookup       config.LookupFunc
	sessions     *editor.Store
	checker      editor.Checker
	analyzer     *editor.Analyzer
	token        *spellcheck.SwappableToken
	sealer       *drafts.Sealer
	drafts       *drafts.Store
	flashManager *flash.Manager
	worker       *workers.BackgroundWorker
	highlighter  *rendering.HighlightRenderer
	baseTempl    *template.Template // Common templates (layouts, partials)
	httpServer   *http.Server
}

// ServerOption for configuring the server with functional options pattern
type ServerOption func(*Server) error

// NewServer initializes the server from cfg
func NewServer(ctx context.Context, cfg config.Config, opts ...ServerOption) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:          cfg,
		sessions:     editor.NewStore(),
		token:        spellcheck.NewSwappableToken(cfg.API.Token),
		sealer:       drafts.NewSealer(),
		flashManager: flash.NewManager(),
		worker:       workers.NewBackgroundWorker(ctx),
		highlighter:  rendering.NewHighlightRenderer(),
		baseTempl:    tmpl,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.checker == nil {
		s.checker = spellcheck.NewClient(cfg.API.BaseURL,
			spellcheck.WithTimeout(cfg.API.Timeout.Duration),
			spellcheck.WithBearerToken(s.token.Token),
		)
	}
	s.analyzer = editor.NewAnalyzer(s.checker)

	s.drafts, err = drafts.NewStore(cfg.DraftsDir(), s.sealer)
	if err != nil {
		return nil, fmt.Errorf("could not initialize drafts: %w", err)
	}

	s.setupBackgroundTasks()

	return s, nil
}

// WithSealer sets the draft encryption keys
func WithSealer(sealer *drafts.Sealer) ServerOption {
	return func(s *Server) error {
		if sealer == nil {
			return errors.New("sealer must not be nil")
		}
		s.sealer = sealer
		return nil
	}
}

// WithChecker replaces the spellcheck API client
func WithChecker(checker editor.Checker) ServerOption {
	return func(s *Server) error {
		s.checker = checker
		return nil
	}
}

// WithConfigWatch reloads the config file at path when it changes, resolving
// it with lookup like the initial load.
func WithConfigWatch(path string, lookup config.LookupFunc) ServerOption {
	return func(s *Server) error {
		s.configPath = path
		s.lookup = lookup
		return nil
	}
}

func (s *Server) setupBackgroundTasks() {
	ttl := s.cfg.SessionTTL.Duration
	s.worker.AddPeriodicTask("session-sweep", sessionSweepInterval, func(ctx context.Context) error {
		if n := s.sessions.Sweep(ttl); n > 0 {
			log.Printf("expired %d idle editor sessions", n)
		}
		return nil
	})

	if s.configPath != "" {
		s.worker.AddOneTimeTask("config-watch", func(ctx context.Context) error {
			return config.Watch(ctx, s.configPath, s.lookup, s.applyConfig)
		})
	}
}

// applyConfig picks up settings that can change without a restart.
func (s *Server) applyConfig(cfg config.Config) {
	if cfg.API.Token != s.token.Token() {
		s.token.Set(cfg.API.Token)
		log.Printf("spellcheck API token updated")
	}
}

// Start starts the server and all background tasks
func (s *Server) Start() error {
	serverAddr := fmt.Sprintf("%s:%d", s.cfg.Addr, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:        serverAddr,
		ReadTimeout: 15 * time.Second,
		// Analysis waits on the spellcheck API.
		WriteTimeout: s.cfg.API.Timeout.Duration + 10*time.Second,
		IdleTimeout:  time.Minute,
		Handler:      s.setupRoutes(),
	}

	s.worker.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", serverAddr)
		log.Printf("Data directory: %s", s.cfg.DataDir)
		log.Printf("Spellcheck API: %s", s.cfg.API.BaseURL)
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.worker.Shutdown()
			return fmt.Errorf("could not start server: %w", err)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server and background tasks
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if s.httpServer != nil {
		log.Println("Shutting down HTTP server...")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during HTTP server shutdown: %v", err)
		}
	}

	s.worker.Shutdown()

	log.Println("Server shutdown complete")
	return nil
}
