package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Server is the HTTP front end for board rooms.
type Server struct {
	cfg     Config
	rooms   *Manager
	handler http.Handler
	logger  *log.Logger
}

// NewServer builds the router. journal may be nil, as may logger.
func NewServer(cfg Config, journal Journal, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gems-web",
		})
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 16 * time.Millisecond
	}
	gin.SetMode(gin.ReleaseMode)

	rooms := NewManager(cfg, journal, logger)
	return &Server{
		cfg:     cfg,
		rooms:   rooms,
		handler: NewRouter(rooms, logger),
		logger:  logger,
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Rooms returns the room manager.
func (s *Server) Rooms() *Manager {
	return s.rooms
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.rooms.CloseAll()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Closing rooms first ends websocket streams, which Shutdown does not track.
	s.rooms.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
