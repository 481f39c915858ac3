// Package server exposes editor sessions over HTTP. Each session owns a
// headless engine whose play-head is driven by a background player.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/slopeditor/internal/config"
	"github.com/kikiluvv/slopeditor/internal/editor"
	"github.com/kikiluvv/slopeditor/internal/media"
	"github.com/kikiluvv/slopeditor/internal/project"
	"github.com/kikiluvv/slopeditor/internal/scoring"
)

var ErrSessionNotFound = errors.New("session not found")

type session struct {
	id        string
	headless  *editor.Headless
	cancel    context.CancelFunc
	meta      editor.Meta
	projectID string
	mu        sync.Mutex
}

func (s *session) engine() *editor.Engine {
	return s.headless.Engine
}

// Server holds the live editor sessions and the project library
type Server struct {
	logger  zerolog.Logger
	cfg     *config.Config
	library *project.Library
	scorer  scoring.Scorer
	prober  *media.Prober
	pool    *ants.Pool
	now     func() time.Time
	players bool

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Server
type Option func(*Server)

// WithClock overrides the time source used for saved projects
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithProber enables thumbnails for saved projects
func WithProber(p *media.Prober) Option {
	return func(s *Server) { s.prober = p }
}

// WithScorer replaces the heuristic export scorer
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Server) { s.scorer = sc }
}

// WithoutPlayers keeps session play-heads still unless stepped by hand
func WithoutPlayers() Option {
	return func(s *Server) { s.players = false }
}

// New creates a server with a worker pool sized from config
func New(logger zerolog.Logger, cfg *config.Config, library *project.Library, opts ...Option) (*Server, error) {
	s := &Server{
		logger:   logger.With().Str("component", "server").Logger(),
		cfg:      cfg,
		library:  library,
		scorer:   scoring.NewHeuristicScorer(),
		now:      time.Now,
		players:  true,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}

	pool, err := ants.NewPool(cfg.Server.Workers, ants.WithPanicHandler(func(p any) {
		s.logger.Error().Interface("panic", p).Msg("panic in worker pool")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.RegisterRoutes(r)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("editor api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close ends every session and releases the worker pool
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
	s.pool.Release()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		s.logger.Debug().
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) openSession(meta editor.Meta, title string) *session {
	h := editor.NewHeadless(s.logger, s.cfg)
	h.Engine.SetTitle(title)

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:       uuid.NewString(),
		headless: h,
		cancel:   cancel,
		meta:     meta,
	}
	if s.players {
		go h.Player.Run(ctx)
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info().Str("session", sess.id).Msg("session opened")
	return sess
}

func (s *Server) session(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Server) closeSession(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	s.logger.Info().Str("session", id).Msg("session closed")
	return nil
}

func (sess *session) close() {
	sess.cancel()
	sess.headless.Engine.Close()
}
