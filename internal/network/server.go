// Package network exposes the lookup engine over HTTP.
package network

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leengari/allergy-lookup/internal/engine"
	"github.com/leengari/allergy-lookup/internal/metrics"
	"github.com/leengari/allergy-lookup/internal/storage/manager"
)

// Options configures the HTTP server
type Options struct {
	Addr            string
	CORSOrigin      string
	RateLimit       int // requests per minute per IP, 0 disables
	RateBurst       int
	ShutdownTimeout time.Duration
}

// Server is the HTTP front of the lookup service
type Server struct {
	opts    Options
	logger  *slog.Logger
	handler *Handler
	router  *gin.Engine
}

// NewServer wires the router: middleware, API routes and operational routes
func NewServer(store *manager.Store, eng *engine.Engine, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		opts:    opts,
		logger:  logger,
		handler: NewHandler(store, eng, logger),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogger(s.logger))
	router.Use(metrics.Middleware())
	if s.opts.CORSOrigin != "" {
		router.Use(CORSMiddleware(s.opts.CORSOrigin))
	}

	router.GET("/", s.handler.Home)
	router.GET("/health", s.handler.Health)
	router.GET("/dataset", s.handler.DatasetInfo)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	predict := router.Group("/predict")
	if s.opts.RateLimit > 0 {
		predict.Use(RateLimitMiddleware(NewRateLimiter(s.opts.RateLimit, s.opts.RateBurst, 15*time.Minute)))
	}
	predict.POST("", s.handler.Predict)

	return router
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", l.Addr().String()))
		errCh <- srv.Serve(l)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// ListenAndServe binds opts.Addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}
