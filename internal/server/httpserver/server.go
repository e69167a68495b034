// Package httpserver exposes the authentication service over HTTP using a chi
// router: register, login, forgot-password and the bearer-protected /api/me.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/windbreaker/internal/logging"
	"github.com/dmitrijs2005/windbreaker/internal/server/models"
	"github.com/dmitrijs2005/windbreaker/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	requestTimeout    = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

// AuthService is the subset of *services.AuthService the handlers need.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.Identity, error)
	Login(ctx context.Context, email, password, ip string) (*services.LoginResult, error)
	ForgotPassword(ctx context.Context, email, newPassword, ip string) error
	ResolveCurrentIdentity(ctx context.Context, token string) (*models.Identity, error)
}

type HTTPServer struct {
	address string
	auth    AuthService
	logger  logging.Logger
	router  chi.Router
}

// NewHTTPServer builds the router. metricsHandler is mounted at /metrics when
// not nil.
func NewHTTPServer(address string, l logging.Logger, svc AuthService, metricsHandler http.Handler) *HTTPServer {
	s := &HTTPServer{
		address: address,
		auth:    svc,
		logger:  l.With("module", "http_server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.health)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/forgot-password", s.forgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(s.requireIdentity)
			r.Get("/me", s.me)
		})
	})

	s.router = r
	return s
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout. It takes ownership of ln.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
