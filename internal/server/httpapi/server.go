// Package httpapi exposes the registration, token and key-value operations
// over HTTP/JSON using a chi router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Tanaychoubey/user-registration-api/internal/logging"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
	"github.com/Tanaychoubey/user-registration-api/internal/server/services"
)

// UserService is the subset of services.UserService used by the handlers.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	IssueToken(ctx context.Context, userName, password string) (*services.Token, error)
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

// DataService is the subset of services.DataService used by the handlers.
type DataService interface {
	Store(ctx context.Context, key, value string) error
	Retrieve(ctx context.Context, key string) (*models.DataEntry, error)
	Update(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type HTTPServer struct {
	address         string
	users           UserService
	data            DataService
	logger          logging.Logger
	corsOrigins     []string
	shutdownTimeout time.Duration
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ds DataService, corsOrigins []string, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         a,
		logger:          l.With("module", "http_server"),
		users:           us,
		data:            ds,
		corsOrigins:     corsOrigins,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully, waiting at most shutdownTimeout for in-flight
// requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-done
}
