package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Check reports whether the service can take traffic.
type Check func() error

// Counter is satisfied by the flag store.
type Counter interface {
	Len() int
}

// StoreCheck fails when the store does not answer a Len call within timeout.
func StoreCheck(store Counter, timeout time.Duration) Check {
	return func() error {
		done := make(chan struct{})
		go func() {
			store.Len()
			close(done)
		}()

		select {
		case <-done:
			return nil
		case <-time.After(timeout):
			return fmt.Errorf("flag store did not respond within %s", timeout)
		}
	}
}

// Server exposes /healthz on a dedicated port so health checks keep working when the
// API port is rate limited.
type Server struct {
	port   int
	check  Check
	logger *logrus.Logger
	server *http.Server
}

func New(port int, check Check, logger *logrus.Logger) *Server {
	s := &Server{
		port:   port,
		check:  check,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	return s
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.check != nil {
		if err := s.check(); err != nil {
			s.logger.WithError(err).Warn("health check failed")
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run blocks until ctx is cancelled, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("health server shutdown error: %v", err)
		}
	}()

	s.logger.Infof("health server listening on :%d", s.port)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server failed: %w", err)
	}
	return nil
}
