package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const defaultPort = 8088

// Config holds metrics server configuration
type Config struct {
	Enabled         bool          `mapstructure:"enabled" json:"enabled,omitempty" split_words:"true"`
	Host            string        `mapstructure:"host" json:"host,omitempty" split_words:"true"`
	Port            int           `mapstructure:"port" json:"port,omitempty" split_words:"true"`
	Token           string        `mapstructure:"token" json:"token,omitempty" split_words:"true"`
	CollectInterval time.Duration `mapstructure:"collect_interval" json:"collect_interval,omitempty" split_words:"true"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Host:            "0.0.0.0",
		Port:            defaultPort,
		CollectInterval: 15 * time.Second,
	}
}

// Server serves /metrics and /health on its own port.
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

func bearerAuthMiddleware(handler http.Handler, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		providedToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if providedToken != token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func NewServer(cfg Config, logger *logrus.Logger, registry *prometheus.Registry) *Server {
	mux := http.NewServeMux()

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	if cfg.Token != "" {
		metricsHandler = bearerAuthMiddleware(metricsHandler, cfg.Token)
		logger.Info("Metrics endpoint authentication enabled")
	}

	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	port := cfg.Port
	if port <= 0 {
		port = defaultPort
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  15 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down metrics server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Errorf("metrics server shutdown error: %v", err)
		}
	}()

	s.logger.Infof("Starting metrics server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server failed: %w", err)
	}
	return nil
}
