package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vultisig/featureflags/config"
	"github.com/vultisig/featureflags/internal/flagstore"
	"github.com/vultisig/featureflags/internal/logging"
	"github.com/vultisig/featureflags/internal/metrics"
)

// FlagStore is the flag collection the handlers call through to.
type FlagStore interface {
	Lookup(idText string) (flagstore.Flag, error)
	List() []flagstore.Flag
	Create(nf flagstore.NewFlag) (flagstore.Flag, error)
	Delete(idText string) error
	SetEnabled(idText string, enabled bool) (flagstore.Flag, error)
}

type Server struct {
	cfg         config.ServerConfig
	store       FlagStore
	logger      *logrus.Logger
	metrics     metrics.FlagMetrics
	httpMetrics *metrics.HTTPMetrics
}

// NewServer returns a new server. flagMetrics and httpMetrics may be nil to
// disable metrics collection.
func NewServer(
	cfg config.ServerConfig,
	store FlagStore,
	logger *logrus.Logger,
	flagMetrics metrics.FlagMetrics,
	httpMetrics *metrics.HTTPMetrics,
) *Server {
	if flagMetrics == nil {
		flagMetrics = metrics.NilFlagMetrics{}
	}
	return &Server{
		cfg:         cfg,
		store:       store,
		logger:      logger,
		metrics:     flagMetrics,
		httpMetrics: httpMetrics,
	}
}

// Echo builds the router with middlewares and routes registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Validator = &FlagValidator{Validator: validator.New()}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.New().String()
		},
	}))
	e.Use(logging.LoggerMiddleware(s.logger))
	e.Use(s.httpMetrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("2M"))
	if s.cfg.RateLimit > 0 {
		limiterStore := middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.cfg.RateLimit),
				Burst:     s.cfg.RateBurst,
				ExpiresIn: 5 * time.Minute,
			},
		)
		e.Use(middleware.RateLimiter(limiterStore))
	}

	s.registerRoutes(e)
	return e
}

func (s *Server) registerRoutes(e *echo.Echo) {
	e.GET("/healthz", s.Healthz)

	flags := e.Group("/featureflags")
	flags.GET("", s.ListFeatureFlags)
	flags.POST("", s.CreateFeatureFlag)
	flags.GET("/:id", s.GetFeatureFlag)
	flags.DELETE("/:id", s.DeleteFeatureFlag)
	flags.POST("/:id/enable", s.EnableFeatureFlag)
	flags.POST("/:id/disable", s.DisableFeatureFlag)
	// toggles are also reachable with GET for clients that can only follow links
	flags.GET("/:id/enable", s.EnableFeatureFlag)
	flags.GET("/:id/disable", s.DisableFeatureFlag)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	e := s.Echo()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
		s.logger.Infof("Starting feature flags server on %s", addr)
		err := e.Start(addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	})
	eg.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down server...")

		c, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		err := e.Shutdown(c)
		if err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

func (s *Server) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// errorHandler renders every error as {"error": "..."}.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := MsgInternalError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if code != http.StatusInternalServerError {
			message = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		s.logger.WithError(err).Errorf("request %s %s failed", c.Request().Method, c.Request().URL.Path)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, NewErrorResponse(message))
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to write error response")
	}
}
