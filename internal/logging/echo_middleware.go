package logging

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const healthPath = "/healthz"

// LoggerMiddleware logs one structured line per request. Health checks are
// not logged.
func LoggerMiddleware(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			if req.URL.Path == healthPath {
				return nil
			}

			latency := time.Since(start)
			entry := logger.WithFields(logrus.Fields{
				"remote_ip":     c.RealIP(),
				"host":          req.Host,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"route":         c.Path(),
				"request_id":    res.Header().Get(echo.HeaderXRequestID),
				"status":        res.Status,
				"latency":       latency.Microseconds(),
				"latency_human": latency.String(),
				"bytes_in":      req.ContentLength,
				"bytes_out":     res.Size,
			})
			if err != nil {
				entry = entry.WithError(err)
			}

			switch {
			case res.Status >= 500:
				entry.Error("HTTP request")
			case res.Status >= 400:
				entry.Warn("HTTP request")
			default:
				entry.Info("HTTP request")
			}
			return nil
		}
	}
}
