package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/vultisig/featureflags/internal/flagstore"
	"github.com/vultisig/featureflags/internal/metrics"
)

// flagID returns the :id path parameter. Echo routes on URL.RawPath when it
// is set, leaving the parameter escaped; otherwise it is already decoded.
func flagID(c echo.Context) string {
	raw := c.Param("id")
	if c.Request().URL.RawPath == "" {
		return raw
	}
	id, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return id
}

func (s *Server) ListFeatureFlags(c echo.Context) error {
	flags := s.store.List()
	s.metrics.RecordOperation("list", metrics.ResultOK)
	return c.JSON(http.StatusOK, flags)
}

func (s *Server) GetFeatureFlag(c echo.Context) error {
	flag, err := s.store.Lookup(flagID(c))
	if err != nil {
		return s.storeError(c, "get", err)
	}
	s.metrics.RecordOperation("get", metrics.ResultOK)
	return c.JSON(http.StatusOK, flag)
}

func (s *Server) CreateFeatureFlag(c echo.Context) error {
	var req flagstore.NewFlag
	if err := c.Bind(&req); err != nil {
		s.logger.WithError(err).Debug("fail to parse request")
		s.metrics.RecordOperation("create", metrics.ResultBadRequest)
		return c.JSON(http.StatusBadRequest, NewErrorResponse(MsgInvalidBody))
	}
	if err := c.Validate(&req); err != nil {
		s.logger.WithError(err).Debug("create request failed validation")
		return s.storeError(c, "create", flagstore.ErrMissingField)
	}

	flag, err := s.store.Create(req)
	if err != nil {
		return s.storeError(c, "create", err)
	}

	s.logger.WithField("flag_id", flag.ID.String()).Info("feature flag created")
	s.metrics.RecordOperation("create", metrics.ResultOK)
	return c.JSON(http.StatusCreated, flag)
}

func (s *Server) DeleteFeatureFlag(c echo.Context) error {
	id := flagID(c)
	if err := s.store.Delete(id); err != nil {
		return s.storeError(c, "delete", err)
	}

	s.logger.WithField("flag_id", id).Info("feature flag deleted")
	s.metrics.RecordOperation("delete", metrics.ResultOK)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) EnableFeatureFlag(c echo.Context) error {
	return s.setEnabled(c, "enable", true)
}

func (s *Server) DisableFeatureFlag(c echo.Context) error {
	return s.setEnabled(c, "disable", false)
}

func (s *Server) setEnabled(c echo.Context, operation string, enabled bool) error {
	flag, err := s.store.SetEnabled(flagID(c), enabled)
	if err != nil {
		return s.storeError(c, operation, err)
	}

	s.logger.WithField("flag_id", flag.ID.String()).Infof("feature flag %sd", operation)
	s.metrics.RecordOperation(operation, metrics.ResultOK)
	return c.JSON(http.StatusOK, flag)
}

// storeError maps flag store errors to their HTTP responses.
func (s *Server) storeError(c echo.Context, operation string, err error) error {
	switch {
	case errors.Is(err, flagstore.ErrMissingField):
		s.metrics.RecordOperation(operation, metrics.ResultBadRequest)
		return c.JSON(http.StatusBadRequest, NewErrorResponse(MsgMissingFields))
	case errors.Is(err, flagstore.ErrConflict):
		s.metrics.RecordOperation(operation, metrics.ResultConflict)
		return c.JSON(http.StatusConflict, NewErrorResponse(MsgFlagExists))
	case errors.Is(err, flagstore.ErrNotFound):
		s.metrics.RecordOperation(operation, metrics.ResultNotFound)
		return c.JSON(http.StatusNotFound, NewErrorResponse(MsgFlagNotFound))
	default:
		s.metrics.RecordOperation(operation, metrics.ResultError)
		s.logger.WithError(err).Errorf("feature flag %s failed", operation)
		return c.JSON(http.StatusInternalServerError, NewErrorResponse(MsgInternalError))
	}
}
