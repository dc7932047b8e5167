// Package api exposes instrumented decode runs over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/Dhruv-80/context-watch/internal/inference"
	"github.com/Dhruv-80/context-watch/internal/version"
)

type Server struct {
	store   *RunStore
	service *RunService
	clock   func() time.Time
}

func NewServer(store *RunStore, service *RunService) *Server {
	if store == nil {
		store = NewRunStore()
	}
	return &Server{
		store:   store,
		service: service,
		clock:   time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/runs", s.handleCreateRun)
	e.GET("/v1/runs/:id", s.handleGetRun)
	e.DELETE("/v1/runs/:id", s.handleDeleteRun)
	e.GET("/healthz", s.handleHealthz)
}

func (s *Server) handleCreateRun(c *echo.Context) error {
	if s.service == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "run service not configured")
	}
	req, err := decodeJSON[RunRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	result, text, err := s.service.ExecuteRun(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return writeBadRequest(c, err.Error())
		}
		var infErr *inference.InferenceError
		if errors.As(err, &infErr) {
			return writeError(c, http.StatusInternalServerError, "inference_error", err.Error())
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	resp := RunResponse{
		ID:        newRunID(),
		Object:    "run",
		CreatedAt: s.clock().Unix(),
		Text:      text,
		Result:    *result,
	}
	s.store.Save(resp)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetRun(c *echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return writeNotFound(c, "run not found")
	}
	resp, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDeleteRun(c *echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return writeNotFound(c, "run not found")
	}
	if !s.store.Delete(id) {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, DeleteRunResponse{
		ID:      id,
		Object:  "run",
		Deleted: true,
	})
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.String(),
	})
}
