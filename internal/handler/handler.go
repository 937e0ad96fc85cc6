// Package handler exposes the HTTP API. Every handler is a struct built with
// its collaborators; routes are registered in internal/server.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fulvo/backend/internal/apperr"
	"fulvo/backend/internal/auth"
	"fulvo/backend/internal/logging"
	"fulvo/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"Partido no encontrado"`
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message" example:"Operación exitosa"`
}

// respondError translates a service error into a JSON error body. Unknown
// errors are logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	ae := apperr.As(err)
	status := apperr.Status(ae)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)

	body := gin.H{"error": ae.Message}
	for k, v := range ae.Extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// idParam parses a positive numeric path parameter. It writes a 400 and
// returns false when the value is not a valid id.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "ID inválido")
		return 0, false
	}
	return uint(id), true
}

// userID returns the authenticated caller. Routes using it sit behind
// auth.AuthMiddleware, so a missing identity is a wiring error.
func userID(c *gin.Context) (uint, bool) {
	id, ok := auth.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Token no proporcionado"})
	}
	return id, ok
}

var errUserNotFound = apperr.NotFound("Usuario no encontrado")

// translateUserLookup maps a missing user row to a 404.
func translateUserLookup(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errUserNotFound
	}
	return err
}
