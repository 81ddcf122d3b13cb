// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tripsage/internal/http/middleware"
	"tripsage/internal/modules/aiusage"
	"tripsage/internal/modules/estimate"
	"tripsage/internal/modules/session"
	"tripsage/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeEstimateError maps submission failures to a status. Upstream details
// are logged by the estimate service and never reach the client.
func writeEstimateError(c *gin.Context, err error) {
	var verr *trip.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, session.ErrMissingSession):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, aiusage.ErrInsufficientTokens):
		writeError(c, http.StatusTooManyRequests, "monthly estimation quota exhausted")
	case errors.Is(err, estimate.ErrConfiguration):
		writeError(c, http.StatusServiceUnavailable, estimate.UserMessage(err))
	case errors.Is(err, estimate.ErrTransport), errors.Is(err, estimate.ErrFormat):
		writeError(c, http.StatusBadGateway, estimate.UserMessage(err))
	default:
		log.WithError(err).WithField("session", middleware.SessionID(c)).Error("handler: unexpected error")
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
