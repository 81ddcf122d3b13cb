// README: Read-only handlers: trip form options and quota balance.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsage/internal/http/middleware"
	"tripsage/internal/modules/aiusage"
	"tripsage/internal/modules/trip"
)

// Options handles GET /api/trip/options.
func Options(c *gin.Context) {
	writeJSON(c, http.StatusOK, trip.Options())
}

type QuotaHandler struct {
	quota *aiusage.Service
}

// NewQuotaHandler accepts a nil service when the quota is disabled.
func NewQuotaHandler(svc *aiusage.Service) *QuotaHandler {
	return &QuotaHandler{quota: svc}
}

// Get handles GET /api/quota.
func (h *QuotaHandler) Get(c *gin.Context) {
	if h.quota == nil {
		writeJSON(c, http.StatusOK, gin.H{"enabled": false})
		return
	}
	left, err := h.quota.Remaining(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"enabled": true, "remaining": left})
}
