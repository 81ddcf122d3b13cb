// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripsage/internal/http/handlers"
	"tripsage/internal/http/middleware"
	"tripsage/internal/modules/aiusage"
	"tripsage/internal/modules/session"
)

// NewRouter registers every route. quota may be nil.
func NewRouter(sessions *session.Service, quota *aiusage.Service) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")
	api.GET("/trip/options", handlers.Options)

	scoped := api.Group("", middleware.Session())
	estimateHandler := handlers.NewEstimateHandler(sessions)
	scoped.POST("/estimates", estimateHandler.Create)
	scoped.GET("/sessions/current", estimateHandler.Current)

	quotaHandler := handlers.NewQuotaHandler(quota)
	scoped.GET("/quota", quotaHandler.Get)

	return r
}
