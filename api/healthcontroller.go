package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers liveness endpoints.
func RegisterHealthRoutes(r *gin.Engine, deps Deps) {
	r.GET("/api/health", func(c *gin.Context) { handleHealth(c, deps) })
}

// handleHealth reports process liveness and cache reachability.
func handleHealth(c *gin.Context, deps Deps) {
	status := gin.H{
		"status":  "healthy",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"sources": len(deps.Config.Sources),
	}
	if deps.Summarizer != nil {
		status["model"] = deps.Summarizer.ModelName()
	}
	c.JSON(http.StatusOK, status)
}
