package api

import (
	"github.com/gin-gonic/gin"

	"recapbot/cache"
	"recapbot/config"
	"recapbot/summarize"
)

// Deps carries the shared dependencies handlers need.
type Deps struct {
	Config     config.Config
	Store      cache.Store
	Summarizer summarize.Summarizer
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterRecapRoutes(r, deps)
	RegisterSummaryRoutes(r, deps)
	RegisterHealthRoutes(r, deps)
	return r
}
