package api

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"recapbot/orchestrator"
)

var (
	runMu      sync.Mutex
	lastReport *orchestrator.RunReport
)

// RegisterRecapRoutes registers recap pipeline endpoints.
func RegisterRecapRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/recap")
	g.POST("/run", func(c *gin.Context) { handleRecapRun(c, deps) })
	g.GET("/latest", handleRecapLatest)
}

// handleRecapRun triggers a full pipeline cycle: fetch, classify, summarize, assemble.
// It runs asynchronously and returns 202 Accepted immediately. Only one run
// may be in flight at a time.
func handleRecapRun(c *gin.Context, deps Deps) {
	if !runMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a recap run is already in progress"})
		return
	}

	go func() {
		defer runMu.Unlock()
		report, err := orchestrator.RunOnce(context.Background(), deps.Config, deps.Store, deps.Summarizer)
		if err != nil {
			log.Printf("recap run failed: %v", err)
			return
		}
		setLastReport(report)
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "recap run started"})
}

// handleRecapLatest returns the report of the most recent completed run.
func handleRecapLatest(c *gin.Context) {
	report := getLastReport()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recap has been generated yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

var reportMu sync.RWMutex

func setLastReport(r *orchestrator.RunReport) {
	reportMu.Lock()
	defer reportMu.Unlock()
	lastReport = r
}

func getLastReport() *orchestrator.RunReport {
	reportMu.RLock()
	defer reportMu.RUnlock()
	return lastReport
}
