package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recapbot/classify"
	"recapbot/orchestrator"
	"recapbot/types"
)

// RegisterSummaryRoutes registers summary cache and batch endpoints.
func RegisterSummaryRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api/summaries")
	g.GET("/:id", func(c *gin.Context) { handleGetSummary(c, deps) })
	g.POST("/batch", func(c *gin.Context) { handleBatchSummaries(c, deps) })
}

// BatchArticle is one article submitted for summarization.
type BatchArticle struct {
	ID       string `json:"id"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

// BatchRequest represents a batch summarization request.
type BatchRequest struct {
	Articles []BatchArticle `json:"articles" binding:"required,dive"`
}

// BatchResponse carries per-article summaries plus run counts.
type BatchResponse struct {
	Summaries map[string]string `json:"summaries"`
	Errors    map[string]string `json:"errors,omitempty"`
	Stats     BatchStatsBody    `json:"stats"`
}

// BatchStatsBody mirrors orchestrator.BatchStats for the wire.
type BatchStatsBody struct {
	Total      int    `json:"total"`
	CacheHits  int    `json:"cache_hits"`
	Generated  int    `json:"generated"`
	Failed     int    `json:"failed"`
	Processing string `json:"processing_time"`
}

// handleGetSummary returns the cached summary for an article ID, if fresh.
func handleGetSummary(c *gin.Context, deps Deps) {
	id := c.Param("id")

	entry, err := deps.Store.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cache lookup failed: " + err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no fresh summary for article " + id})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// handleBatchSummaries summarizes a submitted batch through the cache.
// Articles without a category are classified before summarization.
func handleBatchSummaries(c *gin.Context, deps Deps) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Articles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "articles must not be empty"})
		return
	}

	classifier := classify.New(nil)
	now := time.Now()
	articles := make([]*types.Article, 0, len(req.Articles))
	for _, in := range req.Articles {
		article := &types.Article{
			ID:              in.ID,
			Title:           in.Title,
			Body:            in.Content,
			URL:             in.URL,
			Source:          in.Source,
			PrimaryCategory: in.Category,
			PublishedAt:     now,
		}
		if article.ID == "" && article.URL != "" {
			article.ID = types.GenerateID(article.URL)
		}
		if article.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "each article needs an id or a url"})
			return
		}
		if article.PrimaryCategory == "" {
			classifier.Enrich(article, now)
		}
		articles = append(articles, article)
	}

	results, stats := orchestrator.New(deps.Store, deps.Summarizer).ProcessBatch(c.Request.Context(), articles)

	resp := BatchResponse{
		Summaries: orchestrator.Summaries(results),
		Stats: BatchStatsBody{
			Total:      stats.Total,
			CacheHits:  stats.CacheHits,
			Generated:  stats.Generated,
			Failed:     stats.Failed,
			Processing: stats.Elapsed.Round(time.Millisecond).String(),
		},
	}
	for _, res := range results {
		if res.Status == orchestrator.StatusFailed && res.Error != "" {
			if resp.Errors == nil {
				resp.Errors = make(map[string]string)
			}
			resp.Errors[res.Article.ID] = res.Error
		}
	}

	c.JSON(http.StatusOK, resp)
}
