package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recapbot/cache"
	"recapbot/config"
	"recapbot/summarize"
	"recapbot/types"
)

type stubSummarizer struct{}

func (stubSummarizer) Summarize(context.Context, summarize.Request) (*summarize.Result, error) {
	return &summarize.Result{Text: "A stub summary long enough to pass validation."}, nil
}

func (stubSummarizer) ModelName() string { return "stub-model" }

func testDeps() Deps {
	return Deps{
		Config:     config.Config{Sources: config.DefaultSources()},
		Store:      cache.NewMemoryStore(24*time.Hour, 30*24*time.Hour),
		Summarizer: stubSummarizer{},
	}
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testDeps())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "stub-model", body["model"])
}

func TestGetSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps()
	r := NewRouter(deps)

	t.Run("miss", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/summaries/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hit", func(t *testing.T) {
		require.NoError(t, deps.Store.Put(context.Background(), "a1",
			"A cached summary long enough to be valid.", "stub-model", nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/summaries/a1", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var entry cache.CachedSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
		assert.Equal(t, "A cached summary long enough to be valid.", entry.Summary)
	})
}

func TestBatchSummaries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps()
	r := NewRouter(deps)

	payload := BatchRequest{Articles: []BatchArticle{
		{Title: "OpenAI releases new model", Content: "model body text", URL: "https://example.com/a"},
		{ID: "explicit-id", Title: "Startup raises $10M", Content: "funding body text", Category: "Funding/Business"},
	}}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summaries/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Stats.Total)
	assert.Equal(t, 2, resp.Stats.Generated)
	assert.Len(t, resp.Summaries, 2)
	assert.Contains(t, resp.Summaries, types.GenerateID("https://example.com/a"))
	assert.Contains(t, resp.Summaries, "explicit-id")
}

func TestBatchSummariesValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(testDeps())

	for name, body := range map[string]string{
		"empty article list": `{"articles": []}`,
		"missing content":    `{"articles": [{"title": "No Body"}]}`,
		"no id or url":       `{"articles": [{"title": "T", "content": "c"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/summaries/batch", bytes.NewReader([]byte(body)))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
