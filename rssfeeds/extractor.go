package rssfeeds

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"recapbot/config"
	"recapbot/types"

	readability "github.com/go-shiori/go-readability"
)

const extractWorkers = 5

// minUsefulBody is the body length below which a feed entry is considered
// too thin to summarize from, triggering full-text extraction.
const minUsefulBody = 200

// ExtractThinBodies fetches full page content for articles whose feed body is
// too short, using a bounded worker pool. Extraction failures are recorded on
// the article and the feed body is kept as-is.
func ExtractThinBodies(articles []*types.Article) {
	var wg sync.WaitGroup
	articleChan := make(chan *types.Article, len(articles))

	for i := 0; i < extractWorkers; i++ {
		go func(workerID int) {
			for article := range articleChan {
				if err := extractBody(article); err != nil {
					article.ExtractionError = err.Error()
					log.Printf("[worker %d] extraction failed for %s: %v", workerID, article.URL, err)
				}
				wg.Done()
			}
		}(i)
	}

	for _, article := range articles {
		if len(article.Body) >= minUsefulBody {
			continue
		}
		wg.Add(1)
		articleChan <- article
	}

	wg.Wait()
	close(articleChan)
}

func extractBody(article *types.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article URL is empty")
	}

	extracted, err := readability.FromURL(article.URL, config.FetchTimeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	text := strings.Join(strings.Fields(extracted.TextContent), " ")
	if len(text) <= len(article.Body) {
		return nil
	}

	article.Body = Truncate(text, config.MaxBodyLength)
	return nil
}
