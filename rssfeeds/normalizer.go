package rssfeeds

import (
	"regexp"
	"strings"
	"time"

	"recapbot/config"
	"recapbot/types"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes markup and collapses whitespace.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.Join(strings.Fields(s), " ")
}

// Truncate bounds s to n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// NormalizeItem converts a raw feed item into an Article. It returns false
// when the item should be dropped: missing link, empty title, undateable
// while a window filter is active, or published before the cutoff.
//
// Undateable entries are dropped rather than assumed in-window; a recap run
// always filters by time, and an entry with no date cannot be placed in it.
func NormalizeItem(item Item, source config.Source, now, cutoff time.Time) (*types.Article, bool) {
	if item.Link == "" || strings.TrimSpace(item.Title) == "" {
		return nil, false
	}

	windowActive := !cutoff.IsZero()
	if item.PublishedAt.IsZero() {
		if windowActive {
			return nil, false
		}
	} else if windowActive && item.PublishedAt.Before(cutoff) {
		return nil, false
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	body = Truncate(StripHTML(body), config.MaxBodyLength)

	return &types.Article{
		ID:           types.GenerateID(item.Link),
		Title:        strings.TrimSpace(item.Title),
		URL:          item.Link,
		Source:       source.Name,
		SourceWeight: source.Weight,
		PublishedAt:  item.PublishedAt,
		FetchedAt:    now,
		Body:         body,
	}, true
}
