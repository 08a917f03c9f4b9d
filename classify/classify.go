package classify

import (
	"strings"
	"time"

	"recapbot/types"
)

// Category is one of the fixed topical labels.
type Category string

const (
	AIML          Category = "AI/ML"
	Funding       Category = "Funding/Business"
	Security      Category = "Security"
	BigTech       Category = "Big Tech"
	Regulation    Category = "Regulation"
	ProductLaunch Category = "Product Launch"
	General       Category = "General"
)

// AllCategories returns the fixed enumeration in canonical order. The order
// determines section ordering in the recap and primary-category selection.
func AllCategories() []Category {
	return []Category{AIML, Funding, Security, BigTech, Regulation, ProductLaunch, General}
}

// KeywordTable maps categories to their keyword sets. Matching is
// case-insensitive substring membership over title+body.
type KeywordTable map[Category][]string

// DefaultKeywords returns the built-in keyword table.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		AIML: {
			"ai", "artificial intelligence", "machine learning", "llm", "gpt",
			"claude", "gemini", "openai", "anthropic", "neural", "ai model",
			"inference", "chatbot", "deep learning",
		},
		Funding: {
			"funding", "raises", "raised", "series a", "series b", "investment",
			"venture", "valuation", "ipo", "acquisition", "acquires", "merger",
		},
		Security: {
			"security", "hack", "breach", "vulnerability", "cyber", "malware",
			"ransomware", "exploit", "phishing", "privacy",
		},
		BigTech: {
			"apple", "google", "microsoft", "amazon", "meta", "tesla",
			"nvidia", "alphabet",
		},
		Regulation: {
			"regulation", "policy", "government", "congress", "senate",
			"antitrust", "lawsuit", "compliance", "eu commission",
		},
		ProductLaunch: {
			"launches", "launch", "announces", "unveils", "reveals", "debuts",
			"releases", "rolls out",
		},
	}
}

// Score bonus weights. Fixed values keep scoring deterministic.
const (
	bonusAI         = 0.5
	bonusMajorStory = 0.3
	bonusUnder24h   = 0.2
	bonusUnder72h   = 0.1
)

// majorStoryKeywords flag likely headline material independent of category.
var majorStoryKeywords = []string{
	"announces", "breakthrough", "first", "launches", "reveals", "record",
	"billion",
}

// Classifier assigns categories and importance scores. It is a pure function
// of its inputs; the keyword table is injected at construction and never
// mutated.
type Classifier struct {
	keywords KeywordTable
	order    []Category
}

// New creates a classifier. A nil table uses the defaults.
func New(keywords KeywordTable) *Classifier {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	return &Classifier{keywords: keywords, order: AllCategories()}
}

// Categorize returns every matching category in canonical order, never empty:
// an article matching nothing is General. All matches are retained for
// section grouping; the first match is the primary category used in scoring
// tie-breaks.
func (c *Classifier) Categorize(title, body string) []Category {
	text := strings.ToLower(title + " " + body)

	var matched []Category
	for _, cat := range c.order {
		for _, kw := range c.keywords[cat] {
			if containsKeyword(text, kw) {
				matched = append(matched, cat)
				break
			}
		}
	}

	if len(matched) == 0 {
		return []Category{General}
	}
	return matched
}

// Score computes the importance score: source reliability weight plus fixed
// keyword-class and recency bonuses. Identical inputs always yield the
// identical score.
func (c *Classifier) Score(title, body string, weight float64, published, now time.Time) float64 {
	text := strings.ToLower(title + " " + body)

	score := weight

	for _, kw := range c.keywords[AIML] {
		if containsKeyword(text, kw) {
			score += bonusAI
			break
		}
	}

	for _, kw := range majorStoryKeywords {
		if containsKeyword(text, kw) {
			score += bonusMajorStory
			break
		}
	}

	if !published.IsZero() {
		age := now.Sub(published)
		switch {
		case age < 24*time.Hour:
			score += bonusUnder24h
		case age < 72*time.Hour:
			score += bonusUnder72h
		}
	}

	return score
}

// Enrich classifies and scores an article in place.
func (c *Classifier) Enrich(article *types.Article, now time.Time) {
	categories := c.Categorize(article.Title, article.Body)

	article.Categories = make([]string, len(categories))
	for i, cat := range categories {
		article.Categories[i] = string(cat)
	}
	article.PrimaryCategory = string(categories[0])
	article.Score = c.Score(article.Title, article.Body, article.SourceWeight, article.PublishedAt, now)
}

// containsKeyword does a case-insensitive substring check with light word
// boundary handling: single short tokens like "ai" or "eu" must appear as a
// whole word, longer phrases match anywhere.
func containsKeyword(loweredText, keyword string) bool {
	if len(keyword) > 3 || strings.Contains(keyword, " ") {
		return strings.Contains(loweredText, keyword)
	}

	idx := 0
	for {
		i := strings.Index(loweredText[idx:], keyword)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(keyword)
		beforeOK := start == 0 || !isWordChar(loweredText[start-1])
		afterOK := end == len(loweredText) || !isWordChar(loweredText[end])
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
