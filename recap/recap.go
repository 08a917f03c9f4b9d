// Package recap assembles the final categorized weekly document from
// classified, scored, summarized articles.
package recap

import (
	"sort"
	"time"

	"recapbot/classify"
	"recapbot/types"
)

// ArticleRef is one article reference inside a section.
type ArticleRef struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Score       float64   `json:"score"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
}

// Section is one category block: ordered article references plus a
// synthesized narrative paragraph.
type Section struct {
	Category  string       `json:"category"`
	Narrative string       `json:"narrative"`
	Articles  []ArticleRef `json:"articles"`
}

// Stats summarizes one pipeline run.
type Stats struct {
	TotalArticles int            `json:"total_articles"`
	PerCategory   map[string]int `json:"per_category"`
	CacheHits     int            `json:"cache_hits"`
	Generated     int            `json:"generated"`
	Failed        int            `json:"failed"`
}

// Document is the assembled recap. It is created fresh per run and never
// mutated after assembly.
type Document struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Headline    *ArticleRef `json:"headline,omitempty"`
	Sections    []Section   `json:"sections"`
	Stats       Stats       `json:"stats"`
}

// sectionNarratives holds the fixed per-category framing paragraphs.
var sectionNarratives = map[string]string{
	string(classify.AIML):          "The AI landscape continues its rapid evolution, with companies racing to deploy more capable and efficient systems. The notable shift is from research breakthroughs to production deployments.",
	string(classify.Funding):       "Despite economic uncertainties, investor appetite for innovative technology companies remains strong, particularly in AI, cybersecurity, and enterprise software.",
	string(classify.Security):      "Security remains a top priority as digital infrastructure grows more complex and attack vectors multiply. These incidents underline the ongoing contest between security teams and threat actors.",
	string(classify.BigTech):       "Major technology companies are making strategic pivots that reflect changing market conditions and competitive pressures. These moves often signal broader industry trends worth watching.",
	string(classify.Regulation):    "Regulators continue to sharpen their focus on the technology sector, and compliance posture is becoming a competitive variable rather than an afterthought.",
	string(classify.ProductLaunch): "A steady stream of launches shows vendors converting roadmap promises into shipping product, with distribution and pricing now the battleground.",
	string(classify.General):       "Beyond the headline themes, a set of developments rounds out the week's picture of where the industry is heading.",
}

// Build assembles a Document from the processed article set. summaries maps
// article ID to summary text; articles without an entry are still listed.
// Ordering is deterministic given the same inputs; now is only used for the
// display timestamp.
func Build(articles []*types.Article, summaries map[string]string, hits, generated, failed int, now time.Time) *Document {
	doc := &Document{
		GeneratedAt: now,
		Stats: Stats{
			TotalArticles: len(articles),
			PerCategory:   make(map[string]int),
			CacheHits:     hits,
			Generated:     generated,
			Failed:        failed,
		},
	}

	byCategory := make(map[string][]*types.Article)
	for _, a := range articles {
		for _, cat := range a.Categories {
			byCategory[cat] = append(byCategory[cat], a)
		}
	}

	for _, cat := range classify.AllCategories() {
		group := byCategory[string(cat)]
		if len(group) == 0 {
			continue
		}
		sortByScore(group)

		section := Section{
			Category:  string(cat),
			Narrative: sectionNarratives[string(cat)],
			Articles:  make([]ArticleRef, 0, len(group)),
		}
		for _, a := range group {
			section.Articles = append(section.Articles, makeRef(a, summaries))
		}
		doc.Sections = append(doc.Sections, section)
		doc.Stats.PerCategory[string(cat)] = len(group)
	}

	if headline := Headline(articles); headline != nil {
		ref := makeRef(headline, summaries)
		doc.Headline = &ref
	}

	return doc
}

// Headline returns the single highest-scoring article; ties resolve to the
// more recent publication timestamp. Nil for an empty set.
func Headline(articles []*types.Article) *types.Article {
	var best *types.Article
	for _, a := range articles {
		if best == nil || ranksHigher(a, best) {
			best = a
		}
	}
	return best
}

func ranksHigher(a, b *types.Article) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.PublishedAt.After(b.PublishedAt)
}

func sortByScore(group []*types.Article) {
	sort.SliceStable(group, func(i, j int) bool {
		return ranksHigher(group[i], group[j])
	})
}

func makeRef(a *types.Article, summaries map[string]string) ArticleRef {
	return ArticleRef{
		ID:          a.ID,
		Title:       a.Title,
		URL:         a.URL,
		Source:      a.Source,
		Score:       a.Score,
		PublishedAt: a.PublishedAt,
		Summary:     summaries[a.ID],
	}
}
