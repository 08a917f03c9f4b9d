package recap

import (
	"fmt"
	"sort"
	"strings"
)

// Render produces the markdown form of a recap document. Output is
// deterministic given the same document.
func Render(doc *Document) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Tech Weekly: The Industry Pulse\n")
	fmt.Fprintf(&sb, "*Week of %s*\n\n", doc.GeneratedAt.Format("January 2, 2006"))

	if doc.Headline != nil {
		sb.WriteString("## This Week's Headline\n\n")
		fmt.Fprintf(&sb, "**%s** (%s)\n\n", doc.Headline.Title, doc.Headline.Source)
		if doc.Headline.Summary != "" {
			fmt.Fprintf(&sb, "%s\n\n", doc.Headline.Summary)
		}
		fmt.Fprintf(&sb, "[Read the full story](%s)\n\n", doc.Headline.URL)
		sb.WriteString("---\n\n")
	}

	for _, section := range doc.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", section.Category)
		for _, ref := range section.Articles {
			fmt.Fprintf(&sb, "- **%s** (%s)\n", ref.Title, ref.Source)
			if ref.Summary != "" {
				fmt.Fprintf(&sb, "  %s\n", ref.Summary)
			}
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s\n\n", section.Narrative)
	}

	sb.WriteString("---\n\n")
	sb.WriteString("## This Week by the Numbers\n\n")
	fmt.Fprintf(&sb, "- %d articles analyzed across %d categories\n",
		doc.Stats.TotalArticles, len(doc.Sections))

	categories := make([]string, 0, len(doc.Stats.PerCategory))
	for cat := range doc.Stats.PerCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		fmt.Fprintf(&sb, "- %s: %d\n", cat, doc.Stats.PerCategory[cat])
	}
	fmt.Fprintf(&sb, "- summaries: %d cached, %d generated, %d failed\n",
		doc.Stats.CacheHits, doc.Stats.Generated, doc.Stats.Failed)

	return sb.String()
}
