package classify

import (
	"testing"
	"time"

	"recapbot/types"
)

func TestCategorize(t *testing.T) {
	c := New(nil)

	cases := []struct {
		name  string
		title string
		body  string
		want  []Category
	}{
		{"ai only", "OpenAI trains a larger model", "", []Category{AIML}},
		{"funding", "Startup raises $10M Series A", "round led by a venture firm", []Category{Funding}},
		{"multi category order", "OpenAI releases new model", "", []Category{AIML, ProductLaunch}},
		{"big tech plus regulation", "EU Commission opens probe into Apple", "", []Category{BigTech, Regulation}},
		{"no match falls to general", "Quiet week for chip supply chains", "", []Category{General}},
		{"short token needs word boundary", "Email chains are the new group chat", "", []Category{General}},
	}

	for _, c2 := range cases {
		t.Run(c2.name, func(t *testing.T) {
			got := c.Categorize(c2.title, c2.body)
			if len(got) != len(c2.want) {
				t.Fatalf("Categorize(%q) = %v; want %v", c2.title, got, c2.want)
			}
			for i := range got {
				if got[i] != c2.want[i] {
					t.Fatalf("Categorize(%q) = %v; want %v", c2.title, got, c2.want)
				}
			}
		})
	}
}

func TestScoreBonuses(t *testing.T) {
	c := New(nil)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		title     string
		weight    float64
		published time.Time
		want      float64
	}{
		{"weight only", "Quiet week for chips", 0.8, time.Time{}, 0.8},
		{"ai bonus", "New LLM benchmark results", 1.0, time.Time{}, 1.5},
		{"major story bonus", "Company announces expansion", 1.0, time.Time{}, 1.3},
		{"fresh bonus", "Quiet week for chips", 1.0, now.Add(-2 * time.Hour), 1.2},
		{"recent bonus", "Quiet week for chips", 1.0, now.Add(-48 * time.Hour), 1.1},
		{"old gets nothing", "Quiet week for chips", 1.0, now.Add(-100 * time.Hour), 1.0},
		{"stacked", "OpenAI announces new model", 1.0, now.Add(-1 * time.Hour), 2.0},
	}

	for _, c2 := range cases {
		t.Run(c2.name, func(t *testing.T) {
			got := c.Score(c2.title, "", c2.weight, c2.published, now)
			if got != c2.want {
				t.Fatalf("Score(%q) = %v; want %v", c2.title, got, c2.want)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	c := New(nil)
	now := time.Now()
	published := now.Add(-3 * time.Hour)

	first := c.Score("OpenAI announces new model", "body text", 0.9, published, now)
	for i := 0; i < 10; i++ {
		if got := c.Score("OpenAI announces new model", "body text", 0.9, published, now); got != first {
			t.Fatalf("Score not deterministic: %v != %v", got, first)
		}
	}
}

func TestEnrich(t *testing.T) {
	c := New(nil)
	now := time.Now()

	a := &types.Article{
		Title:        "OpenAI releases new model",
		SourceWeight: 1.0,
		PublishedAt:  now.Add(-1 * time.Hour),
	}
	c.Enrich(a, now)

	if a.PrimaryCategory != string(AIML) {
		t.Fatalf("PrimaryCategory = %q; want %q", a.PrimaryCategory, AIML)
	}
	if len(a.Categories) != 2 {
		t.Fatalf("Categories = %v; want AI/ML and Product Launch", a.Categories)
	}
	// 1.0 weight + 0.5 ai + 0.2 fresh
	if a.Score != 1.7 {
		t.Fatalf("Score = %v; want 1.7", a.Score)
	}
}
