package rssfeeds

import (
	"strings"
	"testing"
	"time"

	"recapbot/config"
	"recapbot/types"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"entities", "cats &amp; dogs &lt;3", "cats & dogs <3"},
		{"whitespace collapse", "a\n\n  b\t c", "a b c"},
		{"plain text untouched", "already clean", "already clean"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := StripHTML(c.in); got != c.want {
				t.Fatalf("StripHTML(%q) = %q; want %q", c.in, got, c.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate unchanged input = %q", got)
	}

	got := Truncate("abcdefghij", 8)
	if got != "abcde..." {
		t.Fatalf("Truncate = %q; want %q", got, "abcde...")
	}

	// Rune-safe: multibyte input must never be cut mid-rune.
	multibyte := strings.Repeat("日", 20)
	got = Truncate(multibyte, 10)
	if len([]rune(got)) != 10 {
		t.Fatalf("Truncate rune length = %d; want 10", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("Truncate = %q; want trailing ellipsis", got)
	}
}

func TestNormalizeItem(t *testing.T) {
	source := config.Source{Name: "TechCrunch", Weight: 1.0}
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cutoff := now.Add(-7 * 24 * time.Hour)

	base := Item{
		Title:       "  OpenAI releases new model  ",
		Link:        "https://example.com/a",
		Description: "<p>A short description</p>",
		PublishedAt: now.Add(-2 * time.Hour),
	}

	t.Run("happy path", func(t *testing.T) {
		a, ok := NormalizeItem(base, source, now, cutoff)
		if !ok {
			t.Fatal("expected article, got drop")
		}
		if a.Title != "OpenAI releases new model" {
			t.Fatalf("Title = %q; want trimmed", a.Title)
		}
		if a.Body != "A short description" {
			t.Fatalf("Body = %q", a.Body)
		}
		if a.Source != "TechCrunch" || a.SourceWeight != 1.0 {
			t.Fatalf("source fields not carried: %+v", a)
		}
		if a.ID != types.GenerateID(base.Link) {
			t.Fatalf("ID not derived from URL")
		}
	})

	t.Run("content preferred over description", func(t *testing.T) {
		item := base
		item.Content = "<div>Full body text</div>"
		a, _ := NormalizeItem(item, source, now, cutoff)
		if a.Body != "Full body text" {
			t.Fatalf("Body = %q; want content", a.Body)
		}
	})

	t.Run("missing link dropped", func(t *testing.T) {
		item := base
		item.Link = ""
		if _, ok := NormalizeItem(item, source, now, cutoff); ok {
			t.Fatal("expected drop")
		}
	})

	t.Run("blank title dropped", func(t *testing.T) {
		item := base
		item.Title = "   "
		if _, ok := NormalizeItem(item, source, now, cutoff); ok {
			t.Fatal("expected drop")
		}
	})

	t.Run("undated dropped when window active", func(t *testing.T) {
		item := base
		item.PublishedAt = time.Time{}
		if _, ok := NormalizeItem(item, source, now, cutoff); ok {
			t.Fatal("expected drop")
		}
	})

	t.Run("undated kept without window", func(t *testing.T) {
		item := base
		item.PublishedAt = time.Time{}
		if _, ok := NormalizeItem(item, source, now, time.Time{}); !ok {
			t.Fatal("expected keep")
		}
	})

	t.Run("pre-cutoff dropped", func(t *testing.T) {
		item := base
		item.PublishedAt = cutoff.Add(-time.Hour)
		if _, ok := NormalizeItem(item, source, now, cutoff); ok {
			t.Fatal("expected drop")
		}
	})

	t.Run("body bounded", func(t *testing.T) {
		item := base
		item.Content = strings.Repeat("x", config.MaxBodyLength*2)
		a, _ := NormalizeItem(item, source, now, cutoff)
		if len([]rune(a.Body)) > config.MaxBodyLength {
			t.Fatalf("Body length = %d; want <= %d", len([]rune(a.Body)), config.MaxBodyLength)
		}
	})
}

func TestGenerateIDStable(t *testing.T) {
	a := types.GenerateID("https://example.com/story")
	b := types.GenerateID("https://example.com/story")
	if a != b {
		t.Fatalf("same URL produced different IDs: %s vs %s", a, b)
	}
	if a == types.GenerateID("https://example.com/other") {
		t.Fatal("different URLs produced the same ID")
	}
}
