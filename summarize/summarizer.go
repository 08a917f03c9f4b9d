// Package summarize provides the summarization capability behind a single
// vendor-neutral contract. Every provider response is normalized into one
// canonical Result shape before it reaches callers; nothing downstream
// branches on vendor-specific fields.
package summarize

import (
	"context"
	"fmt"
	"os"
	"strings"

	"recapbot/config"
)

// Request carries one summarization call: a system instruction, a user
// prompt, and generation parameters.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Usage reports token consumption when the provider supplies it.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Result is the canonical provider response shape.
type Result struct {
	Text  string `json:"text"`
	Usage *Usage `json:"usage,omitempty"`
}

// Summarizer is implemented by each provider adapter.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (*Result, error)
	ModelName() string
}

// NewFromEnv returns a provider based on available credentials: Cohere when
// COHERE_API_KEY is set, otherwise Gemini when GEMINI_API_KEY is set.
func NewFromEnv() (Summarizer, error) {
	if key := os.Getenv("COHERE_API_KEY"); key != "" {
		return NewCohere(key, os.Getenv("COHERE_MODEL")), nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return NewGemini(key, os.Getenv("GEMINI_MODEL"))
	}
	return nil, fmt.Errorf("no summarization provider configured (set COHERE_API_KEY or GEMINI_API_KEY)")
}

const baseSystemPrompt = "You are an expert news summarizer specializing in technology and business news. " +
	"Create concise, accurate 2-3 sentence summaries that capture the most important facts and business implications."

// categoryFraming appends category-specific guidance to the base instruction.
var categoryFraming = map[string]string{
	"AI/ML":            " Focus on technical capabilities, business impact, and industry implications of AI developments.",
	"Funding/Business": " Emphasize financial figures, market impact, and strategic business decisions.",
	"Product Launch":   " Highlight what shipped, who it is for, and how it positions against competitors.",
	"Security":         " Lead with what was compromised, who is affected, and the remediation status.",
}

// BuildSystemPrompt returns the category-aware system instruction.
func BuildSystemPrompt(category string) string {
	return baseSystemPrompt + categoryFraming[category]
}

// BuildUserPrompt assembles the user prompt, truncating content to stay
// within the prompt budget. Truncation is rune-safe so multibyte content
// never reaches the provider cut mid-character.
func BuildUserPrompt(title, content string) string {
	if runes := []rune(content); len(runes) > config.MaxPromptLength {
		content = string(runes[:config.MaxPromptLength]) + "..."
	}
	if title != "" {
		return fmt.Sprintf("Summarize this tech news article titled '%s':\n\n%s", title, content)
	}
	return fmt.Sprintf("Summarize this tech news article:\n\n%s", content)
}

// Validate rejects generation results that are likely malformed.
func Validate(text string) error {
	if len(strings.TrimSpace(text)) < config.MinSummaryLength {
		return fmt.Errorf("generated summary too short (%d chars)", len(strings.TrimSpace(text)))
	}
	return nil
}
