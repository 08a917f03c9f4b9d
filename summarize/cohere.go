package summarize

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"recapbot/config"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

const defaultCohereModel = "command-r-08-2024"

// Cohere implements Summarizer using the Cohere Chat API (v2).
// Docs: https://docs.cohere.com/reference/chat
// SDK: github.com/cohere-ai/cohere-go/v2
type Cohere struct {
	client *cohereclient.Client
	model  string
}

// NewCohere creates a Cohere adapter. An empty model selects the default.
func NewCohere(apiKey, model string) *Cohere {
	if model == "" {
		model = defaultCohereModel
	}
	// Force HTTP/1.1 to avoid HTTP/2 protocol errors seen against the API.
	httpClient := &http.Client{
		Timeout: config.GenerateTimeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &Cohere{client: client, model: model}
}

func (c *Cohere) ModelName() string { return c.model }

func (c *Cohere) Summarize(ctx context.Context, req Request) (*Result, error) {
	temperature := req.Temperature
	maxTokens := req.MaxTokens

	resp, err := c.client.V2.Chat(
		ctx,
		&cohere.V2ChatRequest{
			Model: c.model,
			Messages: cohere.ChatMessages{
				{
					Role: "system",
					System: &cohere.SystemMessageV2{
						Content: &cohere.SystemMessageV2Content{String: req.System},
					},
				},
				{
					Role: "user",
					User: &cohere.UserMessageV2{
						Content: &cohere.UserMessageV2Content{String: req.Prompt},
					},
				},
			},
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil || resp.Message == nil {
		return nil, errors.New("cohere chat returned empty response")
	}

	var sb strings.Builder
	for _, item := range resp.Message.Content {
		if item != nil && item.Text != nil {
			sb.WriteString(item.Text.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, errors.New("cohere chat returned no text content")
	}

	result := &Result{Text: text}
	if resp.Usage != nil && resp.Usage.BilledUnits != nil {
		usage := &Usage{}
		if v := resp.Usage.BilledUnits.InputTokens; v != nil {
			usage.InputTokens = int64(*v)
		}
		if v := resp.Usage.BilledUnits.OutputTokens; v != nil {
			usage.OutputTokens = int64(*v)
		}
		result.Usage = usage
	}
	return result, nil
}
