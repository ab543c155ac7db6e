package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

const (
	summarySystemPrompt = "You are a helpful astronomy assistant. Summarize search results in 1-2 sentences."
	summaryMaxTokens    = 100
	summaryTemperature  = 0.7
	summaryTimeout      = 5 * time.Second
	summaryTopResults   = 5
)

// Summarizer produces a short natural-language summary of ranked results.
// Enrichment only: any failure degrades to a plain count message.
type Summarizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewSummarizer creates a result summarizer sharing the parser's endpoint settings.
func NewSummarizer(cfg *ParserConfig) *Summarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Summarizer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

type summaryItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Body string `json:"body,omitempty"`
}

// Summarize describes the top results in one or two sentences.
func (s *Summarizer) Summarize(ctx context.Context, query string, results []domain.RankedResult) string {
	fallback := fmt.Sprintf("Found %d matching features", len(results))
	if len(results) == 0 {
		return fallback
	}

	items := make([]summaryItem, 0, summaryTopResults)
	for _, r := range results {
		if len(items) == summaryTopResults {
			break
		}
		switch {
		case r.Feature != nil:
			items = append(items, summaryItem{Name: r.Feature.Name, Type: r.Feature.Category, Body: r.Feature.Body})
		case r.Event != nil:
			items = append(items, summaryItem{Name: r.Event.Title, Type: r.Event.Category})
		}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Query: %q\nResults: %s\n\nSummarize:", query, payload)},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		s.logger.Debug("Summary generation failed", zap.Error(err))
		return fallback
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return fallback
	}
	return resp.Choices[0].Message.Content
}
