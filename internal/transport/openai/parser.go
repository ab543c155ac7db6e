package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// parserSystemPrompt instructs the model to emit the structured query schema.
const parserSystemPrompt = `You are a planetary science search assistant. Parse natural language queries into structured JSON.

Extract these fields:
- target_body: "Moon", "Mars", "Mercury", "Venus", or "Earth"
- category: "crater", "mons", "montes", "vallis", "mare", "rima", "rupes", "dorsum", etc.
- size_filter: "large" or "small" if size is mentioned
- search_keywords: 3-5 most important search terms (array of strings)
- confidence: 0.0-1.0 how confident you are in the parsing

Return ONLY valid JSON, no other text.

Examples:
Input: "Show me large craters on the Moon"
Output: {"target_body": "Moon", "category": "crater", "size_filter": "large", "search_keywords": ["crater", "large", "impact", "moon"], "confidence": 0.95}

Input: "Find mountains on Mars"
Output: {"target_body": "Mars", "category": "mons", "search_keywords": ["mountain", "mons", "peak", "mars"], "confidence": 0.9}

Input: "Where are the biggest features on Mercury"
Output: {"target_body": "Mercury", "size_filter": "large", "search_keywords": ["large", "big", "feature", "mercury"], "confidence": 0.85}`

const parserTemperature = 0.1

// Parser turns a natural language query into a structured intent through an
// OpenAI-compatible chat completion endpoint.
type Parser struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// ParserConfig holds the remote parser settings.
type ParserConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewParser creates a remote query parser.
func NewParser(cfg *ParserConfig) *Parser {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 200
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Parser{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   timeout,
		logger:    cfg.Logger,
	}
}

// parsedQuery mirrors the JSON schema the model is instructed to emit.
type parsedQuery struct {
	TargetBody     string   `json:"target_body"`
	Category       string   `json:"category"`
	SizeFilter     string   `json:"size_filter"`
	SearchKeywords []string `json:"search_keywords"`
	Confidence     float64  `json:"confidence"`
}

// Parse sends the query to the completion endpoint and maps the structured
// reply into an intent. Every failure mode is wrapped with
// domain.ErrParserUnavailable so the caller can fall back.
func (p *Parser) Parse(ctx context.Context, text string, bodyOverride body.Body) (intent.Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parserSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: "Parse this query: " + text},
		},
		MaxTokens:   p.maxTokens,
		Temperature: parserTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return intent.Intent{}, fmt.Errorf("%w: %w", domain.ErrParserUnavailable, domain.ErrUpstreamTimeout)
		}
		return intent.Intent{}, fmt.Errorf("%w: %w", domain.ErrParserUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return intent.Intent{}, fmt.Errorf("%w: empty completion", domain.ErrParserUnavailable)
	}

	var out parsedQuery
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		p.logger.Debug("Unparseable completion", zap.String("content", content))
		return intent.Intent{}, fmt.Errorf("%w: malformed completion: %w", domain.ErrParserUnavailable, err)
	}

	tb, _ := body.Canonical(out.TargetBody)
	it := intent.New(intent.Params{
		SearchType: intent.Feature,
		TargetBody: tb,
		Category:   strings.TrimSpace(out.Category),
		Size:       intent.SizeFromString(out.SizeFilter),
		Keywords:   out.SearchKeywords,
		Confidence: out.Confidence,
		Source:     intent.SourceRemote,
	})
	return it.WithBodyOverride(bodyOverride), nil
}
