package parse

import (
	"context"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

const (
	fallbackConfidence  = 0.6
	fallbackMaxKeywords = 5
	fallbackMinWordLen  = 2
)

var fallbackStopWords = map[string]struct{}{
	"show": {}, "me": {}, "find": {}, "the": {}, "on": {}, "in": {},
	"at": {}, "where": {}, "are": {}, "a": {}, "an": {}, "is": {},
}

// Fallback is the reduced keyword extractor used when the remote parser is
// unreachable or returns garbage. It infers body, category and size through
// the shared rule tables but performs no event detection, and reports a
// reduced confidence.
type Fallback struct{}

// NewFallback creates the degraded-mode strategy.
func NewFallback() *Fallback {
	return &Fallback{}
}

// Parse extracts what it can from the query text. Never fails.
func (f *Fallback) Parse(_ context.Context, text string, bodyOverride body.Body) (intent.Intent, error) {
	lower := strings.ToLower(text)

	p := intent.Params{
		SearchType: intent.Feature,
		Keywords:   extractKeywords(lower),
		Confidence: fallbackConfidence,
		Source:     intent.SourceFallback,
	}

	for _, r := range bodyRules {
		if strings.Contains(lower, r.phrase) {
			p.TargetBody = r.target
			break
		}
	}

	for _, r := range categoryRules {
		if containsAny(lower, r.keywords) {
			p.Category = r.category
			break
		}
	}

	switch {
	case containsAny(lower, sizeLargeWords):
		p.Size = intent.SizeLarge
	case containsAny(lower, sizeSmallWords):
		p.Size = intent.SizeSmall
	}

	return intent.New(p).WithBodyOverride(bodyOverride), nil
}

// extractKeywords keeps the first few informative terms: stop words and very
// short tokens are dropped.
func extractKeywords(lower string) []string {
	var kws []string
	for _, w := range strings.Fields(lower) {
		if len(kws) == fallbackMaxKeywords {
			break
		}
		if _, stop := fallbackStopWords[w]; stop {
			continue
		}
		if len([]rune(w)) <= fallbackMinWordLen {
			continue
		}
		kws = append(kws, w)
	}
	return kws
}
