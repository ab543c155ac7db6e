// Package history serves a session's recent searches, globally trending
// queries and search suggestions derived from what the session looked at.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50

	DefaultTrendingDays  = 7
	MaxTrendingDays      = 90
	DefaultTrendingLimit = 5

	// recentSample is how many entries feed the suggestion builder.
	recentSample   = 20
	maxSuggestions = 5
)

// defaultSuggestions are offered to sessions with no history yet.
var defaultSuggestions = []string{
	"Large craters on Mars",
	"Apollo landing sites",
	"Mountains on the Moon",
	"Recent discoveries",
	"Impact craters on Mercury",
}

// EnsureSession returns the given session id, minting a fresh UUID when the
// client sent none.
func EnsureSession(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	return uuid.NewString()
}

// Service answers the history read endpoints.
type Service struct {
	store  Store
	logger *zap.Logger
}

// New creates a history service.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Recent returns a session's searches, newest first.
func (s *Service) Recent(ctx context.Context, sessionID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	entries, err := s.store.Recent(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	return entries, nil
}

// Trending returns the most frequent queries over the trailing window.
func (s *Service) Trending(ctx context.Context, days, limit int) ([]domain.TrendingQuery, error) {
	if days <= 0 {
		days = DefaultTrendingDays
	}
	if days > MaxTrendingDays {
		days = MaxTrendingDays
	}
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	trending, err := s.store.Trending(ctx, days, limit)
	if err != nil {
		return nil, fmt.Errorf("trending searches: %w", err)
	}
	return trending, nil
}

// Suggestions builds up to five search suggestions from the session's
// recent activity, falling back to the defaults for new sessions. Never
// fails: a broken store just means default suggestions.
func (s *Service) Suggestions(ctx context.Context, sessionID string) []string {
	recent, err := s.store.Recent(ctx, sessionID, recentSample)
	if err != nil {
		s.logger.Warn("History unavailable for suggestions", zap.Error(err))
		return defaultSuggestions
	}
	if len(recent) == 0 {
		return defaultSuggestions
	}

	bodies := newCounter()
	categories := newCounter()
	for _, e := range recent {
		bodies.add(e.TargetBody)
		categories.add(e.Category)
	}

	var out []string
	if topBody := bodies.top(); topBody != "" {
		out = append(out,
			"Explore "+topBody,
			"Recent discoveries on "+topBody,
		)
	}
	if topCategory := categories.top(); topCategory != "" {
		if topBody := bodies.top(); topBody != "" {
			out = append(out, fmt.Sprintf("%ss on %s", topCategory, topBody))
		} else {
			out = append(out, fmt.Sprintf("Large %ss", topCategory))
		}
	}
	for _, b := range bodies.firstN(2) {
		for _, c := range categories.firstN(2) {
			out = append(out, fmt.Sprintf("Show me %ss on %s", strings.ToLower(c), b))
		}
	}

	out = dedupe(out, maxSuggestions)
	if len(out) == 0 {
		return defaultSuggestions
	}
	return out
}

// counter counts non-empty strings, remembering first-seen order so ties
// resolve deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(s string) {
	if s == "" {
		return
	}
	if _, seen := c.counts[s]; !seen {
		c.order = append(c.order, s)
	}
	c.counts[s]++
}

func (c *counter) top() string {
	best := ""
	for _, s := range c.order {
		if best == "" || c.counts[s] > c.counts[best] {
			best = s
		}
	}
	return best
}

func (c *counter) firstN(n int) []string {
	if len(c.order) < n {
		n = len(c.order)
	}
	return c.order[:n]
}

func dedupe(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, limit)
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
