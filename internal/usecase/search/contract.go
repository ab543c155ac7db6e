package search

import (
	"context"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// CatalogReader retrieves feature candidates matching the intent filters.
type CatalogReader interface {
	Search(ctx context.Context, f domain.CatalogFilter) ([]domain.Feature, error)
}

// EventFeed fetches live event records for one feed category.
type EventFeed interface {
	EventsByCategory(ctx context.Context, categoryID string, days, limit int) ([]domain.Event, error)
}

// QueryParser turns query text into a structured intent.
type QueryParser interface {
	Parse(ctx context.Context, text string, bodyOverride body.Body) (intent.Intent, error)
}

// Embedder vectorizes text for similarity ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ResultCache memoizes final responses by normalized key.
type ResultCache interface {
	Get(key string) (domain.SearchResult, bool)
	Put(key string, res domain.SearchResult)
}

// HistoryRecorder persists executed searches. Best-effort collaborator.
type HistoryRecorder interface {
	Record(ctx context.Context, e domain.HistoryEntry) error
}

// Summarizer produces an optional natural-language digest of the results.
type Summarizer interface {
	Summarize(ctx context.Context, query string, results []domain.RankedResult) string
}
