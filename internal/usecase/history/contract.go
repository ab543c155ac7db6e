package history

import (
	"context"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// Store reads recorded searches. Writes happen on the search path; this
// service only serves the read endpoints.
type Store interface {
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.HistoryEntry, error)
	Trending(ctx context.Context, days, limit int) ([]domain.TrendingQuery, error)
}
