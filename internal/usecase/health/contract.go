package health

import "context"

// CatalogChecker checks the feature catalog and reports its size.
type CatalogChecker interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

// FeedPinger checks event feed reachability.
type FeedPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
