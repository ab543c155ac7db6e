package locate

import (
	"context"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// CatalogMatcher retrieves candidate features whose name or category
// contains the search term.
type CatalogMatcher interface {
	Match(ctx context.Context, term, body string, limit int) ([]domain.Feature, error)
}

// BodyLister retrieves every feature on one body. Nearby search filters and
// sorts in process; the catalog holds a few thousand rows per body at most.
type BodyLister interface {
	ListByBody(ctx context.Context, body string) ([]domain.Feature, error)
}
