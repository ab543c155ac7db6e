package parse

import (
	"context"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// Strategy turns raw query text into a structured intent. The override fills
// the target body only when the text itself names none.
type Strategy interface {
	Parse(ctx context.Context, text string, bodyOverride body.Body) (intent.Intent, error)
}
