package embedding

import (
	"context"

	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// FailSoftEmbedder is the outermost decorator on the query path: any inner
// failure degrades to the zero vector, which switches ranking into keyword
// mode instead of failing the whole search. Bulk ingestion must not use this
// wrapper; it needs real errors.
type FailSoftEmbedder struct {
	inner  domain.Embedder
	logger *zap.Logger
}

// NewFailSoft wraps an embedder so that Embed never returns an error.
func NewFailSoft(inner domain.Embedder, logger *zap.Logger) *FailSoftEmbedder {
	return &FailSoftEmbedder{inner: inner, logger: logger}
}

// Embed implements domain.Embedder.
func (f *FailSoftEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := f.inner.Embed(ctx, text)
	if err != nil {
		f.logger.Warn("Embedding failed, degrading to zero vector", zap.Error(err))
		return domain.EmbeddingResult{Embedding: domain.ZeroVector()}, nil
	}
	return res, nil
}
