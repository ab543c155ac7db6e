package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// LocalEmbedder is a deterministic in-process provider: each token is hashed
// into a vector bucket with a hash-derived sign, accumulated and
// L2-normalized. Queries sharing terms with a stored text land near it in
// cosine space, which is enough for ranking without any external model. The
// same text always yields the same vector.
type LocalEmbedder struct {
	dimensions int
}

// NewLocalEmbedder creates a local provider. A non-positive dims falls back
// to the shared default.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = domain.EmbeddingDimensions
	}
	return &LocalEmbedder{dimensions: dims}
}

// Embed implements domain.Embedder. Token counts stand in for provider usage.
func (l *LocalEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	tokens := tokenize(text)
	vec := make([]float32, l.dimensions)

	for _, tok := range tokens {
		sum := sha256.Sum256([]byte(tok))
		idx := int(binary.BigEndian.Uint32(sum[0:4])) % l.dimensions
		if sum[4]&1 == 0 {
			vec[idx]++
		} else {
			vec[idx]--
		}
	}

	normalize(vec)

	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: len(tokens),
		TotalTokens:  len(tokens),
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (l *LocalEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchFallback(ctx, l, texts)
}

// HealthCheck implements domain.HealthChecker. The local provider has no
// external collaborator to probe.
func (l *LocalEmbedder) HealthCheck(_ context.Context) error {
	return nil
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,:;!?()[]{}\"'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range vec {
		vec[i] /= norm
	}
}
