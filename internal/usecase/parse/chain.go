package parse

import (
	"context"

	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
	"github.com/ketjandr/nasa-spaceapps-project/internal/metrics"
)

// Chain tries the primary strategy and falls back on any error, so a remote
// parser outage degrades the intent quality instead of failing the search.
type Chain struct {
	primary  Strategy
	fallback Strategy
	logger   *zap.Logger
}

// NewChain wires a primary strategy with its degraded-mode fallback.
func NewChain(primary, fallback Strategy, logger *zap.Logger) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Parse implements Strategy. The primary failure is logged and counted, never
// surfaced.
func (c *Chain) Parse(ctx context.Context, text string, bodyOverride body.Body) (intent.Intent, error) {
	it, err := c.primary.Parse(ctx, text, bodyOverride)
	if err == nil {
		return it, nil
	}

	metrics.ParserFallbacksTotal.Inc()
	c.logger.Warn("Primary parser failed, using fallback",
		zap.Error(err),
	)

	return c.fallback.Parse(ctx, text, bodyOverride)
}
