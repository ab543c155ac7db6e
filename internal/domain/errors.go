package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery is the base sentinel for every query validation failure.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrQueryEmpty signals an empty or whitespace-only query.
	ErrQueryEmpty = fmt.Errorf("%w: query cannot be empty", ErrInvalidQuery)
	// ErrQueryTooShort signals a query below the minimum length.
	ErrQueryTooShort = fmt.Errorf("%w: query must be at least %d characters", ErrInvalidQuery, MinQueryLength)
	// ErrQueryTooLong signals a query above the maximum length.
	ErrQueryTooLong = fmt.Errorf("%w: query must be less than %d characters", ErrInvalidQuery, MaxQueryLength)
	// ErrQueryUnsafe signals a query matching an injection pattern.
	ErrQueryUnsafe = fmt.Errorf("%w: query contains invalid characters or patterns", ErrInvalidQuery)
	// ErrQueryTooManySpecialChars signals a query that is mostly punctuation.
	ErrQueryTooManySpecialChars = fmt.Errorf("%w: query contains too many special characters", ErrInvalidQuery)

	// ErrNotFound signals a missing catalog feature or event record.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamTimeout signals a remote call that exceeded its deadline.
	// Recovered internally via fallback or empty-result, never surfaced to callers.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstreamStatus signals a non-2xx response from a remote collaborator.
	ErrUpstreamStatus = errors.New("upstream error status")
	// ErrEventFeedUnavailable signals that the event feed call failed as a whole.
	ErrEventFeedUnavailable = errors.New("event feed unavailable")
	// ErrParserUnavailable signals that the remote query parser failed or timed out.
	ErrParserUnavailable = errors.New("remote parser unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// Query length limits enforced by validation.
const (
	MinQueryLength = 2
	MaxQueryLength = 500
)
