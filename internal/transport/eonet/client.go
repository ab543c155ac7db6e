// Package eonet is the HTTP client for NASA's Earth Observatory Natural
// Event Tracker (EONET) v3 feed.
package eonet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// DefaultBaseURL is the public EONET v3 endpoint.
const DefaultBaseURL = "https://eonet.gsfc.nasa.gov/api/v3"

// Feed status filters. The feed defaults to open when the parameter is
// absent, so callers that want closed events must ask for StatusAll
// explicitly.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
	StatusAll    = "all"
)

// Query narrows an event feed request. Zero values fall back to feed defaults.
type Query struct {
	CategoryID string // feed category id, e.g. "severeStorms"
	Status     string // open, closed, all
	Days       int
	Limit      int
}

// Client fetches live natural events from the feed.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New creates a feed client. timeout bounds every request.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Events returns current events matching q. Malformed feed records are
// skipped, not fatal.
func (c *Client) Events(ctx context.Context, q Query) ([]domain.Event, error) {
	endpoint := c.baseURL + "/events"
	if q.CategoryID != "" {
		endpoint = c.baseURL + "/categories/" + url.PathEscape(q.CategoryID)
	}

	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Days > 0 {
		params.Set("days", strconv.Itoa(q.Days))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if enc := params.Encode(); enc != "" {
		endpoint += "?" + enc
	}

	var payload eventsResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(payload.Events))
	for i := range payload.Events {
		ev, ok := payload.Events[i].toDomain()
		if !ok {
			c.logger.Debug("Skipping malformed feed record", zap.String("id", payload.Events[i].ID))
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// EventsByCategory returns recent events for one feed category, open and
// closed alike, so storms that ended yesterday still rank. This is the
// search pipeline's entry point.
func (c *Client) EventsByCategory(ctx context.Context, categoryID string, days, limit int) ([]domain.Event, error) {
	return c.Events(ctx, Query{
		CategoryID: categoryID,
		Status:     StatusAll,
		Days:       days,
		Limit:      limit,
	})
}

// EventByID returns a single feed record or domain.ErrNotFound.
func (c *Client) EventByID(ctx context.Context, id string) (*domain.Event, error) {
	endpoint := c.baseURL + "/events/" + url.PathEscape(id)

	var rec eventRecord
	if err := c.getJSON(ctx, endpoint, &rec); err != nil {
		return nil, err
	}

	ev, ok := rec.toDomain()
	if !ok {
		return nil, fmt.Errorf("%w: malformed feed record %q", domain.ErrEventFeedUnavailable, id)
	}
	return &ev, nil
}

// Ping checks feed reachability with a minimal request.
func (c *Client) Ping(ctx context.Context) error {
	var payload eventsResponse
	return c.getJSON(ctx, c.baseURL+"/events?limit=1", &payload)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w: %w", domain.ErrEventFeedUnavailable, domain.ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrEventFeedUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %w: status %d", domain.ErrEventFeedUnavailable, domain.ErrUpstreamStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode feed response: %w", domain.ErrEventFeedUnavailable, err)
	}
	return nil
}
