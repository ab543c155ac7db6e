// Package chi is the HTTP transport: routing, request decoding, domain
// error mapping and response shaping over the usecase services.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/transport/eonet"
	healthuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/health"
	historyuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/history"
	locateuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/locate"
	searchuc "github.com/ketjandr/nasa-spaceapps-project/internal/usecase/search"
)

// minAutocompletePrefix is the shortest prefix the autocomplete endpoint accepts.
const minAutocompletePrefix = 2

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// CatalogReader is the slice of the feature store the pass-through
// endpoints (detail, autocomplete) read from.
type CatalogReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Feature, error)
	Autocomplete(ctx context.Context, prefix, body string, limit int) ([]string, error)
}

// EventReader serves the event listing and detail endpoints straight from
// the feed client.
type EventReader interface {
	Events(ctx context.Context, q eonet.Query) ([]domain.Event, error)
	EventByID(ctx context.Context, id string) (*domain.Event, error)
}

// Server wires the HTTP API to the usecase services.
type Server struct {
	search  *searchuc.Service
	locate  *locateuc.Service
	history *historyuc.Service
	health  *healthuc.Service
	catalog CatalogReader
	events  EventReader
	logger  *zap.Logger

	eventStatus string
	eventDays   int
	eventLimit  int

	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	locate *locateuc.Service,
	history *historyuc.Service,
	health *healthuc.Service,
	catalog CatalogReader,
	events EventReader,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:      search,
		locate:      locate,
		history:     history,
		health:      health,
		catalog:     catalog,
		events:      events,
		logger:      logger,
		eventStatus: eonet.StatusAll,
		eventDays:   searchuc.DefaultEventDays,
		eventLimit:  searchuc.DefaultLimit,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrEventFeedUnavailable, http.StatusBadGateway),
		sentinelHandler(domain.ErrParserUnavailable, http.StatusBadGateway),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
	}
	return s
}

// WithEventDefaults overrides the event listing defaults taken from
// configuration. Zero values keep the built-in defaults.
func (s *Server) WithEventDefaults(status string, days, limit int) *Server {
	if status != "" {
		s.eventStatus = status
	}
	if days > 0 {
		s.eventDays = days
	}
	if limit > 0 {
		s.eventLimit = limit
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/search", s.handleSearchGet)
		r.Get("/search/autocomplete", s.handleAutocomplete)
		r.Post("/search/locate", s.handleLocate)
		r.Get("/search/history", s.handleHistory)
		r.Get("/search/trending", s.handleTrending)
		r.Get("/features/nearby", s.handleNearby)
		r.Get("/features/{id}", s.handleFeature)
		r.Get("/events", s.handleEvents)
		r.Get("/events/{id}", s.handleEvent)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.runSearch(w, r, req)
}

// handleSearchGet handles GET /api/v1/search?q&target_body&limit.
func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	s.runSearch(w, r, searchRequest{
		Query:      qp.Get("q"),
		TargetBody: qp.Get("target_body"),
		Limit:      intParam(qp, "limit", 0),
	})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, wire searchRequest) {
	tb, ok := parseTargetBody(wire.TargetBody)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown target_body %q", wire.TargetBody))
		return
	}

	includeEvents := true
	if wire.IncludeEvents != nil {
		includeEvents = *wire.IncludeEvents
	}
	sessionID := historyuc.EnsureSession(wire.SessionID)

	res, err := s.search.Search(r.Context(), searchuc.Request{
		Query:         wire.Query,
		TargetBody:    tb,
		Limit:         wire.Limit,
		IncludeEvents: includeEvents,
		EventDays:     wire.EventDays,
		SessionID:     sessionID,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchToWire(res, sessionID))
}

// handleAutocomplete handles GET /api/v1/search/autocomplete?q&target_body&limit.
func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()

	prefix := strings.TrimSpace(qp.Get("q"))
	if len(prefix) < minAutocompletePrefix {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("q must be at least %d characters", minAutocompletePrefix))
		return
	}
	limit := clampInt(intParam(qp, "limit", searchuc.DefaultLimit), 1, searchuc.MaxLimit)

	suggestions, err := s.catalog.Autocomplete(r.Context(), prefix, qp.Get("target_body"), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, autocompleteResponse{Suggestions: suggestions})
}

// handleLocate handles POST /api/v1/search/locate.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req locateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := s.locate.Locate(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, locateToWire(res, req.Query))
}

// handleHistory handles GET /api/v1/search/history?session_id&limit. A
// missing session id starts a fresh session.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	sessionID := historyuc.EnsureSession(qp.Get("session_id"))

	entries, err := s.history.Recent(r.Context(), sessionID, intParam(qp, "limit", 0))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]historyEntryItem, len(entries))
	for i, e := range entries {
		items[i] = historyEntryToWire(e)
	}
	writeJSON(w, http.StatusOK, historyResponse{
		SessionID:   sessionID,
		History:     items,
		Suggestions: s.history.Suggestions(r.Context(), sessionID),
	})
}

// handleTrending handles GET /api/v1/search/trending?days&limit.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	days := intParam(qp, "days", 0)
	if days <= 0 {
		days = historyuc.DefaultTrendingDays
	}
	if days > historyuc.MaxTrendingDays {
		days = historyuc.MaxTrendingDays
	}

	trending, err := s.history.Trending(r.Context(), days, intParam(qp, "limit", 0))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]trendingItem, len(trending))
	for i, tq := range trending {
		items[i] = trendingItem{Query: tq.Query, Count: tq.Count}
	}
	writeJSON(w, http.StatusOK, trendingResponse{Days: days, Trending: items})
}

// handleFeature handles GET /api/v1/features/{id}.
func (s *Server) handleFeature(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "feature id must be an integer")
		return
	}

	f, err := s.catalog.GetByID(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, featureToWire(f))
}

// handleNearby handles GET /api/v1/features/nearby?lat&lon&body&radius_km&limit.
func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()

	lat, err := strconv.ParseFloat(qp.Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(qp.Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number")
		return
	}
	tb, ok := parseTargetBody(qp.Get("body"))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown body %q", qp.Get("body")))
		return
	}

	nearby, err := s.locate.Nearby(r.Context(), locateuc.NearbyRequest{
		Latitude:   lat,
		Longitude:  lon,
		TargetBody: tb,
		RadiusKM:   floatParam(qp, "radius_km", 0),
		Limit:      intParam(qp, "limit", 0),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]nearbyItem, len(nearby))
	for i, nf := range nearby {
		items[i] = nearbyToWire(nf)
	}
	writeJSON(w, http.StatusOK, items)
}

// handleEvents handles GET /api/v1/events?category&limit&days. An unknown
// category label returns an empty listing, not an error.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	qp := r.URL.Query()
	days := clampInt(intParam(qp, "days", s.eventDays), 1, searchuc.MaxEventDays)
	limit := clampInt(intParam(qp, "limit", s.eventLimit), 1, searchuc.MaxLimit)

	label := qp.Get("category")
	query := eonet.Query{Status: s.eventStatus, Days: days, Limit: limit}
	if label != "" {
		categoryID, ok := domain.EventCategoryID(label)
		if !ok {
			s.logger.Warn("Unknown event category label", zap.String("category", label))
			writeJSON(w, http.StatusOK, eventsResponse{Category: label, Days: days, Events: []eventItem{}})
			return
		}
		query.CategoryID = categoryID
	}

	events, err := s.events.Events(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]eventItem, len(events))
	for i := range events {
		items[i] = eventToWire(&events[i])
	}
	writeJSON(w, http.StatusOK, eventsResponse{
		Total:    len(items),
		Category: label,
		Days:     days,
		Events:   items,
	})
}

// handleEvent handles GET /api/v1/events/{id}.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.events.EventByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToWire(ev))
}

// handleHealth handles GET /healthz. Only an unreachable catalog takes the
// service out of rotation; a degraded feed or embedder still answers
// searches.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, status, healthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Features: report.Features,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrEventFeedUnavailable,
		domain.ErrParserUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// validationHandler maps query validation failures to a 400 with example
// queries the client can try instead. Validation messages are static
// strings, safe to return as-is.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:       err.Error(),
		Suggestions: locateuc.ExampleQueries,
	})
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// parseTargetBody resolves an optional body parameter. Returns false when
// the name is present but unknown.
func parseTargetBody(raw string) (body.Body, bool) {
	if raw == "" {
		return body.None, true
	}
	return body.Canonical(raw)
}

// intParam parses an integer query parameter, falling back to def when
// absent or malformed. Range clamping is the callee's concern.
func intParam(q url.Values, name string, def int) int {
	v := q.Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatParam(q url.Values, name string, def float64) float64 {
	v := q.Get(name)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
