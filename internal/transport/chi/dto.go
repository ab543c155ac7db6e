package chi

import (
	"math"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// Wire types for the JSON API. Field names are the public contract; keep
// them stable.

// searchRequest is the POST /api/v1/search body. The GET variant fills the
// same struct from query parameters.
type searchRequest struct {
	Query         string `json:"query"`
	TargetBody    string `json:"target_body,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	IncludeEvents *bool  `json:"include_events,omitempty"` // nil = true
	EventDays     int    `json:"event_days,omitempty"`
	SessionID     string `json:"session_id,omitempty"`
}

type locateRequest struct {
	Query string `json:"query"`
}

type intentInfo struct {
	SearchType    string   `json:"search_type"`
	TargetBody    string   `json:"target_body,omitempty"`
	Category      string   `json:"category,omitempty"`
	EventCategory string   `json:"event_category,omitempty"`
	EventKeyword  string   `json:"event_keyword,omitempty"`
	SizeFilter    string   `json:"size_filter,omitempty"`
	OriginFilter  bool     `json:"origin_filter,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	Confidence    float64  `json:"confidence"`
	Source        string   `json:"source"`
	Warning       string   `json:"warning,omitempty"`
}

func intentToWire(it intent.Intent) intentInfo {
	return intentInfo{
		SearchType:    it.SearchType().String(),
		TargetBody:    it.TargetBody().String(),
		Category:      it.Category(),
		EventCategory: it.EventCategory(),
		EventKeyword:  it.EventKeyword(),
		SizeFilter:    it.Size().String(),
		OriginFilter:  it.OriginOnly(),
		Keywords:      it.Keywords(),
		Confidence:    it.Confidence(),
		Source:        it.Source().String(),
		Warning:       it.Caveat(),
	}
}

// resultItem is one ranked hit. The id is a catalog integer for features
// and a feed string for events, matching the two record kinds.
type resultItem struct {
	ID              any      `json:"id"`
	Name            string   `json:"name"`
	Body            string   `json:"body,omitempty"`
	Category        string   `json:"category,omitempty"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Diameter        float64  `json:"diameter,omitempty"`
	Origin          string   `json:"origin,omitempty"`
	Description     string   `json:"description,omitempty"`
	SimilarityScore float64  `json:"similarity_score"`
	IsDynamicEvent  bool     `json:"is_dynamic_event"`
	EventDate       string   `json:"event_date,omitempty"`
	EventLink       string   `json:"event_link,omitempty"`
	EventSources    []string `json:"event_sources,omitempty"`
}

func rankedToWire(r domain.RankedResult) resultItem {
	var item resultItem
	if r.Type == domain.ResultEvent {
		item = eventResultToWire(r.Event)
	} else {
		item = featureToWire(r.Feature)
	}
	item.SimilarityScore = roundScore(r.Score)
	return item
}

func featureToWire(f *domain.Feature) resultItem {
	return resultItem{
		ID:          f.ID,
		Name:        f.Name,
		Body:        f.Body,
		Category:    f.Category,
		Latitude:    f.Latitude,
		Longitude:   f.Longitude,
		Diameter:    f.DiameterKM,
		Origin:      f.Origin,
		Description: f.Description,
	}
}

func eventResultToWire(ev *domain.Event) resultItem {
	return resultItem{
		ID:             ev.ID,
		Name:           ev.Title,
		Category:       ev.Category,
		Latitude:       ev.Latitude,
		Longitude:      ev.Longitude,
		Description:    eventDescription(ev),
		IsDynamicEvent: true,
		EventDate:      ev.Date,
		EventLink:      ev.Link,
		EventSources:   ev.Sources,
	}
}

// roundScore trims similarity scores to four decimals on the wire.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}

func eventDescription(ev *domain.Event) string {
	if ev.Description != "" {
		return ev.Description
	}
	return "Natural event: " + ev.Title
}

type searchResponse struct {
	Query        string       `json:"query"`
	ParsedIntent intentInfo   `json:"parsed_intent"`
	Results      []resultItem `json:"results"`
	TotalResults int          `json:"total_results"`
	EventCount   int          `json:"event_count"`
	FeatureCount int          `json:"feature_count"`
	Summary      string       `json:"summary,omitempty"`
	Cached       bool         `json:"cached"`
	SessionID    string       `json:"session_id"`
}

func searchToWire(res domain.SearchResult, sessionID string) searchResponse {
	items := make([]resultItem, len(res.Results))
	for i := range res.Results {
		items[i] = rankedToWire(res.Results[i])
	}
	return searchResponse{
		Query:        res.Query,
		ParsedIntent: intentToWire(res.Intent),
		Results:      items,
		TotalResults: res.TotalResults,
		EventCount:   res.EventCount,
		FeatureCount: res.FeatureCount,
		Summary:      res.Summary,
		Cached:       res.Cached,
		SessionID:    sessionID,
	}
}

type locateCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type locateFeature struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	DiameterKM float64 `json:"diameter_km,omitempty"`
	Origin     string  `json:"origin,omitempty"`
}

type locateRelated struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

type locateParsed struct {
	TargetBody string `json:"target_body,omitempty"`
	SearchTerm string `json:"search_term"`
	RawQuery   string `json:"raw_query"`
}

type locateResponse struct {
	Found           bool            `json:"found"`
	Message         string          `json:"message,omitempty"`
	Suggestions     []string        `json:"suggestions,omitempty"`
	Parsed          *locateParsed   `json:"parsed,omitempty"`
	Body            string          `json:"body,omitempty"`
	Center          *locateCenter   `json:"center,omitempty"`
	Feature         *locateFeature  `json:"feature,omitempty"`
	Zoom            int             `json:"zoom,omitempty"`
	Layer           string          `json:"layer,omitempty"`
	RelatedFeatures []locateRelated `json:"related_features,omitempty"`
	TotalResults    int             `json:"total_results,omitempty"`
}

func locateToWire(res domain.LocateResult, rawQuery string) locateResponse {
	if !res.Found {
		return locateResponse{
			Found:       false,
			Message:     res.Message,
			Suggestions: res.Suggestions,
			Parsed: &locateParsed{
				TargetBody: res.Intent.TargetBody().String(),
				SearchTerm: strings.Join(res.Intent.Keywords(), " "),
				RawQuery:   rawQuery,
			},
		}
	}

	f := res.Feature
	out := locateResponse{
		Found:        true,
		Body:         f.Body,
		Center:       &locateCenter{Lat: f.Latitude, Lon: f.Longitude},
		Feature:      &locateFeature{Name: f.Name, Category: f.Category, DiameterKM: f.DiameterKM, Origin: f.Origin},
		Zoom:         res.Zoom,
		Layer:        f.Body + "_default",
		TotalResults: res.TotalMatches,
	}
	for _, rf := range res.Related {
		out.RelatedFeatures = append(out.RelatedFeatures, locateRelated{
			Name:     rf.Name,
			Category: rf.Category,
			Lat:      rf.Latitude,
			Lon:      rf.Longitude,
		})
	}
	return out
}

type nearbyItem struct {
	resultItem
	DistanceKM float64 `json:"distance_km"`
}

func nearbyToWire(nf domain.NearbyFeature) nearbyItem {
	return nearbyItem{resultItem: featureToWire(nf.Feature), DistanceKM: nf.DistanceKM}
}

// eventItem is the standalone event listing shape, richer than the ranked
// result form.
type eventItem struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Categories     []string `json:"categories"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Date           string   `json:"date"`
	Sources        []string `json:"sources,omitempty"`
	Link           string   `json:"link,omitempty"`
	Closed         bool     `json:"closed,omitempty"`
	MagnitudeValue float64  `json:"magnitude_value,omitempty"`
	MagnitudeUnit  string   `json:"magnitude_unit,omitempty"`
	IsDynamicEvent bool     `json:"is_dynamic_event"`
}

func eventToWire(ev *domain.Event) eventItem {
	return eventItem{
		ID:             ev.ID,
		Type:           "event",
		Name:           ev.Title,
		Description:    eventDescription(ev),
		Categories:     []string{ev.Category},
		Latitude:       ev.Latitude,
		Longitude:      ev.Longitude,
		Date:           ev.Date,
		Sources:        ev.Sources,
		Link:           ev.Link,
		Closed:         ev.Closed,
		MagnitudeValue: ev.Magnitude,
		MagnitudeUnit:  ev.MagnitudeUnit,
		IsDynamicEvent: true,
	}
}

type eventsResponse struct {
	Total    int         `json:"total"`
	Category string      `json:"category,omitempty"`
	Days     int         `json:"days"`
	Events   []eventItem `json:"events"`
}

type autocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
}

type historyEntryItem struct {
	ID           int64  `json:"id"`
	Query        string `json:"query"`
	SearchType   string `json:"search_type"`
	TargetBody   string `json:"target_body,omitempty"`
	Category     string `json:"category,omitempty"`
	ResultsCount int    `json:"results_count"`
	CreatedAt    string `json:"created_at"`
}

func historyEntryToWire(e domain.HistoryEntry) historyEntryItem {
	return historyEntryItem{
		ID:           e.ID,
		Query:        e.Query,
		SearchType:   e.SearchType,
		TargetBody:   e.TargetBody,
		Category:     e.Category,
		ResultsCount: e.ResultsCount,
		CreatedAt:    e.CreatedAt,
	}
}

type historyResponse struct {
	SessionID   string             `json:"session_id"`
	History     []historyEntryItem `json:"history"`
	Suggestions []string           `json:"suggestions"`
}

type trendingItem struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type trendingResponse struct {
	Days     int            `json:"days"`
	Trending []trendingItem `json:"trending"`
}

type healthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Features int               `json:"features"`
}

type errorResponse struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}
