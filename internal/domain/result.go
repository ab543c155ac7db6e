package domain

import "github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"

// ResultType discriminates the two candidate kinds in a ranked list.
type ResultType string

const (
	ResultFeature ResultType = "feature"
	ResultEvent   ResultType = "event"
)

// RankedResult is one scored hit. Exactly one of Feature or Event is set,
// matching Type.
type RankedResult struct {
	Type    ResultType
	Score   float64
	Feature *Feature
	Event   *Event
}

// SearchResult is the full outcome of one search, the unit the result
// cache stores. Cached is false on the instance that was computed and
// flipped on copies served from cache.
type SearchResult struct {
	Query        string
	Intent       intent.Intent
	Results      []RankedResult
	TotalResults int
	EventCount   int
	FeatureCount int
	Summary      string
	Cached       bool
}

// LocateResult is the outcome of a locate lookup: the primary hit plus
// nearby context, or suggestions when nothing matched.
type LocateResult struct {
	Found        bool
	Message      string
	Suggestions  []string
	Feature      *Feature
	Score        float64
	Zoom         int
	Related      []*Feature
	TotalMatches int
	Intent       intent.Intent
}

// NearbyFeature pairs a catalog feature with its distance from the
// requested point.
type NearbyFeature struct {
	Feature    *Feature
	DistanceKM float64
}

// HistoryEntry is one recorded search, newest first in listings.
type HistoryEntry struct {
	ID           int64
	SessionID    string
	Query        string
	SearchType   string
	TargetBody   string
	Category     string
	ResultsCount int
	CreatedAt    string
}

// TrendingQuery is an aggregated popular query over a trailing window.
type TrendingQuery struct {
	Query string
	Count int
}
