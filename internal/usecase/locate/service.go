// Package locate resolves a short query to one primary catalog feature the
// map viewer can fly to, plus nearby alternatives. It is a lighter path
// than the full search pipeline: no events, no embeddings, no cache.
package locate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/geo"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/query"
)

// Match tiers. A candidate scores once, at its strongest tier.
const (
	exactNameScore = 100.0
	nameScore      = 50.0
	categoryScore  = 10.0

	// DefaultZoom is the viewer zoom level for a located feature.
	DefaultZoom = 6

	maxRelated   = 5
	candidateCap = 30
)

// Nearby bounds. Zero values take the default; out-of-range values clamp.
const (
	DefaultRadiusKM = 100.0
	MinRadiusKM     = 1.0
	MaxRadiusKM     = 5000.0

	DefaultNearbyLimit = 10
	MaxNearbyLimit     = 50
)

// stopWords are filler words stripped from the search term. The generic
// "crater" words are included: they name half the catalog and would drown
// the proper noun next to them.
var stopWords = map[string]struct{}{
	"show": {}, "me": {}, "find": {}, "the": {},
	"on": {}, "in": {}, "at": {},
	"crater": {}, "craters": {},
}

// bodyHints map phrases to a body. The first contained phrase decides;
// every contained phrase is stripped from the term. Longer phrases come
// before their substrings ("martian" before "mars") so stripping one never
// leaves a fragment of the other.
var bodyHints = []struct {
	phrase string
	target body.Body
}{
	{"moon", body.Moon},
	{"lunar", body.Moon},
	{"selene", body.Moon},
	{"red planet", body.Mars},
	{"martian", body.Mars},
	{"mars", body.Mars},
	{"mercury", body.Mercury},
	{"venus", body.Venus},
}

// ExampleQueries are offered whenever a locate finds nothing, and by the
// HTTP layer when a query fails validation.
var ExampleQueries = []string{
	`Try: "Show me Tycho crater"`,
	`Try: "Find valleys on Mars"`,
	`Try: "Show me Olympus Mons"`,
	`Try: "Mercury craters"`,
}

// Service answers locate and nearby queries against the feature catalog.
type Service struct {
	catalog  CatalogMatcher
	features BodyLister
	logger   *zap.Logger
}

// New creates a locate service. catalog and features are usually the same
// repository seen through two roles.
func New(catalog CatalogMatcher, features BodyLister, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, features: features, logger: logger}
}

// Locate parses the query into a body hint and a search term, retrieves
// candidates and picks the best match. A miss is a Found=false result,
// not an error; only invalid input and catalog failures return errors.
func (s *Service) Locate(ctx context.Context, rawQuery string) (domain.LocateResult, error) {
	q := query.Sanitize(rawQuery)
	if err := query.Validate(q); err != nil {
		return domain.LocateResult{}, err
	}

	target, term := parseQuery(q)
	it := intent.New(intent.Params{
		SearchType: intent.Feature,
		TargetBody: target,
		Keywords:   strings.Fields(term),
		Confidence: 1.0,
		Source:     intent.SourceDeterministic,
	})

	candidates, err := s.catalog.Match(ctx, term, target.String(), candidateCap)
	if err != nil {
		return domain.LocateResult{}, fmt.Errorf("match features: %w", err)
	}

	scored := score(candidates, term)
	if len(scored) == 0 {
		s.logger.Debug("Locate found nothing",
			zap.String("query", q),
			zap.String("term", term),
		)
		return domain.LocateResult{
			Found:       false,
			Message:     fmt.Sprintf("No results found for %q", q),
			Suggestions: ExampleQueries,
			Intent:      it,
		}, nil
	}

	primary := scored[0]
	related := make([]*domain.Feature, 0, maxRelated)
	for _, m := range scored[1:] {
		if len(related) == maxRelated {
			break
		}
		related = append(related, m.feature)
	}

	s.logger.Debug("Locate resolved",
		zap.String("query", q),
		zap.String("feature", primary.feature.Name),
		zap.Float64("score", primary.score),
		zap.Int("matches", len(scored)),
	)
	return domain.LocateResult{
		Found:        true,
		Feature:      primary.feature,
		Score:        primary.score,
		Zoom:         DefaultZoom,
		Related:      related,
		TotalMatches: len(scored),
		Intent:       it,
	}, nil
}

// NearbyRequest asks for features around a point on one body.
type NearbyRequest struct {
	Latitude   float64
	Longitude  float64
	TargetBody body.Body
	RadiusKM   float64
	Limit      int
}

func (r *NearbyRequest) normalize() {
	if r.RadiusKM <= 0 {
		r.RadiusKM = DefaultRadiusKM
	}
	if r.RadiusKM < MinRadiusKM {
		r.RadiusKM = MinRadiusKM
	}
	if r.RadiusKM > MaxRadiusKM {
		r.RadiusKM = MaxRadiusKM
	}
	if r.Limit <= 0 {
		r.Limit = DefaultNearbyLimit
	}
	if r.Limit > MaxNearbyLimit {
		r.Limit = MaxNearbyLimit
	}
}

func (r NearbyRequest) validate() error {
	if !r.TargetBody.IsValid() {
		return fmt.Errorf("%w: a target body is required", domain.ErrInvalidQuery)
	}
	if !geo.ValidateCoordinates(r.Latitude, r.Longitude) {
		return fmt.Errorf("%w: latitude must be in [-90,90] and longitude in [-180,180]", domain.ErrInvalidQuery)
	}
	return nil
}

// Nearby returns features within the request radius of a point, closest
// first. Distance is the flat-grid approximation from geo.PlanarDistanceKM,
// good enough to order neighbors on one body.
func (s *Service) Nearby(ctx context.Context, req NearbyRequest) ([]domain.NearbyFeature, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	features, err := s.features.ListByBody(ctx, req.TargetBody.String())
	if err != nil {
		return nil, fmt.Errorf("list features on %s: %w", req.TargetBody, err)
	}

	nearby := make([]domain.NearbyFeature, 0, req.Limit)
	for i := range features {
		d := geo.PlanarDistanceKM(req.Latitude, req.Longitude, features[i].Latitude, features[i].Longitude)
		if d > req.RadiusKM {
			continue
		}
		nearby = append(nearby, domain.NearbyFeature{Feature: &features[i], DistanceKM: d})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKM < nearby[j].DistanceKM
	})
	if len(nearby) > req.Limit {
		nearby = nearby[:req.Limit]
	}

	s.logger.Debug("Nearby lookup",
		zap.String("body", req.TargetBody.String()),
		zap.Float64("radius_km", req.RadiusKM),
		zap.Int("found", len(nearby)),
	)
	return nearby, nil
}

// parseQuery detects the body hint and strips hint phrases and stop words
// from the lowered text. An empty remainder falls back to the full text so
// queries made only of filler still search for something.
func parseQuery(q string) (body.Body, string) {
	lower := strings.ToLower(q)

	target := body.None
	for _, h := range bodyHints {
		if !strings.Contains(lower, h.phrase) {
			continue
		}
		if target == body.None {
			target = h.target
		}
		lower = strings.ReplaceAll(lower, h.phrase, " ")
	}

	words := strings.Fields(lower)
	kept := words[:0]
	for _, w := range words {
		if _, skip := stopWords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}

	term := strings.Join(kept, " ")
	if term == "" {
		term = strings.ToLower(q)
	}
	return target, term
}

type match struct {
	feature *domain.Feature
	score   float64
}

// score assigns each candidate its match tier and sorts descending. Ties
// keep retrieval order.
func score(candidates []domain.Feature, term string) []match {
	scored := make([]match, 0, len(candidates))
	for i := range candidates {
		f := &candidates[i]
		name := strings.ToLower(f.Name)
		category := strings.ToLower(f.Category)

		var sc float64
		switch {
		case name == term:
			sc = exactNameScore
		case strings.Contains(name, term):
			sc = nameScore
		case strings.Contains(category, term):
			sc = categoryScore
		default:
			continue
		}
		scored = append(scored, match{feature: f, score: sc})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}
