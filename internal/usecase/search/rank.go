package search

import (
	"sort"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// Keyword-overlap weights. A term hit counts once, at the strongest tier.
const (
	nameWeight        = 1.0
	categoryWeight    = 0.5
	descriptionWeight = 0.3

	exactCategoryBonus = 2.0
	exactBodyBonus     = 1.0
)

// rank scores catalog features, injects event candidates at the fixed event
// score, and fuses everything into one descending list bounded by limit.
// Features are sorted and truncated before the merge, so a long feature tail
// can never push events out. The merge sort is stable: at equal scores
// events keep their injected-first position. The returned counts are taken
// before the final truncation.
func rank(
	features []domain.Feature, events []domain.Event,
	queryVec []float32, it intent.Intent, limit int,
) (results []domain.RankedResult, eventCount, featureCount int) {
	scored := scoreFeatures(features, queryVec, it)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	eventCount = len(events)
	featureCount = len(scored)

	results = make([]domain.RankedResult, 0, len(events)+len(scored))
	for i := range events {
		results = append(results, domain.RankedResult{
			Type:  domain.ResultEvent,
			Score: domain.EventScore,
			Event: &events[i],
		})
	}
	results = append(results, scored...)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, eventCount, featureCount
}

// scoreFeatures picks the scoring mode from the intent source: cosine
// similarity against the query embedding on the deterministic path, weighted
// keyword overlap when the intent came from the remote parser or its
// fallback extraction.
func scoreFeatures(features []domain.Feature, queryVec []float32, it intent.Intent) []domain.RankedResult {
	if it.Source() == intent.SourceDeterministic {
		return scoreByEmbedding(features, queryVec)
	}
	return scoreByKeywords(features, it)
}

// scoreByEmbedding ranks by cosine similarity. Features without a
// precomputed embedding are excluded; they cannot be compared.
func scoreByEmbedding(features []domain.Feature, queryVec []float32) []domain.RankedResult {
	scored := make([]domain.RankedResult, 0, len(features))
	for i := range features {
		f := &features[i]
		if len(f.Embedding) == 0 {
			continue
		}
		scored = append(scored, domain.RankedResult{
			Type:    domain.ResultFeature,
			Score:   domain.CosineSimilarity(queryVec, f.Embedding),
			Feature: f,
		})
	}
	return scored
}

// scoreByKeywords ranks by weighted term overlap, with exact-match bonuses
// for the intent's category and body, scaled by parser confidence.
// Zero-score features are excluded.
func scoreByKeywords(features []domain.Feature, it intent.Intent) []domain.RankedResult {
	scored := make([]domain.RankedResult, 0, len(features))
	for i := range features {
		f := &features[i]
		score := keywordScore(f, it)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.RankedResult{
			Type:    domain.ResultFeature,
			Score:   score,
			Feature: f,
		})
	}
	return scored
}

func keywordScore(f *domain.Feature, it intent.Intent) float64 {
	name := strings.ToLower(f.Name)
	category := strings.ToLower(f.Category)
	description := strings.ToLower(f.Description)

	var score float64
	for _, kw := range it.Keywords() {
		kw = strings.ToLower(kw)
		switch {
		case strings.Contains(name, kw):
			score += nameWeight
		case strings.Contains(category, kw):
			score += categoryWeight
		case strings.Contains(description, kw):
			score += descriptionWeight
		}
	}

	if c := it.Category(); c != "" && strings.EqualFold(f.Category, c) {
		score += exactCategoryBonus
	}
	if b := it.TargetBody(); b.IsValid() && strings.EqualFold(f.Body, b.String()) {
		score += exactBodyBonus
	}

	return score * it.Confidence()
}
