package domain

import (
	"fmt"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// Diameter thresholds (km) applied by the size filter.
const (
	LargeFeatureMinDiameterKM = 50.0
	SmallFeatureMaxDiameterKM = 10.0
)

// MaxCatalogCandidates caps how many rows a single retrieval may pull for scoring.
const MaxCatalogCandidates = 1000

// Feature is a static catalog record of a named planetary surface feature.
// Read-only to the search core; never mutated after retrieval.
type Feature struct {
	ID           int64
	Name         string
	Body         string
	Category     string
	Latitude     float64
	Longitude    float64
	DiameterKM   float64 // 0 = unknown
	Origin       string  // "" = unknown
	ApprovalDate string
	Description  string
	Embedding    []float32 // nil when not precomputed
}

// SearchableText builds the text that gets embedded for a feature.
func (f *Feature) SearchableText() string {
	parts := make([]string, 0, 7)
	if f.Name != "" {
		parts = append(parts, "Name: "+f.Name)
	}
	if f.Body != "" {
		parts = append(parts, "Location: "+f.Body)
	}
	if f.Category != "" {
		parts = append(parts, "Type: "+f.Category)
	}
	if f.Origin != "" {
		parts = append(parts, "Named after: "+f.Origin)
	}
	if f.Latitude != 0 {
		parts = append(parts, fmt.Sprintf("Latitude: %g", f.Latitude))
	}
	if f.Longitude != 0 {
		parts = append(parts, fmt.Sprintf("Longitude: %g", f.Longitude))
	}
	if f.DiameterKM > 0 {
		parts = append(parts, fmt.Sprintf("Diameter: %g km", f.DiameterKM))
	}
	return strings.Join(parts, ". ")
}

// CatalogFilter is the structured filter set a parsed intent applies to the catalog.
// Zero values mean "filter not present".
type CatalogFilter struct {
	Body       string // exact match, case-insensitive
	Category   string // substring match, case-insensitive
	Size       intent.Size
	OriginOnly bool // keep only features with a recorded origin
	Limit      int  // safety cap; 0 = MaxCatalogCandidates
}
