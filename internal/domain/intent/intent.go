// Package intent holds the structured interpretation of a search query.
package intent

import (
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
)

// SearchType tells which half of the pipeline a query targets.
type SearchType string

const (
	Feature SearchType = "feature"
	Event   SearchType = "event"
)

// IsValid reports whether t is a known search type.
func (t SearchType) IsValid() bool {
	return t == Feature || t == Event
}

func (t SearchType) String() string {
	return string(t)
}

// Size narrows features by diameter class.
type Size string

const (
	SizeNone  Size = ""
	SizeLarge Size = "large"
	SizeSmall Size = "small"
)

func (s Size) String() string {
	return string(s)
}

// SizeFromString maps free-form size text to a Size; anything unknown is SizeNone.
func SizeFromString(s string) Size {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SizeLarge):
		return SizeLarge
	case string(SizeSmall):
		return SizeSmall
	default:
		return SizeNone
	}
}

// Source identifies which parsing strategy produced an intent.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceRemote        Source = "remote"
	SourceFallback      Source = "fallback"
)

func (s Source) String() string {
	return string(s)
}

// Intent is an immutable parsed query. Construct with New.
type Intent struct {
	searchType    SearchType
	targetBody    body.Body
	category      string
	size          Size
	originOnly    bool
	eventCategory string
	eventKeyword  string
	caveat        string
	keywords      []string
	confidence    float64
	source        Source
}

// Params collects the inputs for New. Zero values mean "not detected".
type Params struct {
	SearchType    SearchType
	TargetBody    body.Body
	Category      string
	Size          Size
	OriginOnly    bool
	EventCategory string
	EventKeyword  string
	Caveat        string
	Keywords      []string
	Confidence    float64
	Source        Source
}

// New normalizes p into an Intent. Parsing never fails the pipeline, so
// invalid inputs are corrected rather than rejected: an unknown search type
// becomes Feature and confidence is clamped to [0, 1].
func New(p Params) Intent {
	if !p.SearchType.IsValid() {
		p.SearchType = Feature
	}
	if p.Confidence < 0 {
		p.Confidence = 0
	}
	if p.Confidence > 1 {
		p.Confidence = 1
	}
	kws := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			kws = append(kws, k)
		}
	}
	return Intent{
		searchType:    p.SearchType,
		targetBody:    p.TargetBody,
		category:      p.Category,
		size:          p.Size,
		originOnly:    p.OriginOnly,
		eventCategory: p.EventCategory,
		eventKeyword:  p.EventKeyword,
		caveat:        p.Caveat,
		keywords:      kws,
		confidence:    p.Confidence,
		source:        p.Source,
	}
}

// WithBodyOverride fills the target body only when none was detected.
func (i Intent) WithBodyOverride(b body.Body) Intent {
	if i.targetBody == body.None && b.IsValid() {
		i.targetBody = b
	}
	return i
}

// IsEvent reports whether the query targets live events.
func (i Intent) IsEvent() bool {
	return i.searchType == Event && i.eventCategory != ""
}

func (i Intent) SearchType() SearchType { return i.searchType }
func (i Intent) TargetBody() body.Body  { return i.targetBody }
func (i Intent) Category() string       { return i.category }
func (i Intent) Size() Size             { return i.size }
func (i Intent) OriginOnly() bool       { return i.originOnly }
func (i Intent) EventCategory() string  { return i.eventCategory }
func (i Intent) EventKeyword() string   { return i.eventKeyword }
func (i Intent) Caveat() string         { return i.caveat }
func (i Intent) Keywords() []string     { return i.keywords }
func (i Intent) Confidence() float64    { return i.confidence }
func (i Intent) Source() Source         { return i.source }
