package parse

import (
	"context"
	"fmt"
	"strings"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

// The rule tables below are ordered and the first match wins, so specific
// phrases must be registered before general ones: "dust storm" before
// "storm", "red planet" before any single-word body name.

type eventRule struct {
	phrase   string
	category string
}

var eventRules = []eventRule{
	{"dust storm", "Dust and Haze"},
	{"dust storms", "Dust and Haze"},
	{"sandstorm", "Dust and Haze"},
	{"sandstorms", "Dust and Haze"},
	{"dust devil", "Dust and Haze"},
	{"dust cloud", "Dust and Haze"},
	{"haze", "Dust and Haze"},

	{"wildfire", "Wildfires"},
	{"wildfires", "Wildfires"},
	{"forest fire", "Wildfires"},
	{"fire", "Wildfires"},
	{"fires", "Wildfires"},
	{"burn", "Wildfires"},
	{"burning", "Wildfires"},

	{"volcano", "Volcanoes"},
	{"volcanoes", "Volcanoes"},
	{"volcanic", "Volcanoes"},
	{"eruption", "Volcanoes"},
	{"eruptions", "Volcanoes"},
	{"lava", "Volcanoes"},

	{"hurricane", "Severe Storms"},
	{"cyclone", "Severe Storms"},
	{"typhoon", "Severe Storms"},
	{"tornado", "Severe Storms"},
	{"storm", "Severe Storms"},
	{"storms", "Severe Storms"},
	{"tempest", "Severe Storms"},

	{"flood", "Floods"},
	{"floods", "Floods"},
	{"flooding", "Floods"},
	{"inundation", "Floods"},

	{"earthquake", "Earthquakes"},
	{"earthquakes", "Earthquakes"},
	{"seismic", "Earthquakes"},
	{"tremor", "Earthquakes"},
	{"quake", "Earthquakes"},

	{"drought", "Drought"},
	{"droughts", "Drought"},
	{"dry spell", "Drought"},

	{"sea ice", "Sea and Lake Ice"},
	{"lake ice", "Sea and Lake Ice"},
	{"ice", "Sea and Lake Ice"},
	{"snow", "Snow"},
	{"snowfall", "Snow"},
	{"blizzard", "Snow"},
}

type bodyRule struct {
	phrase string
	target body.Body
}

var bodyRules = []bodyRule{
	{"red planet", body.Mars},
	{"moon", body.Moon},
	{"lunar", body.Moon},
	{"selenian", body.Moon},
	{"the moon", body.Moon},
	{"mars", body.Mars},
	{"martian", body.Mars},
	{"mercury", body.Mercury},
	{"mercurian", body.Mercury},
	{"venus", body.Venus},
	{"venusian", body.Venus},
	{"earth", body.Earth},
	{"terrestrial", body.Earth},
	{"terra", body.Earth},
}

type categoryRule struct {
	category string
	keywords []string
}

var categoryRules = []categoryRule{
	{"Crater", []string{"crater", "impact", "basin"}},
	{"Mons", []string{"mountain", "peak", "mons"}},
	{"Montes", []string{"mountains", "range", "montes"}},
	{"Vallis", []string{"valley", "vallis"}},
	{"Mare", []string{"sea", "mare", "plain"}},
	{"Rima", []string{"rille", "channel", "rima"}},
	{"Rupes", []string{"cliff", "scarp", "rupes"}},
	{"Dorsum", []string{"ridge", "dorsum"}},
	{"Lacus", []string{"lake", "lacus"}},
	{"Palus", []string{"marsh", "palus"}},
}

var (
	sizeLargeWords = []string{"large", "big", "huge", "major"}
	sizeSmallWords = []string{"small", "tiny", "minor"}
	originWords    = []string{"named after", "origin", "scientist", "astronaut", "person"}
)

// Deterministic is the keyword-rule parsing strategy. It never fails and
// reports full confidence.
type Deterministic struct{}

// NewDeterministic creates the keyword-rule strategy.
func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

// Parse extracts search intent from the query through the ordered rule
// tables: event phrases first, then body, then feature category, size and
// origin markers. Matching is substring-based over the lowercased text.
func (d *Deterministic) Parse(_ context.Context, text string, bodyOverride body.Body) (intent.Intent, error) {
	lower := strings.ToLower(text)

	p := intent.Params{
		SearchType: intent.Feature,
		Keywords:   strings.Fields(lower),
		Confidence: 1.0,
		Source:     intent.SourceDeterministic,
	}

	for _, r := range eventRules {
		if strings.Contains(lower, r.phrase) {
			p.SearchType = intent.Event
			p.EventCategory = r.category
			p.EventKeyword = r.phrase
			break
		}
	}

	for _, r := range bodyRules {
		if strings.Contains(lower, r.phrase) {
			p.TargetBody = r.target
			break
		}
	}

	if p.SearchType == intent.Event {
		p.Caveat = fmt.Sprintf(
			"Searching for dynamic events like %q. The feature catalog holds only static surface features; live event data comes from the NASA EONET feed.",
			p.EventKeyword)
	} else {
		for _, r := range categoryRules {
			if containsAny(lower, r.keywords) {
				p.Category = r.category
				break
			}
		}
	}

	switch {
	case containsAny(lower, sizeLargeWords):
		p.Size = intent.SizeLarge
	case containsAny(lower, sizeSmallWords):
		p.Size = intent.SizeSmall
	}

	if containsAny(lower, originWords) {
		p.OriginOnly = true
	}

	return intent.New(p).WithBodyOverride(bodyOverride), nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
