package domain

// Event is a live natural event observed on Earth, as served by the event feed.
type Event struct {
	ID            string
	Title         string
	Description   string
	Category      string // display label, e.g. "Severe Storms"
	CategoryID    string // feed identifier, e.g. "severeStorms"
	Link          string
	Date          string // ISO timestamp of the most recent geometry
	Latitude      float64
	Longitude     float64
	Closed        bool
	Sources       []string
	Magnitude     float64
	MagnitudeUnit string
}

// EventScore is the fixed relevance score injected for every live event.
const EventScore = 0.95

// eventCategories maps display labels to feed category identifiers.
// Order matters: earlier entries take precedence during keyword detection.
var eventCategories = []struct {
	Label string
	ID    string
}{
	{"Dust and Haze", "dustHaze"},
	{"Wildfires", "wildfires"},
	{"Volcanoes", "volcanoes"},
	{"Severe Storms", "severeStorms"},
	{"Floods", "floods"},
	{"Earthquakes", "earthquakes"},
	{"Drought", "drought"},
	{"Sea and Lake Ice", "seaLakeIce"},
	{"Snow", "snow"},
}

// EventCategoryID resolves a display label to its feed identifier.
func EventCategoryID(label string) (string, bool) {
	for _, c := range eventCategories {
		if c.Label == label {
			return c.ID, true
		}
	}
	return "", false
}

// EventCategoryLabel resolves a feed identifier back to its display label.
func EventCategoryLabel(id string) (string, bool) {
	for _, c := range eventCategories {
		if c.ID == id {
			return c.Label, true
		}
	}
	return "", false
}

// EventCategoryLabels returns the known display labels in precedence order.
func EventCategoryLabels() []string {
	out := make([]string, len(eventCategories))
	for i, c := range eventCategories {
		out[i] = c.Label
	}
	return out
}
