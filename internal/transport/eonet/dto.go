package eonet

import (
	"encoding/json"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain"
)

// Wire format of the EONET v3 feed.

type eventsResponse struct {
	Events []eventRecord `json:"events"`
}

type eventRecord struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Link        string           `json:"link"`
	Closed      string           `json:"closed"`
	Categories  []categoryRecord `json:"categories"`
	Sources     []sourceRecord   `json:"sources"`
	Geometry    []geometryRecord `json:"geometry"`
}

type categoryRecord struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type sourceRecord struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type geometryRecord struct {
	MagnitudeValue float64         `json:"magnitudeValue"`
	MagnitudeUnit  string          `json:"magnitudeUnit"`
	Date           string          `json:"date"`
	Type           string          `json:"type"`
	Coordinates    json.RawMessage `json:"coordinates"`
}

// toDomain converts a feed record, reporting false for records the viewer
// cannot place: missing id/title or no usable point to plot.
func (r *eventRecord) toDomain() (domain.Event, bool) {
	if r.ID == "" || r.Title == "" || len(r.Geometry) == 0 {
		return domain.Event{}, false
	}

	// The geometry list is chronological; the last entry is current.
	g := r.Geometry[len(r.Geometry)-1]
	lon, lat, ok := parsePoint(g.Type, g.Coordinates)
	if !ok {
		return domain.Event{}, false
	}

	ev := domain.Event{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Link:          r.Link,
		Date:          g.Date,
		Latitude:      lat,
		Longitude:     lon,
		Closed:        r.Closed != "",
		Magnitude:     g.MagnitudeValue,
		MagnitudeUnit: g.MagnitudeUnit,
	}
	if len(r.Categories) > 0 {
		ev.Category = r.Categories[0].Title
		ev.CategoryID = r.Categories[0].ID
	}
	for _, s := range r.Sources {
		if s.URL != "" {
			ev.Sources = append(ev.Sources, s.URL)
		}
	}
	return ev, true
}

// parsePoint extracts (lon, lat) from feed coordinates: [lon, lat] for
// points, first vertex for polygons.
func parsePoint(geomType string, raw json.RawMessage) (lon, lat float64, ok bool) {
	if len(raw) == 0 {
		return 0, 0, false
	}

	if geomType == "Polygon" {
		var poly [][][]float64
		if err := json.Unmarshal(raw, &poly); err != nil || len(poly) == 0 || len(poly[0]) == 0 || len(poly[0][0]) < 2 {
			return 0, 0, false
		}
		return poly[0][0][0], poly[0][0][1], true
	}

	var pt []float64
	if err := json.Unmarshal(raw, &pt); err != nil || len(pt) < 2 {
		return 0, 0, false
	}
	return pt[0], pt[1], true
}
