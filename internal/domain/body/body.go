// Package body defines the celestial bodies the feature catalog covers.
package body

import "strings"

// Body is a canonical celestial body name.
type Body string

const (
	Mars    Body = "Mars"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Earth   Body = "Earth"
	None    Body = ""
)

// All returns every known body.
func All() []Body {
	return []Body{Mars, Moon, Mercury, Venus, Earth}
}

// IsValid reports whether b is a known body (None is not).
func (b Body) IsValid() bool {
	switch b {
	case Mars, Moon, Mercury, Venus, Earth:
		return true
	}
	return false
}

func (b Body) String() string {
	return string(b)
}

// Canonical resolves a free-form name ("mars", "MOON") to its canonical body.
func Canonical(s string) (Body, bool) {
	s = strings.TrimSpace(s)
	for _, b := range All() {
		if strings.EqualFold(s, string(b)) {
			return b, true
		}
	}
	return None, false
}
