// Package domain defines the core record types Lucid analyzes.
package domain

import (
	"sort"
	"strings"
	"time"
)

// Routes of administration.
const (
	RouteOral        = "oral"
	RouteSublingual  = "sublingual"
	RouteInsufflated = "insufflated"
	RouteInhaled     = "inhaled"
	RouteTransdermal = "transdermal"
	RouteOther       = "other"
)

// Ingestion is a single substance dose taken during an experience.
type Ingestion struct {
	SubstanceName string    `json:"substanceName"`
	Dose          float64   `json:"dose"`
	Unit          string    `json:"unit"`
	Route         string    `json:"route"`
	Timestamp     time.Time `json:"timestamp"`
}

// Experience is one journaled session with zero or more ingestions.
// Rating is 1 to 5, with 0 meaning unrated.
type Experience struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	StartedAt  time.Time   `json:"startedAt"`
	EndedAt    *time.Time  `json:"endedAt,omitempty"`
	Location   string      `json:"location,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	Rating     int         `json:"rating,omitempty"`
	Ingestions []Ingestion `json:"ingestions,omitempty"`
}

// Rated reports whether the experience carries a quality rating.
func (e *Experience) Rated() bool {
	return e.Rating >= 1
}

// SubstanceSet returns the distinct substance names ingested, sorted and
// lowercased so equal combinations compare equal.
func (e *Experience) SubstanceSet() []string {
	seen := make(map[string]bool)
	var names []string
	for _, ing := range e.Ingestions {
		name := strings.ToLower(strings.TrimSpace(ing.SubstanceName))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CombinationKey returns a canonical key for the set of substances taken
// together, or "" if fewer than two substances were involved.
func (e *Experience) CombinationKey() string {
	set := e.SubstanceSet()
	if len(set) < 2 {
		return ""
	}
	return strings.Join(set, "+")
}
