package domain

import "strings"

// Substance classes used by the timing-safety tables.
const (
	ClassPsychedelic  = "psychedelic"
	ClassEmpathogen   = "empathogen"
	ClassDissociative = "dissociative"
	ClassStimulant    = "stimulant"
	ClassDepressant   = "depressant"
	ClassCannabinoid  = "cannabinoid"
	ClassOther        = "other"
)

// Substance describes a known substance in the catalog.
type Substance struct {
	Name        string   `json:"name"`
	Class       string   `json:"class"`
	CommonNames []string `json:"commonNames,omitempty"`
}

// Catalog is a lookup of known substances by name or common name.
type Catalog struct {
	substances []Substance
	byName     map[string]*Substance
}

// NewCatalog builds a catalog from the given substances.
func NewCatalog(substances []Substance) *Catalog {
	c := &Catalog{
		substances: substances,
		byName:     make(map[string]*Substance),
	}
	for i := range c.substances {
		s := &c.substances[i]
		c.byName[strings.ToLower(s.Name)] = s
		for _, alias := range s.CommonNames {
			c.byName[strings.ToLower(alias)] = s
		}
	}
	return c
}

// Lookup finds a substance by name or alias, case-insensitive.
func (c *Catalog) Lookup(name string) (*Substance, bool) {
	if c == nil {
		return nil, false
	}
	s, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// All returns every substance in the catalog.
func (c *Catalog) All() []Substance {
	if c == nil {
		return nil
	}
	return c.substances
}

// Len returns the number of substances in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.substances)
}
