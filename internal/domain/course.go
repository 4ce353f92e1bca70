package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCatalog is returned when catalog data cannot be interpreted.
var ErrMalformedCatalog = errors.New("malformed catalog")

// PrerequisiteGroup is an AND-set of course codes. A course's requirement is
// met when any one of its groups is met.
type PrerequisiteGroup struct {
	Courses           []string
	ConcurrentAllowed bool
}

// CatalogEntry is the canonical representation of a catalog course.
// Groups take precedence over the legacy Prerequisites list when both exist.
type CatalogEntry struct {
	Code    string
	Name    string
	Credits int

	Prerequisites      []string // legacy AND-list
	PrerequisiteGroups []PrerequisiteGroup

	Category    string // "ie_core", "gen_ed", "technical_electives"
	Subcategory string
}

// HasGroups reports whether the group rule applies to this entry.
func (e CatalogEntry) HasGroups() bool {
	return len(e.PrerequisiteGroups) > 0
}

// AllPrerequisites merges group courses and the legacy list, in listed order,
// without duplicates.
func (e CatalogEntry) AllPrerequisites() []string {
	seen := map[string]bool{}
	var out []string
	add := func(code string) {
		if seen[code] {
			return
		}
		seen[code] = true
		out = append(out, code)
	}
	for _, g := range e.PrerequisiteGroups {
		for _, c := range g.Courses {
			add(c)
		}
	}
	for _, c := range e.Prerequisites {
		add(c)
	}
	return out
}

// Catalog is a read-only code → entry lookup. It is safe to share across
// goroutines once built.
type Catalog struct {
	entries map[string]CatalogEntry
	order   []string
}

// NewCatalog checks every entry and builds the lookup. A later entry with the
// same code replaces the earlier one.
func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]CatalogEntry, len(entries))}
	for i, e := range entries {
		e.Code = strings.TrimSpace(e.Code)
		if err := checkEntry(e); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedCatalog, i, err)
		}
		if _, dup := c.entries[e.Code]; !dup {
			c.order = append(c.order, e.Code)
		}
		c.entries[e.Code] = cloneEntry(e)
	}
	return c, nil
}

func checkEntry(e CatalogEntry) error {
	if e.Code == "" {
		return errors.New("missing code")
	}
	if e.Credits < 0 {
		return fmt.Errorf("%s: negative credits %d", e.Code, e.Credits)
	}
	for _, p := range e.Prerequisites {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%s: empty prerequisite code", e.Code)
		}
	}
	for gi, g := range e.PrerequisiteGroups {
		for _, p := range g.Courses {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%s: group %d: empty prerequisite code", e.Code, gi)
			}
		}
	}
	return nil
}

func cloneEntry(e CatalogEntry) CatalogEntry {
	e.Prerequisites = append([]string(nil), e.Prerequisites...)
	groups := make([]PrerequisiteGroup, len(e.PrerequisiteGroups))
	for i, g := range e.PrerequisiteGroups {
		groups[i] = PrerequisiteGroup{
			Courses:           append([]string(nil), g.Courses...),
			ConcurrentAllowed: g.ConcurrentAllowed,
		}
	}
	if len(groups) == 0 {
		groups = nil
	}
	e.PrerequisiteGroups = groups
	return e
}

func (c *Catalog) Lookup(code string) (CatalogEntry, bool) {
	if c == nil {
		return CatalogEntry{}, false
	}
	e, ok := c.entries[code]
	return e, ok
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the entries in first-seen order.
func (c *Catalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]CatalogEntry, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.entries[code])
	}
	return out
}
