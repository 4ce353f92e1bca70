package mappers

import (
	"fmt"
	"sort"
	"strings"

	"course-validator/internal/domain"
)

const (
	CategoryIECore     = "ie_core"
	CategoryGenEd      = "gen_ed"
	CategoryTechnical  = "technical_electives"
	subcategoryCore    = "core"
	subcategoryFound   = "foundation"
	subcategoryTechnic = "technical"
)

// ToCatalogEntries flattens a catalog document. Sections are applied in the
// order IE core, other related, gen-ed (by sorted key), technical electives;
// a later section overrides a code seen earlier.
func ToCatalogEntries(doc CatalogDocument) ([]domain.CatalogEntry, error) {
	var out []domain.CatalogEntry

	add := func(section string, recs []CourseRecord, category, subcategory string) error {
		for i, r := range recs {
			e, err := toEntry(r)
			if err != nil {
				return fmt.Errorf("%w: %s[%d]: %v", domain.ErrMalformedCatalog, section, i, err)
			}
			e.Category = category
			e.Subcategory = subcategory
			out = append(out, e)
		}
		return nil
	}

	if err := add("industrial_engineering_courses", doc.IECourses, CategoryIECore, subcategoryCore); err != nil {
		return nil, err
	}
	if err := add("other_related_courses", doc.OtherCourses, CategoryIECore, subcategoryFound); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc.GenEdCourses))
	for k := range doc.GenEdCourses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := add("gen_ed_courses."+k, doc.GenEdCourses[k], CategoryGenEd, k); err != nil {
			return nil, err
		}
	}
	if err := add("technical_electives", doc.TechnicalElectives, CategoryTechnical, subcategoryTechnic); err != nil {
		return nil, err
	}
	return out, nil
}

// ToCatalog flattens the document and builds the lookup.
func ToCatalog(doc CatalogDocument) (*domain.Catalog, error) {
	entries, err := ToCatalogEntries(doc)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(entries)
}

func toEntry(r CourseRecord) (domain.CatalogEntry, error) {
	switch {
	case r.Code == nil:
		return domain.CatalogEntry{}, fmt.Errorf("missing field 'code'")
	case r.Name == nil:
		return domain.CatalogEntry{}, fmt.Errorf("%s: missing field 'name'", *r.Code)
	case r.Credits == nil:
		return domain.CatalogEntry{}, fmt.Errorf("%s: missing field 'credits'", *r.Code)
	}

	e := domain.CatalogEntry{
		Code:          strings.TrimSpace(*r.Code),
		Name:          strings.TrimSpace(*r.Name),
		Credits:       *r.Credits,
		Prerequisites: cleanCodes(r.Prerequisites),
	}
	for _, g := range r.PrerequisiteGroups {
		e.PrerequisiteGroups = append(e.PrerequisiteGroups, domain.PrerequisiteGroup{
			Courses:           cleanCodes(g.Courses),
			ConcurrentAllowed: g.ConcurrentAllowed,
		})
	}
	return e, nil
}

func cleanCodes(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

// CatalogStats counts courses per section of a catalog document.
type CatalogStats struct {
	IECourses          int
	GenEdCourses       int
	TechnicalElectives int
	OtherCourses       int
	Total              int
}

func Stats(doc CatalogDocument) CatalogStats {
	s := CatalogStats{
		IECourses:          len(doc.IECourses),
		TechnicalElectives: len(doc.TechnicalElectives),
		OtherCourses:       len(doc.OtherCourses),
	}
	for _, recs := range doc.GenEdCourses {
		s.GenEdCourses += len(recs)
	}
	s.Total = s.IECourses + s.GenEdCourses + s.TechnicalElectives + s.OtherCourses
	return s
}
