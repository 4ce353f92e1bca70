package catalogdiff

import (
	"sort"
	"strings"

	"course-validator/internal/domain"
)

// Change is a course present in both catalogs whose definition differs.
type Change struct {
	Code   string
	Fields []string
	Old    domain.CatalogEntry
	New    domain.CatalogEntry
}

// Result lists differences between two catalog versions, each sorted by code.
type Result struct {
	Added   []domain.CatalogEntry
	Changed []Change
	Removed []domain.CatalogEntry
}

func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Changed) == 0 && len(r.Removed) == 0
}

// Diff compares a previous and a next catalog version. Either may be nil.
func Diff(prev, next *domain.Catalog) Result {
	var res Result

	oldByCode := map[string]domain.CatalogEntry{}
	for _, e := range prev.Entries() {
		oldByCode[e.Code] = e
	}
	newByCode := map[string]domain.CatalogEntry{}
	for _, e := range next.Entries() {
		newByCode[e.Code] = e
	}

	for code, ne := range newByCode {
		oe, ok := oldByCode[code]
		if !ok {
			res.Added = append(res.Added, ne)
			continue
		}
		if fields := changedFields(oe, ne); len(fields) > 0 {
			res.Changed = append(res.Changed, Change{Code: code, Fields: fields, Old: oe, New: ne})
		}
	}
	for code, oe := range oldByCode {
		if _, ok := newByCode[code]; !ok {
			res.Removed = append(res.Removed, oe)
		}
	}

	sort.Slice(res.Added, func(i, j int) bool { return res.Added[i].Code < res.Added[j].Code })
	sort.Slice(res.Changed, func(i, j int) bool { return res.Changed[i].Code < res.Changed[j].Code })
	sort.Slice(res.Removed, func(i, j int) bool { return res.Removed[i].Code < res.Removed[j].Code })
	return res
}

func changedFields(o, n domain.CatalogEntry) []string {
	var fields []string
	if norm(o.Name) != norm(n.Name) {
		fields = append(fields, "name")
	}
	if o.Credits != n.Credits {
		fields = append(fields, "credits")
	}
	if o.Category != n.Category || o.Subcategory != n.Subcategory {
		fields = append(fields, "category")
	}
	if !sameCodes(o.Prerequisites, n.Prerequisites) {
		fields = append(fields, "prerequisites")
	}
	if !sameGroups(o.PrerequisiteGroups, n.PrerequisiteGroups) {
		fields = append(fields, "prerequisite_groups")
	}
	return fields
}

// sameCodes ignores order; a prerequisite list is a set. Codes compare
// exactly because catalog lookup is case-sensitive.
func sameCodes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return strings.Join(sortedTrimmed(a), ",") == strings.Join(sortedTrimmed(b), ",")
}

// Group order matters: it decides which group a failure reason names.
func sameGroups(a, b []domain.PrerequisiteGroup) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ConcurrentAllowed != b[i].ConcurrentAllowed || !sameCodes(a[i].Courses, b[i].Courses) {
			return false
		}
	}
	return true
}

func sortedTrimmed(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	sort.Strings(out)
	return out
}

func norm(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
