package worklist

import (
	"slices"
	"strings"

	"github.com/calvinalkan/worklist/internal/record"
)

// FilterSet maps a facet name to its accepted values. A facet that is
// missing or has no values imposes no constraint.
type FilterSet map[string][]string

// Active reports whether the facet constrains results.
func (fs FilterSet) Active(name string) bool {
	return len(fs[name]) > 0
}

// Clone returns a deep copy.
func (fs FilterSet) Clone() FilterSet {
	if fs == nil {
		return nil
	}

	out := make(FilterSet, len(fs))
	for name, values := range fs {
		out[name] = slices.Clone(values)
	}

	return out
}

// FilterIssues returns the issues whose title contains search
// (case-insensitive) and that satisfy every active facet in filters.
// Input order is preserved.
func FilterIssues(issues []record.Record, search string, filters FilterSet) []record.Record {
	needle := strings.ToLower(search)

	return filterRecords(issues, filters, issueFacets, func(rec record.Record) bool {
		return containsFolded(titleChain.String(rec), needle)
	})
}

// FilterProjects is [FilterIssues] for projects. The text clause matches the
// project name, its description, or any tag.
func FilterProjects(projects []record.Record, search string, filters FilterSet) []record.Record {
	needle := strings.ToLower(search)

	return filterRecords(projects, filters, projectFacets, func(rec record.Record) bool {
		if containsFolded(projectNameChain.String(rec), needle) ||
			containsFolded(descriptionChain.String(rec), needle) {
			return true
		}

		return slices.ContainsFunc(tagsChain.Strings(rec), func(tag string) bool {
			return containsFolded(tag, needle)
		})
	})
}

// filterRecords keeps the records that pass textMatch and every active
// facet. Filter entries naming unknown facets are ignored.
func filterRecords(
	records []record.Record,
	filters FilterSet,
	facets []facet,
	textMatch func(record.Record) bool,
) []record.Record {
	active := make([]facet, 0, len(facets))

	for _, f := range facets {
		if filters.Active(f.name) {
			active = append(active, f)
		}
	}

	out := make([]record.Record, 0, len(records))

	for _, rec := range records {
		if !textMatch(rec) {
			continue
		}

		if !matchesFacets(rec, filters, active) {
			continue
		}

		out = append(out, rec)
	}

	return out
}

// matchesFacets requires, per facet, at least one of the record's values to
// be accepted. A record without the attribute has no values and fails.
func matchesFacets(rec record.Record, filters FilterSet, active []facet) bool {
	for _, f := range active {
		accepted := filters[f.name]

		if !slices.ContainsFunc(f.values(rec), func(v string) bool {
			return slices.Contains(accepted, v)
		}) {
			return false
		}
	}

	return true
}

// containsFolded reports whether haystack contains needle, ignoring case.
// needle must already be lower-cased. An empty needle always matches.
func containsFolded(haystack, needle string) bool {
	if needle == "" {
		return true
	}

	return strings.Contains(strings.ToLower(haystack), needle)
}
