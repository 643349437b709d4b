package worklist

import (
	"slices"

	"github.com/calvinalkan/worklist/internal/record"
)

// Facet names.
const (
	FacetStatus    = "status"
	FacetProjects  = "projects"
	FacetCreatedBy = "createdBy"
	FacetLocations = "locations"
	FacetTags      = "tags"
)

// FacetOptions maps a facet name to the sorted, distinct values observed
// for it in a collection.
type FacetOptions map[string][]string

// facet describes one filter dimension: its name and how a record's values
// for it are resolved. Most facets are single-valued.
type facet struct {
	name   string
	values func(rec record.Record) []string
}

func single(chain record.Chain) func(record.Record) []string {
	return func(rec record.Record) []string {
		if v := chain.String(rec); v != "" {
			return []string{v}
		}

		return nil
	}
}

//nolint:gochecknoglobals // package-level constants
var (
	issueFacets = []facet{
		{name: FacetStatus, values: single(statusChain)},
		{name: FacetProjects, values: single(projectRefChain)},
		{name: FacetCreatedBy, values: single(creatorNameChain)},
		{name: FacetLocations, values: single(locationChain)},
	}

	projectFacets = []facet{
		{name: FacetStatus, values: single(statusChain)},
		{name: FacetCreatedBy, values: single(creatorNameChain)},
		{name: FacetLocations, values: single(locationChain)},
		{name: FacetTags, values: tagsChain.Strings},
	}
)

// IssueFacetNames returns the facets [FilterIssues] understands, in display order.
func IssueFacetNames() []string { return facetNames(issueFacets) }

// ProjectFacetNames returns the facets [FilterProjects] understands, in display order.
func ProjectFacetNames() []string { return facetNames(projectFacets) }

func facetNames(facets []facet) []string {
	names := make([]string, len(facets))
	for i, f := range facets {
		names[i] = f.name
	}

	return names
}

// ComputeIssueFacets derives status, project, creator and location options
// from an issue collection.
func ComputeIssueFacets(issues []record.Record) FacetOptions {
	return computeFacets(issues, issueFacets)
}

// ComputeProjectFacets derives status, creator, location and tag options
// from a project collection.
func ComputeProjectFacets(projects []record.Record) FacetOptions {
	return computeFacets(projects, projectFacets)
}

// computeFacets scans records once per facet. Every facet is present in the
// result, with an empty list when no record carries a value.
func computeFacets(records []record.Record, facets []facet) FacetOptions {
	options := make(FacetOptions, len(facets))

	for _, f := range facets {
		seen := make(map[string]struct{})

		for _, rec := range records {
			for _, v := range f.values(rec) {
				if v != "" {
					seen[v] = struct{}{}
				}
			}
		}

		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}

		slices.Sort(values)

		options[f.name] = values
	}

	return options
}
