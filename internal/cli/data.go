package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/record"
	"github.com/calvinalkan/worklist/internal/viewstate"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

var (
	errInvalidFilter = errors.New("invalid --filter (want facet=value[,value...])")
	errUnknownFacet  = errors.New("unknown facet")
)

// loadCollections reads the data directory. Skipped elements become
// warnings; the remaining records are still returned.
func loadCollections(o *IO, cfg *config.Config) (record.Collections, error) {
	cols, err := record.LoadDir(cfg.DataDirAbs)
	if err != nil {
		return record.Collections{}, fmt.Errorf("load records: %w", err)
	}

	for _, w := range cols.Warnings {
		o.Warn(w)
	}

	return cols, nil
}

// viewInputs are the list-view inputs after merging flags over the stored
// view state.
type viewInputs struct {
	search  string
	filters worklist.FilterSet
	mode    worklist.Mode
}

// addViewFlags registers the flags shared by list commands.
func addViewFlags(fs *flag.FlagSet) {
	fs.StringP("search", "s", "", "Case-insensitive search text (default: stored view state)")
	fs.StringArrayP("filter", "f", nil, "Facet filter facet=v1,v2; repeatable (default: stored view state)")
	fs.Bool("json", false, "Output as JSON")
}

// resolveViewInputs applies explicit flags over the persisted view state.
// Any --filter replaces the stored filter set as a whole.
func resolveViewInputs(cfg *config.Config, fs *flag.FlagSet, facets []string) (viewInputs, error) {
	store, err := viewstate.Open(cfg.StateFileAbs)
	if err != nil {
		return viewInputs{}, err
	}

	state := store.State()

	in := viewInputs{
		search:  state.Search,
		filters: state.Filters,
		mode:    store.Mode(),
	}

	if fs.Changed("search") {
		in.search, _ = fs.GetString("search")
	}

	if fs.Changed("filter") {
		raw, _ := fs.GetStringArray("filter")

		in.filters, err = parseFilters(raw, facets)
		if err != nil {
			return viewInputs{}, err
		}
	}

	return in, nil
}

// parseFilters turns ["status=open,closed", "tags=a"] into a FilterSet.
// Repeating a facet adds to its accepted values.
func parseFilters(raw []string, facets []string) (worklist.FilterSet, error) {
	filters := make(worklist.FilterSet)

	for _, arg := range raw {
		name, list, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidFilter, arg)
		}

		if !slices.Contains(facets, name) {
			return nil, fmt.Errorf("%w: %s (valid: %s)", errUnknownFacet, name, strings.Join(facets, ", "))
		}

		for _, v := range splitValues(list) {
			if !slices.Contains(filters[name], v) {
				filters[name] = append(filters[name], v)
			}
		}
	}

	return filters, nil
}

// knownFacets is the union of issue and project facet names.
func knownFacets() []string {
	set := make(map[string]struct{})
	for _, name := range append(worklist.IssueFacetNames(), worklist.ProjectFacetNames()...) {
		set[name] = struct{}{}
	}

	return slices.Sorted(maps.Keys(set))
}

func printJSON(o *IO, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	o.Println(string(data))

	return nil
}

// formatRecordLine renders "<id> [status] - title", with optional suffix.
func formatRecordLine(id, status, title, suffix string) string {
	var builder strings.Builder

	if id == "" {
		id = "-"
	}

	builder.WriteString(id)
	builder.WriteString(" [")

	if status == "" {
		status = "none"
	}

	builder.WriteString(status)
	builder.WriteString("] - ")
	builder.WriteString(title)
	builder.WriteString(suffix)

	return builder.String()
}
