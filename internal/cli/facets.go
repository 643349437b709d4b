package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

var errFacetsTarget = errors.New("expected one argument: issues or projects")

// FacetsCmd returns the facets command.
func FacetsCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("facets", flag.ContinueOnError)
	fs.Bool("json", false, "Output as JSON object")

	return &Command{
		Flags: fs,
		Usage: "facets <issues|projects>",
		Short: "List filter values present in the data",
		Long: `List, per facet, the distinct values found in the issue or project
collection. Values are sorted; empty values are skipped.

Issue facets:   status, projects, createdBy, locations
Project facets: status, createdBy, locations, tags`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			jsonOutput, _ := fs.GetBool("json")

			return execFacets(io, cfg, args, jsonOutput)
		},
	}
}

func execFacets(io *IO, cfg *config.Config, args []string, jsonOutput bool) error {
	if len(args) != 1 {
		return errFacetsTarget
	}

	cols, err := loadCollections(io, cfg)
	if err != nil {
		return err
	}

	var (
		options worklist.FacetOptions
		names   []string
	)

	switch args[0] {
	case "issues":
		options, names = worklist.ComputeIssueFacets(cols.Issues), worklist.IssueFacetNames()
	case "projects":
		options, names = worklist.ComputeProjectFacets(cols.Projects), worklist.ProjectFacetNames()
	default:
		return fmt.Errorf("%w, got %q", errFacetsTarget, args[0])
	}

	if jsonOutput {
		return printJSON(io, options)
	}

	for _, name := range names {
		values := options[name]
		if len(values) == 0 {
			io.Println(name + ": (none)")

			continue
		}

		io.Println(name + ": " + strings.Join(values, ", "))
	}

	return nil
}
