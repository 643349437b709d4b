package cli

import (
	"context"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

// IssuesCmd returns the issues command.
func IssuesCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("issues", flag.ContinueOnError)
	addViewFlags(fs)

	return &Command{
		Flags: fs,
		Usage: "issues [flags]",
		Short: "Search and filter issues",
		Long: `Search issue titles and filter by facet. Output keeps file order.

Facets combine with AND; values within one facet combine with OR.
Without --search/--filter the stored view state is used (see "wl state").

Examples:
  wl issues --search leak
  wl issues -f status=open,in_progress -f locations="Dock 4"`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execIssues(io, cfg, fs)
		},
	}
}

func execIssues(io *IO, cfg *config.Config, fs *flag.FlagSet) error {
	in, err := resolveViewInputs(cfg, fs, worklist.IssueFacetNames())
	if err != nil {
		return err
	}

	cols, err := loadCollections(io, cfg)
	if err != nil {
		return err
	}

	issues := worklist.FilterIssues(cols.Issues, in.search, in.filters)

	if jsonOutput, _ := fs.GetBool("json"); jsonOutput {
		return printJSON(io, issues)
	}

	for _, issue := range issues {
		suffix := ""
		if project := worklist.ProjectOf(issue); project != "" {
			suffix = " (project: " + project + ")"
		}

		io.Println(formatRecordLine(worklist.ID(issue), worklist.Status(issue), worklist.Title(issue), suffix))
	}

	return nil
}
