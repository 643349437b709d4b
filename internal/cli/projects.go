package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/record"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

const (
	categoryPending   = "pending"
	categoryCompleted = "completed"
)

var errInvalidCategory = errors.New("invalid --category (valid: pending, completed)")

// ProjectsCmd returns the projects command.
func ProjectsCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("projects", flag.ContinueOnError)
	addViewFlags(fs)
	fs.String("category", "", "Show only one category (pending|completed)")

	return &Command{
		Flags: fs,
		Usage: "projects [flags]",
		Short: "Search, filter and categorize projects",
		Long: `Search projects by name, description or tag, filter by facet, and split
the result into pending and completed.

A project is completed when its progress is at least 100 or its status
is "completed"; everything else is pending.`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execProjects(io, cfg, fs)
		},
	}
}

func execProjects(io *IO, cfg *config.Config, fs *flag.FlagSet) error {
	category, _ := fs.GetString("category")
	if category != "" && category != categoryPending && category != categoryCompleted {
		return fmt.Errorf("%w: %s", errInvalidCategory, category)
	}

	in, err := resolveViewInputs(cfg, fs, worklist.ProjectFacetNames())
	if err != nil {
		return err
	}

	cols, err := loadCollections(io, cfg)
	if err != nil {
		return err
	}

	cats := worklist.Categorize(worklist.FilterProjects(cols.Projects, in.search, in.filters))

	if jsonOutput, _ := fs.GetBool("json"); jsonOutput {
		out := make(map[string][]record.Record, 2)

		if category != categoryCompleted {
			out[categoryPending] = cats.Pending
		}

		if category != categoryPending {
			out[categoryCompleted] = cats.Completed
		}

		return printJSON(io, out)
	}

	sections := []struct {
		name     string
		projects []record.Record
	}{
		{categoryPending, cats.Pending},
		{categoryCompleted, cats.Completed},
	}

	for _, section := range sections {
		if category != "" && category != section.name {
			continue
		}

		io.Printf("# %s (%d)\n", section.name, len(section.projects))

		for _, project := range section.projects {
			io.Println(formatRecordLine(
				worklist.ID(project),
				worklist.Status(project),
				worklist.ProjectName(project),
				progressSuffix(project),
			))
		}
	}

	return nil
}

func progressSuffix(project record.Record) string {
	progress, ok := worklist.Progress(project)
	if !ok {
		return ""
	}

	return " (" + strconv.FormatFloat(progress, 'f', -1, 64) + "%)"
}
