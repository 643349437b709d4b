package cli

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/record"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

// WorklistCmd returns the worklist command. now supplies the current time
// unless --now is given.
func WorklistCmd(cfg *config.Config, now func() time.Time) *Command {
	fs := flag.NewFlagSet("worklist", flag.ContinueOnError)
	addViewFlags(fs)
	fs.StringP("mode", "m", "", "Source collection (tasks|issues) (default: stored view state, else tasks)")
	fs.String("now", "", "Rank as of this RFC3339 time instead of the current time")

	return &Command{
		Flags: fs,
		Usage: "worklist [flags]",
		Short: "Rank what to work on next (max 20)",
		Long: `Rank open tasks or issues by urgency and show the top 20.

Completed items are skipped (reopened issues are always kept; tasks that
stand for an issue only show in issues mode). Order:
  1. critical issues first (issues mode only)
  2. overdue before not overdue
  3. soonest due date first, items without a due date last

In issues mode, stored or given --filter facets narrow the issues first.

Examples:
  wl worklist
  wl worklist --mode issues --search pump
  wl worklist --now 2026-03-10T09:00:00+01:00 --json`,
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execWorklist(io, cfg, fs, now)
		},
	}
}

func execWorklist(io *IO, cfg *config.Config, fs *flag.FlagSet, now func() time.Time) error {
	in, err := resolveViewInputs(cfg, fs, worklist.IssueFacetNames())
	if err != nil {
		return err
	}

	if fs.Changed("mode") {
		raw, _ := fs.GetString("mode")

		in.mode, err = worklist.ParseMode(raw)
		if err != nil {
			return err
		}
	}

	at := now()

	if fs.Changed("now") {
		raw, _ := fs.GetString("now")

		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}

	cols, err := loadCollections(io, cfg)
	if err != nil {
		return err
	}

	ranked := buildWorklist(cols, in, at)

	if jsonOutput, _ := fs.GetBool("json"); jsonOutput {
		return printJSON(io, rankedJSON(ranked))
	}

	printWorklist(io, ranked)

	return nil
}

// buildWorklist feeds facet-filtered issues (issues mode) or tasks into the
// ranker.
func buildWorklist(cols record.Collections, in viewInputs, at time.Time) []worklist.RankedRecord {
	issues := cols.Issues
	if in.mode == worklist.ModeIssues {
		issues = worklist.FilterIssues(issues, "", in.filters)
	}

	return worklist.RankWorklist(cols.Tasks, issues, in.mode, in.search, at)
}

func printWorklist(io *IO, ranked []worklist.RankedRecord) {
	for _, r := range ranked {
		suffix := ""
		if r.Critical {
			suffix = " (critical)"
		}

		if project := worklist.ProjectOf(r.Record); project != "" {
			suffix += " (project: " + project + ")"
		}

		title := dueLabel(r) + " " + worklist.Title(r.Record)

		io.Println(formatRecordLine(worklist.ID(r.Record), worklist.Status(r.Record), title, suffix))
	}
}

// dueLabel renders the day offset: "today", "+3d", "-2d" or "no-due".
func dueLabel(r worklist.RankedRecord) string {
	switch {
	case !r.HasDueDate():
		return "no-due"
	case r.DaysUntilDue == 0:
		return "today"
	case r.DaysUntilDue > 0:
		return "+" + strconv.Itoa(r.DaysUntilDue) + "d"
	default:
		return strconv.Itoa(r.DaysUntilDue) + "d"
	}
}

// rankedJSON copies each record and adds the transient ranking fields.
// daysUntilDue is null for undated records.
func rankedJSON(ranked []worklist.RankedRecord) []map[string]any {
	out := make([]map[string]any, 0, len(ranked))

	for _, r := range ranked {
		entry := maps.Clone(map[string]any(r.Record))
		if entry == nil {
			entry = map[string]any{}
		}

		if r.HasDueDate() {
			entry["daysUntilDue"] = r.DaysUntilDue
		} else {
			entry["daysUntilDue"] = nil
		}

		entry["overdue"] = r.Overdue()
		out = append(out, entry)
	}

	return out
}
