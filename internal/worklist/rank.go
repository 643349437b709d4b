package worklist

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/calvinalkan/worklist/internal/record"
)

// MaxWorklistItems caps the ranked worklist.
const MaxWorklistItems = 20

// NoDueDate is the DaysUntilDue of records without a usable due date. It
// sorts after every dated record.
const NoDueDate = math.MaxInt

// maxDateMillis is the largest absolute Unix millisecond value accepted as a
// due date (the JavaScript Date range, +-100,000,000 days).
const maxDateMillis = 8.64e15

const secondsPerDay = 24 * 60 * 60

// Mode selects which collection feeds the worklist.
type Mode string

// Worklist modes.
const (
	ModeTasks  Mode = "tasks"
	ModeIssues Mode = "issues"
)

// ErrInvalidMode is returned by [ParseMode].
var ErrInvalidMode = errors.New("invalid mode (valid: tasks, issues)")

// ParseMode validates a user-supplied mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeTasks:
		return ModeTasks, nil
	case ModeIssues:
		return ModeIssues, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// RankedRecord is a worklist entry: the source record plus transient
// ranking data. The record itself is never modified.
type RankedRecord struct {
	Record record.Record

	// DaysUntilDue is the signed number of calendar days from today to the
	// due date (negative = overdue), or NoDueDate.
	DaysUntilDue int

	// Critical is only consulted in issues mode.
	Critical bool
}

// HasDueDate reports whether a usable due date was resolved.
func (r RankedRecord) HasDueDate() bool { return r.DaysUntilDue != NoDueDate }

// Overdue reports whether the due date is before today.
func (r RankedRecord) Overdue() bool { return r.HasDueDate() && r.DaysUntilDue < 0 }

// RankWorklist builds the "what next" list. It picks tasks or issues by
// mode, drops completed items, applies search, and orders the rest:
//
//  1. issues mode only: critical before non-critical
//  2. overdue before not overdue
//  3. fewest days until due first, undated last, then input order
//
// At most [MaxWorklistItems] records are returned. now anchors "today" (its
// location defines local midnight); it is never read from the system clock.
func RankWorklist(tasks, issues []record.Record, mode Mode, search string, now time.Time) []RankedRecord {
	source, excluded := tasks, isTaskExcluded
	if mode == ModeIssues {
		source, excluded = issues, isIssueExcluded
	}

	needle := strings.ToLower(search)
	today := midnight(now)

	ranked := make([]RankedRecord, 0, min(len(source), MaxWorklistItems))

	for _, rec := range source {
		if excluded(rec) || !matchesWorklistSearch(rec, needle) {
			continue
		}

		ranked = append(ranked, RankedRecord{
			Record:       rec,
			DaysUntilDue: daysUntilDue(rec, today),
			Critical:     mode == ModeIssues && criticalChain.Bool(rec),
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedRecord) int {
		if a.Critical != b.Critical {
			if a.Critical {
				return -1
			}

			return 1
		}

		if a.Overdue() != b.Overdue() {
			if a.Overdue() {
				return -1
			}

			return 1
		}

		return cmp.Compare(a.DaysUntilDue, b.DaysUntilDue)
	})

	if len(ranked) > MaxWorklistItems {
		ranked = slices.Clip(ranked[:MaxWorklistItems])
	}

	return ranked
}

// isIssueExcluded drops completed or resolved issues, and issues at full
// progress, unless they were reopened.
func isIssueExcluded(issue record.Record) bool {
	status := statusChain.String(issue)
	if strings.EqualFold(status, StatusReopen) {
		return false
	}

	if strings.EqualFold(status, StatusCompleted) || strings.EqualFold(status, StatusResolved) {
		return true
	}

	return hasFullProgress(issue)
}

// isTaskExcluded drops completed tasks and tasks that stand for an issue;
// those are listed in issues mode instead.
func isTaskExcluded(task record.Record) bool {
	if strings.EqualFold(statusChain.String(task), StatusCompleted) || hasFullProgress(task) {
		return true
	}

	return isIssueChain.Bool(task) || strings.EqualFold(recordTypeChain.String(task), "issue")
}

func hasFullProgress(rec record.Record) bool {
	progress, ok := progressChain.Number(rec)

	return ok && progress == fullProgress
}

func matchesWorklistSearch(rec record.Record, needle string) bool {
	if needle == "" {
		return true
	}

	return containsFolded(titleChain.String(rec), needle) ||
		containsFolded(descriptionChain.String(rec), needle) ||
		containsFolded(projectRefChain.String(rec), needle)
}

// daysUntilDue returns calendar days between today and the due date in
// today's location, or NoDueDate.
func daysUntilDue(rec record.Record, today time.Time) int {
	value, ok := dueDateChain.Value(rec)
	if !ok {
		return NoDueDate
	}

	due, ok := parseDueDate(value, today.Location())
	if !ok {
		return NoDueDate
	}

	return calendarDaysBetween(today, due.In(today.Location()))
}

// parseDueDate accepts date strings in any common layout, time values and
// Unix milliseconds. Zero and epoch dates count as unset.
func parseDueDate(value any, loc *time.Location) (time.Time, bool) {
	var due time.Time

	switch v := value.(type) {
	case time.Time:
		due = v
	case string:
		parsed, err := dateparse.ParseIn(strings.TrimSpace(v), loc)
		if err != nil {
			return time.Time{}, false
		}

		due = parsed
	default:
		millis, ok := record.ToNumber(v)
		if !ok || math.Abs(millis) > maxDateMillis {
			return time.Time{}, false
		}

		due = time.UnixMilli(int64(millis))
	}

	if due.IsZero() || due.Unix() == 0 {
		return time.Time{}, false
	}

	return due, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDaysBetween counts whole days between the calendar dates of from
// and to. Dates are compared as UTC midnights so DST transitions do not
// produce 23 or 25 hour days. Unix seconds are used instead of a Duration,
// which saturates at about 292 years.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC).Unix()
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Unix()

	return int((end - start) / secondsPerDay)
}
