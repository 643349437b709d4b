package worklist_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/worklist/internal/record"
	"github.com/calvinalkan/worklist/internal/worklist"
)

// fixedNow is mid-afternoon so that "today" and "now" differ.
var fixedNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func day(offset int) string {
	return fixedNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func rankedTitles(ranked []worklist.RankedRecord) []string {
	recs := make([]record.Record, len(ranked))
	for i, r := range ranked {
		recs[i] = r.Record
	}

	return titles(recs)
}

func TestRankWorklistCriticalBeatsOverdue(t *testing.T) {
	t.Parallel()

	issues := []record.Record{
		{"issueTitle": "overdue", "dueDate": day(-2)},
		{"issueTitle": "critical", "dueDate": day(5), "isCritical": true},
	}

	got := worklist.RankWorklist(nil, issues, worklist.ModeIssues, "", fixedNow)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"critical", "overdue"}, rankedTitles(got))
	assert.Equal(t, 5, got[0].DaysUntilDue)
	assert.Equal(t, -2, got[1].DaysUntilDue)
	assert.True(t, got[1].Overdue())
}

func TestRankWorklistIgnoresCriticalInTasksMode(t *testing.T) {
	t.Parallel()

	tasks := []record.Record{
		{"taskName": "later", "endDate": day(5), "isCritical": true},
		{"taskName": "soon", "endDate": day(1)},
	}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", fixedNow)

	assert.Equal(t, []string{"soon", "later"}, rankedTitles(got))
	assert.False(t, got[1].Critical)
}

func TestRankWorklistOrdering(t *testing.T) {
	t.Parallel()

	tasks := []record.Record{
		{"taskName": "no date"},
		{"taskName": "in three", "endDate": day(3)},
		{"taskName": "today", "dueDate": day(0)},
		{"taskName": "bad date", "date": "someday"},
		{"taskName": "very overdue", "endDate": day(-10)},
		{"taskName": "zero date", "endDate": float64(0)},
		{"taskName": "in three again", "date": day(3)},
		{"taskName": "just overdue", "endDate": day(-1)},
	}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", fixedNow)

	want := []string{
		"very overdue",
		"just overdue",
		"today",
		"in three",
		"in three again",
		"no date",
		"bad date",
		"zero date",
	}

	if diff := cmp.Diff(want, rankedTitles(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 0, got[2].DaysUntilDue)
	assert.True(t, got[2].HasDueDate())
	assert.False(t, got[2].Overdue())

	for _, r := range got[5:] {
		assert.Equal(t, worklist.NoDueDate, r.DaysUntilDue)
		assert.False(t, r.HasDueDate())
	}
}

func TestRankWorklistDueDateAliasOrder(t *testing.T) {
	t.Parallel()

	tasks := []record.Record{
		{"taskName": "end wins", "endDate": day(2), "dueDate": day(-5), "date": day(9)},
		{"taskName": "due wins", "endDate": "", "dueDate": day(4), "date": day(1)},
	}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", fixedNow)

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].DaysUntilDue)
	assert.Equal(t, 4, got[1].DaysUntilDue)
}

func TestRankWorklistDateFormats(t *testing.T) {
	t.Parallel()

	tomorrowLate := time.Date(2026, time.March, 11, 23, 59, 0, 0, time.UTC)

	for _, tt := range []struct {
		name string
		due  any
		want int
	}{
		{name: "iso date", due: "2026-03-12", want: 2},
		{name: "rfc3339", due: "2026-03-11T08:00:00Z", want: 1},
		{name: "slash date", due: "03/09/2026", want: -1},
		{name: "unix millis", due: float64(tomorrowLate.UnixMilli()), want: 1},
		{name: "time value", due: tomorrowLate, want: 1},
		{name: "earlier today", due: "2026-03-10T01:00:00Z", want: 0},
		{name: "garbage", due: "not a date", want: worklist.NoDueDate},
		{name: "object", due: map[string]any{"at": "2026-03-12"}, want: worklist.NoDueDate},
		{name: "epoch", due: "1970-01-01T00:00:00Z", want: worklist.NoDueDate},
		{name: "millis beyond date range", due: 1e20, want: worklist.NoDueDate},
		{name: "negative millis beyond date range", due: -1e20, want: worklist.NoDueDate},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tasks := []record.Record{{"taskName": "t", "endDate": tt.due}}

			got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", fixedNow)

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].DaysUntilDue)
		})
	}
}

func TestRankWorklistFarFutureDatesKeepOrder(t *testing.T) {
	t.Parallel()

	tasks := []record.Record{
		{"taskName": "y2400", "endDate": "2400-03-10"},
		{"taskName": "garbage millis", "endDate": 1e20},
		{"taskName": "y2350", "endDate": "2350-03-10"},
		{"taskName": "tomorrow", "endDate": day(1)},
	}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", fixedNow)

	if diff := cmp.Diff([]string{"tomorrow", "y2350", "y2400", "garbage millis"}, rankedTitles(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, got, 4)
	// 50 years with 13 leap days (2352..2400).
	assert.Equal(t, 50*365+13, got[2].DaysUntilDue-got[1].DaysUntilDue)
	assert.False(t, got[3].HasDueDate())
}

func TestRankWorklistUsesLocalMidnightOfNow(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+9", 9*60*60)
	// 2026-03-10 23:30 UTC is already 2026-03-11 in UTC+9.
	now := time.Date(2026, time.March, 10, 23, 30, 0, 0, time.UTC).In(loc)

	tasks := []record.Record{{"taskName": "t", "endDate": "2026-03-12"}}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", now)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].DaysUntilDue)
}

func TestRankWorklistExclusion(t *testing.T) {
	t.Parallel()

	issues := []record.Record{
		{"issueTitle": "open", "status": "open"},
		{"issueTitle": "completed", "status": "completed"},
		{"issueTitle": "resolved", "status": "Resolved"},
		{"issueTitle": "done by progress", "status": "open", "progress": float64(100)},
		{"issueTitle": "reopened full progress", "status": "reopen", "progress": float64(100)},
		{"issueTitle": "partial", "progress": "99"},
	}

	got := worklist.RankWorklist(nil, issues, worklist.ModeIssues, "", fixedNow)
	assert.Equal(t, []string{"open", "reopened full progress", "partial"}, rankedTitles(got))

	tasks := []record.Record{
		{"taskName": "todo", "status": "pending"},
		{"taskName": "completed", "status": "completed"},
		{"taskName": "full", "progress": float64(100)},
		{"taskName": "flagged issue", "isIssue": true},
		{"taskName": "typed issue", "type": "Issue"},
		{"taskName": "resolved task", "status": "resolved"},
	}

	got = worklist.RankWorklist(tasks, issues, worklist.ModeTasks, "", fixedNow)
	assert.Equal(t, []string{"todo", "resolved task"}, rankedTitles(got))
}

func TestRankWorklistSearch(t *testing.T) {
	t.Parallel()

	tasks := []record.Record{
		{"taskName": "Paint hull"},
		{"title": "Inspect", "description": "check the HULL welds"},
		{"name": "Order parts", "project": map[string]any{"projectName": "Hull refit"}},
		{"taskName": "Unrelated"},
		{"taskName": "Alias shadowed", "taskDescription": "hull", "description": "other"},
	}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "hull", fixedNow)
	assert.Equal(t, []string{"Paint hull", "Inspect", "Order parts"}, rankedTitles(got))
}

func TestRankWorklistCapsAtMax(t *testing.T) {
	t.Parallel()

	tasks := make([]record.Record, 0, 50)
	for i := range 50 {
		tasks = append(tasks, record.Record{
			"taskName": fmt.Sprintf("task-%02d", i),
			"endDate":  day(50 - i),
		})
	}

	got := worklist.RankWorklist(tasks, nil, worklist.ModeTasks, "", fixedNow)

	require.Len(t, got, worklist.MaxWorklistItems)
	assert.Equal(t, "task-49", rankedTitles(got)[0])
	assert.Equal(t, 1, got[0].DaysUntilDue)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]

		if prev.Overdue() == cur.Overdue() {
			assert.LessOrEqual(t, prev.DaysUntilDue, cur.DaysUntilDue)
		} else {
			assert.True(t, prev.Overdue(), "non-overdue before overdue at %d", i)
		}
	}
}

func TestRankWorklistDeterministicAndPure(t *testing.T) {
	t.Parallel()

	issues := []record.Record{
		{"issueTitle": "a", "dueDate": day(1)},
		{"issueTitle": "b", "dueDate": day(1)},
		{"issueTitle": "c", "isCritical": "true"},
		{"issueTitle": "d", "dueDate": day(-3)},
	}

	first := worklist.RankWorklist(nil, issues, worklist.ModeIssues, "", fixedNow)
	second := worklist.RankWorklist(nil, issues, worklist.ModeIssues, "", fixedNow)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("rank not deterministic (-first +second):\n%s", diff)
	}

	assert.Equal(t, []string{"c", "d", "a", "b"}, rankedTitles(first))

	_, hasDays := issues[0]["daysUntilDue"]
	assert.False(t, hasDays, "input record must not be annotated")
}

func TestRankWorklistNilInputs(t *testing.T) {
	t.Parallel()

	got := worklist.RankWorklist(nil, nil, worklist.ModeIssues, "x", fixedNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	mode, err := worklist.ParseMode(" Issues ")
	require.NoError(t, err)
	assert.Equal(t, worklist.ModeIssues, mode)

	_, err = worklist.ParseMode("bugs")
	require.ErrorIs(t, err, worklist.ErrInvalidMode)
}
