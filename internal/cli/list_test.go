package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/worklist/internal/cli"
)

func Test_Facets_Issues_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)
	stdout := c.MustRun("facets", "issues")

	want := "status: in_progress, open, reopen, resolved\n" +
		"projects: Plant, Yard\n" +
		"createdBy: Ada, Linus\n" +
		"locations: Dock 4, Yard"

	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("facets mismatch (-want +got):\n%s", diff)
	}
}

func Test_Facets_Projects_JSON_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)
	stdout := c.MustRun("facets", "projects", "--json")

	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	want := map[string][]string{
		"status":    {"Completed", "active"},
		"createdBy": {"Ada", "Grace", "Linus"},
		"locations": {"Dock 4", "Yard"},
		"tags":      {"q3", "safety", "urgent"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("facets mismatch (-want +got):\n%s", diff)
	}
}

func Test_Facets_Empty_Data_Lists_Every_Facet_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("facets", "projects")

	want := "status: (none)\ncreatedBy: (none)\nlocations: (none)\ntags: (none)"
	if got := stdout; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}
}

func Test_Facets_Requires_Target_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustFail("facets"), "expected one argument")
	cli.AssertContains(t, c.MustFail("facets", "tasks"), `got "tasks"`)
}

func Test_Issues_Search_And_Filter_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	for _, tt := range []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no constraints keeps file order",
			args: nil,
			want: "i1 [open] - Pump leak (project: Plant)\n" +
				"i2 [in_progress] - Gate stuck (project: Yard)\n" +
				"i3 [resolved] - Roof drip\n" +
				"i4 [reopen] - Heater noise",
		},
		{
			name: "search is case-insensitive on title",
			args: []string{"--search", "GATE"},
			want: "i2 [in_progress] - Gate stuck (project: Yard)",
		},
		{
			name: "values within a facet are OR",
			args: []string{"-f", "status=open,in_progress"},
			want: "i1 [open] - Pump leak (project: Plant)\n" +
				"i2 [in_progress] - Gate stuck (project: Yard)",
		},
		{
			name: "facets are AND",
			args: []string{"-f", "status=open,in_progress", "-f", "locations=Dock 4"},
			want: "i1 [open] - Pump leak (project: Plant)",
		},
		{
			name: "filtered facet excludes records without a value",
			args: []string{"-f", "createdBy=Ada"},
			want: "i1 [open] - Pump leak (project: Plant)\n" +
				"i3 [resolved] - Roof drip",
		},
		{
			name: "no match prints nothing",
			args: []string{"--search", "zzz"},
			want: "",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			stdout := c.MustRun(append([]string{"issues"}, tt.args...)...)

			if diff := cmp.Diff(tt.want, stdout); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Issues_Rejects_Bad_Filter_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	cli.AssertContains(t, c.MustFail("issues", "-f", "status"), "invalid --filter")
	cli.AssertContains(t, c.MustFail("issues", "-f", "tags=x"), "unknown facet: tags")
}

func Test_Issues_JSON_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)
	stdout := c.MustRun("issues", "--search", "roof", "--json")

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)

	if got, want := got[0]["_id"], "i3"; got != want {
		t.Errorf("_id=%v, want=%v", got, want)
	}

	empty := c.MustRun("issues", "--search", "zzz", "--json")
	if got, want := empty, "[]"; got != want {
		t.Errorf("empty json=%q, want=%q", got, want)
	}
}

func Test_Projects_Categorized_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)
	stdout := c.MustRun("projects")

	want := "# pending (1)\n" +
		"p1 [active] - Plant (40%)\n" +
		"# completed (2)\n" +
		"p2 [Completed] - Yard (20%)\n" +
		"p3 [active] - Depot (100%)"

	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}
}

func Test_Projects_Search_Matches_Name_Description_Or_Tag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	for _, tt := range []struct {
		search string
		want   string
	}{
		{search: "depot", want: "p3"},
		{search: "treatment", want: "p1"},
		{search: "URGENT", want: "p2"},
	} {
		stdout := c.MustRun("projects", "--search", tt.search, "--json")

		var got map[string][]map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &got))

		var ids []any
		for _, section := range []string{"pending", "completed"} {
			for _, p := range got[section] {
				ids = append(ids, p["_id"])
			}
		}

		if diff := cmp.Diff([]any{tt.want}, ids); diff != "" {
			t.Errorf("search %q mismatch (-want +got):\n%s", tt.search, diff)
		}
	}
}

func Test_Projects_Category_And_Tag_Filter_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	stdout := c.MustRun("projects", "--category", "completed", "-f", "tags=urgent,q3")
	want := "# completed (1)\np2 [Completed] - Yard (20%)"

	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("projects mismatch (-want +got):\n%s", diff)
	}

	jsonOut := c.MustRun("projects", "--category", "pending", "--search", "zzz", "--json")

	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &got))

	if diff := cmp.Diff(map[string][]map[string]any{"pending": {}}, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	cli.AssertContains(t, c.MustFail("projects", "--category", "done"), "invalid --category")
}
