package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/worklist/internal/cli"
)

func Test_Shell_Session_When_Piped(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	input := strings.Join([]string{
		"gate",
		":mode issues",
		":filter bogus",
		":filter status open",
		":clear",
		":quit",
		"never read",
	}, "\n")

	stdout, stderr, exitCode := c.RunWithInput(input, "shell")

	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d\nstderr: %s", exitCode, want, stderr)
	}

	headers := []string{}

	for line := range strings.SplitSeq(stdout, "\n") {
		if strings.HasPrefix(line, "# ") {
			headers = append(headers, line)
		}
	}

	want := []string{
		`# tasks: 2 item(s)`,
		`# tasks: 0 item(s) matching "gate"`,
		`# issues: 1 item(s) matching "gate"`,
		`# issues: 0 item(s) matching "gate"`,
		`# issues: 3 item(s)`,
	}

	if got := strings.Join(headers, "\n"); got != strings.Join(want, "\n") {
		t.Errorf("headers:\n%s\nwant:\n%s", got, strings.Join(want, "\n"))
	}

	cli.AssertContains(t, stdout, "Gate stuck")
	cli.AssertContains(t, stderr, "unknown facet bogus")
	cli.AssertNotContains(t, stdout, "never read")

	// The session's last state is persisted.
	if got, want := c.MustRun("state"), "search=\nmode=issues"; got != want {
		t.Errorf("state=%q, want=%q", got, want)
	}
}

func Test_Shell_Ends_On_EOF_When_Piped(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	stdout, stderr, exitCode := c.RunWithInput("valves\n", "shell")

	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d\nstderr: %s", exitCode, want, stderr)
	}

	cli.AssertContains(t, stdout, `# tasks: 1 item(s) matching "valves"`)
	cli.AssertContains(t, stdout, "Order valves")
}

func Test_Shell_Reports_Usage_Errors_When_Piped(t *testing.T) {
	t.Parallel()

	c := newFixtureCLI(t)

	_, stderr, exitCode := c.RunWithInput(":mode\n:mode projects\n:nope\n", "shell")

	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stderr, "usage: :mode <tasks|issues>")
	cli.AssertContains(t, stderr, "invalid mode")
	cli.AssertContains(t, stderr, "unknown command :nope")
}
