package cli

import (
	"fmt"
	"io"
)

// IO is the output side of a wl invocation. Record entries that could not be
// loaded are reported on stderr ahead of the listing, so a long list piped
// through head still shows them, and summarized again when the run ends.
type IO struct {
	out     io.Writer
	errOut  io.Writer
	skipped []string
	shown   bool
	wrote   bool
}

// NewIO returns an IO writing listings to out and diagnostics to errOut.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a skipped record entry. It never suppresses stdout: the rest
// of the file is still listed. Any warning turns the exit code into 1.
func (o *IO) Warn(msg string) {
	o.skipped = append(o.skipped, msg)
}

// Println writes a line to stdout.
func (o *IO) Println(a ...any) {
	o.showWarnings()
	o.wrote = true
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	o.showWarnings()
	o.wrote = true
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// ErrPrintln writes a line to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish flushes pending warnings and returns the exit code for them.
func (o *IO) Finish() int {
	if len(o.skipped) == 0 {
		return 0
	}

	wroteBefore := o.wrote
	o.showWarnings()

	if wroteBefore {
		_, _ = fmt.Fprintf(o.errOut, "warning: skipped %d record entr%s; fix or remove %s in the data files\n",
			len(o.skipped), plural(len(o.skipped), "y", "ies"), plural(len(o.skipped), "it", "them"))
	}

	return 1
}

func (o *IO) showWarnings() {
	if o.shown {
		return
	}

	o.shown = len(o.skipped) > 0

	for _, w := range o.skipped {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
