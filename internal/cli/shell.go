package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/record"
	"github.com/calvinalkan/worklist/internal/viewstate"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

const (
	shellPrompt      = "wl> "
	shellHistoryFile = ".wl_history"
)

var errShellUsage = errors.New("usage")

// ShellCmd returns the interactive shell command.
func ShellCmd(cfg *config.Config, stdin io.Reader, now func() time.Time) *Command {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)

	return &Command{
		Flags: fs,
		Usage: "shell",
		Short: "Interactive worklist search",
		Long: `Start an interactive loop. Each line becomes the search text and the
worklist is ranked again. Search, mode and filters are saved to the view
state as they change.

Meta-commands:
  :mode <tasks|issues>      Switch the worklist source
  :filter <facet> [v1,v2]   Replace an issue facet's values; no values clears it
  :clear                    Clear search and filters
  :help                     Show this help
  :quit                     Leave the shell (also Ctrl-D)`,
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return runShell(ctx, io, cfg, stdin, now)
		},
	}
}

// lineReader is the input side of the shell: liner on a terminal, a plain
// scanner otherwise.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.scanner.Scan() {
		err := r.scanner.Err()
		if err == nil {
			err = io.EOF
		}

		return "", err
	}

	return r.scanner.Text(), nil
}

func (*scanReader) Close() error { return nil }

type linerReader struct {
	state       *liner.State
	historyPath string
}

func newLinerReader(historyPath string, completer liner.Completer) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completer)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = state.ReadHistory(f)
		_ = f.Close()
	}

	return &linerReader{state: state, historyPath: historyPath}
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}

		return "", err
	}

	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}

	return line, nil
}

func (r *linerReader) Close() error {
	if f, err := os.Create(r.historyPath); err == nil {
		_, _ = r.state.WriteHistory(f)
		_ = f.Close()
	}

	return r.state.Close()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}

	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

type shell struct {
	io    *IO
	cfg   *config.Config
	cols  record.Collections
	now   func() time.Time
	state viewstate.State
}

func runShell(ctx context.Context, o *IO, cfg *config.Config, stdin io.Reader, now func() time.Time) error {
	store, err := viewstate.Open(cfg.StateFileAbs)
	if err != nil {
		return err
	}

	cols, err := loadCollections(o, cfg)
	if err != nil {
		return err
	}

	sh := &shell{io: o, cfg: cfg, cols: cols, now: now, state: store.State()}
	sh.state.Mode = store.Mode()

	var reader lineReader

	switch {
	case stdin == nil:
		reader = &scanReader{scanner: bufio.NewScanner(strings.NewReader(""))}
	case isTerminal(stdin):
		reader = newLinerReader(filepath.Join(cfg.DataDirAbs, shellHistoryFile), sh.complete)
	default:
		reader = &scanReader{scanner: bufio.NewScanner(stdin)}
	}

	defer func() { _ = reader.Close() }()

	sh.render()

	for ctx.Err() == nil {
		line, promptErr := reader.Prompt(shellPrompt)
		if promptErr != nil {
			if errors.Is(promptErr, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", promptErr)
		}

		quit, execErr := sh.exec(strings.TrimSpace(line))
		if execErr != nil {
			if !errors.Is(execErr, errShellUsage) {
				return execErr
			}

			o.ErrPrintln("error:", execErr)

			continue
		}

		if quit {
			return nil
		}
	}

	return nil
}

// exec handles one input line. Usage mistakes are reported and the loop
// continues; state persistence failures end the shell.
func (sh *shell) exec(line string) (bool, error) {
	if !strings.HasPrefix(line, ":") {
		return false, sh.apply(func(s *viewstate.Store) error {
			s.SetSearch(line)

			return nil
		})
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":quit", ":q", ":exit":
		return true, nil
	case ":help":
		sh.printHelp()

		return false, nil
	case ":clear":
		return false, sh.apply(func(s *viewstate.Store) error {
			s.SetSearch("")
			s.ClearFilters()

			return nil
		})
	case ":mode":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: :mode <tasks|issues>", errShellUsage)
		}

		mode, err := worklist.ParseMode(args[0])
		if err != nil {
			return false, fmt.Errorf("%w: %w", errShellUsage, err)
		}

		return false, sh.apply(func(s *viewstate.Store) error {
			s.SetMode(mode)

			return nil
		})
	case ":filter":
		if len(args) == 0 {
			return false, fmt.Errorf("%w: :filter <facet> [v1,v2]", errShellUsage)
		}

		facets := worklist.IssueFacetNames()
		if !slices.Contains(facets, args[0]) {
			return false, fmt.Errorf("%w: unknown facet %s (valid: %s)", errShellUsage, args[0], strings.Join(facets, ", "))
		}

		values := splitValues(strings.Join(args[1:], " "))

		return false, sh.apply(func(s *viewstate.Store) error {
			s.SetFilter(args[0], values)

			return nil
		})
	default:
		return false, fmt.Errorf("%w: unknown command %s (try :help)", errShellUsage, cmd)
	}
}

// apply persists a state change and re-renders the worklist.
func (sh *shell) apply(fn func(s *viewstate.Store) error) error {
	var updated viewstate.State

	err := viewstate.Update(sh.cfg.StateFileAbs, func(s *viewstate.Store) error {
		err := fn(s)
		if err != nil {
			return err
		}

		updated = s.State()
		updated.Mode = s.Mode()

		return nil
	})
	if err != nil {
		return err
	}

	sh.state = updated
	sh.render()

	return nil
}

func (sh *shell) render() {
	in := viewInputs{search: sh.state.Search, filters: sh.state.Filters, mode: sh.state.Mode}
	ranked := buildWorklist(sh.cols, in, sh.now())

	sh.io.Printf("# %s: %d item(s)", in.mode, len(ranked))

	if in.search != "" {
		sh.io.Printf(" matching %q", in.search)
	}

	sh.io.Println()
	printWorklist(sh.io, ranked)
}

// complete provides tab completion for meta-commands, modes and facets.
func (*shell) complete(line string) []string {
	prefix := ""
	candidates := []string{":mode", ":filter", ":clear", ":help", ":quit"}

	if rest, ok := strings.CutPrefix(line, ":mode "); ok {
		prefix, line = ":mode ", rest
		candidates = []string{string(worklist.ModeTasks), string(worklist.ModeIssues)}
	} else if rest, ok := strings.CutPrefix(line, ":filter "); ok {
		prefix, line = ":filter ", rest
		candidates = worklist.IssueFacetNames()
	}

	var out []string

	for _, c := range candidates {
		if strings.HasPrefix(c, line) {
			out = append(out, prefix+c)
		}
	}

	return out
}

func (sh *shell) printHelp() {
	sh.io.Println("Type text to search; empty input clears the search.")
	sh.io.Println("  :mode <tasks|issues>      Switch the worklist source")
	sh.io.Println("  :filter <facet> [v1,v2]   Replace an issue facet's values")
	sh.io.Println("  :clear                    Clear search and filters")
	sh.io.Println("  :quit                     Leave the shell")
}
