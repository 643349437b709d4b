// Package cli implements the wl command line: argument parsing, config
// loading, and one command per list-view operation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/calvinalkan/worklist/internal/config"
)

const (
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// Global flag errors.
var (
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	ErrUnknownFlag     = errors.New("unknown flag")
)

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. When a signal arrives the command context is cancelled;
// long-running commands (shell) return at the next opportunity.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	ioCtx := NewIO(out, errOut)

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	flags, err := parseGlobalFlags(rest)
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: flags.workDir,
		ConfigPath:      flags.configPath,
		DataDirOverride: flags.dataDir,
		Env:             env,
	})
	if err != nil {
		ioCtx.ErrPrintln("error:", err)

		return 1
	}

	commands := []*Command{
		FacetsCmd(&cfg),
		IssuesCmd(&cfg),
		ProjectsCmd(&cfg),
		WorklistCmd(&cfg, time.Now),
		RoleCmd(&cfg),
		StateCmd(&cfg),
		ShellCmd(&cfg, stdin, time.Now),
		PrintConfigCmd(&cfg),
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == helpFlag {
		printUsage(ioCtx, commands)

		return 0
	}

	name := flags.remaining[0]

	var cmd *Command

	for _, c := range commands {
		if c.Name() == name {
			cmd = c

			break
		}
	}

	if cmd == nil {
		ioCtx.ErrPrintln("error: unknown command:", name)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	if code := cmd.Run(ctx, ioCtx, flags.remaining[1:]); code != 0 {
		ioCtx.Finish()

		return code
	}

	return ioCtx.Finish()
}

type globalFlags struct {
	workDir    string
	configPath string
	dataDir    string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a global flag at args[idx]. Returns number of
// args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	for _, opt := range []struct {
		short, long string
		dst         *string
	}{
		{"-C", "--cwd", &flags.workDir},
		{"-c", "--config", &flags.configPath},
		{"", "--data-dir", &flags.dataDir},
	} {
		if arg == opt.long || (opt.short != "" && arg == opt.short) {
			if idx+1 >= len(args) {
				return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
			}

			if args[idx+1] == "" {
				return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
			}

			*opt.dst = args[idx+1]

			return consumedTwo, nil
		}

		if after, ok := strings.CutPrefix(arg, opt.long+"="); ok {
			if after == "" {
				return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, opt.long)
			}

			*opt.dst = after

			return consumedOne, nil
		}
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	return consumedNone, nil
}

func printUsage(o *IO, commands []*Command) {
	o.Println(`wl - worklist: filter, facet and rank tasks, issues and projects

Usage: wl [options] <command> [args]

Options:
  -C, --cwd <dir>       Run as if started in <dir>
  -c, --config <file>   Use specified config file
  --data-dir <dir>      Directory holding tasks/issues/projects files

Commands:`)

	for _, c := range commands {
		o.Println(c.HelpLine())
	}
}
