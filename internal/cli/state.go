package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/viewstate"

	flag "github.com/spf13/pflag"
)

var (
	errStateUsage      = errors.New("usage: state [show|set <key> <value>|filter <facet> [values]|clear-filters|reset]")
	errUnknownStateCmd = errors.New("unknown state subcommand")
)

// StateCmd returns the state command.
func StateCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.Bool("json", false, "Output as JSON object (show only)")

	return &Command{
		Flags: fs,
		Usage: "state [subcommand]",
		Short: "Show or change the stored view state",
		Long: `Show or change the view state that list commands fall back to when
--search, --filter or --mode are not given.

Subcommands:
  show                      Print the state (default)
  set <key> <value>         Set search or mode
  filter <facet> [v1,v2]    Replace a facet's values; no values clears it
  clear-filters             Remove all facet selections
  reset                     Restore the empty state`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			jsonOutput, _ := fs.GetBool("json")

			return execState(io, cfg, args, jsonOutput)
		},
	}
}

func execState(io *IO, cfg *config.Config, args []string, jsonOutput bool) error {
	if len(args) == 0 || args[0] == "show" {
		return showState(io, cfg, jsonOutput)
	}

	sub, rest := args[0], args[1:]

	var mutate func(s *viewstate.Store) error

	switch sub {
	case "set":
		if len(rest) != 2 {
			return errStateUsage
		}

		mutate = func(s *viewstate.Store) error { return s.Set(rest[0], rest[1]) }
	case "filter":
		if len(rest) == 0 || len(rest) > 2 {
			return errStateUsage
		}

		facets := knownFacets()
		if !slices.Contains(facets, rest[0]) {
			return fmt.Errorf("%w: %s (valid: %s)", errUnknownFacet, rest[0], strings.Join(facets, ", "))
		}

		var values []string
		if len(rest) == 2 {
			values = splitValues(rest[1])
		}

		mutate = func(s *viewstate.Store) error {
			s.SetFilter(rest[0], values)

			return nil
		}
	case "clear-filters":
		mutate = func(s *viewstate.Store) error {
			s.ClearFilters()

			return nil
		}
	case "reset":
		mutate = func(s *viewstate.Store) error {
			s.Reset()

			return nil
		}
	default:
		return fmt.Errorf("%w: %s", errUnknownStateCmd, sub)
	}

	err := viewstate.Update(cfg.StateFileAbs, mutate)
	if err != nil {
		return err
	}

	return showState(io, cfg, jsonOutput)
}

func showState(io *IO, cfg *config.Config, jsonOutput bool) error {
	store, err := viewstate.Open(cfg.StateFileAbs)
	if err != nil {
		return err
	}

	state := store.State()
	state.Mode = store.Mode()

	if jsonOutput {
		return printJSON(io, state)
	}

	io.Println("search=" + state.Search)
	io.Println("mode=" + string(state.Mode))

	for _, name := range state.FacetNames() {
		io.Println("filter." + name + "=" + strings.Join(state.Filters[name], ","))
	}

	return nil
}

// splitValues splits a comma-separated value list, dropping blanks.
func splitValues(list string) []string {
	var values []string

	for _, v := range strings.Split(list, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return values
}
