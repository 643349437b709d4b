// Package viewstate persists the list-view UI state (search text, active
// worklist mode, selected facet values) between wl invocations.
//
// A [Store] is a plain mutable key/value container with setters. [Update]
// wraps load, mutate and save under a file lock, and saves replace the file
// atomically so readers never see a partial write.
package viewstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/worklist/internal/worklist"
)

// State keys accepted by [Store.Set].
const (
	KeySearch = "search"
	KeyMode   = "mode"
)

// ErrUnknownKey is returned by [Store.Set] for keys other than search and mode.
var ErrUnknownKey = errors.New("unknown state key (valid: search, mode)")

// State is the persisted view state.
type State struct {
	Search  string             `json:"search"`
	Mode    worklist.Mode      `json:"mode,omitempty"`
	Filters worklist.FilterSet `json:"filters,omitempty"`
}

// Store holds the state of one state file.
type Store struct {
	path  string
	state State
}

// Open reads the state file at path. A missing file yields the zero state.
func Open(path string) (*Store, error) {
	state, err := read(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, state: state}, nil
}

// Update loads the state under the file lock, applies fn, and saves the
// result if fn succeeds.
func Update(path string, fn func(s *Store) error) error {
	return withLock(path, func() error {
		store, err := Open(path)
		if err != nil {
			return err
		}

		err = fn(store)
		if err != nil {
			return err
		}

		return store.write()
	})
}

// Path returns the state file path.
func (s *Store) Path() string { return s.path }

// State returns a copy of the current state.
func (s *Store) State() State {
	out := s.state
	out.Filters = s.state.Filters.Clone()

	return out
}

// Mode returns the stored mode, defaulting to tasks.
func (s *Store) Mode() worklist.Mode {
	if s.state.Mode == "" {
		return worklist.ModeTasks
	}

	return s.state.Mode
}

// SetSearch replaces the search text.
func (s *Store) SetSearch(search string) { s.state.Search = search }

// SetMode replaces the worklist mode.
func (s *Store) SetMode(mode worklist.Mode) { s.state.Mode = mode }

// SetFilter replaces the accepted values of one facet. An empty values list
// removes the facet. Values are de-duplicated and sorted.
func (s *Store) SetFilter(facet string, values []string) {
	if len(values) == 0 {
		delete(s.state.Filters, facet)

		return
	}

	if s.state.Filters == nil {
		s.state.Filters = make(worklist.FilterSet)
	}

	values = slices.Clone(values)
	slices.Sort(values)

	s.state.Filters[facet] = slices.Compact(values)
}

// ClearFilters removes all facet selections.
func (s *Store) ClearFilters() { s.state.Filters = nil }

// Reset restores the zero state.
func (s *Store) Reset() { s.state = State{} }

// Set assigns a scalar key by name, for the "state set" command.
func (s *Store) Set(key, value string) error {
	switch key {
	case KeySearch:
		s.SetSearch(value)
	case KeyMode:
		mode, err := worklist.ParseMode(value)
		if err != nil {
			return err
		}

		s.SetMode(mode)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return nil
}

// Save writes the state under the file lock.
func (s *Store) Save() error {
	return withLock(s.path, s.write)
}

func (s *Store) write() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	data = append(data, '\n')

	err = atomic.WriteFile(s.path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing state: %w", err)
	}

	return nil
}

// FacetNames returns the filtered facets in sorted order.
func (st State) FacetNames() []string {
	names := make([]string, 0, len(st.Filters))
	for name := range st.Filters {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func read(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}

		return State{}, fmt.Errorf("reading state: %w", err)
	}

	var state State

	err = json.Unmarshal(data, &state)
	if err != nil {
		return State{}, fmt.Errorf("invalid state file %s: %w", path, err)
	}

	if state.Mode != "" {
		mode, modeErr := worklist.ParseMode(string(state.Mode))
		if modeErr != nil {
			return State{}, fmt.Errorf("invalid state file %s: %w", path, modeErr)
		}

		state.Mode = mode
	}

	return state, nil
}
