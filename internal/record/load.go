package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Collection names looked up by [LoadDir].
const (
	CollectionTasks    = "tasks"
	CollectionIssues   = "issues"
	CollectionProjects = "projects"
)

// Supported extensions, in lookup order.
var extensions = []string{".json", ".jsonc", ".yaml", ".yml"} //nolint:gochecknoglobals // package-level constant

// Errors returned while loading record files.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNotCollection     = errors.New("document is not a list of records")
	ErrAmbiguousFile     = errors.New("collection defined by more than one file")
)

// Collections holds the three record collections of a data directory.
type Collections struct {
	Tasks    []Record
	Issues   []Record
	Projects []Record

	// Warnings lists skipped elements (non-object list entries).
	// Loading continues past them.
	Warnings []string
}

// LoadDir reads tasks, issues and projects from dir. Each collection lives
// in <name>.json, <name>.jsonc, <name>.yaml or <name>.yml. A missing file
// is an empty collection; a missing directory is an empty data set.
func LoadDir(dir string) (Collections, error) {
	var cols Collections

	targets := []struct {
		name string
		dst  *[]Record
	}{
		{CollectionTasks, &cols.Tasks},
		{CollectionIssues, &cols.Issues},
		{CollectionProjects, &cols.Projects},
	}

	for _, target := range targets {
		path, err := findCollectionFile(dir, target.name)
		if err != nil {
			return Collections{}, err
		}

		if path == "" {
			*target.dst = []Record{}

			continue
		}

		records, warnings, err := LoadFile(path)
		if err != nil {
			return Collections{}, err
		}

		*target.dst = records
		cols.Warnings = append(cols.Warnings, warnings...)
	}

	return cols, nil
}

func findCollectionFile(dir, name string) (string, error) {
	found := ""

	for _, ext := range extensions {
		candidate := filepath.Join(dir, name+ext)

		_, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}

			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}

		if found != "" {
			return "", fmt.Errorf("%w: %s and %s", ErrAmbiguousFile, found, candidate)
		}

		found = candidate
	}

	return found, nil
}

// LoadFile reads one collection file. The format is chosen by extension.
// Returns the records and a warning per skipped element.
func LoadFile(path string) ([]Record, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records, warnings, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	for i, w := range warnings {
		warnings[i] = path + ": " + w
	}

	return records, warnings, nil
}

// Decode parses a collection document. ext selects the syntax (".json",
// ".jsonc", ".yaml", ".yml"). The document is either a list of objects or an
// object wrapping exactly one such list (e.g. {"issues": [...]}).
func Decode(data []byte, ext string) ([]Record, []string, error) {
	var doc any

	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		standardized, err := hujson.Standardize(data)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid JSONC: %w", err)
		}

		err = json.Unmarshal(standardized, &doc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".yaml", ".yml":
		err := yaml.Unmarshal(data, &doc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	list, err := unwrapList(doc)
	if err != nil {
		return nil, nil, err
	}

	records := make([]Record, 0, len(list))

	var warnings []string

	for i, elem := range list {
		obj, ok := asObject(elem)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("element %d is not an object, skipped", i))

			continue
		}

		records = append(records, Record(obj))
	}

	return records, warnings, nil
}

func unwrapList(doc any) ([]any, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, ErrNotCollection
		}

		for _, inner := range v {
			if list, ok := inner.([]any); ok {
				return list, nil
			}
		}

		return nil, ErrNotCollection
	default:
		return nil, ErrNotCollection
	}
}
