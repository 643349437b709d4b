// Package main provides wl-seed, a tool to seed a data directory with random
// tasks, issues and projects.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
)

var (
	statuses  = []string{"open", "in_progress", "completed", "resolved", "reopen"}    //nolint:gochecknoglobals // seed vocabulary
	locations = []string{"Dock 1", "Dock 4", "Warehouse", "Office", "Yard"}           //nolint:gochecknoglobals // seed vocabulary
	people    = []string{"Ada", "Grace", "Linus", "Ken", "Barbara", "Edsger"}         //nolint:gochecknoglobals // seed vocabulary
	tagPool   = []string{"safety", "urgent", "q3", "electrical", "plumbing"}          //nolint:gochecknoglobals // seed vocabulary
	nouns     = []string{"pump", "gate", "roof", "forklift", "conveyor", "heater"}    //nolint:gochecknoglobals // seed vocabulary
	verbs     = []string{"Inspect", "Repair", "Replace", "Clean", "Order parts for"} //nolint:gochecknoglobals // seed vocabulary
)

func main() {
	fs := flag.NewFlagSet("wl-seed", flag.ExitOnError)
	dir := fs.StringP("data-dir", "d", filepath.Join(os.TempDir(), "wl-seed", ".worklist"), "Directory to write tasks/issues/projects into")
	projects := fs.Int("projects", 20, "Number of projects")
	issues := fs.Int("issues", 200, "Number of issues")
	tasks := fs.Int("tasks", 500, "Number of tasks")
	seed := fs.Uint64("seed", 1, "Random seed")

	_ = fs.Parse(os.Args[1:])

	start := time.Now()

	err := seedDir(*dir, counts{projects: *projects, issues: *issues, tasks: *tasks}, *seed, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created %d projects, %d issues, %d tasks in %s -> %s\n",
		*projects, *issues, *tasks, time.Since(start), *dir)
}

type counts struct {
	projects, issues, tasks int
}

type generator struct {
	rng *rand.Rand
	now time.Time
}

func seedDir(dir string, n counts, seedValue uint64, now time.Time) error {
	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	g := generator{rng: rand.New(rand.NewPCG(seedValue, seedValue)), now: now}

	projects := make([]map[string]any, 0, n.projects)
	for range n.projects {
		projects = append(projects, g.project())
	}

	issues := make([]map[string]any, 0, n.issues)
	for range n.issues {
		issues = append(issues, g.issue(projects))
	}

	tasks := make([]map[string]any, 0, n.tasks)
	for range n.tasks {
		tasks = append(tasks, g.task(projects))
	}

	files := []struct {
		name string
		data []map[string]any
	}{
		{"projects.json", projects},
		{"issues.json", issues},
		{"tasks.json", tasks},
	}

	for _, f := range files {
		err = writeJSON(filepath.Join(dir, f.name), f.data)
		if err != nil {
			return err
		}
	}

	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func pick[T any](g generator, from []T) T {
	return from[g.rng.IntN(len(from))]
}

// dueDate returns an RFC3339 date within +-30 days, or nil for roughly one
// record in five.
func (g generator) dueDate() any {
	if g.rng.IntN(5) == 0 {
		return nil
	}

	offset := g.rng.IntN(61) - 30

	return g.now.AddDate(0, 0, offset).UTC().Format(time.RFC3339)
}

func (g generator) project() map[string]any {
	ownerID := uuid.NewString()
	progress := g.rng.IntN(11) * 10

	tags := make([]string, 0, 2)
	for range g.rng.IntN(3) {
		tags = append(tags, pick(g, tagPool))
	}

	return map[string]any{
		"_id":         uuid.NewString(),
		"projectName": pick(g, nouns) + " program " + uuid.NewString()[:4],
		"description": "Seeded project",
		"status":      pick(g, []string{"active", "on_hold", "completed"}),
		"progress":    progress,
		"userId":      map[string]any{"_id": ownerID},
		"coAdmins":    []any{uuid.NewString()},
		"createdBy":   map[string]any{"name": pick(g, people)},
		"location":    map[string]any{"name": pick(g, locations)},
		"tags":        tags,
	}
}

func (g generator) issue(projects []map[string]any) map[string]any {
	issue := map[string]any{
		"_id":          uuid.NewString(),
		"issueTitle":   pick(g, verbs) + " " + pick(g, nouns),
		"status":       pick(g, statuses),
		"progress":     g.rng.IntN(5) * 25,
		"createdBy":    map[string]any{"name": pick(g, people)},
		"locationName": pick(g, locations),
		"isCritical":   g.rng.IntN(8) == 0,
		"dueDate":      g.dueDate(),
	}

	if len(projects) > 0 {
		issue["project"] = map[string]any{"projectName": pick(g, projects)["projectName"]}
	}

	return issue
}

func (g generator) task(projects []map[string]any) map[string]any {
	task := map[string]any{
		"_id":      uuid.NewString(),
		"taskName": pick(g, verbs) + " " + pick(g, nouns),
		"status":   pick(g, []string{"open", "in_progress", "completed"}),
		"progress": g.rng.IntN(5) * 25,
		"endDate":  g.dueDate(),
	}

	if g.rng.IntN(10) == 0 {
		task["isIssue"] = true
	}

	if len(projects) > 0 {
		task["projectName"] = pick(g, projects)["projectName"]
	}

	return task
}
