package cli_test

import (
	"testing"

	"github.com/calvinalkan/worklist/internal/cli"
)

// fixedNow is passed via --now so due labels are stable.
const fixedNow = "2026-03-10T12:00:00Z"

const issuesJSONC = `// exported from the field app
[
  {"_id": "i1", "issueTitle": "Pump leak", "status": "open",
   "project": {"projectName": "Plant"}, "createdBy": {"name": "Ada"},
   "locationName": "Dock 4", "isCritical": true, "dueDate": "2026-03-15"},
  {"_id": "i2", "title": "Gate stuck", "status": "in_progress",
   "projectName": "Yard", "createdByName": "Linus",
   "location": {"name": "Yard"}, "dueDate": "2026-03-08"},
  {"_id": "i3", "issueTitle": "Roof drip", "status": "resolved",
   "createdBy": {"name": "Ada"}, "locationName": "Dock 4", "dueDate": "2026-03-01"},
  {"_id": "i4", "issueTitle": "Heater noise", "status": "reopen", "progress": 100}, // still rattles
]
`

const tasksYAML = `- _id: t1
  taskName: Order valves
  status: open
  endDate: "2026-03-12"
  projectName: Plant
- _id: t2
  taskName: File report
  status: completed
  endDate: "2026-03-01"
- _id: t3
  title: Call vendor
  status: open
- _id: t4
  taskName: Pump leak
  isIssue: true
  endDate: "2026-03-09"
`

const projectsJSON = `{"projects": [
  {"_id": "p1", "projectName": "Plant", "status": "active", "progress": 40,
   "userId": {"_id": "u42"}, "coAdmins": ["u7"], "createdBy": {"name": "Ada"},
   "location": {"name": "Dock 4"}, "tags": ["safety", "q3"],
   "description": "Water treatment upgrade"},
  {"_id": "p2", "name": "Yard", "status": "Completed", "progress": 20,
   "createdByName": "Linus", "tags": ["urgent"]},
  {"_id": "p3", "projectName": "Depot", "status": "active", "progress": 100,
   "ownerName": "Grace", "locationName": "Yard"}
]}
`

// newFixtureCLI returns a CLI whose data directory holds one collection in
// each supported syntax.
func newFixtureCLI(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewCLI(t)
	c.WriteData("issues.jsonc", issuesJSONC)
	c.WriteData("tasks.yaml", tasksYAML)
	c.WriteData("projects.json", projectsJSON)

	return c
}
