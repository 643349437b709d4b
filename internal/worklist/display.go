package worklist

import "github.com/calvinalkan/worklist/internal/record"

//nolint:gochecknoglobals // package-level constant
var idChain = record.Chain{record.Field("_id"), record.Field("id")}

// ID resolves a record's identifier ("_id", then "id").
func ID(rec record.Record) string {
	value, ok := idChain.Value(rec)
	if !ok {
		return ""
	}

	return record.ID(value)
}

// Title resolves the display title of a task or issue.
func Title(rec record.Record) string { return titleChain.String(rec) }

// Status resolves the status field.
func Status(rec record.Record) string { return statusChain.String(rec) }

// ProjectOf resolves the name of the project a task or issue belongs to.
func ProjectOf(rec record.Record) string { return projectRefChain.String(rec) }

// ProjectName resolves the name of a project record.
func ProjectName(rec record.Record) string { return projectNameChain.String(rec) }

// Progress resolves numeric progress. ok is false when absent or not numeric.
func Progress(rec record.Record) (float64, bool) { return progressChain.Number(rec) }
