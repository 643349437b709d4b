package worklist

import (
	"strings"

	"github.com/calvinalkan/worklist/internal/record"
)

// Categories splits projects into pending and completed. Every input record
// lands in exactly one of the two, in input order.
type Categories struct {
	Pending   []record.Record
	Completed []record.Record
}

// Categorize partitions projects. A project is completed when its progress
// is at least 100 or its status is "completed" (any case).
func Categorize(projects []record.Record) Categories {
	cats := Categories{
		Pending:   make([]record.Record, 0, len(projects)),
		Completed: make([]record.Record, 0),
	}

	for _, rec := range projects {
		if IsProjectCompleted(rec) {
			cats.Completed = append(cats.Completed, rec)
		} else {
			cats.Pending = append(cats.Pending, rec)
		}
	}

	return cats
}

// IsProjectCompleted reports the categorization rule for a single project.
func IsProjectCompleted(project record.Record) bool {
	if progress, ok := progressChain.Number(project); ok && progress >= fullProgress {
		return true
	}

	return strings.EqualFold(statusChain.String(project), StatusCompleted)
}
