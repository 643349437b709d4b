package worklist

import "github.com/calvinalkan/worklist/internal/record"

// Alias chains for every logical attribute the engine reads. Order is
// priority: the first present, non-empty alias wins.
//
//nolint:gochecknoglobals // package-level constants
var (
	titleChain = record.Chain{
		record.Field("title"),
		record.Field("taskName"),
		record.Field("issueTitle"),
		record.Field("name"),
	}

	descriptionChain = record.Chain{
		record.Field("description"),
		record.Field("taskDescription"),
		record.Field("issueDescription"),
		record.Field("details"),
	}

	// Name of the project a task or issue belongs to.
	projectRefChain = record.Chain{
		record.Path("project", "projectName"),
		record.Field("projectName"),
		record.Path("project", "name"),
	}

	// Name of a project record itself.
	projectNameChain = record.Chain{
		record.Field("projectName"),
		record.Field("name"),
		record.Field("title"),
	}

	statusChain = record.Chain{record.Field("status")}

	progressChain = record.Chain{record.Field("progress")}

	creatorNameChain = record.Chain{
		record.Path("createdBy", "name"),
		record.Field("createdByName"),
		record.Field("ownerName"),
		record.Field("createdBy"),
	}

	locationChain = record.Chain{
		record.Path("location", "name"),
		record.Field("locationName"),
		record.Field("location"),
	}

	tagsChain = record.Chain{record.Field("tags")}

	dueDateChain = record.Chain{
		record.Field("endDate"),
		record.Field("dueDate"),
		record.Field("date"),
	}

	criticalChain = record.Chain{
		record.Field("isCritical"),
		record.Field("critical"),
	}

	isIssueChain = record.Chain{record.Field("isIssue")}

	recordTypeChain = record.Chain{
		record.Field("type"),
		record.Field("recordType"),
	}

	ownerIDChain = record.Chain{
		record.Field("userId"),
		record.Field("ownerId"),
	}

	coAdminsChain = record.Chain{
		record.Field("coAdmins"),
		record.Field("coAdminIds"),
	}
)

// Status values the engine interprets.
const (
	StatusCompleted = "completed"
	StatusResolved  = "resolved"
	StatusReopen    = "reopen"
)

const fullProgress = 100
