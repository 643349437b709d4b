package worklist

import (
	"strings"

	"github.com/calvinalkan/worklist/internal/record"
)

// RoleResult is the caller's relationship to a project.
type RoleResult struct {
	IsOwner   bool `json:"isOwner"`
	IsCoAdmin bool `json:"isCoAdmin"`
}

// ResolveRole determines whether the user owns or co-administers project.
//
// Ownership matches on either signal: the owner id (an object with "_id" or
// "id", or a scalar) equals userID, or the creator name equals userName
// after trimming and ignoring case. Upstream records disagree on which one
// they fill in, so both are checked.
//
// The two owner signals are independent: an empty userID only disables the
// id check, so a creator name match still makes the user owner. Co-admin
// membership needs the id. A nil project yields false for both flags.
func ResolveRole(project record.Record, userID, userName string) RoleResult {
	if project == nil {
		return RoleResult{}
	}

	return RoleResult{
		IsOwner:   isOwnerByID(project, userID) || isOwnerByName(project, userName),
		IsCoAdmin: isCoAdmin(project, userID),
	}
}

func isOwnerByID(project record.Record, userID string) bool {
	if userID == "" {
		return false
	}

	owner, ok := ownerIDChain.Value(project)

	return ok && record.ID(owner) == userID
}

func isOwnerByName(project record.Record, userName string) bool {
	want := strings.TrimSpace(userName)
	if want == "" {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(creatorNameChain.String(project)), want)
}

func isCoAdmin(project record.Record, userID string) bool {
	if userID == "" {
		return false
	}

	value, ok := coAdminsChain.Value(project)
	if !ok {
		return false
	}

	admins, isList := record.AsList(value)
	if !isList {
		return false
	}

	for _, admin := range admins {
		if record.ID(admin) == userID {
			return true
		}
	}

	return false
}
