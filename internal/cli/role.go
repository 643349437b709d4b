package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/calvinalkan/worklist/internal/config"
	"github.com/calvinalkan/worklist/internal/record"
	"github.com/calvinalkan/worklist/internal/worklist"

	flag "github.com/spf13/pflag"
)

var (
	errProjectIDRequired = errors.New("project ID is required")
	errProjectNotFound   = errors.New("project not found")
)

// RoleCmd returns the role command.
func RoleCmd(cfg *config.Config) *Command {
	fs := flag.NewFlagSet("role", flag.ContinueOnError)
	fs.String("user-id", "", "Identity to check (default: user_id from config)")
	fs.String("user-name", "", "Display name to check (default: user_name from config)")
	fs.Bool("json", false, "Output as JSON object")

	return &Command{
		Flags: fs,
		Usage: "role <project-id> [flags]",
		Short: "Show whether a user owns or co-administers a project",
		Long: `Resolve the relationship between a user and a project.

The user is owner when the project's userId/ownerId matches the user id, or
when the creator name matches the user name (case-insensitive). The user is
co-admin when the id appears in coAdmins/coAdminIds.`,
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execRole(io, cfg, fs, args)
		},
	}
}

func execRole(io *IO, cfg *config.Config, fs *flag.FlagSet, args []string) error {
	if len(args) == 0 {
		return errProjectIDRequired
	}

	userID := cfg.UserID
	if fs.Changed("user-id") {
		userID, _ = fs.GetString("user-id")
	}

	userName := cfg.UserName
	if fs.Changed("user-name") {
		userName, _ = fs.GetString("user-name")
	}

	cols, err := loadCollections(io, cfg)
	if err != nil {
		return err
	}

	project := findByID(cols.Projects, args[0])
	if project == nil {
		return fmt.Errorf("%w: %s", errProjectNotFound, args[0])
	}

	role := worklist.ResolveRole(project, userID, userName)

	if jsonOutput, _ := fs.GetBool("json"); jsonOutput {
		return printJSON(io, role)
	}

	io.Println("owner=" + strconv.FormatBool(role.IsOwner))
	io.Println("co_admin=" + strconv.FormatBool(role.IsCoAdmin))

	return nil
}

func findByID(records []record.Record, id string) record.Record {
	for _, rec := range records {
		if worklist.ID(rec) == id {
			return rec
		}
	}

	return nil
}
