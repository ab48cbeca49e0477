package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fentz26/papercheck/internal/api"
	"github.com/fentz26/papercheck/internal/models"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users (admin)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Root's PersistentPreRun does not run automatically once we
		// define our own; call it so config is loaded.
		rootCmd.PersistentPreRun(cmd, args)

		// Client-side gate for nicer errors; the server enforces too.
		mgr, err := sessionManager()
		if err != nil {
			return err
		}
		u := mgr.User()
		if u == nil {
			return fmt.Errorf("not logged in - run 'papercheck login'")
		}
		if !u.Role.AtLeast(models.RoleAdmin) {
			return fmt.Errorf("user management requires the admin role (you are %s)", u.Role)
		}
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

var userSetRoleCmd = &cobra.Command{
	Use:   "set-role [user-id] [role]",
	Short: "Change a user's role (student, teacher, director, dean, admin)",
	Args:  cobra.ExactArgs(2),
	RunE:  runUserSetRole,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

func init() {
	userCmd.AddCommand(userListCmd, userSetRoleCmd, userDeleteCmd)
}

func runUserList(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	list, err := client.ListUsers(ctx, api.ListParams{})
	if err != nil {
		return friendly(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range list.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", truncateID(u.ID), u.Username, u.Email, u.Role)
	}
	w.Flush()
	return nil
}

func runUserSetRole(cmd *cobra.Command, args []string) error {
	role := models.Role(args[1])
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleDirector, models.RoleDean, models.RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", args[1])
	}

	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	user, err := client.SetUserRole(ctx, args[0], role)
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("%s is now %s\n", user.Username, user.Role)
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	client, _, err := apiClient()
	if err != nil {
		return err
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := client.DeleteUser(ctx, args[0]); err != nil {
		return friendly(err)
	}
	fmt.Printf("Deleted user %s\n", args[0])
	return nil
}
