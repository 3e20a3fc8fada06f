package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/fastygo/aiops/domain"
	"github.com/fastygo/aiops/repository/memory"
	"github.com/fastygo/aiops/usecase/access"
	"github.com/fastygo/aiops/usecase/console"
	"github.com/fastygo/aiops/usecase/views"
)

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List roles with their permissions and visible views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := table(cmd.OutOrStdout())
			row(w, "ROLE", "PERMISSIONS", "VIEWS")
			for _, role := range domain.Roles() {
				perms := make([]string, 0)
				for _, p := range domain.PermissionsOf(role) {
					perms = append(perms, string(p))
				}
				row(w, role, dashIfEmpty(perms), dashIfEmpty(visibleViews(role)))
			}
			return w.Flush()
		},
	}
}

func newCanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can <role> <permission>",
		Short: "Report whether a role holds a permission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return err
			}
			perm, err := domain.ParsePermission(args[1])
			if err != nil {
				return err
			}
			verdict := "denied"
			if access.Can(&domain.User{Role: role}, perm) {
				verdict = "allowed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", role, verdict, perm)
			return nil
		},
	}
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the demo accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := memory.NewCredentialRepository(memory.DemoPassword, bcrypt.MinCost)
			if err != nil {
				return err
			}
			users, err := creds.List(cmd.Context())
			if err != nil {
				return err
			}
			w := table(cmd.OutOrStdout())
			row(w, "EMAIL", "NAME", "ROLE")
			for _, u := range users {
				row(w, u.Email, u.Name, u.Role)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nAll demo accounts share the password %s\n", memory.DemoPassword)
			return nil
		},
	}
}

// visibleViews lists the console views role may open. Nothing is rendered,
// so the console needs no data sources here.
func visibleViews(role domain.Role) []string {
	reg := views.NewRegistry()
	console.New(nil, nil, nil, nil, nil).Register(reg)
	return reg.Visible(role)
}

func dashIfEmpty(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
