// Package cli implements aiopsctl, the operator companion of the console
// service.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd assembles aiopsctl and its subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "aiopsctl",
		Short: "Inspect the AIOps console access model and data sources",
		Long: `aiopsctl answers questions about the console without starting it.

Examples:
  # Which permissions and views does an operator get?
  aiopsctl roles

  # Is an executive allowed to run automation?
  aiopsctl can executive run:automation

  # Headline metrics, live from the incidents feed when it answers
  aiopsctl dashboard --url http://localhost:8080/api/v1/feed/incidents
`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRolesCmd(),
		newCanCmd(),
		newUsersCmd(),
		newDashboardCmd(),
		newSpoolCmd(),
	)
	return root
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func row(w io.Writer, cols ...interface{}) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}
