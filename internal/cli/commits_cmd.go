package cli

import (
	"fmt"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newCommitsCmd(a *App) *cobra.Command {
	var window windowFlags
	var branch string
	var week bool

	cmd := &cobra.Command{
		Use:   "commits [owner/repo]",
		Short: "List the commits a report would be built from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Commits == nil {
				return fmt.Errorf("commit service is not configured")
			}
			start, end, err := window.dates()
			if err != nil {
				return err
			}
			var repoArg string
			if len(args) == 1 {
				repoArg = args[0]
			}
			owner, repo, err := resolveRepo(a, repoArg)
			if err != nil {
				return err
			}

			resp, err := a.Commits.ListCommits(cmd.Context(), app.CommitsRequest{
				Owner:     owner,
				Repo:      repo,
				Branch:    branch,
				StartDate: start,
				EndDate:   end,
				Weekly:    week,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCommitList(resp))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(window.flagSet())
	cmd.Flags().StringVarP(&branch, "branch", "b", "", `Branch to read, or "all" for every branch`)
	cmd.Flags().BoolVarP(&week, "week", "w", false, "Use the Monday-Sunday week containing --date")

	return cmd
}
