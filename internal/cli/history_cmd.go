package cli

import (
	"fmt"

	"github.com/alexanderramin/nippo/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *App) *cobra.Command {
	var repoFlag string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved reports",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.Reports == nil {
				return fmt.Errorf("report service is not configured")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var owner, repo string
			if repoFlag != "" {
				var err error
				owner, repo, err = resolveRepo(a, repoFlag)
				if err != nil {
					return err
				}
			}
			reports, err := a.Reports.History(cmd.Context(), owner, repo, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReportHistory(reports))
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoFlag, "repo", "r", "", "Only reports for owner/repo")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of reports")
	cmd.AddCommand(newHistoryShowCmd(a))

	return cmd
}

func newHistoryShowCmd(a *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.Reports.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd, report.Content, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}
