package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/cli/formatter"
	"github.com/alexanderramin/nippo/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a report from a repository's commits",
	}

	cmd.AddCommand(
		newReportTypeCmd(app, domain.ReportDaily, "Generate a daily report (one JST day)"),
		newReportTypeCmd(app, domain.ReportMeeting, "Generate a meeting report (the Monday-Sunday week)"),
	)

	return cmd
}

type reportOptions struct {
	window      windowFlags
	branch      string
	vars        map[string]string
	model       string
	lastMeeting string
	dryRun      bool
	noSave      bool
	output      string
}

func newReportTypeCmd(app *App, reportType domain.ReportType, short string) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   string(reportType) + " [owner/repo]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var repoArg string
			if len(args) == 1 {
				repoArg = args[0]
			}
			req, err := buildReportRequest(app, reportType, repoArg, opts)
			if err != nil {
				return err
			}
			return runReport(cmd, app, req, opts.output)
		},
	}

	cmd.Flags().AddFlagSet(opts.window.flagSet())
	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", `Branch to read, or "all" for every branch (default: repository default)`)
	cmd.Flags().StringToStringVar(&opts.vars, "var", nil, "Template variable override (name=value, repeatable)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model name (default from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the prompt without calling the model")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Do not store the report in history")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")
	if reportType == domain.ReportMeeting {
		cmd.Flags().StringVar(&opts.lastMeeting, "last-meeting", "", "File with the previous meeting report (default: latest saved)")
	}

	return cmd
}

func buildReportRequest(a *App, reportType domain.ReportType, repoArg string, opts *reportOptions) (app.ReportRequest, error) {
	start, end, err := opts.window.dates()
	if err != nil {
		return app.ReportRequest{}, err
	}
	owner, repo, err := resolveRepo(a, repoArg)
	if err != nil {
		return app.ReportRequest{}, err
	}

	req := app.NewReportRequest(reportType, owner, repo)
	req.Branch = opts.branch
	req.StartDate = start
	req.EndDate = end
	req.Variables = opts.vars
	req.Model = opts.model
	req.DryRun = opts.dryRun
	req.Save = !opts.noSave

	if opts.lastMeeting != "" {
		content, err := os.ReadFile(opts.lastMeeting)
		if err != nil {
			return app.ReportRequest{}, fmt.Errorf("reading last meeting report: %w", err)
		}
		req.LastMeetingContent = string(content)
	}
	return req, nil
}

func runReport(cmd *cobra.Command, a *App, req app.ReportRequest, output string) error {
	if a.Reports == nil {
		return fmt.Errorf("report service is not configured")
	}
	ctx := cmd.Context()

	if req.DryRun {
		resp, err := a.Reports.Preview(ctx, req)
		if err != nil {
			return err
		}
		return writeResult(cmd, resp.Prompt, output)
	}

	var resp *app.ReportResponse
	generate := func(ctx context.Context) error {
		var err error
		resp, err = a.Reports.Generate(ctx, req)
		return err
	}

	var err error
	if a.interactive() {
		msg := fmt.Sprintf("Generating %s report for %s/%s", req.Type, req.Owner, req.Repo)
		err = formatter.RunWithSpinner(ctx, msg, generate, tea.WithOutput(cmd.ErrOrStderr()))
	} else {
		err = generate(ctx)
	}
	if err != nil {
		return err
	}

	if err := writeResult(cmd, resp.Content, output); err != nil {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatReportFooter(resp))
	return nil
}

// writeResult prints text to stdout, or to path when one is given.
func writeResult(cmd *cobra.Command, text, path string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
