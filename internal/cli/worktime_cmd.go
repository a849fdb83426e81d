package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/cli/formatter"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/importer"
	"github.com/spf13/cobra"
)

func newWorkTimeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worktime",
		Aliases: []string{"wt"},
		Short:   "Track work time for report summaries",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.WorkTime == nil {
				return fmt.Errorf("work time service is not configured")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newWorkTimeStartCmd(a),
		newWorkTimeStopCmd(a),
		newWorkTimeStatusCmd(a),
		newWorkTimeListCmd(a),
		newWorkTimeEditCmd(a),
		newWorkTimeDeleteCmd(a),
		newWorkTimeExportCmd(a),
		newWorkTimeImportCmd(a),
	)

	return cmd
}

func newWorkTimeStartCmd(a *App) *cobra.Command {
	var memo string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start recording work time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.WorkTime.Start(cmd.Context(), memo)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntryStatus(entry, a.now()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&memo, "memo", "m", "", "What you are working on")
	return cmd
}

func newWorkTimeStopCmd(a *App) *cobra.Command {
	var memo string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if memo == "" && a.interactive() {
				current, err := a.WorkTime.Current(ctx)
				if err != nil {
					return err
				}
				if current != nil {
					memo = current.Memo
					if err := memoForm(&memo).Run(); err != nil {
						return err
					}
					memo = strings.TrimSpace(memo)
				}
			}

			entry, state, err := a.WorkTime.Stop(ctx, memo)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStopped(entry, state))
			return nil
		},
	}

	cmd.Flags().StringVarP(&memo, "memo", "m", "", "Memo for the entry (keeps the start memo when empty)")
	return cmd
}

func newWorkTimeStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running recording",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.WorkTime.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntryStatus(entry, a.now()))
			return nil
		},
	}
}

func newWorkTimeListCmd(a *App) *cobra.Command {
	var window windowFlags
	var week bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work time entries in a window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start, end, err := window.dates()
			if err != nil {
				return err
			}
			reportType := domain.ReportDaily
			if week {
				reportType = domain.ReportMeeting
			}
			w, err := a.resolver().Resolve(reportType, start, end)
			if err != nil {
				return err
			}

			entries, err := a.WorkTime.List(cmd.Context(), w)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkTimeList(entries, a.now()))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(window.flagSet())
	cmd.Flags().BoolVarP(&week, "week", "w", false, "Use the Monday-Sunday week containing --date")
	return cmd
}

func newWorkTimeEditCmd(a *App) *cobra.Command {
	var start, end, memo string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the time range and memo of a completed entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := parseClock(start)
			if err != nil {
				return err
			}
			endAt, err := parseClock(end)
			if err != nil {
				return err
			}
			entry, err := a.WorkTime.Edit(cmd.Context(), args[0], startAt, endAt, memo)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", formatter.TruncID(entry.ID), formatter.EntrySpan(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", `Start time in JST ("YYYY-MM-DD HH:MM")`)
	cmd.Flags().StringVar(&end, "end", "", `End time in JST ("YYYY-MM-DD HH:MM")`)
	cmd.Flags().StringVarP(&memo, "memo", "m", "", "Replacement memo")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newWorkTimeDeleteCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a work time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if !yes && a.interactive() {
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete entry %s?", formatter.TruncID(id)), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := a.WorkTime.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.TruncID(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// transferFormat picks the --format flag, then the file extension, then JSON.
func transferFormat(flag, path string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if path == "" || path == "-" {
		return string(importer.FormatJSON), nil
	}
	f, err := importer.FormatFromPath(path)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

func newWorkTimeExportCmd(a *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Export all entries as JSON or YAML (stdout when FILE is omitted or -)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Transfer == nil {
				return fmt.Errorf("transfer service is not configured")
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			f, err := transferFormat(format, path)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if path != "" && path != "-" {
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("creating %s: %w", path, err)
				}
				defer file.Close()
				w = file
			}

			n, err := a.Transfer.Export(cmd.Context(), w, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from the file extension)")
	return cmd
}

func newWorkTimeImportCmd(a *App) *cobra.Command {
	var format, mode string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import entries from a JSON or YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Transfer == nil {
				return fmt.Errorf("transfer service is not configured")
			}
			path := args[0]
			f, err := transferFormat(format, path)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				defer file.Close()
				r = file
			}

			result, err := a.Transfer.Import(cmd.Context(), r, f, app.ImportMode(mode))
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("Imported %d entries (%s)", result.Imported, result.Mode)
			if result.Mode == app.ImportReplace {
				msg += fmt.Sprintf(", replaced %d", result.Replaced)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from the file extension)")
	cmd.Flags().StringVar(&mode, "mode", string(app.ImportMerge), "merge (upsert by id) or replace (delete existing first)")
	return cmd
}
