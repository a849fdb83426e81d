package cli

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/nippo/internal/cli/formatter"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/spf13/cobra"
)

func newTemplateCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect report templates and their saved variables",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.Templates == nil {
				return fmt.Errorf("template service is not configured")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newTemplateShowCmd(a),
		newTemplateVarsCmd(a),
		newTemplateSetCmd(a),
		newTemplateUnsetCmd(a),
	)

	return cmd
}

func parseTypeArg(s string) (domain.ReportType, error) {
	if s == "" {
		return "", fmt.Errorf("report type is required (daily or meeting)")
	}
	return domain.ParseReportType(s)
}

func newTemplateShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show daily|meeting",
		Short: "Print the template text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			text, err := a.Templates.Show(cmd.Context(), t)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newTemplateVarsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "vars daily|meeting",
		Short: "List saved template variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			vars, err := a.Templates.Variables(cmd.Context(), t)
			if err != nil {
				return err
			}
			if len(vars) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No saved variables."))
				return nil
			}

			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			sort.Strings(names)
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, formatter.Truncate(vars[name], 60)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"NAME", "VALUE"}, rows))
			return nil
		},
	}
}

func newTemplateSetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set daily|meeting NAME VALUE",
		Short: "Save a variable substituted into every report of the type",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			if err := a.Templates.SetVariable(cmd.Context(), t, args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s.%s\n", t, args[1])
			return nil
		},
	}
}

func newTemplateUnsetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unset daily|meeting NAME",
		Short: "Remove a saved variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseTypeArg(args[0])
			if err != nil {
				return err
			}
			if err := a.Templates.DeleteVariable(cmd.Context(), t, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.%s\n", t, args[1])
			return nil
		},
	}
}
