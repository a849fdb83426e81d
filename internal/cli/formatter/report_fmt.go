package formatter

import (
	"fmt"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
)

// FormatReportHistory renders saved reports newest first.
func FormatReportHistory(reports []*domain.Report) string {
	if len(reports) == 0 {
		return Dim("No saved reports.") + "\n"
	}
	headers := []string{"ID", "TYPE", "PERIOD", "BRANCH", "COMMITS", "CREATED"}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		period := r.StartDate
		if r.EndDate != r.StartDate {
			period += " ~ " + r.EndDate
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			ReportTypeLabel(r.Type),
			period,
			r.Branch,
			fmt.Sprintf("%d", r.CommitCount),
			r.CreatedAt.In(datewindow.JST).Format("2006-01-02 15:04"),
		})
	}
	return RenderBox("Reports", RenderTable(headers, rows)) + "\n"
}

// FormatReportFooter summarizes a generation for stderr.
func FormatReportFooter(resp *app.ReportResponse) string {
	msg := fmt.Sprintf("%s report, %d commits", resp.Type, resp.CommitCount)
	if resp.Model != "" {
		msg += ", model " + resp.Model
	}
	if resp.ReportID != "" {
		msg += ", saved as " + TruncID(resp.ReportID)
	}
	return Dim(msg) + "\n"
}
