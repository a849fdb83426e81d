package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/datewindow"
)

// FormatCommitList renders a commit listing with its window and branch.
func FormatCommitList(resp *app.CommitsResponse) string {
	var b strings.Builder
	since := resp.Window.Since.In(datewindow.JST).Format(datewindow.DateLayout)
	until := resp.Window.Until.In(datewindow.JST).Format(datewindow.DateLayout)
	title := resp.Repository.FullName
	if title == "" {
		title = resp.Repository.Owner + "/" + resp.Repository.Name
	}
	fmt.Fprintf(&b, "%s  %s  %s\n\n", Bold(title), StyleBlue.Render(resp.Branch), Dim(since+" ~ "+until))

	if len(resp.Commits) == 0 {
		b.WriteString(Dim("No commits in this window.") + "\n")
		return b.String()
	}

	headers := []string{"SHA", "DATE", "AUTHOR", "MESSAGE"}
	rows := make([][]string, 0, len(resp.Commits))
	for _, c := range resp.Commits {
		rows = append(rows, []string{
			StyleYellow.Render(c.ShortSHA),
			c.Date.In(datewindow.JST).Format("01-02 15:04"),
			c.Author,
			Truncate(firstLine(c.Message), 60),
		})
	}
	b.WriteString(RenderTable(headers, rows))
	fmt.Fprintf(&b, "\n%s\n", Dim(fmt.Sprintf("%d commits", len(resp.Commits))))
	return b.String()
}
