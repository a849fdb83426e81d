package commits

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
)

// NoCommitsText is emitted in place of the log when a window has no commits.
const NoCommitsText = "コミットはありません"

// FormatForPrompt renders commits as a bullet list, one commit per bullet,
// in the order given. Continuation lines of a message are indented.
func FormatForPrompt(records []domain.CommitRecord) string {
	if len(records) == 0 {
		return NoCommitsText
	}

	var b strings.Builder
	for i, c := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		lines := strings.Split(strings.TrimRight(c.Message, "\n"), "\n")
		fmt.Fprintf(&b, "- %s %s %s (%s)",
			c.Date.In(datewindow.JST).Format("2006-01-02 15:04 MST"),
			c.ShortSHA,
			strings.TrimSpace(lines[0]),
			c.Author,
		)
		for _, l := range lines[1:] {
			l = strings.TrimRight(l, " \t\r")
			if l == "" {
				continue
			}
			b.WriteString("\n    ")
			b.WriteString(l)
		}
	}
	return b.String()
}
