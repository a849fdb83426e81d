package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/worktime"
)

// EntrySpan renders an entry's JST time range, e.g. "2024-03-05 09:00-09:50".
func EntrySpan(e *domain.WorkTimeEntry) string {
	start := e.Start.In(datewindow.JST)
	if e.End == nil {
		return start.Format("2006-01-02 15:04") + "-"
	}
	return start.Format("2006-01-02 15:04") + "-" + e.End.In(datewindow.JST).Format("15:04")
}

// FormatWorkTimeList renders entries as a table followed by their total.
// Recording entries show the time elapsed up to now.
func FormatWorkTimeList(entries []*domain.WorkTimeEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No work time recorded.") + "\n"
	}

	headers := []string{"ID", "TIME", "DURATION", "MEMO"}
	rows := make([][]string, 0, len(entries))
	total := 0
	for _, e := range entries {
		duration := worktime.FormatDuration(e.Minutes())
		if e.IsRecording() {
			duration = StyleRed.Render(worktime.FormatDuration(int(now.Sub(e.Start) / time.Minute)))
		} else {
			total += e.Minutes()
		}
		rows = append(rows, []string{
			e.ID,
			EntrySpan(e),
			duration,
			Truncate(firstLine(e.Memo), 40),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	fmt.Fprintf(&b, "\n%s %s\n", Bold("合計:"), worktime.FormatDuration(total))
	return b.String()
}

// FormatEntryStatus describes the current recording, if any.
func FormatEntryStatus(e *domain.WorkTimeEntry, now time.Time) string {
	if e == nil {
		return Dim("Not recording.") + "\n"
	}
	elapsed := worktime.FormatDuration(int(now.Sub(e.Start) / time.Minute))
	line := fmt.Sprintf("%s since %s (%s)", StateBadge(domain.WorkTimeRecording),
		e.Start.In(datewindow.JST).Format("2006-01-02 15:04"), elapsed)
	if e.Memo != "" {
		line += "  " + Dim(firstLine(e.Memo))
	}
	return line + "\n"
}

// FormatStopped reports the outcome of stopping a recording.
func FormatStopped(e *domain.WorkTimeEntry, state domain.WorkTimeState) string {
	if state == domain.WorkTimeDiscarded {
		return fmt.Sprintf("%s shorter than a minute, entry removed\n", StateBadge(state))
	}
	return fmt.Sprintf("%s %s (%s)\n", StateBadge(state), EntrySpan(e), worktime.FormatDuration(e.Minutes()))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
