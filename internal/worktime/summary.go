// Package worktime turns tracked work sessions into the duration text that is
// embedded in report prompts.
package worktime

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
)

// FormatDuration renders whole minutes as hours and minutes, e.g. 90 -> "1時間30分".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0分"
	}
	h, m := minutes/60, minutes%60
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%d時間", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%d分", m)
	}
	return b.String()
}

// Summarize builds the work-time block for a report covering the JST dates
// [startDate, endDate]. Recording entries and entries starting outside the
// range are ignored. It returns "" when nothing remains.
func Summarize(entries []domain.WorkTimeEntry, reportType domain.ReportType, startDate, endDate time.Time) string {
	first := datewindow.StartOfDay(startDate.In(datewindow.JST))
	last := datewindow.StartOfDay(endDate.In(datewindow.JST))

	var done []domain.WorkTimeEntry
	for _, e := range entries {
		if e.IsRecording() {
			continue
		}
		day := datewindow.StartOfDay(e.Start.In(datewindow.JST))
		if day.Before(first) || day.After(last) {
			continue
		}
		done = append(done, e)
	}
	if len(done) == 0 {
		return ""
	}

	if reportType == domain.ReportMeeting {
		return summarizeByDay(done)
	}
	return summarizeEntries(done)
}

func totalMinutes(entries []domain.WorkTimeEntry) int {
	total := 0
	for i := range entries {
		total += entries[i].Minutes()
	}
	return total
}

func summarizeEntries(entries []domain.WorkTimeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "合計作業時間: %s", FormatDuration(totalMinutes(entries)))
	for i := range entries {
		e := &entries[i]
		fmt.Fprintf(&b, "\n- %s-%s (%s)",
			e.Start.In(datewindow.JST).Format("15:04"),
			e.End.In(datewindow.JST).Format("15:04"),
			FormatDuration(e.Minutes()),
		)
		for _, line := range strings.Split(strings.TrimSpace(e.Memo), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			b.WriteString("\n    ")
			b.WriteString(line)
		}
	}
	return b.String()
}

func summarizeByDay(entries []domain.WorkTimeEntry) string {
	perDay := make(map[string]int)
	for i := range entries {
		day := entries[i].Start.In(datewindow.JST).Format(datewindow.DateLayout)
		perDay[day] += entries[i].Minutes()
	}
	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	var b strings.Builder
	fmt.Fprintf(&b, "合計作業時間: %s\n日別作業時間:", FormatDuration(totalMinutes(entries)))
	for _, d := range days {
		fmt.Fprintf(&b, "\n- %s: %s", d, FormatDuration(perDay[d]))
	}
	return b.String()
}
