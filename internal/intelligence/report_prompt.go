package intelligence

import (
	"strings"

	"github.com/alexanderramin/nippo/internal/domain"
)

// PromptInput carries the pre-rendered pieces of a report prompt.
type PromptInput struct {
	Type               domain.ReportType
	Template           string // already rendered
	WorkTime           string // worktime.Summarize output, may be empty
	Commits            string // commits.FormatForPrompt output
	LastMeetingContent string // meeting only
}

// BuildPrompt assembles the model prompt for a report. It is deterministic
// and never fails.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	if in.Type == domain.ReportMeeting && strings.TrimSpace(in.LastMeetingContent) != "" {
		b.WriteString(carryOverInstructions)
		b.WriteString("\n\n")
		b.WriteString(previousOpen)
		b.WriteByte('\n')
		b.WriteString(strings.TrimSpace(in.LastMeetingContent))
		b.WriteByte('\n')
		b.WriteString(previousClose)
		b.WriteString("\n\n")
	}

	if in.Type == domain.ReportMeeting {
		b.WriteString(meetingInstructions)
	} else {
		b.WriteString(dailyInstructions)
	}
	b.WriteString("\n\n")

	b.WriteString(templateHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimRight(InsertWorkTime(in.Type, in.Template, in.WorkTime), "\n"))
	b.WriteString("\n\n")

	b.WriteString(commitLogHeader)
	b.WriteString("\n\n")
	b.WriteString(commitLogOpen)
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(in.Commits, "\n"))
	b.WriteByte('\n')
	b.WriteString(commitLogClose)
	b.WriteByte('\n')

	return b.String()
}

// InsertWorkTime places the work-time block into tmpl. Daily reports get it
// right before the first heading mentioning 作業予定; meeting reports get it
// under the first heading mentioning 作業時間. Without an anchor the block is
// appended under its own heading. An empty block leaves tmpl untouched.
func InsertWorkTime(reportType domain.ReportType, tmpl, workTime string) string {
	workTime = strings.TrimSpace(workTime)
	if workTime == "" {
		return tmpl
	}

	lines := strings.Split(tmpl, "\n")
	anchor := dailyAnchor
	if reportType == domain.ReportMeeting {
		anchor = meetingAnchor
	}
	idx := headingIndex(lines, anchor)

	block := strings.Split(workTime, "\n")
	var out []string
	switch {
	case idx < 0:
		out = append(out, strings.TrimRight(tmpl, "\n"), "", workTimeFallback, "")
		out = append(out, block...)
	case reportType == domain.ReportMeeting:
		out = append(out, lines[:idx+1]...)
		out = append(out, "")
		out = append(out, block...)
		out = append(out, lines[idx+1:]...)
	default:
		out = append(out, lines[:idx]...)
		out = append(out, block...)
		out = append(out, "")
		out = append(out, lines[idx:]...)
	}
	return strings.Join(out, "\n")
}

func headingIndex(lines []string, anchor string) int {
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "#") && strings.Contains(t, anchor) {
			return i
		}
	}
	return -1
}
