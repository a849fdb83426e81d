package domain

import "fmt"

type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportMeeting ReportType = "meeting"
)

// ParseReportType accepts "daily" or "meeting"; an empty string means daily.
func ParseReportType(s string) (ReportType, error) {
	switch ReportType(s) {
	case "", ReportDaily:
		return ReportDaily, nil
	case ReportMeeting:
		return ReportMeeting, nil
	default:
		return "", fmt.Errorf("unknown report type %q (want daily or meeting)", s)
	}
}

type WorkTimeState string

const (
	WorkTimeRecording WorkTimeState = "recording"
	WorkTimeCompleted WorkTimeState = "completed"
	WorkTimeDiscarded WorkTimeState = "discarded"
)

// AllBranches selects every branch of a repository when used as a branch name.
const AllBranches = "all"
