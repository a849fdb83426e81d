package app

import (
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

// ReportRequest describes one report generation. Dates are YYYY-MM-DD in JST;
// Branch "all" aggregates every branch and an empty Branch means the default one.
type ReportRequest struct {
	Type               domain.ReportType
	Owner              string
	Repo               string
	Branch             string
	StartDate          string
	EndDate            string
	Variables          map[string]string
	Model              string
	LastMeetingContent string
	DryRun             bool
	Save               bool
}

func NewReportRequest(reportType domain.ReportType, owner, repo string) ReportRequest {
	return ReportRequest{
		Type:  reportType,
		Owner: owner,
		Repo:  repo,
		Save:  true,
	}
}

type ReportResponse struct {
	ReportID    string
	Type        domain.ReportType
	Content     string
	Prompt      string
	Model       string
	Window      domain.DateWindow
	CommitCount int
	GeneratedAt time.Time
}

// CommitsRequest lists commits without generating a report.
type CommitsRequest struct {
	Owner     string
	Repo      string
	Branch    string
	StartDate string
	EndDate   string
	Weekly    bool
}

type CommitsResponse struct {
	Repository domain.Repository
	Branch     string
	Window     domain.DateWindow
	Commits    []domain.CommitRecord
}
