package testutil

import (
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/google/uuid"
)

// JST builds a second-precision time in the report zone.
func JST(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, datewindow.JST)
}

// Work time entry options
type WorkTimeOption func(*domain.WorkTimeEntry)

func WithMemo(memo string) WorkTimeOption {
	return func(e *domain.WorkTimeEntry) {
		e.Memo = memo
	}
}

// Recording leaves the entry without an end time.
func Recording() WorkTimeOption {
	return func(e *domain.WorkTimeEntry) {
		e.End = nil
	}
}

func WithID(id string) WorkTimeOption {
	return func(e *domain.WorkTimeEntry) {
		e.ID = id
	}
}

// NewTestWorkTimeEntry returns a completed entry lasting minutes from start.
func NewTestWorkTimeEntry(start time.Time, minutes int, opts ...WorkTimeOption) *domain.WorkTimeEntry {
	end := start.Add(time.Duration(minutes) * time.Minute)
	e := &domain.WorkTimeEntry{
		ID:        uuid.New().String(),
		Start:     start,
		End:       &end,
		CreatedAt: start,
		UpdatedAt: end,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report options
type ReportOption func(*domain.Report)

func WithContent(content string) ReportOption {
	return func(r *domain.Report) {
		r.Content = content
	}
}

func WithCreatedAt(t time.Time) ReportOption {
	return func(r *domain.Report) {
		r.CreatedAt = t
	}
}

func NewTestReport(reportType domain.ReportType, owner, repo string, opts ...ReportOption) *domain.Report {
	r := &domain.Report{
		ID:        uuid.New().String(),
		Type:      reportType,
		Owner:     owner,
		Repo:      repo,
		Branch:    "main",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-10",
		Content:   "# report",
		Model:     "test-model",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
