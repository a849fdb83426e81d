package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEntryNotCompleted is returned when an edit targets a recording entry.
	ErrEntryNotCompleted = errors.New("work time entry is still recording")

	// ErrEntryAlreadyStopped is returned when stopping an entry twice.
	ErrEntryAlreadyStopped = errors.New("work time entry already stopped")
)

// WorkTimeEntry is one manually tracked work session. A nil End means the
// session is still being recorded.
type WorkTimeEntry struct {
	ID        string
	Start     time.Time
	End       *time.Time
	Memo      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRecording reports whether the entry has not been stopped yet.
func (e *WorkTimeEntry) IsRecording() bool {
	return e.End == nil
}

// Minutes returns the whole minutes between Start and End, or 0 while recording.
func (e *WorkTimeEntry) Minutes() int {
	if e.End == nil {
		return 0
	}
	d := e.End.Sub(e.Start)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// Stop closes a recording entry. The returned state is WorkTimeDiscarded when
// the session lasted less than a minute; callers are expected to delete it.
func (e *WorkTimeEntry) Stop(end time.Time, memo string) (WorkTimeState, error) {
	if e.End != nil {
		return "", ErrEntryAlreadyStopped
	}
	if end.Before(e.Start) {
		return "", fmt.Errorf("end %s is before start %s", end.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	e.End = &end
	e.Memo = memo
	e.UpdatedAt = end
	if e.Minutes() == 0 {
		return WorkTimeDiscarded, nil
	}
	return WorkTimeCompleted, nil
}

// Edit adjusts the time range and memo of a completed entry.
func (e *WorkTimeEntry) Edit(start, end time.Time, memo string, now time.Time) error {
	if e.End == nil {
		return ErrEntryNotCompleted
	}
	if !end.After(start) {
		return fmt.Errorf("end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	e.Start = start
	e.End = &end
	e.Memo = memo
	e.UpdatedAt = now
	return nil
}

// Report is a generated report kept for history and meeting carry-over.
type Report struct {
	ID          string
	Type        ReportType
	Owner       string
	Repo        string
	Branch      string
	StartDate   string
	EndDate     string
	Content     string
	Model       string
	CommitCount int
	CreatedAt   time.Time
}
