package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/google/uuid"
)

type workTimeService struct {
	entries  repository.WorkTimeRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewWorkTimeService(entries repository.WorkTimeRepo, observers ...UseCaseObserver) WorkTimeService {
	return &workTimeService{
		entries:  entries,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *workTimeService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *workTimeService) Start(ctx context.Context, memo string) (entry *domain.WorkTimeEntry, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "worktime.start", startedAt, err, nil) }()

	current, err := s.entries.GetRecording(ctx)
	switch {
	case err == nil:
		return nil, app.Validationf("already recording since %s", current.Start.In(datewindow.JST).Format("2006-01-02 15:04"))
	case !errors.Is(err, repository.ErrNotFound):
		return nil, classifyError(err)
	}

	now := s.now().UTC().Truncate(time.Second)
	entry = &domain.WorkTimeEntry{
		ID:        uuid.New().String(),
		Start:     now,
		Memo:      memo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, classifyError(err)
	}
	return entry, nil
}

// Stop closes the recording entry. An empty memo keeps the memo given at
// start. Sessions shorter than a minute are deleted and reported as discarded.
func (s *workTimeService) Stop(ctx context.Context, memo string) (entry *domain.WorkTimeEntry, state domain.WorkTimeState, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "worktime.stop", startedAt, err, fields) }()

	entry, err = s.entries.GetRecording(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", app.Validationf("no work time is being recorded")
	}
	if err != nil {
		return nil, "", classifyError(err)
	}

	state, err = entry.Stop(s.now().UTC().Truncate(time.Second), domain.FirstNonBlank(memo, entry.Memo))
	if err != nil {
		return nil, "", classifyError(err)
	}
	fields["state"] = string(state)
	fields["minutes"] = entry.Minutes()

	if state == domain.WorkTimeDiscarded {
		if err := s.entries.Delete(ctx, entry.ID); err != nil {
			return nil, "", classifyError(err)
		}
		return entry, state, nil
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, "", classifyError(err)
	}
	return entry, state, nil
}

func (s *workTimeService) Current(ctx context.Context) (*domain.WorkTimeEntry, error) {
	entry, err := s.entries.GetRecording(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyError(err)
	}
	return entry, nil
}

func (s *workTimeService) List(ctx context.Context, window domain.DateWindow) ([]*domain.WorkTimeEntry, error) {
	if window.Until.Before(window.Since) {
		return nil, app.Validationf("window end is before its start")
	}
	entries, err := s.entries.ListBetween(ctx, window.Since, window.Until)
	if err != nil {
		return nil, classifyError(err)
	}
	return entries, nil
}

func (s *workTimeService) Edit(ctx context.Context, id string, start, end time.Time, memo string) (entry *domain.WorkTimeEntry, err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "worktime.edit", startedAt, err, map[string]any{"id": id}) }()

	entry, err = s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, classifyError(err)
	}
	if err := entry.Edit(start.UTC(), end.UTC(), memo, s.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrEntryNotCompleted) {
			return nil, classifyError(err)
		}
		return nil, app.Validationf("%s", err.Error())
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		return nil, classifyError(err)
	}
	return entry, nil
}

func (s *workTimeService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { s.observe(ctx, "worktime.delete", startedAt, err, map[string]any{"id": id}) }()

	if err := s.entries.Delete(ctx, id); err != nil {
		return classifyError(err)
	}
	return nil
}
