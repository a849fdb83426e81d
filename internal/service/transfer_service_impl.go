package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/db"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/importer"
	"github.com/alexanderramin/nippo/internal/repository"
)

type transferService struct {
	entries  repository.WorkTimeRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewTransferService(entries repository.WorkTimeRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TransferService {
	return &transferService{
		entries:  entries,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *transferService) Export(ctx context.Context, w io.Writer, format string) (n int, err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "worktime.export",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"format": format, "count": n},
		})
	}()

	f, err := importer.ParseFormat(format)
	if err != nil {
		return 0, app.Validationf("%s", err.Error())
	}
	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return 0, classifyError(err)
	}
	file := importer.FromEntries(entries, s.now(), datewindow.JST)
	if err := importer.Encode(w, f, file); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(entries), nil
}

func (s *transferService) Import(ctx context.Context, r io.Reader, format string, mode app.ImportMode) (result *app.ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"format": format, "mode": string(mode)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "worktime.import",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if mode == "" {
		mode = app.ImportMerge
	}
	if mode != app.ImportMerge && mode != app.ImportReplace {
		return nil, app.Validationf("unknown import mode %q (want merge or replace)", mode)
	}
	f, err := importer.ParseFormat(format)
	if err != nil {
		return nil, app.Validationf("%s", err.Error())
	}
	file, err := importer.Decode(r, f)
	if err != nil {
		return nil, app.Validationf("%s", err.Error())
	}
	if errs := importer.Validate(file); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	entries, err := importer.Convert(file, s.now().UTC())
	if err != nil {
		return nil, app.Validationf("%s", err.Error())
	}

	result = &app.ImportResult{Mode: mode}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEntries := repository.NewSQLiteWorkTimeRepo(tx)

		if mode == app.ImportReplace {
			n, err := txEntries.DeleteAll(ctx)
			if err != nil {
				return err
			}
			result.Replaced = n
		} else if err := checkRecordingConflict(ctx, txEntries, entries); err != nil {
			return err
		}

		for _, e := range entries {
			if err := txEntries.Upsert(ctx, e); err != nil {
				return err
			}
		}
		result.Imported = len(entries)
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	fields["imported"] = result.Imported
	fields["replaced"] = result.Replaced
	return result, nil
}

// checkRecordingConflict rejects a merge that would leave two entries recording.
func checkRecordingConflict(ctx context.Context, repo repository.WorkTimeRepo, incoming []*domain.WorkTimeEntry) error {
	var incomingRecording *domain.WorkTimeEntry
	for _, e := range incoming {
		if e.IsRecording() {
			incomingRecording = e
			break
		}
	}
	if incomingRecording == nil {
		return nil
	}
	current, err := repo.GetRecording(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if current.ID != incomingRecording.ID {
		return app.Validationf("import contains a recording entry but %s is already recording", current.ID)
	}
	return nil
}
