package app

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

type GenerateReportUseCase interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}

type ListCommitsUseCase interface {
	ListCommits(ctx context.Context, req CommitsRequest) (*CommitsResponse, error)
}

type WorkTimeUseCase interface {
	Start(ctx context.Context, memo string) (*domain.WorkTimeEntry, error)
	Stop(ctx context.Context, memo string) (*domain.WorkTimeEntry, domain.WorkTimeState, error)
	Current(ctx context.Context) (*domain.WorkTimeEntry, error)
	List(ctx context.Context, window domain.DateWindow) ([]*domain.WorkTimeEntry, error)
	Edit(ctx context.Context, id string, start, end time.Time, memo string) (*domain.WorkTimeEntry, error)
	Delete(ctx context.Context, id string) error
}

// ImportMode selects how imported work time entries combine with stored ones.
type ImportMode string

const (
	ImportMerge   ImportMode = "merge"
	ImportReplace ImportMode = "replace"
)

type ImportResult struct {
	Imported int
	Replaced int
	Mode     ImportMode
}

type WorkTimeTransferUseCase interface {
	Export(ctx context.Context, w io.Writer, format string) (int, error)
	Import(ctx context.Context, r io.Reader, format string, mode ImportMode) (*ImportResult, error)
}
