package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

type WorkTimeRepo interface {
	Create(ctx context.Context, e *domain.WorkTimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.WorkTimeEntry, error)
	// GetRecording returns the entry without an end time, or ErrNotFound.
	GetRecording(ctx context.Context) (*domain.WorkTimeEntry, error)
	// ListBetween returns entries starting in [since, until], oldest first.
	ListBetween(ctx context.Context, since, until time.Time) ([]*domain.WorkTimeEntry, error)
	ListAll(ctx context.Context) ([]*domain.WorkTimeEntry, error)
	Update(ctx context.Context, e *domain.WorkTimeEntry) error
	// Upsert inserts e or overwrites the entry with the same ID.
	Upsert(ctx context.Context, e *domain.WorkTimeEntry) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
}

type TemplateVarRepo interface {
	List(ctx context.Context, reportType domain.ReportType) (map[string]string, error)
	Set(ctx context.Context, reportType domain.ReportType, name, value string) error
	Delete(ctx context.Context, reportType domain.ReportType, name string) error
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// Latest returns the newest report of reportType for owner/repo, or ErrNotFound.
	Latest(ctx context.Context, reportType domain.ReportType, owner, repo string) (*domain.Report, error)
	List(ctx context.Context, owner, repo string, limit int) ([]*domain.Report, error)
}
