package service

import (
	"context"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/domain"
)

type ReportService interface {
	app.GenerateReportUseCase
	// Preview assembles the prompt without calling the model or saving.
	Preview(ctx context.Context, req app.ReportRequest) (*app.ReportResponse, error)
	History(ctx context.Context, owner, repo string, limit int) ([]*domain.Report, error)
	GetReport(ctx context.Context, id string) (*domain.Report, error)
}

type CommitService interface {
	app.ListCommitsUseCase
}

type WorkTimeService interface {
	app.WorkTimeUseCase
}

type TransferService interface {
	app.WorkTimeTransferUseCase
}

// TemplateService exposes report templates and their saved variables.
type TemplateService interface {
	Show(ctx context.Context, reportType domain.ReportType) (string, error)
	Variables(ctx context.Context, reportType domain.ReportType) (map[string]string, error)
	SetVariable(ctx context.Context, reportType domain.ReportType, name, value string) error
	DeleteVariable(ctx context.Context, reportType domain.ReportType, name string) error
}
