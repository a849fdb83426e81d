package service

import (
	"context"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/alexanderramin/nippo/internal/template"
)

type templateService struct {
	source   template.Source
	vars     repository.TemplateVarRepo
	observer UseCaseObserver
}

func NewTemplateService(source template.Source, vars repository.TemplateVarRepo, observers ...UseCaseObserver) TemplateService {
	return &templateService{
		source:   source,
		vars:     vars,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *templateService) Show(ctx context.Context, reportType domain.ReportType) (string, error) {
	if err := validateReportType(reportType); err != nil {
		return "", err
	}
	text, err := s.source.Load(reportType)
	if err != nil {
		return "", wrapf(err, "loading %s template", reportType)
	}
	return text, nil
}

func (s *templateService) Variables(ctx context.Context, reportType domain.ReportType) (map[string]string, error) {
	if err := validateReportType(reportType); err != nil {
		return nil, err
	}
	vars, err := s.vars.List(ctx, reportType)
	if err != nil {
		return nil, classifyError(err)
	}
	return vars, nil
}

func (s *templateService) SetVariable(ctx context.Context, reportType domain.ReportType, name, value string) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "template.set_variable",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"report_type": string(reportType), "name": name},
		})
	}()

	if err := validateReportType(reportType); err != nil {
		return err
	}
	if err := validateVariableName(name); err != nil {
		return err
	}
	if err := s.vars.Set(ctx, reportType, name, value); err != nil {
		return classifyError(err)
	}
	return nil
}

func (s *templateService) DeleteVariable(ctx context.Context, reportType domain.ReportType, name string) error {
	if err := validateReportType(reportType); err != nil {
		return err
	}
	if err := s.vars.Delete(ctx, reportType, name); err != nil {
		return classifyError(err)
	}
	return nil
}

// validateVariableName accepts names usable inside a %{name} placeholder.
func validateVariableName(name string) error {
	if name == "" {
		return app.Validationf("variable name is required")
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return app.Validationf("invalid variable name %q (letters, digits and _ only)", name)
		}
	}
	return nil
}
