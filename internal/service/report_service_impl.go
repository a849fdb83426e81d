package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/commits"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/intelligence"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/alexanderramin/nippo/internal/template"
	"github.com/alexanderramin/nippo/internal/worktime"
	"github.com/google/uuid"
)

// ReportDeps groups the collaborators of the report use case.
type ReportDeps struct {
	Collector *commits.Collector
	Resolver  *datewindow.Resolver
	Templates template.Source
	Vars      repository.TemplateVarRepo
	WorkTimes repository.WorkTimeRepo
	Reports   repository.ReportRepo
	Writer    intelligence.ReportWriter
	Logger    *slog.Logger
}

type reportService struct {
	deps     ReportDeps
	observer UseCaseObserver
	now      func() time.Time
}

func NewReportService(deps ReportDeps, observers ...UseCaseObserver) ReportService {
	if deps.Resolver == nil {
		deps.Resolver = datewindow.NewResolver()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &reportService{
		deps:     deps,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

// preparedReport is everything known about a report before the model call.
type preparedReport struct {
	window  domain.DateWindow
	branch  string
	prompt  string
	commits int
	start   time.Time
	end     time.Time
}

func (s *reportService) Generate(ctx context.Context, req app.ReportRequest) (resp *app.ReportResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"report_type": string(req.Type),
		"repo":        req.Owner + "/" + req.Repo,
		"dry_run":     req.DryRun,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report.generate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["branch"] = p.branch
	fields["commit_count"] = p.commits

	resp = &app.ReportResponse{
		Type:        req.Type,
		Prompt:      p.prompt,
		Window:      p.window,
		CommitCount: p.commits,
		GeneratedAt: s.now().UTC(),
	}
	if req.DryRun {
		return resp, nil
	}

	draft, err := s.deps.Writer.Write(ctx, req.Type, p.prompt, req.Model)
	if err != nil {
		return nil, classifyError(err)
	}
	resp.Content = draft.Content
	resp.Model = draft.Model
	fields["model"] = draft.Model

	if req.Save && s.deps.Reports != nil {
		resp.ReportID = s.save(ctx, req, p, resp)
	}
	return resp, nil
}

func (s *reportService) Preview(ctx context.Context, req app.ReportRequest) (*app.ReportResponse, error) {
	req.DryRun = true
	req.Save = false
	return s.Generate(ctx, req)
}

func (s *reportService) prepare(ctx context.Context, req app.ReportRequest) (*preparedReport, error) {
	if err := validateReportType(req.Type); err != nil {
		return nil, err
	}
	if err := validateRepoRef(req.Owner, req.Repo); err != nil {
		return nil, err
	}
	window, err := s.deps.Resolver.Resolve(req.Type, req.StartDate, req.EndDate)
	if err != nil {
		return nil, dateError(err)
	}

	branch, records, err := s.deps.Collector.Collect(ctx, req.Owner, req.Repo, req.Branch, window)
	if err != nil {
		return nil, classifyError(err)
	}
	startDay, endDay := s.deps.Resolver.LocalDates(window)

	workTime, err := s.workTimeSummary(ctx, req.Type, window, startDay, endDay)
	if err != nil {
		return nil, classifyError(err)
	}

	tmpl, err := s.deps.Templates.Load(req.Type)
	if err != nil {
		return nil, wrapf(err, "loading %s template", req.Type)
	}
	vars, err := s.variables(ctx, req)
	if err != nil {
		return nil, classifyError(err)
	}

	lastMeeting := req.LastMeetingContent
	if req.Type == domain.ReportMeeting && lastMeeting == "" {
		lastMeeting, err = s.lastMeetingContent(ctx, req.Owner, req.Repo)
		if err != nil {
			return nil, classifyError(err)
		}
	}

	prompt := intelligence.BuildPrompt(intelligence.PromptInput{
		Type:               req.Type,
		Template:           template.Render(tmpl, startDay, endDay, vars),
		WorkTime:           workTime,
		Commits:            commits.FormatForPrompt(records),
		LastMeetingContent: lastMeeting,
	})

	return &preparedReport{
		window:  window,
		branch:  branch,
		prompt:  prompt,
		commits: len(records),
		start:   startDay,
		end:     endDay,
	}, nil
}

func (s *reportService) workTimeSummary(ctx context.Context, reportType domain.ReportType, window domain.DateWindow, startDay, endDay time.Time) (string, error) {
	if s.deps.WorkTimes == nil {
		return "", nil
	}
	entries, err := s.deps.WorkTimes.ListBetween(ctx, window.Since, window.Until)
	if err != nil {
		return "", err
	}
	values := make([]domain.WorkTimeEntry, 0, len(entries))
	for _, e := range entries {
		values = append(values, *e)
	}
	return worktime.Summarize(values, reportType, startDay, endDay), nil
}

// variables merges saved template variables with the request's; request
// values win.
func (s *reportService) variables(ctx context.Context, req app.ReportRequest) (map[string]string, error) {
	vars := map[string]string{}
	if s.deps.Vars != nil {
		saved, err := s.deps.Vars.List(ctx, req.Type)
		if err != nil {
			return nil, err
		}
		for k, v := range saved {
			vars[k] = v
		}
	}
	for k, v := range req.Variables {
		vars[k] = v
	}
	return vars, nil
}

func (s *reportService) lastMeetingContent(ctx context.Context, owner, repo string) (string, error) {
	if s.deps.Reports == nil {
		return "", nil
	}
	last, err := s.deps.Reports.Latest(ctx, domain.ReportMeeting, owner, repo)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last.Content, nil
}

// save records the report for history. A storage failure is logged rather
// than discarding text the model already produced.
func (s *reportService) save(ctx context.Context, req app.ReportRequest, p *preparedReport, resp *app.ReportResponse) string {
	rep := &domain.Report{
		ID:          uuid.New().String(),
		Type:        req.Type,
		Owner:       req.Owner,
		Repo:        req.Repo,
		Branch:      p.branch,
		StartDate:   p.start.Format(datewindow.DateLayout),
		EndDate:     p.end.Format(datewindow.DateLayout),
		Content:     resp.Content,
		Model:       resp.Model,
		CommitCount: p.commits,
		CreatedAt:   resp.GeneratedAt,
	}
	if err := s.deps.Reports.Create(ctx, rep); err != nil {
		s.deps.Logger.WarnContext(ctx, "report_save_failed",
			"repo", req.Owner+"/"+req.Repo,
			"error", err.Error(),
		)
		return ""
	}
	return rep.ID
}

func (s *reportService) History(ctx context.Context, owner, repo string, limit int) ([]*domain.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	reports, err := s.deps.Reports.List(ctx, owner, repo, limit)
	if err != nil {
		return nil, classifyError(err)
	}
	return reports, nil
}

func (s *reportService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	rep, err := s.deps.Reports.GetByID(ctx, id)
	if err != nil {
		return nil, classifyError(err)
	}
	return rep, nil
}
