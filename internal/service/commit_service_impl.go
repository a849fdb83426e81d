package service

import (
	"context"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/commits"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
)

type commitService struct {
	source    commits.Source
	collector *commits.Collector
	resolver  *datewindow.Resolver
	observer  UseCaseObserver
}

func NewCommitService(source commits.Source, collector *commits.Collector, resolver *datewindow.Resolver, observers ...UseCaseObserver) CommitService {
	if resolver == nil {
		resolver = datewindow.NewResolver()
	}
	if collector == nil {
		collector = commits.NewCollector(source, nil)
	}
	return &commitService{
		source:    source,
		collector: collector,
		resolver:  resolver,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *commitService) ListCommits(ctx context.Context, req app.CommitsRequest) (resp *app.CommitsResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"repo": req.Owner + "/" + req.Repo}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "commits.list",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err := validateRepoRef(req.Owner, req.Repo); err != nil {
		return nil, err
	}
	reportType := domain.ReportDaily
	if req.Weekly {
		reportType = domain.ReportMeeting
	}
	window, err := s.resolver.Resolve(reportType, req.StartDate, req.EndDate)
	if err != nil {
		return nil, dateError(err)
	}

	info, err := s.source.GetRepository(ctx, req.Owner, req.Repo)
	if err != nil {
		return nil, classifyError(err)
	}
	branch := req.Branch
	if branch == "" {
		branch = domain.FirstNonBlank(info.DefaultBranch, "main")
	}

	branch, records, err := s.collector.Collect(ctx, req.Owner, req.Repo, branch, window)
	if err != nil {
		return nil, classifyError(err)
	}
	fields["branch"] = branch
	fields["commit_count"] = len(records)

	return &app.CommitsResponse{
		Repository: *info,
		Branch:     branch,
		Window:     window,
		Commits:    records,
	}, nil
}
