package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/llm"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/alexanderramin/nippo/internal/testutil"
)

type stubSource struct {
	repo      *domain.Repository
	repoErr   error
	branches  []domain.BranchRef
	commits   map[string][]domain.CommitRecord
	fetchErrs map[string]error
}

func (s *stubSource) FetchCommits(_ context.Context, _, _, branch string, _, _ time.Time) ([]domain.CommitRecord, error) {
	if err := s.fetchErrs[branch]; err != nil {
		return nil, err
	}
	out := make([]domain.CommitRecord, len(s.commits[branch]))
	copy(out, s.commits[branch])
	return out, nil
}

func (s *stubSource) ListBranches(context.Context, string, string) ([]domain.BranchRef, error) {
	return s.branches, nil
}

func (s *stubSource) GetRepository(_ context.Context, owner, repo string) (*domain.Repository, error) {
	if s.repoErr != nil {
		return nil, s.repoErr
	}
	if s.repo != nil {
		return s.repo, nil
	}
	return &domain.Repository{Owner: owner, Name: repo, FullName: owner + "/" + repo, DefaultBranch: "main"}, nil
}

type stubLLM struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []llm.GenerateRequest
}

func (c *stubLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)
	if c.err != nil {
		return nil, c.err
	}
	return &llm.GenerateResponse{Text: c.text, Model: "stub-model"}, nil
}

func (c *stubLLM) Available(context.Context) bool { return c.err == nil }

type stubTemplates map[domain.ReportType]string

func (s stubTemplates) Load(reportType domain.ReportType) (string, error) {
	return s[reportType], nil
}

type recordingUseCaseObserver struct {
	events []UseCaseEvent
}

func (o *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

// fixedClock returns a clock that can be moved forward by tests.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func fixedResolver(now time.Time) *datewindow.Resolver {
	return &datewindow.Resolver{Loc: datewindow.JST, Now: func() time.Time { return now }}
}

func commit(sha, msg, author string, at time.Time) domain.CommitRecord {
	return domain.CommitRecord{ShortSHA: sha, Message: msg, Author: author, Date: at.UTC()}
}

type repos struct {
	db        *sql.DB
	workTimes *repository.SQLiteWorkTimeRepo
	vars      *repository.SQLiteTemplateVarRepo
	reports   *repository.SQLiteReportRepo
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:        database,
		workTimes: repository.NewSQLiteWorkTimeRepo(database),
		vars:      repository.NewSQLiteTemplateVarRepo(database),
		reports:   repository.NewSQLiteReportRepo(database),
	}
}
