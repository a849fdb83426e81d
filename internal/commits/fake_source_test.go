package commits

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

type fakeSource struct {
	mu          sync.Mutex
	branches    []domain.BranchRef
	branchErr   error
	commits     map[string][]domain.CommitRecord
	fetchErrs   map[string]error
	repo        *domain.Repository
	repoErr     error
	fetchCalls  []string
	inFlight    int
	maxInFlight int
	delay       time.Duration
}

func (f *fakeSource) FetchCommits(ctx context.Context, owner, repo, branch string, since, until time.Time) ([]domain.CommitRecord, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, branch)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err := f.fetchErrs[branch]; err != nil {
		return nil, err
	}
	out := make([]domain.CommitRecord, len(f.commits[branch]))
	copy(out, f.commits[branch])
	return out, nil
}

func (f *fakeSource) ListBranches(ctx context.Context, owner, repo string) ([]domain.BranchRef, error) {
	if f.branchErr != nil {
		return nil, f.branchErr
	}
	return f.branches, nil
}

func (f *fakeSource) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	if f.repo == nil {
		return &domain.Repository{Owner: owner, Name: repo}, nil
	}
	return f.repo, nil
}

func commit(sha, msg string, at string) domain.CommitRecord {
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		panic(err)
	}
	return domain.CommitRecord{ShortSHA: sha, Message: msg, Author: "alice", Date: t}
}
