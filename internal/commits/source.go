package commits

import (
	"context"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

// BranchFetcher fetches commits for exactly one branch.
type BranchFetcher interface {
	FetchCommits(ctx context.Context, owner, repo, branch string, since, until time.Time) ([]domain.CommitRecord, error)
}

// Source is the hosting API surface the commit pipeline depends on.
// *github.Client satisfies it.
type Source interface {
	BranchFetcher
	ListBranches(ctx context.Context, owner, repo string) ([]domain.BranchRef, error)
	GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error)
}
