package commits

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Aggregator merges the commits of every branch of a repository.
type Aggregator struct {
	source         Source
	maxConcurrency int
	logger         *slog.Logger
}

// NewAggregator creates an Aggregator. maxConcurrency <= 0 fans out to every
// branch at once. logger may be nil.
func NewAggregator(source Source, maxConcurrency int, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{source: source, maxConcurrency: maxConcurrency, logger: logger}
}

// branchOutcome is the result slot owned by a single branch fetch.
type branchOutcome struct {
	Index   int
	Branch  string
	Commits []domain.CommitRecord
	Err     error
}

// FetchAllBranchesCommits returns each distinct commit reachable from any
// branch within [since, until]. A failing branch contributes no commits; only
// a failure to list branches is returned. The result is unordered.
func (a *Aggregator) FetchAllBranchesCommits(ctx context.Context, owner, repo string, since, until time.Time) ([]domain.CommitRecord, error) {
	branches, err := a.source.ListBranches(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching branches for %s/%s: %w", owner, repo, err)
	}

	outcomes := a.fanOut(ctx, owner, repo, branches, since, until)
	return a.merge(ctx, owner, repo, outcomes), nil
}

func (a *Aggregator) fanOut(ctx context.Context, owner, repo string, branches []domain.BranchRef, since, until time.Time) []branchOutcome {
	outcomes := make([]branchOutcome, len(branches))

	var g errgroup.Group
	if a.maxConcurrency > 0 {
		g.SetLimit(a.maxConcurrency)
	}
	for i, b := range branches {
		g.Go(func() error {
			records, err := a.source.FetchCommits(ctx, owner, repo, b.Name, since, until)
			outcomes[i] = branchOutcome{Index: i, Branch: b.Name, Commits: records, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// merge keys commits by short SHA; the first branch (in listing order) to
// report a commit wins.
func (a *Aggregator) merge(ctx context.Context, owner, repo string, outcomes []branchOutcome) []domain.CommitRecord {
	seen := make(map[string]struct{})
	var merged []domain.CommitRecord
	for _, o := range outcomes {
		if o.Err != nil {
			a.logger.WarnContext(ctx, "branch_fetch_failed",
				"repo", owner+"/"+repo,
				"branch", o.Branch,
				"error", o.Err.Error(),
			)
			continue
		}
		for _, c := range o.Commits {
			if _, dup := seen[c.ShortSHA]; dup {
				continue
			}
			seen[c.ShortSHA] = struct{}{}
			merged = append(merged, c)
		}
	}
	return merged
}
