package commits

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/alexanderramin/nippo/internal/domain"
)

// Collector resolves a branch selector into a date-sorted commit list.
type Collector struct {
	source     Source
	aggregator *Aggregator
}

func NewCollector(source Source, aggregator *Aggregator) *Collector {
	if aggregator == nil {
		aggregator = NewAggregator(source, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	return &Collector{source: source, aggregator: aggregator}
}

// Collect returns the commits of branch within window, newest first, along
// with the branch name actually queried. branch "all" merges every branch;
// an empty branch uses the repository's default branch. Unlike the "all"
// mode, a failure fetching a single explicit branch is returned.
func (c *Collector) Collect(ctx context.Context, owner, repo, branch string, window domain.DateWindow) (string, []domain.CommitRecord, error) {
	var (
		records []domain.CommitRecord
		err     error
	)

	switch branch {
	case domain.AllBranches:
		records, err = c.aggregator.FetchAllBranchesCommits(ctx, owner, repo, window.Since, window.Until)
	case "":
		branch, err = c.defaultBranch(ctx, owner, repo)
		if err != nil {
			return "", nil, err
		}
		records, err = c.source.FetchCommits(ctx, owner, repo, branch, window.Since, window.Until)
	default:
		records, err = c.source.FetchCommits(ctx, owner, repo, branch, window.Since, window.Until)
	}
	if err != nil {
		return "", nil, err
	}

	SortByDateDesc(records)
	return branch, records, nil
}

func (c *Collector) defaultBranch(ctx context.Context, owner, repo string) (string, error) {
	info, err := c.source.GetRepository(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("looking up default branch of %s/%s: %w", owner, repo, err)
	}
	if info.DefaultBranch == "" {
		return "main", nil
	}
	return info.DefaultBranch, nil
}
