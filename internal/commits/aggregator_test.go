package commits

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllBranches_FailingBranchIsSkipped(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	src := &fakeSource{
		branches: []domain.BranchRef{{Name: "main"}, {Name: "develop"}},
		commits: map[string][]domain.CommitRecord{
			"main": {commit("aaaaaaa", "X", "2024-03-05T01:00:00Z")},
		},
		fetchErrs: map[string]error{"develop": errors.New("boom")},
	}

	got, err := NewAggregator(src, 0, logger).FetchAllBranchesCommits(context.Background(), "o", "r", time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aaaaaaa", got[0].ShortSHA)
	assert.Equal(t, "X", got[0].Message)

	assert.Contains(t, logs.String(), "branch_fetch_failed")
	assert.Contains(t, logs.String(), "branch=develop")
}

func TestFetchAllBranches_DedupsByShortSHA(t *testing.T) {
	shared := commit("bbbbbbb", "shared", "2024-03-05T02:00:00Z")
	src := &fakeSource{
		branches: []domain.BranchRef{{Name: "main"}, {Name: "feature"}, {Name: "hotfix"}},
		commits: map[string][]domain.CommitRecord{
			"main":    {shared, commit("ccccccc", "main only", "2024-03-05T03:00:00Z")},
			"feature": {{ShortSHA: "bbbbbbb", Message: "shared (feature copy)", Date: shared.Date}},
			"hotfix":  {shared, commit("ddddddd", "hotfix only", "2024-03-05T04:00:00Z")},
		},
	}

	got, err := NewAggregator(src, 0, nil).FetchAllBranchesCommits(context.Background(), "o", "r", time.Time{}, time.Now())
	require.NoError(t, err)

	seen := map[string]string{}
	for _, c := range got {
		_, dup := seen[c.ShortSHA]
		assert.False(t, dup, "duplicate %s", c.ShortSHA)
		seen[c.ShortSHA] = c.Message
	}
	assert.Len(t, got, 3)
	assert.Equal(t, "shared", seen["bbbbbbb"], "first branch in listing order wins")
}

func TestFetchAllBranches_BranchListFailureIsFatal(t *testing.T) {
	src := &fakeSource{
		branchErr: &github.APIError{Status: 403, Message: "Resource not accessible"},
	}

	_, err := NewAggregator(src, 0, nil).FetchAllBranchesCommits(context.Background(), "acme", "widgets", time.Time{}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/widgets")
	assert.Contains(t, err.Error(), "403 Forbidden")
	assert.Empty(t, src.fetchCalls)

	var apiErr *github.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)
}

func TestFetchAllBranches_AllBranchesFailing(t *testing.T) {
	src := &fakeSource{
		branches:  []domain.BranchRef{{Name: "a"}, {Name: "b"}},
		fetchErrs: map[string]error{"a": errors.New("x"), "b": errors.New("y")},
	}

	got, err := NewAggregator(src, 0, nil).FetchAllBranchesCommits(context.Background(), "o", "r", time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchAllBranches_RespectsConcurrencyLimit(t *testing.T) {
	src := &fakeSource{delay: 10 * time.Millisecond, commits: map[string][]domain.CommitRecord{}}
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		src.branches = append(src.branches, domain.BranchRef{Name: n})
	}

	_, err := NewAggregator(src, 2, nil).FetchAllBranchesCommits(context.Background(), "o", "r", time.Time{}, time.Now())
	require.NoError(t, err)
	assert.Len(t, src.fetchCalls, 6)
	assert.LessOrEqual(t, src.maxInFlight, 2)
}
