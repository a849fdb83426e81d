package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteReportRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	rep := testutil.NewTestReport(domain.ReportDaily, "acme", "widgets", testutil.WithContent("# 日報"))
	rep.CommitCount = 3
	require.NoError(t, repo.Create(ctx, rep))

	got, err := repo.GetByID(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportDaily, got.Type)
	assert.Equal(t, "# 日報", got.Content)
	assert.Equal(t, 3, got.CommitCount)
	assert.True(t, rep.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportRepo_Latest(t *testing.T) {
	repo := NewSQLiteReportRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Latest(ctx, domain.ReportMeeting, "acme", "widgets")
	assert.ErrorIs(t, err, ErrNotFound)

	old := testutil.NewTestReport(domain.ReportMeeting, "acme", "widgets", testutil.WithContent("old"), testutil.WithCreatedAt(base))
	newer := testutil.NewTestReport(domain.ReportMeeting, "acme", "widgets", testutil.WithContent("newer"), testutil.WithCreatedAt(base.Add(7*24*time.Hour)))
	daily := testutil.NewTestReport(domain.ReportDaily, "acme", "widgets", testutil.WithCreatedAt(base.Add(8*24*time.Hour)))
	other := testutil.NewTestReport(domain.ReportMeeting, "acme", "gadgets", testutil.WithCreatedAt(base.Add(9*24*time.Hour)))
	for _, r := range []*domain.Report{old, newer, daily, other} {
		require.NoError(t, repo.Create(ctx, r))
	}

	got, err := repo.Latest(ctx, domain.ReportMeeting, "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, "newer", got.Content)

	list, err := repo.List(ctx, "acme", "widgets", 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, daily.ID, list[0].ID)

	all, err := repo.List(ctx, "", "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.ID, all[0].ID)
}

func TestTemplateVarRepo_SetListDelete(t *testing.T) {
	repo := NewSQLiteTemplateVarRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, domain.ReportDaily, "name", "山田"))
	require.NoError(t, repo.Set(ctx, domain.ReportDaily, "name", "佐藤"))
	require.NoError(t, repo.Set(ctx, domain.ReportMeeting, "team", "core"))

	vars, err := repo.List(ctx, domain.ReportDaily)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "佐藤"}, vars)

	require.NoError(t, repo.Delete(ctx, domain.ReportDaily, "name"))
	assert.ErrorIs(t, repo.Delete(ctx, domain.ReportDaily, "name"), ErrNotFound)

	vars, err = repo.List(ctx, domain.ReportDaily)
	require.NoError(t, err)
	assert.Empty(t, vars)
}
