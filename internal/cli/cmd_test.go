package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/app"
	"github.com/alexanderramin/nippo/internal/commits"
	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/alexanderramin/nippo/internal/gitlocal"
	"github.com/alexanderramin/nippo/internal/intelligence"
	"github.com/alexanderramin/nippo/internal/llm"
	"github.com/alexanderramin/nippo/internal/repository"
	"github.com/alexanderramin/nippo/internal/service"
	"github.com/alexanderramin/nippo/internal/template"
	"github.com/alexanderramin/nippo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	commits map[string][]domain.CommitRecord
}

func (s *stubSource) FetchCommits(_ context.Context, _, _, branch string, _, _ time.Time) ([]domain.CommitRecord, error) {
	return append([]domain.CommitRecord(nil), s.commits[branch]...), nil
}

func (s *stubSource) ListBranches(context.Context, string, string) ([]domain.BranchRef, error) {
	refs := make([]domain.BranchRef, 0, len(s.commits))
	for name := range s.commits {
		refs = append(refs, domain.BranchRef{Name: name})
	}
	return refs, nil
}

func (s *stubSource) GetRepository(_ context.Context, owner, repo string) (*domain.Repository, error) {
	return &domain.Repository{Owner: owner, Name: repo, FullName: owner + "/" + repo, DefaultBranch: "main"}, nil
}

type stubLLM struct {
	mu    sync.Mutex
	text  string
	calls int
}

func (c *stubLLM) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &llm.GenerateResponse{Text: c.text, Model: "stub-model"}, nil
}

func (c *stubLLM) Available(context.Context) bool { return true }

type testEnv struct {
	app       *App
	llm       *stubLLM
	workTimes *repository.SQLiteWorkTimeRepo
}

// testApp wires a full App backed by an in-memory DB, a stub commit source
// and a stub model for CLI integration tests.
func testApp(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	workTimes := repository.NewSQLiteWorkTimeRepo(database)
	vars := repository.NewSQLiteTemplateVarRepo(database)
	reports := repository.NewSQLiteReportRepo(database)

	now := testutil.JST(2024, 3, 5, 18, 0)
	resolver := &datewindow.Resolver{Loc: datewindow.JST, Now: func() time.Time { return now }}
	source := &stubSource{commits: map[string][]domain.CommitRecord{
		"main": {
			{ShortSHA: "abcdef1", Message: "Add login form", Author: "alice", Date: testutil.JST(2024, 3, 5, 10, 0).UTC()},
			{ShortSHA: "1234567", Message: "Fix typo", Author: "bob", Date: testutil.JST(2024, 3, 5, 9, 0).UTC()},
		},
	}}
	collector := commits.NewCollector(source, nil)
	model := &stubLLM{text: "# 日報\n\n## 作業内容\n- ログインフォーム"}
	templates := template.NewDirSource("")

	return &testEnv{
		app: &App{
			Reports: service.NewReportService(service.ReportDeps{
				Collector: collector,
				Resolver:  resolver,
				Templates: templates,
				Vars:      vars,
				WorkTimes: workTimes,
				Reports:   reports,
				Writer:    intelligence.NewReportWriter(model),
			}),
			Commits:   service.NewCommitService(source, collector, resolver),
			WorkTime:  service.NewWorkTimeService(workTimes),
			Transfer:  service.NewTransferService(workTimes, testutil.NewTestUoW(database)),
			Templates: service.NewTemplateService(templates, vars),
			DetectRepo: func(string) (*gitlocal.RepoInfo, error) {
				return &gitlocal.RepoInfo{Owner: "acme", Repo: "detected", Branch: "main"}, nil
			},
			Now: func() time.Time { return now },
		},
		llm:       model,
		workTimes: workTimes,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app)
	require.NoError(t, err)
	assert.Contains(t, output, "nippo")
	assert.Contains(t, output, "worktime")
}

// --- report ---

func TestReportCmd_DailyPrintsContentAndSaves(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "report", "daily", "acme/widgets", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, output, "## 作業内容")
	assert.Contains(t, output, "2 commits")
	assert.Equal(t, 1, env.llm.calls)

	history, err := executeCmd(t, env.app, "history", "--repo", "acme/widgets")
	require.NoError(t, err)
	assert.Contains(t, history, "2024-03-05")
}

func TestReportCmd_DryRunPrintsPromptWithoutModelCall(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "report", "daily", "acme/widgets", "--date", "2024-03-05", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, output, "abcdef1")
	assert.Contains(t, output, "1234567")
	assert.Equal(t, 0, env.llm.calls)
}

func TestReportCmd_NoSaveLeavesHistoryEmpty(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "report", "daily", "acme/widgets", "--no-save")
	require.NoError(t, err)

	output, err := executeCmd(t, env.app, "history")
	require.NoError(t, err)
	assert.Contains(t, output, "No saved reports.")
}

func TestReportCmd_WritesOutputFile(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "report.md")

	output, err := executeCmd(t, env.app, "report", "daily", "acme/widgets", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# 日報"))
}

func TestReportCmd_MeetingReadsLastMeetingFile(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "last.md")
	require.NoError(t, os.WriteFile(path, []byte("## 次回やること\n- 決済画面"), 0o644))

	output, err := executeCmd(t, env.app, "report", "meeting", "acme/widgets", "--dry-run", "--last-meeting", path)
	require.NoError(t, err)
	assert.Contains(t, output, "決済画面")
}

func TestReportCmd_DetectsRepoFromWorkingDirectory(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "report", "daily")
	require.NoError(t, err)

	reports, err := env.app.Reports.History(context.Background(), "acme", "detected", 0)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestReportCmd_NoRemote(t *testing.T) {
	env := testApp(t)
	env.app.DetectRepo = func(string) (*gitlocal.RepoInfo, error) { return nil, gitlocal.ErrNoRemote }

	_, err := executeCmd(t, env.app, "report", "daily")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass owner/repo")
}

func TestReportCmd_InvalidRepoArgument(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "report", "daily", "widgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo")
}

func TestReportCmd_DateConflictsWithRange(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "report", "daily", "acme/widgets", "--date", "2024-03-05", "--from", "2024-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--date cannot be combined")

	_, err = executeCmd(t, env.app, "report", "daily", "acme/widgets", "--from", "2024-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "together")
}

func TestReportCmd_InvalidDateIsValidationError(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "report", "daily", "acme/widgets", "--date", "2024/03/05")
	require.Error(t, err)
	appErr, ok := app.AsError(err)
	require.True(t, ok)
	assert.Equal(t, app.KindValidation, appErr.Kind)
}

// --- commits ---

func TestCommitsCmd_ListsCommits(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "commits", "acme/widgets", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, output, "acme/widgets")
	assert.Contains(t, output, "main")
	assert.Contains(t, output, "abcdef1")
	assert.Contains(t, output, "Add login form")
}

// --- worktime ---

func TestWorkTimeCmd_StartStatusStop(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "worktime", "start", "--memo", "ログイン画面")
	require.NoError(t, err)
	assert.Contains(t, output, "RECORDING")

	_, err = executeCmd(t, env.app, "worktime", "start")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already recording")

	output, err = executeCmd(t, env.app, "wt", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "ログイン画面")

	// Stopped within the same minute, so the entry is discarded.
	output, err = executeCmd(t, env.app, "worktime", "stop")
	require.NoError(t, err)
	assert.Contains(t, output, "entry removed")

	output, err = executeCmd(t, env.app, "worktime", "status")
	require.NoError(t, err)
	assert.Contains(t, output, "Not recording.")
}

func TestWorkTimeCmd_StopWithoutRecording(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "worktime", "stop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no work time is being recorded")
}

func TestWorkTimeCmd_ListShowsEntriesAndTotal(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	require.NoError(t, env.workTimes.Create(ctx, testutil.NewTestWorkTimeEntry(testutil.JST(2024, 3, 5, 9, 0), 50, testutil.WithMemo("設計レビュー"))))
	require.NoError(t, env.workTimes.Create(ctx, testutil.NewTestWorkTimeEntry(testutil.JST(2024, 3, 5, 13, 0), 40)))
	require.NoError(t, env.workTimes.Create(ctx, testutil.NewTestWorkTimeEntry(testutil.JST(2024, 3, 6, 9, 0), 30)))

	output, err := executeCmd(t, env.app, "worktime", "list", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, output, "設計レビュー")
	assert.Contains(t, output, "1時間30分")

	output, err = executeCmd(t, env.app, "worktime", "list", "--date", "2024-03-05", "--week")
	require.NoError(t, err)
	assert.Contains(t, output, "2時間")
}

func TestWorkTimeCmd_EditAndDelete(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	entry := testutil.NewTestWorkTimeEntry(testutil.JST(2024, 3, 5, 9, 0), 50, testutil.WithID("wt-1"))
	require.NoError(t, env.workTimes.Create(ctx, entry))

	_, err := executeCmd(t, env.app, "worktime", "edit", "wt-1", "--start", "2024-03-05 10:00")
	require.Error(t, err)

	output, err := executeCmd(t, env.app, "worktime", "edit", "wt-1",
		"--start", "2024-03-05 10:00", "--end", "2024-03-05 11:30", "--memo", "直した")
	require.NoError(t, err)
	assert.Contains(t, output, "2024-03-05 10:00-11:30")

	got, err := env.workTimes.GetByID(ctx, "wt-1")
	require.NoError(t, err)
	assert.Equal(t, 90, got.Minutes())
	assert.Equal(t, "直した", got.Memo)

	_, err = executeCmd(t, env.app, "worktime", "edit", "wt-1", "--start", "10:00", "--end", "11:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time")

	output, err = executeCmd(t, env.app, "worktime", "delete", "wt-1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, output, "Deleted wt-1")

	_, err = executeCmd(t, env.app, "worktime", "delete", "wt-1", "--yes")
	require.Error(t, err)
	appErr, ok := app.AsError(err)
	require.True(t, ok)
	assert.Equal(t, app.KindNotFound, appErr.Kind)
}

func TestWorkTimeCmd_ExportImportRoundTrip(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	require.NoError(t, env.workTimes.Create(ctx, testutil.NewTestWorkTimeEntry(testutil.JST(2024, 3, 5, 9, 0), 50, testutil.WithID("wt-1"))))
	path := filepath.Join(t.TempDir(), "worktime.yaml")

	output, err := executeCmd(t, env.app, "worktime", "export", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Exported 1 entries")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wt-1")

	output, err = executeCmd(t, env.app, "worktime", "import", path, "--mode", "replace")
	require.NoError(t, err)
	assert.Contains(t, output, "Imported 1 entries (replace), replaced 1")

	all, err := env.workTimes.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWorkTimeCmd_ExportUnknownExtension(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "worktime", "export", filepath.Join(t.TempDir(), "worktime.csv"))
	require.Error(t, err)
}

func TestWorkTimeCmd_NotConfigured(t *testing.T) {
	_, err := executeCmd(t, &App{}, "worktime", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

// --- template ---

func TestTemplateCmd_VariablesLifecycle(t *testing.T) {
	env := testApp(t)

	output, err := executeCmd(t, env.app, "template", "show", "daily")
	require.NoError(t, err)
	assert.Contains(t, output, "作業内容")

	_, err = executeCmd(t, env.app, "template", "set", "daily", "team", "platform")
	require.NoError(t, err)

	output, err = executeCmd(t, env.app, "template", "vars", "daily")
	require.NoError(t, err)
	assert.Contains(t, output, "team")
	assert.Contains(t, output, "platform")

	_, err = executeCmd(t, env.app, "template", "unset", "daily", "team")
	require.NoError(t, err)

	output, err = executeCmd(t, env.app, "template", "vars", "daily")
	require.NoError(t, err)
	assert.Contains(t, output, "No saved variables.")

	_, err = executeCmd(t, env.app, "template", "show", "weekly")
	require.Error(t, err)
}

// --- history ---

func TestHistoryCmd_ShowPrintsSavedContent(t *testing.T) {
	env := testApp(t)
	_, err := executeCmd(t, env.app, "report", "daily", "acme/widgets")
	require.NoError(t, err)

	reports, err := env.app.Reports.History(context.Background(), "acme", "widgets", 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	output, err := executeCmd(t, env.app, "history", "show", reports[0].ID)
	require.NoError(t, err)
	assert.Contains(t, output, "ログインフォーム")

	_, err = executeCmd(t, env.app, "history", "show", "missing")
	require.Error(t, err)
}

// --- serve ---

func TestServeCmd_UsesConfiguredAddr(t *testing.T) {
	var got string
	a := &App{
		ServerAddr: "127.0.0.1:9999",
		Serve: func(_ context.Context, addr string) error {
			got = addr
			return nil
		},
	}

	_, err := executeCmd(t, a, "serve")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", got)

	_, err = executeCmd(t, a, "serve", "--addr", ":7000")
	require.NoError(t, err)
	assert.Equal(t, ":7000", got)
}

// --- errors ---

func TestFormatError_AddsKindHint(t *testing.T) {
	msg := FormatError(app.Unauthorizedf(nil, "no credential for acme/widgets"))
	assert.Contains(t, msg, "no credential for acme/widgets")
	assert.Contains(t, msg, "github.token")

	msg = FormatError(app.Validationf("bad date"))
	assert.Contains(t, msg, "bad date")
	assert.NotContains(t, msg, "hint")

	msg = FormatError(errors.New("boom"))
	assert.Contains(t, msg, "boom")
}
