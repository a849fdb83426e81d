package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	march5 = time.Date(2024, 3, 5, 0, 0, 0, 0, datewindow.JST)
	march8 = time.Date(2024, 3, 8, 0, 0, 0, 0, datewindow.JST)
)

func TestRender_DayPlaceholders(t *testing.T) {
	assert.Equal(t, "05", Render("%{day}", march5, march5, nil))
	assert.Equal(t, "06", Render("%{day:+1d}", march5, march5, nil))
	assert.Equal(t, "2024/03/05", Render("%{Year}/%{month}/%{day}", march5, march5, nil))
}

func TestRender_UnknownPlaceholderUnchanged(t *testing.T) {
	in := "before %{unknown} and %{day:+1x} after %{"
	assert.Equal(t, in, Render(in, march5, march5, nil))
}

func TestRender_VariablesOverrideDates(t *testing.T) {
	vars := map[string]string{"day": "XX", "project": "nippo"}
	got := Render("%{day:+1d} %{project} %{month}", march5, march5, vars)
	assert.Equal(t, "XX nippo 03", got)
}

func TestRender_RangePlaceholders(t *testing.T) {
	got := Render("%{startDate} / %{endDate} / %{dateRange}", march5, march8, nil)
	assert.Equal(t, "2024-03-05 / 2024-03-08 / 2024-03-05 ~ 2024-03-08", got)

	got = Render("%{endDate:+1d}", march5, march8, nil)
	assert.Equal(t, "2024-03-09", got)
}

func TestRender_InterpretsInJST(t *testing.T) {
	// 2024-03-04T20:00Z is already the 5th in JST.
	utc := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "05", Render("%{day}", utc, utc, nil))
}

func TestApplyOffset(t *testing.T) {
	cases := []struct {
		offset string
		want   string
		ok     bool
	}{
		{"+1d", "2024-03-06", true},
		{"-1d", "2024-03-04", true},
		{"+1m-2d", "2024-04-03", true},
		{"-1y", "2023-03-05", true},
		{"+24h", "2024-03-06", true},
		{"", "", false},
		{"1d", "", false},
		{"+d", "", false},
		{"+1", "", false},
		{"+1w", "", false},
	}
	for _, tc := range cases {
		got, ok := ApplyOffset(march5, tc.offset)
		assert.Equal(t, tc.ok, ok, tc.offset)
		if tc.ok {
			assert.Equal(t, tc.want, got.Format(datewindow.DateLayout), tc.offset)
		}
	}
}

func TestDirSource_FallsBackToDefaults(t *testing.T) {
	src := NewDirSource(t.TempDir())

	daily, err := src.Load(domain.ReportDaily)
	require.NoError(t, err)
	assert.Contains(t, daily, "作業予定")

	meeting, err := src.Load(domain.ReportMeeting)
	require.NoError(t, err)
	assert.Contains(t, meeting, "やったこと")
}

func TestDirSource_ReadsOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daily.md"), []byte("# custom %{day}"), 0o644))

	got, err := NewDirSource(dir).Load(domain.ReportDaily)
	require.NoError(t, err)
	assert.Equal(t, "# custom %{day}", got)
	assert.Equal(t, filepath.Join(dir, "daily.md"), NewDirSource(dir).Path(domain.ReportDaily))
}
