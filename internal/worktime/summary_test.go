package worktime

import (
	"testing"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/alexanderramin/nippo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func jst(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, datewindow.JST)
}

func entry(start, end time.Time, memo string) domain.WorkTimeEntry {
	return domain.WorkTimeEntry{ID: start.String(), Start: start, End: &end, Memo: memo}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:   "0分",
		45:  "45分",
		60:  "1時間",
		90:  "1時間30分",
		125: "2時間5分",
		-3:  "0分",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDuration(in), "minutes=%d", in)
	}
}

func TestSummarize_DailySingleEntry(t *testing.T) {
	day := jst(2024, 3, 5, 0, 0)
	entries := []domain.WorkTimeEntry{entry(jst(2024, 3, 5, 9, 0), jst(2024, 3, 5, 9, 50), "")}

	got := Summarize(entries, domain.ReportDaily, day, day)

	assert.Equal(t, "合計作業時間: 50分\n- 09:00-09:50 (50分)", got)
}

func TestSummarize_DailyMemoIndented(t *testing.T) {
	day := jst(2024, 3, 5, 0, 0)
	entries := []domain.WorkTimeEntry{
		entry(jst(2024, 3, 5, 9, 0), jst(2024, 3, 5, 10, 30), "設計レビュー\n資料修正"),
		entry(jst(2024, 3, 5, 13, 0), jst(2024, 3, 5, 13, 45), ""),
	}

	got := Summarize(entries, domain.ReportDaily, day, day)

	want := "合計作業時間: 2時間15分\n" +
		"- 09:00-10:30 (1時間30分)\n" +
		"    設計レビュー\n" +
		"    資料修正\n" +
		"- 13:00-13:45 (45分)"
	assert.Equal(t, want, got)
}

func TestSummarize_SkipsRecordingAndOutOfRange(t *testing.T) {
	day := jst(2024, 3, 5, 0, 0)
	entries := []domain.WorkTimeEntry{
		{ID: "rec", Start: jst(2024, 3, 5, 11, 0)},
		entry(jst(2024, 3, 4, 9, 0), jst(2024, 3, 4, 10, 0), "yesterday"),
	}

	assert.Empty(t, Summarize(entries, domain.ReportDaily, day, day))
	assert.Empty(t, Summarize(nil, domain.ReportMeeting, day, day))
}

func TestSummarize_RangeUsesJSTDates(t *testing.T) {
	// 2024-03-04T23:30Z is 08:30 on 2024-03-05 in JST.
	start := time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC)
	entries := []domain.WorkTimeEntry{entry(start, start.Add(30*time.Minute), "")}

	got := Summarize(entries, domain.ReportDaily, jst(2024, 3, 5, 0, 0), jst(2024, 3, 5, 0, 0))
	assert.Equal(t, "合計作業時間: 30分\n- 08:30-09:00 (30分)", got)
}

func TestSummarize_MeetingGroupsByDay(t *testing.T) {
	entries := []domain.WorkTimeEntry{
		entry(jst(2024, 3, 6, 9, 0), jst(2024, 3, 6, 10, 0), ""),
		entry(jst(2024, 3, 4, 9, 0), jst(2024, 3, 4, 11, 0), ""),
		entry(jst(2024, 3, 6, 14, 0), jst(2024, 3, 6, 14, 30), ""),
	}

	got := Summarize(entries, domain.ReportMeeting, jst(2024, 3, 4, 0, 0), jst(2024, 3, 10, 0, 0))

	want := "合計作業時間: 3時間30分\n" +
		"日別作業時間:\n" +
		"- 2024-03-04: 2時間\n" +
		"- 2024-03-06: 1時間30分"
	assert.Equal(t, want, got)
}
