package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
	"github.com/spf13/pflag"
)

// windowFlags is the --date/--from/--to trio shared by report, commits and
// worktime list.
type windowFlags struct {
	date string
	from string
	to   string
}

func (w *windowFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("window", pflag.ContinueOnError)
	fs.StringVarP(&w.date, "date", "d", "", "Date in JST (YYYY-MM-DD, default today)")
	fs.StringVar(&w.from, "from", "", "First date of an explicit range (YYYY-MM-DD)")
	fs.StringVar(&w.to, "to", "", "Last date of an explicit range (YYYY-MM-DD)")
	return fs
}

// dates returns the start and end date strings to resolve a window from.
func (w *windowFlags) dates() (string, string, error) {
	if w.date != "" && (w.from != "" || w.to != "") {
		return "", "", fmt.Errorf("--date cannot be combined with --from/--to")
	}
	if (w.from == "") != (w.to == "") {
		return "", "", fmt.Errorf("--from and --to must be given together")
	}
	if w.date != "" {
		return w.date, "", nil
	}
	return w.from, w.to, nil
}

const clockLayout = "2006-01-02 15:04"

// parseClock parses "YYYY-MM-DD HH:MM" in JST.
func parseClock(s string) (time.Time, error) {
	t, err := time.ParseInLocation(clockLayout, s, datewindow.JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want %q)", s, clockLayout)
	}
	return t, nil
}
