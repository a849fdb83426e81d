// Package datewindow converts calendar dates in the report time zone into the
// UTC instant ranges used to query commit history.
package datewindow

import (
	"fmt"
	"time"

	"github.com/alexanderramin/nippo/internal/domain"
)

const DateLayout = "2006-01-02"

// JST is the fixed UTC+9 zone all report dates are interpreted in.
var JST = time.FixedZone("JST", 9*60*60)

// Resolver computes report windows. Now is only consulted when a date is
// omitted.
type Resolver struct {
	Loc *time.Location
	Now func() time.Time
}

// NewResolver returns a Resolver for JST backed by the wall clock.
func NewResolver() *Resolver {
	return &Resolver{Loc: JST, Now: time.Now}
}

func (r *Resolver) loc() *time.Location {
	if r.Loc == nil {
		return JST
	}
	return r.Loc
}

// ParseDate parses YYYY-MM-DD as local midnight. An empty string yields today.
func (r *Resolver) ParseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		return StartOfDay(now().In(r.loc())), nil
	}
	t, err := time.ParseInLocation(DateLayout, s, r.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Day covers one calendar day, 00:00:00 through 23:59:59 local time.
func (r *Resolver) Day(date string) (domain.DateWindow, error) {
	d, err := r.ParseDate(date)
	if err != nil {
		return domain.DateWindow{}, err
	}
	return window(d, d), nil
}

// Week covers Monday 00:00:00 through Sunday 23:59:59 of the week containing date.
func (r *Resolver) Week(date string) (domain.DateWindow, error) {
	d, err := r.ParseDate(date)
	if err != nil {
		return domain.DateWindow{}, err
	}
	monday := StartOfWeek(d)
	return window(monday, monday.AddDate(0, 0, 6)), nil
}

// Range covers start 00:00:00 through end 23:59:59.
func (r *Resolver) Range(start, end string) (domain.DateWindow, error) {
	s, err := r.ParseDate(start)
	if err != nil {
		return domain.DateWindow{}, err
	}
	e, err := r.ParseDate(end)
	if err != nil {
		return domain.DateWindow{}, err
	}
	if e.Before(s) {
		return domain.DateWindow{}, fmt.Errorf("end date %s is before start date %s", e.Format(DateLayout), s.Format(DateLayout))
	}
	return window(s, e), nil
}

// Resolve picks the calling convention for a report: an explicit pair of
// dates is used as is; otherwise daily reports cover one day and meeting
// reports the week containing start.
func (r *Resolver) Resolve(reportType domain.ReportType, start, end string) (domain.DateWindow, error) {
	if start != "" && end != "" {
		return r.Range(start, end)
	}
	if reportType == domain.ReportMeeting {
		return r.Week(domain.FirstNonBlank(start, end))
	}
	return r.Day(domain.FirstNonBlank(start, end))
}

// LocalDates returns the first and last calendar dates of w in the resolver's zone.
func (r *Resolver) LocalDates(w domain.DateWindow) (time.Time, time.Time) {
	return StartOfDay(w.Since.In(r.loc())), StartOfDay(w.Until.In(r.loc()))
}

func window(startDay, endDay time.Time) domain.DateWindow {
	return domain.DateWindow{
		Since: StartOfDay(startDay).UTC(),
		Until: EndOfDay(endDay).UTC(),
	}
}

// StartOfDay returns local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}
