package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/nippo/internal/datewindow"
)

// Render substitutes %{name} and %{name:offset} placeholders in tmpl.
//
// A name found in vars is replaced by its literal value and any offset is
// ignored. Otherwise the date placeholders Year, month, day, startDate,
// endDate and dateRange are computed from baseDate (endDate for the end side)
// shifted by the offset, e.g. %{day:+1d} or %{startDate:-1m+2d}. Unknown
// names and malformed offsets are left in place.
func Render(tmpl string, baseDate, endDate time.Time, vars map[string]string) string {
	base := baseDate.In(datewindow.JST)
	end := endDate.In(datewindow.JST)

	var b strings.Builder
	b.Grow(len(tmpl))
	rest := tmpl
	for {
		i := strings.Index(rest, "%{")
		if i < 0 {
			b.WriteString(rest)
			break
		}
		j := strings.IndexByte(rest[i:], '}')
		if j < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		raw := rest[i : i+j+1]
		if v, ok := expand(raw[2:len(raw)-1], base, end, vars); ok {
			b.WriteString(v)
		} else {
			b.WriteString(raw)
		}
		rest = rest[i+j+1:]
	}
	return b.String()
}

func expand(body string, base, end time.Time, vars map[string]string) (string, bool) {
	name, offset, hasOffset := strings.Cut(body, ":")
	if v, ok := vars[name]; ok {
		return v, true
	}

	shift := func(t time.Time) (time.Time, bool) { return t, true }
	if hasOffset {
		shift = func(t time.Time) (time.Time, bool) { return ApplyOffset(t, offset) }
	}

	switch name {
	case "Year", "month", "day", "startDate":
		d, ok := shift(base)
		if !ok {
			return "", false
		}
		switch name {
		case "Year":
			return fmt.Sprintf("%04d", d.Year()), true
		case "month":
			return fmt.Sprintf("%02d", int(d.Month())), true
		case "day":
			return fmt.Sprintf("%02d", d.Day()), true
		default:
			return d.Format(datewindow.DateLayout), true
		}
	case "endDate":
		d, ok := shift(end)
		if !ok {
			return "", false
		}
		return d.Format(datewindow.DateLayout), true
	case "dateRange":
		s, ok := shift(base)
		if !ok {
			return "", false
		}
		e, _ := shift(end)
		return s.Format(datewindow.DateLayout) + " ~ " + e.Format(datewindow.DateLayout), true
	}
	return "", false
}

// ApplyOffset shifts t by an offset made of one or more [+-]N[ymdh] terms,
// applied left to right. It reports false for an empty or malformed offset.
func ApplyOffset(t time.Time, offset string) (time.Time, bool) {
	if offset == "" {
		return t, false
	}
	pos := 0
	for pos < len(offset) {
		sign := offset[pos]
		if sign != '+' && sign != '-' {
			return t, false
		}
		pos++

		start := pos
		for pos < len(offset) && offset[pos] >= '0' && offset[pos] <= '9' {
			pos++
		}
		if start == pos || pos >= len(offset) {
			return t, false
		}
		n, err := strconv.Atoi(offset[start:pos])
		if err != nil {
			return t, false
		}
		if sign == '-' {
			n = -n
		}

		switch offset[pos] {
		case 'y':
			t = t.AddDate(n, 0, 0)
		case 'm':
			t = t.AddDate(0, n, 0)
		case 'd':
			t = t.AddDate(0, 0, n)
		case 'h':
			t = t.Add(time.Duration(n) * time.Hour)
		default:
			return t, false
		}
		pos++
	}
	return t, true
}
