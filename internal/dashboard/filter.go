package dashboard

import (
	"net/url"
	"strings"
	"time"

	"github.com/erazemk/transferhub/internal/model"
)

// Window is a date window of the transfer list.
type Window string

// Date windows.
const (
	WindowAll      Window = ""
	WindowToday    Window = "today"
	WindowTomorrow Window = "tomorrow"
	WindowWeek     Window = "week"
)

// WindowOption is a window with its button label.
type WindowOption struct {
	Window Window
	Label  string
}

// Windows lists the selectable windows in display order.
var Windows = []WindowOption{
	{WindowAll, "All"},
	{WindowToday, "Today"},
	{WindowTomorrow, "Tomorrow"},
	{WindowWeek, "This week"},
}

// Filter narrows the rendered list. It never changes the view's local copy.
type Filter struct {
	Window Window
	Query  string
}

// ParseFilter reads a filter from query parameters. Unknown windows mean all.
func ParseFilter(q url.Values) Filter {
	w := Window(q.Get("window"))
	switch w {
	case WindowToday, WindowTomorrow, WindowWeek:
	default:
		w = WindowAll
	}
	return Filter{Window: w, Query: strings.TrimSpace(q.Get("q"))}
}

// Encode returns the filter as a query string.
func (f Filter) Encode() string {
	q := url.Values{}
	if f.Window != WindowAll {
		q.Set("window", string(f.Window))
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	return q.Encode()
}

// WithWindow returns a copy of f using window w.
func (f Filter) WithWindow(w Window) Filter {
	f.Window = w
	return f
}

// Range returns the half-open interval [from, to) of the window, computed from
// calendar days in loc. Weeks start on Monday. ok is false for WindowAll.
func (f Filter) Range(now time.Time, loc *time.Location) (from, to time.Time, ok bool) {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := now.In(loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch f.Window {
	case WindowToday:
		return today, today.AddDate(0, 0, 1), true
	case WindowTomorrow:
		return today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), true
	case WindowWeek:
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7), true
	}
	return time.Time{}, time.Time{}, false
}

// Apply returns the transfers matching f, in their original order.
func (f Filter) Apply(transfers []model.Transfer, now time.Time, loc *time.Location) []model.Transfer {
	from, to, windowed := f.Range(now, loc)

	out := make([]model.Transfer, 0, len(transfers))
	for _, t := range transfers {
		if windowed && (t.TransferDate.Before(from) || !t.TransferDate.Before(to)) {
			continue
		}
		if !t.Matches(f.Query) {
			continue
		}
		out = append(out, t)
	}
	return out
}
