// Package timeparse resolves natural-language time expressions ("2 hours ago",
// "yesterday at 3pm", "last friday at 9am") to a concrete past instant for
// catchup playback. Expressions that name a future point in time are refused.
package timeparse

import (
	"fmt"
	"strings"
	"time"
)

// ParsedTime is the result of a successful resolution. It is never mutated
// after construction.
type ParsedTime struct {
	// Timestamp is the resolved instant in whole UNIX seconds (truncated).
	Timestamp int64
	// Description is a human-readable summary of how far in the past the
	// instant is, or the original phrase for dates a week or more back.
	Description string
	// Resolved is the absolute instant Timestamp was derived from.
	Resolved time.Time
}

// Resolve maps expr to a past-bounded ParsedTime using the default grammar.
// ok is false when the expression is empty, unparseable, or names a future
// instant that the one-day-back disambiguation cannot rescue. err is non-nil
// only when the grammar itself fails, which is distinct from "no parse".
func Resolve(expr string, now time.Time) (pt ParsedTime, ok bool, err error) {
	return ResolveWith(DefaultGrammar(), expr, now)
}

// ResolveWith is Resolve with an explicit grammar, for callers that substitute
// their own date parser.
func ResolveWith(g Grammar, expr string, now time.Time) (ParsedTime, bool, error) {
	if strings.TrimSpace(expr) == "" {
		return ParsedTime{}, false, nil
	}

	candidates, err := g.Parse(expr, now)
	if err != nil {
		return ParsedTime{}, false, fmt.Errorf("parse %q: %w", expr, err)
	}
	if len(candidates) == 0 {
		return ParsedTime{}, false, nil
	}

	// Only the top-ranked candidate is considered.
	resolved := candidates[0].Time
	if resolved.IsZero() {
		return ParsedTime{}, false, nil
	}

	// A future parse is usually an ambiguous phrase ("friday at 9am" read as
	// the upcoming Friday). Retry the same clock time one calendar day
	// earlier; if that is still in the future the expression genuinely names
	// a future instant and is refused.
	if resolved.After(now) {
		resolved = resolved.AddDate(0, 0, -1)
		if resolved.After(now) {
			return ParsedTime{}, false, nil
		}
	}

	return ParsedTime{
		Timestamp:   resolved.Unix(),
		Description: describe(expr, resolved, now),
		Resolved:    resolved,
	}, true, nil
}

// IsResolvable reports whether expr would resolve against the current wall
// clock.
func IsResolvable(expr string) bool {
	_, ok, err := Resolve(expr, time.Now())
	return ok && err == nil
}

// NowUnix returns the current time in whole UNIX seconds, matching the
// truncation applied to ParsedTime.Timestamp.
func NowUnix() int64 {
	return time.Now().Unix()
}

const (
	clockFormat    = "3:04 PM"
	calendarFormat = "Mon, Jan 2, 3:04 PM"
)

// describe renders the relative description for a resolved instant.
// Buckets: minutes under an hour, hours while still on today's calendar date,
// "yesterday"/"N days ago" with a clock time up to a week, and the user's own
// wording plus the calendar date beyond that, where relative phrasing stops
// being meaningful.
func describe(expr string, resolved, now time.Time) string {
	minutes := int(now.Sub(resolved) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d %s ago", minutes, pluralize("minute", minutes))
	}

	local := resolved.In(now.Location())
	days := calendarDaysBetween(local, now)
	if days == 0 {
		hours := minutes / 60
		return fmt.Sprintf("%d %s ago", hours, pluralize("hour", hours))
	}

	clock := local.Format(clockFormat)
	switch {
	case days == 1:
		return "yesterday at " + clock
	case days < 7:
		return fmt.Sprintf("%d days ago at %s", days, clock)
	}
	return fmt.Sprintf("%s (%s)", expr, local.Format(calendarFormat))
}

func pluralize(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// calendarDaysBetween counts midnight boundaries between t and now in now's
// location. t must not be after now.
func calendarDaysBetween(t, now time.Time) int {
	t = t.In(now.Location())
	a := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(b.Sub(a) / (24 * time.Hour))
}
