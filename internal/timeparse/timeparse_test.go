package timeparse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Saturday, 2024-06-15 12:00:00 UTC. All resolver tests pin this reference.
var ref = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeGrammar returns canned candidates and records whether it was invoked.
type fakeGrammar struct {
	candidates []Candidate
	err        error
	calls      int
}

func (f *fakeGrammar) Parse(text string, _ time.Time) ([]Candidate, error) {
	f.calls++
	return f.candidates, f.err
}

func fixed(t time.Time) *fakeGrammar {
	return &fakeGrammar{candidates: []Candidate{{Time: t, Text: "x"}}}
}

func TestResolveEmptyInputSkipsGrammar(t *testing.T) {
	g := &fakeGrammar{}
	for _, expr := range []string{"", "   ", "\t\n"} {
		_, ok, err := ResolveWith(g, expr, ref)
		require.NoError(t, err)
		require.False(t, ok, "expr %q", expr)
	}
	require.Equal(t, 0, g.calls)
}

func TestResolveNoCandidates(t *testing.T) {
	_, ok, err := ResolveWith(&fakeGrammar{}, "gibberish", ref)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveZeroCandidateRejected(t *testing.T) {
	g := &fakeGrammar{candidates: []Candidate{{Text: "partial"}}}
	_, ok, err := ResolveWith(g, "partial", ref)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveGrammarErrorPropagates(t *testing.T) {
	g := &fakeGrammar{err: errors.New("boom")}
	_, ok, err := ResolveWith(g, "anything", ref)
	require.Error(t, err)
	require.False(t, ok)
}

func TestResolvePastCandidateAccepted(t *testing.T) {
	at := ref.Add(-2 * time.Hour)
	pt, ok, err := ResolveWith(fixed(at), "2 hours ago", ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, at, pt.Resolved)
	require.Equal(t, at.Unix(), pt.Timestamp)
	require.Equal(t, "2 hours ago", pt.Description)
}

func TestResolveFutureShiftedOneDayBack(t *testing.T) {
	// "saturday at 9am" style ambiguity: parsed as tomorrow 09:00, rescued
	// to today 09:00.
	future := time.Date(2024, 6, 16, 9, 0, 0, 0, time.UTC)
	pt, ok, err := ResolveWith(fixed(future), "saturday at 9am", ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), pt.Resolved)
	require.Equal(t, "3 hours ago", pt.Description)
}

func TestResolveUnrescuableFutureRejected(t *testing.T) {
	future := time.Date(2024, 6, 18, 12, 0, 0, 0, time.UTC)
	_, ok, err := ResolveWith(fixed(future), "next tuesday", ref)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveNeverReturnsFutureInstant(t *testing.T) {
	offsets := []time.Duration{0, -time.Second, -time.Hour, 30 * time.Minute, 12 * time.Hour}
	for _, off := range offsets {
		pt, ok, err := ResolveWith(fixed(ref.Add(off)), "expr", ref)
		require.NoError(t, err)
		if ok {
			require.False(t, pt.Resolved.After(ref), "offset %v", off)
			require.LessOrEqual(t, pt.Timestamp, ref.Unix())
		}
	}
}

func TestResolveOnlyTopCandidateUsed(t *testing.T) {
	best := ref.Add(-3 * time.Hour)
	g := &fakeGrammar{candidates: []Candidate{
		{Time: best, Text: "a"},
		{Time: ref.Add(-10 * time.Hour), Text: "b"},
	}}
	pt, ok, err := ResolveWith(g, "expr", ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, best, pt.Resolved)
}

func TestTimestampTruncatesSubSecond(t *testing.T) {
	at := time.Date(2024, 6, 15, 10, 30, 45, 999_999_999, time.UTC)
	pt, ok, err := ResolveWith(fixed(at), "expr", ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC).Unix(), pt.Timestamp)
}

func TestDescriptionDeterministic(t *testing.T) {
	at := ref.Add(-90 * time.Minute)
	a, ok, err := ResolveWith(fixed(at), "90 minutes ago", ref)
	require.NoError(t, err)
	require.True(t, ok)
	b, _, _ := ResolveWith(fixed(at), "90 minutes ago", ref)
	require.Equal(t, a.Description, b.Description)
}

func TestDescribeBuckets(t *testing.T) {
	cases := []struct {
		name     string
		expr     string
		resolved time.Time
		want     string
	}{
		{"zero minutes", "now", ref, "0 minutes ago"},
		{"singular minute", "1 minute ago", ref.Add(-time.Minute), "1 minute ago"},
		{"upper minutes bound", "59 minutes ago", ref.Add(-59 * time.Minute), "59 minutes ago"},
		{"exactly one hour", "an hour ago", ref.Add(-60 * time.Minute), "1 hour ago"},
		{"same day hours", "5 hours ago", ref.Add(-5 * time.Hour), "5 hours ago"},
		{"previous day within 24h", "yesterday at 3pm", time.Date(2024, 6, 14, 15, 0, 0, 0, time.UTC), "yesterday at 3:00 PM"},
		{"exactly 24 hours", "a day ago", ref.Add(-24 * time.Hour), "yesterday at 12:00 PM"},
		{"several days", "3 days ago", time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC), "3 days ago at 12:00 PM"},
		{"six days", "last sunday", time.Date(2024, 6, 9, 8, 5, 0, 0, time.UTC), "6 days ago at 8:05 AM"},
		{"exactly seven days verbatim", "a week back", ref.AddDate(0, 0, -7), "a week back (Sat, Jun 8, 12:00 PM)"},
		{"long past verbatim", "3 weeks ago", ref.AddDate(0, 0, -21), "3 weeks ago (Sat, May 25, 12:00 PM)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pt, ok, err := ResolveWith(fixed(tc.resolved), tc.expr, ref)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tc.want, pt.Description)
		})
	}
}

func TestDescribeHoursCrossingMidnightCountsAsYesterday(t *testing.T) {
	// 21 hours back but on the previous calendar date: described by clock
	// time, not by hour count.
	at := time.Date(2024, 6, 14, 15, 0, 0, 0, time.UTC)
	pt, ok, err := ResolveWith(fixed(at), "yesterday at 3pm", ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "yesterday at 3:00 PM", pt.Description)
}

func TestDescribeSameDayLateHours(t *testing.T) {
	lateRef := time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC)
	at := time.Date(2024, 6, 15, 0, 30, 0, 0, time.UTC)
	pt, ok, err := ResolveWith(fixed(at), "23 hours ago", lateRef)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "23 hours ago", pt.Description)
}

func TestExamplesFixedCatalog(t *testing.T) {
	want := []string{
		"2 hours ago",
		"30 minutes ago",
		"1 day ago",
		"yesterday at 3pm",
		"yesterday 15:30",
		"last friday at 9am",
		"tuesday at noon",
		"3 days ago at 2pm",
		"this morning at 8am",
		"last night at 10pm",
	}
	require.Equal(t, want, Examples())

	// callers hold their own copy
	ex := Examples()
	ex[0] = "mutated"
	require.Equal(t, want, Examples())
}
