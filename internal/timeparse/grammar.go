package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	naturaldate "github.com/tj/go-naturaldate"
)

// Candidate is one calendar-date interpretation of an expression.
type Candidate struct {
	Time time.Time
	Text string // the span of the input the parser matched
}

// Grammar converts free text into ranked calendar-date candidates relative to
// a reference instant. Candidates are ordered by descending confidence; an
// empty slice means the text did not parse at all.
type Grammar interface {
	Parse(text string, ref time.Time) ([]Candidate, error)
}

var (
	defaultOnce    sync.Once
	defaultGrammar Grammar
)

// DefaultGrammar returns the shared production grammar. It layers three
// parsers, most specific first: a rule set for the catchup phrasings this
// client documents in its examples, go-naturaldate with past direction for
// weekday/casual phrases, and olebedev/when for everything else.
func DefaultGrammar() Grammar {
	defaultOnce.Do(func() {
		w := when.New(nil)
		w.Add(en.All...)
		w.Add(common.All...)
		defaultGrammar = &layeredGrammar{w: w}
	})
	return defaultGrammar
}

type layeredGrammar struct {
	w *when.Parser
}

func (g *layeredGrammar) Parse(text string, ref time.Time) ([]Candidate, error) {
	norm := normalize(text)

	var candidates []Candidate
	if t, ok := parseRelative(norm, ref); ok {
		candidates = append(candidates, Candidate{Time: t, Text: text})
	}
	if t, err := naturaldate.Parse(norm, ref, naturaldate.WithDirection(naturaldate.Past)); err == nil {
		candidates = append(candidates, Candidate{Time: t, Text: text})
	}
	res, werr := g.w.Parse(norm, ref)
	if werr == nil && res != nil {
		candidates = append(candidates, Candidate{Time: res.Time, Text: res.Text})
	}

	// A hard failure from when only matters when nothing else parsed; a
	// successful layer outranks it.
	if werr != nil && len(candidates) == 0 {
		return nil, werr
	}
	return candidates, nil
}

var (
	noonRe     = regexp.MustCompile(`\bnoon\b`)
	midnightRe = regexp.MustCompile(`\bmidnight\b`)
)

// normalize lowercases and rewrites casual clock words so every layer sees
// the same vocabulary.
func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.Join(strings.Fields(s), " ")
	s = noonRe.ReplaceAllString(s, "12pm")
	s = midnightRe.ReplaceAllString(s, "12am")
	return s
}

// The rule layer covers the relative phrasings the interactive help
// advertises, so those always parse the same way regardless of library
// grammar quirks. Input is already normalized.
var (
	agoRe       = regexp.MustCompile(`^(\d+) (minute|min|hour|hr|day|week)s? ago(?: at (.+))?$`)
	yesterdayRe = regexp.MustCompile(`^yesterday(?: at)?(?: (.+))?$`)
	morningRe   = regexp.MustCompile(`^this morning(?: at (.+))?$`)
	lastNightRe = regexp.MustCompile(`^last night(?: at (.+))?$`)
)

func parseRelative(s string, ref time.Time) (time.Time, bool) {
	if m := agoRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		var t time.Time
		switch m[2] {
		case "minute", "min":
			t = ref.Add(-time.Duration(n) * time.Minute)
		case "hour", "hr":
			t = ref.Add(-time.Duration(n) * time.Hour)
		case "day":
			t = ref.AddDate(0, 0, -n)
		case "week":
			t = ref.AddDate(0, 0, -7*n)
		}
		return withOptionalClock(t, m[3])
	}

	if m := yesterdayRe.FindStringSubmatch(s); m != nil {
		return withOptionalClock(ref.AddDate(0, 0, -1), m[1])
	}
	if m := morningRe.FindStringSubmatch(s); m != nil {
		if m[1] == "" {
			return atClock(ref, 8, 0), true
		}
		return withOptionalClock(ref, m[1])
	}
	if m := lastNightRe.FindStringSubmatch(s); m != nil {
		y := ref.AddDate(0, 0, -1)
		if m[1] == "" {
			return atClock(y, 22, 0), true
		}
		return withOptionalClock(y, m[1])
	}
	return time.Time{}, false
}

// withOptionalClock overrides the time of day of t with the given clock text,
// or keeps t's own when the text is empty. An unparseable clock rejects the
// whole match so a lower layer can try instead.
func withOptionalClock(t time.Time, clock string) (time.Time, bool) {
	if clock == "" {
		return t, true
	}
	c, ok := parseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return atClock(t, c.Hour(), c.Minute()), true
}

func atClock(t time.Time, hour, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
}

var clockLayouts = []string{"3pm", "3:04pm", "3 pm", "3:04 pm", "15:04"}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
