package timeparse

// examples are shown verbatim in interactive help and the examples command.
// Every entry must stay resolvable; the test suite enforces it.
var examples = []string{
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

// Examples returns sample expressions the resolver understands, in display
// order.
func Examples() []string {
	out := make([]string, len(examples))
	copy(out, examples)
	return out
}
