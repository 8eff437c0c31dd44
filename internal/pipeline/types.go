package pipeline

// Characters with special meaning on the command line.
const (
	OpPipe   = '|'  // pipe (previous stage's output → next stage's input)
	OpQuote  = '\'' // toggles quoting; pipes and whitespace are literal inside
	OpEscape = '\\' // only escapes a following quote

	// CommentMarker as the first token makes the whole line a comment.
	CommentMarker = "#"
)

// Segment is one command invocation: the command name followed by its args.
type Segment []string

// Empty reports whether the segment is the placeholder the tokenizer leaves
// where a segment had no content: a single empty token. A segment holding
// several quoted empty tokens is not empty; it has an empty command name.
func (s Segment) Empty() bool {
	return len(s) == 0 || len(s) == 1 && s[0] == ""
}

// Name returns the command name, or "" for an empty segment.
func (s Segment) Name() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Chain is one input line split on unquoted pipes.
type Chain []Segment
