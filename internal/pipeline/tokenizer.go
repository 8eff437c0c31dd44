package pipeline

import (
	"strings"
	"unicode"
)

// Tokenize splits a raw input line into a Chain. It never fails.
//
//	ls shadowtutor    => [["ls", "shadowtutor"]]
//	ls 'shadow tutor' => [["ls", "shadow tutor"]]
//	ls shadow|tutor   => [["ls", "shadow"], ["tutor"]]
//	ls 'shadow|tutor' => [["ls", "shadow|tutor"]]
//
// Single quotes make whitespace and pipes literal; \' is a literal quote
// anywhere. A quote left open runs to the end of the line. A segment with no
// content is kept as a single empty token so the executor can reject it.
func Tokenize(line string) Chain {
	t := tokenizer{}
	runes := []rune(line)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == OpEscape && i+1 < len(runes) && runes[i+1] == OpQuote:
			i++
			t.appendRune(OpQuote)

		case c == OpQuote:
			t.inQuotes = !t.inQuotes
			// '' is still a token, even with nothing between the quotes.
			t.started = true

		case c == OpPipe && !t.inQuotes:
			t.endSegment()

		case unicode.IsSpace(c) && !t.inQuotes:
			t.endToken()
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}

		default:
			t.appendRune(c)
		}
	}
	t.endSegment()
	return t.chain
}

// tokenizer holds the scan state for one Tokenize call.
type tokenizer struct {
	chain    Chain
	segment  Segment
	token    strings.Builder
	started  bool // the current token exists, even if it is still empty
	inQuotes bool
}

func (t *tokenizer) appendRune(c rune) {
	t.token.WriteRune(c)
	t.started = true
}

func (t *tokenizer) endToken() {
	if !t.started {
		return
	}
	t.segment = append(t.segment, t.token.String())
	t.token.Reset()
	t.started = false
}

func (t *tokenizer) endSegment() {
	t.endToken()
	if len(t.segment) == 0 {
		t.segment = Segment{""}
	}
	t.chain = append(t.chain, t.segment)
	t.segment = nil
}
