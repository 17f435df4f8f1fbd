// Package diag formats parse failures into source-annotated diagnostics: a
// gutter-numbered source excerpt with a caret underline, plus the
// furthest-error reporting logic that picks which candidate failure to
// show when more than one rule could have matched.
package diag

import (
	"fmt"
	"strings"

	"github.com/grammarkit/grammarkit/internal/stream"
	"github.com/grammarkit/grammarkit/pkg/token"
)

// ParseError is the engine's single error type:
// every rule failure, all the way up to Parse's return value, is one of
// these. Token is the token the failing rule was looking at (an EOF-kind
// token with no position if the failure was at end of input). Expected,
// when non-empty, names what
// the rule wanted to see there, used to build a generalized "Expected X but
// got Y" message when multiple alternatives of an Options rule tie for
// furthest.
type ParseError struct {
	Message  string
	Token    token.Token
	Expected []string
	// Exit marks an error raised by any attempted iteration of a Repeat,
	// the first one included: it must propagate past any sibling
	// Options alternative instead of being treated as "try the next
	// alternative".
	Exit bool
}

func (e *ParseError) Error() string {
	if e.Token.Pos.IsValid() {
		return fmt.Sprintf("%s at %s", e.Message, e.Token.Pos)
	}
	return e.Message
}

// Offset returns the byte offset diag uses to compare how far two errors
// got into the source, with an end-of-input error (no token) treated as
// maximally far since it can only arise after every other candidate has
// been exhausted.
func (e *ParseError) Offset(sourceLen int) int {
	if !e.Token.Pos.IsValid() {
		return sourceLen
	}
	return e.Token.Pos.Offset
}

// Furthest returns whichever of a or b reached deeper into source before
// failing, preferring a on an exact tie.
func Furthest(a, b *ParseError, sourceLen int) *ParseError {
	if b == nil {
		return a
	}
	if a == nil {
		return b
	}
	if b.Offset(sourceLen) > a.Offset(sourceLen) {
		return b
	}
	return a
}

// Generalize builds a single "expected X, Y or Z but got T" error out of
// every candidate that tied for furthest.
func Generalize(candidates []*ParseError, tok token.Token) *ParseError {
	expected := make([]string, 0, len(candidates))
	seen := make(map[string]struct{})
	for _, c := range candidates {
		for _, e := range c.Expected {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			expected = append(expected, e)
		}
	}
	return &ParseError{
		Message:  fmt.Sprintf("expected %s but got %s", joinExpected(expected), describe(tok)),
		Token:    tok,
		Expected: expected,
	}
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 0:
		return "something else"
	case 1:
		return expected[0]
	case 2:
		return expected[0] + " or " + expected[1]
	default:
		return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
	}
}

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}

// Format renders err as a multi-line diagnostic: the message, then a
// gutter-numbered source excerpt centered on the failing token, then a
// caret line under the token's span.
func Format(err *ParseError, ts *stream.TokenStream) string {
	if err == nil {
		return ""
	}
	if !err.Token.Pos.IsValid() {
		return err.Error()
	}

	pos := err.Token.Pos
	const context = 1
	excerpt := ts.GetLinesOfCode(pos.Line-context, pos.Line+context)

	var b strings.Builder
	fmt.Fprintf(&b, "error: %s\n", err.Message)
	fmt.Fprintf(&b, "  --> %s\n", pos)
	if excerpt != "" {
		b.WriteString(excerpt)
		b.WriteString("\n")
	}
	b.WriteString(caretLine(pos, err.Token.Length(), excerpt))
	return b.String()
}

// caretLine builds the "^~~~" underline aligned under the failing token,
// offset by the same gutter width Format's excerpt used.
func caretLine(pos token.Position, length int, excerpt string) string {
	gutterWidth := 0
	for _, line := range strings.Split(excerpt, "\n") {
		if idx := strings.Index(line, " | "); idx >= 0 && idx > gutterWidth {
			gutterWidth = idx
		}
	}
	pad := strings.Repeat(" ", gutterWidth+3+pos.Column-1)
	if length < 1 {
		length = 1
	}
	caret := "^" + strings.Repeat("~", length-1)
	return pad + caret
}
