// Package stream implements TokenStream, the cursor over a lexed token
// sequence that the parser engine drives: the same buffered-lookahead,
// mark-and-reset backtracking shape as a classic recursive-descent token
// cursor, exposed as a narrower peek/consume/position/seek contract, plus
// the GetLinesOfCode diagnostic helper.
package stream

import (
	"fmt"
	"strings"

	"github.com/grammarkit/grammarkit/pkg/token"
)

// Cursor is the opaque position handle returned by Position and accepted by
// Seek.
type Cursor int

// TokenStream holds the non-whitespace tokens produced by the lexer
// (comments are retained here; the engine drops them before it builds its
// stream) plus the original source text for GetLinesOfCode.
type TokenStream struct {
	tokens []token.Token
	index  int
	source string
}

// New builds a TokenStream from a raw lexer token sequence, filtering out
// Whitespace tokens.
func New(source string, tokens []token.Token) *TokenStream {
	filtered := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.Whitespace {
			continue
		}
		filtered = append(filtered, t)
	}
	return &TokenStream{tokens: filtered, source: source}
}

// Peek returns the token at the current cursor without consuming it, and
// false if the stream is exhausted.
func (ts *TokenStream) Peek() (token.Token, bool) {
	if ts.index >= len(ts.tokens) {
		return token.Token{}, false
	}
	return ts.tokens[ts.index], true
}

// PeekN returns the token n positions ahead of the cursor (PeekN(0) is
// Peek).
func (ts *TokenStream) PeekN(n int) (token.Token, bool) {
	idx := ts.index + n
	if idx < 0 || idx >= len(ts.tokens) {
		return token.Token{}, false
	}
	return ts.tokens[idx], true
}

// Consume returns the current token and advances the cursor past it,
// failing with an end-of-input error if the stream is exhausted.
func (ts *TokenStream) Consume() (token.Token, error) {
	t, ok := ts.Peek()
	if !ok {
		return token.Token{}, fmt.Errorf("unexpected end of input")
	}
	ts.index++
	return t, nil
}

// AtEOF reports whether the cursor has reached the end of the stream.
func (ts *TokenStream) AtEOF() bool {
	return ts.index >= len(ts.tokens)
}

// Position returns the current cursor as an opaque handle for later Seek.
func (ts *TokenStream) Position() Cursor {
	return Cursor(ts.index)
}

// Seek restores the cursor to a previously obtained Position, failing if
// the cursor is out of range.
func (ts *TokenStream) Seek(c Cursor) error {
	if c < 0 || int(c) > len(ts.tokens) {
		return fmt.Errorf("seek: cursor %d out of range [0,%d]", c, len(ts.tokens))
	}
	ts.index = int(c)
	return nil
}

// Source returns the original source text, used by diagnostics.
func (ts *TokenStream) Source() string {
	return ts.source
}

// GetLinesOfCode formats source lines [startLine, endLine] (1-based,
// inclusive) as `N | text` with the line number right-aligned in a field
// sized to endLine's digit count. Out-of-range lines are clamped to the
// available source rather than erroring, so a diagnostic near the top or
// bottom of a file degrades gracefully.
func (ts *TokenStream) GetLinesOfCode(startLine, endLine int) string {
	lines := strings.Split(ts.source, "\n")
	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > endLine {
		return ""
	}

	width := len(fmt.Sprintf("%d", endLine))
	var b strings.Builder
	for n := startLine; n <= endLine; n++ {
		if n > 0 {
			fmt.Fprintf(&b, "%*d | %s", width, n, lines[n-1])
		}
		if n != endLine {
			b.WriteString("\n")
		}
	}
	return b.String()
}
