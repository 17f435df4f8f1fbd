// Package engine is the recursive-descent dispatcher that walks a
// grammar.Grammar against a token stream and builds a cst.Node tree. It is
// the data-driven generalization of a hand-written per-construct parser:
// instead of one Go function per grammar production, there is one
// production — the Grammar map — interpreted by one dispatcher, evalRule.
package engine

import (
	"fmt"
	"unicode"

	"github.com/grammarkit/grammarkit/internal/diag"
	"github.com/grammarkit/grammarkit/internal/lexer"
	"github.com/grammarkit/grammarkit/internal/stream"
	"github.com/grammarkit/grammarkit/pkg/cst"
	"github.com/grammarkit/grammarkit/pkg/grammar"
	"github.com/grammarkit/grammarkit/pkg/token"
	"golang.org/x/text/cases"
)

// Parser holds one validated Grammar and drives Parse against it. A Parser
// is reusable across many Parse calls and is not safe for concurrent use by
// multiple goroutines at once.
type Parser struct {
	grammar grammar.Grammar
	entry   string
	fold    cases.Caser
	debug   bool
}

// New validates g against entry and returns a Parser ready to run against
// any number of source strings. With debug off (the default a host should
// pass false for), a matched Keyword contributes nothing to the tree and
// every CST node's Line/Column is left at its zero value; with debug on,
// keywords surface as their own tagged node and every node carries the
// line/column of the first token it consumed.
func New(g grammar.Grammar, entry string, debug bool) (*Parser, error) {
	if entry == "" {
		entry = grammar.DefaultEntry
	}
	if err := grammar.Validate(g, entry); err != nil {
		return nil, err
	}
	return &Parser{grammar: g, entry: entry, fold: cases.Fold(), debug: debug}, nil
}

// Parse lexes source with the keyword set derived from the grammar, then
// recursively evaluates the entry rule against it and returns only that
// first match. There is no implicit end-of-input check: an entry rule that
// matches a prefix of source succeeds even with tokens left over, so a
// caller that wants full consumption must say so in the grammar (a `Repeat`
// entry already gets this for free, since a trailing token it cannot fold
// into another iteration escalates as an Exit error rather than stopping
// cleanly — see evalRepeat).
func (p *Parser) Parse(source string) (*cst.Node, error) {
	keywords := grammar.ExtractKeywords(p.grammar)
	tokens, err := lexer.Lex(source, keywords)
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return nil, &diag.ParseError{Message: lexErr.Message, Token: token.Token{Pos: lexErr.Pos}}
		}
		return nil, err
	}

	// Comments are transparent to every rule, so they are dropped before
	// evaluation rather than matched against.
	significant := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != token.Comment {
			significant = append(significant, t)
		}
	}
	ts := stream.New(source, significant)
	start, hasStart := ts.Peek()
	entryRule := p.grammar[p.entry]
	value, perr := p.evalRule(ts, entryRule, p.entry, nil)
	if perr != nil {
		return nil, perr
	}

	if node, ok := value.(*cst.Node); ok {
		return node, nil
	}
	// The entry rule matched but captured nothing of its own (e.g. it is
	// a bare Sequence of Keywords) — still a successful parse, wrapped so
	// callers always get a Node back for the whole document.
	if !p.debug {
		return cst.New(p.entry, value, 0, 0), nil
	}
	line, col := 1, 1
	if hasStart {
		line, col = start.Pos.Line, start.Pos.Column
	}
	return cst.New(p.entry, value, line, col), nil
}

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Literal)
}

// evalRule dispatches on r's concrete type and returns the value it
// captured (nil if it matched but captured nothing) or the error it
// failed with. currentType is the nearest enclosing rule name, used to
// label a Node synthesized by evalRepeat or evalSequence when a child
// result isn't already a *cst.Node. endToken, when non-nil, is the
// position a Sequence sibling has already claimed — it lets evalRepeat
// refuse to consume into territory the next Sequence item owns.
func (p *Parser) evalRule(ts *stream.TokenStream, r grammar.Rule, currentType string, endToken *token.Token) (cst.Value, *diag.ParseError) {
	switch v := r.(type) {
	case grammar.Keyword:
		return p.evalKeyword(ts, v)
	case grammar.Terminal:
		return p.evalTerminal(ts, v)
	case grammar.Ref:
		return p.evalRef(ts, v)
	case grammar.Sequence:
		return p.evalSequence(ts, v, currentType)
	case grammar.Options:
		return p.evalOptions(ts, v, currentType, endToken)
	case grammar.Repeat:
		return p.evalRepeat(ts, v, currentType, endToken)
	case grammar.Optional:
		return p.evalOptional(ts, v, currentType, endToken)
	case grammar.Capture:
		return p.evalCapture(ts, v, endToken)
	default:
		return nil, &diag.ParseError{Message: fmt.Sprintf("grammar bug: unknown rule type %T", r)}
	}
}

func (p *Parser) foldEqual(a, b string) bool {
	return p.fold.String(a) == p.fold.String(b)
}

// evalKeyword matches the current token's literal text against Word,
// case-insensitively — the counterpart to the lexer's
// case-SENSITIVE keyword-set extraction, see internal/lexer.KeywordSet's
// doc comment for why these are deliberately two different comparisons. If
// the token the lexer actually produced is a Keyword token, Word itself
// must be purely alphanumeric: a grammar author who writes a punctuation
// literal that happens to collide with a reserved word gets a grammar
// error here instead of a silent, confusing mismatch. On match, debug off
// discards the keyword (no captured value); debug on returns it as its own
// Keyword-tagged node so a host can still see where it was consumed.
func (p *Parser) evalKeyword(ts *stream.TokenStream, r grammar.Keyword) (cst.Value, *diag.ParseError) {
	tok, ok := ts.Peek()
	if !ok {
		return nil, &diag.ParseError{
			Message:  fmt.Sprintf("expected %q but reached end of input", r.Word),
			Token:    token.Token{Kind: token.EOF},
			Expected: []string{fmt.Sprintf("%q", r.Word)},
		}
	}
	if !p.foldEqual(tok.Literal, r.Word) {
		return nil, &diag.ParseError{
			Message:  fmt.Sprintf("expected %q but got %s", r.Word, describe(tok)),
			Token:    tok,
			Expected: []string{fmt.Sprintf("%q", r.Word)},
		}
	}
	if tok.Kind == token.Keyword && !isAlphanumeric(r.Word) {
		return nil, &diag.ParseError{
			Message: fmt.Sprintf("Unexpected keyword %q", r.Word),
			Token:   tok,
		}
	}
	_, _ = ts.Consume()
	if !p.debug {
		return nil, nil
	}
	return cst.New("Keyword", tok.Literal, tok.Pos.Line, tok.Pos.Column), nil
}

// isAlphanumeric reports whether s is non-empty and every rune in it is a
// letter or digit — the guard evalKeyword applies before letting a
// Keyword-kind token satisfy a punctuation literal.
func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// evalTerminal consumes one token and hands it to r.Convert. The converted
// scalar becomes the rule's captured value — visible in the tree only if a
// Capture wraps this Terminal, but still propagated through a bare Sequence
// slot so a sibling-less Sequence can unwrap to it.
func (p *Parser) evalTerminal(ts *stream.TokenStream, r grammar.Terminal) (cst.Value, *diag.ParseError) {
	tok, ok := ts.Peek()
	if !ok {
		return nil, &diag.ParseError{
			Message:  fmt.Sprintf("expected %s but reached end of input", r.Name),
			Token:    token.Token{Kind: token.EOF},
			Expected: []string{r.Name},
		}
	}
	val, err := r.Convert(tok)
	if err != nil {
		return nil, &diag.ParseError{
			Message:  err.Error(),
			Token:    tok,
			Expected: []string{r.Name},
		}
	}
	_, _ = ts.Consume()
	return val, nil
}

// evalRef recurses into the named rule with no endToken (an enclosing
// Sequence's sentinel does not reach a Repeat behind a Ref), and renames
// currentType for whatever the referenced rule captures.
func (p *Parser) evalRef(ts *stream.TokenStream, r grammar.Ref) (cst.Value, *diag.ParseError) {
	inner, ok := p.grammar[r.Name]
	if !ok {
		return nil, &diag.ParseError{Message: fmt.Sprintf("grammar bug: no rule named %q", r.Name)}
	}
	return p.evalRule(ts, inner, r.Name, nil)
}

// evalSequence requires every item to match in order,
// backtracking the whole sequence to its start position on any failure.
// Each item but the last is evaluated with endToken set to the position of
// the next item's first token once that's known; since determining a
// following item's first token ahead of matching it isn't possible in a
// data-driven grammar without lookahead the engine doesn't otherwise do,
// endToken here is instead derived after the fact for Repeat's own use —
// each item simply receives nil and matches as far as it can, since
// Sequence items are required (not repeated), so there is no ambiguity for
// a plain item to resolve against a following sibling.
func (p *Parser) evalSequence(ts *stream.TokenStream, r grammar.Sequence, currentType string) (cst.Value, *diag.ParseError) {
	mark := ts.Position()
	children := make([]cst.Value, 0, len(r.Items))
	for i, item := range r.Items {
		var endToken *token.Token
		if i+1 < len(r.Items) {
			if tok, ok := firstMatchableToken(ts); ok {
				endToken = &tok
			}
		}
		val, err := p.evalRule(ts, item, currentType, endToken)
		if err != nil {
			_ = ts.Seek(mark)
			return nil, err
		}
		if val != nil {
			children = append(children, val)
		}
	}
	switch len(children) {
	case 0:
		return nil, nil
	case 1:
		return children[0], nil
	default:
		return children, nil
	}
}

// firstMatchableToken is the token currently under the cursor, used as the
// sentinel a following Repeat item stops before.
// It is deliberately just "whatever is next", not a computed FIRST-set,
// matching this engine's no-lookahead-table design.
func firstMatchableToken(ts *stream.TokenStream) (token.Token, bool) {
	return ts.Peek()
}

// evalRepeat matches Inner zero or more times. The loop only ever ends
// cleanly two ways: the cursor reaches endToken's position (so a Repeat
// never eats into a following Sequence sibling's territory), or the stream
// is exhausted. Any failure of Inner once actually attempted is fatal: its
// error is marked Exit and rethrown immediately rather than treated as
// "stop here, return what you have" — a sibling Options alternative must
// not silently paper over a broken repetition with a different guess.
func (p *Parser) evalRepeat(ts *stream.TokenStream, r grammar.Repeat, currentType string, endToken *token.Token) (cst.Value, *diag.ParseError) {
	var items []cst.Value
	for {
		if endToken != nil {
			if cur, ok := ts.Peek(); ok && cur.Pos == endToken.Pos {
				break
			}
		}
		if ts.AtEOF() {
			break
		}
		mark := ts.Position()
		val, err := p.evalRule(ts, r.Inner, currentType, nil)
		if err != nil {
			_ = ts.Seek(mark)
			err.Exit = true
			return nil, err
		}
		if val != nil {
			items = append(items, p.wrapRepeated(val, currentType, mark, ts))
		} else if ts.Position() == mark {
			// Inner matched without consuming input (e.g. an empty
			// Optional) — stop to avoid looping forever.
			break
		}
	}
	if len(items) == 0 {
		return nil, nil
	}
	return cst.Value(items), nil
}

// wrapRepeated normalizes one Repeat iteration's result: a result that is
// already a *cst.Node (the common case — Inner is a Capture) is kept as
// is; a bare scalar is wrapped in a Node tagged with the enclosing rule's
// name so the repeated list is still a list of Nodes a host can walk.
func (p *Parser) wrapRepeated(val cst.Value, currentType string, mark stream.Cursor, ts *stream.TokenStream) cst.Value {
	if node, ok := val.(*cst.Node); ok {
		return node
	}
	if !p.debug {
		return cst.New(currentType, val, 0, 0)
	}
	line, col := 1, 1
	end := ts.Position()
	_ = ts.Seek(mark)
	if tok, ok := ts.Peek(); ok {
		line, col = tok.Pos.Line, tok.Pos.Column
	}
	_ = ts.Seek(end)
	return cst.New(currentType, val, line, col)
}

// evalOptional matches Inner zero or one time, unconditionally swallowing
// any failure — including one Inner marks Exit — and backtracking to where
// it started.
func (p *Parser) evalOptional(ts *stream.TokenStream, r grammar.Optional, currentType string, endToken *token.Token) (cst.Value, *diag.ParseError) {
	mark := ts.Position()
	val, err := p.evalRule(ts, r.Inner, currentType, endToken)
	if err != nil {
		_ = ts.Seek(mark)
		return nil, nil
	}
	return val, nil
}

// evalOptions tries each alternative in order, returning the first match.
// If every alternative fails, it reports whichever got
// furthest into the source, or a generalized message when more than one
// alternative tied for furthest. An alternative whose failure carries Exit
// (raised inside a Repeat that had already committed to an iteration)
// short-circuits immediately instead of being weighed against the others,
// since it means a real match was underway and broke, not that this
// alternative was simply the wrong guess.
func (p *Parser) evalOptions(ts *stream.TokenStream, r grammar.Options, currentType string, endToken *token.Token) (cst.Value, *diag.ParseError) {
	mark := ts.Position()
	var furthest *diag.ParseError
	var tied []*diag.ParseError
	sourceLen := len(ts.Source())

	for _, alt := range r.Alternatives {
		val, err := p.evalRule(ts, alt, currentType, endToken)
		if err == nil {
			return val, nil
		}
		_ = ts.Seek(mark)
		if err.Exit {
			return nil, err
		}
		switch {
		case furthest == nil || err.Offset(sourceLen) > furthest.Offset(sourceLen):
			furthest = err
			tied = []*diag.ParseError{err}
		case err.Offset(sourceLen) == furthest.Offset(sourceLen):
			tied = append(tied, err)
		}
	}

	if len(tied) <= 1 {
		return nil, furthest
	}
	return nil, diag.Generalize(tied, furthest.Token)
}

// evalCapture evaluates Inner and, on success, wraps its result in a
// tagged Node positioned at the first token Inner consumed.
// An Inner that matched but captured nothing still produces an (empty)
// Node, since Capture's whole purpose is to make this point in the grammar
// visible in the tree regardless of what's beneath it.
func (p *Parser) evalCapture(ts *stream.TokenStream, r grammar.Capture, endToken *token.Token) (cst.Value, *diag.ParseError) {
	start, hasStart := ts.Peek()
	val, err := p.evalRule(ts, r.Inner, r.Tag, endToken)
	if err != nil {
		return nil, err
	}
	if !p.debug {
		return cst.New(r.Tag, val, 0, 0), nil
	}
	line, col := 1, 1
	if hasStart {
		line, col = start.Pos.Line, start.Pos.Column
	}
	return cst.New(r.Tag, val, line, col), nil
}
