package engine

import (
	"strings"
	"testing"

	"github.com/grammarkit/grammarkit/internal/stream"
	"github.com/grammarkit/grammarkit/pkg/cst"
	"github.com/grammarkit/grammarkit/pkg/grammar"
	"github.com/grammarkit/grammarkit/pkg/token"
)

// assignGrammar recognizes zero or more statements of the form
// `IDENTIFIER = NUMBER` or `print STRING`, used across most of these
// tests as a small but representative grammar. It uses a single "="
// rather than ":=" because the lexer's fixed operator set is one
// character wide ({+ - * / > < = %}); ':' is not among them.
func assignGrammar() grammar.Grammar {
	return grammar.Grammar{
		"SCRIPT": grammar.Capture{Tag: "script", Inner: grammar.Repeat{Inner: grammar.Ref{Name: "STATEMENT"}}},
		"STATEMENT": grammar.Options{Alternatives: []grammar.Rule{
			grammar.Ref{Name: "ASSIGNMENT"},
			grammar.Ref{Name: "PRINT"},
		}},
		"ASSIGNMENT": grammar.Capture{Tag: "assign", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.IdentifierTerminal(),
			grammar.K("="),
			grammar.NumberTerminal(),
		}}},
		"PRINT": grammar.Capture{Tag: "print", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.K("print"),
			grammar.StringTerminal(),
		}}},
	}
}

func mustParse(t *testing.T, g grammar.Grammar, entry, src string) *cst.Node {
	t.Helper()
	p, err := New(g, entry, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	node, err := p.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return node
}

func TestParseSingleAssignment(t *testing.T) {
	node := mustParse(t, assignGrammar(), "SCRIPT", "x = 42")
	if node.Type != "script" {
		t.Fatalf("root type = %q, want script", node.Type)
	}
	kids := node.Children()
	if len(kids) != 1 {
		t.Fatalf("script children = %d, want 1", len(kids))
	}
	assign := kids[0]
	if assign.Type != "assign" {
		t.Fatalf("child type = %q, want assign", assign.Type)
	}
	values, ok := assign.Value.([]cst.Value)
	if !ok {
		t.Fatalf("assign.Value = %T, want []cst.Value", assign.Value)
	}
	if values[0] != "x" {
		t.Errorf("identifier = %v, want x", values[0])
	}
	if values[1] != float64(42) {
		t.Errorf("number = %v, want 42", values[1])
	}
}

func TestParseMultipleStatements(t *testing.T) {
	node := mustParse(t, assignGrammar(), "SCRIPT", `x = 1
print "hi"
y = 2`)
	kids := node.Children()
	if len(kids) != 3 {
		t.Fatalf("children = %d, want 3", len(kids))
	}
	if kids[1].Type != "print" {
		t.Errorf("second statement type = %q, want print", kids[1].Type)
	}
}

func TestParseEmptyInput(t *testing.T) {
	node := mustParse(t, assignGrammar(), "SCRIPT", "")
	if len(node.Children()) != 0 {
		t.Errorf("expected no statements for empty input, got %v", node.Children())
	}
}

func TestParseTrailingInputFails(t *testing.T) {
	p, err := New(assignGrammar(), "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Parse("x = 1 ]"); err == nil {
		t.Fatal("expected an error for trailing, unparseable input")
	}
}

// TestParseSucceedsWithTrailingTokensAtNonRepeatEntry pins the "no implicit
// end-of-input check" behavior for an entry rule that is not itself a
// Repeat: a sequence entry that matches a prefix of the source succeeds and
// returns only that match, leaving the rest of the source unconsumed rather
// than failing the whole parse. (TestParseTrailingInputFails above exercises
// the opposite-looking but unrelated case of a Repeat entry, which fails on
// leftover input for its own reason — an iteration that starts and then
// can't complete escalates as an Exit error — not because Parse itself
// enforces full consumption.)
func TestParseSucceedsWithTrailingTokensAtNonRepeatEntry(t *testing.T) {
	g := grammar.Grammar{
		"hello": grammar.Capture{Tag: "hello", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.K("hello"),
			grammar.Ref{Name: "noun"},
		}}},
		"noun": grammar.Capture{Tag: "noun", Inner: grammar.IdentifierTerminal()},
	}
	p, err := New(g, "hello", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	node, err := p.Parse("hello someone else")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if node.Type != "hello" {
		t.Fatalf("root type = %q, want hello", node.Type)
	}
	noun, ok := node.Value.(*cst.Node)
	if !ok || noun.Type != "noun" {
		t.Fatalf("Value = %v (%T), want a noun node", node.Value, node.Value)
	}
	if noun.Value != "someone" {
		t.Errorf("noun value = %v, want %q; the result must not claim to have consumed \"else\"", noun.Value, "someone")
	}
}

func TestKeywordMatchIsCaseInsensitive(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Capture{Tag: "stmt", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.K("print"),
			grammar.StringTerminal(),
		}}},
	}
	node := mustParse(t, g, "SCRIPT", `PRINT "hi"`)
	if node.Type != "stmt" {
		t.Fatalf("type = %q", node.Type)
	}
}

func TestOptionalSwallowsFailure(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Capture{Tag: "stmt", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.Optional{Inner: grammar.K("maybe")},
			grammar.IdentifierTerminal(),
		}}},
	}
	node := mustParse(t, g, "SCRIPT", "x")
	// The Optional contributed nothing, leaving the Sequence with exactly
	// one surviving child — which singleton-unwraps to a bare value
	// rather than a one-element list.
	if node.Value != "x" {
		t.Errorf("Value = %v (%T), want the bare string \"x\"", node.Value, node.Value)
	}
}

func TestOptionsFurthestError(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Options{Alternatives: []grammar.Rule{
			grammar.Sequence{Items: []grammar.Rule{grammar.K("foo"), grammar.K("bar"), grammar.K("baz")}},
			grammar.Sequence{Items: []grammar.Rule{grammar.K("foo"), grammar.K("qux")}},
		}},
	}
	p, err := New(g, "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Parse("foo bar nope")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "nope") && !strings.Contains(err.Error(), `"baz"`) {
		t.Errorf("error %q should report the furthest alternative's complaint", err.Error())
	}
}

func TestOptionsGeneralizesOnTie(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Options{Alternatives: []grammar.Rule{
			grammar.K("if"),
			grammar.K("while"),
		}},
	}
	p, err := New(g, "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Parse("nope")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `"if"`) || !strings.Contains(msg, `"while"`) {
		t.Errorf("tied alternatives should generalize into one message naming both: %q", msg)
	}
}

func TestRepeatExitEscalatesPastOptions(t *testing.T) {
	// Repeat matches `item NUMBER` zero or more times. A second iteration
	// that starts but then fails partway (here: a trailing "item" with no
	// following number) must fail the whole parse rather than let a
	// sibling alternative quietly take over.
	g := grammar.Grammar{
		"SCRIPT": grammar.Options{Alternatives: []grammar.Rule{
			grammar.Repeat{Inner: grammar.Sequence{Items: []grammar.Rule{
				grammar.K("item"),
				grammar.NumberTerminal(),
			}}},
			grammar.K("fallback"),
		}},
	}
	p, err := New(g, "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = p.Parse("item 1 item")
	if err == nil {
		t.Fatal("expected an error: a repeat failing partway should not silently fall back")
	}
}

func TestRepeatExitEscalatesOnFirstAttempt(t *testing.T) {
	// Unlike a plain "zero or more" combinator in many parser libraries,
	// once the loop actually attempts Inner and that attempt fails, the
	// failure is fatal even on the very first iteration — there is no
	// partial match to protect yet, but the Repeat has still committed to
	// trying, and that failure must not be swallowed by a sibling
	// alternative either.
	g := grammar.Grammar{
		"SCRIPT": grammar.Options{Alternatives: []grammar.Rule{
			grammar.Repeat{Inner: grammar.Sequence{Items: []grammar.Rule{
				grammar.K("item"),
				grammar.NumberTerminal(),
			}}},
			grammar.K("fallback"),
		}},
	}
	p, err := New(g, "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := p.Parse("item"); err == nil {
		t.Fatal("expected an error: Inner's first attempt failing is still fatal, not a clean empty match")
	}
}

func TestGrammarValidationCatchesDanglingRef(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Ref{Name: "MISSING"},
	}
	if _, err := New(g, "SCRIPT", false); err == nil {
		t.Fatal("expected New to reject a grammar with a dangling Ref")
	}
}

func TestDebugOffDiscardsKeywordAndPosition(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Capture{Tag: "stmt", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.K("print"),
			grammar.StringTerminal(),
		}}},
	}
	p, err := New(g, "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	node, err := p.Parse(`print "hi"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if node.Line != 0 || node.Column != 0 {
		t.Errorf("Line/Column = %d:%d, want 0:0 with debug off", node.Line, node.Column)
	}
	if node.Value != "hi" {
		t.Errorf("Value = %v, want the bare string %q (the keyword should be discarded)", node.Value, "hi")
	}
}

func TestDebugOnEmitsKeywordNodeAndPosition(t *testing.T) {
	g := grammar.Grammar{
		"SCRIPT": grammar.Capture{Tag: "stmt", Inner: grammar.Sequence{Items: []grammar.Rule{
			grammar.K("print"),
			grammar.StringTerminal(),
		}}},
	}
	p, err := New(g, "SCRIPT", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	node, err := p.Parse(`print "hi"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if node.Line != 1 || node.Column != 1 {
		t.Errorf("Line/Column = %d:%d, want 1:1 with debug on", node.Line, node.Column)
	}
	values, ok := node.Value.([]cst.Value)
	if !ok || len(values) != 2 {
		t.Fatalf("Value = %v (%T), want [keyword-node, \"hi\"] with debug on", node.Value, node.Value)
	}
	kw, ok := values[0].(*cst.Node)
	if !ok || kw.Type != "Keyword" || kw.Value != "print" {
		t.Errorf("first child = %v, want a Keyword node holding %q", values[0], "print")
	}
	if kw.Column != 1 {
		t.Errorf("keyword column = %d, want 1", kw.Column)
	}
}

// TestKeywordRejectsPunctuationLiteralAgainstKeywordToken drives
// evalKeyword directly against a hand-built Keyword-kind token, since the
// shipped lexer only ever tags alphanumeric identifier lexemes as Keyword —
// this guard exists for a Keyword rule whose Word is itself punctuation,
// which no token this lexer produces can case-insensitively equal, but the
// check is part of the engine's contract regardless of what lexer feeds it.
func TestKeywordRejectsPunctuationLiteralAgainstKeywordToken(t *testing.T) {
	p, err := New(grammar.Grammar{"SCRIPT": grammar.K("!=")}, "SCRIPT", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := stream.New("!=", []token.Token{{Kind: token.Keyword, Literal: "!="}})
	if _, perr := p.evalKeyword(ts, grammar.Keyword{Word: "!="}); perr == nil {
		t.Fatal("expected an error: a non-alphanumeric Word cannot satisfy a Keyword-kind token")
	}
}
