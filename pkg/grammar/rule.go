// Package grammar is the host-facing API for describing a grammar: a
// Grammar is an immutable map from rule name to Rule, and Rule is a closed
// set of combinators modeled as a tagged variant — Keyword, Terminal, Ref,
// Sequence, Options, Repeat, Optional, Capture — rather than a single open
// record dispatched by field presence. Construct rules with the
// constructors and literals below; the engine package (internal/engine) is
// the only consumer that type-switches over Rule.
package grammar

import "github.com/grammarkit/grammarkit/pkg/token"

// Rule is implemented by exactly the eight variants in this file. The
// unexported method keeps the set closed to this package, so each variant
// has a one-to-one counterpart in the engine's dispatch switch.
type Rule interface {
	isRule()
}

// TerminalValue is the scalar a Terminal rule's Convert callback produces:
// a string or a number.
type TerminalValue any

// TerminalFunc converts a consumed Token into a scalar CST value, or
// reports why it could not. Built-in converters for the common cases live
// in terminals.go.
type TerminalFunc func(token.Token) (TerminalValue, error)

// Keyword matches a Token literally (case-insensitively — see
// internal/engine) against Word. Keyword is the only Rule variant that can
// also appear as a bare string shorthand in a loaded grammar document; K
// is the constructor for the equivalent shorthand in Go-authored grammars.
type Keyword struct {
	Word string
}

func (Keyword) isRule() {}

// K builds a Keyword rule from a literal spelling.
func K(word string) Rule { return Keyword{Word: word} }

// Terminal delegates to a TerminalFunc to convert one consumed Token into a
// scalar value. Name is used only for error messages and grammar
// introspection; it is not a CST tag (wrapping in a tagged node is
// Capture's job).
type Terminal struct {
	Name    string
	Convert TerminalFunc
}

func (Terminal) isRule() {}

// Ref names another rule in the same Grammar to recurse into. The
// referenced rule's own name becomes the new currentType for any CST node
// it captures.
type Ref struct {
	Name string
}

func (Ref) isRule() {}

// Sequence requires every item to match in order. A Sequence whose only
// captured child is a single non-discarded value returns that value
// unwrapped rather than a one-element list — see internal/engine's
// evalSequence.
type Sequence struct {
	Items []Rule
}

func (Sequence) isRule() {}

// Options tries each alternative in order and returns the first match
// (leftmost-wins). On total failure it reports the alternative that
// consumed the most input before failing ("furthest error"), or a
// generalized message if more than one alternative tied for furthest.
type Options struct {
	Alternatives []Rule
}

func (Options) isRule() {}

// Repeat matches Inner zero or more times. Separator is accepted and
// stored but — per the Open Question resolved in DESIGN.md — is NOT
// enforced between repetitions by this engine; it is a grammar-authoring
// hint for tooling that wants to render or validate separators itself.
type Repeat struct {
	Inner     Rule
	Separator string
}

func (Repeat) isRule() {}

// Optional matches Inner zero or one time without ever failing the parent
// rule — see internal/engine's evalOptional.
type Optional struct {
	Inner Rule
}

func (Optional) isRule() {}

// Capture wraps the result of evaluating Inner in a CST node tagged Tag.
// Modeling Capture as its own wrapper variant — rather than a boolean flag
// coexisting with the other fields on every rule — means there is no
// "clone-with-capture-cleared" step, since Inner already holds the rest of
// the rule.
type Capture struct {
	Tag   string
	Inner Rule
}

func (Capture) isRule() {}

// Grammar is an immutable mapping from rule name to Rule.
// Hosts build one with a map literal, grammar.Load (YAML/JSON), or by
// mutating a builder and discarding it before the first Parse — the
// engine never mutates a Grammar it is given.
type Grammar map[string]Rule

// DefaultEntry is the conventional entry-rule name.
const DefaultEntry = "SCRIPT"
