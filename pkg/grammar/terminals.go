package grammar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grammarkit/grammarkit/pkg/token"
)

// StringTerminal consumes a String token and unwraps its surrounding
// quotes, producing the literal text between them. It rejects any other token kind.
func StringTerminal() Rule {
	return Terminal{
		Name: "string",
		Convert: func(t token.Token) (TerminalValue, error) {
			if t.Kind != token.String {
				return nil, fmt.Errorf("expected a string literal, got %s", t)
			}
			return strings.Trim(t.Literal, `"`), nil
		},
	}
}

// NumberTerminal consumes a Number token and parses it as a float64.
// The lexer's Number tokens are digit/dot runs with an optional sign, which
// can still be malformed (e.g. "1.2.3"), so a ParseFloat failure is
// reported as a conversion error.
func NumberTerminal() Rule {
	return Terminal{
		Name: "number",
		Convert: func(t token.Token) (TerminalValue, error) {
			if t.Kind != token.Number {
				return nil, fmt.Errorf("expected a number, got %s", t)
			}
			v, err := strconv.ParseFloat(t.Literal, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed number literal %q: %w", t.Literal, err)
			}
			return v, nil
		},
	}
}

// IdentifierTerminal consumes an Identifier token and returns its literal
// spelling unchanged.
func IdentifierTerminal() Rule {
	return Terminal{
		Name: "identifier",
		Convert: func(t token.Token) (TerminalValue, error) {
			if t.Kind != token.Identifier {
				return nil, fmt.Errorf("expected an identifier, got %s", t)
			}
			return t.Literal, nil
		},
	}
}

// AnyTerminal accepts any single token and returns its literal spelling,
// for grammars that want to capture an arbitrary lexeme (e.g. an operator)
// without constraining its Kind.
func AnyTerminal(name string) Rule {
	return Terminal{
		Name: name,
		Convert: func(t token.Token) (TerminalValue, error) {
			return t.Literal, nil
		},
	}
}
