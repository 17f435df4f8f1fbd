// Package rulekit is the embedding surface for hosts that want to parse a
// string against a grammar without touching internal/engine or any of the
// other internal packages directly.
package rulekit

import (
	"github.com/grammarkit/grammarkit/internal/diag"
	"github.com/grammarkit/grammarkit/internal/engine"
	"github.com/grammarkit/grammarkit/internal/stream"
	"github.com/grammarkit/grammarkit/pkg/cst"
	"github.com/grammarkit/grammarkit/pkg/grammar"
)

// Parser parses source text against one fixed Grammar. Build one with New
// and reuse it across many Parse calls.
type Parser struct {
	engine *engine.Parser
	g      grammar.Grammar
}

// New validates g and returns a Parser for it. entry names the rule to
// start from; an empty string uses grammar.DefaultEntry ("SCRIPT"). With
// debug off, matched keywords are discarded and CST nodes carry no source
// position; with debug on, keywords surface as their own node and every
// node's Line/Column point at the first token it consumed.
func New(g grammar.Grammar, entry string, debug bool) (*Parser, error) {
	e, err := engine.New(g, entry, debug)
	if err != nil {
		return nil, err
	}
	return &Parser{engine: e, g: g}, nil
}

// Parse runs source through the lexer and the grammar's entry rule,
// returning the root of the resulting concrete syntax tree.
func (p *Parser) Parse(source string) (*cst.Node, error) {
	return p.engine.Parse(source)
}

// Diagnose formats err as a source-annotated diagnostic the way
// cmd/rulekit prints it, for hosts that want the same "gutter + caret"
// presentation without shelling out to the CLI. It returns err.Error()
// unchanged if err did not originate from this package's parser.
func Diagnose(err error, source string) string {
	perr, ok := err.(*diag.ParseError)
	if !ok {
		return err.Error()
	}
	return diag.Format(perr, stream.New(source, nil))
}
