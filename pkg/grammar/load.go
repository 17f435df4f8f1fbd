package grammar

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// yamlRule is the on-disk shape of a single rule: a plain string is
// shorthand for a Keyword, and an object picks exactly one of the
// combinator fields below. Terminal rules cannot be expressed in YAML
// (there is no serializable TerminalFunc); Load binds the `terminal`
// field's name against the terminals a host registers with LoadOptions, so
// a grammar file can still say `terminal: number` and get the Go-side
// converter wired in.
type yamlRule struct {
	Keyword  *string     `yaml:"keyword,omitempty"`
	Terminal *string     `yaml:"terminal,omitempty"`
	Ref      *string     `yaml:"ref,omitempty"`
	Sequence []yamlRule  `yaml:"sequence,omitempty"`
	Options  []yamlRule  `yaml:"options,omitempty"`
	Repeat   *yamlRepeat `yaml:"repeat,omitempty"`
	Optional *yamlRule   `yaml:"optional,omitempty"`
	Capture  *yamlRule   `yaml:"capture,omitempty"`
	Tag      string      `yaml:"tag,omitempty"`
}

type yamlRepeat struct {
	Inner     yamlRule `yaml:"inner"`
	Separator string   `yaml:"separator,omitempty"`
}

// UnmarshalYAML accepts a bare scalar string as shorthand for a Keyword
// rule, in addition to the object form handled by the struct tags above.
func (yr *yamlRule) UnmarshalYAML(b []byte) error {
	var word string
	if err := yaml.Unmarshal(b, &word); err == nil {
		yr.Keyword = &word
		return nil
	}
	type plain yamlRule
	var p plain
	if err := yaml.Unmarshal(b, &p); err != nil {
		return err
	}
	*yr = yamlRule(p)
	return nil
}

// yamlGrammar is the top-level document shape: a map of rule name to rule
// body, plus the conventional entry-rule name.
type yamlGrammar struct {
	Entry string              `yaml:"entry,omitempty"`
	Rules map[string]yamlRule `yaml:"rules"`
}

// LoadOptions configures Load's handling of the parts of a grammar that
// cannot be expressed in data: terminal converters, looked up by the name
// given in a `terminal:` field. Hosts that only use the three built-in
// terminal kinds can pass DefaultTerminals().
type LoadOptions struct {
	Terminals map[string]TerminalFunc
}

// DefaultTerminals returns the built-in string/number/identifier terminal
// converters (terminals.go), keyed by the names a grammar file would use.
func DefaultTerminals() map[string]TerminalFunc {
	str := StringTerminal().(Terminal)
	num := NumberTerminal().(Terminal)
	ident := IdentifierTerminal().(Terminal)
	return map[string]TerminalFunc{
		str.Name:   str.Convert,
		num.Name:   num.Convert,
		ident.Name: ident.Convert,
	}
}

// Load parses a YAML grammar document into a Grammar and its declared
// entry rule name, resolving `terminal:` fields against opts.Terminals.
func Load(data []byte, opts LoadOptions) (Grammar, string, error) {
	var doc yamlGrammar
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, "", fmt.Errorf("grammar: parse YAML: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, "", fmt.Errorf("grammar: document has no rules")
	}
	entry := doc.Entry
	if entry == "" {
		entry = DefaultEntry
	}

	g := make(Grammar, len(doc.Rules))
	for name, yr := range doc.Rules {
		rule, err := convertRule(yr, opts)
		if err != nil {
			return nil, "", fmt.Errorf("grammar: rule %q: %w", name, err)
		}
		g[name] = rule
	}
	return g, entry, nil
}

func convertRule(yr yamlRule, opts LoadOptions) (Rule, error) {
	switch {
	case yr.Keyword != nil:
		return Keyword{Word: *yr.Keyword}, nil
	case yr.Terminal != nil:
		fn, ok := opts.Terminals[*yr.Terminal]
		if !ok {
			return nil, fmt.Errorf("no terminal converter registered for %q", *yr.Terminal)
		}
		return Terminal{Name: *yr.Terminal, Convert: fn}, nil
	case yr.Ref != nil:
		return Ref{Name: *yr.Ref}, nil
	case len(yr.Sequence) > 0:
		items := make([]Rule, 0, len(yr.Sequence))
		for _, child := range yr.Sequence {
			r, err := convertRule(child, opts)
			if err != nil {
				return nil, err
			}
			items = append(items, r)
		}
		return Sequence{Items: items}, nil
	case len(yr.Options) > 0:
		alts := make([]Rule, 0, len(yr.Options))
		for _, child := range yr.Options {
			r, err := convertRule(child, opts)
			if err != nil {
				return nil, err
			}
			alts = append(alts, r)
		}
		return Options{Alternatives: alts}, nil
	case yr.Repeat != nil:
		inner, err := convertRule(yr.Repeat.Inner, opts)
		if err != nil {
			return nil, err
		}
		return Repeat{Inner: inner, Separator: yr.Repeat.Separator}, nil
	case yr.Optional != nil:
		inner, err := convertRule(*yr.Optional, opts)
		if err != nil {
			return nil, err
		}
		return Optional{Inner: inner}, nil
	case yr.Capture != nil:
		inner, err := convertRule(*yr.Capture, opts)
		if err != nil {
			return nil, err
		}
		if yr.Capture.Tag == "" {
			return nil, fmt.Errorf("capture rule missing required `tag`")
		}
		return Capture{Tag: yr.Capture.Tag, Inner: inner}, nil
	default:
		return nil, fmt.Errorf("rule has no recognized field (keyword/terminal/ref/sequence/options/repeat/optional/capture)")
	}
}
