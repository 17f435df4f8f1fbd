package grammar

import "fmt"

// Validate checks that entry names a rule in g and that every Ref reachable
// from it resolves to a rule also present in g. It returns the first
// problem found; callers that want every problem can keep calling Validate
// after fixing one.
func Validate(g Grammar, entry string) error {
	if _, ok := g[entry]; !ok {
		return fmt.Errorf("grammar: entry rule %q is not defined", entry)
	}
	seen := make(map[string]struct{})
	var walk func(name string) error
	walk = func(name string) error {
		if _, ok := seen[name]; ok {
			return nil
		}
		seen[name] = struct{}{}
		rule, ok := g[name]
		if !ok {
			return fmt.Errorf("grammar: rule %q references undefined rule %q", name, name)
		}
		return validateRule(g, rule, walk)
	}
	return walk(entry)
}

func validateRule(g Grammar, r Rule, walk func(string) error) error {
	switch v := r.(type) {
	case Keyword, Terminal:
		return nil
	case Ref:
		if _, ok := g[v.Name]; !ok {
			return fmt.Errorf("grammar: reference to undefined rule %q", v.Name)
		}
		return walk(v.Name)
	case Sequence:
		for _, item := range v.Items {
			if err := validateRule(g, item, walk); err != nil {
				return err
			}
		}
		return nil
	case Options:
		if len(v.Alternatives) == 0 {
			return fmt.Errorf("grammar: options rule has no alternatives")
		}
		for _, alt := range v.Alternatives {
			if err := validateRule(g, alt, walk); err != nil {
				return err
			}
		}
		return nil
	case Repeat:
		return validateRule(g, v.Inner, walk)
	case Optional:
		return validateRule(g, v.Inner, walk)
	case Capture:
		return validateRule(g, v.Inner, walk)
	default:
		return fmt.Errorf("grammar: unknown rule type %T", r)
	}
}
