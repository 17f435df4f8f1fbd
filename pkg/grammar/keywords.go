package grammar

import "github.com/grammarkit/grammarkit/internal/lexer"

// ExtractKeywords walks every rule reachable from g and collects the
// literal spelling of every Keyword rule into a lexer.KeywordSet. The result is keyed by exact spelling —
// see lexer.KeywordSet's doc comment for why extraction stays
// case-sensitive even though matching later folds case.
func ExtractKeywords(g Grammar) lexer.KeywordSet {
	words := make(map[string]struct{})
	for _, rule := range g {
		collectKeywords(rule, words)
	}
	list := make([]string, 0, len(words))
	for w := range words {
		list = append(list, w)
	}
	return lexer.NewKeywordSet(list...)
}

func collectKeywords(r Rule, into map[string]struct{}) {
	switch v := r.(type) {
	case Keyword:
		into[v.Word] = struct{}{}
	case Terminal, Ref:
		// no keyword spelling to extract
	case Sequence:
		for _, item := range v.Items {
			collectKeywords(item, into)
		}
	case Options:
		for _, alt := range v.Alternatives {
			collectKeywords(alt, into)
		}
	case Repeat:
		collectKeywords(v.Inner, into)
	case Optional:
		collectKeywords(v.Inner, into)
	case Capture:
		collectKeywords(v.Inner, into)
	}
}
