// Package cst is the generic concrete-syntax-tree model the engine
// produces: every Capture rule in a grammar contributes one Node, tagged
// with the name the grammar gave it, at the position of the first token it
// consumed. There is no fixed node taxonomy — unlike a
// compiler's AST package, cst does not know what a grammar's tags mean.
package cst

// Value is the payload of a Node: typically one of
//
//	*Node      — a single nested capture
//	[]Value    — a sequence of results (a Repeat, or a Sequence with more
//	             than one surviving child) — usually, but not always,
//	             all *Node, since a Sequence can mix a bare Terminal's
//	             scalar in among Capture-produced siblings
//	string     — a scalar terminal value
//	float64    — a scalar terminal value
//	nil        — an empty optional or a rule that captured nothing
type Value any

// Node is one tagged point in the tree.
type Node struct {
	Type   string
	Value  Value
	Line   int
	Column int
}

// New builds a Node at the given source position.
func New(typ string, value Value, line, column int) *Node {
	return &Node{Type: typ, Value: value, Line: line, Column: column}
}

// Children returns n's nested Node values, normalizing the single-node and
// list cases of Value into one slice so callers (cmd/rulekit's
// `parse --dump-cst`, tests) don't need to type-switch themselves. A list value's non-Node
// entries (a bare scalar sitting alongside captured siblings) are skipped,
// since they have no children of their own to walk into; use n.Value
// directly to see them. Scalar and nil values yield an empty slice.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	switch v := n.Value.(type) {
	case *Node:
		if v == nil {
			return nil
		}
		return []*Node{v}
	case []Value:
		out := make([]*Node, 0, len(v))
		for _, item := range v {
			if node, ok := item.(*Node); ok {
				out = append(out, node)
			}
		}
		return out
	default:
		return nil
	}
}

// Scalar reports whether n's Value is a string or float64, and returns it.
func (n *Node) Scalar() (any, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Value.(type) {
	case string, float64:
		return n.Value, true
	default:
		return nil, false
	}
}
