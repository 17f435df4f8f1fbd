package cst

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ToJSON renders n and everything beneath it as a JSON document, one
// object per Node (`type`, `line`, `column`, `value`), so a host can
// persist or pipe a parse result without needing this package's Go types.
// The tree is built bottom-up with sjson.SetRaw, embedding each child's
// already-rendered document into its parent rather than marshaling the
// whole tree in one pass.
func ToJSON(n *Node) (string, error) {
	if n == nil {
		return "null", nil
	}
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "type", n.Type); err != nil {
		return "", fmt.Errorf("cst: encode type: %w", err)
	}
	if doc, err = sjson.Set(doc, "line", n.Line); err != nil {
		return "", fmt.Errorf("cst: encode line: %w", err)
	}
	if doc, err = sjson.Set(doc, "column", n.Column); err != nil {
		return "", fmt.Errorf("cst: encode column: %w", err)
	}
	valueJSON, err := valueToJSON(n.Value)
	if err != nil {
		return "", err
	}
	if doc, err = sjson.SetRaw(doc, "value", valueJSON); err != nil {
		return "", fmt.Errorf("cst: encode value: %w", err)
	}
	return doc, nil
}

func valueToJSON(v Value) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string, float64:
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("cst: encode scalar: %w", err)
		}
		return string(b), nil
	case *Node:
		return ToJSON(val)
	case []Value:
		arr := "[]"
		for _, item := range val {
			itemJSON, err := valueToJSON(item)
			if err != nil {
				return "", err
			}
			var err2 error
			arr, err2 = sjson.SetRaw(arr, "-1", itemJSON)
			if err2 != nil {
				return "", fmt.Errorf("cst: append to array: %w", err2)
			}
		}
		return arr, nil
	default:
		return "", fmt.Errorf("cst: unsupported value type %T", v)
	}
}

// Query runs a gjson path expression against a node's JSON rendering and
// returns the raw matched text, powering cmd/rulekit's `query` subcommand.
func Query(n *Node, path string) (string, error) {
	doc, err := ToJSON(n)
	if err != nil {
		return "", err
	}
	result := gjson.Get(doc, path)
	if !result.Exists() {
		return "", fmt.Errorf("cst: path %q matched nothing", path)
	}
	return result.Raw, nil
}
