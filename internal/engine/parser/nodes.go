package parser

import (
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Walk visits node and its named descendants depth-first. Returning false
// from visit skips the node's children.
func Walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		Walk(node.NamedChild(i), visit)
	}
}

// Unwrap strips parentheses and TypeScript-only wrappers such as `as const`.
func Unwrap(node *sitter.Node) *sitter.Node {
	for node != nil {
		switch node.Kind() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			if node.NamedChildCount() == 0 {
				return node
			}
			node = node.NamedChild(0)
		default:
			return node
		}
	}
	return nil
}

// StringValue returns the value of a string literal or a template string
// without substitutions.
func StringValue(node *sitter.Node, source []byte) (string, bool) {
	node = Unwrap(node)
	if node == nil {
		return "", false
	}
	switch node.Kind() {
	case "string", "template_string":
	default:
		return "", false
	}

	var b strings.Builder
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "string_fragment":
			b.WriteString(child.Utf8Text(source))
		case "escape_sequence":
			b.WriteString(unescape(child.Utf8Text(source)))
		case "template_substitution":
			return "", false
		}
	}
	return b.String(), true
}

// PropertyKey returns the name of an object pair's key.
func PropertyKey(pair *sitter.Node, source []byte) (string, bool) {
	if pair == nil {
		return "", false
	}
	key := pair.ChildByFieldName("key")
	if key == nil {
		return "", false
	}
	switch key.Kind() {
	case "property_identifier", "identifier", "number":
		return key.Utf8Text(source), true
	default:
		return StringValue(key, source)
	}
}

// MemberProperty returns the property name of a member expression such as `module.exports`.
func MemberProperty(node *sitter.Node, source []byte) string {
	if node == nil || node.Kind() != "member_expression" {
		return ""
	}
	property := node.ChildByFieldName("property")
	if property == nil {
		return ""
	}
	return property.Utf8Text(source)
}

func unescape(seq string) string {
	if len(seq) == 2 && strings.ContainsRune(`'"\`+"`"+`/`, rune(seq[1])) {
		return seq[1:]
	}
	if value, err := strconv.Unquote(`"` + seq + `"`); err == nil {
		return value
	}
	return strings.TrimPrefix(seq, `\`)
}
