// Package externals builds the list of language definitions that are not
// bundled with highlight.js and are registered through the generated registrar.
package externals

import (
	"fmt"
	"os"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Entry is one statically authored external language.
type Entry struct {
	Language string
	Module   string
	Shape    string
}

// ReadModule parses a JavaScript or TypeScript module and returns the entries of
// the first array literal whose elements are objects carrying a `language` key.
func ReadModule(p *parser.Parser, path string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOFailure(err, "read externals module", path)
	}
	doc, err := p.ParseFile(path, content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	defer doc.Close()

	list := findDefinitionArray(doc)
	if list == nil {
		return nil, (&errors.DomainError{
			Code:    errors.CodeValidationError,
			Message: "no array of { language, module } objects found",
		}).WithContext(errors.CtxPath, path)
	}

	entries := make([]Entry, 0, list.NamedChildCount())
	for i := uint(0); i < list.NamedChildCount(); i++ {
		element := parser.Unwrap(list.NamedChild(i))
		if element.Kind() == "comment" {
			continue
		}
		if element.Kind() != "object" {
			return nil, invalidElement(path, i, fmt.Sprintf("expected object literal, got %s", element.Kind()))
		}
		entry, err := readEntry(doc, element)
		if err != nil {
			return nil, invalidElement(path, i, err.Error())
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func findDefinitionArray(doc *parser.Document) *sitter.Node {
	var found *sitter.Node
	parser.Walk(doc.Root(), func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Kind() == "array" && isDefinitionArray(doc, n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func isDefinitionArray(doc *parser.Document, array *sitter.Node) bool {
	for i := uint(0); i < array.NamedChildCount(); i++ {
		element := parser.Unwrap(array.NamedChild(i))
		if element.Kind() != "object" {
			continue
		}
		for j := uint(0); j < element.NamedChildCount(); j++ {
			pair := element.NamedChild(j)
			if pair.Kind() != "pair" {
				continue
			}
			if key, ok := parser.PropertyKey(pair, doc.Source); ok && key == "language" {
				return true
			}
		}
	}
	return false
}

func readEntry(doc *parser.Document, object *sitter.Node) (Entry, error) {
	var entry Entry
	for i := uint(0); i < object.NamedChildCount(); i++ {
		pair := object.NamedChild(i)
		if pair.Kind() != "pair" {
			continue
		}
		key, ok := parser.PropertyKey(pair, doc.Source)
		if !ok {
			continue
		}
		var target *string
		switch key {
		case "language":
			target = &entry.Language
		case "module":
			target = &entry.Module
		case "shape":
			target = &entry.Shape
		default:
			continue
		}
		value, ok := parser.StringValue(pair.ChildByFieldName("value"), doc.Source)
		if !ok {
			return Entry{}, fmt.Errorf("%s must be a string literal, got %s", key, doc.Text(pair.ChildByFieldName("value")))
		}
		*target = value
	}
	return entry, nil
}

func invalidElement(path string, index uint, msg string) error {
	return (&errors.DomainError{
		Code:    errors.CodeValidationError,
		Message: fmt.Sprintf("externals element %d: %s", index, msg),
	}).WithContext(errors.CtxPath, path)
}
