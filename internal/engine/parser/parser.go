// # internal/engine/parser/parser.go

// Package parser parses JavaScript and TypeScript modules with tree-sitter
// and offers small helpers for reading literal values out of the syntax tree.
package parser

import (
	"fmt"

	"hljsgen/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Parser struct {
	loader *GrammarLoader
}

func NewParser(loader *GrammarLoader) *Parser {
	if loader == nil {
		loader = NewGrammarLoader()
	}
	return &Parser{loader: loader}
}

// Document is a parsed source file. Close releases the tree.
type Document struct {
	Path    string
	Grammar string
	Source  []byte
	tree    *sitter.Tree
}

func (d *Document) Root() *sitter.Node {
	return d.tree.RootNode()
}

func (d *Document) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Utf8Text(d.Source)
}

func (d *Document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

// ParseFile picks the grammar from the file extension.
func (p *Parser) ParseFile(path string, content []byte) (*Document, error) {
	grammar, ok := GrammarForPath(path)
	if !ok {
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("unsupported module extension: %s", path))
	}
	return p.Parse(grammar, path, content)
}

func (p *Parser) Parse(grammar, path string, content []byte) (*Document, error) {
	pool, err := p.loader.Pool(grammar)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "load grammar")
	}

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, (&errors.DomainError{
			Code:    errors.CodeInternal,
			Message: "tree-sitter returned no tree",
		}).WithContext(errors.CtxPath, path)
	}
	return &Document{Path: path, Grammar: grammar, Source: content, tree: tree}, nil
}
