// # internal/engine/parser/loader.go
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	GrammarJavaScript = "javascript"
	GrammarTypeScript = "typescript"
	GrammarTSX        = "tsx"
)

var grammarByExtension = map[string]string{
	".js":  GrammarJavaScript,
	".cjs": GrammarJavaScript,
	".mjs": GrammarJavaScript,
	".jsx": GrammarJavaScript,
	".ts":  GrammarTypeScript,
	".mts": GrammarTypeScript,
	".cts": GrammarTypeScript,
	".tsx": GrammarTSX,
}

// GrammarForPath returns the grammar used for a file, by extension.
func GrammarForPath(path string) (string, bool) {
	grammar, ok := grammarByExtension[strings.ToLower(filepath.Ext(path))]
	return grammar, ok
}

// GrammarLoader creates grammars and their parser pools on first use.
type GrammarLoader struct {
	mu    sync.Mutex
	pools map[string]*ParserPool
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{pools: make(map[string]*ParserPool)}
}

// Pool returns the parser pool for grammar.
func (gl *GrammarLoader) Pool(grammar string) (*ParserPool, error) {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	if pool, ok := gl.pools[grammar]; ok {
		return pool, nil
	}

	var lang *sitter.Language
	switch grammar {
	case GrammarJavaScript:
		lang = sitter.NewLanguage(tree_sitter_javascript.Language())
	case GrammarTypeScript:
		lang = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case GrammarTSX:
		lang = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	default:
		return nil, fmt.Errorf("grammar %q is not supported", grammar)
	}

	pool := NewParserPool(lang)
	gl.pools[grammar] = pool
	return pool, nil
}
