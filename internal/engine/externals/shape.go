package externals

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/catalog"
	"hljsgen/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const definerExport = "definer"

var sourceExtensions = []string{".js", ".cjs", ".mjs", ".ts"}

// ShapeDetector inspects an external module's source under node_modules to
// decide whether it exports a definer factory.
type ShapeDetector struct {
	NodeModules string
	Parser      *parser.Parser
}

// Detect returns the module's shape. found is false when no source file could
// be located; the shape is then ShapeDirect.
func (d *ShapeDetector) Detect(module string) (shape catalog.Shape, found bool, err error) {
	path := d.Locate(module)
	if path == "" {
		return catalog.ShapeUnset, false, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return catalog.ShapeUnset, true, errors.IOFailure(err, "read external module", path)
	}
	doc, err := d.Parser.ParseFile(path, content)
	if err != nil {
		return catalog.ShapeUnset, true, errors.AddContext(err, errors.CtxPath, path)
	}
	defer doc.Close()

	if ExportsDefiner(doc) {
		return catalog.ShapeFactory, true, nil
	}
	return catalog.ShapeDirect, true, nil
}

// Locate resolves a module specifier to a source file, following the subset of
// node resolution the generator needs: <module>.js, package.json main, index.js.
func (d *ShapeDetector) Locate(module string) string {
	if strings.TrimSpace(module) == "" || d.NodeModules == "" {
		return ""
	}
	base := filepath.Join(d.NodeModules, filepath.FromSlash(module))

	if isFile(base) {
		if _, ok := parser.GrammarForPath(base); ok {
			return base
		}
	}
	for _, ext := range sourceExtensions {
		if isFile(base + ext) {
			return base + ext
		}
	}
	if !isDir(base) {
		return ""
	}
	if main := packageMain(base); main != "" {
		candidate := filepath.Join(base, filepath.FromSlash(main))
		if isFile(candidate) {
			return candidate
		}
		for _, ext := range sourceExtensions {
			if isFile(candidate + ext) {
				return candidate + ext
			}
		}
		if isFile(filepath.Join(candidate, "index.js")) {
			return filepath.Join(candidate, "index.js")
		}
	}
	if isFile(filepath.Join(base, "index.js")) {
		return filepath.Join(base, "index.js")
	}
	return ""
}

// ExportsDefiner reports whether the module exports a `definer` binding in any
// CommonJS or ES module form.
func ExportsDefiner(doc *parser.Document) bool {
	found := false
	parser.Walk(doc.Root(), func(n *sitter.Node) bool {
		if found {
			return false
		}
		switch n.Kind() {
		case "assignment_expression":
			found = assignsDefiner(doc, n)
		case "export_statement":
			found = exportStatementHasDefiner(doc, n)
		}
		return !found
	})
	return found
}

func assignsDefiner(doc *parser.Document, assign *sitter.Node) bool {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "member_expression" {
		return false
	}
	// exports.definer = ... / module.exports.definer = ...
	if parser.MemberProperty(left, doc.Source) == definerExport {
		return true
	}
	// module.exports = { definer }
	if doc.Text(left) != "module.exports" {
		return false
	}
	right := parser.Unwrap(assign.ChildByFieldName("right"))
	return right != nil && right.Kind() == "object" && objectHasDefiner(doc, right)
}

func objectHasDefiner(doc *parser.Document, object *sitter.Node) bool {
	for i := uint(0); i < object.NamedChildCount(); i++ {
		member := object.NamedChild(i)
		switch member.Kind() {
		case "pair":
			if key, ok := parser.PropertyKey(member, doc.Source); ok && key == definerExport {
				return true
			}
		case "shorthand_property_identifier":
			if doc.Text(member) == definerExport {
				return true
			}
		case "method_definition":
			if doc.Text(member.ChildByFieldName("name")) == definerExport {
				return true
			}
		}
	}
	return false
}

func exportStatementHasDefiner(doc *parser.Document, export *sitter.Node) bool {
	if decl := export.ChildByFieldName("declaration"); decl != nil {
		switch decl.Kind() {
		case "function_declaration", "generator_function_declaration", "class_declaration":
			return doc.Text(decl.ChildByFieldName("name")) == definerExport
		case "lexical_declaration", "variable_declaration":
			for i := uint(0); i < decl.NamedChildCount(); i++ {
				declarator := decl.NamedChild(i)
				if declarator.Kind() == "variable_declarator" && doc.Text(declarator.ChildByFieldName("name")) == definerExport {
					return true
				}
			}
		}
		return false
	}
	for i := uint(0); i < export.NamedChildCount(); i++ {
		clause := export.NamedChild(i)
		if clause.Kind() != "export_clause" {
			continue
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			spec := clause.NamedChild(j)
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("alias")
			if name == nil {
				name = spec.ChildByFieldName("name")
			}
			exported := doc.Text(name)
			if value, ok := parser.StringValue(name, doc.Source); ok {
				exported = value
			}
			if exported == definerExport {
				return true
			}
		}
	}
	return false
}

// packageMain reads the "main" field of dir/package.json.
func packageMain(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		Main string `json:"main"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSpace(pkg.Main), "./")
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
