package render

import (
	"strings"
	"testing"

	"hljsgen/internal/engine/catalog"
	"hljsgen/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const banner = "//\n// This file has been auto-generated by the `npm run build-languages-hljs` task\n//\n\n"

func sampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	scanned := []catalog.Definition{
		{LanguageID: "python", ModulePath: "highlight.js/lib/languages/python"},
		{LanguageID: "c", ModulePath: "highlight.js/lib/languages/c"},
	}
	external := []catalog.Definition{
		{LanguageID: "1c", ModulePath: "vendor/1c", Shape: catalog.ShapeFactory},
	}
	c, err := catalog.Merge(scanned, external, catalog.DuplicateError)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	return c
}

func renderOne(t *testing.T, r Renderer, c *catalog.Catalog) string {
	t.Helper()
	artifacts, err := r.Render(c)
	if err != nil {
		t.Fatalf("%s: Render failed: %v", r.Name(), err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("%s: expected 1 artifact, got %d", r.Name(), len(artifacts))
	}
	return string(artifacts[0].Content)
}

func TestPassthroughRenderer(t *testing.T) {
	r := &PassthroughRenderer{Dir: "src/languages/hljs"}
	artifacts, err := r.Render(sampleCatalog(t))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := []Artifact{
		{Name: "passthrough", Path: "src/languages/hljs/1c.js", Content: []byte("import oneC from \"vendor/1c\";\nexport default oneC;\n")},
		{Name: "passthrough", Path: "src/languages/hljs/c.js", Content: []byte("import c from \"highlight.js/lib/languages/c\";\nexport default c;\n")},
		{Name: "passthrough", Path: "src/languages/hljs/python.js", Content: []byte("import python from \"highlight.js/lib/languages/python\";\nexport default python;\n")},
	}
	if len(artifacts) != len(expected) {
		t.Fatalf("expected %d artifacts, got %d", len(expected), len(artifacts))
	}
	for i := range expected {
		if artifacts[i].Path != expected[i].Path || string(artifacts[i].Content) != string(expected[i].Content) {
			t.Fatalf("artifact %d: expected %s %q, got %s %q", i, expected[i].Path, expected[i].Content, artifacts[i].Path, artifacts[i].Content)
		}
	}
}

func TestAsyncLoadersRenderer(t *testing.T) {
	opts := DefaultOptions()
	r := &AsyncLoadersRenderer{Path: opts.AsyncLoaders, LoaderImport: opts.LoaderImport, ChunkPrefix: opts.ChunkPrefix}

	got := renderOne(t, r, sampleCatalog(t))
	expected := "import createLanguageAsyncLoader from \"./create-language-async-loader\"\n" +
		"export default {\n" +
		"  oneC: createLanguageAsyncLoader(\"oneC\", () => import(/* webpackChunkName: \"react-syntax-highlighter_languages_highlight_oneC\" */ \"vendor/1c\")),\n" +
		"  c: createLanguageAsyncLoader(\"c\", () => import(/* webpackChunkName: \"react-syntax-highlighter_languages_highlight_c\" */ \"highlight.js/lib/languages/c\")),\n" +
		"  python: createLanguageAsyncLoader(\"python\", () => import(/* webpackChunkName: \"react-syntax-highlighter_languages_highlight_python\" */ \"highlight.js/lib/languages/python\")),\n" +
		"}"
	if got != expected {
		t.Fatalf("unexpected async loaders:\n%s\n--- expected ---\n%s", got, expected)
	}
}

func TestSupportedLanguagesRenderer(t *testing.T) {
	r := &SupportedLanguagesRenderer{Path: "src/languages/hljs/supported-languages.js", BannerTask: "npm run build-languages-hljs"}

	got := renderOne(t, r, sampleCatalog(t))
	expected := banner + "export default [\n  '1c',\n  'c',\n  'python',\n];\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestRegistrarRenderer(t *testing.T) {
	scanned := []catalog.Definition{{LanguageID: "c", ModulePath: "highlight.js/lib/languages/c"}}
	external := []catalog.Definition{
		{LanguageID: "solidity", ModulePath: "highlightjs-solidity", Shape: catalog.ShapeFactory},
		{LanguageID: "cypher", ModulePath: "highlightjs-cypher", Shape: catalog.ShapeDirect},
	}
	c, err := catalog.Merge(scanned, external, catalog.DuplicateError)
	if err != nil {
		t.Fatal(err)
	}

	r := &RegistrarRenderer{Path: "src/highlight-register-external-languages.js", BannerTask: "npm run build-languages-hljs"}
	got := renderOne(t, r, c)

	expected := banner + "\n" + registrarHelpers + "\nmodule.exports = function(lowlight) {" +
		"\n  registerDirectLanguage(lowlight, { language: 'cypher', module: 'highlightjs-cypher' });" +
		"\n  registerFactoryLanguage(lowlight, { language: 'solidity', module: 'highlightjs-solidity' });" +
		"\n}\n"
	if got != expected {
		t.Fatalf("unexpected registrar:\n%s\n--- expected ---\n%s", got, expected)
	}
	if !strings.Contains(got, "function registerFactoryLanguage(lowlight, definition) {") ||
		!strings.Contains(got, "function registerDirectLanguage(lowlight, definition) {") {
		t.Fatal("expected both registration helpers")
	}
	if strings.Contains(got, "'c'") {
		t.Fatal("bundled languages must not be registered")
	}
}

func TestRegistrarHelpers_ThrowOnShapeMismatch(t *testing.T) {
	doc, err := parser.NewParser(nil).Parse(parser.GrammarJavaScript, "registrar_helpers.js", []byte(registrarHelpers))
	if err != nil {
		t.Fatalf("parse helpers: %v", err)
	}
	defer doc.Close()

	throws := make(map[string]bool)
	parser.Walk(doc.Root(), func(n *sitter.Node) bool {
		if n.Kind() != "function_declaration" {
			return true
		}
		name := doc.Text(n.ChildByFieldName("name"))
		parser.Walk(n, func(inner *sitter.Node) bool {
			if inner.Kind() == "if_statement" {
				consequence := doc.Text(inner.ChildByFieldName("consequence"))
				if strings.Contains(consequence, "throw new Error(") && !strings.Contains(consequence, "return;") {
					throws[name] = true
				}
			}
			return true
		})
		return false
	})

	for _, fn := range []string{"registerFactoryLanguage", "registerDirectLanguage"} {
		if !throws[fn] {
			t.Fatalf("%s must throw when the module does not match its shape", fn)
		}
	}
}

func TestRegistrarRenderer_NoExternals(t *testing.T) {
	c, err := catalog.Merge([]catalog.Definition{{LanguageID: "c", ModulePath: "m"}}, nil, catalog.DuplicateError)
	if err != nil {
		t.Fatal(err)
	}
	got := renderOne(t, &RegistrarRenderer{BannerTask: "task"}, c)
	if !strings.HasSuffix(got, "\nmodule.exports = function(lowlight) {\n}\n") {
		t.Fatalf("unexpected empty registrar tail: %q", got)
	}
}

func TestRegistrarRenderer_RequiresShape(t *testing.T) {
	c, err := catalog.Merge(nil, []catalog.Definition{{LanguageID: "x", ModulePath: "m"}}, catalog.DuplicateError)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (&RegistrarRenderer{BannerTask: "task"}).Render(c); err == nil {
		t.Fatal("expected error for external without shape")
	}
}

func TestDocsRenderer(t *testing.T) {
	got := renderOne(t, &DocsRenderer{Path: "AVAILABLE_LANGUAGES_HLJS.MD"}, sampleCatalog(t))
	expected := "## Available `language` imports \n* oneC (1c)\n* c\n* python"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestIndexRenderer(t *testing.T) {
	got := renderOne(t, &IndexRenderer{Path: "src/languages/hljs/index.js"}, sampleCatalog(t))
	expected := "export { default as oneC } from './1c';\n" +
		"export { default as c } from './c';\n" +
		"export { default as python } from './python';\n"
	if got != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestEmptyCatalog(t *testing.T) {
	c, err := catalog.Merge(nil, nil, catalog.DuplicateError)
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	if got := renderOne(t, &SupportedLanguagesRenderer{BannerTask: opts.BannerTask}, c); got != banner+"export default [\n];\n" {
		t.Fatalf("unexpected empty supported languages: %q", got)
	}
	if got := renderOne(t, &DocsRenderer{}, c); got != "## Available `language` imports " {
		t.Fatalf("unexpected empty docs: %q", got)
	}
	if got := renderOne(t, &IndexRenderer{}, c); got != "" {
		t.Fatalf("unexpected empty index: %q", got)
	}
	if got := renderOne(t, &AsyncLoadersRenderer{LoaderImport: opts.LoaderImport}, c); got != "import createLanguageAsyncLoader from \"./create-language-async-loader\"\nexport default {\n}" {
		t.Fatalf("unexpected empty async loaders: %q", got)
	}
}

func TestAll_FixedOrderAndConsistentLanguageOrder(t *testing.T) {
	renderers := All(DefaultOptions())
	var names []string
	for _, r := range renderers {
		names = append(names, r.Name())
	}
	want := "passthrough,async-loaders,supported-languages,registrar,docs,index"
	if strings.Join(names, ",") != want {
		t.Fatalf("expected %s, got %s", want, strings.Join(names, ","))
	}

	c := sampleCatalog(t)
	order := []string{"1c", "c", "python"}
	for _, r := range renderers {
		if r.Name() == "registrar" || r.Name() == "passthrough" {
			continue
		}
		content := renderOne(t, r, c)
		last := -1
		for _, id := range order {
			var needle string
			switch r.Name() {
			case "async-loaders":
				needle = "  " + catalog.ImportName(id) + ":"
			case "docs":
				needle = "* " + catalog.ImportName(id)
			case "index":
				needle = "'./" + id + "'"
			default:
				needle = "'" + id + "'"
			}
			idx := strings.Index(content, needle)
			if idx < 0 || idx <= last {
				t.Fatalf("%s: %q out of order in %q", r.Name(), id, content)
			}
			last = idx
		}
	}
}

func TestRender_IsDeterministic(t *testing.T) {
	c := sampleCatalog(t)
	for _, r := range All(DefaultOptions()) {
		first, err := r.Render(c)
		if err != nil {
			t.Fatal(err)
		}
		second, err := r.Render(c)
		if err != nil {
			t.Fatal(err)
		}
		for i := range first {
			if string(first[i].Content) != string(second[i].Content) {
				t.Fatalf("%s: output differs between runs", r.Name())
			}
		}
	}
}
