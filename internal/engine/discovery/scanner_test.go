package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/catalog"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("module.exports = function () {};\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "python.js", "c.js", "1c.js", "vbscript-html.js", "README.md", "es/python.js")
	if err := os.Mkdir(filepath.Join(dir, "folder.js"), 0o755); err != nil {
		t.Fatal(err)
	}

	s := Scanner{Dir: dir, ModulePrefix: "highlight.js/lib/languages"}
	defs, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []catalog.Definition{
		{LanguageID: "1c", ModulePath: "highlight.js/lib/languages/1c", Source: catalog.SourceScanned},
		{LanguageID: "c", ModulePath: "highlight.js/lib/languages/c", Source: catalog.SourceScanned},
		{LanguageID: "python", ModulePath: "highlight.js/lib/languages/python", Source: catalog.SourceScanned},
		{LanguageID: "vbscript-html", ModulePath: "highlight.js/lib/languages/vbscript-html", Source: catalog.SourceScanned},
	}
	if len(defs) != len(expected) {
		t.Fatalf("expected %d definitions, got %d: %+v", len(expected), len(defs), defs)
	}
	for i := range expected {
		if defs[i] != expected[i] {
			t.Fatalf("definition %d: expected %+v, got %+v", i, expected[i], defs[i])
		}
	}
}

func TestScan_ExcludeAndInclude(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "python.js", "python.js.js", "c.js", "c.min.js", "go.mjs")

	s := Scanner{
		Dir:          dir,
		ModulePrefix: "hljs/",
		Include:      "*.{js,mjs}",
		Exclude:      []string{"*.min.js", "c*"},
	}
	defs, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	var ids []string
	for _, def := range defs {
		ids = append(ids, def.LanguageID+"="+def.ModulePath)
	}
	want := []string{"go=hljs/go", "python=hljs/python", "python.js=hljs/python.js"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestScan_MissingDirectory(t *testing.T) {
	s := Scanner{Dir: filepath.Join(t.TempDir(), "missing"), ModulePrefix: "x"}
	_, err := s.Scan(context.Background())
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !errors.IsCode(err, errors.CodeIO) {
		t.Fatalf("expected IO_FAILURE, got %v", err)
	}
}

func TestScan_DirIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "python.js")
	s := Scanner{Dir: filepath.Join(dir, "python.js"), ModulePrefix: "x"}
	if _, err := s.Scan(context.Background()); !errors.IsCode(err, errors.CodeIO) {
		t.Fatalf("expected IO_FAILURE, got %v", err)
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	defs, err := Scanner{Dir: t.TempDir(), ModulePrefix: "x"}.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(defs) != 0 {
		t.Fatalf("expected no definitions, got %+v", defs)
	}
}

func TestScan_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "python.js")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Scanner{Dir: dir, ModulePrefix: "x"}).Scan(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLanguageID(t *testing.T) {
	cases := map[string]string{
		"python.js":     "python",
		"python.js.js":  "python.js",
		"1c.js":         "1c",
		"Makefile":      "Makefile",
		"vbscript-html": "vbscript-html",
	}
	for input, expected := range cases {
		if got := LanguageID(input); got != expected {
			t.Fatalf("LanguageID(%q): expected %q, got %q", input, expected, got)
		}
	}
}
