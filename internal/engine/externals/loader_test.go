package externals

import (
	"context"
	"path/filepath"
	"testing"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/catalog"
	"hljsgen/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_ModuleEntriesPrecedeConfigured(t *testing.T) {
	nodeModules := t.TempDir()
	writeTree(t, nodeModules, map[string]string{
		"highlightjs-solidity/index.js": "module.exports = function (hljs) {};\nmodule.exports.definer = function () {};\n",
		"highlightjs-cypher/index.js":   "module.exports = function (hljs) { return {}; };\n",
	})
	moduleFile := writeModule(t, "external-languages.js", `module.exports = [
  { language: 'solidity', module: 'highlightjs-solidity' },
  { language: 'cypher', module: 'highlightjs-cypher' },
];
`)

	p := parser.NewParser(nil)
	l := &Loader{
		ModuleFile: moduleFile,
		Configured: []Entry{{Language: "1c", Module: "vendor/1c", Shape: "factory"}},
		Parser:     p,
		Detector:   &ShapeDetector{NodeModules: nodeModules, Parser: p},
	}

	defs, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []catalog.Definition{
		{LanguageID: "solidity", ModulePath: "highlightjs-solidity", Source: catalog.SourceExternal, Shape: catalog.ShapeFactory},
		{LanguageID: "cypher", ModulePath: "highlightjs-cypher", Source: catalog.SourceExternal, Shape: catalog.ShapeDirect},
		{LanguageID: "1c", ModulePath: "vendor/1c", Source: catalog.SourceExternal, Shape: catalog.ShapeFactory},
	}, defs)
}

func TestLoader_ExplicitShapeWins(t *testing.T) {
	nodeModules := t.TempDir()
	writeTree(t, nodeModules, map[string]string{
		"factory-module.js": "exports.definer = () => ({});\n",
	})
	p := parser.NewParser(nil)
	l := &Loader{
		Configured: []Entry{{Language: "x", Module: "factory-module", Shape: "direct"}},
		Parser:     p,
		Detector:   &ShapeDetector{NodeModules: nodeModules, Parser: p},
	}

	defs, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, catalog.ShapeDirect, defs[0].Shape)
}

func TestLoader_UnresolvedShapeIsRejected(t *testing.T) {
	nodeModules := t.TempDir()

	tests := []struct {
		name   string
		loader *Loader
	}{
		{
			name: "source not installed",
			loader: &Loader{
				Configured: []Entry{{Language: "x", Module: "not-installed"}},
				Detector:   &ShapeDetector{NodeModules: nodeModules, Parser: parser.NewParser(nil)},
			},
		},
		{
			name:   "no detector",
			loader: &Loader{Configured: []Entry{{Language: "x", Module: "not-installed"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)
			assert.Contains(t, err.Error(), "language=x")
			assert.Contains(t, err.Error(), "not-installed")
		})
	}
}

func TestLoader_ExplicitShapeSkipsDetection(t *testing.T) {
	l := &Loader{
		Configured: []Entry{
			{Language: "x", Module: "not-installed", Shape: "factory"},
			{Language: "y", Module: "also-missing", Shape: "direct"},
		},
	}
	defs, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, catalog.ShapeFactory, defs[0].Shape)
	assert.Equal(t, catalog.ShapeDirect, defs[1].Shape)
}

func TestLoader_Validation(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{name: "empty language", entry: Entry{Module: "m"}},
		{name: "empty module", entry: Entry{Language: "x"}},
		{name: "bad shape", entry: Entry{Language: "x", Module: "m", Shape: "callable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Loader{Configured: []Entry{tt.entry}}).Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)
		})
	}
}

func TestLoader_MissingModuleFile(t *testing.T) {
	l := &Loader{
		ModuleFile: filepath.Join(t.TempDir(), "external-languages.js"),
		Parser:     parser.NewParser(nil),
	}
	_, err := l.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIO))
}

func TestLoader_NoSources(t *testing.T) {
	defs, err := (&Loader{}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, defs)
}
