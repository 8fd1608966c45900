// Package render turns a catalog into the generated source files.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"path"
	"strings"
	"text/template"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/catalog"
)

// Artifact is one generated file. Path is relative to the output root and
// always uses forward slashes.
type Artifact struct {
	Name    string
	Path    string
	Content []byte
}

// Renderer produces artifacts from a catalog without modifying it.
type Renderer interface {
	Name() string
	Render(c *catalog.Catalog) ([]Artifact, error)
}

// Options carries output locations and the strings baked into templates.
type Options struct {
	PassthroughDir     string
	AsyncLoaders       string
	SupportedLanguages string
	Registrar          string
	Index              string
	Docs               string

	BannerTask   string
	LoaderImport string
	ChunkPrefix  string
}

// DefaultOptions matches the react-syntax-highlighter source tree.
func DefaultOptions() Options {
	return Options{
		PassthroughDir:     "src/languages/hljs",
		AsyncLoaders:       "src/async-languages/hljs.js",
		SupportedLanguages: "src/languages/hljs/supported-languages.js",
		Registrar:          "src/highlight-register-external-languages.js",
		Index:              "src/languages/hljs/index.js",
		Docs:               "AVAILABLE_LANGUAGES_HLJS.MD",
		BannerTask:         "npm run build-languages-hljs",
		LoaderImport:       "./create-language-async-loader",
		ChunkPrefix:        "react-syntax-highlighter_languages_highlight_",
	}
}

// All returns every renderer in a fixed order.
func All(opts Options) []Renderer {
	return []Renderer{
		&PassthroughRenderer{Dir: opts.PassthroughDir},
		&AsyncLoadersRenderer{Path: opts.AsyncLoaders, LoaderImport: opts.LoaderImport, ChunkPrefix: opts.ChunkPrefix},
		&SupportedLanguagesRenderer{Path: opts.SupportedLanguages, BannerTask: opts.BannerTask},
		&RegistrarRenderer{Path: opts.Registrar, BannerTask: opts.BannerTask},
		&DocsRenderer{Path: opts.Docs},
		&IndexRenderer{Path: opts.Index},
	}
}

// Banner is the comment header placed on generated JavaScript files.
func Banner(task string) string {
	return "//\n// This file has been auto-generated by the `" + task + "` task\n//\n\n"
}

//go:embed registrar_helpers.js
var registrarHelpers string

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"shapeName": shapeName,
}).Parse(templateSource))

const templateSource = `
{{- define "passthrough" -}}
import {{.ImportName}} from "{{.ModulePath}}";
export default {{.ImportName}};
{{end -}}

{{- define "async-loaders" -}}
import createLanguageAsyncLoader from "{{.LoaderImport}}"
export default {
{{range .Languages}}  {{.ImportName}}: createLanguageAsyncLoader("{{.ImportName}}", () => import(/* webpackChunkName: "{{$.ChunkPrefix}}{{.ImportName}}" */ "{{.ModulePath}}")),
{{end}}}
{{- end -}}

{{- define "supported-languages" -}}
{{.Banner}}export default [{{range .Languages}}
  '{{.LanguageID}}',{{end}}
];
{{end -}}

{{- define "registrar" -}}
{{.Banner}}
{{.Helpers}}
module.exports = function(lowlight) {{"{"}}{{range .Languages}}
  register{{shapeName .Shape}}Language(lowlight, { language: '{{.LanguageID}}', module: '{{.ModulePath}}' });{{end}}
}
{{end -}}

{{- define "docs" -}}
## Available ` + "`language`" + ` imports {{range .Languages}}
* {{.DisplayName}}{{end}}
{{- end -}}

{{- define "index" -}}
{{range .Languages}}export { default as {{.ImportName}} } from './{{.LanguageID}}';
{{end}}
{{- end -}}
`

type view struct {
	Banner       string
	Helpers      string
	LoaderImport string
	ChunkPrefix  string
	Languages    []catalog.Definition
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, (&errors.DomainError{
			Code:    errors.CodeInternal,
			Message: "render template",
			Err:     err,
		}).WithContext(errors.CtxArtifact, name)
	}
	return buf.Bytes(), nil
}

func shapeName(shape catalog.Shape) (string, error) {
	switch shape {
	case catalog.ShapeFactory:
		return "Factory", nil
	case catalog.ShapeDirect:
		return "Direct", nil
	default:
		return "", fmt.Errorf("external language has no registration shape")
	}
}

func joinPath(dir, name string) string {
	return path.Join(strings.ReplaceAll(dir, "\\", "/"), name)
}
