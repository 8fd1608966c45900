package render

import (
	"hljsgen/internal/engine/catalog"
)

// PassthroughRenderer writes one module per language that re-exports the grammar.
type PassthroughRenderer struct {
	Dir string
}

func (r *PassthroughRenderer) Name() string { return "passthrough" }

func (r *PassthroughRenderer) Render(c *catalog.Catalog) ([]Artifact, error) {
	defs := c.Definitions()
	artifacts := make([]Artifact, 0, len(defs))
	for _, def := range defs {
		content, err := execute("passthrough", def)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Name:    r.Name(),
			Path:    joinPath(r.Dir, def.LanguageID+".js"),
			Content: content,
		})
	}
	return artifacts, nil
}

// AsyncLoadersRenderer writes the map of lazily imported grammars.
type AsyncLoadersRenderer struct {
	Path         string
	LoaderImport string
	ChunkPrefix  string
}

func (r *AsyncLoadersRenderer) Name() string { return "async-loaders" }

func (r *AsyncLoadersRenderer) Render(c *catalog.Catalog) ([]Artifact, error) {
	return single(r.Name(), r.Path, view{
		LoaderImport: r.LoaderImport,
		ChunkPrefix:  r.ChunkPrefix,
		Languages:    c.Definitions(),
	})
}

// SupportedLanguagesRenderer writes the exported array of language ids.
type SupportedLanguagesRenderer struct {
	Path       string
	BannerTask string
}

func (r *SupportedLanguagesRenderer) Name() string { return "supported-languages" }

func (r *SupportedLanguagesRenderer) Render(c *catalog.Catalog) ([]Artifact, error) {
	return single(r.Name(), r.Path, view{
		Banner:    Banner(r.BannerTask),
		Languages: c.Definitions(),
	})
}

// RegistrarRenderer writes the function registering external languages on a
// lowlight instance, one call per external in catalog order.
type RegistrarRenderer struct {
	Path       string
	BannerTask string
}

func (r *RegistrarRenderer) Name() string { return "registrar" }

func (r *RegistrarRenderer) Render(c *catalog.Catalog) ([]Artifact, error) {
	return single(r.Name(), r.Path, view{
		Banner:    Banner(r.BannerTask),
		Helpers:   registrarHelpers,
		Languages: c.Externals(),
	})
}

// DocsRenderer writes the markdown list of importable language names.
type DocsRenderer struct {
	Path string
}

func (r *DocsRenderer) Name() string { return "docs" }

func (r *DocsRenderer) Render(c *catalog.Catalog) ([]Artifact, error) {
	return single(r.Name(), r.Path, view{Languages: c.Definitions()})
}

// IndexRenderer writes the module re-exporting every passthrough module by import name.
type IndexRenderer struct {
	Path string
}

func (r *IndexRenderer) Name() string { return "index" }

func (r *IndexRenderer) Render(c *catalog.Catalog) ([]Artifact, error) {
	return single(r.Name(), r.Path, view{Languages: c.Definitions()})
}

func single(name, path string, data view) ([]Artifact, error) {
	content, err := execute(name, data)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Name: name, Path: joinPath(path, ""), Content: content}}, nil
}
