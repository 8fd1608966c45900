// Package catalog holds the merged, ordered list of language definitions
// every generated artifact is rendered from.
package catalog

import (
	"fmt"
	"strings"
)

// Source records where a definition came from.
type Source string

const (
	SourceScanned  Source = "scanned"
	SourceExternal Source = "external"
)

// Shape tags how an external language module exposes its grammar.
type Shape string

const (
	// ShapeUnset means no explicit shape was configured or detected yet.
	ShapeUnset Shape = ""
	// ShapeFactory modules export a definer() returning the grammar.
	ShapeFactory Shape = "factory"
	// ShapeDirect modules are themselves a function of the highlighter handle.
	ShapeDirect Shape = "direct"
)

// ParseShape accepts "", "factory" or "direct" (case-insensitive).
func ParseShape(raw string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(raw))) {
	case ShapeUnset:
		return ShapeUnset, nil
	case ShapeFactory:
		return ShapeFactory, nil
	case ShapeDirect:
		return ShapeDirect, nil
	default:
		return ShapeUnset, fmt.Errorf("unknown shape %q; expected factory or direct", raw)
	}
}

// Definition is one language grammar known to the generator.
type Definition struct {
	LanguageID string
	ModulePath string
	Source     Source
	Shape      Shape
}

// ImportName is derived on every call and never stored.
func (d Definition) ImportName() string {
	return ImportName(d.LanguageID)
}

// DisplayName renders "importName" or "importName (languageId)" when the two differ.
func (d Definition) DisplayName() string {
	name := d.ImportName()
	if name == d.LanguageID {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, d.LanguageID)
}

// IsExternal reports whether the definition came from the external list.
func (d Definition) IsExternal() bool {
	return d.Source == SourceExternal
}
