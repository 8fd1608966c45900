package externals

import (
	"context"
	"fmt"
	"log/slog"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/catalog"
	"hljsgen/internal/engine/parser"
)

// Loader assembles the external definitions passed to catalog.Merge. Module
// file entries come first, followed by the configured entries.
type Loader struct {
	ModuleFile string
	Configured []Entry
	Parser     *parser.Parser
	Detector   *ShapeDetector
}

// Load returns a fresh slice on every call; callers own it.
func (l *Loader) Load(ctx context.Context) ([]catalog.Definition, error) {
	var entries []Entry
	if l.ModuleFile != "" {
		fromModule, err := ReadModule(l.Parser, l.ModuleFile)
		if err != nil {
			return nil, err
		}
		slog.Debug("read externals module", "path", l.ModuleFile, "entries", len(fromModule))
		entries = append(entries, fromModule...)
	}
	entries = append(entries, l.Configured...)

	defs := make([]catalog.Definition, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def, err := l.resolve(i, entry)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (l *Loader) resolve(index int, entry Entry) (catalog.Definition, error) {
	if entry.Language == "" {
		return catalog.Definition{}, errors.New(errors.CodeValidationError, fmt.Sprintf("external language %d has an empty language id", index))
	}
	if entry.Module == "" {
		return catalog.Definition{}, (&errors.DomainError{
			Code:    errors.CodeValidationError,
			Message: "external language has an empty module path",
		}).WithContext(errors.CtxLanguage, entry.Language)
	}

	shape, err := catalog.ParseShape(entry.Shape)
	if err != nil {
		return catalog.Definition{}, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "invalid external shape"), errors.CtxLanguage, entry.Language)
	}
	if shape == catalog.ShapeUnset {
		if shape, err = l.detect(entry); err != nil {
			return catalog.Definition{}, err
		}
	}

	return catalog.Definition{
		LanguageID: entry.Language,
		ModulePath: entry.Module,
		Source:     catalog.SourceExternal,
		Shape:      shape,
	}, nil
}

// detect reads the module source to pick its shape. An entry whose shape
// cannot be determined is rejected, since the registrar throws on a mismatch.
func (l *Loader) detect(entry Entry) (catalog.Shape, error) {
	unresolved := func(reason string, cause error) error {
		return (&errors.DomainError{
			Code:    errors.CodeValidationError,
			Message: fmt.Sprintf("cannot determine shape of external module %s (%s); set shape to \"factory\" or \"direct\"", entry.Module, reason),
			Err:     cause,
		}).WithContext(errors.CtxLanguage, entry.Language)
	}

	if l.Detector == nil {
		return catalog.ShapeUnset, unresolved("no detector configured", nil)
	}
	shape, found, err := l.Detector.Detect(entry.Module)
	switch {
	case err != nil:
		return catalog.ShapeUnset, unresolved("source could not be inspected", err)
	case !found:
		return catalog.ShapeUnset, unresolved("source not found", nil)
	}
	slog.Debug("detected external module shape", "language", entry.Language, "shape", shape)
	return shape, nil
}
