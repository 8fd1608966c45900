// Package discovery lists the grammar modules shipped in the highlight.js
// languages directory.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/engine/catalog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

const DefaultInclude = "*.js"

// Scanner enumerates the files directly inside Dir.
type Scanner struct {
	Dir          string
	ModulePrefix string
	Include      string
	Exclude      []string
}

// Scan returns one scanned definition per matching file, in file name order.
// A missing or unreadable Dir is an IO_FAILURE.
func (s Scanner) Scan(ctx context.Context) ([]catalog.Definition, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return nil, errors.IOFailure(err, "scan languages directory", s.Dir)
	}
	if !info.IsDir() {
		return nil, errors.IOFailure(fmt.Errorf("not a directory"), "scan languages directory", s.Dir)
	}

	include := strings.TrimSpace(s.Include)
	if include == "" {
		include = DefaultInclude
	}
	excludes, err := compileExcludes(s.Exclude)
	if err != nil {
		return nil, err
	}

	names, err := doublestar.Glob(os.DirFS(s.Dir), include, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, errors.IOFailure(err, "scan languages directory", s.Dir)
	}
	sort.Strings(names)

	defs := make([]catalog.Definition, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if excluded(excludes, name) {
			continue
		}
		id := LanguageID(name)
		if id == "" {
			continue
		}
		defs = append(defs, catalog.Definition{
			LanguageID: id,
			ModulePath: ModulePath(s.ModulePrefix, id),
			Source:     catalog.SourceScanned,
		})
	}
	return defs, nil
}

// LanguageID strips the final extension: "python.js" -> "python".
func LanguageID(fileName string) string {
	base := path.Base(fileName)
	return strings.TrimSuffix(base, path.Ext(base))
}

// ModulePath joins the prefix and id with a single slash.
func ModulePath(prefix, languageID string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return languageID
	}
	return prefix + "/" + languageID
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude pattern %q", p))
		}
		out = append(out, g)
	}
	return out, nil
}

func excluded(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
