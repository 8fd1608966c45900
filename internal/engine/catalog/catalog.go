package catalog

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"hljsgen/internal/core/errors"
)

// DuplicatePolicy decides what Merge does when a scanned and an external
// definition share a language id.
type DuplicatePolicy string

const (
	DuplicateError          DuplicatePolicy = "error"
	DuplicatePreferExternal DuplicatePolicy = "prefer_external"
)

// ParseDuplicatePolicy defaults the empty string to DuplicateError.
func ParseDuplicatePolicy(raw string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DuplicateError:
		return DuplicateError, nil
	case DuplicatePreferExternal:
		return DuplicatePreferExternal, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q; expected error or prefer_external", raw)
	}
}

// Catalog is the merged list sorted by language id. It is never mutated after Merge.
type Catalog struct {
	definitions []Definition
}

// Merge concatenates scanned and external definitions, resolves cross-source
// duplicates according to policy and sorts the result by language id.
// Duplicates inside a single source are always a conflict.
func Merge(scanned, external []Definition, policy DuplicatePolicy) (*Catalog, error) {
	if err := checkSource(scanned, SourceScanned); err != nil {
		return nil, err
	}
	if err := checkSource(external, SourceExternal); err != nil {
		return nil, err
	}

	externalIDs := make(map[string]bool, len(external))
	for _, def := range external {
		externalIDs[def.LanguageID] = true
	}

	merged := make([]Definition, 0, len(scanned)+len(external))
	var conflicts []string
	for _, def := range scanned {
		def.Source = SourceScanned
		if externalIDs[def.LanguageID] {
			if policy == DuplicatePreferExternal {
				slog.Debug("external definition replaces scanned grammar", "language", def.LanguageID)
				continue
			}
			conflicts = append(conflicts, def.LanguageID)
			continue
		}
		merged = append(merged, def)
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, (&errors.DomainError{
			Code:    errors.CodeConflict,
			Message: fmt.Sprintf("%d external language(s) collide with bundled grammars", len(conflicts)),
		}).WithContext(errors.CtxLanguage, strings.Join(conflicts, ","))
	}

	for _, def := range external {
		def.Source = SourceExternal
		merged = append(merged, def)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].LanguageID < merged[j].LanguageID
	})
	return &Catalog{definitions: merged}, nil
}

func checkSource(defs []Definition, source Source) error {
	seen := make(map[string]bool, len(defs))
	var duplicates []string
	for i, def := range defs {
		if strings.TrimSpace(def.LanguageID) == "" {
			return (&errors.DomainError{
				Code:    errors.CodeValidationError,
				Message: fmt.Sprintf("%s definition %d has an empty language id", source, i),
			}).WithContext(errors.CtxOperation, "merge")
		}
		if seen[def.LanguageID] {
			duplicates = append(duplicates, def.LanguageID)
			continue
		}
		seen[def.LanguageID] = true
	}
	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return (&errors.DomainError{
			Code:    errors.CodeConflict,
			Message: fmt.Sprintf("duplicate %s language ids", source),
		}).WithContext(errors.CtxLanguage, strings.Join(duplicates, ","))
	}
	return nil
}

// Definitions returns a copy of the sorted list.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// Externals returns the external definitions in catalog order.
func (c *Catalog) Externals() []Definition {
	out := make([]Definition, 0)
	for _, def := range c.definitions {
		if def.IsExternal() {
			out = append(out, def)
		}
	}
	return out
}

// LanguageIDs returns every language id in catalog order.
func (c *Catalog) LanguageIDs() []string {
	out := make([]string, len(c.definitions))
	for i, def := range c.definitions {
		out[i] = def.LanguageID
	}
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.definitions)
}

// CountBySource returns how many definitions came from each source.
func (c *Catalog) CountBySource() map[Source]int {
	counts := map[Source]int{SourceScanned: 0, SourceExternal: 0}
	for _, def := range c.definitions {
		counts[def.Source]++
	}
	return counts
}
