package ports

import (
	"context"
	"time"

	"hljsgen/internal/engine/catalog"
)

// LanguageScanner abstracts discovery of the bundled language modules.
type LanguageScanner interface {
	Scan(ctx context.Context) ([]catalog.Definition, error)
}

// ExternalSource abstracts the list of languages registered from outside highlight.js.
type ExternalSource interface {
	Load(ctx context.Context) ([]catalog.Definition, error)
}

// ArtifactWriter persists one generated file. Implementations must be safe
// for concurrent use on distinct paths.
type ArtifactWriter interface {
	WriteArtifact(path string, content []byte) error
}

// GenerateResult summarizes a completed generation run.
type GenerateResult struct {
	RunID     string
	Scanned   int
	External  int
	Languages int
	Written   []string
	Duration  time.Duration
}

// CheckResult lists generated files whose on-disk content is out of date.
type CheckResult struct {
	RunID   string
	Checked int
	Stale   []string
}

// Fresh reports whether every generated file matched.
func (r CheckResult) Fresh() bool {
	return len(r.Stale) == 0
}

// GenerationService is the driving port used by the CLI.
type GenerationService interface {
	Generate(ctx context.Context) (GenerateResult, error)
	Check(ctx context.Context) (CheckResult, error)
	Watch(ctx context.Context, onResult func(GenerateResult, error)) error
}
