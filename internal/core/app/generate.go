package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"hljsgen/internal/core/errors"
	"hljsgen/internal/core/ports"
	"hljsgen/internal/engine/catalog"
	"hljsgen/internal/engine/render"
	"hljsgen/internal/shared/observability"
	"hljsgen/internal/shared/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Generate runs discovery, merge and rendering, then writes every artifact.
// Nothing is written when an earlier stage fails. The first write failure
// cancels the remaining writes and is returned.
func (a *App) Generate(ctx context.Context) (ports.GenerateResult, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	started := time.Now()
	runID := uuid.NewString()
	logger := slog.With("run_id", runID)

	ctx, span := observability.Tracer.Start(ctx, "app.Generate", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	result := ports.GenerateResult{RunID: runID}

	cat, counts, err := a.buildCatalog(ctx)
	if err != nil {
		return result, failSpan(span, err)
	}
	result.Scanned = counts[catalog.SourceScanned]
	result.External = counts[catalog.SourceExternal]
	result.Languages = cat.Len()

	artifacts, err := a.renderAll(ctx, cat)
	if err != nil {
		return result, failSpan(span, err)
	}

	if err := a.writeArtifacts(ctx, artifacts); err != nil {
		return result, failSpan(span, err)
	}

	result.Written = make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		result.Written = append(result.Written, artifact.Path)
	}
	result.Duration = time.Since(started)

	logger.Info("generation complete",
		"languages", result.Languages,
		"external", result.External,
		"artifacts", len(result.Written),
		"duration", result.Duration)
	return result, nil
}

func (a *App) buildCatalog(ctx context.Context) (*catalog.Catalog, map[catalog.Source]int, error) {
	var scanned, external []catalog.Definition

	err := stage(ctx, "discover", func(ctx context.Context) error {
		var err error
		scanned, err = a.scanner.Scan(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	err = stage(ctx, "externals", func(ctx context.Context) error {
		var err error
		external, err = a.externals.Load(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var cat *catalog.Catalog
	err = stage(ctx, "merge", func(context.Context) error {
		var err error
		cat, err = catalog.Merge(scanned, external, a.policy)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	counts := cat.CountBySource()
	observability.LanguagesDiscovered.WithLabelValues(string(catalog.SourceScanned)).Set(float64(counts[catalog.SourceScanned]))
	observability.LanguagesDiscovered.WithLabelValues(string(catalog.SourceExternal)).Set(float64(counts[catalog.SourceExternal]))
	return cat, counts, nil
}

// renderAll runs every renderer and rejects artifacts that would land on the
// same path.
func (a *App) renderAll(ctx context.Context, cat *catalog.Catalog) ([]render.Artifact, error) {
	var artifacts []render.Artifact
	err := stage(ctx, "render", func(ctx context.Context) error {
		owners := make(map[string]string)
		for _, r := range a.renderers {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.Render(cat)
			if err != nil {
				return err
			}
			for _, artifact := range out {
				key := strings.ToLower(artifact.Path)
				if owner, ok := owners[key]; ok {
					return (&errors.DomainError{
						Code:    errors.CodeConflict,
						Message: fmt.Sprintf("%s and %s both render %s", owner, artifact.Name, artifact.Path),
					}).WithContext(errors.CtxArtifact, artifact.Path)
				}
				owners[key] = artifact.Name
			}
			artifacts = append(artifacts, out...)
		}
		return nil
	})
	return artifacts, err
}

func (a *App) writeArtifacts(ctx context.Context, artifacts []render.Artifact) error {
	workers := a.Config.Output.Workers
	if workers <= 0 {
		workers = 1
	}

	return stage(ctx, "write", func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, artifact := range artifacts {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				path := a.artifactPath(artifact)
				if err := a.writer.WriteArtifact(path, artifact.Content); err != nil {
					observability.WriteFailuresTotal.Inc()
					return errors.AddContext(err, errors.CtxArtifact, artifact.Name)
				}
				observability.ArtifactsWrittenTotal.WithLabelValues(artifact.Name).Inc()
				return nil
			})
		}
		return g.Wait()
	})
}

func (a *App) artifactPath(artifact render.Artifact) string {
	return filepath.Join(a.Paths.OutputRoot, filepath.FromSlash(artifact.Path))
}

// Check renders the current catalog and compares it with the files on disk
// without writing anything.
func (a *App) Check(ctx context.Context) (ports.CheckResult, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	runID := uuid.NewString()
	ctx, span := observability.Tracer.Start(ctx, "app.Check", trace.WithAttributes(attribute.String("run_id", runID)))
	defer span.End()

	result := ports.CheckResult{RunID: runID}
	cat, _, err := a.buildCatalog(ctx)
	if err != nil {
		return result, failSpan(span, err)
	}
	artifacts, err := a.renderAll(ctx, cat)
	if err != nil {
		return result, failSpan(span, err)
	}

	for _, artifact := range artifacts {
		path := a.artifactPath(artifact)
		same, err := util.FileMatches(path, artifact.Content)
		if err != nil {
			return result, failSpan(span, errors.IOFailure(err, "read generated file", path))
		}
		result.Checked++
		if !same {
			result.Stale = append(result.Stale, artifact.Path)
		}
	}
	sort.Strings(result.Stale)
	observability.StaleArtifacts.Set(float64(len(result.Stale)))

	slog.Debug("check complete", "run_id", runID, "checked", result.Checked, "stale", len(result.Stale))
	return result, nil
}

func stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := observability.Tracer.Start(ctx, "stage."+name)
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	observability.StageDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
	if err != nil {
		return failSpan(span, err)
	}
	return nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
