package app

import (
	"context"
	"log/slog"
	"slices"

	"hljsgen/internal/core/config"
	"hljsgen/internal/core/ports"
	"hljsgen/internal/core/watcher"
	"hljsgen/internal/shared/observability"
	"hljsgen/internal/shared/util"
)

// Watch regenerates whenever the languages directory or the externals module
// changes, until ctx is cancelled. Regenerations are rate limited by
// watch.max_regenerations_per_second. A config applied through UpdateConfig
// moves the watch to the new locations. onResult may be nil.
func (a *App) Watch(ctx context.Context, onResult func(ports.GenerateResult, error)) error {
	cfg, paths := a.snapshot()

	limiter := util.NewLimiter(cfg.Watch.MaxRegenerationsPerSecond)
	regenerate := func(changed []string) {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		slog.Info("change detected, regenerating", "paths", changed)
		res, err := a.Generate(ctx)
		if err != nil {
			observability.RegenerationsTotal.WithLabelValues("failure").Inc()
			slog.Error("regeneration failed", "error", err)
		} else {
			observability.RegenerationsTotal.WithLabelValues("success").Inc()
		}
		if onResult != nil {
			onResult(res, err)
		}
	}

	current, err := startWatch(cfg, paths, regenerate)
	if err != nil {
		return err
	}
	defer func() { current.close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.reloaded:
			cfg, paths = a.snapshot()
			limiter.SetRate(cfg.Watch.MaxRegenerationsPerSecond)
			if current.matches(cfg, paths) {
				current.w.SetDebounce(cfg.Watch.Debounce)
				slog.Debug("watch settings updated", "debounce", cfg.Watch.Debounce)
				continue
			}
			next, err := startWatch(cfg, paths, regenerate)
			if err != nil {
				slog.Error("failed to watch reloaded locations, keeping previous watch", "error", err)
				continue
			}
			current.close()
			current = next
		}
	}
}

// watchTarget is one running watcher and the settings it was built from.
type watchTarget struct {
	w             *watcher.Watcher
	languagesDir  string
	externalsFile string
	exclude       []string
}

func startWatch(cfg *config.Config, paths config.ResolvedPaths, onChange func([]string)) (*watchTarget, error) {
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Discovery.Exclude, onChange)
	if err != nil {
		return nil, err
	}

	var files []string
	if paths.ExternalsFile != "" {
		files = append(files, paths.ExternalsFile)
	}
	if err := w.Watch([]string{paths.LanguagesDir}, files); err != nil {
		w.Close()
		return nil, err
	}

	slog.Info("watching for changes", "languages_dir", paths.LanguagesDir, "externals", paths.ExternalsFile)
	return &watchTarget{
		w:             w,
		languagesDir:  paths.LanguagesDir,
		externalsFile: paths.ExternalsFile,
		exclude:       slices.Clone(cfg.Discovery.Exclude),
	}, nil
}

// matches reports whether the running watcher already covers cfg and paths,
// so only the debounce needs updating.
func (t *watchTarget) matches(cfg *config.Config, paths config.ResolvedPaths) bool {
	return t.languagesDir == paths.LanguagesDir &&
		t.externalsFile == paths.ExternalsFile &&
		slices.Equal(t.exclude, cfg.Discovery.Exclude)
}

func (t *watchTarget) close() {
	if err := t.w.Close(); err != nil {
		slog.Debug("closing watcher", "error", err)
	}
}
