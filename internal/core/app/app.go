package app

import (
	"fmt"
	"sync"

	"hljsgen/internal/core/config"
	"hljsgen/internal/core/errors"
	"hljsgen/internal/core/ports"
	"hljsgen/internal/engine/catalog"
	"hljsgen/internal/engine/discovery"
	"hljsgen/internal/engine/externals"
	"hljsgen/internal/engine/parser"
	"hljsgen/internal/engine/render"
	"hljsgen/internal/shared/util"
)

type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	scanner   ports.LanguageScanner
	externals ports.ExternalSource
	writer    ports.ArtifactWriter
	renderers []render.Renderer
	policy    catalog.DuplicatePolicy

	// runMu serializes runs and guards dependency swaps on config reload.
	runMu    sync.Mutex
	// reloaded holds at most one pending config reload for Watch.
	reloaded chan struct{}
}

// Dependencies lets callers replace the adapters an App drives. Scanner and
// Externals are required; Writer and Renderers fall back to the defaults.
type Dependencies struct {
	Scanner   ports.LanguageScanner
	Externals ports.ExternalSource
	Writer    ports.ArtifactWriter
	Renderers []render.Renderer
}

var _ ports.GenerationService = (*App)(nil)

func New(cfg *config.Config, paths config.ResolvedPaths) (*App, error) {
	return NewWithDependencies(cfg, paths, DefaultDependencies(cfg, paths))
}

func NewWithDependencies(cfg *config.Config, paths config.ResolvedPaths, deps Dependencies) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Scanner == nil {
		return nil, fmt.Errorf("language scanner dependency is required")
	}
	if deps.Externals == nil {
		return nil, fmt.Errorf("external source dependency is required")
	}
	policy, err := catalog.ParseDuplicatePolicy(cfg.Merge.OnDuplicate)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid merge policy")
	}
	if deps.Writer == nil {
		deps.Writer = fileWriter{}
	}
	if len(deps.Renderers) == 0 {
		deps.Renderers = render.All(RenderOptions(cfg))
	}

	return &App{
		Config:    cfg,
		Paths:     paths,
		scanner:   deps.Scanner,
		externals: deps.Externals,
		writer:    deps.Writer,
		renderers: deps.Renderers,
		policy:    policy,
		reloaded:  make(chan struct{}, 1),
	}, nil
}

// DefaultDependencies wires the filesystem scanner and the tree-sitter backed
// externals loader for the given configuration.
func DefaultDependencies(cfg *config.Config, paths config.ResolvedPaths) Dependencies {
	p := parser.NewParser(nil)

	configured := make([]externals.Entry, 0, len(cfg.Externals.Languages))
	for _, lang := range cfg.Externals.Languages {
		configured = append(configured, externals.Entry{
			Language: lang.Language,
			Module:   lang.Module,
			Shape:    lang.Shape,
		})
	}

	return Dependencies{
		Scanner: discovery.Scanner{
			Dir:          paths.LanguagesDir,
			ModulePrefix: cfg.Discovery.ModulePrefix,
			Include:      cfg.Discovery.Include,
			Exclude:      cfg.Discovery.Exclude,
		},
		Externals: &externals.Loader{
			ModuleFile: paths.ExternalsFile,
			Configured: configured,
			Parser:     p,
			Detector:   &externals.ShapeDetector{NodeModules: paths.NodeModules, Parser: p},
		},
	}
}

// RenderOptions maps the output section of the config onto renderer options.
func RenderOptions(cfg *config.Config) render.Options {
	return render.Options{
		PassthroughDir:     cfg.Output.PassthroughDir,
		AsyncLoaders:       cfg.Output.AsyncLoaders,
		SupportedLanguages: cfg.Output.SupportedLanguages,
		Registrar:          cfg.Output.Registrar,
		Index:              cfg.Output.Index,
		Docs:               cfg.Output.Docs,
		BannerTask:         cfg.Output.Templates.BannerTask,
		LoaderImport:       cfg.Output.Templates.LoaderImport,
		ChunkPrefix:        cfg.Output.Templates.ChunkPrefix,
	}
}

// UpdateConfig swaps in a reloaded configuration. The writer is kept; the
// scanner, externals loader and renderers are rebuilt from cfg, and a running
// Watch re-targets its watcher and limiter.
func (a *App) UpdateConfig(cfg *config.Config, paths config.ResolvedPaths) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	policy, err := catalog.ParseDuplicatePolicy(cfg.Merge.OnDuplicate)
	if err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "invalid merge policy")
	}
	deps := DefaultDependencies(cfg, paths)

	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.Config = cfg
	a.Paths = paths
	a.scanner = deps.Scanner
	a.externals = deps.Externals
	a.renderers = render.All(RenderOptions(cfg))
	a.policy = policy

	select {
	case a.reloaded <- struct{}{}:
	default:
	}
	return nil
}

func (a *App) snapshot() (*config.Config, config.ResolvedPaths) {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.Config, a.Paths
}

type fileWriter struct{}

func (fileWriter) WriteArtifact(path string, content []byte) error {
	if err := util.WriteFileWithDirs(path, content, 0o644); err != nil {
		return errors.IOFailure(err, "write artifact", path)
	}
	return nil
}
