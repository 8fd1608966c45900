package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hljsgen/internal/core/config/helpers"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateDiscovery(cfg *Config) error {
	include := strings.TrimSpace(cfg.Discovery.Include)
	if include == "" {
		return fmt.Errorf("discovery.include must not be empty")
	}
	if strings.Contains(include, "/") {
		return fmt.Errorf("discovery.include %q must match file names only; the languages directory is not scanned recursively", include)
	}
	if !doublestar.ValidatePattern(include) {
		return fmt.Errorf("discovery.include %q is not a valid pattern", include)
	}
	for i, pattern := range cfg.Discovery.Exclude {
		ref := fmt.Sprintf("discovery.exclude[%d]", i)
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%s must not be empty", ref)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("%s %q is not a valid glob: %w", ref, pattern, err)
		}
	}
	if strings.TrimSpace(cfg.Discovery.ModulePrefix) == "" {
		return fmt.Errorf("discovery.module_prefix must not be empty")
	}
	return nil
}

func validateExternals(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Externals.Languages))
	for i, entry := range cfg.Externals.Languages {
		ref := fmt.Sprintf("externals.languages[%d]", i)
		if entry.Language == "" {
			return fmt.Errorf("%s.language must not be empty", ref)
		}
		if entry.Module == "" {
			return fmt.Errorf("%s.module must not be empty", ref)
		}
		switch entry.Shape {
		case "", "factory", "direct":
		default:
			return fmt.Errorf("%s.shape must be one of: factory, direct", ref)
		}
		if seen[entry.Language] {
			return fmt.Errorf("duplicate external language %q", entry.Language)
		}
		seen[entry.Language] = true
	}
	return nil
}

func validateMerge(cfg *Config) error {
	switch cfg.Merge.OnDuplicate {
	case "error", "prefer_external":
		return nil
	default:
		return fmt.Errorf("merge.on_duplicate must be one of: error, prefer_external")
	}
}

func validateOutput(cfg *Config) error {
	if cfg.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be >= 1, got %d", cfg.Output.Workers)
	}

	outputs := make(map[string]string)
	checkConflict := func(path, name string) error {
		path = strings.TrimSpace(path)
		if path == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if helpers.HasWildcard(path) {
			return fmt.Errorf("%s %q must not contain wildcards", name, path)
		}
		path = filepath.Clean(path)
		if owner, exists := outputs[path]; exists {
			return fmt.Errorf("output conflict: %s and %s share the same path %q", owner, name, path)
		}
		outputs[path] = name
		return nil
	}

	if err := checkConflict(cfg.Output.AsyncLoaders, "output.async_loaders"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.SupportedLanguages, "output.supported_languages"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.Registrar, "output.registrar"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.Index, "output.index"); err != nil {
		return err
	}
	if err := checkConflict(cfg.Output.Docs, "output.docs"); err != nil {
		return err
	}

	passthrough := strings.TrimSpace(cfg.Output.PassthroughDir)
	if passthrough == "" {
		return fmt.Errorf("output.passthrough_dir must not be empty")
	}
	if helpers.HasWildcard(passthrough) {
		return fmt.Errorf("output.passthrough_dir %q must not contain wildcards", passthrough)
	}
	// Both are relative to the project root unless output.root moves the outputs elsewhere.
	if strings.TrimSpace(cfg.Output.Root) == "" && helpers.IsPathOverlap(passthrough, cfg.Paths.LanguagesDir) {
		return fmt.Errorf("output.passthrough_dir %q overlaps paths.languages_dir %q", passthrough, cfg.Paths.LanguagesDir)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRegenerationsPerSecond <= 0 {
		return fmt.Errorf("watch.max_regenerations_per_second must be > 0")
	}
	return nil
}

// Validate collects every configuration problem instead of stopping at the first.
func Validate(cfg *Config) []error {
	var errs []error

	if err := validateVersion(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateDiscovery(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateExternals(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateMerge(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateOutput(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := validateWatch(cfg); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, validatePaths(cfg)...)

	return errs
}

func validatePaths(cfg *Config) []error {
	var errs []error

	if cfg.Paths.ProjectRoot != "" {
		stat, err := os.Stat(cfg.Paths.ProjectRoot)
		if os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("paths.project_root %q does not exist", cfg.Paths.ProjectRoot))
		} else if err == nil && !stat.IsDir() {
			errs = append(errs, fmt.Errorf("paths.project_root %q is not a directory", cfg.Paths.ProjectRoot))
		}
	}

	return errs
}
