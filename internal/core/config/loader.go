package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// CandidateFiles lists the locations probed, relative to the working directory.
var CandidateFiles = []string{
	DefaultFileName,
	filepath.Join("scripts", DefaultFileName),
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Preset so an explicit module_file = "" survives decoding.
	cfg := Config{Externals: Externals{ModuleFile: DefaultExternalsModule}}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalizeExternals(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateDiscovery(&cfg); err != nil {
		return nil, err
	}
	if err := validateExternals(&cfg); err != nil {
		return nil, err
	}
	if err := validateMerge(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Finalize applies environment overrides on top of a loaded or default config
// and validates the result, reporting every problem at once.
func Finalize(cfg *Config) error {
	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	normalizeExternals(cfg)
	return errors.Join(Validate(cfg)...)
}

// Find returns the first candidate config file under cwd, or "" when none exists.
func Find(cwd string) (string, error) {
	for _, candidate := range CandidateFiles {
		path := filepath.Join(cwd, candidate)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.NodeModules) == "" {
		cfg.Paths.NodeModules = "node_modules"
	}
	if strings.TrimSpace(cfg.Paths.LanguagesDir) == "" {
		cfg.Paths.LanguagesDir = filepath.Join(cfg.Paths.NodeModules, "highlight.js", "lib", "languages")
	}

	if strings.TrimSpace(cfg.Discovery.ModulePrefix) == "" {
		cfg.Discovery.ModulePrefix = "highlight.js/lib/languages"
	}
	if strings.TrimSpace(cfg.Discovery.Include) == "" {
		cfg.Discovery.Include = "*.js"
	}

	if strings.TrimSpace(cfg.Merge.OnDuplicate) == "" {
		cfg.Merge.OnDuplicate = "error"
	}

	if strings.TrimSpace(cfg.Output.PassthroughDir) == "" {
		cfg.Output.PassthroughDir = "src/languages/hljs"
	}
	if strings.TrimSpace(cfg.Output.AsyncLoaders) == "" {
		cfg.Output.AsyncLoaders = "src/async-languages/hljs.js"
	}
	if strings.TrimSpace(cfg.Output.SupportedLanguages) == "" {
		cfg.Output.SupportedLanguages = "src/languages/hljs/supported-languages.js"
	}
	if strings.TrimSpace(cfg.Output.Registrar) == "" {
		cfg.Output.Registrar = "src/highlight-register-external-languages.js"
	}
	if strings.TrimSpace(cfg.Output.Index) == "" {
		cfg.Output.Index = "src/languages/hljs/index.js"
	}
	if strings.TrimSpace(cfg.Output.Docs) == "" {
		cfg.Output.Docs = "AVAILABLE_LANGUAGES_HLJS.MD"
	}
	if cfg.Output.Workers <= 0 {
		cfg.Output.Workers = 8
	}
	if strings.TrimSpace(cfg.Output.Templates.BannerTask) == "" {
		cfg.Output.Templates.BannerTask = "npm run build-languages-hljs"
	}
	if strings.TrimSpace(cfg.Output.Templates.LoaderImport) == "" {
		cfg.Output.Templates.LoaderImport = "./create-language-async-loader"
	}
	if cfg.Output.Templates.ChunkPrefix == "" {
		cfg.Output.Templates.ChunkPrefix = "react-syntax-highlighter_languages_highlight_"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRegenerationsPerSecond <= 0 {
		cfg.Watch.MaxRegenerationsPerSecond = 2
	}
}

func normalizeExternals(cfg *Config) {
	cfg.Externals.ModuleFile = strings.TrimSpace(cfg.Externals.ModuleFile)
	for i := range cfg.Externals.Languages {
		entry := &cfg.Externals.Languages[i]
		entry.Language = strings.TrimSpace(entry.Language)
		entry.Module = strings.TrimSpace(entry.Module)
		entry.Shape = strings.ToLower(strings.TrimSpace(entry.Shape))
	}
	cfg.Merge.OnDuplicate = strings.ToLower(strings.TrimSpace(cfg.Merge.OnDuplicate))
}
