package config

import (
	"time"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "hljsgen.toml"

// DefaultExternalsModule is the JS module listing external languages.
const DefaultExternalsModule = "src/languages/hljs/external-languages.js"

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Discovery     Discovery     `toml:"discovery"`
	Externals     Externals     `toml:"externals"`
	Merge         Merge         `toml:"merge"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	ProjectRoot  string `toml:"project_root"`
	NodeModules  string `toml:"node_modules"`
	LanguagesDir string `toml:"languages_dir"`
}

type Discovery struct {
	ModulePrefix string   `toml:"module_prefix"`
	Include      string   `toml:"include"`
	Exclude      []string `toml:"exclude"`
}

type Externals struct {
	// ModuleFile is a JS/TS module exporting the external language list.
	// Empty disables it.
	ModuleFile string             `toml:"module_file"`
	Languages  []ExternalLanguage `toml:"languages"`
}

type ExternalLanguage struct {
	Language string `toml:"language"`
	Module   string `toml:"module"`
	Shape    string `toml:"shape"`
}

type Merge struct {
	OnDuplicate string `toml:"on_duplicate"`
}

type Output struct {
	Root               string    `toml:"root"`
	PassthroughDir     string    `toml:"passthrough_dir"`
	AsyncLoaders       string    `toml:"async_loaders"`
	SupportedLanguages string    `toml:"supported_languages"`
	Registrar          string    `toml:"registrar"`
	Index              string    `toml:"index"`
	Docs               string    `toml:"docs"`
	Workers            int       `toml:"workers"`
	Templates          Templates `toml:"templates"`
}

type Templates struct {
	BannerTask   string `toml:"banner_task"`
	LoaderImport string `toml:"loader_import"`
	ChunkPrefix  string `toml:"chunk_prefix"`
}

type Watch struct {
	Debounce                  time.Duration `toml:"debounce"`
	MaxRegenerationsPerSecond float64       `toml:"max_regenerations_per_second"`
}

// Observability configures metrics export and tracing. MetricsAddr serves
// /metrics and /health in watch mode.
type Observability struct {
	MetricsFile   string `toml:"metrics_file"`
	MetricsAddr   string `toml:"metrics_addr"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
}

// DefaultConfig reproduces the layout of the react-syntax-highlighter build.
func DefaultConfig() *Config {
	cfg := &Config{Externals: Externals{ModuleFile: DefaultExternalsModule}}
	applyDefaults(cfg)
	normalizeExternals(cfg)
	return cfg
}
