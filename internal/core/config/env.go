package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: HLJSGEN_[SECTION]_[KEY] (e.g., HLJSGEN_OUTPUT_WORKERS).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.ProjectRoot, "HLJSGEN_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.NodeModules, "HLJSGEN_PATHS_NODE_MODULES")
	setEnvString(&cfg.Paths.LanguagesDir, "HLJSGEN_PATHS_LANGUAGES_DIR")

	// Discovery
	setEnvString(&cfg.Discovery.ModulePrefix, "HLJSGEN_DISCOVERY_MODULE_PREFIX")
	setEnvString(&cfg.Discovery.Include, "HLJSGEN_DISCOVERY_INCLUDE")

	// Externals
	setEnvString(&cfg.Externals.ModuleFile, "HLJSGEN_EXTERNALS_MODULE_FILE")

	// Merge
	setEnvString(&cfg.Merge.OnDuplicate, "HLJSGEN_MERGE_ON_DUPLICATE")

	// Output
	setEnvString(&cfg.Output.Root, "HLJSGEN_OUTPUT_ROOT")
	setEnvInt(&cfg.Output.Workers, "HLJSGEN_OUTPUT_WORKERS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "HLJSGEN_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRegenerationsPerSecond, "HLJSGEN_WATCH_MAX_REGENERATIONS_PER_SECOND")

	// Observability
	setEnvString(&cfg.Observability.MetricsFile, "HLJSGEN_OBSERVABILITY_METRICS_FILE")
	setEnvString(&cfg.Observability.MetricsAddr, "HLJSGEN_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "HLJSGEN_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "HLJSGEN_OBSERVABILITY_ENABLE_TRACING")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
