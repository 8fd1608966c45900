package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	LanguagesDiscovered = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hljsgen_languages",
		Help: "Number of languages in the merged catalog of the last run.",
	}, []string{"source"})

	ArtifactsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hljsgen_artifacts_written_total",
		Help: "Total number of generated files written.",
	}, []string{"renderer"})

	WriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hljsgen_write_failures_total",
		Help: "Total number of generated files that could not be written.",
	})

	StaleArtifacts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hljsgen_stale_artifacts",
		Help: "Number of artifacts whose on-disk content differed at the last check.",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hljsgen_stage_seconds",
		Help:    "Time spent in each pipeline stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hljsgen_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RegenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hljsgen_regenerations_total",
		Help: "Total number of watch-mode regenerations by outcome.",
	}, []string{"outcome"})
)

// WriteTextfile dumps the default registry in node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
