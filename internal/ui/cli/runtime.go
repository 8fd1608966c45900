package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"hljsgen/internal/core/config"
	"hljsgen/internal/core/ports"
	"hljsgen/internal/shared/observability"
	"hljsgen/internal/shared/version"
)

const shutdownTimeout = 5 * time.Second

func Run(args []string) int {
	return run(args, os.Stdout, coreGeneratorFactory{})
}

func run(args []string, stdout io.Writer, factory generatorFactory) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}
	if len(opts.args) > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(opts.args, " "))
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "hljsgen v%s\n", version.Version)
		return 0
	}
	if opts.check && opts.watch {
		fmt.Fprintln(os.Stderr, "-check and -watch cannot be combined")
		return 2
	}

	configureLogging(stdout, opts.verbose)

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	applyFlagOverrides(cfg, opts)

	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:  cfg.Observability.EnableTracing,
		Endpoint: cfg.Observability.OTLPEndpoint,
	})
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()
	defer exportMetrics(cfg.Observability.MetricsFile)

	svc, err := initializeGenerator(cfg, paths, factory)
	if err != nil {
		slog.Error("failed to initialize generator", "error", err)
		return 1
	}

	if opts.check {
		return runCheck(ctx, svc, stdout)
	}

	status := &runStatus{}
	res, err := svc.Generate(ctx)
	status.record(res, err)
	if err != nil {
		slog.Error("generation failed", "error", err)
		if !opts.watch {
			return 1
		}
	} else {
		fmt.Fprintln(stdout, formatGenerateSummary(res))
	}

	if !opts.watch {
		return 0
	}
	return runWatch(ctx, svc, watchOptions{
		cfg:     cfg,
		cfgPath: cfgPath,
		cwd:     cwd,
		opts:    opts,
		status:  status,
		stdout:  stdout,
	})
}

func runCheck(ctx context.Context, svc ports.GenerationService, stdout io.Writer) int {
	res, err := svc.Check(ctx)
	if err != nil {
		slog.Error("check failed", "error", err)
		return 1
	}
	fmt.Fprintln(stdout, formatCheckSummary(res))
	if !res.Fresh() {
		return 1
	}
	return 0
}

type watchOptions struct {
	cfg     *config.Config
	cfgPath string
	cwd     string
	opts    cliOptions
	status  *runStatus
	stdout  io.Writer
}

func runWatch(ctx context.Context, svc generator, w watchOptions) int {
	if addr := strings.TrimSpace(w.cfg.Observability.MetricsAddr); addr != "" {
		srv := NewObservabilityServer(addr, w.status)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	report := func(res ports.GenerateResult, err error) {
		w.status.record(res, err)
		if err == nil {
			fmt.Fprintln(w.stdout, formatGenerateSummary(res))
		}
	}

	if w.cfgPath != "" {
		cw := config.NewWatcher(w.cfgPath, w.cfg.Watch.Debounce, func(next *config.Config) {
			applyFlagOverrides(next, w.opts)
			paths, err := config.ResolvePaths(next, w.cwd)
			if err != nil {
				slog.Error("failed to resolve paths after config reload", "error", err)
				return
			}
			if err := svc.UpdateConfig(next, paths); err != nil {
				slog.Error("rejected reloaded config", "error", err)
				return
			}
			slog.Info("config reloaded", "path", w.cfgPath)
			res, err := svc.Generate(ctx)
			if err != nil {
				slog.Error("regeneration failed", "error", err)
			}
			report(res, err)
		})
		if err := cw.Start(ctx); err != nil {
			slog.Error("failed to start config watcher", "error", err)
			return 1
		}
		defer cw.Stop()
	}

	if err := svc.Watch(ctx, report); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	return 0
}

// loadConfig reads path, or the first candidate file under cwd when path is
// empty, falling back to the built-in defaults. The returned path is absolute
// or empty when no file was used.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) == "" {
		found, err := config.Find(cwd)
		if err != nil {
			return nil, "", err
		}
		path = found
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	var cfg *config.Config
	if path == "" {
		slog.Debug("no config file found, using defaults", "cwd", cwd)
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("load %s: %w", path, err)
		}
		slog.Debug("loaded config", "path", path)
		cfg = loaded
	}

	if err := config.Finalize(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func applyFlagOverrides(cfg *config.Config, opts cliOptions) {
	if opts.metricsFile != "" {
		cfg.Observability.MetricsFile = opts.metricsFile
	}
}

func exportMetrics(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if err := observability.WriteTextfile(path); err != nil {
		slog.Error("failed to write metrics file", "path", path, "error", err)
		return
	}
	slog.Debug("wrote metrics file", "path", path)
}

func configureLogging(output io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
