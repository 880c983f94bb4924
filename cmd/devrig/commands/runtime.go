package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devrig/devrig/pkg/changers"
	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/manifest"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// runtime bundles the collaborators every command needs: telemetry,
// the changer registry, the subprocess runner and the manifest loader.
// Commands build it after flag parsing; there is no implicit container.
type runtime struct {
	cfg      *telemetry.Config
	log      *telemetry.Logger
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
	registry *changers.Registry
	runner   shell.Runner
	loader   *manifest.Loader
}

// newRuntime wires the object graph from the global flags.
func newRuntime() (*runtime, error) {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = appVersion
	cfg.Logging.Level = logLevel
	cfg.Logging.Format = logFormat
	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddress = metricsAddr
	}
	if traceExporter != "none" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = traceExporter
		cfg.Tracing.Endpoint = traceEndpoint
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	metrics, err := telemetry.NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	tracer, err := telemetry.NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	if err := metrics.StartMetricsServer(); err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}

	return &runtime{
		cfg:      cfg,
		log:      log,
		metrics:  metrics,
		tracer:   tracer,
		registry: changers.Builtin(),
		runner:   shell.NewExecRunner(),
		loader:   manifest.NewLoader(),
	}, nil
}

// Close flushes and shuts down the runtime's telemetry. The span batcher
// exports on an interval, so a short-lived command that skips Close loses
// every span it recorded.
func (rt *runtime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rt.tracer.Shutdown(ctx); err != nil {
		rt.log.WithError(err).Warn("Failed to shut down tracer")
		return err
	}
	return nil
}

// newEngine creates an engine wired with the runtime's telemetry.
func (rt *runtime) newEngine() *engine.Engine {
	return engine.New(rt.log, engine.WithMetrics(rt.metrics), engine.WithTracer(rt.tracer))
}

// buildChangers resolves the comma-separated names argument against the
// registry and appends changers built from the manifest, when given.
// Resolution failures happen here, before any change runs.
func (rt *runtime) buildChangers(args []string, manifestPath string) ([]engine.StateChanger, error) {
	var built []engine.StateChanger

	for _, name := range splitNames(args) {
		changer, err := rt.registry.Resolve(name, rt.log, rt.runner)
		if err != nil {
			return nil, err
		}
		built = append(built, changer)
	}

	if manifestPath != "" {
		m, err := rt.loader.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		fromManifest, err := manifest.Build(m, rt.registry, rt.log, rt.runner)
		if err != nil {
			return nil, err
		}
		built = append(built, fromManifest...)
	}

	if len(built) == 0 {
		return nil, fmt.Errorf("nothing to do: pass changer names or --manifest")
	}
	return built, nil
}

// splitNames flattens args like ["k9s,lazygit", "jq"] into individual
// trimmed names, dropping empties.
func splitNames(args []string) []string {
	var names []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
