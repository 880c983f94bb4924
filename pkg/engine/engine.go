package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devrig/devrig/pkg/telemetry"
)

// Outcome records what happened to a single changer during a pass.
type Outcome struct {
	// Path is the changer's hierarchical path.
	Path string `json:"path"`

	// Skipped is true when the changer was not invoked because the
	// resource was already in the desired state (apply) or had never
	// been applied (rollback).
	Skipped bool `json:"skipped"`

	// Result is the ChangeResult produced by the changer. Zero when
	// Skipped is true, and omitted from JSON in that case.
	Result ChangeResult `json:"result,omitzero"`

	// Duration is how long the operation took.
	Duration time.Duration `json:"duration"`
}

// Summary aggregates the outcomes of one engine pass. The counts always
// satisfy Succeeded+Failed+Skipped == total registered changers; WARN
// results count toward Succeeded since the pass did not fail.
type Summary struct {
	// RunID uniquely identifies the pass for log and trace correlation.
	RunID string `json:"run_id"`

	// Succeeded is the number of changers that returned SUCCESS or WARN.
	Succeeded int `json:"succeeded"`

	// Failed is the number of changers that returned FAILED.
	Failed int `json:"failed"`

	// Skipped is the number of changers that were not invoked.
	Skipped int `json:"skipped"`

	// Outcomes lists the per-changer records in execution order.
	Outcomes []Outcome `json:"outcomes"`

	// Duration is the total pass duration.
	Duration time.Duration `json:"duration"`
}

// Total returns the number of changers the pass accounted for.
func (s Summary) Total() int {
	return s.Succeeded + s.Failed + s.Skipped
}

// Status classifies the whole pass: "succeeded" when nothing failed,
// "failed" when nothing succeeded, "partial" otherwise.
func (s Summary) Status() string {
	switch {
	case s.Failed == 0:
		return "succeeded"
	case s.Succeeded == 0:
		return "failed"
	default:
		return "partial"
	}
}

// Engine sequences and accounts for the execution of a set of
// StateChangers. The changer list is append-only during a run; insertion
// order is the execution order. The engine never creates or destroys
// changers, it only invokes them.
type Engine struct {
	log     *telemetry.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer

	changers []StateChanger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches a metrics collector to the engine.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer attaches a tracer to the engine.
func WithTracer(t *telemetry.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// New creates an engine that logs through the given logger.
func New(log *telemetry.Logger, opts ...Option) *Engine {
	e := &Engine{log: log.NewComponentLogger("engine")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddStateChanger appends a changer to the ordered collection. Changers
// that establish preconditions for later ones must be added first; the
// engine performs no dependency resolution.
func (e *Engine) AddStateChanger(c StateChanger) {
	e.changers = append(e.changers, c)
	e.log.WithField("changer", Path(c)).Debugf("Added state changer (%d total)", len(e.changers))
}

// StateChangers returns the registered changers in execution order.
func (e *Engine) StateChangers() []StateChanger {
	out := make([]StateChanger, len(e.changers))
	copy(out, e.changers)
	return out
}

// Len returns the number of registered changers.
func (e *Engine) Len() int {
	return len(e.changers)
}

// ApplyChanges runs every registered changer in order. Changers whose
// resource is already in the desired state are skipped. A FAILED result
// does not halt the pass: independent changes are independent, so later
// changers still execute.
func (e *Engine) ApplyChanges(ctx context.Context, verbose bool) Summary {
	return e.run(ctx, verbose, "apply")
}

// RollbackChanges reverts every registered changer in order. Changers
// whose resource was never applied are skipped.
func (e *Engine) RollbackChanges(ctx context.Context, verbose bool) Summary {
	return e.run(ctx, verbose, "rollback")
}

func (e *Engine) run(ctx context.Context, verbose bool, verb string) Summary {
	summary := Summary{RunID: uuid.NewString()}
	log := e.log.WithRunID(summary.RunID)
	log.Infof("Starting %s pass over %d state changer(s)", verb, len(e.changers))

	ctx, endRun := e.startRunSpan(ctx, verb, summary.RunID)
	start := time.Now()

	for i, changer := range e.changers {
		path := Path(changer)
		clog := log.WithField("changer", path)
		clog.Debugf("Processing state changer %d/%d", i+1, len(e.changers))

		outcome := e.runOne(ctx, changer, verb, verbose, clog)
		outcome.Path = path
		summary.Outcomes = append(summary.Outcomes, outcome)

		switch {
		case outcome.Skipped:
			summary.Skipped++
		case outcome.Result.Status == StatusFailed:
			summary.Failed++
		default:
			summary.Succeeded++
		}
	}

	summary.Duration = time.Since(start)
	endRun(summary.Status())
	if e.metrics != nil {
		e.metrics.RecordRunCompleted(verb, summary.Status(), summary.Duration)
	}

	log.Infof("Finished %s pass: %d succeeded, %d failed, %d skipped",
		verb, summary.Succeeded, summary.Failed, summary.Skipped)
	return summary
}

// runOne executes a single changer for the given verb and classifies the
// outcome. Skips never invoke the mutation.
func (e *Engine) runOne(ctx context.Context, changer StateChanger, verb string, verbose bool, log *telemetry.Logger) Outcome {
	start := time.Now()
	applied := changer.IsChanged(ctx)

	if verb == "apply" && applied {
		log.Info("Skipping, already applied")
		e.recordChanger(verb, "skipped", time.Since(start))
		return Outcome{Skipped: true, Duration: time.Since(start)}
	}
	if verb == "rollback" && !applied {
		log.Info("Skipping, not applied")
		e.recordChanger(verb, "skipped", time.Since(start))
		return Outcome{Skipped: true, Duration: time.Since(start)}
	}

	ctx, endSpan := e.startChangerSpan(ctx, verb, Path(changer))

	var result ChangeResult
	if verb == "rollback" {
		result = changer.Rollback(ctx, verbose)
	} else {
		result = changer.Change(ctx, verbose)
	}
	duration := time.Since(start)

	e.logResult(log, result)
	e.recordChanger(verb, string(result.Status), duration)
	endSpan(result)

	return Outcome{Result: result, Duration: duration}
}

// logResult routes a result to the log channel matching its status.
func (e *Engine) logResult(log *telemetry.Logger, result ChangeResult) {
	switch result.Status {
	case StatusSuccess:
		log.Infof("Result: %s", result)
	case StatusWarn:
		log.Warnf("Result: %s", result)
	case StatusFailed:
		log.Errorf("Result: %s", result)
	}
}

func (e *Engine) recordChanger(verb, result string, duration time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordChangerProcessed(verb, result, duration)
}

// startRunSpan opens the pass-level trace span. The returned func ends
// the span with the pass status; it is a no-op without a tracer.
func (e *Engine) startRunSpan(ctx context.Context, verb, runID string) (context.Context, func(status string)) {
	if e.tracer == nil {
		return ctx, func(string) {}
	}
	ctx, span := e.tracer.StartRunSpan(ctx, verb, runID)
	return ctx, func(status string) {
		telemetry.SetSpanStatus(span, status == "succeeded", status)
		span.End()
	}
}

// startChangerSpan opens a per-changer trace span.
func (e *Engine) startChangerSpan(ctx context.Context, verb, path string) (context.Context, func(ChangeResult)) {
	if e.tracer == nil {
		return ctx, func(ChangeResult) {}
	}
	ctx, span := e.tracer.StartChangerSpan(ctx, verb, path)
	return ctx, func(result ChangeResult) {
		telemetry.SetSpanStatus(span, result.Status != StatusFailed, result.Message)
		span.End()
	}
}
