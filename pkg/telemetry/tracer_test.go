package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// captureStdout redirects os.Stdout to a temp file for the duration of fn
// and returns everything written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdout")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = file
	defer func() {
		os.Stdout = orig
		file.Close()
	}()

	fn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestDisabledTracerProducesNoError(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{Enabled: false}, "devrig", "test")
	if err != nil {
		t.Fatalf("NewTracer: %v", err)
	}
	ctx, span := tracer.StartRunSpan(context.Background(), "apply", "run-1")
	if ctx == nil || span == nil {
		t.Fatal("disabled tracer returned nil context or span")
	}
	span.End()
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNewTracerRejectsUnknownExporter(t *testing.T) {
	_, err := NewTracer(TracingConfig{Enabled: true, Exporter: "jaeger", SamplingRate: 1}, "devrig", "test")
	if err == nil {
		t.Error("NewTracer with unknown exporter = nil error, want error")
	}
}

func TestShutdownFlushesBatchedSpans(t *testing.T) {
	output := captureStdout(t, func() {
		cfg := TracingConfig{
			Enabled:       true,
			Exporter:      "stdout",
			SamplingRate:  1,
			ExportTimeout: 5 * time.Second,
		}
		tracer, err := NewTracer(cfg, "devrig", "test")
		if err != nil {
			t.Fatalf("NewTracer: %v", err)
		}

		_, span := tracer.StartRunSpan(context.Background(), "apply", "run-1")
		span.End()

		// The batcher exports on an interval much longer than this; the
		// ended span must not have been written yet.
		time.Sleep(200 * time.Millisecond)
		if stat, err := os.Stdout.Stat(); err == nil && stat.Size() != 0 {
			t.Errorf("batcher exported %d bytes before Shutdown, want 0", stat.Size())
		}

		if err := tracer.Shutdown(context.Background()); err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
	})

	if output == "" {
		t.Fatal("no span exported after Shutdown; ended spans were dropped")
	}
	if !strings.Contains(output, "run.apply") {
		t.Errorf("exported output does not contain the run span name: %s", output)
	}
}
