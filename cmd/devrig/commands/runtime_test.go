package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/devrig/devrig/pkg/changers"
	"github.com/devrig/devrig/pkg/manifest"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// countingRunner records every command it is asked to run.
type countingRunner struct {
	calls int
}

func (r *countingRunner) Run(ctx context.Context, name string, args ...string) (*shell.Result, error) {
	r.calls++
	return &shell.Result{ExitCode: 0}, nil
}

func newTestRuntime(t *testing.T) (*runtime, *countingRunner) {
	t.Helper()
	log, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  "error",
		Format: "json",
		Output: "stderr",
	})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	runner := &countingRunner{}
	return &runtime{
		log:      log,
		registry: changers.Builtin(),
		runner:   runner,
		loader:   manifest.NewLoader(),
	}, runner
}

func TestBuildChangersUnknownNameFailsBeforeAnythingRuns(t *testing.T) {
	rt, runner := newTestRuntime(t)

	_, err := rt.buildChangers([]string{"nope"}, "")

	if err == nil {
		t.Fatal("buildChangers with unknown name = nil error, want error")
	}
	if !strings.Contains(err.Error(), "k9s") {
		t.Errorf("error %q does not list valid names", err)
	}
	if runner.calls != 0 {
		t.Errorf("runner invoked %d times while resolving an unknown name, want 0", runner.calls)
	}
}

func TestBuildChangersUnknownNameAmongValidOnes(t *testing.T) {
	rt, runner := newTestRuntime(t)

	_, err := rt.buildChangers([]string{"k9s,nope"}, "")

	if err == nil {
		t.Fatal("buildChangers = nil error, want error for the unknown name")
	}
	if runner.calls != 0 {
		t.Errorf("runner invoked %d times before the batch was fully resolved, want 0", runner.calls)
	}
}

func TestBuildChangersResolvesWithoutRunning(t *testing.T) {
	rt, runner := newTestRuntime(t)

	built, err := rt.buildChangers([]string{"k9s,lazygit"}, "")

	if err != nil {
		t.Fatalf("buildChangers: %v", err)
	}
	if len(built) != 2 {
		t.Fatalf("got %d changers, want 2", len(built))
	}
	if runner.calls != 0 {
		t.Errorf("runner invoked %d times during resolution, want 0", runner.calls)
	}
}

func TestBuildChangersEmptyInput(t *testing.T) {
	rt, _ := newTestRuntime(t)

	if _, err := rt.buildChangers(nil, ""); err == nil {
		t.Error("buildChangers with no names and no manifest = nil error, want error")
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"single", []string{"k9s"}, []string{"k9s"}},
		{"comma separated", []string{"k9s,lazygit"}, []string{"k9s", "lazygit"}},
		{"mixed", []string{"k9s,lazygit", "jq"}, []string{"k9s", "lazygit", "jq"}},
		{"whitespace and empties", []string{" k9s , ", ","}, []string{"k9s"}},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitNames(tt.args)
			if len(got) != len(tt.want) {
				t.Fatalf("splitNames(%v) = %v, want %v", tt.args, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("splitNames(%v)[%d] = %q, want %q", tt.args, i, got[i], tt.want[i])
				}
			}
		})
	}
}
