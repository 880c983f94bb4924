package changers

import (
	"context"
	"fmt"
	"testing"

	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// fakeRunner scripts subprocess results keyed by the full command line.
type fakeRunner struct {
	results map[string]*shell.Result
	errs    map[string]error
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: make(map[string]*shell.Result),
		errs:    make(map[string]error),
	}
}

func (r *fakeRunner) set(cmdline string, result *shell.Result) {
	r.results[cmdline] = result
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (*shell.Result, error) {
	cmdline := name
	for _, arg := range args {
		cmdline += " " + arg
	}
	r.calls = append(r.calls, cmdline)

	if err, ok := r.errs[cmdline]; ok {
		return nil, err
	}
	if result, ok := r.results[cmdline]; ok {
		return result, nil
	}
	return &shell.Result{ExitCode: 0}, nil
}

func newTestLogger(t *testing.T) *telemetry.Logger {
	t.Helper()
	log, err := telemetry.NewLogger(telemetry.LoggingConfig{
		Level:  "error",
		Format: "json",
		Output: "stderr",
	})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return log
}

func TestBrewPackageIsChanged(t *testing.T) {
	runner := newFakeRunner()
	runner.set("brew list k9s", &shell.Result{ExitCode: 0})
	b := NewBrewPackage("k9s", newTestLogger(t), runner)

	if !b.IsChanged(context.Background()) {
		t.Error("IsChanged = false for an installed package, want true")
	}

	runner.set("brew list k9s", &shell.Result{ExitCode: 1, Stderr: "Error: No such keg"})
	if b.IsChanged(context.Background()) {
		t.Error("IsChanged = true for a missing package, want false")
	}
}

func TestBrewPackageIsChangedRunnerError(t *testing.T) {
	runner := newFakeRunner()
	runner.errs["brew list k9s"] = fmt.Errorf("brew not found in PATH")
	b := NewBrewPackage("k9s", newTestLogger(t), runner)

	if b.IsChanged(context.Background()) {
		t.Error("IsChanged = true when the check could not run, want false")
	}
}

func TestBrewPackageChange(t *testing.T) {
	runner := newFakeRunner()
	runner.set("brew install k9s", &shell.Result{ExitCode: 0, Stdout: "k9s installed"})
	b := NewBrewPackage("k9s", newTestLogger(t), runner)

	result := b.Change(context.Background(), false)

	if result.Status != "SUCCESS" {
		t.Errorf("Status = %s, want SUCCESS", result.Status)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "brew install k9s" {
		t.Errorf("calls = %v, want [brew install k9s]", runner.calls)
	}
}

func TestBrewPackageChangeFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.set("brew install k9s", &shell.Result{
		ExitCode: 1,
		Stderr:   "Error: no formulae found",
	})
	b := NewBrewPackage("k9s", newTestLogger(t), runner)

	result := b.Change(context.Background(), false)

	if result.Status != "FAILED" {
		t.Errorf("Status = %s, want FAILED", result.Status)
	}
	want := "failed to install k9s: Error: no formulae found"
	if result.Message != want {
		t.Errorf("Message = %q, want %q", result.Message, want)
	}
}

func TestBrewPackageRollback(t *testing.T) {
	runner := newFakeRunner()
	runner.set("brew uninstall k9s", &shell.Result{ExitCode: 0})
	b := NewBrewPackage("k9s", newTestLogger(t), runner)

	result := b.Rollback(context.Background(), false)

	if result.Status != "SUCCESS" {
		t.Errorf("Status = %s, want SUCCESS", result.Status)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "brew uninstall k9s" {
		t.Errorf("calls = %v, want [brew uninstall k9s]", runner.calls)
	}
}

func TestBrewPackageLocks(t *testing.T) {
	b := NewBrewPackage("k9s", newTestLogger(t), newFakeRunner())

	locks := b.Locks()
	if len(locks) != 1 {
		t.Fatalf("got %d locks, want 1", len(locks))
	}
	if locks[0].Target.Name != "k9s" {
		t.Errorf("lock target = %q, want %q", locks[0].Target.Name, "k9s")
	}
	if locks[0].Timeout != brewInstallTimeout {
		t.Errorf("lock timeout = %v, want %v", locks[0].Timeout, brewInstallTimeout)
	}
}
