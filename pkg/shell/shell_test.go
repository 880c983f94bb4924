package shell

import (
	"context"
	"strings"
	"testing"
)

func TestExecRunnerCapturesStdout(t *testing.T) {
	result, err := NewExecRunner().Run(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Ok() {
		t.Errorf("ExitCode = %d, want 0", result.ExitCode)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("Stdout = %q, want %q", result.Stdout, "hello")
	}
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	result, err := NewExecRunner().Run(context.Background(), "false")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Ok() {
		t.Error("Ok() = true for a failing command, want false")
	}
	if result.ExitCode == 0 {
		t.Error("ExitCode = 0 for a failing command")
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), "devrig-no-such-binary")
	if err == nil {
		t.Error("Run of a missing binary = nil error, want error")
	}
}

func TestResultErrorText(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"stderr wins", Result{Stdout: "out", Stderr: "err\n"}, "err"},
		{"stdout fallback", Result{Stdout: "out\n"}, "out"},
		{"both empty", Result{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.ErrorText(); got != tt.want {
				t.Errorf("ErrorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
