package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devrig/devrig/pkg/changers"
	"github.com/devrig/devrig/pkg/telemetry"
)

func writeManifest(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
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

const yamlManifest = `
name: dev-tools
changes:
  - type: brew.package
    package: jq
  - type: file.content
    path: /tmp/devrig-test.txt
    contents: "hello\n"
  - type: k9s
`

const cueManifest = `
name: "dev-tools"
changes: [
	{type: "brew.package", package: "jq"},
	{type: "file.content", path: "/tmp/devrig-test.txt", contents: "hello\n"},
	{type: "k9s"},
]
`

func TestLoadYAML(t *testing.T) {
	path := writeManifest(t, "rig.yaml", yamlManifest)

	m, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "dev-tools" {
		t.Errorf("Name = %q, want %q", m.Name, "dev-tools")
	}
	if len(m.Changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(m.Changes))
	}
	if m.Changes[0].Package != "jq" {
		t.Errorf("changes[0].Package = %q, want %q", m.Changes[0].Package, "jq")
	}
	if m.Changes[1].Contents != "hello\n" {
		t.Errorf("changes[1].Contents = %q, want %q", m.Changes[1].Contents, "hello\n")
	}
}

func TestLoadCUE(t *testing.T) {
	path := writeManifest(t, "rig.cue", cueManifest)

	m, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(m.Changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(m.Changes))
	}
	if m.Changes[2].Type != "k9s" {
		t.Errorf("changes[2].Type = %q, want %q", m.Changes[2].Type, "k9s")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeManifest(t, "rig.toml", "whatever")

	if _, err := NewLoader().Load(path); err == nil {
		t.Error("Load(.toml) = nil error, want unsupported extension error")
	}
}

func TestLoadRejectsEmptyChanges(t *testing.T) {
	path := writeManifest(t, "rig.yaml", "name: empty\nchanges: []\n")

	if _, err := NewLoader().Load(path); err == nil {
		t.Error("Load with empty changes = nil error, want validation error")
	}
}

func TestValidateRequiresTypeParameters(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		name string
		m    Manifest
	}{
		{"brew without package", Manifest{Changes: []ChangeSpec{{Type: "brew.package"}}}},
		{"file without path", Manifest{Changes: []ChangeSpec{{Type: "file.content"}}}},
		{"missing type", Manifest{Changes: []ChangeSpec{{Package: "jq"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := loader.Validate(&tt.m); err == nil {
				t.Error("Validate = nil, want error")
			}
		})
	}
}

func TestBuild(t *testing.T) {
	m := &Manifest{Changes: []ChangeSpec{
		{Type: "brew.package", Package: "jq"},
		{Type: "file.content", Path: "/tmp/devrig-test.txt", Contents: "hello"},
		{Type: "k9s"},
	}}

	built, err := Build(m, changers.Builtin(), newTestLogger(t), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(built) != 3 {
		t.Fatalf("got %d changers, want 3", len(built))
	}
	wantNames := []string{"brew_package", "file_content", "k9s"}
	for i, want := range wantNames {
		if got := built[i].Name(); got != want {
			t.Errorf("built[%d].Name() = %q, want %q", i, got, want)
		}
	}
}

func TestBuildRejectsUnknownType(t *testing.T) {
	m := &Manifest{Changes: []ChangeSpec{{Type: "nope"}}}

	if _, err := Build(m, changers.Builtin(), newTestLogger(t), nil); err == nil {
		t.Error("Build with unknown type = nil error, want error")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}

	got, err := expandHome("~/.config/k9s/config.yaml")
	if err != nil {
		t.Fatalf("expandHome: %v", err)
	}
	want := filepath.Join(home, ".config/k9s/config.yaml")
	if got != want {
		t.Errorf("expandHome = %q, want %q", got, want)
	}

	got, err = expandHome("/absolute/path")
	if err != nil || got != "/absolute/path" {
		t.Errorf("expandHome(/absolute/path) = %q, %v, want unchanged", got, err)
	}
}
