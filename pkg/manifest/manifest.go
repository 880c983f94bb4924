// Package manifest loads declarative change lists from CUE or YAML files
// and builds the StateChangers they describe.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/devrig/devrig/pkg/changers"
	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// Loader parses and validates manifest files.
type Loader struct {
	ctx      *cue.Context
	validate *validator.Validate
}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{
		ctx:      cuecontext.New(),
		validate: validator.New(),
	}
}

// Load reads, parses and validates the manifest at path. The format is
// chosen by extension: .cue, or .yaml/.yml.
func (l *Loader) Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	switch ext := filepath.Ext(path); ext {
	case ".cue":
		if err := l.parseCUE(path, data, &m); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse YAML manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest extension %q (want .cue, .yaml or .yml)", ext)
	}

	if err := l.Validate(&m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// parseCUE compiles the file and decodes it into the manifest struct.
func (l *Loader) parseCUE(path string, data []byte, m *Manifest) error {
	val := l.ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile CUE manifest %s: %w", path, err)
	}
	if err := val.Decode(m); err != nil {
		return fmt.Errorf("failed to decode CUE manifest %s: %w", path, err)
	}
	return nil
}

// Validate checks struct tags plus the per-type parameter requirements
// that tags cannot express.
func (l *Loader) Validate(m *Manifest) error {
	if err := l.validate.Struct(m); err != nil {
		return err
	}

	for i, spec := range m.Changes {
		switch spec.Type {
		case "brew.package":
			if spec.Package == "" {
				return fmt.Errorf("changes[%d]: brew.package requires 'package'", i)
			}
		case "file.content":
			if spec.Path == "" {
				return fmt.Errorf("changes[%d]: file.content requires 'path'", i)
			}
		default:
			// Registry names are checked at build time, when a registry
			// is available.
		}
	}
	return nil
}

// Build constructs the changers a manifest describes, in manifest order.
// Types that are not parameterized builtins are resolved against reg.
func Build(m *Manifest, reg *changers.Registry, log *telemetry.Logger, runner shell.Runner) ([]engine.StateChanger, error) {
	built := make([]engine.StateChanger, 0, len(m.Changes))
	for i, spec := range m.Changes {
		switch spec.Type {
		case "brew.package":
			built = append(built, changers.NewBrewPackage(spec.Package, log, runner))
		case "file.content":
			path, err := expandHome(spec.Path)
			if err != nil {
				return nil, fmt.Errorf("changes[%d]: %w", i, err)
			}
			built = append(built, changers.NewFileContent(path, []byte(spec.Contents), log))
		default:
			changer, err := reg.Resolve(spec.Type, log, runner)
			if err != nil {
				return nil, fmt.Errorf("changes[%d]: %w", i, err)
			}
			built = append(built, changer)
		}
	}
	return built, nil
}

// expandHome resolves a leading "~/" against the current user's home
// directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", path, err)
	}
	return filepath.Join(home, path[2:]), nil
}
