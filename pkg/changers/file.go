package changers

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/telemetry"
)

// fileWriteTimeout is the advisory lock timeout for file operations.
const fileWriteTimeout = 30 * time.Second

// backupSuffix is appended to a file's path to form its backup path.
const backupSuffix = ".devrig.bak"

// FileContent creates or replaces a file with exact contents. The
// previous version, if any, is backed up next to the file before the
// overwrite so Rollback can restore it byte for byte.
type FileContent struct {
	path     string
	contents []byte
	log      *telemetry.Logger
	parent   engine.StateChanger
}

// NewFileContent creates a changer that ensures path holds exactly the
// given contents.
func NewFileContent(path string, contents []byte, log *telemetry.Logger) *FileContent {
	return &FileContent{
		path:     path,
		contents: contents,
		log:      log.NewComponentLogger("file_content").WithField("path", path),
	}
}

// Name implements engine.StateChanger.
func (f *FileContent) Name() string { return "file_content" }

// Parent implements engine.StateChanger.
func (f *FileContent) Parent() engine.StateChanger { return f.parent }

// Description implements engine.StateChanger.
func (f *FileContent) Description() string {
	return "Creates or replaces the file " + f.path + " with managed contents"
}

// backupPath returns where the pre-change file version is kept.
func (f *FileContent) backupPath() string {
	return f.path + backupSuffix
}

// Locks declares the absolute file path as the contended resource.
func (f *FileContent) Locks() []engine.TargetLock {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		abs = f.path
	}
	target := engine.NewTarget(abs, "Full path to the file "+abs)
	return []engine.TargetLock{engine.NewTargetLock(target, fileWriteTimeout)}
}

// IsChanged reports whether the file exists with the expected contents.
func (f *FileContent) IsChanged(ctx context.Context) bool {
	current, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.log.WithError(err).Warn("Could not read file, assuming content differs")
		}
		return false
	}
	matches := bytes.Equal(current, f.contents)
	if matches {
		f.log.Debug("File already has expected content")
	} else {
		f.log.Debug("File exists but content differs")
	}
	return matches
}

// Change writes the managed contents, backing up any existing file first.
func (f *FileContent) Change(ctx context.Context, verbose bool) engine.ChangeResult {
	if verbose {
		f.log.Infof("Writing %d byte(s) to %s", len(f.contents), f.path)
	}

	previous, err := os.ReadFile(f.path)
	switch {
	case err == nil:
		if err := os.WriteFile(f.backupPath(), previous, 0600); err != nil {
			return engine.Failed("failed to back up %s: %v", f.path, err)
		}
		f.log.Debugf("Backup created at %s", f.backupPath())
	case errors.Is(err, fs.ErrNotExist):
		f.log.Debug("File does not exist, will be created")
	default:
		return engine.Failed("failed to read existing file %s: %v", f.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return engine.Failed("failed to create directory for %s: %v", f.path, err)
	}
	if err := os.WriteFile(f.path, f.contents, 0644); err != nil {
		return engine.Failed("failed to write %s: %v", f.path, err)
	}

	return engine.Success("created/replaced file %s", f.path)
}

// Rollback restores the file from its backup. When no backup exists the
// result is WARN: there is nothing to roll back, which is not a failure.
func (f *FileContent) Rollback(ctx context.Context, verbose bool) engine.ChangeResult {
	backup, err := os.ReadFile(f.backupPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return engine.Warn("no backup to restore for %s", f.path)
		}
		return engine.Failed("failed to read backup for %s: %v", f.path, err)
	}

	if verbose {
		f.log.Infof("Restoring %s from %s", f.path, f.backupPath())
	}
	if err := os.WriteFile(f.path, backup, 0644); err != nil {
		return engine.Failed("failed to restore %s from backup: %v", f.path, err)
	}
	if err := os.Remove(f.backupPath()); err != nil {
		return engine.Failed("restored %s but failed to remove backup: %v", f.path, err)
	}

	return engine.Success("restored file %s from backup", f.path)
}
