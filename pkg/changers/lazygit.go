package changers

import (
	"context"

	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// Lazygit installs the lazygit terminal UI, delegating to a BrewPackage
// child like K9s does.
type Lazygit struct {
	log  *telemetry.Logger
	brew *BrewPackage
}

// NewLazygit creates the lazygit installer.
func NewLazygit(log *telemetry.Logger, runner shell.Runner) *Lazygit {
	l := &Lazygit{log: log.NewComponentLogger("lazygit")}
	l.brew = NewBrewPackage("lazygit", log, runner)
	l.brew.parent = l
	return l
}

// Name implements engine.StateChanger.
func (l *Lazygit) Name() string { return "lazygit" }

// Parent implements engine.StateChanger.
func (l *Lazygit) Parent() engine.StateChanger { return nil }

// Description implements engine.StateChanger.
func (l *Lazygit) Description() string {
	return "Installs the lazygit terminal UI via Homebrew"
}

// Locks implements engine.StateChanger by forwarding to the delegate.
func (l *Lazygit) Locks() []engine.TargetLock {
	return l.brew.Locks()
}

// IsChanged implements engine.StateChanger by forwarding to the delegate.
func (l *Lazygit) IsChanged(ctx context.Context) bool {
	return l.brew.IsChanged(ctx)
}

// Change installs lazygit through the delegate.
func (l *Lazygit) Change(ctx context.Context, verbose bool) engine.ChangeResult {
	l.log.Info("Installing lazygit")
	return l.brew.Change(ctx, verbose)
}

// Rollback uninstalls lazygit through the delegate.
func (l *Lazygit) Rollback(ctx context.Context, verbose bool) engine.ChangeResult {
	l.log.Info("Uninstalling lazygit")
	return l.brew.Rollback(ctx, verbose)
}
