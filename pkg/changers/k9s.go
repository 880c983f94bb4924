package changers

import (
	"context"

	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// K9s installs the k9s Kubernetes CLI. It is a composite changer: the
// actual work is delegated to a BrewPackage child whose parent is this
// changer, so the child reports the path "k9s.brew_package".
type K9s struct {
	log  *telemetry.Logger
	brew *BrewPackage
}

// NewK9s creates the k9s installer.
func NewK9s(log *telemetry.Logger, runner shell.Runner) *K9s {
	k := &K9s{log: log.NewComponentLogger("k9s")}
	k.brew = NewBrewPackage("k9s", log, runner)
	k.brew.parent = k
	return k
}

// Name implements engine.StateChanger.
func (k *K9s) Name() string { return "k9s" }

// Parent implements engine.StateChanger.
func (k *K9s) Parent() engine.StateChanger { return nil }

// Description implements engine.StateChanger.
func (k *K9s) Description() string {
	return "Installs the k9s Kubernetes CLI via Homebrew"
}

// Locks implements engine.StateChanger by forwarding to the delegate.
func (k *K9s) Locks() []engine.TargetLock {
	return k.brew.Locks()
}

// IsChanged implements engine.StateChanger by forwarding to the delegate.
func (k *K9s) IsChanged(ctx context.Context) bool {
	return k.brew.IsChanged(ctx)
}

// Change installs k9s through the delegate.
func (k *K9s) Change(ctx context.Context, verbose bool) engine.ChangeResult {
	k.log.Info("Installing k9s")
	return k.brew.Change(ctx, verbose)
}

// Rollback uninstalls k9s through the delegate.
func (k *K9s) Rollback(ctx context.Context, verbose bool) engine.ChangeResult {
	k.log.Info("Uninstalling k9s")
	return k.brew.Rollback(ctx, verbose)
}
