package changers

import (
	"context"
	"time"

	"github.com/devrig/devrig/pkg/engine"
	"github.com/devrig/devrig/pkg/shell"
	"github.com/devrig/devrig/pkg/telemetry"
)

// brewInstallTimeout is the advisory lock timeout for package installs.
// Installs may fetch over the network or build from source, so the
// acceptable wait is minutes rather than seconds.
const brewInstallTimeout = 5 * time.Minute

// BrewPackage installs a single Homebrew package. It is the leaf changer
// that application-level composites such as K9s delegate to.
type BrewPackage struct {
	pkg    string
	log    *telemetry.Logger
	runner shell.Runner
	parent engine.StateChanger
}

// NewBrewPackage creates a changer that ensures the named Homebrew
// package is installed.
func NewBrewPackage(pkg string, log *telemetry.Logger, runner shell.Runner) *BrewPackage {
	return &BrewPackage{
		pkg:    pkg,
		log:    log.NewComponentLogger("brew_package").WithField("package", pkg),
		runner: runner,
	}
}

// Name implements engine.StateChanger.
func (b *BrewPackage) Name() string { return "brew_package" }

// Parent implements engine.StateChanger.
func (b *BrewPackage) Parent() engine.StateChanger { return b.parent }

// Description implements engine.StateChanger.
func (b *BrewPackage) Description() string {
	return "Installs the '" + b.pkg + "' package via Homebrew"
}

// Locks declares the package name as the contended resource.
func (b *BrewPackage) Locks() []engine.TargetLock {
	target := engine.NewTarget(b.pkg, "Homebrew package installation for "+b.pkg)
	return []engine.TargetLock{engine.NewTargetLock(target, brewInstallTimeout)}
}

// IsChanged reports whether the package is already installed.
func (b *BrewPackage) IsChanged(ctx context.Context) bool {
	result, err := b.runner.Run(ctx, "brew", "list", b.pkg)
	if err != nil {
		b.log.WithError(err).Warn("Could not check package status, assuming not installed")
		return false
	}
	installed := result.Ok()
	if installed {
		b.log.Debug("Package is already installed")
	} else {
		b.log.Debug("Package is not installed")
	}
	return installed
}

// Change installs the package.
func (b *BrewPackage) Change(ctx context.Context, verbose bool) engine.ChangeResult {
	b.log.Infof("Running: brew install %s", b.pkg)

	result, err := b.runner.Run(ctx, "brew", "install", b.pkg)
	if err != nil {
		return engine.Failed("failed to run brew install %s: %v", b.pkg, err)
	}
	b.logOutput(result, verbose)

	if !result.Ok() {
		return engine.Failed("failed to install %s: %s", b.pkg, result.ErrorText())
	}
	return engine.Success("installed Homebrew package %s", b.pkg)
}

// Rollback uninstalls the package.
func (b *BrewPackage) Rollback(ctx context.Context, verbose bool) engine.ChangeResult {
	b.log.Infof("Running: brew uninstall %s", b.pkg)

	result, err := b.runner.Run(ctx, "brew", "uninstall", b.pkg)
	if err != nil {
		return engine.Failed("failed to run brew uninstall %s: %v", b.pkg, err)
	}
	b.logOutput(result, verbose)

	if !result.Ok() {
		return engine.Failed("failed to uninstall %s: %s", b.pkg, result.ErrorText())
	}
	return engine.Success("uninstalled Homebrew package %s", b.pkg)
}

// logOutput logs the command outcome, including full stdout/stderr when
// verbose is set.
func (b *BrewPackage) logOutput(result *shell.Result, verbose bool) {
	log := b.log.WithField("exit_code", result.ExitCode)
	if verbose {
		log = log.WithField("stdout", result.Stdout).WithField("stderr", result.Stderr)
	}
	log.Debugf("Command finished in %s", result.Duration)
}
