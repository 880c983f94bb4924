package engine

import (
	"context"
	"strings"
)

// StateChanger is the contract implemented by every concrete change: one
// idempotent configuration operation against a workstation resource.
//
// Implementations must capture every fault inside Change, Rollback and
// IsChanged and fold it into the returned ChangeResult or boolean; no
// panic or error may escape to the engine.
type StateChanger interface {
	// Name is the stable identifier for this changer's kind. It must be
	// derived from an explicit per-variant constant or from constructor
	// parameters that make the instance unique (such as a file path),
	// never from mutable state.
	Name() string

	// Parent is the changer whose Change delegated to this one, or nil
	// for a root changer. The reference is a relation only; the parent
	// does not own the child.
	Parent() StateChanger

	// Locks declares the resources this changer will touch and the
	// acceptable wait timeout for each. It must be pure and callable
	// before Change to plan contention handling.
	Locks() []TargetLock

	// IsChanged reports whether the target resource is already in the
	// desired end state. It must reflect live external state, not a
	// cached answer, and be safe to call any number of times.
	IsChanged(ctx context.Context) bool

	// Change performs the mutation. It returns SUCCESS on completion and
	// FAILED with a descriptive message on any error. When verbose is
	// set, full command output is logged.
	Change(ctx context.Context, verbose bool) ChangeResult

	// Rollback reverts the effect of a prior successful Change. It
	// returns WARN, not FAILED, when there is nothing to roll back.
	Rollback(ctx context.Context, verbose bool) ChangeResult

	// Description is a static human-readable summary for listing surfaces.
	Description() string
}

// Path returns the dot-joined name chain from the root ancestor down to
// c, for example "k9s.brew_package". It is used for log correlation and
// for disambiguating sibling changers of the same kind; it never affects
// equality or locking.
func Path(c StateChanger) string {
	if c == nil {
		return ""
	}
	var names []string
	for node := c; node != nil; node = node.Parent() {
		names = append(names, node.Name())
	}
	// Reverse into root-first order.
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ".")
}
