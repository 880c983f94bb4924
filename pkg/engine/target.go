package engine

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Target identifies the real-world resource a state change mutates,
// for example a filesystem path or a package name.
type Target struct {
	// Name is the canonical, human-readable resource identifier.
	Name string `json:"name"`

	// Checksum is a deterministic fingerprint of Name. Two Targets
	// describing the same resource always carry equal checksums, even
	// across process runs.
	Checksum string `json:"checksum"`

	// Description is a free-text rationale for why the target is touched.
	Description string `json:"description"`
}

// NewTarget builds a Target for the given canonical resource name.
// The checksum is the hex-encoded SHA-256 of the name.
func NewTarget(name, description string) Target {
	sum := sha256.Sum256([]byte(name))
	return Target{
		Name:        name,
		Checksum:    fmt.Sprintf("%x", sum),
		Description: description,
	}
}

// TargetLock pairs a Target with the maximum time the caller is willing
// to wait for exclusive use of that target. The lock is declarative: it
// states the contention contract a StateChanger wants honored, it does
// not acquire a mutual-exclusion primitive.
type TargetLock struct {
	// Target is the resource the lock applies to.
	Target Target `json:"target"`

	// Timeout is the acceptable wait before treating the target as
	// contended. Package installs use minutes, file writes seconds.
	Timeout time.Duration `json:"timeout"`
}

// NewTargetLock builds a TargetLock for the given target.
func NewTargetLock(target Target, timeout time.Duration) TargetLock {
	return TargetLock{Target: target, Timeout: timeout}
}

// ConflictingTargets groups the registered changers by the checksums of
// the targets they lock and returns the groups touched by more than one
// changer. Changers sharing a group mutate the same resource and must be
// serialized by registration order.
func ConflictingTargets(changers []StateChanger) map[string][]StateChanger {
	byChecksum := make(map[string][]StateChanger)
	for _, c := range changers {
		seen := make(map[string]bool)
		for _, lock := range c.Locks() {
			// A changer may declare the same target twice; count it once.
			if seen[lock.Target.Checksum] {
				continue
			}
			seen[lock.Target.Checksum] = true
			byChecksum[lock.Target.Checksum] = append(byChecksum[lock.Target.Checksum], c)
		}
	}

	conflicts := make(map[string][]StateChanger)
	for checksum, group := range byChecksum {
		if len(group) > 1 {
			conflicts[checksum] = group
		}
	}
	return conflicts
}
