// Package engine provides the state-change abstraction and orchestration
// core of devrig.
//
// A StateChanger is one idempotent configuration operation against a
// workstation resource, identified by a Target (name plus deterministic
// checksum) and an advisory TargetLock. The Engine holds an ordered,
// append-only list of changers and drives a best-effort pass over them:
// already-applied changers are skipped, failures are folded into
// ChangeResults and counted, and later changers still execute. Composite
// changers delegate to a child changer and contribute their name to the
// dot-joined identity path rendered by Path.
//
// Execution is single-threaded and sequential. TargetLock is declarative
// metadata; ConflictingTargets exposes the checksum grouping a future
// parallel scheduler would serialize on.
package engine
