// Package faults implements the error taxonomy of spec §7, wrapped
// with github.com/pkg/errors the way uber-go-dig's dependency graph
// wraps cycle-detection failures
// (errors.Wrapf(cycleErr, "unable to Provide %v", ...)) and the way
// ffi/runtime.go's PanicWithMessage/recover convention turns a panic
// at a package boundary into a typed, returnable error.
package faults

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the taxonomy entries named in spec §7.
type Kind uint8

const (
	// KindUnreconstructable: a function with no tracker, a host-foreign
	// object, or an unpaired weak reference. Fatal for the whole run.
	KindUnreconstructable Kind = iota
	// KindConstAssignmentEscape: a const-flagged binding is written by
	// some emitted body. The emit package does not detect or rewrite
	// such writes, and nothing in this repository returns this Kind.
	KindConstAssignmentEscape
	// KindTemporalDeadZone: a binding is read before its point of
	// declaration in emitted order. The emit package does not detect
	// this case, and nothing in this repository returns this Kind.
	KindTemporalDeadZone
	// KindNameCollisionUnsolvable is never actually returned: the Name
	// Resolver always disambiguates via numeric suffix (spec §4.6). It
	// exists so the taxonomy is complete and so a resolver bug that
	// violates that guarantee has a precise Kind to surface as.
	KindNameCollisionUnsolvable
	// KindInternalInvariant: a Planner or Emitter invariant violation
	// (spec §7: "must abort"). Never a user-facing taxonomy entry in
	// the sense of something a caller should branch on; it signals a
	// bug in this repository.
	KindInternalInvariant
)

func (k Kind) String() string {
	switch k {
	case KindUnreconstructable:
		return "unreconstructable-value"
	case KindConstAssignmentEscape:
		return "const-assignment-escape"
	case KindTemporalDeadZone:
		return "temporal-dead-zone-violation"
	case KindNameCollisionUnsolvable:
		return "name-collision-unsolvable"
	case KindInternalInvariant:
		return "internal-invariant-violation"
	default:
		return "unknown"
	}
}

// Path describes which property path exposes the offending value, per
// spec §7 ("a description of which property path exposes the
// offender"). It is built up as the DFS walk descends and attached to
// whatever Error is eventually raised.
type Path []string

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	out := "$"
	for _, seg := range p {
		out += "." + seg
	}
	return out
}

func (p Path) Push(segment string) Path {
	next := make(Path, len(p)+1)
	copy(next, p)
	next[len(p)] = segment
	return next
}

// Error is the concrete error type returned across every component
// boundary in this repository.
type Error struct {
	Kind  Kind
	Path  Path
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Path, e.cause)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given Kind at path, optionally wrapping
// cause with github.com/pkg/errors so a stack trace is retained for
// diagnostics the way the teacher's graph package retains one for
// cycle-detection failures.
func New(kind Kind, path Path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, cause: errors.Errorf(format, args...)}
}

// Wrap attaches Kind/Path to an existing error without discarding it,
// mirroring errors.Wrapf's "annotate, don't replace" convention.
func Wrap(kind Kind, path Path, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, cause: errors.Wrapf(cause, format, args...)}
}

// Is reports whether err is a *Error of the given Kind, unwrapping
// through any wrapping errors.Wrapf introduced.
func Is(err error, kind Kind) bool {
	var fe *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			fe = e
			break
		}
		err = errors.Unwrap(err)
	}
	return fe != nil && fe.Kind == kind
}

// Recover converts a panic (the teacher's ffi_registry.go /
// PanicWithMessage pattern) into an internal-invariant Error when
// deferred. Nothing in this repository defers it: the Planner, Verify
// and the Emitter report invariant violations as returned errors.
func Recover(path Path, out *error) {
	if r := recover(); r != nil {
		*out = New(KindInternalInvariant, path, "panic: %v", r)
	}
}
