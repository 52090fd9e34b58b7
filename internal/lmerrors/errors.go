// Package lmerrors defines the error kinds surfaced by the matching kernel.
package lmerrors

import "fmt"

// Kind identifies one of the error categories the core can report.
type Kind string

const (
	KindIO                Kind = "io-error"
	KindCorruptStream     Kind = "corrupt-stream"
	KindDimensionMismatch Kind = "dimension-mismatch"
	KindEmptyInput        Kind = "empty-input"
)

// Error is a typed error carrying one of the Kind values above. Callers
// branch on the kind with errors.Is against the package-level sentinels.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is an *Error of the same Kind. A sentinel
// with an empty Msg (the package vars below) matches any *Error sharing
// its Kind, so errors.Is(err, ErrCorruptStream) works regardless of the
// message attached at the call site.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrIO                = &Error{Kind: KindIO}
	ErrCorruptStream     = &Error{Kind: KindCorruptStream}
	ErrDimensionMismatch = &Error{Kind: KindDimensionMismatch}
	ErrEmptyInput        = &Error{Kind: KindEmptyInput}
)

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
