// Package apperr classifies failures that escape a conversation step.
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuthorization Kind = "authorization"
	KindExternal      Kind = "external"
	KindPersistence   Kind = "persistence"
	KindConflict      Kind = "conflict"
	KindUnknown       Kind = "unknown"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the original failure through the kind.
func (e *Error) Cause() error { return e.Err }

// Format prints the wrapped stack for %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Err != nil {
		fmt.Fprintf(s, "%s: %+v", e.Op, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// E wraps err with a kind and the operation that produced it, recording the
// stack at the call site. A nil err still yields an error so callers can
// signal a bare condition like a missing row.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return errors.WithStack(&Error{Kind: kind, Op: op})
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Stack renders err with every recorded frame.
func Stack(err error) string {
	return fmt.Sprintf("%+v", err)
}
