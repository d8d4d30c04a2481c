// Package apperr carries the error taxonomy shared by all services:
// invalid arguments, missing entities, forbidden access and unreachable
// collaborators. Handlers map kinds to HTTP status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindForbidden
	KindDependencyUnavailable
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func InvalidArgument(msg string) error {
	return &Error{kind: KindInvalidArgument, msg: msg}
}

func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

func Forbidden(msg string) error {
	return &Error{kind: KindForbidden, msg: msg}
}

// DependencyUnavailable wraps a store or cache failure. The cause stays
// reachable through errors.Unwrap for logging.
func DependencyUnavailable(msg string, err error) error {
	return &Error{kind: KindDependencyUnavailable, msg: msg, err: err}
}

// KindOf reports the kind of err, walking the wrap chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
