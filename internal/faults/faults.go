package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a failure coarsely enough for the UI to pick a reaction:
// block the call, route to sign-in, show an actionable permission hint, or
// show a generic retry-later message.
type Kind int

const (
	Unknown Kind = iota
	Validation
	Permission
	Transport
	NotAuthenticated
	ServiceDegraded
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "VALIDATION_ERROR"
	case Permission:
		return "PERMISSION_ERROR"
	case Transport:
		return "TRANSPORT_ERROR"
	case NotAuthenticated:
		return "NOT_AUTHENTICATED"
	case ServiceDegraded:
		return "EXTERNAL_SERVICE_DEGRADED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error is a classified failure with a user-presentable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a classified error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the classification of err, walking the wrap chain.
// Unclassified errors report Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}
