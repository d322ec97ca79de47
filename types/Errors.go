package types

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindAccessDenied
	KindNotFound
	KindInvalidInput
	KindGateway
	KindInsufficientUnits
	KindUnauthenticated
)

func (k ErrorKind) String() string {
	switch k {
	case KindAccessDenied:
		return "access denied"
	case KindNotFound:
		return "not found"
	case KindInvalidInput:
		return "invalid input"
	case KindGateway:
		return "gateway error"
	case KindInsufficientUnits:
		return "insufficient units"
	case KindUnauthenticated:
		return "unauthenticated"
	}
	return "internal error"
}

// Error is the typed failure returned by the ledger core. The HTTP layer maps
// Kind to a status code and shows Message to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func AccessDenied(msg string) error { return &Error{Kind: KindAccessDenied, Message: msg} }

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) error { return &Error{Kind: KindInvalidInput, Message: msg} }

func GatewayError(msg string) error { return &Error{Kind: KindGateway, Message: msg} }

func InsufficientUnits(msg string) error { return &Error{Kind: KindInsufficientUnits, Message: msg} }

func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }

// Sentinels for errors.Is checks that only care about the kind.
var (
	ErrAccessDenied      = &Error{Kind: KindAccessDenied}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrGateway           = &Error{Kind: KindGateway}
	ErrInsufficientUnits = &Error{Kind: KindInsufficientUnits}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
)

// KindOf returns KindInternal for anything that is not a typed ledger error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-facing message of a typed error, or the raw
// error text otherwise.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
