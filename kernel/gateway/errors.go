package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies gateway failures.
type Kind int

const (
	// TransportError means no response was received (DNS, timeout, reset).
	TransportError Kind = iota
	// AuthError is a 401 or 403.
	AuthError
	// ServerError is any other non-2xx response.
	ServerError
	// DomainError is a response the server considers fine but which does not
	// confirm the operation, e.g. delete answering 200 instead of 204.
	DomainError
)

func (k Kind) String() string {
	switch k {
	case TransportError:
		return "transport"
	case AuthError:
		return "auth"
	case ServerError:
		return "server"
	case DomainError:
		return "domain"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a gateway failure anywhere in err's chain.
// Errors that did not come from a gateway report false.
func KindOf(err error) (Kind, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind, true
	}
	return 0, false
}

func IsKind(err error, k Kind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}

func transportError(op string, err error) *Error {
	return &Error{Kind: TransportError, Op: op, Err: err}
}

// statusError classifies a response that did not carry the expected code.
func statusError(op string, code int, message string) *Error {
	e := &Error{Op: op, StatusCode: code, Message: message}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		e.Kind = AuthError
	case code >= 200 && code < 400:
		e.Kind = DomainError
	default:
		e.Kind = ServerError
	}
	return e
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
