package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a failed store operation.
type Kind int

const (
	// KindTransport covers connectivity failures, unexpected server
	// responses and undecodable bodies.
	KindTransport Kind = iota
	// KindNotFound means the operation referenced an unknown id.
	KindNotFound
	// KindValidation means the store rejected the payload.
	KindValidation
)

// Sentinel errors matched by errors.Is against any *Error of the same kind.
var (
	ErrTransport  = errors.New("transport failure")
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("invalid record")
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "transport"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindValidation:
		return ErrValidation
	default:
		return ErrTransport
	}
}

// Error is returned by every Store implementation.
type Error struct {
	Op     string // list, create, update, delete
	ID     ID
	Kind   Kind
	Fields []string // offending fields for validation failures, when known
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if !e.ID.IsZero() {
		msg += " " + string(e.ID)
	}
	msg += ": " + e.Kind.sentinel().Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Reason returns the short tag for err: "transport", "not_found" or
// "validation". Errors that did not come from a store are reported as
// transport failures; nil yields "".
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind.String()
	}
	return KindTransport.String()
}

func transportError(op string, id ID, err error) *Error {
	return &Error{Op: op, ID: id, Kind: KindTransport, Err: err}
}

func notFoundError(op string, id ID) *Error {
	return &Error{Op: op, ID: id, Kind: KindNotFound}
}

func validationError(op string, id ID, fields []string, err error) *Error {
	return &Error{Op: op, ID: id, Kind: KindValidation, Fields: fields, Err: err}
}

func statusError(status int, body string) error {
	if body == "" {
		return fmt.Errorf("status %d", status)
	}
	return fmt.Errorf("status %d: %s", status, body)
}
