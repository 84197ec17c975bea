// Package corerr defines the kind-tagged error taxonomy shared by every
// layer of the SDK: typed, wrappable errors so callers can branch on
// failure kind instead of matching substrings in an error string.
package corerr

import (
	"errors"
	"fmt"
)

// Kind classifies the way a failure can occur.
type Kind int

const (
	// InvalidArgument means the caller violated a precondition.
	InvalidArgument Kind = iota
	// NotConnected means an operation was issued on a non-ready transport/client.
	NotConnected
	// TransportInit means socket creation failed during setup.
	TransportInit
	// Dial means the outbound connect attempt failed.
	Dial
	// Bind means listen/bind failed during reply-server setup.
	Bind
	// Timeout means a send or receive exceeded its deadline.
	Timeout
	// Malformed means a frame was too short or internally inconsistent.
	Malformed
	// ProtocolViolation means a reply's msg_id didn't match the expected pair.
	ProtocolViolation
	// HandlerRejected means a registration was a duplicate or otherwise invalid.
	HandlerRejected
	// HandlerError means a user handler returned an error.
	HandlerError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case NotConnected:
		return "NotConnected"
	case TransportInit:
		return "TransportInit"
	case Dial:
		return "Dial"
	case Bind:
		return "Bind"
	case Timeout:
		return "Timeout"
	case Malformed:
		return "Malformed"
	case ProtocolViolation:
		return "ProtocolViolation"
	case HandlerRejected:
		return "HandlerRejected"
	case HandlerError:
		return "HandlerError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type carried by every kind in the taxonomy.
// It wraps an optional underlying cause and participates in errors.Is/As
// via Unwrap.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error of kind k, unwrapping as needed.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

// ProtocolViolationDetail carries the observed-vs-expected msg_ids for a
// ProtocolViolation error so callers can inspect both without parsing the
// message string.
type ProtocolViolationDetail struct {
	Observed uint32
	Expected uint32
}

// NewProtocolViolation builds a ProtocolViolation error carrying both the
// observed and expected reply msg_ids.
func NewProtocolViolation(observed, expected uint32) *Error {
	return &Error{
		Kind:    ProtocolViolation,
		Message: fmt.Sprintf("unexpected reply msg_id 0x%X, expected 0x%X", observed, expected),
		Cause:   ProtocolViolationDetail{Observed: observed, Expected: expected},
	}
}

func (d ProtocolViolationDetail) Error() string {
	return fmt.Sprintf("observed=0x%X expected=0x%X", d.Observed, d.Expected)
}
