// Package apperr defines the error taxonomy shared by all modules.
//
// Every constructor renders as "<sentinel>: <detail>". Errors returned by
// request-reply services reach the caller as a mono RemoteError carrying only
// that text, so Is and Message match the sentinel at the start of the remote
// message instead of anywhere in the string.
package apperr

import (
	"errors"
	"fmt"
	"strings"

	monoerrors "github.com/go-monolith/mono/pkg/errors"
)

var (
	// ErrUnauthorized is returned when no valid session or token identifies the caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation is returned when a request fails boundary validation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a record is absent or not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("conflict")
	// ErrUpstream is returned when the external generation endpoint misbehaves.
	ErrUpstream = errors.New("upstream error")
	// ErrEmptyResult is returned when the generation endpoint yields no suggestions.
	ErrEmptyResult = errors.New("empty result")
)

// Validation wraps ErrValidation with a field-level message.
// The message must not quote client input.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound with the kind of record that was looked up.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Conflict wraps ErrConflict with a description of the clash.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Upstream wraps ErrUpstream with a description of the failure.
func Upstream(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}

// Is reports whether err is the given sentinel, locally or across a request-reply call.
func Is(err, target error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, target) {
		return true
	}
	msg, ok := remoteMessage(err)
	if !ok {
		return false
	}
	return msg == target.Error() || strings.HasPrefix(msg, target.Error()+": ")
}

// Message returns the detail following the sentinel, if any.
// For a remote "validation failed: title is required" and ErrValidation it returns "title is required".
func Message(err, target error) string {
	if err == nil {
		return ""
	}
	prefix := target.Error() + ": "
	if msg, ok := remoteMessage(err); ok {
		detail, _ := strings.CutPrefix(msg, prefix)
		if detail == msg {
			return ""
		}
		return detail
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if detail, ok := strings.CutPrefix(e.Error(), prefix); ok {
			return detail
		}
	}
	return ""
}

// remoteMessage returns the handler's own error text from a request-reply failure,
// without the service name and error type mono adds around it.
func remoteMessage(err error) (string, bool) {
	var remote *monoerrors.RemoteError
	if !errors.As(err, &remote) {
		return "", false
	}
	return remote.Message, true
}
