package xerr

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

type Error interface {
	Error() string

	Reason() Reason

	StackTrace() StackTrace

	Metadata() map[string]string

	Cause() error

	WithMetadata(key string, value string) Error

	Unwrap() error

	Is(target error) bool

	Format(s fmt.State, verb rune)
}

type xError struct {
	reason     Reason
	stackTrace StackTrace
	metadata   map[string]string
	cause      error
}

// Error renders the reason message, followed by the cause when there is one.
func (e *xError) Error() string {
	msg := "unknown error"
	if e.reason != nil {
		msg = e.reason.Message()
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *xError) Reason() Reason {
	return e.reason
}

func (e *xError) StackTrace() StackTrace {
	return e.stackTrace
}

func (e *xError) Metadata() map[string]string {
	result := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		result[k] = v
	}
	return result
}

func (e *xError) Cause() error {
	return e.cause
}

func (e *xError) WithMetadata(key string, value string) Error {
	if e.metadata == nil {
		e.metadata = make(map[string]string)
	}
	e.metadata[key] = value
	return e
}

func (e *xError) Unwrap() error {
	return e.cause
}

// Is reports a match when target is an xerr error carrying the same reason code.
func (e *xError) Is(target error) bool {
	if target == nil {
		return false
	}
	if e == target {
		return true
	}
	var x *xError
	if errors.As(target, &x) {
		if e.reason != nil && x.reason != nil {
			return e.reason.Code() == x.reason.Code()
		}
		return e.reason == x.reason
	}
	return false
}

func (e *xError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, e.Error())
		if s.Flag('+') && e.stackTrace != nil {
			_, _ = io.WriteString(s, "\n")
			_, _ = io.WriteString(s, strings.Join(e.stackTrace.Format(), "\n"))
		}
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

func New(reason Reason, causeErr error) Error {
	return &xError{
		reason:     reason,
		cause:      causeErr,
		stackTrace: NewStackTrace(),
		metadata:   make(map[string]string),
	}
}

func Wrap(err error, reason Reason) Error {
	if err == nil {
		return New(reason, nil)
	}

	var se *xError
	if errors.As(err, &se) {
		se.reason = reason
		return se
	}

	return New(reason, err)
}

// CodeOf returns the reason code of the first xerr error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var x *xError
	if !errors.As(err, &x) || x.reason == nil {
		return "", false
	}
	return x.reason.Code(), true
}

// HasCode reports whether err's chain carries an xerr error with the given code.
func HasCode(err error, code ErrorCode) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}
