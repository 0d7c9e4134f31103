package harness

import (
	"errors"
	"fmt"
)

// ErrorKind classifies harness failures.
type ErrorKind string

const (
	// KindNotFound: an element or block the caller asked for is absent
	KindNotFound ErrorKind = "not found"

	// KindResolution: a block, input, connection or mutator named in a
	// geometry request does not exist
	KindResolution ErrorKind = "resolution"

	// KindSession: the browser session could not be started or is gone
	KindSession ErrorKind = "session"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrNotFound   = errors.New("not found")
	ErrResolution = errors.New("resolution failed")
	ErrSession    = errors.New("session error")
)

// Error is a classified harness failure.
type Error struct {
	// Kind classifies the failure
	Kind ErrorKind

	// Op is the operation that failed, e.g. "FindCategory"
	Op string

	// Subject names what was being looked for
	Subject string

	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Subject != "" {
		msg += ": " + e.Subject
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrResolution:
		return e.Kind == KindResolution
	case ErrSession:
		return e.Kind == KindSession
	}
	return false
}

func notFound(op, subject string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Subject: subject, Err: err}
}

func resolutionError(op, subject string, err error) *Error {
	return &Error{Kind: KindResolution, Op: op, Subject: subject, Err: err}
}

func sessionError(op string, err error) *Error {
	return &Error{Kind: KindSession, Op: op, Err: err}
}

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
