package ber

import "github.com/pkg/errors"

// ErrNeedMoreBytes is returned (never wrapped) whenever a TLV cannot yet be
// fully read from the buffer. Callers distinguish it with errors.Is.
var ErrNeedMoreBytes = errors.New("ber: need more bytes")

// MalformedError reports a framing-level BER violation: indefinite length,
// a long-form tag, a truncated TLV, or an integer encoding that overflows
// the type being decoded into. It is always fatal to the current PDU.
type MalformedError struct {
	reason string
	cause  error
}

func newMalformed(reason string, cause error) *MalformedError {
	return &MalformedError{reason: reason, cause: errors.WithStack(cause)}
}

func (e *MalformedError) Error() string {
	if e.cause == nil {
		return "ber: malformed: " + e.reason
	}
	return "ber: malformed: " + e.reason + ": " + e.cause.Error()
}

func (e *MalformedError) Unwrap() error { return e.cause }

// IsMalformed reports whether err is (or wraps) a *MalformedError.
func IsMalformed(err error) bool {
	var m *MalformedError
	return errors.As(err, &m)
}
