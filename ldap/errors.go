// Package ldap implements the LDAPv3 (RFC 4511) message grammar on top of
// the ber and grammar packages: the concrete state tables for every
// protocol operation, the filter sub-grammar, DN parsing, the control
// envelope, and the two-phase encoder.
package ldap

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProtocolError reports a transport-level malformation: an unexpected tag,
// a missing required element, or anything else that makes the PDU itself
// unparseable. It is always fatal to the connection, not just the request
// — RFC 4511 has no way to reply to a PDU whose messageID couldn't even be
// read.
type ProtocolError struct {
	Reason string
	cause  error
}

func newProtocolError(reason string, cause error) *ProtocolError {
	return &ProtocolError{Reason: reason, cause: errors.WithStack(cause)}
}

func (e *ProtocolError) Error() string {
	if e.cause == nil {
		return "ldap: protocol error: " + e.Reason
	}
	return "ldap: protocol error: " + e.Reason + ": " + e.cause.Error()
}

func (e *ProtocolError) Unwrap() error { return e.cause }

// ResponseCarryingError reports a semantic violation that the protocol
// already has a well-formed response for: an invalid DN inside an
// AddRequest, an unparseable OID inside an ExtendedRequest, an invalid
// attribute syntax. The messageID is always known at this point, so the
// caller can still send SuggestedResultCode back to the client instead of
// dropping the connection.
type ResponseCarryingError struct {
	MessageID           int64
	SuggestedResultCode ResultCode
	Reason              string
	cause               error
}

func newResponseCarryingError(messageID int64, code ResultCode, reason string, cause error) *ResponseCarryingError {
	return &ResponseCarryingError{
		MessageID:           messageID,
		SuggestedResultCode: code,
		Reason:              reason,
		cause:               errors.WithStack(cause),
	}
}

func (e *ResponseCarryingError) Error() string {
	return fmt.Sprintf("ldap: message %d: %s (suggested result %d)", e.MessageID, e.Reason, e.SuggestedResultCode)
}

func (e *ResponseCarryingError) Unwrap() error { return e.cause }

// InternalEncoderError reports a programming error inside Encode itself —
// the phase-2 serialization pass produced a different length than phase 1
// computed. It is never caused by caller input and should never happen; it
// exists so a bug in the length cache fails loudly instead of writing a
// truncated PDU.
type InternalEncoderError struct {
	Reason string
}

func (e *InternalEncoderError) Error() string { return "ldap: internal encoder error: " + e.Reason }

// IsProtocolError reports whether err is (or wraps) a *ProtocolError.
func IsProtocolError(err error) bool {
	var e *ProtocolError
	return errors.As(err, &e)
}

// IsResponseCarryingError reports whether err is (or wraps) a
// *ResponseCarryingError, and returns it for convenience.
func IsResponseCarryingError(err error) (*ResponseCarryingError, bool) {
	var e *ResponseCarryingError
	ok := errors.As(err, &e)
	return e, ok
}
