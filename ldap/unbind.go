package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// UnbindRequest ::= [APPLICATION 2] NULL
//
// No response is ever sent for an UnbindRequest (RFC 4511 §4.3); the
// connection is simply closed by the caller once it sees one.
type UnbindRequest struct{}

func (UnbindRequest) OpTag() ber.Tag   { return TagUnbindRequest }
func (UnbindRequest) encodeValue() []byte { return nil }

func decodeUnbindRequest(data []byte) (UnbindRequest, error) {
	if len(data) != 0 {
		return UnbindRequest{}, newProtocolError("UnbindRequest must have an empty value", nil)
	}
	return UnbindRequest{}, nil
}
