package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// DeleteRequest ::= [APPLICATION 10] LDAPDN
//
// A bare OCTET STRING at the PDU level, like UnbindRequest and
// AbandonRequest — RFC 4511 §4.8 gives it no SEQUENCE wrapper.
type DeleteRequest struct {
	Object string
}

func (DeleteRequest) OpTag() ber.Tag      { return TagDeleteRequest }
func (r DeleteRequest) encodeValue() []byte { return []byte(r.Object) }

func decodeDeleteRequest(data []byte, messageID int64) (DeleteRequest, error) {
	object := ber.GetOctetString(data)
	if _, err := ParseDN(object); err != nil {
		return DeleteRequest{}, newResponseCarryingError(messageID, ResultInvalidDNSyntax,
			"DeleteRequest object is not a valid LDAPDN", err)
	}
	return DeleteRequest{Object: object}, nil
}

// DeleteResponse ::= [APPLICATION 11] LDAPResult
type DeleteResponse struct {
	Result
}

func (DeleteResponse) OpTag() ber.Tag        { return TagDeleteResponse }
func (r DeleteResponse) encodeValue() []byte { return r.Result.encode() }

func decodeDeleteResponse(data []byte) (DeleteResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return DeleteResponse{}, newProtocolError("malformed DeleteResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return DeleteResponse{}, err
	}
	if len(rest) > 0 {
		return DeleteResponse{}, newProtocolError("unexpected DeleteResponse element", nil)
	}
	return DeleteResponse{Result: result}, nil
}
