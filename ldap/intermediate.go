package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// IntermediateResponse ::= [APPLICATION 25] SEQUENCE {
//	   responseName     [0] LDAPOID OPTIONAL,
//	   responseValue    [1] OCTET STRING OPTIONAL }
//
// Given a full grammar (not left an encode-only helper): both fields are
// optional and, unlike ExtendedResponse, there is no LDAPResult prefix —
// an IntermediateResponse never carries a result code of its own.
type IntermediateResponse struct {
	HasName  bool
	Name     OID
	HasValue bool
	RawValue []byte
}

func (IntermediateResponse) OpTag() ber.Tag { return TagIntermediateResponse }

func (r IntermediateResponse) encodeValue() []byte {
	var out []byte
	if r.HasName {
		out = ber.AppendElement(out, ber.ContextSpecific(0, false), []byte(r.Name))
	}
	if r.HasValue {
		out = ber.AppendElement(out, ber.ContextSpecific(1, false), r.RawValue)
	}
	return out
}

func decodeIntermediateResponse(data []byte) (IntermediateResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return IntermediateResponse{}, newProtocolError("malformed IntermediateResponse", err)
	}
	var resp IntermediateResponse
	rest := children
	if len(rest) > 0 && rest[0].Tag == ber.ContextSpecific(0, false) {
		oid, err := ParseOID(ber.GetOctetString(rest[0].Value))
		if err != nil {
			return IntermediateResponse{}, newProtocolError("IntermediateResponse responseName is not a well-formed OID", err)
		}
		resp.HasName = true
		resp.Name = oid
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0].Tag == ber.ContextSpecific(1, false) {
		resp.HasValue = true
		resp.RawValue = rest[0].Value
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return IntermediateResponse{}, newProtocolError("unexpected IntermediateResponse element", nil)
	}
	return resp, nil
}
