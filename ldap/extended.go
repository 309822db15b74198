package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// ExtendedRequest ::= [APPLICATION 23] SEQUENCE {
//	   requestName      [0] LDAPOID,
//	   requestValue     [1] OCTET STRING OPTIONAL }
//
// Decoded carries the registry's typed payload (builtins.go's
// PasswordModifyRequest, for instance) when requestName has a registered
// ExtendedCodec; otherwise Decoded is nil and RawValue holds the opaque
// bytes.
type ExtendedRequest struct {
	Name     OID
	HasValue bool
	RawValue []byte
	Decoded  any
}

func (ExtendedRequest) OpTag() ber.Tag { return TagExtendedRequest }

func (r ExtendedRequest) encodeValue() []byte {
	out := ber.AppendElement(nil, ber.ContextSpecific(0, false), []byte(r.Name))
	if codec, ok := lookupExtendedCodec(string(r.Name)); ok && r.Decoded != nil {
		return ber.AppendElement(out, ber.ContextSpecific(1, false), codec.EncodeRequest(r.Decoded))
	}
	if r.HasValue {
		return ber.AppendElement(out, ber.ContextSpecific(1, false), r.RawValue)
	}
	return out
}

func decodeExtendedRequest(data []byte, messageID int64) (ExtendedRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) < 1 || len(children) > 2 {
		return ExtendedRequest{}, newProtocolError("ExtendedRequest must have 1 or 2 elements", err)
	}
	if children[0].Tag != ber.ContextSpecific(0, false) {
		return ExtendedRequest{}, newProtocolError("ExtendedRequest requestName must be [0]", nil)
	}
	oid, err := ParseOID(ber.GetOctetString(children[0].Value))
	if err != nil {
		return ExtendedRequest{}, newResponseCarryingError(messageID, ResultProtocolError,
			"ExtendedRequest requestName is not a well-formed OID", err)
	}
	req := ExtendedRequest{Name: oid}
	if len(children) == 2 {
		if children[1].Tag != ber.ContextSpecific(1, false) {
			return ExtendedRequest{}, newProtocolError("ExtendedRequest requestValue must be [1]", nil)
		}
		req.HasValue = true
		req.RawValue = children[1].Value
	}
	if codec, ok := lookupExtendedCodec(string(oid)); ok {
		decoded, err := codec.DecodeRequest(req.RawValue, req.HasValue)
		if err != nil {
			return ExtendedRequest{}, newResponseCarryingError(messageID, ResultProtocolError,
				"malformed "+string(oid)+" requestValue", err)
		}
		req.Decoded = decoded
	}
	return req, nil
}

// ExtendedResponse ::= [APPLICATION 24] SEQUENCE {
//	   COMPONENTS OF LDAPResult,
//	   responseName     [10] LDAPOID OPTIONAL,
//	   responseValue    [11] OCTET STRING OPTIONAL }
//
// spec invariant: messageID 0 is valid here and only here — an unsolicited
// notification (RFC 4511 §4.4.1) is an ExtendedResponse with no matching
// request.
type ExtendedResponse struct {
	Result
	HasName  bool
	Name     OID
	HasValue bool
	RawValue []byte
	Decoded  any
}

func (ExtendedResponse) OpTag() ber.Tag { return TagExtendedResponse }

func (r ExtendedResponse) encodeValue() []byte {
	out := r.Result.encode()
	if r.HasName {
		out = ber.AppendElement(out, ber.ContextSpecific(10, false), []byte(r.Name))
	}
	if codec, ok := lookupExtendedCodec(string(r.Name)); ok && r.Decoded != nil {
		return ber.AppendElement(out, ber.ContextSpecific(11, false), codec.EncodeResponse(r.Decoded))
	}
	if r.HasValue {
		out = ber.AppendElement(out, ber.ContextSpecific(11, false), r.RawValue)
	}
	return out
}

func decodeExtendedResponse(data []byte) (ExtendedResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return ExtendedResponse{}, newProtocolError("malformed ExtendedResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return ExtendedResponse{}, err
	}
	resp := ExtendedResponse{Result: result}
	if len(rest) > 0 && rest[0].Tag == ber.ContextSpecific(10, false) {
		oid, err := ParseOID(ber.GetOctetString(rest[0].Value))
		if err != nil {
			return ExtendedResponse{}, newProtocolError("ExtendedResponse responseName is not a well-formed OID", err)
		}
		resp.HasName = true
		resp.Name = oid
		rest = rest[1:]
	}
	if len(rest) > 0 && rest[0].Tag == ber.ContextSpecific(11, false) {
		resp.HasValue = true
		resp.RawValue = rest[0].Value
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return ExtendedResponse{}, newProtocolError("unexpected ExtendedResponse element", nil)
	}
	if resp.HasName {
		if codec, ok := lookupExtendedCodec(string(resp.Name)); ok {
			decoded, err := codec.DecodeResponse(resp.RawValue, resp.HasValue)
			if err != nil {
				return ExtendedResponse{}, newProtocolError("malformed "+string(resp.Name)+" responseValue", err)
			}
			resp.Decoded = decoded
		}
	}
	return resp, nil
}
