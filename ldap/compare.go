package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// CompareRequest ::= [APPLICATION 14] SEQUENCE {
//	   entry    LDAPDN,
//	   ava      AttributeValueAssertion }
type CompareRequest struct {
	Object    string
	Attribute string
	Value     string
}

func (CompareRequest) OpTag() ber.Tag { return TagCompareRequest }

func (r CompareRequest) encodeValue() []byte {
	out := ber.EncodeOctetString(r.Object)
	ava := append(ber.EncodeOctetString(r.Attribute), ber.EncodeOctetString(r.Value)...)
	return append(out, ber.EncodeSequence(ava)...)
}

func decodeCompareRequest(data []byte) (CompareRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) != 2 {
		return CompareRequest{}, newProtocolError("CompareRequest must have exactly 2 elements", err)
	}
	if children[0].Tag != ber.TagOctetString {
		return CompareRequest{}, newProtocolError("CompareRequest entry must be an OCTET STRING", nil)
	}
	object := ber.GetOctetString(children[0].Value)
	if children[1].Tag != ber.TagSequence {
		return CompareRequest{}, newProtocolError("CompareRequest ava must be a SEQUENCE", nil)
	}
	ava, err := decodeAttributeValueAssertion(children[1].Value)
	if err != nil {
		return CompareRequest{}, err
	}
	return CompareRequest{Object: object, Attribute: ava.Description, Value: ava.Value}, nil
}

// CompareResponse ::= [APPLICATION 15] LDAPResult
//
// spec invariant: a comparison outcome is always one of ResultCompareTrue
// or ResultCompareFalse on success — any other code means the comparison
// itself could not be evaluated (no such object, insufficient access, ...).
type CompareResponse struct {
	Result
}

func (CompareResponse) OpTag() ber.Tag        { return TagCompareResponse }
func (r CompareResponse) encodeValue() []byte { return r.Result.encode() }

func decodeCompareResponse(data []byte) (CompareResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return CompareResponse{}, newProtocolError("malformed CompareResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return CompareResponse{}, err
	}
	if len(rest) > 0 {
		return CompareResponse{}, newProtocolError("unexpected CompareResponse element", nil)
	}
	return CompareResponse{Result: result}, nil
}
