package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// AddRequest ::= [APPLICATION 8] SEQUENCE {
//	   entry           LDAPDN,
//	   attributes      AttributeList }
type AddRequest struct {
	Entry      string
	Attributes []Attribute
}

func (AddRequest) OpTag() ber.Tag { return TagAddRequest }

func (r AddRequest) encodeValue() []byte {
	out := ber.EncodeOctetString(r.Entry)
	var attrBytes []byte
	for _, a := range r.Attributes {
		attrBytes = ber.AppendElement(attrBytes, ber.TagSequence, a.encode())
	}
	return append(out, ber.EncodeSequence(attrBytes)...)
}

func decodeAddRequest(data []byte, messageID int64) (AddRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) != 2 {
		return AddRequest{}, newProtocolError("AddRequest must have exactly 2 elements", err)
	}
	if children[0].Tag != ber.TagOctetString {
		return AddRequest{}, newProtocolError("AddRequest entry must be an OCTET STRING", nil)
	}
	entry := ber.GetOctetString(children[0].Value)
	if _, err := ParseDN(entry); err != nil {
		return AddRequest{}, newResponseCarryingError(messageID, ResultInvalidDNSyntax,
			"AddRequest entry is not a valid LDAPDN", err)
	}
	if children[1].Tag != ber.TagSequence {
		return AddRequest{}, newProtocolError("AddRequest attributes must be a SEQUENCE", nil)
	}
	attrTLVs, err := ber.GetSequenceElements(children[1].Value)
	if err != nil {
		return AddRequest{}, newProtocolError("malformed AttributeList", err)
	}
	var attrs []Attribute
	for _, t := range attrTLVs {
		if t.Tag != ber.TagSequence {
			return AddRequest{}, newProtocolError("Attribute must be a SEQUENCE", nil)
		}
		attr, err := decodeAttribute(t.Value)
		if err != nil {
			return AddRequest{}, err
		}
		if len(attr.Values) == 0 {
			return AddRequest{}, newProtocolError("Attribute must carry at least one value", nil)
		}
		attrs = append(attrs, attr)
	}
	return AddRequest{Entry: entry, Attributes: WithGeneratedEntryUUID(attrs)}, nil
}

// AddResponse ::= [APPLICATION 9] LDAPResult
type AddResponse struct {
	Result
}

func (AddResponse) OpTag() ber.Tag        { return TagAddResponse }
func (r AddResponse) encodeValue() []byte { return r.Result.encode() }

func decodeAddResponse(data []byte) (AddResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return AddResponse{}, newProtocolError("malformed AddResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return AddResponse{}, err
	}
	if len(rest) > 0 {
		return AddResponse{}, newProtocolError("unexpected AddResponse element", nil)
	}
	return AddResponse{Result: result}, nil
}
