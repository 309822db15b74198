package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// ModifyOperation is the ENUMERATED operation field of a ModifyChange.
type ModifyOperation uint8

const (
	ModifyAdd     ModifyOperation = 0
	ModifyDelete  ModifyOperation = 1
	ModifyReplace ModifyOperation = 2
)

// ModifyChange ::= SEQUENCE {
//	   operation       ENUMERATED { add(0), delete(1), replace(2) },
//	   modification    PartialAttribute }
//
// Modification uses PartialAttribute (zero or more values — a delete of
// "all values of this attribute" encodes an empty SET), unlike AddRequest's
// Attribute which requires at least one.
type ModifyChange struct {
	Operation    ModifyOperation
	Modification Attribute
}

// ModifyRequest ::= [APPLICATION 6] SEQUENCE {
//	   object   LDAPDN,
//	   changes  SEQUENCE OF change ModifyChange }
type ModifyRequest struct {
	Object  string
	Changes []ModifyChange
}

func (ModifyRequest) OpTag() ber.Tag { return TagModifyRequest }

func (r ModifyRequest) encodeValue() []byte {
	out := ber.EncodeOctetString(r.Object)
	var changesBytes []byte
	for _, c := range r.Changes {
		body := ber.EncodeEnumerated(int64(c.Operation))
		body = ber.AppendElement(body, ber.TagSequence, c.Modification.encode())
		changesBytes = ber.AppendElement(changesBytes, ber.TagSequence, body)
	}
	return append(out, ber.EncodeSequence(changesBytes)...)
}

func decodeModifyRequest(data []byte) (ModifyRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) != 2 {
		return ModifyRequest{}, newProtocolError("ModifyRequest must have exactly 2 elements", err)
	}
	if children[0].Tag != ber.TagOctetString {
		return ModifyRequest{}, newProtocolError("ModifyRequest object must be an OCTET STRING", nil)
	}
	object := ber.GetOctetString(children[0].Value)
	if children[1].Tag != ber.TagSequence {
		return ModifyRequest{}, newProtocolError("ModifyRequest changes must be a SEQUENCE", nil)
	}
	changeTLVs, err := ber.GetSequenceElements(children[1].Value)
	if err != nil {
		return ModifyRequest{}, newProtocolError("malformed ModifyRequest changes", err)
	}
	var changes []ModifyChange
	for _, ct := range changeTLVs {
		if ct.Tag != ber.TagSequence {
			return ModifyRequest{}, newProtocolError("ModifyChange must be a SEQUENCE", nil)
		}
		parts, err := ber.GetSequenceElements(ct.Value)
		if err != nil || len(parts) != 2 {
			return ModifyRequest{}, newProtocolError("ModifyChange must have exactly 2 elements", err)
		}
		if parts[0].Tag != ber.TagEnumerated {
			return ModifyRequest{}, newProtocolError("ModifyChange operation must be ENUMERATED", nil)
		}
		op, err := ber.GetEnumerated(parts[0].Value)
		if err != nil {
			return ModifyRequest{}, newProtocolError("invalid ModifyChange operation", err)
		}
		if op < 0 || op > 2 {
			return ModifyRequest{}, newProtocolError("unknown ModifyChange operation", nil)
		}
		if parts[1].Tag != ber.TagSequence {
			return ModifyRequest{}, newProtocolError("ModifyChange modification must be a SEQUENCE", nil)
		}
		attr, err := decodeAttribute(parts[1].Value)
		if err != nil {
			return ModifyRequest{}, err
		}
		changes = append(changes, ModifyChange{Operation: ModifyOperation(op), Modification: attr})
	}
	return ModifyRequest{Object: object, Changes: changes}, nil
}

// ModifyResponse ::= [APPLICATION 7] LDAPResult
type ModifyResponse struct {
	Result
}

func (ModifyResponse) OpTag() ber.Tag        { return TagModifyResponse }
func (r ModifyResponse) encodeValue() []byte { return r.Result.encode() }

func decodeModifyResponse(data []byte) (ModifyResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return ModifyResponse{}, newProtocolError("malformed ModifyResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return ModifyResponse{}, err
	}
	if len(rest) > 0 {
		return ModifyResponse{}, newProtocolError("unexpected ModifyResponse element", nil)
	}
	return ModifyResponse{Result: result}, nil
}
