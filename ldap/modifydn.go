package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// ModifyDNRequest ::= [APPLICATION 12] SEQUENCE {
//	   entry        LDAPDN,
//	   newrdn       RelativeLDAPDN,
//	   deleteoldrdn BOOLEAN,
//	   newSuperior  [0] LDAPDN OPTIONAL }
type ModifyDNRequest struct {
	Entry           string
	NewRDN          string
	DeleteOldRDN    bool
	HasNewSuperior  bool
	NewSuperior     string
}

func (ModifyDNRequest) OpTag() ber.Tag { return TagModifyDNRequest }

func (r ModifyDNRequest) encodeValue() []byte {
	out := ber.EncodeOctetString(r.Entry)
	out = append(out, ber.EncodeOctetString(r.NewRDN)...)
	out = append(out, ber.EncodeBoolean(r.DeleteOldRDN)...)
	if r.HasNewSuperior {
		out = ber.AppendElement(out, ber.ContextSpecific(0, false), []byte(r.NewSuperior))
	}
	return out
}

// decodeModifyDNRequest implements the newSuperior-present-but-empty
// decision recorded in the grounding ledger: an empty newSuperior is
// accepted and treated as "keep the current parent" when deleteoldrdn is
// false, but is a ResponseCarryingError when deleteoldrdn is true, since
// there the client has asked to detach the entry's old RDN with nowhere
// for the entry to land.
func decodeModifyDNRequest(data []byte, messageID int64) (ModifyDNRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) < 3 || len(children) > 4 {
		return ModifyDNRequest{}, newProtocolError("ModifyDNRequest must have 3 or 4 elements", err)
	}
	if children[0].Tag != ber.TagOctetString {
		return ModifyDNRequest{}, newProtocolError("ModifyDNRequest entry must be an OCTET STRING", nil)
	}
	entry := ber.GetOctetString(children[0].Value)
	if children[1].Tag != ber.TagOctetString {
		return ModifyDNRequest{}, newProtocolError("ModifyDNRequest newrdn must be an OCTET STRING", nil)
	}
	newRDN := ber.GetOctetString(children[1].Value)
	rdn, err := ParseDN(newRDN)
	if err != nil || len(rdn) != 1 {
		return ModifyDNRequest{}, newResponseCarryingError(messageID, ResultInvalidDNSyntax,
			"ModifyDNRequest newrdn must be a single valid RDN", err)
	}
	if children[2].Tag != ber.TagBoolean {
		return ModifyDNRequest{}, newProtocolError("ModifyDNRequest deleteoldrdn must be a BOOLEAN", nil)
	}
	deleteOldRDN, warn, err := ber.GetBoolean(children[2].Value)
	if err != nil {
		return ModifyDNRequest{}, newProtocolError("invalid ModifyDNRequest deleteoldrdn", err)
	}
	if warn {
		logWarn("ModifyDNRequest deleteoldrdn was not exactly 0xFF")
	}
	req := ModifyDNRequest{Entry: entry, NewRDN: newRDN, DeleteOldRDN: deleteOldRDN}
	if len(children) == 4 {
		if children[3].Tag != ber.ContextSpecific(0, false) {
			return ModifyDNRequest{}, newProtocolError("ModifyDNRequest newSuperior must be [0]", nil)
		}
		req.HasNewSuperior = true
		req.NewSuperior = ber.GetOctetString(children[3].Value)
		if req.NewSuperior == "" {
			if req.DeleteOldRDN {
				return ModifyDNRequest{}, newResponseCarryingError(messageID, ResultInvalidDNSyntax,
					"newSuperior present but empty while deleteoldrdn is true", nil)
			}
			logWarn("ModifyDNRequest newSuperior present but empty; keeping current parent")
		}
	}
	return req, nil
}

// ModifyDNResponse ::= [APPLICATION 13] LDAPResult
type ModifyDNResponse struct {
	Result
}

func (ModifyDNResponse) OpTag() ber.Tag        { return TagModifyDNResponse }
func (r ModifyDNResponse) encodeValue() []byte { return r.Result.encode() }

func decodeModifyDNResponse(data []byte) (ModifyDNResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return ModifyDNResponse{}, newProtocolError("malformed ModifyDNResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return ModifyDNResponse{}, err
	}
	if len(rest) > 0 {
		return ModifyDNResponse{}, newProtocolError("unexpected ModifyDNResponse element", nil)
	}
	return ModifyDNResponse{Result: result}, nil
}
