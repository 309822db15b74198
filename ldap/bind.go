package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// AuthenticationType is the AuthenticationChoice tag: simple or SASL.
type AuthenticationType uint8

const (
	AuthenticationSimple AuthenticationType = 0
	AuthenticationSASL   AuthenticationType = 3
)

// SASLCredentials ::= SEQUENCE { mechanism LDAPString, credentials OCTET STRING OPTIONAL }
type SASLCredentials struct {
	Mechanism   string
	Credentials string
}

// BindRequest ::= [APPLICATION 0] SEQUENCE {
//	   version         INTEGER (1 ..  127),
//	   name            LDAPDN,
//	   authentication  AuthenticationChoice }
//
// spec invariant: version must be in 1..127; a BindRequest carrying version
// 3 is the only one RFC 4511 requires servers to honor, but the grammar
// itself only enforces the wire-level range, leaving version negotiation
// to the caller. Version3 records that check as a boolean so callers don't
// each re-derive Version == 3 themselves.
type BindRequest struct {
	Version         uint8
	Version3        bool
	Name            string
	AuthType        AuthenticationType
	SimplePassword  string
	SASLCredentials SASLCredentials
}

func (BindRequest) OpTag() ber.Tag { return TagBindRequest }

func (r BindRequest) encodeValue() []byte {
	out := ber.EncodeInteger(int64(r.Version))
	out = append(out, ber.EncodeOctetString(r.Name)...)
	switch r.AuthType {
	case AuthenticationSASL:
		body := ber.EncodeOctetString(r.SASLCredentials.Mechanism)
		if r.SASLCredentials.Credentials != "" {
			body = append(body, ber.EncodeOctetString(r.SASLCredentials.Credentials)...)
		}
		out = ber.AppendElement(out, ber.ContextSpecific(3, true), body)
	default:
		out = ber.AppendElement(out, ber.ContextSpecific(0, false), []byte(r.SimplePassword))
	}
	return out
}

func decodeBindRequest(data []byte, messageID int64) (BindRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) != 3 {
		return BindRequest{}, newProtocolError("BindRequest must have exactly 3 elements", err)
	}
	if children[0].Tag != ber.TagInteger {
		return BindRequest{}, newProtocolError("BindRequest version must be an INTEGER", nil)
	}
	version, err := ber.GetInteger(children[0].Value)
	if err != nil {
		return BindRequest{}, newProtocolError("invalid BindRequest version", err)
	}
	if version < 1 || version > 127 {
		return BindRequest{}, newProtocolError("BindRequest version out of range 1..127", nil)
	}
	if children[1].Tag != ber.TagOctetString {
		return BindRequest{}, newProtocolError("BindRequest name must be an OCTET STRING", nil)
	}
	name := ber.GetOctetString(children[1].Value)
	if children[2].Tag.Class() != ber.ClassContextSpecific {
		return BindRequest{}, newProtocolError("BindRequest authentication must be context-specific", nil)
	}
	req := BindRequest{
		Version:  uint8(version),
		Version3: version == 3,
		Name:     name,
		AuthType: AuthenticationType(children[2].Tag.Number()),
	}
	switch req.AuthType {
	case AuthenticationSimple:
		req.SimplePassword = ber.GetOctetString(children[2].Value)
	case AuthenticationSASL:
		sasl, err := ber.GetSequenceElements(children[2].Value)
		if err != nil || len(sasl) > 2 {
			return BindRequest{}, newProtocolError("malformed SaslCredentials", err)
		}
		if len(sasl) < 1 {
			return BindRequest{}, newResponseCarryingError(messageID, ResultInvalidCredentials,
				"SaslCredentials must include a mechanism", nil)
		}
		if sasl[0].Tag != ber.TagOctetString {
			return BindRequest{}, newProtocolError("SaslCredentials mechanism must be an OCTET STRING", nil)
		}
		req.SASLCredentials.Mechanism = ber.GetOctetString(sasl[0].Value)
		if len(sasl) == 2 {
			if sasl[1].Tag != ber.TagOctetString {
				return BindRequest{}, newProtocolError("SaslCredentials credentials must be an OCTET STRING", nil)
			}
			req.SASLCredentials.Credentials = ber.GetOctetString(sasl[1].Value)
		}
	}
	return req, nil
}

// BindResponse ::= [APPLICATION 1] SEQUENCE {
//	   COMPONENTS OF LDAPResult,
//	   serverSaslCreds    [7] OCTET STRING OPTIONAL }
type BindResponse struct {
	Result
	ServerSASLCredentials string
	HasServerSASLCredentials bool
}

func (BindResponse) OpTag() ber.Tag { return TagBindResponse }

func (r BindResponse) encodeValue() []byte {
	out := r.Result.encode()
	if r.HasServerSASLCredentials {
		out = ber.AppendElement(out, ber.ContextSpecific(7, false), []byte(r.ServerSASLCredentials))
	}
	return out
}

func decodeBindResponse(data []byte) (BindResponse, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return BindResponse{}, newProtocolError("malformed BindResponse", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return BindResponse{}, err
	}
	resp := BindResponse{Result: result}
	if len(rest) > 0 {
		if rest[0].Tag != ber.ContextSpecific(7, false) {
			return BindResponse{}, newProtocolError("unexpected BindResponse element", nil)
		}
		resp.HasServerSASLCredentials = true
		resp.ServerSASLCredentials = ber.GetOctetString(rest[0].Value)
	}
	return resp, nil
}
