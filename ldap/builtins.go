// This file defines the codecs for the built-in controls and extended
// operations (registered by registry.go's init) listed
// in the ambient/domain stack expansion: RFC 2696 Paged Results, RFC 2891
// Server-Side Sort, the Virtual List View draft, RFC 3296 ManageDsaIT, the
// Password Policy response control, and RFC 3062 Password Modify. They
// exist so the registry in registry.go has real OIDs exercising it by
// default, not an empty map a caller has to populate before the codec does
// anything interesting.
package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// PagedResultsControl is the RFC 2696 realSearchControlValue:
//
//	SEQUENCE { size INTEGER, cookie OCTET STRING }
type PagedResultsControl struct {
	Size   int64
	Cookie []byte
}

type pagedResultsCodec struct{}

func (pagedResultsCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if !hasValue {
		return nil, newProtocolError("pagedResultsControl requires a value", nil)
	}
	children, err := ber.GetSequenceElements(raw)
	if err != nil || len(children) != 2 {
		return nil, newProtocolError("malformed pagedResultsControl", err)
	}
	size, err := ber.GetInteger(children[0].Value)
	if err != nil {
		return nil, newProtocolError("invalid pagedResultsControl size", err)
	}
	return PagedResultsControl{Size: size, Cookie: append([]byte(nil), children[1].Value...)}, nil
}

func (pagedResultsCodec) Encode(decoded any) []byte {
	c := decoded.(PagedResultsControl)
	body := ber.EncodeInteger(c.Size)
	body = append(body, ber.EncodeOctetString(string(c.Cookie))...)
	return ber.EncodeSequence(body)
}

// SortKey is one element of a ServerSideSortRequestControl.
type SortKey struct {
	AttributeType string
	OrderingRule  string
	ReverseOrder  bool
}

// SortRequestControl is RFC 2891's SortKeyList.
type SortRequestControl struct {
	Keys []SortKey
}

type sortRequestCodec struct{}

func (sortRequestCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if !hasValue {
		return nil, newProtocolError("sortKeyList requires a value", nil)
	}
	entries, err := ber.GetSequenceElements(raw)
	if err != nil {
		return nil, newProtocolError("malformed sortKeyList", err)
	}
	var ctrl SortRequestControl
	for _, e := range entries {
		parts, err := ber.GetSequenceElements(e.Value)
		if err != nil || len(parts) == 0 {
			return nil, newProtocolError("malformed SortKey", err)
		}
		key := SortKey{AttributeType: ber.GetOctetString(parts[0].Value)}
		for _, p := range parts[1:] {
			switch p.Tag {
			case ber.ContextSpecific(0, false):
				key.OrderingRule = ber.GetOctetString(p.Value)
			case ber.ContextSpecific(1, false):
				v, _, err := ber.GetBoolean(p.Value)
				if err != nil {
					return nil, newProtocolError("invalid reverseOrder boolean", err)
				}
				key.ReverseOrder = v
			}
		}
		ctrl.Keys = append(ctrl.Keys, key)
	}
	return ctrl, nil
}

func (sortRequestCodec) Encode(decoded any) []byte {
	c := decoded.(SortRequestControl)
	var body []byte
	for _, k := range c.Keys {
		kbody := ber.EncodeOctetString(k.AttributeType)
		if k.OrderingRule != "" {
			kbody = ber.AppendElement(kbody, ber.ContextSpecific(0, false), []byte(k.OrderingRule))
		}
		if k.ReverseOrder {
			kbody = ber.AppendElement(kbody, ber.ContextSpecific(1, false), []byte{0xff})
		}
		body = append(body, ber.EncodeSequence(kbody)...)
	}
	return ber.EncodeSequence(body)
}

// SortResponseControl is RFC 2891's response SEQUENCE.
type SortResponseControl struct {
	Result        ResultCode
	AttributeType string
}

type sortResponseCodec struct{}

func (sortResponseCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if !hasValue {
		return nil, newProtocolError("sortResult control requires a value", nil)
	}
	children, err := ber.GetSequenceElements(raw)
	if err != nil || len(children) == 0 {
		return nil, newProtocolError("malformed sortResult control", err)
	}
	code, err := ber.GetEnumerated(children[0].Value)
	if err != nil {
		return nil, newProtocolError("invalid sortResult", err)
	}
	ctrl := SortResponseControl{Result: ResultCode(code)}
	if len(children) > 1 && children[1].Tag == ber.ContextSpecific(0, false) {
		ctrl.AttributeType = ber.GetOctetString(children[1].Value)
	}
	return ctrl, nil
}

func (sortResponseCodec) Encode(decoded any) []byte {
	c := decoded.(SortResponseControl)
	body := ber.EncodeEnumerated(int64(c.Result))
	if c.AttributeType != "" {
		body = ber.AppendElement(body, ber.ContextSpecific(0, false), []byte(c.AttributeType))
	}
	return ber.EncodeSequence(body)
}

// VLVRequestControl is the Virtual List View request control value.
type VLVRequestControl struct {
	BeforeCount        int64
	AfterCount         int64
	ByOffset           bool
	Offset             int64
	ContentCount       int64
	GreaterThanOrEqual string
	ContextID          []byte
}

type vlvRequestCodec struct{}

func (vlvRequestCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if !hasValue {
		return nil, newProtocolError("VLV request control requires a value", nil)
	}
	children, err := ber.GetSequenceElements(raw)
	if err != nil || len(children) < 3 {
		return nil, newProtocolError("malformed VLV request control", err)
	}
	before, err := ber.GetInteger(children[0].Value)
	if err != nil {
		return nil, newProtocolError("invalid VLV beforeCount", err)
	}
	after, err := ber.GetInteger(children[1].Value)
	if err != nil {
		return nil, newProtocolError("invalid VLV afterCount", err)
	}
	ctrl := VLVRequestControl{BeforeCount: before, AfterCount: after}
	switch children[2].Tag {
	case ber.ContextSpecific(0, true):
		ctrl.ByOffset = true
		parts, err := ber.GetSequenceElements(children[2].Value)
		if err != nil || len(parts) != 2 {
			return nil, newProtocolError("malformed VLV byOffset", err)
		}
		ctrl.Offset, err = ber.GetInteger(parts[0].Value)
		if err != nil {
			return nil, newProtocolError("invalid VLV offset", err)
		}
		ctrl.ContentCount, err = ber.GetInteger(parts[1].Value)
		if err != nil {
			return nil, newProtocolError("invalid VLV contentCount", err)
		}
	case ber.ContextSpecific(1, false):
		ctrl.GreaterThanOrEqual = ber.GetOctetString(children[2].Value)
	default:
		return nil, newProtocolError("unknown VLV target choice", nil)
	}
	if len(children) > 3 && children[3].Tag == ber.TagOctetString {
		ctrl.ContextID = append([]byte(nil), children[3].Value...)
	}
	return ctrl, nil
}

func (vlvRequestCodec) Encode(decoded any) []byte {
	c := decoded.(VLVRequestControl)
	body := ber.EncodeInteger(c.BeforeCount)
	body = append(body, ber.EncodeInteger(c.AfterCount)...)
	if c.ByOffset {
		target := ber.EncodeInteger(c.Offset)
		target = append(target, ber.EncodeInteger(c.ContentCount)...)
		body = ber.AppendElement(body, ber.ContextSpecific(0, true), target)
	} else {
		body = ber.AppendElement(body, ber.ContextSpecific(1, false), []byte(c.GreaterThanOrEqual))
	}
	if c.ContextID != nil {
		body = append(body, ber.EncodeOctetString(string(c.ContextID))...)
	}
	return ber.EncodeSequence(body)
}

// VLVResponseControl is the Virtual List View response control value.
type VLVResponseControl struct {
	TargetPosition int64
	ContentCount   int64
	Result         ResultCode
	ContextID      []byte
}

type vlvResponseCodec struct{}

func (vlvResponseCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if !hasValue {
		return nil, newProtocolError("VLV response control requires a value", nil)
	}
	children, err := ber.GetSequenceElements(raw)
	if err != nil || len(children) < 3 {
		return nil, newProtocolError("malformed VLV response control", err)
	}
	pos, err := ber.GetInteger(children[0].Value)
	if err != nil {
		return nil, newProtocolError("invalid VLV targetPosition", err)
	}
	count, err := ber.GetInteger(children[1].Value)
	if err != nil {
		return nil, newProtocolError("invalid VLV contentCount", err)
	}
	result, err := ber.GetEnumerated(children[2].Value)
	if err != nil {
		return nil, newProtocolError("invalid VLV result", err)
	}
	ctrl := VLVResponseControl{TargetPosition: pos, ContentCount: count, Result: ResultCode(result)}
	if len(children) > 3 {
		ctrl.ContextID = append([]byte(nil), children[3].Value...)
	}
	return ctrl, nil
}

func (vlvResponseCodec) Encode(decoded any) []byte {
	c := decoded.(VLVResponseControl)
	body := ber.EncodeInteger(c.TargetPosition)
	body = append(body, ber.EncodeInteger(c.ContentCount)...)
	body = append(body, ber.EncodeEnumerated(int64(c.Result))...)
	if c.ContextID != nil {
		body = append(body, ber.EncodeOctetString(string(c.ContextID))...)
	}
	return ber.EncodeSequence(body)
}

// manageDsaITCodec handles RFC 3296 ManageDsaIT, a marker control with no
// controlValue at all.
type manageDsaITCodec struct{}

func (manageDsaITCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if hasValue {
		return nil, newProtocolError("ManageDsaIT control must not carry a value", nil)
	}
	return struct{}{}, nil
}

func (manageDsaITCodec) Encode(any) []byte { return nil }

// PasswordPolicyWarning is the [0] warning CHOICE of a password policy
// response control.
type PasswordPolicyWarning struct {
	Present              bool
	TimeBeforeExpiration int64
	IsGraceAuthNs        bool
	GraceAuthNsRemaining  int64
}

// PasswordPolicyResponseControl is draft-behera-ldap-password-policy's
// response control value.
type PasswordPolicyResponseControl struct {
	Warning    PasswordPolicyWarning
	ErrorSet   bool
	Error      int64
}

type passwordPolicyResponseCodec struct{}

func (passwordPolicyResponseCodec) Decode(raw []byte, hasValue bool) (any, error) {
	if !hasValue {
		return PasswordPolicyResponseControl{}, nil
	}
	children, err := ber.GetSequenceElements(raw)
	if err != nil {
		return nil, newProtocolError("malformed PasswordPolicyResponseControl", err)
	}
	var ctrl PasswordPolicyResponseControl
	for _, c := range children {
		switch c.Tag {
		case ber.ContextSpecific(0, true):
			inner, err := ber.NewCursor(c.Value).ReadTLV()
			if err != nil {
				return nil, newProtocolError("malformed password policy warning", err)
			}
			n, err := ber.GetInteger(inner.Value)
			if err != nil {
				return nil, newProtocolError("invalid password policy warning value", err)
			}
			ctrl.Warning.Present = true
			switch inner.Tag {
			case ber.ContextSpecific(0, false):
				ctrl.Warning.TimeBeforeExpiration = n
			case ber.ContextSpecific(1, false):
				ctrl.Warning.IsGraceAuthNs = true
				ctrl.Warning.GraceAuthNsRemaining = n
			default:
				return nil, newProtocolError("unknown password policy warning choice", nil)
			}
		case ber.ContextSpecific(1, false):
			n, err := ber.GetEnumerated(c.Value)
			if err != nil {
				return nil, newProtocolError("invalid password policy error", err)
			}
			ctrl.ErrorSet = true
			ctrl.Error = n
		}
	}
	return ctrl, nil
}

func (passwordPolicyResponseCodec) Encode(decoded any) []byte {
	c := decoded.(PasswordPolicyResponseControl)
	var body []byte
	if c.Warning.Present {
		var inner []byte
		if c.Warning.IsGraceAuthNs {
			inner = ber.AppendElement(nil, ber.ContextSpecific(1, false), ber.EncodeIntegerValue(c.Warning.GraceAuthNsRemaining))
		} else {
			inner = ber.AppendElement(nil, ber.ContextSpecific(0, false), ber.EncodeIntegerValue(c.Warning.TimeBeforeExpiration))
		}
		body = ber.AppendElement(body, ber.ContextSpecific(0, true), inner)
	}
	if c.ErrorSet {
		body = ber.AppendElement(body, ber.ContextSpecific(1, false), ber.EncodeIntegerValue(c.Error))
	}
	return ber.EncodeSequence(body)
}

// PasswordModifyRequest is RFC 3062's passwdModifyRequestValue.
type PasswordModifyRequest struct {
	UserIdentity string
	OldPassword  string
	NewPassword  string
}

// PasswordModifyResponse is RFC 3062's passwdModifyResponseValue.
type PasswordModifyResponse struct {
	GenPasswd string
}

type passwordModifyCodec struct{}

func (passwordModifyCodec) DecodeRequest(value []byte, hasValue bool) (any, error) {
	if !hasValue {
		return PasswordModifyRequest{}, nil
	}
	children, err := ber.GetSequenceElements(value)
	if err != nil {
		return nil, newProtocolError("malformed PasswordModifyRequest", err)
	}
	var req PasswordModifyRequest
	for _, c := range children {
		switch c.Tag {
		case ber.ContextSpecific(0, false):
			req.UserIdentity = ber.GetOctetString(c.Value)
		case ber.ContextSpecific(1, false):
			req.OldPassword = ber.GetOctetString(c.Value)
		case ber.ContextSpecific(2, false):
			req.NewPassword = ber.GetOctetString(c.Value)
		}
	}
	return req, nil
}

func (passwordModifyCodec) EncodeRequest(decoded any) []byte {
	r := decoded.(PasswordModifyRequest)
	var body []byte
	if r.UserIdentity != "" {
		body = ber.AppendElement(body, ber.ContextSpecific(0, false), []byte(r.UserIdentity))
	}
	if r.OldPassword != "" {
		body = ber.AppendElement(body, ber.ContextSpecific(1, false), []byte(r.OldPassword))
	}
	if r.NewPassword != "" {
		body = ber.AppendElement(body, ber.ContextSpecific(2, false), []byte(r.NewPassword))
	}
	return body
}

func (passwordModifyCodec) DecodeResponse(value []byte, hasValue bool) (any, error) {
	if !hasValue {
		return PasswordModifyResponse{}, nil
	}
	children, err := ber.GetSequenceElements(value)
	if err != nil {
		return nil, newProtocolError("malformed PasswordModifyResponse", err)
	}
	var resp PasswordModifyResponse
	if len(children) > 0 && children[0].Tag == ber.ContextSpecific(0, false) {
		resp.GenPasswd = ber.GetOctetString(children[0].Value)
	}
	return resp, nil
}

func (passwordModifyCodec) EncodeResponse(decoded any) []byte {
	r := decoded.(PasswordModifyResponse)
	if r.GenPasswd == "" {
		return nil
	}
	return ber.AppendElement(nil, ber.ContextSpecific(0, false), []byte(r.GenPasswd))
}
