package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// SearchScope ::= ENUMERATED { baseObject(0), singleLevel(1), wholeSubtree(2) }
type SearchScope uint8

const (
	SearchScopeBaseObject   SearchScope = 0
	SearchScopeSingleLevel  SearchScope = 1
	SearchScopeWholeSubtree SearchScope = 2
)

// AliasDerefType ::= ENUMERATED { neverDerefAliases(0), derefInSearching(1),
//	derefFindingBaseObj(2), derefAlways(3) }
type AliasDerefType uint8

const (
	AliasDerefNever          AliasDerefType = 0
	AliasDerefInSearching    AliasDerefType = 1
	AliasDerefFindingBaseObj AliasDerefType = 2
	AliasDerefAlways         AliasDerefType = 3
)

// SearchRequest ::= [APPLICATION 3] SEQUENCE {
//	   baseObject      LDAPDN,
//	   scope           ENUMERATED { ... },
//	   derefAliases    ENUMERATED { ... },
//	   sizeLimit       INTEGER (0 .. maxInt),
//	   timeLimit       INTEGER (0 .. maxInt),
//	   typesOnly       BOOLEAN,
//	   filter          Filter,
//	   attributes      AttributeSelection }
//
// SizeLimit and TimeLimit are held as int64; decoding accepts only values
// in 0..maxInt (2^31-1) and rejects anything larger as a ProtocolError.
type SearchRequest struct {
	BaseObject   string
	Scope        SearchScope
	DerefAliases AliasDerefType
	SizeLimit    int64
	TimeLimit    int64
	TypesOnly    bool
	Filter       Filter
	Attributes   []string
}

func (SearchRequest) OpTag() ber.Tag { return TagSearchRequest }

func (r SearchRequest) encodeValue() []byte {
	out := ber.EncodeOctetString(r.BaseObject)
	out = append(out, ber.EncodeEnumerated(int64(r.Scope))...)
	out = append(out, ber.EncodeEnumerated(int64(r.DerefAliases))...)
	out = append(out, ber.EncodeInteger(r.SizeLimit)...)
	out = append(out, ber.EncodeInteger(r.TimeLimit)...)
	out = append(out, ber.EncodeBoolean(r.TypesOnly)...)
	out = append(out, r.Filter.encode()...)
	var attrs []byte
	for _, a := range r.Attributes {
		attrs = append(attrs, ber.EncodeOctetString(a)...)
	}
	return append(out, ber.EncodeSequence(attrs)...)
}

func decodeSearchRequest(data []byte) (SearchRequest, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) != 8 {
		return SearchRequest{}, newProtocolError("SearchRequest must have exactly 8 elements", err)
	}
	if children[0].Tag != ber.TagOctetString {
		return SearchRequest{}, newProtocolError("SearchRequest baseObject must be an OCTET STRING", nil)
	}
	baseObject := ber.GetOctetString(children[0].Value)
	if children[1].Tag != ber.TagEnumerated {
		return SearchRequest{}, newProtocolError("SearchRequest scope must be ENUMERATED", nil)
	}
	scope, err := ber.GetEnumerated(children[1].Value)
	if err != nil {
		return SearchRequest{}, newProtocolError("invalid SearchRequest scope", err)
	}
	if scope < 0 || scope > 2 {
		return SearchRequest{}, newProtocolError("unknown SearchRequest scope", nil)
	}
	if children[2].Tag != ber.TagEnumerated {
		return SearchRequest{}, newProtocolError("SearchRequest derefAliases must be ENUMERATED", nil)
	}
	deref, err := ber.GetEnumerated(children[2].Value)
	if err != nil {
		return SearchRequest{}, newProtocolError("invalid SearchRequest derefAliases", err)
	}
	if deref < 0 || deref > 3 {
		return SearchRequest{}, newProtocolError("unknown SearchRequest derefAliases", nil)
	}
	if children[3].Tag != ber.TagInteger {
		return SearchRequest{}, newProtocolError("SearchRequest sizeLimit must be an INTEGER", nil)
	}
	sizeLimit, err := ber.GetInteger(children[3].Value)
	if err != nil || sizeLimit < 0 || sizeLimit > ber.MaxInt {
		return SearchRequest{}, newProtocolError("invalid SearchRequest sizeLimit", err)
	}
	if children[4].Tag != ber.TagInteger {
		return SearchRequest{}, newProtocolError("SearchRequest timeLimit must be an INTEGER", nil)
	}
	timeLimit, err := ber.GetInteger(children[4].Value)
	if err != nil || timeLimit < 0 || timeLimit > ber.MaxInt {
		return SearchRequest{}, newProtocolError("invalid SearchRequest timeLimit", err)
	}
	if children[5].Tag != ber.TagBoolean {
		return SearchRequest{}, newProtocolError("SearchRequest typesOnly must be a BOOLEAN", nil)
	}
	typesOnly, warn, err := ber.GetBoolean(children[5].Value)
	if err != nil {
		return SearchRequest{}, newProtocolError("invalid SearchRequest typesOnly", err)
	}
	if warn {
		logWarn("SearchRequest typesOnly was not exactly 0xFF")
	}
	filter, err := decodeFilter(children[6])
	if err != nil {
		return SearchRequest{}, err
	}
	if children[7].Tag != ber.TagSequence {
		return SearchRequest{}, newProtocolError("SearchRequest attributes must be a SEQUENCE", nil)
	}
	attrTLVs, err := ber.GetSequenceElements(children[7].Value)
	if err != nil {
		return SearchRequest{}, newProtocolError("malformed AttributeSelection", err)
	}
	var attrs []string
	for _, a := range attrTLVs {
		if a.Tag != ber.TagOctetString {
			return SearchRequest{}, newProtocolError("AttributeSelection element must be an OCTET STRING", nil)
		}
		attrs = append(attrs, ber.GetOctetString(a.Value))
	}
	return SearchRequest{
		BaseObject:   baseObject,
		Scope:        SearchScope(scope),
		DerefAliases: AliasDerefType(deref),
		SizeLimit:    sizeLimit,
		TimeLimit:    timeLimit,
		TypesOnly:    typesOnly,
		Filter:       filter,
		Attributes:   attrs,
	}, nil
}

// SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//	   objectName      LDAPDN,
//	   attributes      PartialAttributeList }
type SearchResultEntry struct {
	ObjectName string
	Attributes []Attribute
}

func (SearchResultEntry) OpTag() ber.Tag { return TagSearchResultEntry }

func (e SearchResultEntry) encodeValue() []byte {
	out := ber.EncodeOctetString(e.ObjectName)
	var attrBytes []byte
	for _, a := range e.Attributes {
		attrBytes = ber.AppendElement(attrBytes, ber.TagSequence, a.encode())
	}
	return append(out, ber.EncodeSequence(attrBytes)...)
}

func decodeSearchResultEntry(data []byte) (SearchResultEntry, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil || len(children) != 2 {
		return SearchResultEntry{}, newProtocolError("SearchResultEntry must have exactly 2 elements", err)
	}
	if children[0].Tag != ber.TagOctetString {
		return SearchResultEntry{}, newProtocolError("SearchResultEntry objectName must be an OCTET STRING", nil)
	}
	objectName := ber.GetOctetString(children[0].Value)
	if children[1].Tag != ber.TagSequence {
		return SearchResultEntry{}, newProtocolError("SearchResultEntry attributes must be a SEQUENCE", nil)
	}
	attrTLVs, err := ber.GetSequenceElements(children[1].Value)
	if err != nil {
		return SearchResultEntry{}, newProtocolError("malformed PartialAttributeList", err)
	}
	var attrs []Attribute
	for _, t := range attrTLVs {
		if t.Tag != ber.TagSequence {
			return SearchResultEntry{}, newProtocolError("PartialAttribute must be a SEQUENCE", nil)
		}
		attr, err := decodeAttribute(t.Value)
		if err != nil {
			return SearchResultEntry{}, err
		}
		attrs = append(attrs, attr)
	}
	return SearchResultEntry{ObjectName: objectName, Attributes: attrs}, nil
}

// SearchResultDone ::= [APPLICATION 5] LDAPResult
type SearchResultDone struct {
	Result
}

func (SearchResultDone) OpTag() ber.Tag        { return TagSearchResultDone }
func (r SearchResultDone) encodeValue() []byte { return r.Result.encode() }

func decodeSearchResultDone(data []byte) (SearchResultDone, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return SearchResultDone{}, newProtocolError("malformed SearchResultDone", err)
	}
	result, rest, err := decodeResult(children)
	if err != nil {
		return SearchResultDone{}, err
	}
	if len(rest) > 0 {
		return SearchResultDone{}, newProtocolError("unexpected SearchResultDone element", nil)
	}
	return SearchResultDone{Result: result}, nil
}

// SearchResultReference ::= [APPLICATION 19] SEQUENCE SIZE (1..MAX) OF uri URI
//
// Given a full grammar here (not left an encode-only helper, as the
// sub-grammar-free teacher treats it): decode validates the SEQUENCE has
// at least one URI, each an OCTET STRING.
type SearchResultReference struct {
	URIs []string
}

func (SearchResultReference) OpTag() ber.Tag { return TagSearchResultReference }

func (r SearchResultReference) encodeValue() []byte {
	var out []byte
	for _, uri := range r.URIs {
		out = append(out, ber.EncodeOctetString(uri)...)
	}
	return out
}

func decodeSearchResultReference(data []byte) (SearchResultReference, error) {
	tlvs, err := ber.GetSequenceElements(data)
	if err != nil {
		return SearchResultReference{}, newProtocolError("malformed SearchResultReference", err)
	}
	if len(tlvs) == 0 {
		return SearchResultReference{}, newProtocolError("SearchResultReference must carry at least one URI", nil)
	}
	var uris []string
	for _, t := range tlvs {
		if t.Tag != ber.TagOctetString {
			return SearchResultReference{}, newProtocolError("SearchResultReference URI must be an OCTET STRING", nil)
		}
		uris = append(uris, ber.GetOctetString(t.Value))
	}
	return SearchResultReference{URIs: uris}, nil
}
