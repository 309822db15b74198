package ldap

import (
	"strings"

	"github.com/go-ldapwire/ldapwire/ber"
	"github.com/google/uuid"
)

// binaryOptionSuffix marks an attribute description as carrying binary
// values per RFC 4522 ("attribute;binary"). AttributeValue's IsBinary flag
// is derived from this suffix at decode time rather than left for callers
// to infer from content.
const binaryOptionSuffix = ";binary"

// AttributeValue is a tagged union: exactly one of Text or Binary is
// meaningful, selected by IsBinary. Wire bytes are identical either way (an
// OCTET STRING); the distinction exists so a caller can't accidentally
// treat a binary certificate value as a printable string, which a bare
// `string` type would silently allow.
type AttributeValue struct {
	IsBinary bool
	Text     string
	Binary   []byte
}

func textValue(s string) AttributeValue   { return AttributeValue{Text: s} }
func binaryValue(b []byte) AttributeValue { return AttributeValue{IsBinary: true, Binary: b} }

// Bytes returns the value's raw octets regardless of which union arm is
// set.
func (v AttributeValue) Bytes() []byte {
	if v.IsBinary {
		return v.Binary
	}
	return []byte(v.Text)
}

// Attribute is a PartialAttribute/Attribute:
//
//	PartialAttribute ::= SEQUENCE {
//	     type       AttributeDescription,
//	     vals       SET OF value AttributeValue }
//	Attribute ::= PartialAttribute(WITH COMPONENTS {
//	     ...,
//	     vals (SIZE(1..MAX))})
//
// spec invariant: Attribute (as opposed to PartialAttribute, used in
// ModifyRequest's delete-all-values case) must carry at least one value;
// that check happens in add.go, not here. modify.go decodes a
// PartialAttribute and accepts an empty value set.
type Attribute struct {
	Description string
	Values      []AttributeValue
}

func (a Attribute) isBinaryDescription() bool {
	return strings.HasSuffix(a.Description, binaryOptionSuffix)
}

func decodeAttribute(data []byte) (Attribute, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return Attribute{}, newProtocolError("malformed Attribute", err)
	}
	if len(children) != 2 {
		return Attribute{}, newProtocolError("Attribute must have exactly 2 elements", nil)
	}
	if children[0].Tag != ber.TagOctetString {
		return Attribute{}, newProtocolError("Attribute type must be an OCTET STRING", nil)
	}
	description := ber.GetOctetString(children[0].Value)
	if children[1].Tag != ber.TagSet {
		return Attribute{}, newProtocolError("Attribute vals must be a SET", nil)
	}
	valueTLVs, err := ber.GetSequenceElements(children[1].Value)
	if err != nil {
		return Attribute{}, newProtocolError("malformed Attribute vals", err)
	}
	binary := strings.HasSuffix(description, binaryOptionSuffix)
	attr := Attribute{Description: description}
	for _, v := range valueTLVs {
		if v.Tag != ber.TagOctetString {
			return Attribute{}, newProtocolError("AttributeValue must be an OCTET STRING", nil)
		}
		if binary {
			attr.Values = append(attr.Values, binaryValue(append([]byte(nil), v.Value...)))
		} else {
			attr.Values = append(attr.Values, textValue(ber.GetOctetString(v.Value)))
		}
	}
	return attr, nil
}

// encode returns the value bytes of this PartialAttribute/Attribute
// (type + SET OF value), via the two-phase encoder's element tree: the
// caller wraps the result in its own enclosing SEQUENCE tag.
func (a Attribute) encode() []byte {
	values := make([]element, len(a.Values))
	for i, v := range a.Values {
		values[i] = primitiveElement(ber.TagOctetString, v.Bytes())
	}
	return serializeChildren([]element{
		primitiveElement(ber.TagOctetString, []byte(a.Description)),
		constructedElement(ber.TagSet, values...),
	})
}

// Entry is a SearchResultEntry's attribute list alongside the object's DN.
//
//	SearchResultEntry ::= [APPLICATION 4] SEQUENCE {
//	     objectName      LDAPDN,
//	     attributes      PartialAttributeList }
type Entry struct {
	ObjectName string
	Attributes []Attribute
}

// entryUUIDAttribute returns an entryUUID (RFC 4530, OID 1.3.6.1.1.16.4)
// attribute for an entry being added without one, so AddRequest handling
// never has to special-case a missing server-generated UUID.
func entryUUIDAttribute() Attribute {
	return Attribute{
		Description: "entryUUID",
		Values:      []AttributeValue{textValue(uuid.New().String())},
	}
}

// WithGeneratedEntryUUID returns attrs unchanged if one of them already has
// the entryUUID description (case-insensitively, per RFC 4512
// attribute-description matching); otherwise it returns
// append(attrs, <generated entryUUID attribute>), which may share attrs'
// backing array.
func WithGeneratedEntryUUID(attrs []Attribute) []Attribute {
	for _, a := range attrs {
		if strings.EqualFold(a.Description, "entryUUID") {
			return attrs
		}
	}
	return append(attrs, entryUUIDAttribute())
}
