package ldap

import (
	"github.com/go-ldapwire/ldapwire/ber"
	"github.com/go-ldapwire/ldapwire/grammar"
)

// FilterKind identifies which Filter CHOICE alternative a node represents;
// it doubles as the context-specific tag number (RFC 4511 §4.5.1.7).
type FilterKind uint8

const (
	FilterAnd             FilterKind = 0
	FilterOr              FilterKind = 1
	FilterNot             FilterKind = 2
	FilterEqualityMatch   FilterKind = 3
	FilterSubstrings      FilterKind = 4
	FilterGreaterOrEqual  FilterKind = 5
	FilterLessOrEqual     FilterKind = 6
	FilterPresent         FilterKind = 7
	FilterApproxMatch     FilterKind = 8
	FilterExtensibleMatch FilterKind = 9
)

// Filter is the recursive filter tree of RFC 4511 §4.5.1.7. Exactly one of
// the fields relevant to Kind is populated:
//
//	And, Or            -- Children (non-empty: spec §3 invariant)
//	Not                -- Children[0]
//	EqualityMatch, GreaterOrEqual, LessOrEqual, ApproxMatch -- Assertion
//	Substrings         -- Substrings
//	Present            -- AttributeDescription (as a bare string)
//	ExtensibleMatch    -- Extensible
type Filter struct {
	Kind              FilterKind
	Children          []Filter
	Assertion         AttributeValueAssertion
	Substrings        SubstringFilter
	AttributeDescription string
	Extensible        MatchingRuleAssertion
}

// AttributeValueAssertion ::= SEQUENCE {
//	   attributeDesc   AttributeDescription,
//	   assertionValue  AssertionValue }
type AttributeValueAssertion struct {
	Description string
	Value       string
}

// SubstringFilter ::= SEQUENCE {
//	   type           AttributeDescription,
//	   substrings     SEQUENCE SIZE (1..MAX) OF substring CHOICE {
//	    initial [0] AssertionValue,  -- can occur at most once
//	    any     [1] AssertionValue,
//	    final   [2] AssertionValue } -- can occur at most once
//	   }
//
// spec invariant: a second `initial` or `final` part is a ProtocolError,
// not a silent overwrite.
type SubstringFilter struct {
	Type    string
	Initial string
	Any     []string
	Final   string
}

// MatchingRuleAssertion ::= SEQUENCE {
//	   matchingRule    [1] MatchingRuleId OPTIONAL,
//	   type            [2] AttributeDescription OPTIONAL,
//	   matchValue      [3] AssertionValue,
//	   dnAttributes    [4] BOOLEAN DEFAULT FALSE }
type MatchingRuleAssertion struct {
	MatchingRule string
	Type         string
	MatchValue   string
	DNAttributes bool
}

// filterFrameKind marks, inside a grammar.Frame's Kind field, the composite
// (And/Or) frame decodeFilterSet pushes. The frame only tracks how many bytes
// of the SET have been consumed; its Close callback does nothing, and
// decodeFilterSet appends each decoded child to the composite's Children
// itself.
type filterFrameKind struct {
	build *Filter
}

// decodeFilter parses one Filter CHOICE element. data is already fully
// buffered (the enclosing SearchRequest's outer TLV guaranteed that), so
// this recurses directly instead of suspending; for the And/Or case it still
// drives a grammar.Container, whose Push/Bump frame checks that the
// children exactly fill the SET (see grammar.Container.Bump's doc comment).
func decodeFilter(tlv ber.TLV) (Filter, error) {
	if tlv.Tag.Class() != ber.ClassContextSpecific {
		return Filter{}, newProtocolError("Filter element must be context-specific", nil)
	}
	kind := FilterKind(tlv.Tag.Number())
	switch kind {
	case FilterAnd, FilterOr:
		return decodeFilterSet(kind, tlv.Value)
	case FilterNot:
		inner, err := ber.NewCursor(tlv.Value).ReadTLV()
		if err != nil {
			return Filter{}, newProtocolError("malformed `not` filter", err)
		}
		child, err := decodeFilter(inner)
		if err != nil {
			return Filter{}, err
		}
		return Filter{Kind: FilterNot, Children: []Filter{child}}, nil
	case FilterEqualityMatch, FilterGreaterOrEqual, FilterLessOrEqual, FilterApproxMatch:
		assertion, err := decodeAttributeValueAssertion(tlv.Value)
		if err != nil {
			return Filter{}, err
		}
		return Filter{Kind: kind, Assertion: assertion}, nil
	case FilterSubstrings:
		sf, err := decodeSubstringFilter(tlv.Value)
		if err != nil {
			return Filter{}, err
		}
		return Filter{Kind: FilterSubstrings, Substrings: sf}, nil
	case FilterPresent:
		return Filter{Kind: FilterPresent, AttributeDescription: ber.GetOctetString(tlv.Value)}, nil
	case FilterExtensibleMatch:
		m, err := decodeMatchingRuleAssertion(tlv.Value)
		if err != nil {
			return Filter{}, err
		}
		return Filter{Kind: FilterExtensibleMatch, Extensible: m}, nil
	default:
		return Filter{}, newProtocolError("unknown filter choice tag", nil)
	}
}

// decodeFilterSet decodes the SET OF filter body of an And/Or node. It uses
// a grammar.Container purely for length bookkeeping: each top-level child
// TLV is decoded recursively (decodeFilter may itself recurse arbitrarily
// deep for nested And/Or/Not) and appended to the composite's Children, then
// Bump charges its bytes to the composite frame, so a child that overruns
// the SET or a SET that ends short (Done is false) is reported as a
// ProtocolError.
func decodeFilterSet(kind FilterKind, data []byte) (Filter, error) {
	if len(data) == 0 {
		return Filter{}, newProtocolError("And/Or filter set must not be empty", nil)
	}
	composite := &Filter{Kind: kind}
	ctr := grammar.NewContainer(grammar.NewTable(), 0, nil, len(data))
	ctr.Push(len(data), filterFrameKind{build: composite}, func(ctr *grammar.Container) error {
		return nil
	})
	cursor := ber.NewCursor(data)
	for cursor.Remaining() > 0 {
		tlv, err := cursor.ReadTLV()
		if err != nil {
			return Filter{}, newProtocolError("malformed filter set element", err)
		}
		child, err := decodeFilter(tlv)
		if err != nil {
			return Filter{}, err
		}
		composite.Children = append(composite.Children, child)
		consumed := 1 + ber.LengthSize(tlv.Length) + tlv.Length
		if err := ctr.Bump(consumed); err != nil {
			return Filter{}, newProtocolError("filter set element overruns its parent", err)
		}
	}
	if !ctr.Done() {
		return Filter{}, newProtocolError("filter set truncated", nil)
	}
	return *composite, nil
}

func decodeAttributeValueAssertion(data []byte) (AttributeValueAssertion, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return AttributeValueAssertion{}, newProtocolError("malformed AttributeValueAssertion", err)
	}
	if len(children) != 2 {
		return AttributeValueAssertion{}, newProtocolError("AttributeValueAssertion must have exactly 2 elements", nil)
	}
	if children[0].Tag != ber.TagOctetString || children[1].Tag != ber.TagOctetString {
		return AttributeValueAssertion{}, newProtocolError("AttributeValueAssertion elements must be OCTET STRINGs", nil)
	}
	return AttributeValueAssertion{
		Description: ber.GetOctetString(children[0].Value),
		Value:       ber.GetOctetString(children[1].Value),
	}, nil
}

func decodeSubstringFilter(data []byte) (SubstringFilter, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return SubstringFilter{}, newProtocolError("malformed SubstringFilter", err)
	}
	if len(children) != 2 {
		return SubstringFilter{}, newProtocolError("SubstringFilter must have exactly 2 elements", nil)
	}
	if children[0].Tag != ber.TagOctetString {
		return SubstringFilter{}, newProtocolError("SubstringFilter type must be an OCTET STRING", nil)
	}
	sf := SubstringFilter{Type: ber.GetOctetString(children[0].Value)}
	if children[1].Tag != ber.TagSequence {
		return SubstringFilter{}, newProtocolError("SubstringFilter substrings must be a SEQUENCE", nil)
	}
	parts, err := ber.GetSequenceElements(children[1].Value)
	if err != nil {
		return SubstringFilter{}, newProtocolError("malformed substrings", err)
	}
	if len(parts) == 0 {
		return SubstringFilter{}, newProtocolError("SubstringFilter substrings must not be empty", nil)
	}
	for _, p := range parts {
		if p.Tag.Class() != ber.ClassContextSpecific {
			return SubstringFilter{}, newProtocolError("substring element must be context-specific", nil)
		}
		value := ber.GetOctetString(p.Value)
		switch p.Tag.Number() {
		case 0:
			if sf.Initial != "" {
				return SubstringFilter{}, newProtocolError("duplicate `initial` substring", nil)
			}
			sf.Initial = value
		case 1:
			sf.Any = append(sf.Any, value)
		case 2:
			if sf.Final != "" {
				return SubstringFilter{}, newProtocolError("duplicate `final` substring", nil)
			}
			sf.Final = value
		default:
			return SubstringFilter{}, newProtocolError("unknown substring choice tag", nil)
		}
	}
	return sf, nil
}

func decodeMatchingRuleAssertion(data []byte) (MatchingRuleAssertion, error) {
	children, err := ber.GetSequenceElements(data)
	if err != nil {
		return MatchingRuleAssertion{}, newProtocolError("malformed MatchingRuleAssertion", err)
	}
	var m MatchingRuleAssertion
	i := 0
	if i < len(children) && children[i].Tag == ber.ContextSpecific(1, false) {
		m.MatchingRule = ber.GetOctetString(children[i].Value)
		i++
	}
	if i < len(children) && children[i].Tag == ber.ContextSpecific(2, false) {
		m.Type = ber.GetOctetString(children[i].Value)
		i++
	}
	if i >= len(children) || children[i].Tag != ber.ContextSpecific(3, false) {
		return MatchingRuleAssertion{}, newProtocolError("MatchingRuleAssertion missing matchValue", nil)
	}
	m.MatchValue = ber.GetOctetString(children[i].Value)
	i++
	if i < len(children) {
		if children[i].Tag != ber.ContextSpecific(4, false) {
			return MatchingRuleAssertion{}, newProtocolError("unexpected MatchingRuleAssertion element", nil)
		}
		dna, _, err := ber.GetBoolean(children[i].Value)
		if err != nil {
			return MatchingRuleAssertion{}, newProtocolError("invalid dnAttributes boolean", err)
		}
		m.DNAttributes = dna
	}
	return m, nil
}

// encode returns f's context-specific-tagged TLV bytes.
func (f Filter) encode() []byte {
	switch f.Kind {
	case FilterAnd, FilterOr:
		var body []byte
		for _, c := range f.Children {
			body = append(body, c.encode()...)
		}
		return ber.AppendElement(nil, ber.ContextSpecific(uint8(f.Kind), true), body)
	case FilterNot:
		return ber.AppendElement(nil, ber.ContextSpecific(uint8(f.Kind), true), f.Children[0].encode())
	case FilterEqualityMatch, FilterGreaterOrEqual, FilterLessOrEqual, FilterApproxMatch:
		body := append(ber.EncodeOctetString(f.Assertion.Description), ber.EncodeOctetString(f.Assertion.Value)...)
		return ber.AppendElement(nil, ber.ContextSpecific(uint8(f.Kind), true), body)
	case FilterSubstrings:
		return ber.AppendElement(nil, ber.ContextSpecific(uint8(f.Kind), true), f.Substrings.encode())
	case FilterPresent:
		return ber.AppendElement(nil, ber.ContextSpecific(uint8(f.Kind), false), []byte(f.AttributeDescription))
	case FilterExtensibleMatch:
		return ber.AppendElement(nil, ber.ContextSpecific(uint8(f.Kind), true), f.Extensible.encode())
	default:
		return nil
	}
}

func (sf SubstringFilter) encode() []byte {
	body := ber.EncodeOctetString(sf.Type)
	var parts []byte
	if sf.Initial != "" {
		parts = ber.AppendElement(parts, ber.ContextSpecific(0, false), []byte(sf.Initial))
	}
	for _, any := range sf.Any {
		parts = ber.AppendElement(parts, ber.ContextSpecific(1, false), []byte(any))
	}
	if sf.Final != "" {
		parts = ber.AppendElement(parts, ber.ContextSpecific(2, false), []byte(sf.Final))
	}
	body = append(body, ber.EncodeSequence(parts)...)
	return body
}

func (m MatchingRuleAssertion) encode() []byte {
	var body []byte
	if m.MatchingRule != "" {
		body = ber.AppendElement(body, ber.ContextSpecific(1, false), []byte(m.MatchingRule))
	}
	if m.Type != "" {
		body = ber.AppendElement(body, ber.ContextSpecific(2, false), []byte(m.Type))
	}
	body = ber.AppendElement(body, ber.ContextSpecific(3, false), []byte(m.MatchValue))
	if m.DNAttributes {
		body = ber.AppendElement(body, ber.ContextSpecific(4, false), []byte{0xff})
	}
	return body
}
