package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func TestFilterAndOrRoundTrip(t *testing.T) {
	f := ldap.Filter{Kind: ldap.FilterAnd, Children: []ldap.Filter{
		{Kind: ldap.FilterEqualityMatch, Assertion: ldap.AttributeValueAssertion{Description: "cn", Value: "a"}},
		{Kind: ldap.FilterOr, Children: []ldap.Filter{
			{Kind: ldap.FilterEqualityMatch, Assertion: ldap.AttributeValueAssertion{Description: "sn", Value: "b"}},
			{Kind: ldap.FilterEqualityMatch, Assertion: ldap.AttributeValueAssertion{Description: "sn", Value: "c"}},
		}},
	}}
	req := ldap.SearchRequest{
		Scope:      ldap.SearchScopeWholeSubtree,
		Filter:     f,
		Attributes: []string{"cn"},
	}
	msg := &ldap.Message{ID: 1, Op: req}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Op.(ldap.SearchRequest).Filter
	if decoded.Kind != ldap.FilterAnd || len(decoded.Children) != 2 {
		t.Fatalf("unexpected decoded filter: %+v", decoded)
	}
	if decoded.Children[0].Assertion.Value != "a" {
		t.Fatalf("unexpected first child: %+v", decoded.Children[0])
	}
}

func TestFilterSubstringsRoundTrip(t *testing.T) {
	f := ldap.Filter{Kind: ldap.FilterSubstrings, Substrings: ldap.SubstringFilter{
		Type:    "cn",
		Initial: "jo",
		Any:     []string{"h", "n"},
		Final:   "doe",
	}}
	req := ldap.SearchRequest{Scope: ldap.SearchScopeBaseObject, Filter: f}
	msg := &ldap.Message{ID: 2, Op: req}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	sf := outcome.Message.Op.(ldap.SearchRequest).Filter.Substrings
	if sf.Initial != "jo" || sf.Final != "doe" || len(sf.Any) != 2 {
		t.Fatalf("unexpected substrings: %+v", sf)
	}
}

func TestFilterPresentRoundTrip(t *testing.T) {
	f := ldap.Filter{Kind: ldap.FilterPresent, AttributeDescription: "objectClass"}
	req := ldap.SearchRequest{Scope: ldap.SearchScopeBaseObject, Filter: f}
	msg := &ldap.Message{ID: 3, Op: req}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Op.(ldap.SearchRequest).Filter
	if decoded.Kind != ldap.FilterPresent || decoded.AttributeDescription != "objectClass" {
		t.Fatalf("unexpected decoded filter: %+v", decoded)
	}
}

func TestFilterExtensibleMatchRoundTrip(t *testing.T) {
	f := ldap.Filter{Kind: ldap.FilterExtensibleMatch, Extensible: ldap.MatchingRuleAssertion{
		MatchingRule: "caseIgnoreMatch",
		Type:         "cn",
		MatchValue:   "fred",
		DNAttributes: true,
	}}
	req := ldap.SearchRequest{Scope: ldap.SearchScopeBaseObject, Filter: f}
	msg := &ldap.Message{ID: 4, Op: req}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	m := outcome.Message.Op.(ldap.SearchRequest).Filter.Extensible
	if m.MatchingRule != "caseIgnoreMatch" || m.Type != "cn" || m.MatchValue != "fred" || !m.DNAttributes {
		t.Fatalf("unexpected decoded assertion: %+v", m)
	}
}
