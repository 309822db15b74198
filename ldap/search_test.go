package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func TestSearchResultEntryRoundTrip(t *testing.T) {
	msg := &ldap.Message{
		ID: 10,
		Op: ldap.SearchResultEntry{
			ObjectName: "uid=jdoe,dc=example,dc=com",
			Attributes: []ldap.Attribute{
				{Description: "uid", Values: []ldap.AttributeValue{{Text: "jdoe"}}},
				{Description: "sn", Values: []ldap.AttributeValue{{Text: "Doe"}}},
			},
		},
	}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	entry := outcome.Message.Op.(ldap.SearchResultEntry)
	if entry.ObjectName != "uid=jdoe,dc=example,dc=com" || len(entry.Attributes) != 2 {
		t.Fatalf("unexpected decoded entry: %+v", entry)
	}
}

func TestSearchResultReferenceRequiresAtLeastOneURI(t *testing.T) {
	msg := &ldap.Message{ID: 11, Op: ldap.SearchResultReference{URIs: nil}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Protocol == nil {
		t.Fatalf("expected ProtocolError for empty SearchResultReference, got %+v", outcome)
	}
}

func TestSearchResultReferenceRoundTrip(t *testing.T) {
	msg := &ldap.Message{ID: 12, Op: ldap.SearchResultReference{
		URIs: []string{"ldap://a.example.com/", "ldap://b.example.com/"},
	}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	ref := outcome.Message.Op.(ldap.SearchResultReference)
	if len(ref.URIs) != 2 || ref.URIs[0] != "ldap://a.example.com/" {
		t.Fatalf("unexpected decoded reference: %+v", ref)
	}
}

func TestSearchRequestRejectsUnknownScope(t *testing.T) {
	msg := &ldap.Message{ID: 13, Op: ldap.SearchRequest{
		Scope:  ldap.SearchScope(5), // out of the defined 0..2 range
		Filter: ldap.Filter{Kind: ldap.FilterPresent, AttributeDescription: "cn"},
	}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Protocol == nil {
		t.Fatalf("expected ProtocolError for an out-of-range scope, got %+v", outcome)
	}
}
