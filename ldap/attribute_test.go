package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func TestAttributeBinaryOptionRoundTrip(t *testing.T) {
	msg := &ldap.Message{ID: 50, Op: ldap.AddRequest{
		Entry: "cn=cert,dc=example,dc=com",
		Attributes: []ldap.Attribute{
			{Description: "objectClass", Values: []ldap.AttributeValue{{Text: "inetOrgPerson"}}},
			{Description: "userCertificate;binary", Values: []ldap.AttributeValue{
				{IsBinary: true, Binary: []byte{0x30, 0x03, 0x02, 0x01, 0x01}},
			}},
		},
	}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	req := outcome.Message.Op.(ldap.AddRequest)
	var cert ldap.Attribute
	for _, a := range req.Attributes {
		if a.Description == "userCertificate;binary" {
			cert = a
		}
	}
	if len(cert.Values) != 1 || !cert.Values[0].IsBinary {
		t.Fatalf("unexpected decoded certificate attribute: %+v", cert)
	}
	if string(cert.Values[0].Binary) != string([]byte{0x30, 0x03, 0x02, 0x01, 0x01}) {
		t.Fatalf("unexpected binary value: %x", cert.Values[0].Binary)
	}
}

func TestAttributeValueBytes(t *testing.T) {
	text := ldap.AttributeValue{Text: "hello"}
	if string(text.Bytes()) != "hello" {
		t.Fatalf("Bytes() = %q, want %q", text.Bytes(), "hello")
	}
	bin := ldap.AttributeValue{IsBinary: true, Binary: []byte{1, 2, 3}}
	if string(bin.Bytes()) != string([]byte{1, 2, 3}) {
		t.Fatalf("Bytes() = %x", bin.Bytes())
	}
}

func TestWithGeneratedEntryUUIDAddsWhenMissing(t *testing.T) {
	attrs := []ldap.Attribute{
		{Description: "cn", Values: []ldap.AttributeValue{{Text: "jdoe"}}},
	}
	out := ldap.WithGeneratedEntryUUID(attrs)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[1].Description != "entryUUID" || len(out[1].Values) != 1 {
		t.Fatalf("unexpected generated attribute: %+v", out[1])
	}
	if out[1].Values[0].Text == "" {
		t.Fatal("expected a non-empty generated UUID")
	}
}

func TestWithGeneratedEntryUUIDLeavesExistingAlone(t *testing.T) {
	attrs := []ldap.Attribute{
		{Description: "entryUUID", Values: []ldap.AttributeValue{{Text: "fixed-value"}}},
	}
	out := ldap.WithGeneratedEntryUUID(attrs)
	if len(out) != 1 || out[0].Values[0].Text != "fixed-value" {
		t.Fatalf("unexpected mutation of existing entryUUID: %+v", out)
	}
}
