package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func TestIntermediateResponseRoundTrip(t *testing.T) {
	msg := &ldap.Message{ID: 40, Op: ldap.IntermediateResponse{
		HasName:  true,
		Name:     ldap.OID("1.3.6.1.4.1.4203.1.9.1.4"),
		HasValue: true,
		RawValue: []byte{0x04, 0x03, 'c', 'n', '='},
	}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	resp := outcome.Message.Op.(ldap.IntermediateResponse)
	if !resp.HasName || resp.Name != "1.3.6.1.4.1.4203.1.9.1.4" || !resp.HasValue {
		t.Fatalf("unexpected decoded response: %+v", resp)
	}
}

func TestIntermediateResponseNoFieldsRoundTrip(t *testing.T) {
	msg := &ldap.Message{ID: 41, Op: ldap.IntermediateResponse{}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	resp := outcome.Message.Op.(ldap.IntermediateResponse)
	if resp.HasName || resp.HasValue {
		t.Fatalf("unexpected decoded response: %+v", resp)
	}
}
