package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ber"
	"github.com/go-ldapwire/ldapwire/ldap"
)

func TestDecodeAbandonRoundTrip(t *testing.T) {
	// messageID 3, AbandonRequest(2) -- the exact bytes from spec §8.3
	// scenario 1.
	buf := []byte{0x30, 0x06, 0x02, 0x01, 0x03, 0x50, 0x01, 0x02}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	msg := outcome.Message
	if msg.ID != 3 {
		t.Fatalf("messageID = %d, want 3", msg.ID)
	}
	req, ok := msg.Op.(ldap.AbandonRequest)
	if !ok {
		t.Fatalf("Op is %T, want AbandonRequest", msg.Op)
	}
	if req.AbandonedMessageID != 2 {
		t.Fatalf("AbandonedMessageID = %d, want 2", req.AbandonedMessageID)
	}
	encoded, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) != len(buf) {
		t.Fatalf("re-encoded length = %d, want %d", len(encoded), len(buf))
	}
	for i := range buf {
		if encoded[i] != buf[i] {
			t.Fatalf("re-encoded byte %d = %x, want %x", i, encoded[i], buf[i])
		}
	}
}

func TestDecodeSimpleBindRequest(t *testing.T) {
	msg := &ldap.Message{
		ID: 1,
		Op: ldap.BindRequest{
			Version:        3,
			Name:           "cn=admin,dc=example,dc=com",
			AuthType:       ldap.AuthenticationSimple,
			SimplePassword: "secret",
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
	req, ok := outcome.Message.Op.(ldap.BindRequest)
	if !ok {
		t.Fatalf("Op is %T, want BindRequest", outcome.Message.Op)
	}
	if req.Version != 3 || req.Name != "cn=admin,dc=example,dc=com" || req.SimplePassword != "secret" {
		t.Fatalf("unexpected decoded request: %+v", req)
	}
}

func TestDecodeSearchRequestNestedFilter(t *testing.T) {
	// (&(cn=a)(|(sn=b)(sn=c)))
	and := ldap.Filter{Kind: ldap.FilterAnd, Children: []ldap.Filter{
		{Kind: ldap.FilterEqualityMatch, Assertion: ldap.AttributeValueAssertion{Description: "cn", Value: "a"}},
		{Kind: ldap.FilterOr, Children: []ldap.Filter{
			{Kind: ldap.FilterEqualityMatch, Assertion: ldap.AttributeValueAssertion{Description: "sn", Value: "b"}},
			{Kind: ldap.FilterEqualityMatch, Assertion: ldap.AttributeValueAssertion{Description: "sn", Value: "c"}},
		}},
	}}
	msg := &ldap.Message{
		ID: 2,
		Op: ldap.SearchRequest{
			BaseObject:   "",
			Scope:        ldap.SearchScopeWholeSubtree,
			DerefAliases: ldap.AliasDerefNever,
			SizeLimit:    0,
			TimeLimit:    0,
			TypesOnly:    false,
			Filter:       and,
			Attributes:   []string{"cn", "sn"},
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
	req, ok := outcome.Message.Op.(ldap.SearchRequest)
	if !ok {
		t.Fatalf("Op is %T, want SearchRequest", outcome.Message.Op)
	}
	if req.Filter.Kind != ldap.FilterAnd || len(req.Filter.Children) != 2 {
		t.Fatalf("unexpected decoded filter: %+v", req.Filter)
	}
	or := req.Filter.Children[1]
	if or.Kind != ldap.FilterOr || len(or.Children) != 2 {
		t.Fatalf("unexpected decoded Or node: %+v", or)
	}

	reencoded, err := ldap.Encode(outcome.Message)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if len(reencoded) != len(buf) {
		t.Fatalf("re-encoded length = %d, want %d", len(reencoded), len(buf))
	}
}

func TestDecodeAddRequestInvalidDN(t *testing.T) {
	msg := &ldap.Message{
		ID: 4,
		Op: ldap.AddRequest{
			Entry: "this is not a dn==",
			Attributes: []ldap.Attribute{
				{Description: "objectClass", Values: []ldap.AttributeValue{{Text: "top"}}},
			},
		},
	}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Response == nil {
		t.Fatalf("expected ResponseCarryingError, got %+v", outcome)
	}
	if outcome.Response.MessageID != 4 {
		t.Fatalf("MessageID = %d, want 4", outcome.Response.MessageID)
	}
	if outcome.Response.SuggestedResultCode != ldap.ResultInvalidDNSyntax {
		t.Fatalf("SuggestedResultCode = %d, want ResultInvalidDNSyntax", outcome.Response.SuggestedResultCode)
	}
}

func TestDecodeBindResponseWithReferrals(t *testing.T) {
	msg := &ldap.Message{
		ID: 5,
		Op: ldap.BindResponse{
			Result: ldap.Result{
				Code:     ldap.ResultReferral,
				Referral: []string{"ldap://other.example.com/"},
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
	resp, ok := outcome.Message.Op.(ldap.BindResponse)
	if !ok {
		t.Fatalf("Op is %T, want BindResponse", outcome.Message.Op)
	}
	if len(resp.Referral) != 1 || resp.Referral[0] != "ldap://other.example.com/" {
		t.Fatalf("unexpected referral: %+v", resp.Referral)
	}
}

func TestDecodeSplitBuffer(t *testing.T) {
	buf := []byte{0x30, 0x06, 0x02, 0x01, 0x03, 0x50, 0x01, 0x02}
	for split := 0; split < len(buf); split++ {
		outcome := ldap.Decode(buf[:split])
		if !outcome.NeedMoreBytes {
			t.Fatalf("split=%d: expected NeedMoreBytes, got %+v", split, outcome)
		}
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("full buffer: expected a decoded message, got %+v", outcome)
	}
}

func TestDecodeClientRequestWithMessageIDZeroIsProtocolError(t *testing.T) {
	msg := &ldap.Message{ID: 0, Op: ldap.AbandonRequest{AbandonedMessageID: 2}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Protocol == nil {
		t.Fatalf("expected ProtocolError, got %+v", outcome)
	}
}

func TestDecodeUnsolicitedExtendedResponseWithMessageIDZero(t *testing.T) {
	msg := &ldap.Message{ID: 0, Op: ldap.ExtendedResponse{
		Result: ldap.Result{Code: ldap.ResultSuccess},
	}}
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("expected a decoded message, got %+v", outcome)
	}
}

func TestDecodeUnknownApplicationTagIsProtocolError(t *testing.T) {
	buf := []byte{
		0x30, 0x05,
		0x02, 0x01, 0x01,
		byte(ber.Application(30, false)), 0x00,
	}
	outcome := ldap.Decode(buf)
	if outcome.Protocol == nil {
		t.Fatalf("expected ProtocolError, got %+v", outcome)
	}
}
