package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func controlMessage(id int64, ctrl ldap.Control) *ldap.Message {
	return &ldap.Message{
		ID:       id,
		Op:       ldap.DeleteRequest{Object: "cn=old,dc=example,dc=com"},
		Controls: []ldap.Control{ctrl},
	}
}

func TestSortRequestControlRoundTrip(t *testing.T) {
	msg := controlMessage(70, ldap.Control{
		OID: ldap.OIDServerSideSortRequest,
		Decoded: ldap.SortRequestControl{Keys: []ldap.SortKey{
			{AttributeType: "cn", ReverseOrder: true},
			{AttributeType: "sn", OrderingRule: "caseIgnoreOrderingMatch"},
		}},
	})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Controls[0].Decoded.(ldap.SortRequestControl)
	if len(decoded.Keys) != 2 || !decoded.Keys[0].ReverseOrder || decoded.Keys[1].OrderingRule != "caseIgnoreOrderingMatch" {
		t.Fatalf("unexpected decoded SortRequestControl: %+v", decoded)
	}
}

func TestSortResponseControlRoundTrip(t *testing.T) {
	msg := controlMessage(71, ldap.Control{
		OID:     ldap.OIDServerSideSortResponse,
		Decoded: ldap.SortResponseControl{Result: ldap.ResultSuccess, AttributeType: "cn"},
	})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Controls[0].Decoded.(ldap.SortResponseControl)
	if decoded.Result != ldap.ResultSuccess || decoded.AttributeType != "cn" {
		t.Fatalf("unexpected decoded SortResponseControl: %+v", decoded)
	}
}

func TestVLVRequestControlByOffsetRoundTrip(t *testing.T) {
	msg := controlMessage(72, ldap.Control{
		OID: ldap.OIDVirtualListViewRequest,
		Decoded: ldap.VLVRequestControl{
			BeforeCount:  1,
			AfterCount:   2,
			ByOffset:     true,
			Offset:       5,
			ContentCount: 100,
			ContextID:    []byte("ctx"),
		},
	})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Controls[0].Decoded.(ldap.VLVRequestControl)
	if !decoded.ByOffset || decoded.Offset != 5 || decoded.ContentCount != 100 || string(decoded.ContextID) != "ctx" {
		t.Fatalf("unexpected decoded VLVRequestControl: %+v", decoded)
	}
}

func TestVLVRequestControlGreaterThanOrEqualRoundTrip(t *testing.T) {
	msg := controlMessage(73, ldap.Control{
		OID: ldap.OIDVirtualListViewRequest,
		Decoded: ldap.VLVRequestControl{
			BeforeCount:        1,
			AfterCount:         2,
			GreaterThanOrEqual: "jdoe",
		},
	})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Controls[0].Decoded.(ldap.VLVRequestControl)
	if decoded.ByOffset || decoded.GreaterThanOrEqual != "jdoe" {
		t.Fatalf("unexpected decoded VLVRequestControl: %+v", decoded)
	}
}

func TestVLVResponseControlRoundTrip(t *testing.T) {
	msg := controlMessage(74, ldap.Control{
		OID: ldap.OIDVirtualListViewResponse,
		Decoded: ldap.VLVResponseControl{
			TargetPosition: 3,
			ContentCount:   50,
			Result:         ldap.ResultSuccess,
			ContextID:      []byte("ctx"),
		},
	})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Controls[0].Decoded.(ldap.VLVResponseControl)
	if decoded.TargetPosition != 3 || decoded.ContentCount != 50 || decoded.Result != ldap.ResultSuccess {
		t.Fatalf("unexpected decoded VLVResponseControl: %+v", decoded)
	}
}

func TestManageDsaITMarkerControlRoundTrip(t *testing.T) {
	msg := controlMessage(75, ldap.Control{OID: ldap.OIDManageDsaIT, Decoded: struct{}{}})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	ctrl := outcome.Message.Controls[0]
	if ctrl.HasValue {
		t.Fatalf("ManageDsaIT must not carry a controlValue, got HasValue=true")
	}
}

func TestPasswordPolicyResponseControlGraceAuthNsRoundTrip(t *testing.T) {
	msg := controlMessage(76, ldap.Control{
		OID: ldap.OIDPasswordPolicyResponse,
		Decoded: ldap.PasswordPolicyResponseControl{
			Warning: ldap.PasswordPolicyWarning{
				Present:              true,
				IsGraceAuthNs:        true,
				GraceAuthNsRemaining: 2,
			},
			ErrorSet: true,
			Error:    1,
		},
	})
	buf, err := ldap.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	outcome := ldap.Decode(buf)
	if outcome.Message == nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	decoded := outcome.Message.Controls[0].Decoded.(ldap.PasswordPolicyResponseControl)
	if !decoded.Warning.Present || !decoded.Warning.IsGraceAuthNs || decoded.Warning.GraceAuthNsRemaining != 2 {
		t.Fatalf("unexpected decoded warning: %+v", decoded.Warning)
	}
	if !decoded.ErrorSet || decoded.Error != 1 {
		t.Fatalf("unexpected decoded error: %+v", decoded)
	}
}
