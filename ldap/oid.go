package ldap

import "strings"

// OID is an LDAPOID: an OCTET STRING constrained to the <numericoid>
// production of RFC 4512 — number 1*( DOT number ), each number matching
// [0-9]+ with no leading zero unless the number is exactly "0".
type OID string

// Well-known OIDs referenced by the built-in control/extended-operation
// registry (registry.go) and by the grammar's own reducers.
const (
	OIDNamingContexts          OID = "1.3.6.1.4.1.1466.101.120.5"
	OIDSupportedControl        OID = "1.3.6.1.4.1.1466.101.120.13"
	OIDSupportedExtension      OID = "1.3.6.1.4.1.1466.101.120.7"
	OIDSupportedFeatures       OID = "1.3.6.1.4.1.4203.1.3.5"
	OIDSupportedLDAPVersion    OID = "1.3.6.1.4.1.1466.101.120.15"
	OIDSupportedSASLMechanisms OID = "1.3.6.1.4.1.1466.101.120.14"
	OIDNoticeOfDisconnection   OID = "1.3.6.1.4.1.1466.20036"
	OIDStartTLS                OID = "1.3.6.1.4.1.1466.20037"
	OIDPasswordModify          OID = "1.3.6.1.4.1.4203.1.11.1"

	OIDPagedResults  OID = "1.2.840.113556.1.4.319"
	OIDServerSideSortRequest  OID = "1.2.840.113556.1.4.473"
	OIDServerSideSortResponse OID = "1.2.840.113556.1.4.474"
	OIDVirtualListViewRequest  OID = "2.16.840.1.113730.3.4.9"
	OIDVirtualListViewResponse OID = "2.16.840.1.113730.3.4.10"
	OIDManageDsaIT             OID = "2.16.840.1.113730.3.4.2"
	OIDPasswordPolicyResponse  OID = "1.3.6.1.4.1.42.2.27.8.5.1"
	OIDEntryUUID               OID = "1.3.6.1.1.16.4"
)

// ParseOID validates s against <numericoid> and returns it as an OID.
// Unlike the loose `^[0-9]+(\.[0-9]+)*$` regex a naive implementation might
// reach for, this also rejects components with a leading zero (e.g.
// "1.05.3"), which RFC 4512's grammar disallows: "number = '0' | positive
// DIGIT *DIGIT".
func ParseOID(s string) (OID, error) {
	if s == "" {
		return "", newProtocolError("OID must not be empty", nil)
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return "", newProtocolError("OID must have at least two components", nil)
	}
	for _, p := range parts {
		if p == "" {
			return "", newProtocolError("OID component must not be empty", nil)
		}
		if p[0] == '0' && len(p) > 1 {
			return "", newProtocolError("OID component must not have a leading zero: "+p, nil)
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return "", newProtocolError("OID component must be all digits: "+p, nil)
			}
		}
	}
	return OID(s), nil
}

// Validate reports whether oid conforms to <numericoid>.
func (oid OID) Validate() error {
	_, err := ParseOID(string(oid))
	return err
}

func (oid OID) String() string { return string(oid) }
