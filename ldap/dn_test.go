package ldap_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ldap"
)

func TestParseDNFastPath(t *testing.T) {
	dn, err := ldap.ParseDN("cn=admin,dc=example,dc=com")
	if err != nil {
		t.Fatalf("ParseDN: %v", err)
	}
	if len(dn) != 3 {
		t.Fatalf("len(dn) = %d, want 3", len(dn))
	}
	if dn[0][0].Type != "cn" || dn[0][0].Value != "admin" {
		t.Fatalf("unexpected first RDN: %+v", dn[0])
	}
	if dn.String() != "cn=admin,dc=example,dc=com" {
		t.Fatalf("String() = %q", dn.String())
	}
}

func TestParseDNEmpty(t *testing.T) {
	dn, err := ldap.ParseDN("")
	if err != nil || len(dn) != 0 {
		t.Fatalf("ParseDN(\"\") = %+v, %v", dn, err)
	}
}

func TestParseDNRejectsMissingEquals(t *testing.T) {
	_, err := ldap.ParseDN("notanrdn,dc=example,dc=com")
	if _, ok := err.(*ldap.InvalidDnSyntax); !ok {
		t.Fatalf("expected *InvalidDnSyntax, got %v (%T)", err, err)
	}
}

func TestParseDNComplexEscaping(t *testing.T) {
	dn, err := ldap.ParseDN(`cn=Doe\, John,dc=example,dc=com`)
	if err != nil {
		t.Fatalf("ParseDN: %v", err)
	}
	if len(dn) != 3 {
		t.Fatalf("len(dn) = %d, want 3", len(dn))
	}
	if dn[0][0].Value != "Doe, John" {
		t.Fatalf("unescaped value = %q, want %q", dn[0][0].Value, "Doe, John")
	}
}

func TestParseDNMultiValuedRDN(t *testing.T) {
	dn, err := ldap.ParseDN("cn=admin+uid=admin,dc=example,dc=com")
	if err != nil {
		t.Fatalf("ParseDN: %v", err)
	}
	if len(dn) != 3 || len(dn[0]) != 2 {
		t.Fatalf("unexpected structure: %+v", dn)
	}
	if dn[0][0].Type != "cn" || dn[0][1].Type != "uid" {
		t.Fatalf("unexpected multi-valued RDN: %+v", dn[0])
	}
}

func TestParseDNHexStringValue(t *testing.T) {
	// #04026162 -- OCTET STRING of "ab"
	dn, err := ldap.ParseDN("cn=#04026162,dc=example,dc=com")
	if err != nil {
		t.Fatalf("ParseDN: %v", err)
	}
	if dn[0][0].Value != "ab" {
		t.Fatalf("decoded hex-string value = %q, want %q", dn[0][0].Value, "ab")
	}
}

func TestParseDNEqual(t *testing.T) {
	a, _ := ldap.ParseDN("cn=admin,dc=example,dc=com")
	b, _ := ldap.ParseDN("cn=admin,dc=example,dc=com")
	c, _ := ldap.ParseDN("cn=other,dc=example,dc=com")
	if !a.Equal(b) {
		t.Fatal("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Fatal("expected !a.Equal(c)")
	}
}
