package ldap

import (
	"strconv"
	"strings"

	"github.com/go-ldapwire/ldapwire/ber"
)

// parseDNComplex implements the full RFC 4514 grammar: backslash-escaped
// special characters and hex pairs, '#'-prefixed hex-string (BER-encoded)
// values, and multi-valued RDNs joined by unescaped '+'. ParseDN falls
// through to this once the fast path in dn.go bails out.
func parseDNComplex(s string) (DN, error) {
	var dn DN
	for _, rdnPart := range splitUnescaped(s, ',') {
		var rdn RDN
		for _, attrPart := range splitUnescaped(rdnPart, '+') {
			eq := strings.IndexByte(attrPart, '=')
			if eq <= 0 {
				return nil, newInvalidDnSyntax(s, "missing '=' in RDN component")
			}
			typ := attrPart[:eq]
			if !isAttributeTypeName(typ) {
				return nil, newInvalidDnSyntax(s, "invalid attribute type name: "+typ)
			}
			value, err := decodeAttributeValue(attrPart[eq+1:])
			if err != nil {
				return nil, newInvalidDnSyntax(s, err.Error())
			}
			rdn = append(rdn, RDNAttribute{Type: typ, Value: value})
		}
		dn = append(dn, rdn)
	}
	return dn, nil
}

// splitUnescaped splits s on sep, treating a sep preceded by an odd number
// of consecutive backslashes as escaped (and therefore not a split point).
func splitUnescaped(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	parts := make([]string, 0, 1)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != sep {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// decodeAttributeValue unescapes one RDN value per RFC 4514 §2.4: a
// leading '#' introduces a hex-pair-encoded BER OCTET STRING (used for
// binary attribute values), otherwise backslash-pairs and backslash-hex
// escapes are resolved in place.
func decodeAttributeValue(s string) (string, error) {
	if s == "" {
		return s, nil
	}
	if s[0] == '#' {
		if len(s)%2 == 0 {
			return "", newProtocolError("hex-string DN value must have an even number of hex digits", nil)
		}
		raw := make([]byte, 0, (len(s)-1)/2)
		for i := 1; i < len(s); i += 2 {
			b, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return "", newProtocolError("invalid hex pair in DN value", err)
			}
			raw = append(raw, byte(b))
		}
		tlv, err := ber.NewCursor(raw).ReadTLV()
		if err != nil {
			return "", newProtocolError("invalid BER-encoded hex-string DN value", err)
		}
		if tlv.Tag != ber.TagOctetString {
			return "", newProtocolError("hex-string DN value is not an OCTET STRING", nil)
		}
		return ber.GetOctetString(tlv.Value), nil
	}
	var buf []byte
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b != '\\' || i+1 >= len(s) {
			buf = append(buf, b)
			continue
		}
		next := s[i+1]
		switch next {
		case '"', '+', ',', ';', '<', '>', ' ', '\\', '=', '#':
			buf = append(buf, next)
			i++
		default:
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					buf = append(buf, byte(v))
					i += 2
					continue
				}
			}
			buf = append(buf, b)
		}
	}
	return string(buf), nil
}
