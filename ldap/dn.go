package ldap

import "strings"

// DN is a parsed LDAP distinguished name: an ordered sequence of relative
// distinguished names, most-specific first (RFC 4514).
type DN []RDN

// RDN is one relative distinguished name: one or more type=value pairs
// joined by '+' (a multi-valued RDN).
type RDN []RDNAttribute

// RDNAttribute is one type=value component of an RDN.
type RDNAttribute struct {
	Type  string
	Value string
}

func (d DN) String() string {
	var b strings.Builder
	for i, rdn := range d {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(rdn.String())
	}
	return b.String()
}

// Equal reports whether d and other name the same entry, comparing RDNs and
// their attributes in order. This is a structural comparison, not a
// case-insensitive schema-aware one — callers needing matching-rule-correct
// DN comparison must bring their own schema, which is outside this codec's
// scope.
func (d DN) Equal(other DN) bool {
	if len(d) != len(other) {
		return false
	}
	for i, rdn := range d {
		if !rdn.Equal(other[i]) {
			return false
		}
	}
	return true
}

func (r RDN) String() string {
	var b strings.Builder
	for i, attr := range r {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(attr.String())
	}
	return b.String()
}

func (r RDN) Equal(other RDN) bool {
	if len(r) != len(other) {
		return false
	}
	for i, attr := range r {
		if attr.Type != other[i].Type || attr.Value != other[i].Value {
			return false
		}
	}
	return true
}

func (a RDNAttribute) String() string {
	return a.Type + "=" + escapeAttributeValue(a.Value)
}

// errNeedsComplex is the package-internal sentinel error tryParseDNFast
// returns when s contains any feature the fast path declines to handle:
// backslash escapes, a leading '#' hex-string value, or a multi-valued RDN.
// ParseDN itself never returns this to its caller — it falls through to
// parseDNComplex instead.
type needsComplexSentinel struct{}

func (needsComplexSentinel) Error() string { return "ldap: DN requires the complex parser" }

var errNeedsComplex error = needsComplexSentinel{}

// ParseDN parses s into a DN, trying a fast ASCII-only parser first (the
// common case: no escaping, no hex-pair values, no multi-valued RDNs) and
// falling back to the full RFC 4514 parser (dn_complex.go) the moment it
// sees a feature the fast path doesn't handle. An actually-invalid DN
// raises InvalidDnSyntax from whichever parser detects it.
func ParseDN(s string) (DN, error) {
	dn, err := tryParseDNFast(s)
	if err == errNeedsComplex {
		return parseDNComplex(s)
	}
	return dn, err
}

// tryParseDNFast handles the common, escape-free case directly: DN is a
// comma-separated list of RDNs, each RDN a single type=value pair with no
// '+', no '\\', and no leading '#'. Any of those features trips
// errNeedsComplex so the caller retries with the complex parser.
func tryParseDNFast(s string) (DN, error) {
	if s == "" {
		return nil, nil
	}
	if strings.ContainsAny(s, `\+#`) {
		return nil, errNeedsComplex
	}
	var dn DN
	for _, part := range strings.Split(s, ",") {
		eq := strings.IndexByte(part, '=')
		if eq <= 0 {
			return nil, newInvalidDnSyntax(s, "missing '=' in RDN component")
		}
		typ := part[:eq]
		val := part[eq+1:]
		if !isAttributeTypeName(typ) {
			return nil, newInvalidDnSyntax(s, "invalid attribute type name: "+typ)
		}
		dn = append(dn, RDN{{Type: typ, Value: val}})
	}
	return dn, nil
}

func isAttributeTypeName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// InvalidDnSyntax reports that a DN's syntax could not be parsed by either
// the fast or complex parser. It carries the original string so a caller
// building a ResponseCarryingError can echo it back in a diagnostic
// message.
type InvalidDnSyntax struct {
	DN     string
	Reason string
}

func (e *InvalidDnSyntax) Error() string {
	return "ldap: invalid DN syntax: " + e.Reason + ": " + e.DN
}

func newInvalidDnSyntax(dn, reason string) *InvalidDnSyntax {
	return &InvalidDnSyntax{DN: dn, Reason: reason}
}

func escapeAttributeValue(value string) string {
	var buf []byte
	for i := 0; i < len(value); i++ {
		b := value[i]
		switch b {
		case ' ':
			if i == 0 || i == len(value)-1 {
				buf = append(buf, '\\', b)
			} else {
				buf = append(buf, b)
			}
		case '#':
			if i == 0 {
				buf = append(buf, '\\', b)
			} else {
				buf = append(buf, b)
			}
		case '"', '+', ',', ';', '<', '>', '\\', '=':
			buf = append(buf, '\\', b)
		default:
			buf = append(buf, b)
		}
	}
	return string(buf)
}
