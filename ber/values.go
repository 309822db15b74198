package ber

// GetBoolean decodes a BOOLEAN element's value octets. Per RFC 4511 the
// only valid encoding of TRUE is 0xFF, but many deployments encode TRUE as
// any non-zero byte; that is accepted here (warn reports whether the byte
// deviated from 0xFF so the caller can log it) rather than rejected, per
// spec Open Question #1.
func GetBoolean(data []byte) (value bool, warn bool, err error) {
	if len(data) != 1 {
		return false, false, newMalformed("boolean value must be one byte", nil)
	}
	b := data[0]
	value = b != 0x00
	warn = value && b != 0xFF
	return value, warn, nil
}

// GetInteger decodes a two's-complement INTEGER or ENUMERATED value. Input
// is not required to use the minimal encoding; a leading all-zero or
// all-one byte that doesn't affect the value is accepted.
func GetInteger(data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, newMalformed("integer value must not be empty", nil)
	}
	if len(data) > 8 {
		return 0, newMalformed("integer too large for int64", nil)
	}
	var n int64
	for _, b := range data {
		n = n<<8 | int64(b)
	}
	shift := uint(64 - len(data)*8)
	n <<= shift
	n >>= shift
	return n, nil
}

// GetEnumerated is an alias for GetInteger: ENUMERATED and INTEGER share an
// encoding in BER.
func GetEnumerated(data []byte) (int64, error) { return GetInteger(data) }

// GetOctetString returns the raw bytes of an OCTET STRING value as a string
// (LDAP octet strings are not required to be valid UTF-8 in all contexts,
// e.g. binary attribute values, so no validation happens here).
func GetOctetString(data []byte) string { return string(data) }
