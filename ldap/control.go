package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// Control is one element of a Controls list (RFC 4511 §4.1.11):
//
//	Control ::= SEQUENCE {
//	     controlType      LDAPOID,
//	     criticality      BOOLEAN DEFAULT FALSE,
//	     controlValue     OCTET STRING OPTIONAL }
//
// When the registry (registry.go) has a codec registered for OID, Decoded
// holds the typed payload and RawValue holds its original encoding
// (HasValue reports whether a controlValue was present at all — an absent
// value and an empty-string value are different things). Re-encoding
// prefers Decoded when set, so a caller's mutation to a typed control is
// visible on the wire.
type Control struct {
	OID         OID
	Criticality bool
	HasValue    bool
	RawValue    []byte
	Decoded     any
}

func decodeControls(data []byte) ([]Control, error) {
	entries, err := ber.GetSequenceElements(data)
	if err != nil {
		return nil, newProtocolError("malformed Controls", err)
	}
	controls := make([]Control, 0, len(entries))
	for _, entry := range entries {
		if entry.Tag != ber.TagSequence {
			return nil, newProtocolError("Control must be a SEQUENCE", nil)
		}
		parts, err := ber.GetSequenceElements(entry.Value)
		if err != nil {
			return nil, newProtocolError("malformed Control", err)
		}
		if len(parts) < 1 || len(parts) > 3 {
			return nil, newProtocolError("Control must have 1 to 3 elements", nil)
		}
		if parts[0].Tag != ber.TagOctetString {
			return nil, newProtocolError("Control controlType must be an OCTET STRING", nil)
		}
		oid, err := ParseOID(ber.GetOctetString(parts[0].Value))
		if err != nil {
			return nil, newProtocolError("invalid Control controlType", err)
		}
		ctrl := Control{OID: oid}
		rest := parts[1:]
		if len(rest) > 0 && rest[0].Tag == ber.TagBoolean {
			crit, warn, err := ber.GetBoolean(rest[0].Value)
			if err != nil {
				return nil, newProtocolError("invalid Control criticality", err)
			}
			if warn {
				logWarn("control criticality boolean was not exactly 0xFF", "oid", string(oid))
			}
			ctrl.Criticality = crit
			rest = rest[1:]
		}
		if len(rest) > 0 {
			if rest[0].Tag != ber.TagOctetString {
				return nil, newProtocolError("Control controlValue must be an OCTET STRING", nil)
			}
			ctrl.HasValue = true
			ctrl.RawValue = append([]byte(nil), rest[0].Value...)
			rest = rest[1:]
		}
		if len(rest) > 0 {
			return nil, newProtocolError("unexpected trailing Control elements", nil)
		}
		if codec, ok := lookupControlCodec(string(oid)); ok {
			decoded, err := codec.Decode(ctrl.RawValue, ctrl.HasValue)
			if err != nil {
				return nil, newProtocolError("malformed control value for "+string(oid), err)
			}
			ctrl.Decoded = decoded
		}
		controls = append(controls, ctrl)
	}
	return controls, nil
}

// encodeControls builds each Control's SEQUENCE through the two-phase
// encoder (element/computeLength/serialize) and concatenates the results,
// leaving the enclosing [0] Controls tag to the caller.
func encodeControls(controls []Control) []byte {
	var out []byte
	for _, c := range controls {
		fields := []element{primitiveElement(ber.TagOctetString, []byte(c.OID))}
		if c.Criticality {
			fields = append(fields, primitiveElement(ber.TagBoolean, []byte{0xff}))
		}
		value := c.RawValue
		hasValue := c.HasValue
		if c.Decoded != nil {
			if codec, ok := lookupControlCodec(string(c.OID)); ok {
				value = codec.Encode(c.Decoded)
				hasValue = value != nil
			}
		}
		if hasValue {
			fields = append(fields, primitiveElement(ber.TagOctetString, value))
		}
		out = append(out, encodeElement(constructedElement(ber.TagSequence, fields...))...)
	}
	return out
}
