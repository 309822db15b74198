package ber

// MaxInt is the largest value an LDAP INTEGER is allowed to carry in most
// contexts: maxInt INTEGER ::= 2147483647 -- (2^31 - 1).
const MaxInt = 2147483647

// TLV is one decoded tag-length-value triple. Value aliases the original
// buffer; callers must not retain it past the buffer's lifetime if the
// buffer is reused.
type TLV struct {
	Tag    Tag
	Length int
	Value  []byte
}

// Cursor is a read-only, non-backtracking position within a byte buffer.
// Every successful read advances Off; a read that cannot yet be completed
// (because the buffer doesn't hold enough bytes) leaves Off untouched and
// returns ErrNeedMoreBytes, so the same call can be retried verbatim once
// more bytes have arrived.
type Cursor struct {
	Buf []byte
	Off int
}

// NewCursor wraps buf for reading starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{Buf: buf}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.Buf) - c.Off }

// PeekTag returns the tag of the next TLV without consuming any input. It
// is the one byte of lookahead the grammar engine uses to pick a
// transition.
func (c *Cursor) PeekTag() (Tag, error) {
	if c.Off >= len(c.Buf) {
		return 0, ErrNeedMoreBytes
	}
	tag := Tag(c.Buf[c.Off])
	if tag.IsLongForm() {
		return 0, newMalformed("long-form tag not supported", nil)
	}
	return tag, nil
}

// ReadTLV reads one complete TLV and advances the cursor past it. If the
// buffer does not yet contain the full TLV, it returns ErrNeedMoreBytes and
// leaves the cursor untouched.
func (c *Cursor) ReadTLV() (TLV, error) {
	tlv, consumed, err := peekTLV(c.Buf, c.Off)
	if err != nil {
		return TLV{}, err
	}
	c.Off += consumed
	return tlv, nil
}

// peekTLV parses one TLV starting at offset without mutating any state; it
// reports how many bytes the TLV occupies (header + payload) so the caller
// can advance its own cursor once it decides to commit the read.
func peekTLV(buf []byte, offset int) (tlv TLV, consumed int, err error) {
	if offset >= len(buf) {
		return TLV{}, 0, ErrNeedMoreBytes
	}
	tag := Tag(buf[offset])
	if tag.IsLongForm() {
		return TLV{}, 0, newMalformed("long-form tag not supported", nil)
	}
	pos := offset + 1
	if pos >= len(buf) {
		return TLV{}, 0, ErrNeedMoreBytes
	}
	lengthByte := buf[pos]
	pos++
	var length int
	switch {
	case lengthByte == 0x80:
		return TLV{}, 0, newMalformed("indefinite length not supported", nil)
	case lengthByte < 0x80:
		length = int(lengthByte)
	default:
		nbytes := int(lengthByte &^ 0x80)
		if nbytes > 4 {
			return TLV{}, 0, newMalformed("length encoding too long", nil)
		}
		if pos+nbytes > len(buf) {
			return TLV{}, 0, ErrNeedMoreBytes
		}
		var n uint32
		for i := 0; i < nbytes; i++ {
			n <<= 8
			n |= uint32(buf[pos+i])
		}
		pos += nbytes
		if n > MaxInt {
			return TLV{}, 0, newMalformed("length exceeds maxInt", nil)
		}
		length = int(n)
	}
	end := pos + length
	if end > len(buf) {
		return TLV{}, 0, ErrNeedMoreBytes
	}
	tlv = TLV{Tag: tag, Length: length, Value: buf[pos:end]}
	consumed = end - offset
	return tlv, consumed, nil
}

// GetSequenceElements parses the value of a constructed SEQUENCE/SET into
// its immediate child TLVs. Unlike Cursor.ReadTLV, a truncated child here is
// a Malformed error (not NeedMoreBytes): the parent's own length already
// bounded this slice as complete.
func GetSequenceElements(data []byte) ([]TLV, error) {
	elements := make([]TLV, 0, 1)
	offset := 0
	for offset < len(data) {
		tlv, consumed, err := peekTLV(data, offset)
		if err != nil {
			if err == ErrNeedMoreBytes {
				return nil, newMalformed("truncated sequence element", nil)
			}
			return nil, err
		}
		elements = append(elements, tlv)
		offset += consumed
	}
	return elements, nil
}
